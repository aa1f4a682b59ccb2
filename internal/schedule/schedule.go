// Package schedule models the hub's day-keyed schedules and converts
// between the compact wire form and a human-editable YAML form.
package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/wiserhub/internal/rest"
	"github.com/dokzlo13/wiserhub/internal/temperature"
)

// Type discriminates the three schedule families the hub supports.
type Type string

const (
	TypeHeating Type = "Heating"
	TypeOnOff   Type = "OnOff"
	TypeLevel   Type = "Level"
)

var (
	// ErrInvalidArgument classifies caller mistakes caught before any
	// request reaches the hub.
	ErrInvalidArgument = errors.New("invalid argument")

	// ErrTypeMismatch rejects copying day data between differing schedule
	// families.
	ErrTypeMismatch = fmt.Errorf("schedule type mismatch: %w", ErrInvalidArgument)
)

// DayNames lists weekday keys in hub order.
var DayNames = []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday", "Sunday"}

// Setting is one decoded schedule value. Which field is meaningful depends
// on the schedule type.
type Setting struct {
	Temperature float64 // TypeHeating
	State       string  // TypeOnOff: "On" or "Off"
	Level       int     // TypeLevel: percent
}

// NextEntry is the upcoming schedule transition as reported by the hub.
type NextEntry struct {
	Day     string
	Time    ClockTime
	Setting Setting
}

// ClockTime is a time of day in the hub's HHMM integer encoding.
type ClockTime int

// NewClockTime builds a ClockTime from hour and minute.
func NewClockTime(hour, minute int) ClockTime {
	return ClockTime(hour*100 + minute)
}

// Hour returns the hour component.
func (c ClockTime) Hour() int { return int(c) / 100 }

// Minute returns the minute component.
func (c ClockTime) Minute() int { return int(c) % 100 }

// String formats as zero-padded "HH:MM".
func (c ClockTime) String() string {
	return fmt.Sprintf("%02d:%02d", c.Hour(), c.Minute())
}

// Schedule wraps one schedule's raw day-keyed payload.
type Schedule struct {
	client *rest.Client
	units  temperature.Units

	id   int
	name string
	typ  Type
	raw  map[string]interface{}
}

// New builds a schedule from its raw snapshot record.
func New(client *rest.Client, units temperature.Units, typ Type, raw map[string]interface{}) *Schedule {
	return &Schedule{
		client: client,
		units:  units,
		id:     intField(raw, "id"),
		name:   stringField(raw, "Name"),
		typ:    typ,
		raw:    raw,
	}
}

// ID returns the hub-assigned schedule id.
func (s *Schedule) ID() int { return s.id }

// Name returns the schedule name.
func (s *Schedule) Name() string { return s.name }

// Type returns the schedule family.
func (s *Schedule) Type() Type { return s.typ }

// Raw returns the original snapshot payload.
func (s *Schedule) Raw() map[string]interface{} { return s.raw }

// CurrentSetting decodes the hub-reported present value of this schedule.
func (s *Schedule) CurrentSetting() (Setting, error) {
	switch s.typ {
	case TypeHeating:
		temp, err := temperature.FromWire(intField(s.raw, "CurrentSetpoint"), temperature.ProfileHeating, s.units)
		if err != nil {
			return Setting{}, err
		}
		return Setting{Temperature: temp}, nil
	case TypeOnOff:
		return Setting{State: stringField(s.raw, "CurrentState")}, nil
	case TypeLevel:
		return Setting{Level: intField(s.raw, "CurrentLevel")}, nil
	}
	return Setting{}, fmt.Errorf("unknown schedule type %q", s.typ)
}

// Next decodes the upcoming transition, or nil when the hub reports none.
func (s *Schedule) Next() (*NextEntry, error) {
	rawNext, ok := s.raw["Next"].(map[string]interface{})
	if !ok {
		return nil, nil
	}
	entry := &NextEntry{
		Day:  stringField(rawNext, "Day"),
		Time: ClockTime(intField(rawNext, "Time")),
	}
	switch s.typ {
	case TypeHeating:
		temp, err := temperature.FromWire(intField(rawNext, "DegreesC"), temperature.ProfileHeating, s.units)
		if err != nil {
			return nil, err
		}
		entry.Setting = Setting{Temperature: temp}
	case TypeOnOff:
		entry.Setting = Setting{State: stringField(rawNext, "State")}
	case TypeLevel:
		entry.Setting = Setting{Level: intField(rawNext, "Level")}
	}
	return entry, nil
}

// SaveToHubFormat writes the original JSON payload to path. Failures are
// logged and reported as false.
func (s *Schedule) SaveToHubFormat(path string) bool {
	payload, err := json.MarshalIndent(s.raw, "", "  ")
	if err != nil {
		log.Error().Err(err).Int("id", s.id).Msg("Failed to encode schedule")
		return false
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to write schedule file")
		return false
	}
	return true
}

// SaveToEditableFormat writes the YAML editable form to path. Failures are
// logged and reported as false.
func (s *Schedule) SaveToEditableFormat(path string) bool {
	editable, err := ToEditable(s.raw, s.typ)
	if err != nil {
		log.Error().Err(err).Int("id", s.id).Msg("Failed to convert schedule")
		return false
	}
	payload, err := editable.Marshal()
	if err != nil {
		log.Error().Err(err).Int("id", s.id).Msg("Failed to encode editable schedule")
		return false
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		log.Error().Err(err).Str("path", path).Msg("Failed to write schedule file")
		return false
	}
	return true
}

// LoadFromEditableFormat reads an editable YAML file and returns the wire
// form ready for SetSchedule.
func LoadFromEditableFormat(path string) (map[string]interface{}, error) {
	payload, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading schedule file: %w", err)
	}
	editable, err := ParseEditable(payload)
	if err != nil {
		return nil, err
	}
	return editable.ToWire()
}

// SetSchedule PATCHes new day data to this schedule. Helper fields the hub
// maintains itself are stripped first.
func (s *Schedule) SetSchedule(ctx context.Context, data map[string]interface{}) error {
	return s.client.SendSchedule(ctx, string(s.typ), s.id, stripHelperFields(data))
}

// CopySchedule PATCHes this schedule's day data onto another schedule of the
// same type. Differing target types are rejected before any request, since
// the hub response to a cross-type copy is undefined.
func (s *Schedule) CopySchedule(ctx context.Context, targetID int, targetType Type) error {
	if targetType != s.typ {
		return fmt.Errorf("cannot copy %s schedule onto %s schedule: %w", s.typ, targetType, ErrTypeMismatch)
	}
	return s.client.SendSchedule(ctx, string(s.typ), targetID, stripHelperFields(s.raw))
}

// stripHelperFields keeps only the day-keyed data the hub accepts on write.
func stripHelperFields(data map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(DayNames))
	for _, day := range DayNames {
		if v, ok := data[day]; ok {
			out[day] = v
		}
	}
	return out
}

func intField(m map[string]interface{}, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	}
	return 0
}

func stringField(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}
