package schedule

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/dokzlo13/wiserhub/internal/temperature"
)

// Entry is one row of an editable schedule day. Exactly one of Temp, State,
// Level is set, matching the schedule type. Temp holds a Celsius number or
// the string "Off".
type Entry struct {
	Time  string      `yaml:"Time"`
	Temp  interface{} `yaml:"Temp,omitempty"`
	State string      `yaml:"State,omitempty"`
	Level *int        `yaml:"Level,omitempty"`
}

// Editable is the YAML representation users edit by hand. Weekdays and
// Weekends are input shorthands: on conversion to wire form they expand to
// Monday..Friday and Saturday..Sunday, with literal day keys taking
// precedence.
type Editable struct {
	Name        string  `yaml:"Name,omitempty"`
	Description string  `yaml:"Description,omitempty"`
	Type        Type    `yaml:"Type"`
	Weekdays    []Entry `yaml:"Weekdays,omitempty"`
	Weekends    []Entry `yaml:"Weekends,omitempty"`
	Monday      []Entry `yaml:"Monday,omitempty"`
	Tuesday     []Entry `yaml:"Tuesday,omitempty"`
	Wednesday   []Entry `yaml:"Wednesday,omitempty"`
	Thursday    []Entry `yaml:"Thursday,omitempty"`
	Friday      []Entry `yaml:"Friday,omitempty"`
	Saturday    []Entry `yaml:"Saturday,omitempty"`
	Sunday      []Entry `yaml:"Sunday,omitempty"`
}

func (e *Editable) day(name string) []Entry {
	switch name {
	case "Monday":
		return e.Monday
	case "Tuesday":
		return e.Tuesday
	case "Wednesday":
		return e.Wednesday
	case "Thursday":
		return e.Thursday
	case "Friday":
		return e.Friday
	case "Saturday":
		return e.Saturday
	case "Sunday":
		return e.Sunday
	}
	return nil
}

func (e *Editable) setDay(name string, entries []Entry) {
	switch name {
	case "Monday":
		e.Monday = entries
	case "Tuesday":
		e.Tuesday = entries
	case "Wednesday":
		e.Wednesday = entries
	case "Thursday":
		e.Thursday = entries
	case "Friday":
		e.Friday = entries
	case "Saturday":
		e.Saturday = entries
	case "Sunday":
		e.Sunday = entries
	}
}

// Marshal encodes the editable form as YAML.
func (e *Editable) Marshal() ([]byte, error) {
	return yaml.Marshal(e)
}

// ParseEditable decodes an editable YAML document.
func ParseEditable(payload []byte) (*Editable, error) {
	var editable Editable
	if err := yaml.Unmarshal(payload, &editable); err != nil {
		return nil, fmt.Errorf("parsing editable schedule: %w", err)
	}
	switch editable.Type {
	case TypeHeating, TypeOnOff, TypeLevel:
	default:
		return nil, fmt.Errorf("unknown schedule type %q", editable.Type)
	}
	return &editable, nil
}

// ToWire converts the editable form into the hub's day-keyed wire maps.
func (e *Editable) ToWire() (map[string]interface{}, error) {
	perDay := make(map[string][]Entry, len(DayNames))
	for _, day := range DayNames[:5] {
		if e.Weekdays != nil {
			perDay[day] = e.Weekdays
		}
	}
	for _, day := range DayNames[5:] {
		if e.Weekends != nil {
			perDay[day] = e.Weekends
		}
	}
	for _, day := range DayNames {
		if entries := e.day(day); entries != nil {
			perDay[day] = entries
		}
	}

	wire := make(map[string]interface{}, len(perDay))
	for _, day := range DayNames {
		entries, ok := perDay[day]
		if !ok {
			continue
		}
		encoded, err := encodeDay(entries, e.Type)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", day, err)
		}
		wire[day] = encoded
	}
	return wire, nil
}

func encodeDay(entries []Entry, typ Type) (interface{}, error) {
	times := make([]int, 0, len(entries))
	for _, entry := range entries {
		t, err := parseClock(entry.Time)
		if err != nil {
			return nil, err
		}
		times = append(times, int(t))
	}
	for i := 1; i < len(times); i++ {
		if times[i] <= times[i-1] {
			return nil, fmt.Errorf("times must be strictly increasing, got %04d after %04d", times[i], times[i-1])
		}
	}

	switch typ {
	case TypeHeating:
		degrees := make([]int, len(entries))
		for i, entry := range entries {
			v, err := encodeTemp(entry.Temp)
			if err != nil {
				return nil, err
			}
			degrees[i] = v
		}
		return map[string]interface{}{"Time": times, "DegreesC": degrees}, nil
	case TypeOnOff:
		states := make([]int, len(entries))
		for i, entry := range entries {
			switch entry.State {
			case "On":
				states[i] = times[i]
			case "Off":
				// Midnight-off encodes as 0; the sign carries the state, so
				// 00:00 has no distinct "on" form.
				states[i] = -times[i]
			default:
				return nil, fmt.Errorf("state must be On or Off, got %q", entry.State)
			}
		}
		return states, nil
	case TypeLevel:
		levels := make([]int, len(entries))
		for i, entry := range entries {
			if entry.Level == nil {
				return nil, fmt.Errorf("entry at %s has no Level", entry.Time)
			}
			if *entry.Level < 0 || *entry.Level > 100 {
				return nil, fmt.Errorf("level %d out of range [0, 100]", *entry.Level)
			}
			levels[i] = *entry.Level
		}
		return map[string]interface{}{"Time": times, "Level": levels}, nil
	}
	return nil, fmt.Errorf("unknown schedule type %q", typ)
}

// ToEditable converts a raw schedule payload into the editable form,
// dropping the helper fields the hub maintains itself.
func ToEditable(raw map[string]interface{}, typ Type) (*Editable, error) {
	editable := &Editable{
		Name:        stringField(raw, "Name"),
		Description: fmt.Sprintf("%s schedule", typ),
		Type:        typ,
	}
	for _, day := range DayNames {
		rawDay, ok := raw[day]
		if !ok {
			continue
		}
		entries, err := decodeDay(rawDay, typ)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", day, err)
		}
		editable.setDay(day, entries)
	}
	return editable, nil
}

func decodeDay(rawDay interface{}, typ Type) ([]Entry, error) {
	switch typ {
	case TypeHeating:
		day, ok := rawDay.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("heating day is not an object")
		}
		times := intSlice(day["Time"])
		degrees := intSlice(day["DegreesC"])
		if len(times) != len(degrees) {
			return nil, fmt.Errorf("time/setpoint length mismatch: %d vs %d", len(times), len(degrees))
		}
		entries := make([]Entry, len(times))
		for i := range times {
			entries[i] = Entry{Time: ClockTime(times[i]).String(), Temp: decodeTemp(degrees[i])}
		}
		return entries, nil
	case TypeOnOff:
		states := intSlice(rawDay)
		entries := make([]Entry, len(states))
		for i, v := range states {
			state := "On"
			// Zero means Off at midnight: the wire form cannot express
			// "on at 00:00" (see encodeDay).
			if v <= 0 {
				state = "Off"
			}
			entries[i] = Entry{Time: ClockTime(abs(v)).String(), State: state}
		}
		return entries, nil
	case TypeLevel:
		day, ok := rawDay.(map[string]interface{})
		if !ok {
			return nil, fmt.Errorf("level day is not an object")
		}
		times := intSlice(day["Time"])
		levels := intSlice(day["Level"])
		if len(times) != len(levels) {
			return nil, fmt.Errorf("time/level length mismatch: %d vs %d", len(times), len(levels))
		}
		entries := make([]Entry, len(times))
		for i := range times {
			level := levels[i]
			entries[i] = Entry{Time: ClockTime(times[i]).String(), Level: &level}
		}
		return entries, nil
	}
	return nil, fmt.Errorf("unknown schedule type %q", typ)
}

func encodeTemp(v interface{}) (int, error) {
	switch t := v.(type) {
	case string:
		if strings.EqualFold(t, "Off") {
			return temperature.WireOff, nil
		}
		f, err := strconv.ParseFloat(t, 64)
		if err != nil {
			return 0, fmt.Errorf("temperature must be a number or \"Off\", got %q", t)
		}
		return temperature.ToWire(f, temperature.ProfileHeating, temperature.Metric)
	case int:
		return temperature.ToWire(float64(t), temperature.ProfileHeating, temperature.Metric)
	case float64:
		return temperature.ToWire(t, temperature.ProfileHeating, temperature.Metric)
	case nil:
		return 0, fmt.Errorf("entry has no Temp")
	}
	return 0, fmt.Errorf("temperature must be a number or \"Off\", got %T", v)
}

func decodeTemp(wire int) interface{} {
	if wire == temperature.WireOff {
		return "Off"
	}
	v := float64(wire) / 10
	if v == math.Trunc(v) {
		return int(v)
	}
	return v
}

func parseClock(s string) (ClockTime, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("time must be HH:MM, got %q", s)
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return 0, fmt.Errorf("bad hour in %q", s)
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return 0, fmt.Errorf("bad minute in %q", s)
	}
	return NewClockTime(hour, minute), nil
}

func intSlice(v interface{}) []int {
	raw, ok := v.([]interface{})
	if !ok {
		if typed, ok := v.([]int); ok {
			return typed
		}
		return nil
	}
	out := make([]int, 0, len(raw))
	for _, item := range raw {
		switch n := item.(type) {
		case float64:
			out = append(out, int(n))
		case int:
			out = append(out, n)
		}
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
