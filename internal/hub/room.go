package hub

import (
	"context"
	"strings"
	"time"

	"github.com/dokzlo13/wiserhub/internal/rest"
	"github.com/dokzlo13/wiserhub/internal/schedule"
	"github.com/dokzlo13/wiserhub/internal/temperature"
)

// RoomMode is the effective heating mode of a room. It is derived from the
// hub's raw Mode and the current target: a Manual room whose target is the
// off sentinel is reported as Off.
type RoomMode string

const (
	RoomModeOff    RoomMode = "Off"
	RoomModeManual RoomMode = "Manual"
	RoomModeAuto   RoomMode = "Auto"
)

// Room aggregates a schedule and the devices assigned to one heated space.
type Room struct {
	client *rest.Client
	units  temperature.Units

	id       int
	name     string
	schedule *schedule.Schedule
	devices  []*Device
	raw      map[string]interface{}

	// boosted tracks a boost issued through this object until the next
	// refresh, since the snapshot's SetpointOrigin is stale by then.
	boosted bool

	// now is stubbed in tests.
	now func() time.Time
}

func newRoom(client *rest.Client, units temperature.Units, raw map[string]interface{}, sched *schedule.Schedule, devices []*Device) *Room {
	return &Room{
		client:   client,
		units:    units,
		id:       intField(raw, "id"),
		name:     stringField(raw, "Name"),
		schedule: sched,
		devices:  devices,
		raw:      raw,
		now:      time.Now,
	}
}

func (r *Room) ID() int      { return r.id }
func (r *Room) Name() string { return r.name }

// Schedule returns the room's heating schedule, or nil when none is
// assigned (the hub reports ScheduleId 0 in that case).
func (r *Room) Schedule() *schedule.Schedule { return r.schedule }

// Devices lists the devices assigned to this room.
func (r *Room) Devices() []*Device { return r.devices }

// Mode derives the effective heating mode.
func (r *Room) Mode() RoomMode {
	if stringField(r.raw, "Mode") == "Manual" {
		if intField(r.raw, "CurrentSetPoint") == temperature.WireOff {
			return RoomModeOff
		}
		return RoomModeManual
	}
	return RoomModeAuto
}

// CurrentTemperature is the room's calculated temperature. A lost sensor
// decodes to the minimum settable temperature.
func (r *Room) CurrentTemperature() float64 {
	t, _ := temperature.FromWire(intField(r.raw, "CalculatedTemperature"), temperature.ProfileCurrent, r.units)
	return t
}

// CurrentTargetTemperature is the active setpoint.
func (r *Room) CurrentTargetTemperature() float64 {
	t, _ := temperature.FromWire(intField(r.raw, "CurrentSetPoint"), temperature.ProfileHeating, r.units)
	return t
}

// ScheduledTargetTemperature is the setpoint the schedule calls for.
func (r *Room) ScheduledTargetTemperature() float64 {
	t, _ := temperature.FromWire(intField(r.raw, "ScheduledSetPoint"), temperature.ProfileHeating, r.units)
	return t
}

// ManualSetpoint is the setpoint used while in Manual mode.
func (r *Room) ManualSetpoint() float64 {
	t, _ := temperature.FromWire(intField(r.raw, "ManualSetPoint"), temperature.ProfileHeating, r.units)
	return t
}

// OverrideType is the hub-reported override kind, e.g. "Manual" or "Boost".
func (r *Room) OverrideType() string { return stringField(r.raw, "OverrideType") }

// OverrideSetpoint is the setpoint imposed by the active override.
func (r *Room) OverrideSetpoint() float64 {
	t, _ := temperature.FromWire(intField(r.raw, "OverrideSetpoint"), temperature.ProfileHeating, r.units)
	return t
}

// PercentageDemand is the room's aggregate heat demand.
func (r *Room) PercentageDemand() int { return intField(r.raw, "PercentageDemand") }

// HeatingRate reports the hub's learned heating rate for the room.
func (r *Room) HeatingRate() string { return stringField(r.raw, "HeatingRate") }

// WindowDetectionActive reports whether open-window detection is enabled.
func (r *Room) WindowDetectionActive() bool { return boolField(r.raw, "WindowDetectionActive") }

// WindowState is the hub's open-window assessment.
func (r *Room) WindowState() string { return stringField(r.raw, "WindowState") }

// IsBoosted reports whether the current setpoint comes from a boost, either
// per the snapshot or issued through this object since the last refresh.
func (r *Room) IsBoosted() bool {
	return r.boosted || strings.Contains(setpointOrigin(r.raw), "Boost")
}

// IsAwayMode reports whether the current setpoint comes from away mode.
func (r *Room) IsAwayMode() bool {
	return strings.Contains(setpointOrigin(r.raw), "Away")
}

// IsOverride reports whether any override is active.
func (r *Room) IsOverride() bool {
	switch r.OverrideType() {
	case "", "None", "Unknown":
		return false
	}
	return true
}

// BoostTimeRemaining is the time until the active override expires, zero
// when none is pending.
func (r *Room) BoostTimeRemaining() time.Duration {
	timeout := int64Field(r.raw, "OverrideTimeoutUnixTime")
	if timeout == 0 {
		return 0
	}
	remaining := time.Unix(timeout, 0).Sub(r.now())
	if remaining < 0 {
		return 0
	}
	return remaining
}

// CurrentHumidity returns the humidity from the first thermostat in the
// room, or false when the room has no humidity source.
func (r *Room) CurrentHumidity() (int, bool) {
	for _, d := range r.devices {
		if d.ProductType() != "RoomStat" {
			continue
		}
		if _, ok := d.raw["MeasuredHumidity"]; ok {
			return intField(d.raw, "MeasuredHumidity"), true
		}
	}
	return 0, false
}

func (r *Room) sendCommand(ctx context.Context, body map[string]interface{}) error {
	return r.client.SendCommand(ctx, devicePath("Room", r.id), body)
}

// SetMode drives the room to the requested effective mode.
func (r *Room) SetMode(ctx context.Context, mode RoomMode) error {
	switch mode {
	case RoomModeOff:
		if err := r.sendCommand(ctx, map[string]interface{}{"Mode": "Manual"}); err != nil {
			return err
		}
		return r.setManualSetpointWire(ctx, temperature.WireOff)
	case RoomModeManual:
		if err := r.sendCommand(ctx, map[string]interface{}{"Mode": "Manual"}); err != nil {
			return err
		}
		// Coming out of Off: restore the scheduled target so the room does
		// not silently stay cold.
		if intField(r.raw, "CurrentSetPoint") == temperature.WireOff {
			return r.setManualSetpointWire(ctx, intField(r.raw, "ScheduledSetPoint"))
		}
		return nil
	case RoomModeAuto:
		if r.IsOverride() {
			if err := r.CancelOverrides(ctx); err != nil {
				return err
			}
		}
		return r.sendCommand(ctx, map[string]interface{}{"Mode": "Auto"})
	}
	return ErrInvalidArgument
}

// Boost raises the target by incTemp degrees for the given duration. A zero
// duration cancels any active boost instead.
func (r *Room) Boost(ctx context.Context, incTemp float64, duration time.Duration) error {
	minutes := int(duration.Minutes())
	if minutes == 0 {
		return r.CancelBoost(ctx)
	}
	delta, err := temperature.ToWire(incTemp, temperature.ProfileDelta, r.units)
	if err != nil {
		return err
	}
	err = r.sendCommand(ctx, map[string]interface{}{
		"RequestOverride": map[string]interface{}{
			"Type":               "Boost",
			"DurationMinutes":    minutes,
			"IncreaseSetPointBy": delta,
		},
	})
	if err != nil {
		return err
	}
	r.boosted = true
	return nil
}

// CancelBoost clears an active boost. With no boost active it succeeds
// without touching the hub.
func (r *Room) CancelBoost(ctx context.Context) error {
	if !r.IsBoosted() {
		return nil
	}
	return r.CancelOverrides(ctx)
}

// SetTargetTemperature imposes a Manual override with the given setpoint.
func (r *Room) SetTargetTemperature(ctx context.Context, temp float64) error {
	w, err := temperature.ToWire(temp, temperature.ProfileHeating, r.units)
	if err != nil {
		return err
	}
	return r.setManualSetpointWire(ctx, w)
}

// SetTargetTemperatureForDuration imposes a time-bounded Manual override.
func (r *Room) SetTargetTemperatureForDuration(ctx context.Context, temp float64, duration time.Duration) error {
	w, err := temperature.ToWire(temp, temperature.ProfileHeating, r.units)
	if err != nil {
		return err
	}
	return r.sendCommand(ctx, map[string]interface{}{
		"RequestOverride": map[string]interface{}{
			"Type":            "Manual",
			"DurationMinutes": int(duration.Minutes()),
			"SetPoint":        w,
		},
	})
}

// SetManualTemperature switches the room to Manual mode and sets the target.
func (r *Room) SetManualTemperature(ctx context.Context, temp float64) error {
	if err := r.sendCommand(ctx, map[string]interface{}{"Mode": "Manual"}); err != nil {
		return err
	}
	return r.SetTargetTemperature(ctx, temp)
}

// ScheduleAdvance cancels any boost and applies the next scheduled setpoint
// as a Manual override.
func (r *Room) ScheduleAdvance(ctx context.Context) error {
	if err := r.CancelBoost(ctx); err != nil {
		return err
	}
	if r.schedule == nil {
		return ErrInvalidArgument
	}
	next, err := r.schedule.Next()
	if err != nil {
		return err
	}
	if next == nil {
		return ErrInvalidArgument
	}
	return r.SetTargetTemperature(ctx, next.Setting.Temperature)
}

// CancelOverrides clears every active override on the room.
func (r *Room) CancelOverrides(ctx context.Context) error {
	err := r.sendCommand(ctx, map[string]interface{}{
		"RequestOverride": map[string]interface{}{"Type": "None"},
	})
	if err != nil {
		return err
	}
	r.boosted = false
	return nil
}

func (r *Room) setManualSetpointWire(ctx context.Context, wire int) error {
	return r.sendCommand(ctx, map[string]interface{}{
		"RequestOverride": map[string]interface{}{
			"Type":     "Manual",
			"SetPoint": wire,
		},
	})
}
