package hub

import (
	"context"
	"fmt"
	"time"

	"github.com/dokzlo13/wiserhub/internal/rest"
	"github.com/dokzlo13/wiserhub/internal/schedule"
	"github.com/dokzlo13/wiserhub/internal/temperature"
)

// HotWater is the hub's single hot-water controller.
type HotWater struct {
	client *rest.Client
	units  temperature.Units

	id       int
	schedule *schedule.Schedule
	raw      map[string]interface{}

	mode string
}

func newHotWater(client *rest.Client, units temperature.Units, raw map[string]interface{}, sched *schedule.Schedule) *HotWater {
	return &HotWater{
		client:   client,
		units:    units,
		id:       intField(raw, "id"),
		schedule: sched,
		raw:      raw,
		mode:     stringField(raw, "Mode"),
	}
}

func (h *HotWater) ID() int { return h.id }

// Mode is "Manual" or "Auto".
func (h *HotWater) Mode() string { return h.mode }

// Schedule returns the hot-water OnOff schedule, or nil.
func (h *HotWater) Schedule() *schedule.Schedule { return h.schedule }

// CurrentState is "On" or "Off".
func (h *HotWater) CurrentState() string { return stringField(h.raw, "WaterHeatingState") }

// IsHeating reports whether the hot-water relay is closed.
func (h *HotWater) IsHeating() bool { return stringField(h.raw, "HotWaterRelayState") == "On" }

// IsBoosted reports whether a manual override is driving the state.
func (h *HotWater) IsBoosted() bool {
	switch stringField(h.raw, "OverrideType") {
	case "", "None", "Unknown":
		return false
	}
	return true
}

func (h *HotWater) sendCommand(ctx context.Context, body map[string]interface{}) error {
	return h.client.SendCommand(ctx, devicePath("HotWater", h.id), body)
}

// SetMode switches the controller mode. "Off" is accepted as a convenience:
// it selects Manual and overrides the state to off.
func (h *HotWater) SetMode(ctx context.Context, mode string) error {
	switch mode {
	case "Manual", "Auto":
		if err := h.sendCommand(ctx, map[string]interface{}{"Mode": mode}); err != nil {
			return err
		}
		h.mode = mode
		return nil
	case "Off":
		if err := h.SetMode(ctx, "Manual"); err != nil {
			return err
		}
		return h.OverrideState(ctx, "Off")
	}
	return fmt.Errorf("%w: hot water mode %q (want Manual, Auto or Off)", ErrInvalidArgument, mode)
}

// OverrideState forces hot water "On" or "Off" until cancelled.
func (h *HotWater) OverrideState(ctx context.Context, state string) error {
	setpoint, err := hotWaterSetpoint(state)
	if err != nil {
		return err
	}
	return h.sendCommand(ctx, map[string]interface{}{
		"RequestOverride": map[string]interface{}{
			"Type":     "Manual",
			"SetPoint": setpoint,
		},
	})
}

// OverrideStateForDuration forces hot water "On" or "Off" for a bounded time.
func (h *HotWater) OverrideStateForDuration(ctx context.Context, state string, duration time.Duration) error {
	setpoint, err := hotWaterSetpoint(state)
	if err != nil {
		return err
	}
	return h.sendCommand(ctx, map[string]interface{}{
		"RequestOverride": map[string]interface{}{
			"Type":            "Manual",
			"DurationMinutes": int(duration.Minutes()),
			"SetPoint":        setpoint,
		},
	})
}

// ScheduleAdvance drives the state to the next scheduled entry's setting.
func (h *HotWater) ScheduleAdvance(ctx context.Context) error {
	if h.schedule == nil {
		return ErrInvalidArgument
	}
	next, err := h.schedule.Next()
	if err != nil {
		return err
	}
	if next == nil {
		return ErrInvalidArgument
	}
	return h.OverrideState(ctx, next.Setting.State)
}

// CancelOverrides clears any active hot-water override.
func (h *HotWater) CancelOverrides(ctx context.Context) error {
	return h.sendCommand(ctx, map[string]interface{}{
		"RequestOverride": map[string]interface{}{"Type": "None"},
	})
}

func hotWaterSetpoint(state string) (int, error) {
	switch state {
	case "On":
		return temperature.WireHotWater, nil
	case "Off":
		return temperature.WireHWOff, nil
	}
	return 0, fmt.Errorf("%w: hot water state %q (want On or Off)", ErrInvalidArgument, state)
}
