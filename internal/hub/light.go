package hub

import (
	"context"
	"fmt"

	"github.com/dokzlo13/wiserhub/internal/schedule"
)

// OutputRange is a dimmable light's configured level window.
type OutputRange struct {
	Minimum int
	Maximum int
}

// Light is an on/off or dimmable lighting output.
type Light struct {
	*Device

	schedule *schedule.Schedule

	mode       string
	awayAction string
}

func newLight(d *Device, sched *schedule.Schedule) *Light {
	return &Light{
		Device:     d,
		schedule:   sched,
		mode:       stringField(d.raw, "Mode"),
		awayAction: stringField(d.raw, "AwayAction"),
	}
}

// Mode is "Auto" (follow schedule) or "Manual".
func (l *Light) Mode() string { return l.mode }

// SetMode switches between Auto and Manual operation.
func (l *Light) SetMode(ctx context.Context, mode string) error {
	if mode != "Auto" && mode != "Manual" {
		return fmt.Errorf("%w: light mode %q (want Auto or Manual)", ErrInvalidArgument, mode)
	}
	if err := l.sendTypedCommand(ctx, map[string]interface{}{"Mode": mode}); err != nil {
		return err
	}
	l.mode = mode
	return nil
}

// AwayAction is what the light does in away mode: "Off" or "NoChange".
func (l *Light) AwayAction() string { return l.awayAction }

// SetAwayAction updates the away-mode behaviour.
func (l *Light) SetAwayAction(ctx context.Context, action string) error {
	if action != "Off" && action != "NoChange" {
		return fmt.Errorf("%w: light away action %q (want Off or NoChange)", ErrInvalidArgument, action)
	}
	if err := l.sendTypedCommand(ctx, map[string]interface{}{"AwayAction": action}); err != nil {
		return err
	}
	l.awayAction = action
	return nil
}

// CurrentState is "On" or "Off".
func (l *Light) CurrentState() string { return stringField(l.raw, "CurrentState") }

// IsOn reports whether the light is lit.
func (l *Light) IsOn() bool { return l.CurrentState() == "On" }

// IsDimmable reports whether the light supports levels.
func (l *Light) IsDimmable() bool { return boolField(l.raw, "IsDimmable") }

// Schedule returns the light's schedule, or nil.
func (l *Light) Schedule() *schedule.Schedule { return l.schedule }

// TurnOn switches the light on.
func (l *Light) TurnOn(ctx context.Context) error {
	return l.sendTypedCommand(ctx, map[string]interface{}{
		"RequestOverride": map[string]interface{}{"State": "On"},
	})
}

// TurnOff switches the light off.
func (l *Light) TurnOff(ctx context.Context) error {
	return l.sendTypedCommand(ctx, map[string]interface{}{
		"RequestOverride": map[string]interface{}{"State": "Off"},
	})
}

// CurrentLevel is the raw dimming level (dimmable lights only).
func (l *Light) CurrentLevel() int { return intField(l.raw, "CurrentLevel") }

// CurrentPercentage is the live brightness percentage.
func (l *Light) CurrentPercentage() int { return intField(l.raw, "CurrentPercentage") }

// ManualLevel is the level requested while in Manual mode.
func (l *Light) ManualLevel() int { return intField(l.raw, "ManualLevel") }

// OverrideLevel is the level requested by an active override.
func (l *Light) OverrideLevel() int { return intField(l.raw, "OverrideLevel") }

// ScheduledPercentage is the brightness the schedule currently calls for.
func (l *Light) ScheduledPercentage() int { return intField(l.raw, "ScheduledPercentage") }

// TargetPercentage is the brightness the light is moving towards.
func (l *Light) TargetPercentage() int { return intField(l.raw, "TargetPercentage") }

// Range returns the configured output window for dimmable lights.
func (l *Light) Range() OutputRange {
	r := objectField(l.raw, "OutputRange")
	return OutputRange{Minimum: intField(r, "Minimum"), Maximum: intField(r, "Maximum")}
}

// SetPercentage overrides brightness to the given percentage.
func (l *Light) SetPercentage(ctx context.Context, percentage int) error {
	if percentage < 0 || percentage > 100 {
		return fmt.Errorf("%w: brightness %d out of range [0, 100]", ErrInvalidArgument, percentage)
	}
	return l.sendTypedCommand(ctx, map[string]interface{}{
		"RequestOverride": map[string]interface{}{"State": "On", "Percentage": percentage},
	})
}
