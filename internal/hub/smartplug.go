package hub

import (
	"context"
	"fmt"

	"github.com/dokzlo13/wiserhub/internal/schedule"
)

// SmartPlug is a schedulable mains switch with power metering.
type SmartPlug struct {
	*Device

	schedule *schedule.Schedule

	name       string
	mode       string
	awayAction string
}

func newSmartPlug(d *Device, sched *schedule.Schedule) *SmartPlug {
	return &SmartPlug{
		Device:     d,
		schedule:   sched,
		name:       stringField(d.raw, "Name"),
		mode:       stringField(d.raw, "Mode"),
		awayAction: stringField(d.raw, "AwayAction"),
	}
}

// Name is the user-assigned plug name.
func (p *SmartPlug) Name() string { return p.name }

// SetName renames the plug and updates the local copy on success.
func (p *SmartPlug) SetName(ctx context.Context, name string) error {
	if err := p.sendTypedCommand(ctx, map[string]interface{}{"Name": name}); err != nil {
		return err
	}
	p.name = name
	return nil
}

// Mode is "Auto" (follow schedule) or "Manual".
func (p *SmartPlug) Mode() string { return p.mode }

// SetMode switches between Auto and Manual. "Off" is not a plug mode; turn
// the output off instead.
func (p *SmartPlug) SetMode(ctx context.Context, mode string) error {
	if mode != "Auto" && mode != "Manual" {
		return fmt.Errorf("%w: smart plug mode %q (want Auto or Manual)", ErrInvalidArgument, mode)
	}
	if err := p.sendTypedCommand(ctx, map[string]interface{}{"Mode": mode}); err != nil {
		return err
	}
	p.mode = mode
	return nil
}

// AwayAction is what the plug does in away mode: "Off" or "NoChange".
func (p *SmartPlug) AwayAction() string { return p.awayAction }

// SetAwayAction updates the away-mode behaviour.
func (p *SmartPlug) SetAwayAction(ctx context.Context, action string) error {
	if action != "Off" && action != "NoChange" {
		return fmt.Errorf("%w: smart plug away action %q (want Off or NoChange)", ErrInvalidArgument, action)
	}
	if err := p.sendTypedCommand(ctx, map[string]interface{}{"AwayAction": action}); err != nil {
		return err
	}
	p.awayAction = action
	return nil
}

// OutputState is the live relay state, "On" or "Off".
func (p *SmartPlug) OutputState() string { return stringField(p.raw, "OutputState") }

// ManualState is the state requested while in Manual mode.
func (p *SmartPlug) ManualState() string { return stringField(p.raw, "ManualState") }

// ScheduledState is the state the schedule currently calls for.
func (p *SmartPlug) ScheduledState() string { return stringField(p.raw, "ScheduledState") }

// IsOn reports whether the relay is closed.
func (p *SmartPlug) IsOn() bool { return p.OutputState() == "On" }

// Schedule returns the plug's OnOff schedule, or nil.
func (p *SmartPlug) Schedule() *schedule.Schedule { return p.schedule }

// InstantaneousPower is the present draw in watts.
func (p *SmartPlug) InstantaneousPower() int { return intField(p.raw, "InstantaneousDemand") }

// AccumulatedPower is the lifetime energy delivered in watt-hours.
func (p *SmartPlug) AccumulatedPower() int { return intField(p.raw, "CurrentSummationDelivered") }

// TurnOn closes the relay.
func (p *SmartPlug) TurnOn(ctx context.Context) error {
	return p.sendTypedCommand(ctx, map[string]interface{}{"RequestOutput": "On"})
}

// TurnOff opens the relay.
func (p *SmartPlug) TurnOff(ctx context.Context) error {
	return p.sendTypedCommand(ctx, map[string]interface{}{"RequestOutput": "Off"})
}
