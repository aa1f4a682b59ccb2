package hub

import (
	"context"
	"fmt"

	"github.com/dokzlo13/wiserhub/internal/schedule"
)

// DriveConfig holds the shutter motor travel times in seconds.
type DriveConfig struct {
	LiftOpenTime  int
	LiftCloseTime int
}

// Shutter is a motorised roller shutter. Lift is 0 (closed) to 100 (open).
type Shutter struct {
	*Device

	schedule *schedule.Schedule

	mode       string
	awayAction string
}

func newShutter(d *Device, sched *schedule.Schedule) *Shutter {
	return &Shutter{
		Device:     d,
		schedule:   sched,
		mode:       stringField(d.raw, "Mode"),
		awayAction: stringField(d.raw, "AwayAction"),
	}
}

// Mode is "Auto" (follow schedule) or "Manual".
func (s *Shutter) Mode() string { return s.mode }

// SetMode switches between Auto and Manual operation.
func (s *Shutter) SetMode(ctx context.Context, mode string) error {
	if mode != "Auto" && mode != "Manual" {
		return fmt.Errorf("%w: shutter mode %q (want Auto or Manual)", ErrInvalidArgument, mode)
	}
	if err := s.sendTypedCommand(ctx, map[string]interface{}{"Mode": mode}); err != nil {
		return err
	}
	s.mode = mode
	return nil
}

// AwayAction is what the shutter does in away mode: "Close" or "NoChange".
func (s *Shutter) AwayAction() string { return s.awayAction }

// SetAwayAction updates the away-mode behaviour.
func (s *Shutter) SetAwayAction(ctx context.Context, action string) error {
	if action != "Close" && action != "NoChange" {
		return fmt.Errorf("%w: shutter away action %q (want Close or NoChange)", ErrInvalidArgument, action)
	}
	if err := s.sendTypedCommand(ctx, map[string]interface{}{"AwayAction": action}); err != nil {
		return err
	}
	s.awayAction = action
	return nil
}

// CurrentLift is the live lift position.
func (s *Shutter) CurrentLift() int { return intField(s.raw, "CurrentLift") }

// ManualLift is the lift requested while in Manual mode.
func (s *Shutter) ManualLift() int { return intField(s.raw, "ManualLift") }

// ScheduledLift is the lift the schedule currently calls for.
func (s *Shutter) ScheduledLift() int { return intField(s.raw, "ScheduledLift") }

// LiftMovement reports the motor state, e.g. "Stopped", "Opening".
func (s *Shutter) LiftMovement() string { return stringField(s.raw, "LiftMovement") }

// Drive returns the configured motor travel times.
func (s *Shutter) Drive() DriveConfig {
	cfg := objectField(s.raw, "DriveConfig")
	return DriveConfig{
		LiftOpenTime:  intField(cfg, "LiftOpenTime"),
		LiftCloseTime: intField(cfg, "LiftCloseTime"),
	}
}

// IsOpen reports full open.
func (s *Shutter) IsOpen() bool { return s.CurrentLift() == 100 }

// IsClosed reports full closed.
func (s *Shutter) IsClosed() bool { return s.CurrentLift() == 0 }

// Schedule returns the shutter's Level schedule, or nil.
func (s *Shutter) Schedule() *schedule.Schedule { return s.schedule }
