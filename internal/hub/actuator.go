package hub

import "github.com/dokzlo13/wiserhub/internal/temperature"

// HeatingActuator is a wired heating output, typically driving electric
// heaters or a relay board.
type HeatingActuator struct {
	*Device
}

func newHeatingActuator(d *Device) *HeatingActuator { return &HeatingActuator{Device: d} }

// CurrentTemperature is the temperature at the actuator's sensor.
func (a *HeatingActuator) CurrentTemperature() float64 {
	return a.currentTemp("MeasuredTemperature")
}

// CurrentTargetTemperature is the actuator's active setpoint.
func (a *HeatingActuator) CurrentTargetTemperature() float64 {
	t, _ := temperature.FromWire(intField(a.raw, "SetPoint"), temperature.ProfileHeating, a.units)
	return t
}

// OutputType reports the configured load type.
func (a *HeatingActuator) OutputType() string { return stringField(a.raw, "OutputType") }

// InstantaneousPower is the present draw in watts.
func (a *HeatingActuator) InstantaneousPower() int { return intField(a.raw, "InstantaneousDemand") }

// AccumulatedPower is the lifetime energy delivered in watt-hours.
func (a *HeatingActuator) AccumulatedPower() int { return intField(a.raw, "CurrentSummationDelivered") }

// UFHRelay is one output of an underfloor-heating controller, in hub order.
type UFHRelay struct {
	ID               int
	Polarity         string
	DemandPercentage int
}

// UFHController is an underfloor-heating manifold controller.
type UFHController struct {
	*Device
}

func newUFHController(d *Device) *UFHController { return &UFHController{Device: d} }

// MeasuredTemperature is the floor probe reading.
func (u *UFHController) MeasuredTemperature() float64 {
	return u.currentTemp("MeasuredTemperature")
}

// MaximumFloorTemperature is the configured floor protection ceiling.
func (u *UFHController) MaximumFloorTemperature() float64 {
	return u.currentTemp("MaximumFloorTemperature")
}

// MinimumFloorTemperature is the configured floor protection floor.
func (u *UFHController) MinimumFloorTemperature() float64 {
	return u.currentTemp("MinimumFloorTemperature")
}

// DewDetected reports whether condensation protection has tripped.
func (u *UFHController) DewDetected() bool { return boolField(u.raw, "DewDetected") }

// InterlockActive reports whether the demand interlock is engaged.
func (u *UFHController) InterlockActive() bool { return boolField(u.raw, "InterlockActive") }

// OutputType reports the configured load type.
func (u *UFHController) OutputType() string { return stringField(u.raw, "OutputType") }

// Relays lists the controller's outputs in hub order.
func (u *UFHController) Relays() []UFHRelay {
	records := listField(u.raw, "Relays")
	relays := make([]UFHRelay, 0, len(records))
	for _, rec := range records {
		relays = append(relays, UFHRelay{
			ID:               intField(rec, "id"),
			Polarity:         stringField(rec, "Polarity"),
			DemandPercentage: intField(rec, "DemandPercentage"),
		})
	}
	return relays
}
