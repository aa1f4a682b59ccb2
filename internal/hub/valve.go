package hub

import "github.com/dokzlo13/wiserhub/internal/temperature"

// Battery voltage ranges used for percentage interpolation.
const (
	valveMinVoltage     = 2.5
	valveFullVoltage    = 3.0
	roomStatMinVoltage  = 1.7
	roomStatFullVoltage = 2.7
)

// SmartValve is an electronic radiator valve (TRV).
type SmartValve struct {
	*Device
}

func newSmartValve(d *Device) *SmartValve { return &SmartValve{Device: d} }

// CurrentTemperature is the temperature measured at the valve.
func (v *SmartValve) CurrentTemperature() float64 {
	return v.currentTemp("MeasuredTemperature")
}

// CurrentTargetTemperature is the setpoint the valve is driving towards.
func (v *SmartValve) CurrentTargetTemperature() float64 {
	t, _ := temperature.FromWire(intField(v.raw, "SetPoint"), temperature.ProfileHeating, v.units)
	return t
}

// MountingOrientation reports how the valve is installed.
func (v *SmartValve) MountingOrientation() string {
	return stringField(v.raw, "MountingOrientation")
}

// PercentageDemand is the valve's current heat demand.
func (v *SmartValve) PercentageDemand() int {
	return intField(v.raw, "PercentageDemand")
}

// Battery reports the valve's battery state.
func (v *SmartValve) Battery() Battery {
	return batteryFromRaw(v.raw, valveMinVoltage, valveFullVoltage)
}

// RoomStat is a wall-mounted room thermostat.
type RoomStat struct {
	*Device
}

func newRoomStat(d *Device) *RoomStat { return &RoomStat{Device: d} }

// CurrentTemperature is the temperature measured at the thermostat.
func (r *RoomStat) CurrentTemperature() float64 {
	return r.currentTemp("MeasuredTemperature")
}

// CurrentTargetTemperature is the setpoint shown on the thermostat.
func (r *RoomStat) CurrentTargetTemperature() float64 {
	t, _ := temperature.FromWire(intField(r.raw, "SetPoint"), temperature.ProfileHeating, r.units)
	return t
}

// CurrentHumidity is the measured relative humidity percentage.
func (r *RoomStat) CurrentHumidity() int {
	return intField(r.raw, "MeasuredHumidity")
}

// Battery reports the thermostat's battery state.
func (r *RoomStat) Battery() Battery {
	return batteryFromRaw(r.raw, roomStatMinVoltage, roomStatFullVoltage)
}
