// Package temperature converts between user-facing temperatures (Celsius or
// Fahrenheit floats) and the hub's wire form (integer tenths of a degree
// Celsius), applying the validation profile of the value being encoded.
package temperature

import (
	"fmt"
	"math"
)

// Wire-level sentinels, in tenths of a degree Celsius.
const (
	WireOff       = -200  // heating "off" setpoint
	WireHotWater  = 1100  // hot water "on"
	WireHWOff     = -200  // hot water "off"
	WireError     = 20000 // hub lost sight of the sensor
	WireBoostCap  = 50    // max boost delta (5 degC)
	WireMinimum   = 50    // lowest settable heating setpoint
	WireMaximum   = 300   // highest settable heating setpoint

	DefaultMinTemp = 5.0
	DefaultMaxTemp = 30.0
	MaxBoostDelta  = 5.0
)

// Units selects the unit system presented to callers. Internal storage is
// always Celsius tenths.
type Units string

const (
	Metric   Units = "metric"
	Imperial Units = "imperial"
)

// Profile selects the validation rules applied when encoding or decoding.
type Profile string

const (
	// ProfileHeating is a room setpoint, clamped to [5, 30] degC.
	ProfileHeating Profile = "set_heating"
	// ProfileHotWater is a hot-water state; the on/off sentinels pass through.
	ProfileHotWater Profile = "hotwater"
	// ProfileDelta is a boost increase, capped at +5 degC.
	ProfileDelta Profile = "delta"
	// ProfileCurrent is an observed temperature, floored at the off sentinel.
	ProfileCurrent Profile = "current"
)

// ErrInvalidTemperature is returned when a codec call names an unknown
// profile.
var ErrInvalidTemperature = fmt.Errorf("invalid temperature profile")

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// CelsiusToFahrenheit converts, rounding to one decimal place.
func CelsiusToFahrenheit(c float64) float64 {
	return round1(c*9/5 + 32)
}

// FahrenheitToCelsius converts, rounding to one decimal place.
func FahrenheitToCelsius(f float64) float64 {
	return round1((f - 32) * 5 / 9)
}

// ToWire encodes a user temperature into hub tenths under the given profile.
// Imperial inputs are converted to Celsius first.
func ToWire(temp float64, profile Profile, units Units) (int, error) {
	if units == Imperial {
		temp = FahrenheitToCelsius(temp)
	}
	switch profile {
	case ProfileHeating:
		if temp != float64(WireOff)/10 {
			temp = clamp(temp, DefaultMinTemp, DefaultMaxTemp)
		}
	case ProfileHotWater:
		if temp != float64(WireHotWater)/10 && temp != float64(WireHWOff)/10 {
			temp = clamp(temp, DefaultMinTemp, DefaultMaxTemp)
		}
	case ProfileDelta:
		if temp > MaxBoostDelta {
			temp = MaxBoostDelta
		}
	case ProfileCurrent:
		if temp < float64(WireOff)/10 {
			temp = float64(WireOff) / 10
		}
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidTemperature, profile)
	}
	return int(math.Round(temp * 10)), nil
}

// FromWire decodes hub tenths into a user temperature. Values at or above
// the error sentinel decode to the minimum settable temperature, so a room
// with a lost sensor never reads as 2000 degrees.
func FromWire(value int, profile Profile, units Units) (float64, error) {
	switch profile {
	case ProfileHeating, ProfileHotWater, ProfileDelta, ProfileCurrent:
	default:
		return 0, fmt.Errorf("%w: %q", ErrInvalidTemperature, profile)
	}
	temp := DefaultMinTemp
	if value < WireError {
		temp = round1(float64(value) / 10)
	}
	if units == Imperial {
		temp = CelsiusToFahrenheit(temp)
	}
	return temp, nil
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
