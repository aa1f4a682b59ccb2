package hub

import (
	"context"
	"time"

	"github.com/dokzlo13/wiserhub/internal/rest"
	"github.com/dokzlo13/wiserhub/internal/temperature"
)

// Cloud describes the hub's link to the vendor cloud.
type Cloud struct {
	ConnectionStatus    string
	WiserAPIHost        string
	BootstrapAPIHost    string
	Environment         string
	DetailedPublishing  bool
	DiagnosticTelemetry bool
}

// Network describes the hub's station network interface.
type Network struct {
	Hostname   string
	SSID       string
	MACAddress string
	IPAddress  string
	RSSI       int
}

// GPS is the hub's configured location.
type GPS struct {
	Latitude  float64
	Longitude float64
}

// System is the hub-level controller state and settings surface.
type System struct {
	client *rest.Client
	units  temperature.Units

	raw     map[string]interface{}
	cloud   Cloud
	network Network
	gps     GPS
	model   string
	brand   string

	// Locally cached writable settings; updated after a successful PATCH so
	// callers see the new value without a refresh.
	autoDST         bool
	awayAffectsHW   bool
	ecoMode         bool
	comfortMode     bool
	valveProtection bool
	tzOffset        int
	awayEnabled     bool
}

func newSystem(client *rest.Client, units temperature.Units, raw map[string]interface{}, controller map[string]interface{}, network map[string]interface{}, cloud map[string]interface{}) *System {
	s := &System{
		client:          client,
		units:           units,
		raw:             raw,
		brand:           stringField(raw, "BrandName"),
		autoDST:         boolField(raw, "AutomaticDaylightSaving"),
		awayAffectsHW:   boolField(raw, "AwayModeAffectsHotWater"),
		ecoMode:         boolField(raw, "EcoModeEnabled"),
		comfortMode:     boolField(raw, "ComfortModeEnabled"),
		valveProtection: boolField(raw, "ValveProtectionEnabled"),
		tzOffset:        intField(raw, "TimeZoneOffset"),
		awayEnabled:     stringField(raw, "OverrideType") == "Away",
	}
	if controller != nil {
		s.model = stringField(controller, "ModelIdentifier")
	}
	if cloud != nil {
		s.cloud = Cloud{
			ConnectionStatus:    stringField(cloud, "ConnectionStatus"),
			WiserAPIHost:        stringField(cloud, "WiserApiHost"),
			BootstrapAPIHost:    stringField(cloud, "BootStrapApiHost"),
			Environment:         stringField(cloud, "Environment"),
			DetailedPublishing:  boolField(cloud, "DetailedPublishing"),
			DiagnosticTelemetry: boolField(cloud, "EnableDiagnosticTelemetry"),
		}
	}
	if network != nil {
		if station := objectField(network, "Station"); station != nil {
			s.network = Network{
				Hostname: stringField(station, "MdnsHostname"),
				SSID:     stringField(station, "SSID"),
			}
			if iface := objectField(station, "NetworkInterface"); iface != nil {
				s.network.MACAddress = stringField(iface, "MacAddress")
				s.network.IPAddress = stringField(iface, "IPv4HostAddress")
			}
			if rssi := objectField(station, "RSSI"); rssi != nil {
				s.network.RSSI = intField(rssi, "Current")
			}
		}
	}
	if geo := objectField(raw, "GeoPosition"); geo != nil {
		s.gps = GPS{Latitude: floatField(geo, "Latitude"), Longitude: floatField(geo, "Longitude")}
	}
	return s
}

// Firmware is the hub's active firmware version.
func (s *System) Firmware() string { return stringField(s.raw, "ActiveSystemVersion") }

// Model is the controller device's model identifier.
func (s *System) Model() string { return s.model }

// Brand is the hub's brand name.
func (s *System) Brand() string { return s.brand }

// Time is the hub's clock.
func (s *System) Time() time.Time { return time.Unix(int64Field(s.raw, "UnixTime"), 0) }

// TimeZoneOffset is the configured UTC offset in minutes.
func (s *System) TimeZoneOffset() int { return s.tzOffset }

// AutoDSTEnabled reports automatic daylight-saving adjustment.
func (s *System) AutoDSTEnabled() bool { return s.autoDST }

// PairingStatus reports whether the hub is accepting new devices.
func (s *System) PairingStatus() string { return stringField(s.raw, "PairingStatus") }

// OpenThermStatus is the boiler modulation link state.
func (s *System) OpenThermStatus() string {
	return stringField(s.raw, "OpenThermConnectionStatus")
}

// BoilerFuelType reports the configured fuel type.
func (s *System) BoilerFuelType() string { return stringField(s.raw, "FuelType") }

// HeatingButtonOverrideState is the hub's physical heating button state.
func (s *System) HeatingButtonOverrideState() string {
	return stringField(s.raw, "HeatingButtonOverrideState")
}

// HotWaterButtonOverrideState is the hub's physical hot-water button state.
func (s *System) HotWaterButtonOverrideState() string {
	return stringField(s.raw, "HotWaterButtonOverrideState")
}

// UserOverridesActive reports whether any user override is in effect.
func (s *System) UserOverridesActive() bool { return boolField(s.raw, "UserOverridesActive") }

// Cloud returns the cloud linkage state.
func (s *System) Cloud() Cloud { return s.cloud }

// Network returns the station network interface state.
func (s *System) Network() Network { return s.network }

// GPS returns the configured hub location.
func (s *System) GPS() GPS { return s.gps }

// EcoModeEnabled reports eco mode.
func (s *System) EcoModeEnabled() bool { return s.ecoMode }

// ComfortModeEnabled reports comfort mode.
func (s *System) ComfortModeEnabled() bool { return s.comfortMode }

// ValveProtectionEnabled reports weekly valve exercise.
func (s *System) ValveProtectionEnabled() bool { return s.valveProtection }

// AwayModeAffectsHotWater reports whether away mode also turns off hot water.
func (s *System) AwayModeAffectsHotWater() bool { return s.awayAffectsHW }

// AwayModeEnabled reports whether hub-wide away mode is active.
func (s *System) AwayModeEnabled() bool { return s.awayEnabled }

// AwayModeTargetTemperature is the setpoint forced on rooms in away mode.
func (s *System) AwayModeTargetTemperature() float64 {
	t, _ := temperature.FromWire(intField(s.raw, "AwayModeSetPointLimit"), temperature.ProfileHeating, s.units)
	return t
}

// DegradedModeTargetTemperature is the fallback setpoint applied when a
// room's sensor is lost.
func (s *System) DegradedModeTargetTemperature() float64 {
	t, _ := temperature.FromWire(intField(s.raw, "DegradedModeSetpointThreshold"), temperature.ProfileHeating, s.units)
	return t
}

func (s *System) sendCommand(ctx context.Context, body map[string]interface{}) error {
	return s.client.SendCommand(ctx, "System", body)
}

// SetAutoDST toggles automatic daylight-saving adjustment.
func (s *System) SetAutoDST(ctx context.Context, enabled bool) error {
	if err := s.sendCommand(ctx, map[string]interface{}{"AutomaticDaylightSaving": enabled}); err != nil {
		return err
	}
	s.autoDST = enabled
	return nil
}

// SetAwayModeAffectsHotWater selects whether away mode turns off hot water.
func (s *System) SetAwayModeAffectsHotWater(ctx context.Context, enabled bool) error {
	if err := s.sendCommand(ctx, map[string]interface{}{"AwayModeAffectsHotWater": enabled}); err != nil {
		return err
	}
	s.awayAffectsHW = enabled
	return nil
}

// SetAwayModeTargetTemperature sets the away-mode setpoint.
func (s *System) SetAwayModeTargetTemperature(ctx context.Context, temp float64) error {
	w, err := temperature.ToWire(temp, temperature.ProfileHeating, s.units)
	if err != nil {
		return err
	}
	return s.sendCommand(ctx, map[string]interface{}{"AwayModeSetPointLimit": w})
}

// SetDegradedModeTargetTemperature sets the lost-sensor fallback setpoint.
func (s *System) SetDegradedModeTargetTemperature(ctx context.Context, temp float64) error {
	w, err := temperature.ToWire(temp, temperature.ProfileHeating, s.units)
	if err != nil {
		return err
	}
	return s.sendCommand(ctx, map[string]interface{}{"DegradedModeSetpointThreshold": w})
}

// SetComfortMode toggles comfort mode.
func (s *System) SetComfortMode(ctx context.Context, enabled bool) error {
	if err := s.sendCommand(ctx, map[string]interface{}{"ComfortModeEnabled": enabled}); err != nil {
		return err
	}
	s.comfortMode = enabled
	return nil
}

// SetEcoMode toggles eco mode.
func (s *System) SetEcoMode(ctx context.Context, enabled bool) error {
	if err := s.sendCommand(ctx, map[string]interface{}{"EcoModeEnabled": enabled}); err != nil {
		return err
	}
	s.ecoMode = enabled
	return nil
}

// SetValveProtection toggles weekly valve exercise.
func (s *System) SetValveProtection(ctx context.Context, enabled bool) error {
	if err := s.sendCommand(ctx, map[string]interface{}{"ValveProtectionEnabled": enabled}); err != nil {
		return err
	}
	s.valveProtection = enabled
	return nil
}

// SetTimeZoneOffset sets the UTC offset in minutes.
func (s *System) SetTimeZoneOffset(ctx context.Context, minutes int) error {
	if err := s.sendCommand(ctx, map[string]interface{}{"TimeZoneOffset": minutes}); err != nil {
		return err
	}
	s.tzOffset = minutes
	return nil
}

// BoostAllRooms boosts every room by incTemp degrees for the duration. The
// delta is capped at the hub's maximum boost increase.
func (s *System) BoostAllRooms(ctx context.Context, incTemp float64, duration time.Duration) error {
	delta, err := temperature.ToWire(incTemp, temperature.ProfileDelta, s.units)
	if err != nil {
		return err
	}
	return s.sendCommand(ctx, map[string]interface{}{
		"RequestOverride": map[string]interface{}{
			"Type":               "Boost",
			"DurationMinutes":    int(duration.Minutes()),
			"IncreaseSetPointBy": delta,
		},
	})
}

// CancelAllOverrides clears user overrides on every room.
func (s *System) CancelAllOverrides(ctx context.Context) error {
	return s.sendCommand(ctx, map[string]interface{}{
		"RequestOverride": map[string]interface{}{"Type": "CancelUserOverrides"},
	})
}

// SetAwayModeEnabled toggles hub-wide away mode. The hub encodes the request
// numerically: 2 enables, 0 disables.
func (s *System) SetAwayModeEnabled(ctx context.Context, enabled bool) error {
	requestType := 0
	if enabled {
		requestType = 2
	}
	if err := s.sendCommand(ctx, map[string]interface{}{
		"RequestOverride": map[string]interface{}{"Type": requestType},
	}); err != nil {
		return err
	}
	s.awayEnabled = enabled
	return nil
}
