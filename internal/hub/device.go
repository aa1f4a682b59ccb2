package hub

import (
	"context"
	"fmt"
	"math"

	"github.com/dokzlo13/wiserhub/internal/rest"
	"github.com/dokzlo13/wiserhub/internal/temperature"
)

func devicePath(kind string, id int) string {
	return fmt.Sprintf("%s/%d", kind, id)
}

// Signal is the radio-quality report every device carries.
type Signal struct {
	Displayed      string
	ControllerRSSI int
	ControllerLQI  int
	DeviceRSSI     int
	DeviceLQI      int
}

// SignalPercent maps an RSSI reading onto a 0-100 scale.
func SignalPercent(rssi int) int {
	p := 2 * (rssi + 100)
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// DevicePercent returns the device-side reception strength as a percentage.
func (s Signal) DevicePercent() int { return SignalPercent(s.DeviceRSSI) }

// ControllerPercent returns the controller-side reception strength as a
// percentage.
func (s Signal) ControllerPercent() int { return SignalPercent(s.ControllerRSSI) }

func signalFromRaw(raw map[string]interface{}) Signal {
	sig := Signal{Displayed: stringField(raw, "DisplayedSignalStrength")}
	if rc := objectField(raw, "ReceptionOfController"); rc != nil {
		sig.ControllerRSSI = intField(rc, "Rssi")
		sig.ControllerLQI = intField(rc, "Lqi")
	}
	if rd := objectField(raw, "ReceptionOfDevice"); rd != nil {
		sig.DeviceRSSI = intField(rd, "Rssi")
		sig.DeviceLQI = intField(rd, "Lqi")
	}
	return sig
}

// Battery reports charge state for battery-powered devices. Voltage is in
// volts; the hub reports tenths.
type Battery struct {
	Level   string
	Voltage float64
	Percent int
}

// batteryFromRaw computes the percentage by linear interpolation between the
// device-specific empty and full voltages.
func batteryFromRaw(raw map[string]interface{}, minVoltage, fullVoltage float64) Battery {
	b := Battery{
		Level:   stringField(raw, "BatteryLevel"),
		Voltage: float64(intField(raw, "BatteryVoltage")) / 10,
	}
	if b.Level == "NoBattery" {
		return b
	}
	percent := math.Round((b.Voltage - minVoltage) / (fullVoltage - minVoltage) * 100)
	switch {
	case percent < 0:
		percent = 0
	case percent > 100:
		percent = 100
	}
	b.Percent = int(percent)
	return b
}

// Device is the state common to every node paired with the hub. Variant
// types embed it and add their own accessors.
type Device struct {
	client *rest.Client
	units  temperature.Units

	id           int
	nodeID       int
	parentNodeID int
	typeKey      string
	productType  string
	model        string
	firmware     string
	serial       string
	roomID       int
	signal       Signal
	raw          map[string]interface{}

	lockEnabled bool
	identify    bool
}

// newDevice wraps a merged device record. typeKey is the domain collection
// the record came from ("SmartValve", "Light", ...); typed commands PATCH
// against it, since the reported ProductType ("iTRV", "DimmableLight") is
// not a write path.
func newDevice(client *rest.Client, units temperature.Units, typeKey string, raw map[string]interface{}, roomID int) *Device {
	return &Device{
		client:       client,
		units:        units,
		id:           intField(raw, "id"),
		nodeID:       intField(raw, "NodeId"),
		parentNodeID: intField(raw, "ParentNodeId"),
		typeKey:      typeKey,
		productType:  stringField(raw, "ProductType"),
		model:        stringField(raw, "ModelIdentifier"),
		firmware:     stringField(raw, "ActiveFirmwareVersion"),
		serial:       stringField(raw, "SerialNumber"),
		roomID:       roomID,
		signal:       signalFromRaw(raw),
		raw:          raw,
		lockEnabled:  boolField(raw, "DeviceLockEnabled"),
		identify:     boolField(raw, "IdentifyActive"),
	}
}

func (d *Device) ID() int              { return d.id }
func (d *Device) NodeID() int          { return d.nodeID }
func (d *Device) ParentNodeID() int    { return d.parentNodeID }
func (d *Device) ProductType() string  { return d.productType }
func (d *Device) Model() string        { return d.model }
func (d *Device) Firmware() string     { return d.firmware }
func (d *Device) SerialNumber() string { return d.serial }
func (d *Device) Signal() Signal       { return d.signal }

// RoomID returns the owning room's id, or 0 when the device is unassigned.
func (d *Device) RoomID() int { return d.roomID }

// DeviceLockEnabled reports whether physical controls are locked out.
func (d *Device) DeviceLockEnabled() bool { return d.lockEnabled }

// IdentifyActive reports whether the device is flashing its identify signal.
func (d *Device) IdentifyActive() bool { return d.identify }

// SetDeviceLock writes the lock flag. Lock and identify are written at
// device scope for every device kind, not at the type-specific endpoint.
func (d *Device) SetDeviceLock(ctx context.Context, enabled bool) error {
	if err := d.sendDeviceCommand(ctx, map[string]interface{}{"DeviceLockEnabled": enabled}); err != nil {
		return err
	}
	d.lockEnabled = enabled
	return nil
}

// Identify toggles the device's identify signal.
func (d *Device) Identify(ctx context.Context, enabled bool) error {
	if err := d.sendDeviceCommand(ctx, map[string]interface{}{"Identify": enabled}); err != nil {
		return err
	}
	d.identify = enabled
	return nil
}

func (d *Device) sendDeviceCommand(ctx context.Context, body map[string]interface{}) error {
	return d.client.SendCommand(ctx, devicePath("Device", d.id), body)
}

func (d *Device) sendTypedCommand(ctx context.Context, body map[string]interface{}) error {
	return d.client.SendCommand(ctx, devicePath(d.typeKey, d.id), body)
}

func (d *Device) currentTemp(key string) float64 {
	v, _ := temperature.FromWire(intField(d.raw, key), temperature.ProfileCurrent, d.units)
	return v
}
