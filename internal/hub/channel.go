package hub

// HeatingChannel is a physical boiler output grouping one or more rooms.
// It is read-only; demand is controlled through the rooms.
type HeatingChannel struct {
	id      int
	name    string
	roomIDs []int
	raw     map[string]interface{}
}

func newHeatingChannel(raw map[string]interface{}) *HeatingChannel {
	return &HeatingChannel{
		id:      intField(raw, "id"),
		name:    stringField(raw, "Name"),
		roomIDs: intListField(raw, "RoomIds"),
		raw:     raw,
	}
}

func (c *HeatingChannel) ID() int      { return c.id }
func (c *HeatingChannel) Name() string { return c.name }

// RoomIDs lists the rooms attached to this output.
func (c *HeatingChannel) RoomIDs() []int { return c.roomIDs }

// PercentageDemand is the channel's aggregate heat demand.
func (c *HeatingChannel) PercentageDemand() int { return intField(c.raw, "PercentageDemand") }

// HeatingRelayState is the boiler relay state, "On" or "Off".
func (c *HeatingChannel) HeatingRelayState() string { return stringField(c.raw, "HeatingRelayState") }

// IsSmartValvePreventingDemand reports whether a valve is blocking demand.
func (c *HeatingChannel) IsSmartValvePreventingDemand() bool {
	return boolField(c.raw, "IsSmartValvePreventingDemand")
}
