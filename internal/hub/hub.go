// Package hub builds a typed object graph from the hub's raw snapshots and
// exposes the command surface for mutating it.
package hub

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/dokzlo13/wiserhub/internal/discovery"
	"github.com/dokzlo13/wiserhub/internal/rest"
	"github.com/dokzlo13/wiserhub/internal/schedule"
	"github.com/dokzlo13/wiserhub/internal/temperature"
)

// deviceTypeKeys are the domain snapshot collections holding typed device
// records, in build order.
var deviceTypeKeys = []string{
	"SmartValve", "RoomStat", "SmartPlug", "HeatingActuator",
	"UnderFloorHeating", "Shutter", "Light",
}

// Hub is the entry point: one connected heating hub and its object graph.
// The graph is rebuilt wholesale on Refresh; callers must not retain
// references across a refresh.
type Hub struct {
	client *rest.Client
	units  temperature.Units

	system    *System
	schedules []*schedule.Schedule
	devices   []*Device

	smartValves      []*SmartValve
	roomStats        []*RoomStat
	smartPlugs       []*SmartPlug
	heatingActuators []*HeatingActuator
	ufhControllers   []*UFHController
	shutters         []*Shutter
	lights           []*Light

	rooms    []*Room
	hotWater *HotWater
	channels []*HeatingChannel
	moments  []*Moment
}

// Connect opens a hub and fetches its initial state. An empty host triggers
// mDNS discovery, picking the first hub found. No partially built Hub is
// ever returned: any snapshot failure propagates as-is.
func Connect(ctx context.Context, host, secret string, units temperature.Units) (*Hub, error) {
	if host == "" {
		hubs, err := discovery.Discover(ctx, discovery.DefaultMinSearchTime, discovery.DefaultMaxSearchTime)
		if err != nil {
			return nil, fmt.Errorf("discovering hub: %w", err)
		}
		if len(hubs) == 0 {
			return nil, fmt.Errorf("%w: no hub found on the local network", rest.ErrConnectivity)
		}
		host = hubs[0].IP
		log.Info().Str("host", host).Str("name", hubs[0].Name).Msg("Discovered hub")
	}
	if units == "" {
		units = temperature.Metric
	}
	h := &Hub{
		client: rest.NewClient(host, secret, 0),
		units:  units,
	}
	if err := h.Refresh(ctx); err != nil {
		return nil, err
	}
	return h, nil
}

// Refresh re-fetches the three snapshots and rebuilds the object graph. The
// prior graph stays intact if any fetch fails.
func (h *Hub) Refresh(ctx context.Context) error {
	domain, err := h.client.GetSnapshot(ctx, rest.SnapshotDomain)
	if err != nil {
		return err
	}
	network, err := h.client.GetSnapshot(ctx, rest.SnapshotNetwork)
	if err != nil {
		return err
	}
	schedules, err := h.client.GetSnapshot(ctx, rest.SnapshotSchedules)
	if err != nil {
		return err
	}
	h.build(domain, network, schedules)
	return nil
}

func (h *Hub) build(domain, network, schedulesSnap map[string]interface{}) {
	// Schedules come first: devices, rooms, and hot water resolve into them.
	h.schedules = nil
	for _, typ := range []schedule.Type{schedule.TypeHeating, schedule.TypeOnOff, schedule.TypeLevel} {
		for _, raw := range listField(schedulesSnap, string(typ)) {
			h.schedules = append(h.schedules, schedule.New(h.client, h.units, typ, raw))
		}
	}

	genericByID := make(map[int]map[string]interface{})
	for _, raw := range listField(domain, "Device") {
		genericByID[intField(raw, "id")] = raw
	}
	var controller map[string]interface{}
	for _, raw := range genericByID {
		if stringField(raw, "ProductType") == "Controller" {
			controller = raw
			break
		}
	}
	h.system = newSystem(h.client, h.units, objectField(domain, "System"), controller,
		network, objectField(domain, "Cloud"))

	roomRecords := listField(domain, "Room")
	roomByDevice := make(map[int]int)
	for _, room := range roomRecords {
		for _, deviceID := range roomDeviceIDs(room) {
			roomByDevice[deviceID] = intField(room, "id")
		}
	}

	h.devices = nil
	h.smartValves = nil
	h.roomStats = nil
	h.smartPlugs = nil
	h.heatingActuators = nil
	h.ufhControllers = nil
	h.shutters = nil
	h.lights = nil
	consumed := make(map[int]bool)
	for _, typeKey := range deviceTypeKeys {
		for _, specific := range listField(domain, typeKey) {
			id := intField(specific, "id")
			merged := mergeRecords(genericByID[id], specific)
			if stringField(merged, "ProductType") == "" {
				merged["ProductType"] = typeKey
			}
			consumed[id] = true
			d := newDevice(h.client, h.units, typeKey, merged, roomByDevice[id])
			h.devices = append(h.devices, d)
			switch typeKey {
			case "SmartValve":
				h.smartValves = append(h.smartValves, newSmartValve(d))
			case "RoomStat":
				h.roomStats = append(h.roomStats, newRoomStat(d))
			case "SmartPlug":
				h.smartPlugs = append(h.smartPlugs, newSmartPlug(d, h.deviceSchedule(merged, schedule.TypeOnOff)))
			case "HeatingActuator":
				h.heatingActuators = append(h.heatingActuators, newHeatingActuator(d))
			case "UnderFloorHeating":
				h.ufhControllers = append(h.ufhControllers, newUFHController(d))
			case "Shutter":
				h.shutters = append(h.shutters, newShutter(d, h.deviceSchedule(merged, schedule.TypeLevel)))
			case "Light":
				typ := schedule.TypeOnOff
				if boolField(merged, "IsDimmable") {
					typ = schedule.TypeLevel
				}
				h.lights = append(h.lights, newLight(d, h.deviceSchedule(merged, typ)))
			}
		}
	}
	// Generic records with no typed block (the controller itself, unpaired
	// nodes) still surface as plain devices.
	for id, raw := range genericByID {
		if !consumed[id] {
			h.devices = append(h.devices, newDevice(h.client, h.units, "Device", raw, roomByDevice[id]))
		}
	}

	h.rooms = nil
	for _, raw := range roomRecords {
		var sched *schedule.Schedule
		if scheduleID := intField(raw, "ScheduleId"); scheduleID != 0 {
			sched = h.ScheduleByID(schedule.TypeHeating, scheduleID)
		}
		var devices []*Device
		for _, deviceID := range roomDeviceIDs(raw) {
			if d := h.DeviceByID(deviceID); d != nil {
				devices = append(devices, d)
			}
		}
		h.rooms = append(h.rooms, newRoom(h.client, h.units, raw, sched, devices))
	}

	h.hotWater = nil
	if records := listField(domain, "HotWater"); len(records) > 0 {
		raw := records[0]
		var sched *schedule.Schedule
		if scheduleID := intField(raw, "ScheduleId"); scheduleID != 0 {
			sched = h.ScheduleByID(schedule.TypeOnOff, scheduleID)
		}
		h.hotWater = newHotWater(h.client, h.units, raw, sched)
	}

	h.channels = nil
	for _, raw := range listField(domain, "HeatingChannel") {
		h.channels = append(h.channels, newHeatingChannel(raw))
	}

	h.moments = nil
	for _, raw := range listField(domain, "Moment") {
		h.moments = append(h.moments, newMoment(h.client, raw))
	}

	log.Debug().
		Int("rooms", len(h.rooms)).
		Int("devices", len(h.devices)).
		Int("schedules", len(h.schedules)).
		Msg("Built hub model")
}

func (h *Hub) deviceSchedule(raw map[string]interface{}, typ schedule.Type) *schedule.Schedule {
	scheduleID := intField(raw, "ScheduleId")
	if scheduleID == 0 {
		return nil
	}
	return h.ScheduleByID(typ, scheduleID)
}

// roomDeviceIDs collects every device id a room record references. The hub
// spreads them over per-type fields (SmartValveIds, RoomStatId, ...), so any
// id-suffixed key except the room's own id and ScheduleId counts.
func roomDeviceIDs(room map[string]interface{}) []int {
	var ids []int
	for key, value := range room {
		if key == "id" || key == "ScheduleId" {
			continue
		}
		switch {
		case strings.HasSuffix(key, "Ids"):
			if list, ok := value.([]interface{}); ok {
				for _, item := range list {
					if n, ok := item.(float64); ok {
						ids = append(ids, int(n))
					}
				}
			}
		case strings.HasSuffix(key, "Id"):
			if n, ok := value.(float64); ok {
				ids = append(ids, int(n))
			}
		}
	}
	return ids
}

// Units returns the unit system this hub presents.
func (h *Hub) Units() temperature.Units { return h.units }

// System returns the hub-level settings surface.
func (h *Hub) System() *System { return h.system }

// Rooms lists all rooms.
func (h *Hub) Rooms() []*Room { return h.rooms }

// HotWater returns the hot-water controller, or nil when the hub has none.
func (h *Hub) HotWater() *HotWater { return h.hotWater }

// HeatingChannels lists the physical boiler outputs.
func (h *Hub) HeatingChannels() []*HeatingChannel { return h.channels }

// Moments lists the stored scenes.
func (h *Hub) Moments() []*Moment { return h.moments }

// Schedules lists all schedules across types.
func (h *Hub) Schedules() []*schedule.Schedule { return h.schedules }

// Devices lists every paired device, including the controller itself.
func (h *Hub) Devices() []*Device { return h.devices }

func (h *Hub) SmartValves() []*SmartValve           { return h.smartValves }
func (h *Hub) RoomStats() []*RoomStat               { return h.roomStats }
func (h *Hub) SmartPlugs() []*SmartPlug             { return h.smartPlugs }
func (h *Hub) HeatingActuators() []*HeatingActuator { return h.heatingActuators }
func (h *Hub) UFHControllers() []*UFHController     { return h.ufhControllers }
func (h *Hub) Shutters() []*Shutter                 { return h.shutters }
func (h *Hub) Lights() []*Light                     { return h.lights }

// RoomByID returns the room with the given id, or nil.
func (h *Hub) RoomByID(id int) *Room {
	for _, room := range h.rooms {
		if room.ID() == id {
			return room
		}
	}
	return nil
}

// RoomByName returns the room with the given name, or nil.
func (h *Hub) RoomByName(name string) *Room {
	for _, room := range h.rooms {
		if room.Name() == name {
			return room
		}
	}
	return nil
}

// RoomForDevice returns the room a device is assigned to, or nil.
func (h *Hub) RoomForDevice(deviceID int) *Room {
	if d := h.DeviceByID(deviceID); d != nil && d.RoomID() != 0 {
		return h.RoomByID(d.RoomID())
	}
	return nil
}

// DeviceByID returns the device with the given id, or nil.
func (h *Hub) DeviceByID(id int) *Device {
	for _, d := range h.devices {
		if d.ID() == id {
			return d
		}
	}
	return nil
}

// DeviceByNodeID returns the device with the given Zigbee node id, or nil.
func (h *Hub) DeviceByNodeID(nodeID int) *Device {
	for _, d := range h.devices {
		if d.NodeID() == nodeID {
			return d
		}
	}
	return nil
}

// DeviceBySerial returns the device with the given serial number, or nil.
func (h *Hub) DeviceBySerial(serial string) *Device {
	for _, d := range h.devices {
		if d.SerialNumber() == serial {
			return d
		}
	}
	return nil
}

// ScheduleByID returns the schedule of the given type and id, or nil.
// Schedule ids are only unique within a type.
func (h *Hub) ScheduleByID(typ schedule.Type, id int) *schedule.Schedule {
	for _, s := range h.schedules {
		if s.Type() == typ && s.ID() == id {
			return s
		}
	}
	return nil
}

// ScheduleByName returns the first schedule with the given name, or nil.
func (h *Hub) ScheduleByName(name string) *schedule.Schedule {
	for _, s := range h.schedules {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

// MomentByName returns the moment with the given name, or nil.
func (h *Hub) MomentByName(name string) *Moment {
	for _, m := range h.moments {
		if m.Name() == name {
			return m
		}
	}
	return nil
}

// ChannelRooms expands a heating channel's room ids into room references.
func (h *Hub) ChannelRooms(channel *HeatingChannel) []*Room {
	rooms := make([]*Room, 0, len(channel.RoomIDs()))
	for _, id := range channel.RoomIDs() {
		if room := h.RoomByID(id); room != nil {
			rooms = append(rooms, room)
		}
	}
	return rooms
}

// AddRoom is not supported by the hub's local API.
func (h *Hub) AddRoom(ctx context.Context, name string) error {
	return fmt.Errorf("%w: room creation", ErrNotImplemented)
}

// DeleteRoom is not supported by the hub's local API.
func (h *Hub) DeleteRoom(ctx context.Context, id int) error {
	return fmt.Errorf("%w: room deletion", ErrNotImplemented)
}

// BoostAllRooms is a convenience passthrough to the system command.
func (h *Hub) BoostAllRooms(ctx context.Context, incTemp float64, duration time.Duration) error {
	return h.system.BoostAllRooms(ctx, incTemp, duration)
}
