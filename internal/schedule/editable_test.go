package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const weekdayHeatingYAML = `
Name: Living Room
Type: Heating
Weekdays:
  - Time: "07:00"
    Temp: 19
  - Time: "09:00"
    Temp: "Off"
Weekends:
  - Time: "08:00"
    Temp: 20
`

func TestEditableWeekdayExpansion(t *testing.T) {
	editable, err := ParseEditable([]byte(weekdayHeatingYAML))
	require.NoError(t, err)

	wire, err := editable.ToWire()
	require.NoError(t, err)

	for _, day := range []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"} {
		d := wire[day].(map[string]interface{})
		assert.Equal(t, []int{700, 900}, d["Time"], day)
		assert.Equal(t, []int{190, -200}, d["DegreesC"], day)
	}
	for _, day := range []string{"Saturday", "Sunday"} {
		d := wire[day].(map[string]interface{})
		assert.Equal(t, []int{800}, d["Time"], day)
		assert.Equal(t, []int{200}, d["DegreesC"], day)
	}
}

func TestEditableLiteralDayOverridesShorthand(t *testing.T) {
	editable, err := ParseEditable([]byte(`
Type: Heating
Weekdays:
  - Time: "07:00"
    Temp: 19
Friday:
  - Time: "06:30"
    Temp: 21
`))
	require.NoError(t, err)

	wire, err := editable.ToWire()
	require.NoError(t, err)

	friday := wire["Friday"].(map[string]interface{})
	assert.Equal(t, []int{630}, friday["Time"])
	assert.Equal(t, []int{210}, friday["DegreesC"])
	monday := wire["Monday"].(map[string]interface{})
	assert.Equal(t, []int{700}, monday["Time"])
}

func TestEditableRejectsNonIncreasingTimes(t *testing.T) {
	editable, err := ParseEditable([]byte(`
Type: Heating
Monday:
  - Time: "09:00"
    Temp: 19
  - Time: "07:00"
    Temp: 20
`))
	require.NoError(t, err)

	_, err = editable.ToWire()
	assert.ErrorContains(t, err, "strictly increasing")
}

func TestEditableRejectsUnknownType(t *testing.T) {
	_, err := ParseEditable([]byte("Type: Sprinkler\n"))
	assert.ErrorContains(t, err, "unknown schedule type")
}

func TestOnOffEncoding(t *testing.T) {
	editable, err := ParseEditable([]byte(`
Type: OnOff
Monday:
  - Time: "00:00"
    State: "Off"
  - Time: "07:30"
    State: "On"
  - Time: "22:00"
    State: "Off"
`))
	require.NoError(t, err)

	wire, err := editable.ToWire()
	require.NoError(t, err)
	assert.Equal(t, []int{0, 730, -2200}, wire["Monday"])
}

func TestOnOffMidnightDecodesAsOff(t *testing.T) {
	entries, err := decodeDay([]interface{}{float64(0), float64(730), float64(-2200)}, TypeOnOff)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "00:00", entries[0].Time)
	assert.Equal(t, "Off", entries[0].State)
	assert.Equal(t, "On", entries[1].State)
	assert.Equal(t, "Off", entries[2].State)
	assert.Equal(t, "22:00", entries[2].Time)
}

func TestLevelEncoding(t *testing.T) {
	editable, err := ParseEditable([]byte(`
Type: Level
Monday:
  - Time: "08:00"
    Level: 40
  - Time: "20:00"
    Level: 0
`))
	require.NoError(t, err)

	wire, err := editable.ToWire()
	require.NoError(t, err)
	monday := wire["Monday"].(map[string]interface{})
	assert.Equal(t, []int{800, 2000}, monday["Time"])
	assert.Equal(t, []int{40, 0}, monday["Level"])
}

func TestLevelOutOfRange(t *testing.T) {
	editable, err := ParseEditable([]byte(`
Type: Level
Monday:
  - Time: "08:00"
    Level: 140
`))
	require.NoError(t, err)

	_, err = editable.ToWire()
	assert.ErrorContains(t, err, "out of range")
}

func TestEditableRoundTrip(t *testing.T) {
	editable, err := ParseEditable([]byte(`
Type: Heating
Monday:
  - Time: "07:00"
    Temp: 19
  - Time: "21:30"
    Temp: 19.5
  - Time: "23:00"
    Temp: "Off"
Sunday:
  - Time: "08:00"
    Temp: 20
`))
	require.NoError(t, err)

	wire, err := editable.ToWire()
	require.NoError(t, err)

	back, err := ToEditable(wire, TypeHeating)
	require.NoError(t, err)

	assert.Equal(t, editable.Monday, back.Monday)
	assert.Equal(t, editable.Sunday, back.Sunday)
	assert.Nil(t, back.Tuesday)
}
