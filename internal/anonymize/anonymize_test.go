package anonymize

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const fixture = `{
  "System": {
    "GeoPosition": {"Latitude": 51.5, "Longitude": -0.12}
  },
  "Device": [
    {"id": 10, "SerialNumber": "VALVE010", "ProductType": "iTRV"},
    {"id": 12, "SerialNumber": "STAT012"}
  ],
  "Station": {
    "MdnsHostname": "WiserHeat052C2F",
    "SSID": "HomeWifi",
    "NetworkInterface": {"MacAddress": "00:11:22:33:44:55", "IPv4HostAddress": "192.168.1.50"},
    "DetectedAccessPoints": [{"SSID": "Neighbour", "Channel": 6}]
  }
}`

func scrubbed(t *testing.T) map[string]interface{} {
	t.Helper()
	var tree map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(fixture), &tree))
	return New().Scrub(tree).(map[string]interface{})
}

func TestScrubReplacesIdentifyingFields(t *testing.T) {
	tree := scrubbed(t)

	station := tree["Station"].(map[string]interface{})
	assert.NotEqual(t, "WiserHeat052C2F", station["MdnsHostname"])
	assert.NotEqual(t, "HomeWifi", station["SSID"])

	iface := station["NetworkInterface"].(map[string]interface{})
	assert.NotEqual(t, "00:11:22:33:44:55", iface["MacAddress"])
	assert.NotEqual(t, "192.168.1.50", iface["IPv4HostAddress"])

	geo := tree["System"].(map[string]interface{})["GeoPosition"].(map[string]interface{})
	assert.Equal(t, 0, geo["Latitude"])
	assert.Equal(t, 0, geo["Longitude"])
}

func TestScrubEmptiesAccessPointSurvey(t *testing.T) {
	tree := scrubbed(t)

	station := tree["Station"].(map[string]interface{})
	assert.Empty(t, station["DetectedAccessPoints"])
}

func TestScrubKeepsNonSensitiveFields(t *testing.T) {
	tree := scrubbed(t)

	devices := tree["Device"].([]interface{})
	first := devices[0].(map[string]interface{})
	assert.Equal(t, float64(10), first["id"])
	assert.Equal(t, "iTRV", first["ProductType"])
	assert.NotEqual(t, "VALVE010", first["SerialNumber"])
}

func TestScrubIsStableWithinRun(t *testing.T) {
	a := New()
	tree := map[string]interface{}{
		"First":  map[string]interface{}{"SerialNumber": "ABC"},
		"Second": map[string]interface{}{"SerialNumber": "ABC"},
	}
	a.Scrub(tree)

	first := tree["First"].(map[string]interface{})["SerialNumber"]
	second := tree["Second"].(map[string]interface{})["SerialNumber"]
	assert.Equal(t, first, second)
	assert.NotEqual(t, "ABC", first)
}
