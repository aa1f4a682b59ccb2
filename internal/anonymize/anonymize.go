// Package anonymize scrubs identifying fields from snapshot dumps so they
// can be shared for debugging. Replacement is stable within one run: the
// same serial number scrubs to the same placeholder everywhere it appears.
package anonymize

import (
	"strings"

	"github.com/google/uuid"
)

// stringKeys are field names whose string values identify the installation.
var stringKeys = map[string]bool{
	"SerialNumber":       true,
	"MacAddress":         true,
	"HostName":           true,
	"Hostname":           true,
	"MdnsHostname":       true,
	"SSID":               true,
	"DisplayedSetupSSID": true,
}

// zeroKeys are numeric fields reset to zero.
var zeroKeys = map[string]bool{
	"Latitude":  true,
	"Longitude": true,
}

// dropListKeys are arrays emptied outright, such as the site survey of
// nearby access points.
var dropListKeys = map[string]bool{
	"DetectedAccessPoints": true,
}

// Anonymizer rewrites sensitive values with run-stable placeholders.
type Anonymizer struct {
	replacements map[string]string
}

// New creates an Anonymizer with an empty replacement table.
func New() *Anonymizer {
	return &Anonymizer{replacements: make(map[string]string)}
}

// Scrub walks a decoded JSON tree and returns it with identifying values
// replaced. The input tree is modified in place where possible.
func (a *Anonymizer) Scrub(node interface{}) interface{} {
	switch v := node.(type) {
	case map[string]interface{}:
		for key, value := range v {
			switch {
			case dropListKeys[key]:
				v[key] = []interface{}{}
			case zeroKeys[key]:
				v[key] = 0
			case stringKeys[key] || isAddressKey(key):
				if s, ok := value.(string); ok && s != "" {
					v[key] = a.placeholder(s)
				}
			default:
				v[key] = a.Scrub(value)
			}
		}
		return v
	case []interface{}:
		for i, item := range v {
			v[i] = a.Scrub(item)
		}
		return v
	}
	return node
}

// isAddressKey matches the hub's assorted IP address fields (IPv4Address,
// IPv4HostAddress, IPv6 variants and so on).
func isAddressKey(key string) bool {
	return strings.HasPrefix(key, "IPv4") || strings.HasPrefix(key, "IPv6")
}

func (a *Anonymizer) placeholder(original string) string {
	if replacement, ok := a.replacements[original]; ok {
		return replacement
	}
	replacement := "anon-" + uuid.NewString()[:8]
	a.replacements[original] = replacement
	return replacement
}
