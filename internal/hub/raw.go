package hub

import "encoding/json"

// Accessors for the decoded snapshot trees. The hub's JSON arrives as
// map[string]interface{}; numbers decode as float64.

func intField(m map[string]interface{}, key string) int {
	switch v := m[key].(type) {
	case float64:
		return int(v)
	case int:
		return v
	case json.Number:
		n, _ := v.Int64()
		return int(n)
	}
	return 0
}

func int64Field(m map[string]interface{}, key string) int64 {
	switch v := m[key].(type) {
	case float64:
		return int64(v)
	case int:
		return int64(v)
	case json.Number:
		n, _ := v.Int64()
		return n
	}
	return 0
}

func floatField(m map[string]interface{}, key string) float64 {
	switch v := m[key].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return 0
}

func stringField(m map[string]interface{}, key string) string {
	if v, ok := m[key].(string); ok {
		return v
	}
	return ""
}

func boolField(m map[string]interface{}, key string) bool {
	if v, ok := m[key].(bool); ok {
		return v
	}
	return false
}

func objectField(m map[string]interface{}, key string) map[string]interface{} {
	if v, ok := m[key].(map[string]interface{}); ok {
		return v
	}
	return nil
}

func listField(m map[string]interface{}, key string) []map[string]interface{} {
	raw, ok := m[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]map[string]interface{}, 0, len(raw))
	for _, item := range raw {
		if obj, ok := item.(map[string]interface{}); ok {
			out = append(out, obj)
		}
	}
	return out
}

func intListField(m map[string]interface{}, key string) []int {
	raw, ok := m[key].([]interface{})
	if !ok {
		return nil
	}
	out := make([]int, 0, len(raw))
	for _, item := range raw {
		if n, ok := item.(float64); ok {
			out = append(out, int(n))
		}
	}
	return out
}

// mergeRecords overlays the type-specific record onto the generic device
// record. The specific record wins on key collisions.
func mergeRecords(generic, specific map[string]interface{}) map[string]interface{} {
	merged := make(map[string]interface{}, len(generic)+len(specific))
	for k, v := range generic {
		merged[k] = v
	}
	for k, v := range specific {
		merged[k] = v
	}
	return merged
}

// setpointOrigin tolerates both spellings the hub emits.
func setpointOrigin(m map[string]interface{}) string {
	if v := stringField(m, "SetpointOrigin"); v != "" {
		return v
	}
	return stringField(m, "SetPointOrigin")
}
