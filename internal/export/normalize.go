package export

import "strings"

// ParseValueSet extracts picklist values from a Tooling API Metadata
// payload. The value list may sit under valueSet.valueSetDefinition.value
// (local value sets) or directly under valueSet.value (global value sets);
// either key may be absent entirely.
//
// Extraction is best-effort: a missing or malformed valueSet yields an
// empty slice, a malformed entry is skipped without aborting the others,
// and an absent isActive flag means the value is active. The stored value
// prefers valueName over value.
func ParseValueSet(metadata map[string]any) []PicklistValueDetail {
	valueSet, ok := metadata["valueSet"].(map[string]any)
	if !ok {
		return nil
	}

	entries := valueSetEntries(valueSet)
	if len(entries) == 0 {
		return nil
	}

	values := make([]PicklistValueDetail, 0, len(entries))
	for _, raw := range entries {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}

		value := stringField(entry, "valueName")
		if value == "" {
			value = stringField(entry, "value")
		}

		values = append(values, PicklistValueDetail{
			Label:    stringField(entry, "label"),
			Value:    value,
			IsActive: boolField(entry, "isActive", true),
		})
	}
	return values
}

// valueSetEntries locates the raw value list inside a valueSet mapping.
func valueSetEntries(valueSet map[string]any) []any {
	if def, ok := valueSet["valueSetDefinition"].(map[string]any); ok {
		if entries, ok := def["value"].([]any); ok && len(entries) > 0 {
			return entries
		}
	}
	entries, _ := valueSet["value"].([]any)
	return entries
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

// boolField coerces a JSON value to bool, defaulting when the key is
// absent or nil. Tooling API payloads have been seen carrying the flag as
// a bool, a "true"/"false" string, or a number.
func boolField(m map[string]any, key string, def bool) bool {
	raw, ok := m[key]
	if !ok || raw == nil {
		return def
	}
	switch v := raw.(type) {
	case bool:
		return v
	case string:
		switch strings.ToLower(v) {
		case "true", "1":
			return true
		case "false", "0":
			return false
		}
		return def
	case float64:
		return v != 0
	}
	return def
}
