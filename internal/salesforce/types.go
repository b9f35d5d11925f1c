// Package salesforce provides a typed client for the Salesforce REST and
// Tooling APIs. It operates on an already-established session (instance URL
// plus access token); it does not implement login.
package salesforce

// ObjectDescribe is the schema description of a single SObject.
type ObjectDescribe struct {
	Name   string          `json:"name"`
	Label  string          `json:"label"`
	Fields []FieldDescribe `json:"fields"`
}

// FieldDescribe is one field descriptor from an object describe.
type FieldDescribe struct {
	Name  string `json:"name"`
	Label string `json:"label"`
	Type  string `json:"type"`

	// PicklistValues is populated for picklist and multipicklist fields.
	PicklistValues []PicklistEntry `json:"picklistValues"`
}

// PicklistEntry is one inline picklist value from a describe payload.
// Active is a pointer because older API versions omit the flag entirely;
// an absent flag means the value is active.
type PicklistEntry struct {
	Label  string `json:"label"`
	Value  string `json:"value"`
	Active *bool  `json:"active"`
}

// IsActive reports whether the entry is active, treating a missing flag
// as active.
func (e PicklistEntry) IsActive() bool {
	return e.Active == nil || *e.Active
}

// ToolingRecord is one record returned by a Tooling API query. Only the
// columns the exporter selects are decoded; Metadata keeps its raw shape
// because the value-set structure varies across orgs and field types.
type ToolingRecord struct {
	ID       string         `json:"Id"`
	Metadata map[string]any `json:"Metadata"`
}

// SObjectSummary is one entry from the global describe.
type SObjectSummary struct {
	Name                string `json:"name"`
	Queryable           bool   `json:"queryable"`
	DeprecatedAndHidden bool   `json:"deprecatedAndHidden"`
}

// ObjectFilter selects a subset of org objects by name shape.
type ObjectFilter string

const (
	FilterAll      ObjectFilter = "all"
	FilterStandard ObjectFilter = "standard"
	FilterCustom   ObjectFilter = "custom"
)

// Matches reports whether an object name passes the filter. Custom objects
// carry the __c suffix.
func (f ObjectFilter) Matches(name string) bool {
	switch f {
	case FilterStandard:
		return !isCustomName(name)
	case FilterCustom:
		return isCustomName(name)
	default:
		return true
	}
}

func isCustomName(name string) bool {
	return len(name) > 3 && name[len(name)-3:] == "__c"
}
