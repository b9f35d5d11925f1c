package export

import "github.com/nahidhasan/picklist-export/internal/salesforce"

// picklistFieldTypes are the two enumerated field kinds. Multi-select
// fields are listed the same way as single-select for value purposes.
var picklistFieldTypes = map[string]bool{
	"picklist":      true,
	"multipicklist": true,
}

// PicklistFields extracts the picklist and multipicklist fields from an
// object describe, preserving schema order. API names are unique within an
// object, so the slice doubles as an ordered map keyed by FieldInfo.APIName.
func PicklistFields(describe *salesforce.ObjectDescribe) []FieldInfo {
	if describe == nil {
		return nil
	}

	var fields []FieldInfo
	for _, field := range describe.Fields {
		if picklistFieldTypes[field.Type] {
			fields = append(fields, FieldInfo{APIName: field.Name, Label: field.Label})
		}
	}
	return fields
}
