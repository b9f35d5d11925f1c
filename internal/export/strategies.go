package export

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nahidhasan/picklist-export/internal/salesforce"
)

// CallTimeout bounds each individual metadata call made by a strategy.
var CallTimeout = 60 * time.Second

// resolver runs the metadata lookup strategy chain for one field at a
// time. It holds no per-field state; the entity id is resolved once per
// object by the processor and passed in.
type resolver struct {
	session  Session
	observer Observer
}

// strategy is one lookup-and-parse procedure. A nil run means the strategy
// does not apply in the current context and is skipped without a call.
type strategy struct {
	name string
	run  func(ctx context.Context) ([]PicklistValueDetail, error)
}

// Resolve returns the authoritative value list for one field, trying each
// strategy in priority order and short-circuiting on the first non-empty
// result. Results are never merged across strategies. An error inside a
// strategy is logged and treated as an empty result.
func (r *resolver) Resolve(ctx context.Context, object, entityID, field string) []PicklistValueDetail {
	for _, s := range r.strategies(object, entityID, field) {
		if s.run == nil {
			continue
		}

		callCtx, cancel := context.WithTimeout(ctx, CallTimeout)
		values, err := s.run(callCtx)
		cancel()

		if err != nil {
			r.observer.Log(fmt.Sprintf("      ERROR %s: %v", s.name, err), true)
			continue
		}
		if len(values) > 0 {
			return values
		}
	}
	return nil
}

// strategies builds the fixed priority chain for one (object, field) pair:
//
//  1. FieldDefinition lookup by qualified names
//  2. CustomField lookup by entity definition id (skipped without an id)
//  3. CustomField lookup by table name
//  4. inline values from a fresh object describe
func (r *resolver) strategies(object, entityID, field string) []strategy {
	chain := []strategy{
		{name: "fieldDefinition", run: func(ctx context.Context) ([]PicklistValueDetail, error) {
			return r.queryFieldDefinition(ctx, object, field)
		}},
		{name: "customFieldByEntityId"},
		{name: "customFieldByTableName", run: func(ctx context.Context) ([]PicklistValueDetail, error) {
			return r.queryCustomField(ctx, object, field)
		}},
		{name: "describeInline", run: func(ctx context.Context) ([]PicklistValueDetail, error) {
			return r.describeInline(ctx, object, field)
		}},
	}
	if entityID != "" {
		chain[1].run = func(ctx context.Context) ([]PicklistValueDetail, error) {
			return r.queryCustomField(ctx, entityID, field)
		}
	}
	return chain
}

// queryFieldDefinition reads the field's metadata from the FieldDefinition
// Tooling store, scoped by the object and field qualified API names.
func (r *resolver) queryFieldDefinition(ctx context.Context, object, field string) ([]PicklistValueDetail, error) {
	soql := fmt.Sprintf(
		"SELECT Metadata FROM FieldDefinition WHERE EntityDefinition.QualifiedApiName = '%s' AND QualifiedApiName = '%s'",
		escapeSOQL(object), escapeSOQL(field))
	return r.queryMetadata(ctx, soql)
}

// queryCustomField reads the field's metadata from the CustomField Tooling
// store. TableEnumOrId accepts either the entity definition id or the
// object's qualified name; DeveloperName is the field API name with the
// custom-field suffix stripped.
func (r *resolver) queryCustomField(ctx context.Context, tableEnumOrID, field string) ([]PicklistValueDetail, error) {
	soql := fmt.Sprintf(
		"SELECT Metadata FROM CustomField WHERE TableEnumOrId = '%s' AND DeveloperName = '%s'",
		escapeSOQL(tableEnumOrID), escapeSOQL(DeveloperName(field)))
	return r.queryMetadata(ctx, soql)
}

// queryMetadata runs a Metadata-selecting Tooling query and normalizes the
// first record's payload.
func (r *resolver) queryMetadata(ctx context.Context, soql string) ([]PicklistValueDetail, error) {
	records, err := r.session.ToolingQuery(ctx, soql)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return ParseValueSet(records[0].Metadata), nil
}

// describeInline re-fetches the object's describe and reads the value list
// already embedded in the matching field descriptor, bypassing the Tooling
// stores entirely.
func (r *resolver) describeInline(ctx context.Context, object, field string) ([]PicklistValueDetail, error) {
	describe, err := r.session.DescribeObject(ctx, object)
	if err != nil {
		return nil, err
	}

	for _, f := range describe.Fields {
		if !strings.EqualFold(f.Name, field) {
			continue
		}
		values := make([]PicklistValueDetail, 0, len(f.PicklistValues))
		for _, entry := range f.PicklistValues {
			values = append(values, PicklistValueDetail{
				Label:    entry.Label,
				Value:    entry.Value,
				IsActive: entry.IsActive(),
			})
		}
		return values, nil
	}
	return nil, nil
}

// resolveEntityID looks up the object's EntityDefinition id by qualified
// API name. Failure of any kind degrades to an empty id; the chain falls
// through to the table-name lookup instead.
func (r *resolver) resolveEntityID(ctx context.Context, object string) string {
	soql := fmt.Sprintf("SELECT Id FROM EntityDefinition WHERE QualifiedApiName = '%s'", escapeSOQL(object))

	callCtx, cancel := context.WithTimeout(ctx, CallTimeout)
	defer cancel()

	records, err := r.session.ToolingQuery(callCtx, soql)
	if err != nil {
		r.observer.Log(fmt.Sprintf("  ERROR resolveEntityID: %v", err), true)
		return ""
	}
	if len(records) == 0 {
		return ""
	}
	return records[0].ID
}

// DeveloperName strips the custom-field suffix from a field API name,
// producing the lookup key the CustomField store indexes by.
func DeveloperName(field string) string {
	return strings.TrimSuffix(field, "__c")
}

func escapeSOQL(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	return strings.ReplaceAll(s, "'", `\'`)
}

// ensure the resolver session stays assignable from the concrete client.
var _ Session = (*salesforce.Client)(nil)
