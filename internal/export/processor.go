package export

import (
	"context"
	"fmt"

	"github.com/nahidhasan/picklist-export/internal/salesforce"
)

// processObject runs the per-object pipeline: existence check, field
// discovery, per-field resolution, row construction.
//
// A NOT_FOUND/INVALID_TYPE describe error is a terminal state reported via
// ProcessingResult.ObjectExists; any other describe error is a hard
// per-object failure returned to the aggregator. Zero discovered picklist
// fields is a success, not a failure.
func (s *Service) processObject(ctx context.Context, object string) (*ProcessingResult, error) {
	result := &ProcessingResult{ObjectExists: true}

	describe, err := s.session.DescribeObject(ctx, object)
	if err != nil {
		if salesforce.IsNotFound(err) {
			result.ObjectExists = false
			return result, nil
		}
		return nil, err
	}

	fields := PicklistFields(describe)
	result.PicklistFieldsCount = len(fields)
	if len(fields) == 0 {
		return result, nil
	}
	s.observer.Log(fmt.Sprintf("  Found %d picklist fields", len(fields)), true)

	// Resolved once and reused for every field of this object.
	entityID := s.resolver.resolveEntityID(ctx, object)
	if entityID != "" {
		s.observer.Log(fmt.Sprintf("  EntityDefinition.Id: %s", entityID), true)
	}

	for _, field := range fields {
		if ctx.Err() != nil {
			break
		}

		values := s.resolver.Resolve(ctx, object, entityID, field.APIName)
		if len(values) == 0 {
			s.observer.Log(fmt.Sprintf("    Field: %s - no values resolved, skipping", field.APIName), true)
			continue
		}
		s.observer.Log(fmt.Sprintf("    Field: %s - %d values", field.APIName, len(values)), true)

		for _, value := range values {
			status := statusActive
			if !value.IsActive {
				status = statusInactive
				result.InactiveValues++
			}
			result.Rows = append(result.Rows, []string{
				object, field.Label, field.APIName, value.Label, value.Value, status,
			})
			result.ValuesProcessed++
		}
	}

	return result, nil
}
