// Package export implements the picklist metadata export engine.
//
// For each requested object it discovers the picklist fields from the
// object's describe, resolves each field's authoritative value list through
// a fixed chain of metadata lookup strategies, and accumulates the results
// into a tabular report plus run-wide statistics. Any single field or
// object may fail without aborting the run.
//
// This package has no HTTP or UI dependencies; callers supply the
// Salesforce session, the report sink and an Observer.
package export

import (
	"context"

	"github.com/nahidhasan/picklist-export/internal/salesforce"
)

// Session is the authenticated Salesforce connection the exporter reads
// from. Satisfied by *salesforce.Client.
type Session interface {
	DescribeObject(ctx context.Context, object string) (*salesforce.ObjectDescribe, error)
	ToolingQuery(ctx context.Context, soql string) ([]salesforce.ToolingRecord, error)
}

// Sink receives the finished report table. It returns the path actually
// written, which may differ from the requested path.
type Sink interface {
	Write(rows [][]string, path string) (string, error)
}

// FieldInfo identifies one discovered picklist field.
type FieldInfo struct {
	APIName string
	Label   string
}

// PicklistValueDetail is a single picklist value. Value is the stored API
// value, which may differ from the display label.
type PicklistValueDetail struct {
	Label    string
	Value    string
	IsActive bool
}

// ProcessingResult accumulates the outcome of processing one object. It is
// merged into the run Statistics and discarded.
type ProcessingResult struct {
	ObjectExists        bool
	PicklistFieldsCount int
	ValuesProcessed     int
	InactiveValues      int
	Rows                [][]string
}

// FailedObject records an object that could not be processed.
type FailedObject struct {
	Name   string `json:"name"`
	Reason string `json:"reason"`
}

// Statistics holds the run-wide accounting for one export.
type Statistics struct {
	TotalObjects             int `json:"totalObjects"`
	SuccessfulObjects        int `json:"successfulObjects"`
	FailedObjects            int `json:"failedObjects"`
	ObjectsNotFound          int `json:"objectsNotFound"`
	ObjectsWithZeroPicklists int `json:"objectsWithZeroPicklists"`
	ObjectsWithPicklists     int `json:"objectsWithPicklists"`
	TotalPicklistFields      int `json:"totalPicklistFields"`
	TotalValues              int `json:"totalValues"`
	TotalActiveValues        int `json:"totalActiveValues"`
	TotalInactiveValues      int `json:"totalInactiveValues"`

	FailedObjectDetails     []FailedObject `json:"failedObjectDetails,omitempty"`
	ObjectsWithoutPicklists []string       `json:"objectsWithoutPicklists,omitempty"`
	ObjectsNotFoundList     []string       `json:"objectsNotFoundList,omitempty"`

	// Cancelled is set when the run stopped early on caller request.
	// Accumulated counts and rows remain valid.
	Cancelled bool `json:"cancelled"`
}

// ActivePercent returns the active fraction of all values as a percentage.
func (s *Statistics) ActivePercent() float64 {
	if s.TotalValues == 0 {
		return 0
	}
	return float64(s.TotalActiveValues) / float64(s.TotalValues) * 100
}

// InactivePercent returns the inactive fraction of all values as a
// percentage.
func (s *Statistics) InactivePercent() float64 {
	if s.TotalValues == 0 {
		return 0
	}
	return float64(s.TotalInactiveValues) / float64(s.TotalValues) * 100
}

// ReportHeader is the fixed first row of every report.
var ReportHeader = []string{"Object", "Field Label", "Field API", "Picklist Value Label", "Picklist Value API", "Status"}

const (
	statusActive   = "Active"
	statusInactive = "Inactive"
)
