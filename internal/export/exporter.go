package export

import (
	"context"
	"fmt"
)

// Service drives a full export run. Runs are strictly sequential: objects
// one at a time, fields within an object one at a time, strategies in
// priority order. Each run owns its own Statistics and row table, so
// separate Service values may run concurrently.
type Service struct {
	session  Session
	sink     Sink
	observer Observer
	resolver *resolver
}

// NewService creates an export service. A nil observer is replaced with
// NopObserver.
func NewService(session Session, sink Sink, observer Observer) *Service {
	if observer == nil {
		observer = NopObserver{}
	}
	return &Service{
		session:  session,
		sink:     sink,
		observer: observer,
		resolver: &resolver{session: session, observer: observer},
	}
}

// Export processes every object in order, writes the assembled report to
// outputPath via the sink, and returns the written path with the run
// statistics.
//
// Per-object failures are recorded in the statistics and the loop
// continues; only a sink failure is returned as an error. Cancelling ctx
// stops the run between objects: accumulated results stay valid, the
// report is still written, and Statistics.Cancelled is set instead of an
// error.
func (s *Service) Export(ctx context.Context, objects []string, outputPath string) (string, *Statistics, error) {
	stats := &Statistics{TotalObjects: len(objects)}

	rows := make([][]string, 0, len(objects)+1)
	rows = append(rows, ReportHeader)

	s.observer.Log("=== Starting Picklist Export ===", false)
	s.observer.Log(fmt.Sprintf("Total objects to process: %d", len(objects)), false)

	for i, object := range objects {
		if ctx.Err() != nil {
			stats.Cancelled = true
			s.observer.Log("Export cancelled", false)
			break
		}

		s.observer.Progress(i+1, len(objects))
		s.observer.Log(fmt.Sprintf("[%d/%d] Processing object: %s", i+1, len(objects), object), false)

		result, err := s.safeProcess(ctx, object)
		if err != nil {
			stats.FailedObjects++
			stats.FailedObjectDetails = append(stats.FailedObjectDetails, FailedObject{Name: object, Reason: err.Error()})
			s.observer.Log(fmt.Sprintf("  ERROR: %v", err), false)
			continue
		}

		switch {
		case !result.ObjectExists:
			stats.ObjectsNotFound++
			stats.FailedObjects++
			stats.ObjectsNotFoundList = append(stats.ObjectsNotFoundList, object)
			stats.FailedObjectDetails = append(stats.FailedObjectDetails, FailedObject{Name: object, Reason: "Object does not exist in org"})
			s.observer.Log("  Object not found in org", false)

		case result.PicklistFieldsCount == 0:
			stats.ObjectsWithZeroPicklists++
			stats.SuccessfulObjects++
			stats.ObjectsWithoutPicklists = append(stats.ObjectsWithoutPicklists, object)
			s.observer.Log("  No picklist fields found", false)

		default:
			stats.ObjectsWithPicklists++
			stats.SuccessfulObjects++
			stats.TotalPicklistFields += result.PicklistFieldsCount
			stats.TotalValues += result.ValuesProcessed
			stats.TotalInactiveValues += result.InactiveValues
			stats.TotalActiveValues += result.ValuesProcessed - result.InactiveValues
			rows = append(rows, result.Rows...)
			s.observer.Log(fmt.Sprintf("  Fields: %d, Active: %d, Inactive: %d",
				result.PicklistFieldsCount,
				result.ValuesProcessed-result.InactiveValues,
				result.InactiveValues), false)
		}
	}

	s.observer.Log("=== Writing report ===", false)
	path, err := s.sink.Write(rows, outputPath)
	if err != nil {
		return "", stats, fmt.Errorf("write report: %w", err)
	}

	s.observer.Log(fmt.Sprintf("Report written: %s (%d data rows)", path, len(rows)-1), false)
	return path, stats, nil
}

// safeProcess isolates one object's processing so that a panic degrades to
// a recorded per-object failure instead of aborting the batch.
func (s *Service) safeProcess(ctx context.Context, object string) (result *ProcessingResult, err error) {
	defer func() {
		if r := recover(); r != nil {
			result = nil
			err = fmt.Errorf("panic while processing %s: %v", object, r)
		}
	}()
	return s.processObject(ctx, object)
}
