package export

// Observer receives run events for display. Log carries a free-text status
// line; verbose lines are detail noise a quiet consumer may drop. Progress
// fires once per object with the 1-based index.
//
// Implementations must be cheap: the exporter calls the Observer inline on
// its single processing goroutine.
type Observer interface {
	Log(message string, verbose bool)
	Progress(current, total int)
}

// NopObserver discards all events.
type NopObserver struct{}

func (NopObserver) Log(string, bool) {}

func (NopObserver) Progress(int, int) {}

// ObserverFuncs adapts plain functions to the Observer interface. Nil
// functions are skipped.
type ObserverFuncs struct {
	LogFunc      func(message string, verbose bool)
	ProgressFunc func(current, total int)
}

func (o ObserverFuncs) Log(message string, verbose bool) {
	if o.LogFunc != nil {
		o.LogFunc(message, verbose)
	}
}

func (o ObserverFuncs) Progress(current, total int) {
	if o.ProgressFunc != nil {
		o.ProgressFunc(current, total)
	}
}
