package pipeline

import "github.com/rxtech-lab/argo-forecast/internal/types"

// OnRunStartCallback is called once before any instrument is processed.
// Returning an error fails every instrument without fetching it.
type OnRunStartCallback func(totalInstruments int) error

// OnRunEndCallback is called when every instrument has a result (always called via defer).
type OnRunEndCallback func(results map[string]types.InstrumentResult)

// OnInstrumentStartCallback is called when an instrument begins processing.
type OnInstrumentStartCallback func(index int, name string, totalInstruments int)

// OnInstrumentEndCallback is called with the final result of an instrument.
type OnInstrumentEndCallback func(index int, result types.InstrumentResult)

// Callbacks holds the lifecycle callbacks of a run.
// All fields are pointers - nil means no callback will be invoked.
// With more than one worker the instrument callbacks run concurrently.
type Callbacks struct {
	OnRunStart        *OnRunStartCallback
	OnRunEnd          *OnRunEndCallback
	OnInstrumentStart *OnInstrumentStartCallback
	OnInstrumentEnd   *OnInstrumentEndCallback
}
