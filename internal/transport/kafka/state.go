package kafka

import (
	"github.com/kailas-cloud/productsearch/internal/metrics"
	"github.com/kailas-cloud/productsearch/internal/usecase/indexing"
)

// State is the consumer's position in the per-record cycle.
type State string

// Consumer states. Failed is terminal.
const (
	StateIdle         State = "idle"
	StateReceiving    State = "receiving"
	StateTransforming State = "transforming"
	StateWriting      State = "writing"
	StateFailed       State = "failed"
)

var allStates = []State{StateIdle, StateReceiving, StateTransforming, StateWriting, StateFailed}

func stateForStage(s indexing.Stage) State {
	switch s {
	case indexing.StageTransform:
		return StateTransforming
	case indexing.StageWrite:
		return StateWriting
	default:
		return StateReceiving
	}
}

func publishState(cur State) {
	for _, s := range allStates {
		v := 0.0
		if s == cur {
			v = 1
		}
		metrics.ConsumerState.WithLabelValues(string(s)).Set(v)
	}
}
