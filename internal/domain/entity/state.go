package entity

import "encoding/json"

// StateStatus names the variant of a State.
type StateStatus string

const (
	StateIdle    StateStatus = "idle"
	StateLoading StateStatus = "loading"
	StateSuccess StateStatus = "success"
	StateFailure StateStatus = "failure"
)

// State is the outcome of a feature operation. Exactly one of Idle, Loading,
// Success or Failure; no other implementation is possible outside this package.
type State[T any] interface {
	Status() StateStatus
	sealed()
}

// Idle is the state before anything was requested.
type Idle[T any] struct{}

// Loading is the state while a request is in flight.
type Loading[T any] struct{}

// Success carries the data of a completed request.
type Success[T any] struct{ Data T }

// Failure carries the user-facing reason of a failed request.
type Failure[T any] struct{ Reason string }

func (Idle[T]) Status() StateStatus    { return StateIdle }
func (Loading[T]) Status() StateStatus { return StateLoading }
func (Success[T]) Status() StateStatus { return StateSuccess }
func (Failure[T]) Status() StateStatus { return StateFailure }

func (Idle[T]) sealed()    {}
func (Loading[T]) sealed() {}
func (Success[T]) sealed() {}
func (Failure[T]) sealed() {}

// MarshalJSON renders {"status":"idle"}.
func (s Idle[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"status": s.Status()})
}

// MarshalJSON renders {"status":"loading"}.
func (s Loading[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"status": s.Status()})
}

// MarshalJSON renders {"status":"success","data":…}.
func (s Success[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"status": s.Status(), "data": s.Data})
}

// MarshalJSON renders {"status":"failure","reason":…}.
func (s Failure[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]any{"status": s.Status(), "reason": s.Reason})
}

// StateFrom turns a (value, error) pair into Success or Failure.
// The reason is the user-facing message; err itself is never exposed.
func StateFrom[T any](data T, err error, reason string) State[T] {
	if err != nil {
		return Failure[T]{Reason: reason}
	}

	return Success[T]{Data: data}
}
