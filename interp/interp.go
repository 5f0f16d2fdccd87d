package interp

import (
	"fmt"

	"github.com/tarmac-project/shim/diag"
)

// Ref is an opaque handle to a value owned by the embedded interpreter.
type Ref uint32

// NullRef is the no-value sentinel at the call boundary.
const NullRef Ref = 0

// HostError carries a value raised by host-engine code into the interpreter
// as an exception object.
type HostError struct {
	// Value is the raw value the host-engine code raised.
	Value any
}

// Error implements the error interface.
func (e *HostError) Error() string {
	return fmt.Sprintf("host engine raised: %v", e.Value)
}

// Config controls creation of a State.
type Config struct {
	// Pending, when set, gauges the number of outstanding interpreter
	// errors (zero or one).
	Pending *diag.Gauge
}

// State is the interpreter's error indicator.
type State struct {
	pending error
	gauge   *diag.Gauge
}

// New creates an error indicator with nothing pending.
func New(config Config) (*State, error) {
	return &State{gauge: config.Pending}, nil
}

// Occurred reports whether an error is currently pending.
func (s *State) Occurred() bool { return s.pending != nil }

// Set raises err on the indicator. A pending error is overwritten: the
// indicator holds at most one outstanding error and defines no merge
// semantics. Set with a nil error is a no-op.
func (s *State) Set(err error) {
	if err == nil {
		return
	}
	if s.pending == nil && s.gauge != nil {
		s.gauge.Inc()
	}
	s.pending = err
}

// SetObject raises a value caught from host-engine code, wrapping non-error
// values as a HostError. Values that already implement error are raised
// as-is.
func (s *State) SetObject(v any) {
	if err, ok := v.(error); ok {
		s.Set(err)
		return
	}
	s.Set(&HostError{Value: v})
}

// Fetch consumes the pending error and clears the indicator.
func (s *State) Fetch() error {
	err := s.pending
	s.Clear()
	return err
}

// Clear resets the indicator.
func (s *State) Clear() {
	if s.pending != nil && s.gauge != nil {
		s.gauge.Dec()
	}
	s.pending = nil
}
