package boundary

import (
	"encoding/binary"
	"errors"
	"fmt"

	shim "github.com/tarmac-project/shim"
	"github.com/tarmac-project/shim/diag"
	"github.com/tarmac-project/shim/interp"
	"github.com/tarmac-project/shim/logging"
	wapc "github.com/wapc/wapc-guest-tinygo"
)

// Status is the numeric status convention at the call boundary.
type Status int32

const (
	// StatusOK signals success.
	StatusOK Status = 0

	// StatusFailed is the failure sentinel for status-returning functions.
	StatusFailed Status = -1
)

var (
	// ErrStateNil is returned when no interpreter error indicator is provided.
	ErrStateNil = errors.New("interpreter state cannot be nil")

	// ErrMissingReturn reports a wrapped reference-returning body that
	// completed without producing a value or raising an error.
	ErrMissingReturn = errors.New("control reached end of function without return")
)

// RefFunc is a wrapped reference-returning function.
type RefFunc func(payload []byte) interp.Ref

// NumFunc is a wrapped status-returning function.
type NumFunc func(payload []byte) Status

// Config controls how a Boundary instance behaves.
type Config struct {
	// SDKConfig provides the runtime namespace used for host interactions.
	SDKConfig shim.RuntimeConfig

	// State is the interpreter error indicator that caught host-engine
	// errors are handed off to. Required.
	State *interp.State

	// ConvertPanics enables the hand-off of caught host-engine errors to
	// the interpreter error indicator. Disabled by default: calling code is
	// not ready to catch converted errors yet, so the adapters re-raise.
	ConvertPanics bool

	// Log receives a diagnostic entry for every converted error. Optional.
	Log logging.Client

	// Failures, when set, counts converted errors. Optional.
	Failures *diag.Counter
}

// Boundary builds adapters around host-engine callable bodies.
type Boundary struct {
	runtime  shim.RuntimeConfig
	state    *interp.State
	convert  bool
	log      logging.Client
	failures *diag.Counter
}

// New creates a Boundary from the provided configuration.
func New(config Config) (*Boundary, error) {
	if config.State == nil {
		return nil, ErrStateNil
	}

	runtime := config.SDKConfig
	if runtime.Namespace == "" {
		runtime.Namespace = shim.DefaultNamespace
	}

	log := config.Log
	if log == nil {
		log = logging.Noop()
	}

	return &Boundary{
		runtime:  runtime,
		state:    config.State,
		convert:  config.ConvertPanics,
		log:      log,
		failures: config.Failures,
	}, nil
}

// Ref wraps a reference-returning body. A caught host-engine error makes the
// wrapped function return interp.NullRef. Returning interp.NullRef with an
// interpreter error pending is the ordinary failure convention; returning it
// with nothing pending means the body fell off the end, and the adapter
// panics with ErrMissingReturn.
func (b *Boundary) Ref(name string, body func(payload []byte) interp.Ref) RefFunc {
	return func(payload []byte) interp.Ref {
		ref, caught := b.runRef(name, body, payload)
		if caught {
			return interp.NullRef
		}
		if ref == interp.NullRef && !b.state.Occurred() {
			// The assertion sits outside the catch region so it is never
			// handed off as a host-engine error.
			panic(fmt.Errorf("%w: %s", ErrMissingReturn, name))
		}
		return ref
	}
}

// Num wraps a status-returning body. A caught host-engine error makes the
// wrapped function return StatusFailed; otherwise the body status passes
// through.
func (b *Boundary) Num(name string, body func(payload []byte) Status) NumFunc {
	return func(payload []byte) Status {
		status, caught := b.runNum(name, body, payload)
		if caught {
			return StatusFailed
		}
		return status
	}
}

// NumVoid wraps a body with no return value. Void bodies fall through to
// StatusOK.
func (b *Boundary) NumVoid(name string, body func(payload []byte)) NumFunc {
	return b.Num(name, func(payload []byte) Status {
		body(payload)
		return StatusOK
	})
}

// RefHandler adapts a wrapped reference-returning function into a waPC guest
// handler. The response payload is the 32-bit handle in little-endian order;
// a zero handle means no value. When the wrapped function failed and a
// converted error is pending, the handler consumes it and reports it to the
// host engine.
func (b *Boundary) RefHandler(name string, body func(payload []byte) interp.Ref) func([]byte) ([]byte, error) {
	fn := b.Ref(name, body)
	return func(payload []byte) ([]byte, error) {
		ref := fn(payload)
		if ref == interp.NullRef && b.state.Occurred() {
			return nil, b.state.Fetch()
		}
		out := make([]byte, 4)
		binary.LittleEndian.PutUint32(out, uint32(ref))
		return out, nil
	}
}

// NumHandler adapts a wrapped status-returning function into a waPC guest
// handler. The response payload is the 32-bit status in little-endian order.
func (b *Boundary) NumHandler(name string, body func(payload []byte) Status) func([]byte) ([]byte, error) {
	fn := b.Num(name, body)
	return func(payload []byte) ([]byte, error) {
		status := fn(payload)
		if status == StatusFailed && b.state.Occurred() {
			return nil, b.state.Fetch()
		}
		out := make([]byte, 4)
		binary.LittleEndian.PutUint32(out, uint32(int32(status)))
		return out, nil
	}
}

// RegisterRef registers a wrapped reference-returning function with the host
// engine under the given name.
func (b *Boundary) RegisterRef(name string, body func(payload []byte) interp.Ref) {
	wapc.RegisterFunction(name, b.RefHandler(name, body))
}

// RegisterNum registers a wrapped status-returning function with the host
// engine under the given name.
func (b *Boundary) RegisterNum(name string, body func(payload []byte) Status) {
	wapc.RegisterFunction(name, b.NumHandler(name, body))
}

// runRef executes body under the catch region for reference-returning
// functions.
func (b *Boundary) runRef(name string, body func([]byte) interp.Ref, payload []byte) (ref interp.Ref, caught bool) {
	defer func() {
		if r := recover(); r != nil {
			b.handOff(name, r)
			caught = true
		}
	}()
	return body(payload), false
}

// runNum executes body under the catch region for status-returning
// functions.
func (b *Boundary) runNum(name string, body func([]byte) Status, payload []byte) (status Status, caught bool) {
	defer func() {
		if r := recover(); r != nil {
			b.handOff(name, r)
			caught = true
		}
	}()
	return body(payload), false
}

// handOff takes a value caught from host-engine code. Until ConvertPanics is
// enabled the value is re-raised as-is; otherwise it is attached to the
// interpreter error indicator and reported through the diagnostics hooks.
func (b *Boundary) handOff(name string, r any) {
	if !b.convert {
		panic(r)
	}

	b.state.SetObject(r)
	if b.failures != nil {
		b.failures.Inc()
	}
	b.emit(name, r)
}

// emit sends a best-effort diagnostic entry. A sink failure never escapes
// into the conversion path.
func (b *Boundary) emit(name string, r any) {
	defer func() { _ = recover() }()
	_ = b.log.Error(fmt.Sprintf("caught host engine error in func %s: %v", name, r))
}
