package fail

import (
	"errors"
	"fmt"
	"runtime"

	"github.com/tarmac-project/shim/boundary"
	"github.com/tarmac-project/shim/diag"
	"github.com/tarmac-project/shim/interp"
	"github.com/tarmac-project/shim/logging"
)

var (
	// ErrFailed is returned by Run when the body transferred to cleanup
	// through one of the Frame helpers. Details, when there are any, live
	// on the interpreter error indicator.
	ErrFailed = errors.New("function failed")

	// ErrStateNil is returned when no interpreter error indicator is provided.
	ErrStateNil = errors.New("interpreter state cannot be nil")
)

// Config controls how a Guard instance behaves.
type Config struct {
	// State is the interpreter error indicator consulted by
	// FailIfErrOccurred. Required.
	State *interp.State

	// Debug enables diagnostic reporting: every failure transfer first
	// sends the originating line, function, and file to the logging sink.
	Debug bool

	// Log is the sink used for diagnostic reporting. Optional; defaults to
	// the no-op sink.
	Log logging.Client

	// Failures, when set, counts failure transfers. Optional.
	Failures *diag.Counter
}

// Guard builds single-exit scopes for functions that use the failure
// helpers.
type Guard struct {
	state    *interp.State
	debug    bool
	log      logging.Client
	failures *diag.Counter
}

// New creates a Guard from the provided configuration.
func New(config Config) (*Guard, error) {
	if config.State == nil {
		return nil, ErrStateNil
	}

	log := config.Log
	if log == nil {
		log = logging.Noop()
	}

	return &Guard{
		state:    config.State,
		debug:    config.Debug,
		log:      log,
		failures: config.Failures,
	}, nil
}

// failSignal is the control-transfer token raised by the Frame helpers.
type failSignal struct{}

// Frame is the in-function handle for the failure helpers. A Frame is only
// valid inside the body passed to Run.
type Frame struct {
	guard *Guard
	name  string
}

// Run executes body with a single cleanup point. cleanup runs exactly once
// on every exit path: normal return, error return, or a failure transfer
// raised by one of the Frame helpers. A failure transfer surfaces as
// ErrFailed; panics that are not failure transfers run cleanup and then
// propagate.
func (g *Guard) Run(name string, body func(*Frame) error, cleanup func()) (err error) {
	defer func() {
		if cleanup != nil {
			cleanup()
		}
		if r := recover(); r != nil {
			if _, ok := r.(failSignal); ok {
				err = ErrFailed
				return
			}
			panic(r)
		}
	}()

	return body(&Frame{guard: g, name: name})
}

// Fail transfers control unconditionally to the cleanup point.
func (f *Frame) Fail() {
	f.fail(2)
}

// FailIfNull transfers to cleanup when ref is the no-value sentinel.
func (f *Frame) FailIfNull(ref interp.Ref) {
	if ref == interp.NullRef {
		f.fail(2)
	}
}

// FailIfMinusOne transfers to cleanup when status is exactly -1, the
// "operation failed" sentinel. Collaborators whose status codes are not
// strictly {0, -1} can succeed with other values, so this helper checks the
// sentinel alone; use FailIfNonZero for call sites where any non-zero
// status means failure.
func (f *Frame) FailIfMinusOne(status boundary.Status) {
	if status == boundary.StatusFailed {
		f.fail(2)
	}
}

// FailIfNonZero transfers to cleanup when status is anything but zero.
func (f *Frame) FailIfNonZero(status boundary.Status) {
	if status != boundary.StatusOK {
		f.fail(2)
	}
}

// FailIfErrOccurred transfers to cleanup when the interpreter error
// indicator is set. It has no other effect: the pending error is left for
// whoever consumes it after cleanup.
func (f *Frame) FailIfErrOccurred() {
	if f.guard.state.Occurred() {
		f.fail(2)
	}
}

// fail counts and reports the transfer, then raises the control-transfer
// signal. skip addresses the caller of the exported helper.
func (f *Frame) fail(skip int) {
	if f.guard.failures != nil {
		f.guard.failures.Inc()
	}
	if f.guard.debug {
		f.report(skip + 1)
	}
	panic(failSignal{})
}

// report sends the diagnostic entry for a failure transfer. Best-effort: a
// sink error or panic never reaches the caller, so the transfer always
// happens.
func (f *Frame) report(skip int) {
	defer func() { _ = recover() }()

	fn, file := "unknown", "unknown"
	line := 0
	if pc, callerFile, callerLine, ok := runtime.Caller(skip); ok {
		file, line = callerFile, callerLine
		if rf := runtime.FuncForPC(pc); rf != nil {
			fn = rf.Name()
		}
	}

	_ = f.guard.log.Error(
		fmt.Sprintf("raised failure on line %d in func %s, file %s (scope %s)", line, fn, file, f.name),
	)
}
