package diag

import (
	"errors"
	"regexp"

	proto "github.com/tarmac-project/protobuf-go/sdk/metrics"
	shim "github.com/tarmac-project/shim"
	wapc "github.com/wapc/wapc-guest-tinygo"
)

const (
	capabilityName = "metrics"
	fnCounter      = "counter"
	fnGauge        = "gauge"
	actionInc      = "inc"
	actionDec      = "dec"
)

var (
	// ErrInvalidMetricName indicates a metric name that does not match the supported format.
	ErrInvalidMetricName = errors.New("metric name is invalid")

	// isMetricNameValid validates metric names using the same pattern as tarmac callback validation.
	isMetricNameValid = regexp.MustCompile(`^[a-zA-Z0-9_:][a-zA-Z0-9_:]*$`)
)

// HostCall defines the waPC host function signature used by diag operations.
type HostCall func(string, string, string, []byte) ([]byte, error)

// Client defines the diagnostics capability interface.
type Client interface {
	// NewCounter creates a named counter handle, typically one per wrapped
	// function counting failure transfers.
	NewCounter(name string) (*Counter, error)

	// NewGauge creates a named gauge handle, typically tracking outstanding
	// interpreter errors.
	NewGauge(name string) (*Gauge, error)
}

// Config controls how diag handles interact with the host runtime.
type Config struct {
	// SDKConfig provides the runtime namespace used for host calls.
	SDKConfig shim.RuntimeConfig

	// HostCall overrides the waPC host function used for diag operations.
	HostCall HostCall
}

// HostDiag is the diagnostics capability client implementation.
type HostDiag struct {
	runtime  shim.RuntimeConfig
	hostCall HostCall
}

// Counter is a named counter handle.
type Counter struct {
	name      string
	namespace string
	hostCall  HostCall
}

// Gauge is a named gauge handle.
type Gauge struct {
	name      string
	namespace string
	hostCall  HostCall
}

// Ensure HostDiag satisfies the Client interface at compile time.
var _ Client = (*HostDiag)(nil)

// New creates a diag client with namespace defaults and optional host-call override.
func New(config Config) (*HostDiag, error) {
	runtime := config.SDKConfig
	if runtime.Namespace == "" {
		runtime.Namespace = shim.DefaultNamespace
	}

	hostCall := config.HostCall
	if hostCall == nil {
		hostCall = wapc.HostCall
	}

	return &HostDiag{runtime: runtime, hostCall: hostCall}, nil
}

// NewCounter creates a named counter handle.
func (c *HostDiag) NewCounter(name string) (*Counter, error) {
	if !isMetricNameValid.MatchString(name) {
		return nil, ErrInvalidMetricName
	}

	return &Counter{name: name, namespace: c.runtime.Namespace, hostCall: c.hostCall}, nil
}

// Inc increments the counter by one.
func (c *Counter) Inc() {
	payload, err := (&proto.MetricsCounter{Name: c.name}).MarshalVT()
	if err != nil {
		return
	}
	_, _ = c.hostCall(c.namespace, capabilityName, fnCounter, payload)
}

// NewGauge creates a named gauge handle.
func (c *HostDiag) NewGauge(name string) (*Gauge, error) {
	if !isMetricNameValid.MatchString(name) {
		return nil, ErrInvalidMetricName
	}

	return &Gauge{name: name, namespace: c.runtime.Namespace, hostCall: c.hostCall}, nil
}

// Inc increments the gauge by one.
func (g *Gauge) Inc() {
	g.emit(actionInc)
}

// Dec decrements the gauge by one.
func (g *Gauge) Dec() {
	g.emit(actionDec)
}

// emit sends a gauge action update to the host runtime as a best-effort call.
func (g *Gauge) emit(action string) {
	payload, err := (&proto.MetricsGauge{Name: g.name, Action: action}).MarshalVT()
	if err != nil {
		return
	}
	_, _ = g.hostCall(g.namespace, capabilityName, fnGauge, payload)
}
