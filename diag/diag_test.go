package diag

import (
	"errors"
	"reflect"
	"testing"

	proto "github.com/tarmac-project/protobuf-go/sdk/metrics"
	shim "github.com/tarmac-project/shim"
	"github.com/tarmac-project/shim/hostmock"
)

func TestNew(t *testing.T) {
	t.Parallel()

	customHostCall := func(string, string, string, []byte) ([]byte, error) {
		return nil, nil
	}

	tt := []struct {
		name        string
		namespace   string
		hostCall    HostCall
		wantNS      string
		wantHostPtr uintptr
	}{
		{
			name:      "custom namespace",
			namespace: "custom",
			wantNS:    "custom",
		},
		{
			name:        "default namespace with override",
			hostCall:    customHostCall,
			wantNS:      shim.DefaultNamespace,
			wantHostPtr: reflect.ValueOf(customHostCall).Pointer(),
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			c, err := New(Config{SDKConfig: shim.RuntimeConfig{Namespace: tc.namespace}, HostCall: tc.hostCall})
			if err != nil {
				t.Fatalf("New returned error: %v", err)
			}

			if c.runtime.Namespace != tc.wantNS {
				t.Fatalf("namespace mismatch: want %q, got %q", tc.wantNS, c.runtime.Namespace)
			}

			if tc.wantHostPtr != 0 {
				if got := reflect.ValueOf(c.hostCall).Pointer(); got != tc.wantHostPtr {
					t.Fatalf("hostcall pointer mismatch: want %v, got %v", tc.wantHostPtr, got)
				}
			}
		})
	}
}

func TestHandleConstructors(t *testing.T) {
	t.Parallel()

	c, err := New(Config{
		SDKConfig: shim.RuntimeConfig{Namespace: "tarmac"},
		HostCall: func(string, string, string, []byte) ([]byte, error) {
			return nil, nil
		},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	tt := []struct {
		name        string
		constructor func(string) error
		metricName  string
		wantErr     error
	}{
		{
			name: "counter valid",
			constructor: func(name string) error {
				_, callErr := c.NewCounter(name)
				return callErr
			},
			metricName: "failures_total",
		},
		{
			name: "gauge valid",
			constructor: func(name string) error {
				_, callErr := c.NewGauge(name)
				return callErr
			},
			metricName: "errors_pending",
		},
		{
			name: "counter empty name",
			constructor: func(name string) error {
				_, callErr := c.NewCounter(name)
				return callErr
			},
			metricName: "",
			wantErr:    ErrInvalidMetricName,
		},
		{
			name: "gauge whitespace name",
			constructor: func(name string) error {
				_, callErr := c.NewGauge(name)
				return callErr
			},
			metricName: " \n\t ",
			wantErr:    ErrInvalidMetricName,
		},
		{
			name: "counter invalid characters",
			constructor: func(name string) error {
				_, callErr := c.NewCounter(name)
				return callErr
			},
			metricName: "bad-name!",
			wantErr:    ErrInvalidMetricName,
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.constructor(tc.metricName); !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected error %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestCounterEmission(t *testing.T) {
	t.Parallel()

	mock, err := hostmock.New(hostmock.Config{
		ExpectedNamespace:  shim.DefaultNamespace,
		ExpectedCapability: "metrics",
		ExpectedFunction:   "counter",
		PayloadValidator: func(p []byte) error {
			var req proto.MetricsCounter
			if uerr := req.UnmarshalVT(p); uerr != nil {
				return uerr
			}
			if req.GetName() != "failures_total" {
				return errors.New("unexpected counter name")
			}
			return nil
		},
	})
	if err != nil {
		t.Fatalf("hostmock: %v", err)
	}

	c, err := New(Config{HostCall: mock.HostCall})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	counter, err := c.NewCounter("failures_total")
	if err != nil {
		t.Fatalf("NewCounter returned error: %v", err)
	}

	counter.Inc()
	counter.Inc()

	if mock.Calls() != 2 {
		t.Fatalf("expected 2 host calls, got %d", mock.Calls())
	}
}

func TestGaugeEmission(t *testing.T) {
	t.Parallel()

	var actions []string
	mock, err := hostmock.New(hostmock.Config{
		ExpectedNamespace:  shim.DefaultNamespace,
		ExpectedCapability: "metrics",
		ExpectedFunction:   "gauge",
		PayloadValidator: func(p []byte) error {
			var req proto.MetricsGauge
			if uerr := req.UnmarshalVT(p); uerr != nil {
				return uerr
			}
			actions = append(actions, req.GetAction())
			return nil
		},
	})
	if err != nil {
		t.Fatalf("hostmock: %v", err)
	}

	c, err := New(Config{HostCall: mock.HostCall})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	gauge, err := c.NewGauge("errors_pending")
	if err != nil {
		t.Fatalf("NewGauge returned error: %v", err)
	}

	gauge.Inc()
	gauge.Dec()

	want := []string{"inc", "dec"}
	if !reflect.DeepEqual(actions, want) {
		t.Fatalf("gauge actions: want %v, got %v", want, actions)
	}
}

func TestEmissionSwallowsHostFailure(t *testing.T) {
	t.Parallel()

	c, err := New(Config{
		HostCall: func(string, string, string, []byte) ([]byte, error) {
			return nil, errors.New("host down")
		},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	counter, err := c.NewCounter("failures_total")
	if err != nil {
		t.Fatalf("NewCounter returned error: %v", err)
	}
	gauge, err := c.NewGauge("errors_pending")
	if err != nil {
		t.Fatalf("NewGauge returned error: %v", err)
	}

	// Must not panic or surface the host failure.
	counter.Inc()
	gauge.Inc()
	gauge.Dec()
}
