package interp_test

import (
	"errors"
	"testing"

	proto "github.com/tarmac-project/protobuf-go/sdk/metrics"
	shim "github.com/tarmac-project/shim"
	"github.com/tarmac-project/shim/diag"
	"github.com/tarmac-project/shim/hostmock"
	"github.com/tarmac-project/shim/interp"
)

func TestIndicatorLifecycle(t *testing.T) {
	t.Parallel()

	state, err := interp.New(interp.Config{})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	if state.Occurred() {
		t.Fatal("fresh indicator must not report a pending error")
	}
	if got := state.Fetch(); got != nil {
		t.Fatalf("Fetch on empty indicator: want nil, got %v", got)
	}

	raised := errors.New("boom")
	state.Set(raised)
	if !state.Occurred() {
		t.Fatal("Set must leave the indicator pending")
	}

	if got := state.Fetch(); !errors.Is(got, raised) {
		t.Fatalf("Fetch: want %v, got %v", raised, got)
	}
	if state.Occurred() {
		t.Fatal("Fetch must clear the indicator")
	}
}

func TestOverwriteSemantics(t *testing.T) {
	t.Parallel()

	state, err := interp.New(interp.Config{})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	first := errors.New("first")
	second := errors.New("second")

	state.Set(first)
	state.Set(second)

	if got := state.Fetch(); !errors.Is(got, second) {
		t.Fatalf("a new raise must overwrite the pending error: want %v, got %v", second, got)
	}
}

func TestSetNilIsNoOp(t *testing.T) {
	t.Parallel()

	state, err := interp.New(interp.Config{})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	state.Set(nil)
	if state.Occurred() {
		t.Fatal("Set(nil) must not raise")
	}
}

func TestSetObject(t *testing.T) {
	t.Parallel()

	tt := []struct {
		name     string
		value    any
		wantHost bool
	}{
		{name: "plain value is wrapped", value: "some js thing", wantHost: true},
		{name: "error value passes through", value: errors.New("already an error"), wantHost: false},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			state, err := interp.New(interp.Config{})
			if err != nil {
				t.Fatalf("New returned error: %v", err)
			}

			state.SetObject(tc.value)

			got := state.Fetch()
			if got == nil {
				t.Fatal("SetObject must raise")
			}

			var hostErr *interp.HostError
			if errors.As(got, &hostErr) != tc.wantHost {
				t.Fatalf("HostError wrapping mismatch for %v: got %v", tc.value, got)
			}
			if tc.wantHost && hostErr.Value != tc.value {
				t.Fatalf("wrapped value mismatch: want %v, got %v", tc.value, hostErr.Value)
			}
		})
	}
}

func TestClearIsIdempotent(t *testing.T) {
	t.Parallel()

	state, err := interp.New(interp.Config{})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	state.Set(errors.New("boom"))
	state.Clear()
	state.Clear()

	if state.Occurred() {
		t.Fatal("Clear must reset the indicator")
	}
}

func TestPendingGaugeWiring(t *testing.T) {
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
			if req.GetName() != "errors_pending" {
				return errors.New("unexpected gauge name")
			}
			actions = append(actions, req.GetAction())
			return nil
		},
	})
	if err != nil {
		t.Fatalf("hostmock: %v", err)
	}

	client, err := diag.New(diag.Config{HostCall: mock.HostCall})
	if err != nil {
		t.Fatalf("diag.New returned error: %v", err)
	}
	gauge, err := client.NewGauge("errors_pending")
	if err != nil {
		t.Fatalf("NewGauge returned error: %v", err)
	}

	state, err := interp.New(interp.Config{Pending: gauge})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	// Raise, overwrite, clear: the gauge must see one inc and one dec.
	state.Set(errors.New("first"))
	state.Set(errors.New("second"))
	state.Clear()

	want := []string{"inc", "dec"}
	if len(actions) != len(want) || actions[0] != want[0] || actions[1] != want[1] {
		t.Fatalf("gauge actions: want %v, got %v", want, actions)
	}
}
