package logging

import (
	"errors"
	"fmt"

	sdkproto "github.com/tarmac-project/protobuf-go/sdk"
	shim "github.com/tarmac-project/shim"
	wapc "github.com/wapc/wapc-guest-tinygo"
	pb "google.golang.org/protobuf/proto"
)

const (
	capabilityName = "logging"

	hostStatusOK       = int32(200)
	hostStatusPartial  = int32(206)
	hostStatusBadInput = int32(400)
	hostStatusError    = int32(500)
)

// Client exposes convenience helpers for sending log entries to the host
// runtime. Every method returns the delivery status following the errcode
// convention: nil on success, an error chain otherwise.
type Client interface {
	Info(message string) error
	Warn(message string) error
	Error(message string) error
	Debug(message string) error
	Trace(message string) error
}

// Config controls how a Client instance interacts with the host runtime.
type Config struct {
	// SDKConfig provides the runtime namespace used for host calls.
	SDKConfig shim.RuntimeConfig

	// HostCall overrides the waPC host function used for logging operations.
	HostCall func(string, string, string, []byte) ([]byte, error)
}

// client implements Client using the configured host call entrypoint.
type client struct {
	runtime  shim.RuntimeConfig
	hostCall func(string, string, string, []byte) ([]byte, error)
}

// New creates a Client that emits logs through the configured host capability.
func New(cfg Config) (Client, error) {
	runtimeCfg := cfg.SDKConfig
	if runtimeCfg.Namespace == "" {
		runtimeCfg.Namespace = shim.DefaultNamespace
	}

	hostCall := cfg.HostCall
	if hostCall == nil {
		hostCall = wapc.HostCall
	}

	return &client{
		runtime:  runtimeCfg,
		hostCall: hostCall,
	}, nil
}

func (c *client) Info(message string) error  { return c.log("Info", message) }
func (c *client) Warn(message string) error  { return c.log("Warn", message) }
func (c *client) Error(message string) error { return c.log("Error", message) }
func (c *client) Debug(message string) error { return c.log("Debug", message) }
func (c *client) Trace(message string) error { return c.log("Trace", message) }

// log forwards one entry to the host sink. An empty host response means the
// entry was accepted; a non-empty response carries a Status payload.
func (c *client) log(fn string, message string) error {
	resp, callErr := c.hostCall(c.runtime.Namespace, capabilityName, fn, []byte(message))
	if callErr != nil {
		return errors.Join(shim.ErrHostCall, callErr)
	}
	if len(resp) == 0 {
		return nil
	}

	var status sdkproto.Status
	if unmarshalErr := pb.Unmarshal(resp, &status); unmarshalErr != nil {
		return errors.Join(shim.ErrHostResponseInvalid, unmarshalErr)
	}

	switch code := status.GetCode(); code {
	case hostStatusOK, hostStatusPartial:
		return nil
	case hostStatusBadInput, hostStatusError:
		detail := fmt.Sprintf("host status %d", code)
		if msg := status.GetStatus(); msg != "" {
			detail = fmt.Sprintf("%s: %s", detail, msg)
		}
		return errors.Join(shim.ErrHostError, errors.New(detail))
	default:
		return errors.Join(shim.ErrHostResponseInvalid, fmt.Errorf("unexpected host status code %d", code))
	}
}

// Noop returns a sink that accepts and discards every entry. It stands in
// for the host sink when diagnostics are disabled.
func Noop() Client { return noop{} }

type noop struct{}

func (noop) Info(string) error  { return nil }
func (noop) Warn(string) error  { return nil }
func (noop) Error(string) error { return nil }
func (noop) Debug(string) error { return nil }
func (noop) Trace(string) error { return nil }
