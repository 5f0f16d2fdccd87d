/*
Package hostmock provides a friendly pretend host for waPC calls.

It's designed primarily for shim development and advanced tests where you
want to validate exactly what a component is sending to the Tarmac
host-without needing a real host running.

Why use hostmock?

  - Validate routing: ensure calls use the expected namespace, capability, and function when you set them.
  - Inspect payloads: plug in a PayloadValidator to assert protobuf contents.
  - Script responses: return custom bytes or simulate failures.
  - Count deliveries: Calls reports how many host calls arrived, so a test
    can assert that a failure path logged exactly one message.

Quick start

	m, _ := hostmock.New(hostmock.Config{
	  ExpectedNamespace:  "tarmac",
	  ExpectedCapability: "logging",
	  ExpectedFunction:   "Error",
	  PayloadValidator: func(p []byte) error {
	    // Assert the log message here
	    return nil
	  },
	  Response: func() []byte { return []byte("ok") },
	})

	// Inject into a component under test
	resp, err := m.HostCall("tarmac", "logging", "Error", []byte("boom"))

Behavior

  - If Fail is true and Error is set, HostCall returns that error.
  - If Fail is true and Error is nil, HostCall returns ErrOperationFailed.
  - Otherwise, HostCall enforces ExpectedNamespace/Capability/Function and runs
    PayloadValidator when provided. If everything is in order, Response (when set)
    provides the return bytes; otherwise it returns nil.
  - Every invocation counts toward Calls, including failing ones.

Tips

  - Use table-driven tests for different routing and payload cases.
  - Keep the validator small and focused-decode, assert, return.
  - Leave fields blank when you want a wildcard—hostmock only enforces values you set.
*/
package hostmock
