/*
Package logging offers a client for emitting log entries from Tarmac guest
functions to the host runtime sink.

The package exposes a small interface with convenience methods for common
log levels (Info, Warn, Error, Debug, Trace). Each method forwards one entry
to the host and maps the host's reply to the errcode convention: nil when
the sink accepted the entry, a sentinel error chain otherwise. Errors use
sentinel values combined with the underlying cause and can be checked with
errors.Is.

The sink is reachable from both native guest code and host-engine code, so
the failure helpers in the fail package use it for diagnostic reporting.
Noop returns a sink for when diagnostics are disabled.
*/
package logging
