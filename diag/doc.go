/*
Package diag provides failure diagnostics metrics emitted through the Tarmac
host runtime.

The package exposes constructors for Counter and Gauge handles, each backed
by protobuf payloads sent over waPC host calls. Counters track failure
transfer totals; gauges track the number of outstanding interpreter errors.

Emission methods follow Prometheus-style ergonomics: Inc/Dec are
best-effort and do not return errors. Marshal or host-call failures are
swallowed; diagnostics must never alter the failure path they observe.
*/
package diag
