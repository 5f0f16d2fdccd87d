/*
Package shim provides the core entry point and runtime configuration for the
Tarmac guest error-propagation shim.

Guest functions that embed a scripting interpreter deal with failures from
three places: native guest code, the interpreter's pending-error indicator,
and host-engine code reached through the waPC boundary. The shim packages
give all three a single convention: record the failure on the interpreter
error indicator, transfer control to the function's one cleanup point, and
return the boundary sentinel (a null ref or a -1 status).

Init performs the one-time process-wide setup and returns a RuntimeConfig
that is shared by the capability clients (e.g., logging, diag).
DefaultNamespace is used when a namespace is not explicitly provided.
*/
package shim
