/*
Package boundary wraps host-engine callable function bodies so that they
follow the embedded interpreter's return conventions.

Two variants exist, mirroring the two native return conventions. Ref wraps
reference-returning bodies: a caught host-engine error makes the wrapped
function return interp.NullRef. Num wraps status-returning bodies with the
-1 failure sentinel, and NumVoid covers void bodies, which fall through to a
0 success status.

A raised host-engine error is represented as a Go panic inside the body.
By default the adapters re-raise it: the hand-off that converts the value
into a pending interpreter error is dummied out until calling code is ready
to catch these errors. Config.ConvertPanics enables the hand-off.

A Ref body that returns interp.NullRef with no interpreter error pending
has broken its contract; the adapter panics with ErrMissingReturn rather
than silently returning a default.

RegisterRef and RegisterNum expose wrapped functions to the host engine as
waPC guest functions, with the result encoded as a little-endian 32-bit
integer.
*/
package boundary
