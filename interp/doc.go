/*
Package interp models the error indicator of an interpreter embedded in a
Tarmac guest function.

The indicator holds at most one pending error at a time. A new raise
overwrites whatever was pending; whoever consumes the error (Fetch) clears
the indicator. Ref is the opaque value handle used at the call boundary,
with NullRef marking "no value".

State is not safe for concurrent use: the shim assumes a single logical
thread of control shared between guest code and the host engine.
*/
package interp
