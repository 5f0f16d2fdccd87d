/*
Package fail provides the uniform fail-and-cleanup convention used by guest
functions that bridge the embedded interpreter and the host engine.

Every function that uses the failure helpers follows a single-exit shape:
one cleanup point, reached on every exit path. Guard.Run enforces that shape
by taking the body and the cleanup together; the Frame helpers transfer
control to the cleanup point and make Run return ErrFailed. Error details,
when there are any, live on the interpreter error indicator, not in the
return value.

The boundary adapters make host-engine calls behave just like interpreter
calls when it comes to errors, so the helpers can be used equally well for
both cases:

	err := guard.Run("load", func(f *fail.Frame) error {
		ref := open(payload)
		f.FailIfNull(ref)

		f.FailIfMinusOne(apply(ref))

		f.FailIfErrOccurred()
		return nil
	}, func() {
		release()
	})

Debug mode reports every failure transfer to the logging sink with the
originating line, function, and file. This helps track down problems when
guest code fails to handle the error generated. Reporting is strictly
best-effort: a sink error or panic never suppresses the control transfer.
*/
package fail
