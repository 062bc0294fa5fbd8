/*
Package errors implements the error kinds used across custody.

Each kind is a root error created with Register and identified by a unique
ABCI code. Code never returns a root error directly. It wraps one at the point
of failure with ErrX.New, ErrX.Newf, Wrap or Wrapf so a stack trace is recorded
and the caller can test the kind with ErrX.Is(err).

Extensions declare their own kinds with Register, using a code range of their
own. Registering the same code twice panics at program startup.

Use fmt verbs to inspect an error:

	%s is the error message
	%+v is the message with the full stack trace
	%v is the message with the [filename:line] of the creation point
*/
package errors
