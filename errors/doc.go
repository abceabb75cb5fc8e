/*
Package errors implements error categorization for the ledger host and its
extensions.

Every error returned to a client must wrap one of the root errors created with
Register. The root error carries a numeric code that lets a client tell error
categories apart without parsing the message.

Reuse the root errors declared in this package whenever possible. An extension
that needs a category of its own registers it in a dedicated code range, for
example

	var ErrPackageExpired = errors.Register(1107, "package expired")

Attach context at the point of creation with Wrap, Wrapf or the New/Newf
methods of the root error. A stack trace is recorded only once, at the
innermost wrap. Format an error with %+v to print it.

Use Field to report a problem with a single attribute of a model or message
and Append to collect several of them.
*/
package errors
