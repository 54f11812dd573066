// Package apperrors provides error values that wrap underlying causes while
// carrying an HTTP-style status code. Errors form chains: a value created from
// another via New or Msg matches the original under errors.Is, so callers can
// test against the sentinel values a package exports without losing the
// transport or parsing failure that triggered them.
package apperrors

// Error is the interface implemented by all application errors. It extends
// the standard error interface with wrapping, status codes, and message
// expansion. Methods return Error to support chaining.
type Error interface {
	error
	Unwrap() error // support for errors.Is / errors.As

	New(msg string) Error                  // derives a fresh error with this one as its base
	Msg(msg string) Error                  // new message, wraps the original
	MsgErr(msg string, err ...error) Error // new message, wraps original plus extra causes
	Err(err ...error) Error                // attaches additional causes, keeps the message
	SetExpandError(bool) Error             // controls whether ErrorAll expands wrapped causes
	SetStatusCode(int) Error               // sets the HTTP status code
	StatusCode() int                       // returns the current status code
	ErrorAll() string                      // full message including wrapped causes
}
