package types

/*
Producer computes a value on a cache miss.

It is called synchronously by RetrieveOrElse on the caller's goroutine and may
take as long as it likes. A non-nil error means nothing is cached and the
error reaches the caller.
*/
type Producer func() (any, error)
