package connector

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidMaxAttempts is returned when maxAttempts is <= 0
	ErrInvalidMaxAttempts = errors.New("maxAttempts must be greater than 0")

	// ErrUsernameRequired is returned when a source is configured without an account name.
	ErrUsernameRequired = errors.New("username is required")

	// ErrUnexpectedStatus is returned when an HTTP API answers with a non-2xx status.
	ErrUnexpectedStatus = errors.New("unexpected HTTP status")
)

// permanentError marks an error that retrying cannot fix.
type permanentError struct {
	err error
}

func (p *permanentError) Error() string { return p.err.Error() }
func (p *permanentError) Unwrap() error { return p.err }

// Permanent wraps err so RetryWithBackoff returns it without retrying.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// IsPermanent reports whether err was wrapped with Permanent.
func IsPermanent(err error) bool {
	var p *permanentError
	return errors.As(err, &p)
}

// httpStatusError reports a non-2xx HTTP response. Client errors other than
// 429 are permanent.
func httpStatusError(url string, code int) error {
	err := fmt.Errorf("%w: %s returned %d", ErrUnexpectedStatus, url, code)
	if code >= 400 && code < 500 && code != 429 {
		return Permanent(err)
	}
	return err
}
