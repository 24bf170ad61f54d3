package events

import (
	"errors"
	"fmt"
	"time"
)

var ErrNotConnected = errors.New("event bus is not connected")

// TemporaryError шина временно недоступна, публикацию можно повторить через RetryAfter.
type TemporaryError struct {
	RetryAfter time.Duration
	Err        error
}

func NewTemporaryError(retryAfter time.Duration, err error) *TemporaryError {
	return &TemporaryError{RetryAfter: retryAfter, Err: err}
}

func (e *TemporaryError) Error() string {
	return fmt.Sprintf("event bus is temporarily unavailable, retry after %.f seconds: %v", e.RetryAfter.Seconds(), e.Err)
}

func (e *TemporaryError) Unwrap() error {
	return e.Err
}
