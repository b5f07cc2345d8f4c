package model

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientData means fewer than two daily points were available.
	ErrInsufficientData = errors.New("not enough data to compare stock prices")
	// ErrInvalidPrice means the previous close is zero and no percentage can be computed.
	ErrInvalidPrice = errors.New("previous close is zero")
	// ErrMalformedData means a stored series could not be decoded.
	ErrMalformedData = errors.New("malformed quote data")
)

// ProviderError wraps a failure from an external quote, news or messaging provider.
type ProviderError struct {
	Provider string
	Err      error
}

func (e *ProviderError) Error() string {
	return fmt.Sprintf("%s: %v", e.Provider, e.Err)
}

func (e *ProviderError) Unwrap() error { return e.Err }

// NewProviderError returns nil when err is nil.
func NewProviderError(provider string, err error) error {
	if err == nil {
		return nil
	}
	var pe *ProviderError
	if errors.As(err, &pe) {
		return err
	}
	return &ProviderError{Provider: provider, Err: err}
}
