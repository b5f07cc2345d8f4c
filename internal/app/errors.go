package app

import (
	"errors"
	"net/http"

	"StockPulse/internal/model"
)

// ErrorKind groups failures by how they are reported to the user.
type ErrorKind int

const (
	KindUnexpected ErrorKind = iota
	KindInput
	KindProvider
	KindData
)

func (k ErrorKind) String() string {
	switch k {
	case KindInput:
		return "input"
	case KindProvider:
		return "provider"
	case KindData:
		return "data"
	default:
		return "unexpected"
	}
}

// Title is the heading shown next to the error message.
func (k ErrorKind) Title() string {
	switch k {
	case KindInput:
		return "Input Error"
	case KindProvider:
		return "API Error"
	case KindData:
		return "Data Error"
	default:
		return "Error"
	}
}

func (k ErrorKind) HTTPStatus() int {
	switch k {
	case KindInput:
		return http.StatusBadRequest
	case KindProvider:
		return http.StatusBadGateway
	case KindData:
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// InputError is a request rejected before any provider was called.
type InputError struct {
	Msg string
}

func (e *InputError) Error() string { return e.Msg }

// Classify maps err to its ErrorKind.
func Classify(err error) ErrorKind {
	var inErr *InputError
	var provErr *model.ProviderError
	switch {
	case errors.As(err, &inErr):
		return KindInput
	case errors.As(err, &provErr):
		return KindProvider
	case errors.Is(err, model.ErrInsufficientData),
		errors.Is(err, model.ErrInvalidPrice),
		errors.Is(err, model.ErrMalformedData):
		return KindData
	default:
		return KindUnexpected
	}
}
