package errors

import (
	"errors"
	"fmt"
)

// Kind is the closed set of failure classes the pipelines can report.
// Every error crossing a pipeline boundary is wrapped in exactly one of
// these; raw provider errors never reach the API layer.
type Kind int

const (
	KindUnknown Kind = iota
	KindValidation
	KindInvalidImage
	KindStorageUnavailable
	KindPersistenceFailed
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindInvalidImage:
		return "invalid_image"
	case KindStorageUnavailable:
		return "storage_unavailable"
	case KindPersistenceFailed:
		return "persistence_failed"
	case KindNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

var (
	ErrMissingFields  = errors.New("all fields are required")
	ErrSchoolNotFound = errors.New("school not found")
)

type PipelineError struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *PipelineError) Error() string {
	if e.Err != nil && e.Err.Error() != e.Message {
		return fmt.Sprintf("%s: %s", e.Message, e.Err.Error())
	}
	return e.Message
}

func (e *PipelineError) Unwrap() error {
	return e.Err
}

func NewValidation(err error) error {
	return &PipelineError{Kind: KindValidation, Message: err.Error(), Err: err}
}

func NewInvalidImage(message string) error {
	return &PipelineError{Kind: KindInvalidImage, Message: message}
}

func NewStorageUnavailable(err error) error {
	return &PipelineError{Kind: KindStorageUnavailable, Message: "image storage unavailable", Err: err}
}

func NewPersistenceFailed(err error) error {
	return &PipelineError{Kind: KindPersistenceFailed, Message: "failed to persist school record", Err: err}
}

func NewNotFound() error {
	return &PipelineError{Kind: KindNotFound, Message: ErrSchoolNotFound.Error(), Err: ErrSchoolNotFound}
}

// KindOf classifies any error, returning KindUnknown for errors that did
// not originate in a pipeline.
func KindOf(err error) Kind {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return KindUnknown
}

// MessageOf returns the boundary-safe message for a pipeline error. The
// wrapped cause stays in the logs; it is never part of the response body.
func MessageOf(err error) string {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Message
	}
	return "Internal server error"
}

type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("validation failed for field '%s' with value '%v': %s",
		e.Field, e.Value, e.Message)
}
