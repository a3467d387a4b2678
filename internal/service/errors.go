package service

import (
	"errors"
	"fmt"
)

// ErrUnknownSection is the cause attached when a seat is requested for a
// section the registry was not initialised with.
var ErrUnknownSection = errors.New("unknown section")

// ServiceError reports an internal consistency failure inside the registry.
// Not-found outcomes are never reported this way; handlers translate a
// ServiceError into a 500 envelope.
type ServiceError struct {
	Msg string
	Err error
}

func (e *ServiceError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

func serviceErr(cause error, format string, args ...any) *ServiceError {
	return &ServiceError{Msg: fmt.Sprintf(format, args...), Err: cause}
}
