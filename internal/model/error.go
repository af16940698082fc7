package model

import (
	"fmt"
)

type ValidationError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Param   string `json:"param"`
}

func (e *ValidationError) Error() string {
	return e.Message
}

// UpstreamError carries a document store failure back to the caller with the
// store's original status code. The gateway never converts a store failure
// into a fabricated success.
type UpstreamError struct {
	Status int
	Detail string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("upstream store request failed with status %d", e.Status)
}

// UnauthorizedError is returned only by the visit-log read path, the single
// authenticated surface in the service.
type UnauthorizedError struct {
	Message string
}

func (e *UnauthorizedError) Error() string {
	return e.Message
}
