package searchclient

import "fmt"

const fallbackMessage = "An unexpected error occurred"

// TransportError means no response was obtained from the search service.
type TransportError struct {
	Err error
}

func (e *TransportError) Error() string {
	if e.Err == nil || e.Err.Error() == "" {
		return fallbackMessage
	}
	return e.Err.Error()
}

func (e *TransportError) Unwrap() error { return e.Err }

// ServiceError means the search service answered with a non-2xx status.
type ServiceError struct {
	StatusCode int
	Detail     string
}

func (e *ServiceError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("An error occurred (%d)", e.StatusCode)
}

// MalformedResponseError means a 2xx body was not JSON or did not match the listing schema.
type MalformedResponseError struct {
	Err error
}

func (e *MalformedResponseError) Error() string {
	return "The search service returned an invalid response"
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }
