package backend

import "fmt"

// TransportError covers unreachable backend and non-2xx responses that
// carry no structured message. Local state must stay untouched.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("backend %s: %s", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NotFoundError means the case no longer exists server-side.
type NotFoundError struct {
	CaseID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("case %s not found", e.CaseID)
}

// BusinessRejection carries the backend's success:false message verbatim.
// It is shown to the user as-is.
type BusinessRejection struct {
	Message string
}

func (e *BusinessRejection) Error() string {
	return e.Message
}
