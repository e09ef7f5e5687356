package matching

import "errors"

var (
	// ErrResponseIDRequired is returned when a request omits the intake
	// response identifier.
	ErrResponseIDRequired = errors.New("response_id is required")
	// ErrClientNotFound is returned when no intake response matches the ID.
	ErrClientNotFound = errors.New("client response not found")
	// ErrTherapistNotFound is returned when a referenced therapist does not
	// exist in the roster.
	ErrTherapistNotFound = errors.New("therapist not found")
	// ErrStateRequired is returned when the intake response has no state,
	// which makes licensing checks impossible.
	ErrStateRequired = errors.New("client state is required for matching")
	// ErrTherapistRefRequired is returned when a selection names neither an
	// email nor a name.
	ErrTherapistRefRequired = errors.New("therapist_email or therapist_name is required")
)
