package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores and platform adapters return
// these (optionally wrapped) so services can translate them into domain errors.
//
//   - ErrNotFound: key or record does not exist in the backend
//   - ErrUnavailable: backend temporarily unreachable
//   - ErrMalformed: a stored value exists but cannot be decoded
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
	ErrMalformed   = errors.New("malformed")
)
