package domain

import "errors"

// ErrMissingInput marks requests missing required fields. Surfaced as a
// 400; nothing is computed and no collaborator is called.
var ErrMissingInput = errors.New("missing required input")

// ErrCollaboratorUnavailable marks an external call that failed or timed
// out. It is always recovered locally via the component's documented
// fallback and never reaches the caller.
var ErrCollaboratorUnavailable = errors.New("collaborator unavailable")
