package services

// ValidationError covers malformed or missing input (empty message content,
// unknown emoji, non-existent sender). Maps to HTTP 400.
type ValidationError struct {
	Reason string
}

func (e ValidationError) Error() string {
	return e.Reason
}

// AuthorizationError covers privileged operations attempted by callers
// without the required role. Maps to HTTP 403.
type AuthorizationError struct {
	Reason string
}

func (e AuthorizationError) Error() string {
	return e.Reason
}

// NotFoundError covers references to rows that do not exist. Maps to HTTP
// 404. Deletes never return it: a missing row is a successful delete.
type NotFoundError struct {
	Reason string
}

func (e NotFoundError) Error() string {
	return e.Reason
}
