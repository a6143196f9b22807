// Package errs defines the error taxonomy shared by services and controllers.
// Services return these sentinels (possibly wrapped); controllers map them to
// HTTP status codes. Anything else is treated as a storage failure and
// propagated unmodified.
package errs

import "errors"

var (
	// ErrNotFound is returned when a referenced user, post or story is
	// absent, archived, expired or inactive.
	ErrNotFound = errors.New("resource not found")

	// ErrForbidden is returned on ownership violations, e.g. editing
	// someone else's post.
	ErrForbidden = errors.New("operation not allowed")

	// ErrConflict is returned on duplicate-action violations, e.g. liking
	// a post twice, following a user twice, or self-follow.
	ErrConflict = errors.New("duplicate or conflicting action")
)

func IsNotFound(err error) bool  { return errors.Is(err, ErrNotFound) }
func IsForbidden(err error) bool { return errors.Is(err, ErrForbidden) }
func IsConflict(err error) bool  { return errors.Is(err, ErrConflict) }
