package schema

import "errors"

var (
	// ErrInvalidRequest indicates a malformed request payload.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrInvalidSlug indicates an invalid post or project slug.
	ErrInvalidSlug = errors.New("invalid slug")
	// ErrInvalidCategory indicates an unknown post or project category.
	ErrInvalidCategory = errors.New("invalid category")
	// ErrPostNotFound indicates a post could not be found.
	ErrPostNotFound = errors.New("post not found")
	// ErrProjectNotFound indicates a project could not be found.
	ErrProjectNotFound = errors.New("project not found")
	// ErrDemoNotFound indicates a demo could not be found.
	ErrDemoNotFound = errors.New("demo not found")
	// ErrSessionNotFound indicates a demo session is not mounted.
	ErrSessionNotFound = errors.New("demo session not found")
	// ErrTooManySessions indicates the demo session limit was reached.
	ErrTooManySessions = errors.New("too many demo sessions")
	// ErrInvalidScript indicates a demo script failed validation.
	ErrInvalidScript = errors.New("invalid demo script")
	// ErrInvalidTheme indicates an unsupported theme name.
	ErrInvalidTheme = errors.New("invalid theme")
)

// IsNotFound reports whether err is one of the lookup misses.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrPostNotFound) ||
		errors.Is(err, ErrProjectNotFound) ||
		errors.Is(err, ErrDemoNotFound) ||
		errors.Is(err, ErrSessionNotFound)
}

// IsInvalid reports whether err was caused by bad input.
func IsInvalid(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrInvalidSlug) ||
		errors.Is(err, ErrInvalidCategory) ||
		errors.Is(err, ErrInvalidTheme)
}
