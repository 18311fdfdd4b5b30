package catalog

import "errors"

var (
	// ErrSourceRequired is returned when a nil Source is configured.
	ErrSourceRequired = errors.New("source is required")

	// ErrInvalidSections is returned when the section catalog cannot be parsed.
	ErrInvalidSections = errors.New("invalid section catalog")

	// ErrSourceTimeout is recorded when a source does not answer before its deadline.
	ErrSourceTimeout = errors.New("source timed out")

	// ErrSourcePanic is recorded when a source panics while listing articles.
	ErrSourcePanic = errors.New("source panicked")
)
