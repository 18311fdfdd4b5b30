package markdown

import "errors"

var (
	// ErrDirRequired is returned when a Source is created without a directory.
	ErrDirRequired = errors.New("content directory is required")

	// ErrNoFrontMatter is returned for files without a YAML header.
	ErrNoFrontMatter = errors.New("missing front matter")

	// ErrInvalidDate is returned for unparseable publishedAt values.
	ErrInvalidDate = errors.New("invalid date")
)
