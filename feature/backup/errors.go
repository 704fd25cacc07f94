package backup

import "errors"

var (
	// ErrInvalidBackup indicates an unreadable file or an unsupported document shape.
	ErrInvalidBackup = errors.New("invalid backup")
	// ErrEmptyBackup indicates a well-formed backup without entries.
	ErrEmptyBackup = errors.New("backup contains no entries")
)
