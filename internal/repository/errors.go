package repository

import "errors"

var (
	// ErrProcess indicates a version-control query failed or produced no usable output.
	ErrProcess = errors.New("vcs query failed")
	// ErrNoDefaultBranch indicates the remote's default branch could not be determined.
	ErrNoDefaultBranch = errors.New("no remote default branch found")
	// ErrInvalidRemote indicates a remote name that cannot be passed to git safely.
	ErrInvalidRemote = errors.New("invalid remote name")
	// ErrUnknownFileType indicates a file type name outside the classification table.
	ErrUnknownFileType = errors.New("unknown file type")
)
