package export

import "errors"

var (
	// ErrFormat is returned when an export is malformed or truncated.
	ErrFormat = errors.New("malformed export")
	// ErrSealed is returned when a sealed export cannot be opened with the given key,
	// or no key was given.
	ErrSealed = errors.New("sealed export")
	// ErrKeySize is returned for sealing keys shorter than MinKeySize.
	ErrKeySize = errors.New("invalid sealing key size")
)
