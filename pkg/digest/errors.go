package digest

import "errors"

// ErrUnknownAlgorithm is returned for hash names or ids that are not supported.
var ErrUnknownAlgorithm = errors.New("unknown digest algorithm")
