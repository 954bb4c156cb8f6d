package secret

import "errors"

// ErrRange is returned when a requested length or stream size falls outside the
// supported bounds.
var ErrRange = errors.New("out of range")
