package emu

import "errors"

// ErrOutOfBounds is returned when a memory access falls outside the
// configured buffer.
var ErrOutOfBounds = errors.New("emu: out of bounds memory access")
