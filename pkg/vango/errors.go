package vango

import "errors"

// ErrTypeMismatch is returned by AnySignal.SetAny when the value cannot be
// stored in the signal's element type.
var ErrTypeMismatch = errors.New("vango: signal type mismatch")
