package reactive

import (
	rerrors "github.com/vango-dev/reactive/internal/errors"
)

// Sentinels for errors.Is. Returned errors are fresh values carrying the
// offending key, matched to these by code.
var (
	ErrUnknownKey        error = rerrors.New("R001")
	ErrImmutableMethod   error = rerrors.New("R002")
	ErrReactiveAssign    error = rerrors.New("R003")
	ErrNotObject         error = rerrors.New("R004")
	ErrUnsupportedAssign error = rerrors.New("R005")
	ErrCellOnMethod      error = rerrors.New("R006")
	ErrCellOnNested      error = rerrors.New("R007")
	ErrCellType          error = rerrors.New("R008")
	ErrInvalidPath       error = rerrors.New("R009")
	ErrNotMethod         error = rerrors.New("R010")
)

func keyError(code, key string) error {
	return rerrors.New(code).WithDetailf("key %q", key)
}
