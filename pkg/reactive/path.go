package reactive

import (
	"strings"

	rerrors "github.com/vango-dev/reactive/internal/errors"
	"github.com/vango-dev/reactive/pkg/vango"
)

// PathSeparator separates keys in the paths accepted by GetPath, SetPath
// and CellPath.
const PathSeparator = "."

// SplitPath splits a dotted path into keys. Empty paths and empty segments
// are rejected.
func SplitPath(path string) ([]string, error) {
	if path == "" {
		return nil, rerrors.New("R009").WithDetail("empty path")
	}
	parts := strings.Split(path, PathSeparator)
	for _, p := range parts {
		if p == "" {
			return nil, rerrors.New("R009").WithDetailf("path %q", path)
		}
	}
	return parts, nil
}

// resolve walks every segment but the last and returns the Reactive that
// owns the last one.
func resolve(r *Reactive, path string) (*Reactive, string, error) {
	parts, err := SplitPath(path)
	if err != nil {
		return nil, "", err
	}
	cur := r
	for i, key := range parts[:len(parts)-1] {
		if !cur.Has(key) {
			return nil, "", keyError("R001", strings.Join(parts[:i+1], PathSeparator))
		}
		next, ok := cur.Child(key)
		if !ok {
			return nil, "", rerrors.New("R009").
				WithDetailf("%q is not a nested reactive", strings.Join(parts[:i+1], PathSeparator))
		}
		cur = next
	}
	return cur, parts[len(parts)-1], nil
}

// GetPath reads a dotted path such as "user.address.city".
func GetPath(r *Reactive, path string) (any, error) {
	owner, key, err := resolve(r, path)
	if err != nil {
		return nil, err
	}
	v, ok := owner.Lookup(key)
	if !ok {
		return nil, keyError("R001", path)
	}
	return v, nil
}

// SetPath writes value at a dotted path with the rules of Set.
func SetPath(r *Reactive, path string, value any) error {
	owner, key, err := resolve(r, path)
	if err != nil {
		return err
	}
	return owner.Set(key, value)
}

// CellPath returns the cell at a dotted path. See Helpers.Cell.
func CellPath(r *Reactive, path string) (vango.AnySignal, error) {
	owner, key, err := resolve(r, path)
	if err != nil {
		return nil, err
	}
	return owner.Helpers().Cell(key)
}
