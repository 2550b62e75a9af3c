package source

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	rerrors "github.com/vango-dev/reactive/internal/errors"
	"github.com/vango-dev/reactive/pkg/reactive"
)

// Format is a document encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat accepts "json", "yaml" or "yml".
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(s) {
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	}
	return "", rerrors.New("S121").WithDetailf("format %q", s)
}

// FormatFor picks the format from the extension of name.
func FormatFor(name string) (Format, error) {
	ext := strings.TrimPrefix(filepath.Ext(name), ".")
	if ext == "" {
		return "", rerrors.New("S121").WithDetailf("%q has no extension", name)
	}
	return ParseFormat(ext)
}

// Decode parses data as a State. The document must be an object at the top
// level.
func Decode(data []byte, f Format) (reactive.State, error) {
	var doc any
	switch f {
	case FormatJSON:
		dec := json.NewDecoder(bytes.NewReader(data))
		if err := dec.Decode(&doc); err != nil {
			return nil, rerrors.New("S120").WithDetail("invalid JSON").Wrap(err)
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, rerrors.New("S120").WithDetail("invalid YAML").Wrap(err)
		}
	default:
		return nil, rerrors.New("S121").WithDetailf("format %q", f)
	}

	state, ok := doc.(map[string]any)
	if !ok {
		return nil, rerrors.New("S120").WithDetailf("top-level value is %T, want an object", doc)
	}
	return state, nil
}

// Encode renders state in format f.
func Encode(state reactive.State, f Format) ([]byte, error) {
	switch f {
	case FormatJSON:
		data, err := json.MarshalIndent(state, "", "  ")
		if err != nil {
			return nil, rerrors.New("S122").Wrap(err)
		}
		return append(data, '\n'), nil
	case FormatYAML:
		data, err := yaml.Marshal(state)
		if err != nil {
			return nil, rerrors.New("S122").Wrap(err)
		}
		return data, nil
	}
	return nil, rerrors.New("S121").WithDetailf("format %q", f)
}
