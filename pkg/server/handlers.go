package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	rerrors "github.com/vango-dev/reactive/internal/errors"
	"github.com/vango-dev/reactive/pkg/reactive"
)

// KeyInfo describes one key in a /keys response.
type KeyInfo struct {
	Key  string        `json:"key"`
	Kind reactive.Kind `json:"kind"`
}

func (s *Server) handleGetState(w http.ResponseWriter, _ *http.Request) {
	var snapshot reactive.State
	s.withState(func(r *reactive.Reactive) {
		snapshot = reactive.Raw(r)
	})
	writeJSON(w, http.StatusOK, snapshot)
}

func (s *Server) handleGetPath(w http.ResponseWriter, req *http.Request) {
	path := pathParam(req)
	var (
		value any
		err   error
	)
	s.withState(func(r *reactive.Reactive) {
		value, err = readPath(r, path)
	})
	if err != nil {
		s.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, value)
}

func (s *Server) handlePutPath(w http.ResponseWriter, req *http.Request) {
	path := pathParam(req)
	trace.SpanFromContext(req.Context()).SetAttributes(attribute.String("reactive.path", path))

	var value any
	dec := json.NewDecoder(io.LimitReader(req.Body, s.config.MaxBodyBytes))
	if err := dec.Decode(&value); err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Code: "BAD_BODY", Message: err.Error()})
		return
	}

	var (
		snapshot reactive.State
		current  any
		err      error
	)
	s.withState(func(r *reactive.Reactive) {
		if err = reactive.SetPath(r, path, value); err != nil {
			return
		}
		current, _ = readPath(r, path)
		snapshot = reactive.Raw(r)
	})
	if err != nil {
		s.writeError(w, req, err)
		return
	}

	if s.config.Store != nil {
		if err := s.config.Store.Save(req.Context(), snapshot); err != nil {
			s.logger.Error("autosave failed", "path", path, "error", err)
		}
	}
	writeJSON(w, http.StatusOK, current)
}

func (s *Server) handleKeys(w http.ResponseWriter, req *http.Request) {
	path := pathParam(req)
	var (
		keys []KeyInfo
		err  error
	)
	s.withState(func(r *reactive.Reactive) {
		target := r
		if path != "" {
			var v any
			if v, err = reactive.GetPath(r, path); err != nil {
				return
			}
			var ok bool
			if target, ok = v.(*reactive.Reactive); !ok {
				err = rerrors.New("R009").WithDetailf("%q is not a nested reactive", path)
				return
			}
		}
		keys = describe(target)
	})
	if err != nil {
		s.writeError(w, req, err)
		return
	}
	writeJSON(w, http.StatusOK, keys)
}

func describe(r *reactive.Reactive) []KeyInfo {
	keys := r.Keys()
	out := make([]KeyInfo, 0, len(keys))
	for _, k := range keys {
		kind, _ := r.KindOf(k)
		out = append(out, KeyInfo{Key: k, Kind: kind})
	}
	return out
}

// readPath resolves path to JSON-ready data. The empty path is the whole
// state.
func readPath(r *reactive.Reactive, path string) (any, error) {
	if path == "" {
		return reactive.Raw(r), nil
	}
	v, err := reactive.GetPath(r, path)
	if err != nil {
		return nil, err
	}
	if kind, _ := kindAt(r, path); kind == reactive.KindFunc {
		return nil, rerrors.New("R011").WithDetailf("key %q", path)
	}
	if child, ok := v.(*reactive.Reactive); ok {
		return reactive.Raw(child), nil
	}
	return v, nil
}

// kindAt is KindOf for a dotted path.
func kindAt(r *reactive.Reactive, path string) (reactive.Kind, bool) {
	parts, err := reactive.SplitPath(path)
	if err != nil {
		return "", false
	}
	cur := r
	for _, k := range parts[:len(parts)-1] {
		next, ok := cur.Child(k)
		if !ok {
			return "", false
		}
		cur = next
	}
	return cur.KindOf(parts[len(parts)-1])
}

func pathParam(req *http.Request) string {
	p := chi.URLParam(req, "*")
	p = strings.Trim(p, "/")
	return strings.ReplaceAll(p, "/", reactive.PathSeparator)
}

type errorBody struct {
	Code       string `json:"code"`
	Message    string `json:"message"`
	Detail     string `json:"detail,omitempty"`
	Suggestion string `json:"suggestion,omitempty"`
}

// statusFor maps a coded error to an HTTP status.
func statusFor(err error) int {
	switch rerrors.CodeOf(err) {
	case "":
		return http.StatusInternalServerError
	case "R001":
		return http.StatusNotFound
	case "R002", "R011":
		return http.StatusConflict
	}
	return http.StatusBadRequest
}

func (s *Server) writeError(w http.ResponseWriter, req *http.Request, err error) {
	trace.SpanFromContext(req.Context()).RecordError(err)

	body := errorBody{Message: err.Error()}
	var re *rerrors.ReactiveError
	if errors.As(err, &re) {
		body = errorBody{
			Code:       re.Code,
			Message:    re.Message,
			Detail:     re.Detail,
			Suggestion: re.Suggestion,
		}
	}
	s.logger.Debug("request rejected", "path", req.URL.Path, "code", body.Code, "error", err)
	writeJSON(w, statusFor(err), body)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
