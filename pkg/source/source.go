package source

import (
	"context"
	"io"
	"os"
	"strings"

	rerrors "github.com/vango-dev/reactive/internal/errors"
	"github.com/vango-dev/reactive/pkg/reactive"
)

// Store reads and writes one State document.
type Store interface {
	Load(ctx context.Context) (reactive.State, error)
	Save(ctx context.Context, state reactive.State) error
}

// Options controls Open.
type Options struct {
	// Format overrides extension detection when set.
	Format Format

	// S3 configures the client used for s3:// locations.
	S3 S3Config

	// Stdin and Stdout back the "-" location. Default: os.Stdin, os.Stdout.
	Stdin  io.Reader
	Stdout io.Writer
}

// Open returns the Store for location.
func Open(ctx context.Context, location string, opts Options) (Store, error) {
	switch {
	case location == "":
		return nil, rerrors.New("S120").WithDetail("no source given")

	case location == "-":
		f := opts.Format
		if f == "" {
			f = FormatJSON
		}
		in, out := opts.Stdin, opts.Stdout
		if in == nil {
			in = os.Stdin
		}
		if out == nil {
			out = os.Stdout
		}
		return &StreamStore{In: in, Out: out, Format: f}, nil

	case strings.HasPrefix(location, S3Scheme):
		bucket, key, err := ParseS3URL(location)
		if err != nil {
			return nil, err
		}
		f, err := formatOr(opts.Format, key)
		if err != nil {
			return nil, err
		}
		client, err := NewS3Client(ctx, opts.S3)
		if err != nil {
			return nil, err
		}
		return NewS3Store(client, bucket, key, f), nil
	}

	f, err := formatOr(opts.Format, location)
	if err != nil {
		return nil, err
	}
	return &FileStore{Path: location, Format: f}, nil
}

func formatOr(f Format, name string) (Format, error) {
	if f != "" {
		return f, nil
	}
	return FormatFor(name)
}

// FileStore is a local file.
type FileStore struct {
	Path   string
	Format Format
}

func (s *FileStore) Load(_ context.Context) (reactive.State, error) {
	data, err := os.ReadFile(s.Path)
	if err != nil {
		return nil, rerrors.New("S120").WithDetail(s.Path).Wrap(err)
	}
	return Decode(data, s.Format)
}

func (s *FileStore) Save(_ context.Context, state reactive.State) error {
	data, err := Encode(state, s.Format)
	if err != nil {
		return err
	}
	if err := os.WriteFile(s.Path, data, 0o644); err != nil {
		return rerrors.New("S122").WithDetail(s.Path).Wrap(err)
	}
	return nil
}

// StreamStore reads from In and writes to Out.
type StreamStore struct {
	In     io.Reader
	Out    io.Writer
	Format Format
}

func (s *StreamStore) Load(_ context.Context) (reactive.State, error) {
	data, err := io.ReadAll(s.In)
	if err != nil {
		return nil, rerrors.New("S120").WithDetail("stdin").Wrap(err)
	}
	return Decode(data, s.Format)
}

func (s *StreamStore) Save(_ context.Context, state reactive.State) error {
	data, err := Encode(state, s.Format)
	if err != nil {
		return err
	}
	if _, err := s.Out.Write(data); err != nil {
		return rerrors.New("S122").WithDetail("stdout").Wrap(err)
	}
	return nil
}
