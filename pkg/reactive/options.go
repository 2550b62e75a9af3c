package reactive

import "log/slog"

// Observer receives notifications about wrapping and writes. Embed
// NopObserver to implement only the methods you need.
type Observer interface {
	// Wrapped is called once per Reactive constructed, nested ones included.
	Wrapped(shallow bool, keys int)

	// CellCreated is called for every cell allocated by wrapping. Borrowed
	// cells are not reported.
	CellCreated()

	// Written is called after a successful Set.
	Written(key string)

	// Rejected is called when Set fails.
	Rejected(key string, err error)
}

// NopObserver ignores every notification.
type NopObserver struct{}

func (NopObserver) Wrapped(bool, int)      {}
func (NopObserver) CellCreated()           {}
func (NopObserver) Written(string)         {}
func (NopObserver) Rejected(string, error) {}

// Option configures New and NewShallow. Nested reactives created while
// wrapping inherit the options of their root.
type Option func(*options)

type options struct {
	observer Observer
	logger   *slog.Logger
}

// WithObserver reports wrapping and writes to o.
func WithObserver(o Observer) Option {
	return func(opts *options) {
		if o != nil {
			opts.observer = o
		}
	}
}

// WithLogger sets the logger used for rejected writes, which are logged at
// debug level. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(opts *options) {
		if l != nil {
			opts.logger = l
		}
	}
}

func buildOptions(opts []Option) *options {
	o := &options{
		observer: NopObserver{},
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}
