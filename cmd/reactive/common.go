package main

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vango-dev/reactive/internal/config"
	rerrors "github.com/vango-dev/reactive/internal/errors"
	"github.com/vango-dev/reactive/pkg/reactive"
	"github.com/vango-dev/reactive/pkg/source"
)

// globalFlags are the persistent flags of the root command.
type globalFlags struct {
	configPath string
	shallow    bool
	logLevel   string
}

// loadConfig reads the config file, applies environment overrides and
// then command-line flags.
func loadConfig(cmd *cobra.Command, flags *globalFlags) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if flags.configPath != "" {
		cfg, err = config.LoadFile(flags.configPath)
	} else {
		cfg, err = config.Load(".")
	}
	if err != nil {
		return nil, err
	}
	if err := cfg.ApplyEnv(); err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("shallow") {
		cfg.Shallow = flags.shallow
	}
	if flags.logLevel != "" {
		cfg.Log.Level = flags.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newLogger builds the slog logger described by cfg.Log.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	level, _ := cfg.SlogLevel()
	opts := &slog.HandlerOptions{Level: level}
	if cfg.Log.Format == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

func sourceOptions(cmd *cobra.Command, cfg *config.Config) source.Options {
	return source.Options{
		S3: source.S3Config{
			Region:       cfg.S3.Region,
			Endpoint:     cfg.S3.Endpoint,
			UsePathStyle: cfg.S3.UsePathStyle,
			Anonymous:    cfg.S3.Anonymous,
		},
		Stdin:  cmd.InOrStdin(),
		Stdout: cmd.OutOrStdout(),
	}
}

// location picks the positional source argument, falling back to
// cfg.Source.
func location(args []string, cfg *config.Config) (string, error) {
	if len(args) > 0 {
		return args[0], nil
	}
	if cfg.Source != "" {
		return cfg.Source, nil
	}
	return "", rerrors.New("S120").
		WithDetail("no source given").
		WithSuggestion("Pass a file, - or s3://bucket/key, or set source in the config")
}

// loadState opens location and wraps its document.
func loadState(ctx context.Context, cmd *cobra.Command, cfg *config.Config, loc string, opts ...reactive.Option) (*reactive.Reactive, source.Store, error) {
	store, err := source.Open(ctx, loc, sourceOptions(cmd, cfg))
	if err != nil {
		return nil, nil, err
	}
	doc, err := store.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Shallow {
		return reactive.NewShallow(doc, opts...), store, nil
	}
	return reactive.New(doc, opts...), store, nil
}

// parseAssignment splits "path=value". The value is parsed as JSON and
// taken as a plain string when it is not valid JSON.
func parseAssignment(s string) (string, any, error) {
	path, raw, ok := strings.Cut(s, "=")
	if !ok || path == "" {
		return "", nil, rerrors.New("R009").
			WithDetailf("%q", s).
			WithSuggestion("Use --set path=value, e.g. --set address.city='\"Paris\"'")
	}
	var value any
	if err := json.Unmarshal([]byte(raw), &value); err != nil {
		value = raw
	}
	return path, value, nil
}
