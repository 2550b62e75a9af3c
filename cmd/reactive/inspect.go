package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/reactive/pkg/reactive"
	"github.com/vango-dev/reactive/pkg/source"
)

func inspectCmd(flags *globalFlags) *cobra.Command {
	var (
		sets   []string
		format string
		out    string
	)

	cmd := &cobra.Command{
		Use:   "inspect [source]",
		Short: "Load a document, apply writes and print the result",
		Long: `Load a document, wrap it, apply --set writes in order and print the
unwrapped result.

Writes follow the reactive rules: unknown keys and function keys are
rejected, and an object written to a nested key is merged into it.

Examples:
  reactive inspect state.json
  reactive inspect state.yaml --set address.city='"Paris"' --format json
  reactive inspect s3://bucket/state.json --set count=3 --out state.yaml
  cat state.json | reactive inspect - --set name=Grace`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			loc, err := location(args, cfg)
			if err != nil {
				return err
			}

			logger := newLogger(cfg, cmd.ErrOrStderr())
			state, _, err := loadState(cmd.Context(), cmd, cfg, loc, reactive.WithLogger(logger))
			if err != nil {
				return err
			}

			for _, s := range sets {
				path, value, err := parseAssignment(s)
				if err != nil {
					return err
				}
				if err := reactive.SetPath(state, path, value); err != nil {
					return err
				}
				logger.Debug("applied write", "path", path)
			}

			target := "-"
			if out != "" {
				target = out
			}
			opts := sourceOptions(cmd, cfg)
			if format != "" {
				if opts.Format, err = source.ParseFormat(format); err != nil {
					return err
				}
			}
			store, err := source.Open(cmd.Context(), target, opts)
			if err != nil {
				return err
			}
			if err := store.Save(cmd.Context(), reactive.Raw(state)); err != nil {
				return err
			}
			if out != "" {
				success(cmd, "Wrote %s", out)
			}
			return nil
		},
	}

	cmd.Flags().StringArrayVar(&sets, "set", nil, "Write path=value (JSON, or a plain string); repeatable")
	cmd.Flags().StringVarP(&format, "format", "f", "", "Output format: json or yaml (default: json, or from --out)")
	cmd.Flags().StringVarP(&out, "out", "o", "", "Write the result to a file or s3://bucket/key instead of stdout")

	return cmd
}
