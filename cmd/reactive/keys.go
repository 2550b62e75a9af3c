package main

import (
	"encoding/json"
	"fmt"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	rerrors "github.com/vango-dev/reactive/internal/errors"
	"github.com/vango-dev/reactive/pkg/reactive"
)

const maxValueWidth = 48

func keysCmd(flags *globalFlags) *cobra.Command {
	var path string

	cmd := &cobra.Command{
		Use:   "keys [source]",
		Short: "List the keys of a document and what they are bound to",
		Long: `List the keys of a wrapped document as a table of key, kind and value.

Kinds are "cell" for values with their own cell, "nested" for nested
reactives (deep mode only) and "func" for methods.

Examples:
  reactive keys state.json
  reactive keys state.json --path address
  reactive keys state.json --shallow`,
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
			state, _, err := loadState(cmd.Context(), cmd, cfg, loc)
			if err != nil {
				return err
			}

			target := state
			if path != "" {
				v, err := reactive.GetPath(state, path)
				if err != nil {
					return err
				}
				child, ok := v.(*reactive.Reactive)
				if !ok {
					return rerrors.New("R009").WithDetailf("%q is not a nested reactive", path)
				}
				target = child
			}

			if target.Len() == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No keys")
				return nil
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.Header("Key", "Kind", "Value")
			for _, key := range target.Keys() {
				kind, _ := target.KindOf(key)
				table.Append(key, string(kind), preview(target, key, kind))
			}
			return table.Render()
		},
	}

	cmd.Flags().StringVarP(&path, "path", "p", "", "List the nested reactive at this dotted path")

	return cmd
}

// preview renders a short description of the value at key.
func preview(r *reactive.Reactive, key string, kind reactive.Kind) string {
	switch kind {
	case reactive.KindNested:
		child, _ := r.Child(key)
		return fmt.Sprintf("{%d keys}", child.Len())
	case reactive.KindFunc:
		return "method"
	}
	data, err := json.Marshal(r.Peek(key))
	if err != nil {
		return fmt.Sprintf("%v", r.Peek(key))
	}
	return truncate(string(data), maxValueWidth)
}

// truncate shortens s to at most width runes, ending in "...".
func truncate(s string, width int) string {
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	return string(r[:width-3]) + "..."
}
