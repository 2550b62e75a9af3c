package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	rerrors "github.com/vango-dev/reactive/internal/errors"
)

// Version information set at build time.
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		rerrors.Fprint(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	flags := &globalFlags{}

	rootCmd := &cobra.Command{
		Use:   "reactive",
		Short: "Inspect, edit and serve reactive state documents",
		Long: `reactive wraps a JSON or YAML document into reactive cells.

Every key of the document gets its own cell. Writes go through the
same rules as in code: the key set is fixed, function keys are
immutable and nested objects are merged in place.

Sources can be a local file, "-" for stdin, or s3://bucket/key.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().StringVarP(&flags.configPath, "config", "c", "", "Config file (default: reactive.json or reactive.yaml in the working directory)")
	rootCmd.PersistentFlags().BoolVar(&flags.shallow, "shallow", false, "Wrap only the top level of the document")
	rootCmd.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(
		inspectCmd(flags),
		keysCmd(flags),
		serveCmd(flags),
		configCmd(flags),
		versionCmd(),
	)
	return rootCmd
}

// success prints a success message.
func success(cmd *cobra.Command, format string, args ...any) {
	fmt.Fprintf(cmd.ErrOrStderr(), "\033[32m✓\033[0m %s\n", fmt.Sprintf(format, args...))
}
