package main

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/vango-dev/reactive/internal/config"
	rerrors "github.com/vango-dev/reactive/internal/errors"
)

func configCmd(flags *globalFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Create and inspect the configuration file",
	}
	cmd.AddCommand(
		configInitCmd(),
		configSourceCmd(flags),
		configShowCmd(flags),
	)
	return cmd
}

func configInitCmd() *cobra.Command {
	var (
		force bool
		src   string
	)

	cmd := &cobra.Command{
		Use:   "init [path]",
		Short: "Write a configuration file with the default settings",
		Long: `Write a configuration file with the default settings.

The path defaults to reactive.yaml in the working directory. A .json
path writes JSON instead.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "reactive.yaml"
			if len(args) == 1 {
				path = args[0]
			}
			if _, err := os.Stat(path); err == nil && !force {
				return rerrors.New("C102").WithDetail(path)
			}

			cfg := config.New()
			cfg.Source = src
			if err := cfg.SaveTo(path); err != nil {
				return err
			}
			success(cmd, "Wrote %s", path)
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Overwrite an existing file")
	cmd.Flags().StringVar(&src, "source", "", "Default state location")

	return cmd
}

func configSourceCmd(flags *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "source <location>",
		Short: "Set the default state location in the configuration file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := flags.configPath
			if path == "" {
				path = config.Find(".")
			}
			if path == "" {
				return rerrors.New("C100").
					WithDetail("no configuration file found").
					WithSuggestion("Run 'reactive config init' first")
			}

			// Env overrides are left out so they are not persisted.
			cfg, err := config.LoadFile(path)
			if err != nil {
				return err
			}
			cfg.Source = args[0]
			if err := cfg.Save(); err != nil {
				return err
			}
			success(cmd, "Source set to %s in %s", args[0], filepath.Base(cfg.Path()))
			return nil
		},
	}
}

func configShowCmd(flags *globalFlags) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Long:  `Print the configuration after environment and flag overrides.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch format {
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(cfg); err != nil {
					return err
				}
				return enc.Close()
			case "json":
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(cfg)
			}
			return rerrors.New("C101").WithDetail(fmt.Sprintf("format must be yaml or json, got %q", format))
		},
	}

	cmd.Flags().StringVarP(&format, "format", "f", "yaml", "Output format: yaml or json")

	return cmd
}
