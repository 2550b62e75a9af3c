package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"

	"github.com/vango-dev/reactive/pkg/reactive"
	"github.com/vango-dev/reactive/pkg/reactive/metrics"
	"github.com/vango-dev/reactive/pkg/server"
)

func serveCmd(flags *globalFlags) *cobra.Command {
	var (
		port     int
		host     string
		autosave bool
	)

	cmd := &cobra.Command{
		Use:   "serve [source]",
		Short: "Serve a document over HTTP and WebSocket",
		Long: `Load a document and serve it. Reads and writes go through the
reactive rules, and /watch streams a snapshot whenever a watched
value changes.

Routes:
  GET /state, GET /state/{path}, PUT /state/{path}
  GET /keys[/{path}], GET /watch[?path=...], GET /metrics

Examples:
  reactive serve state.json
  reactive serve state.yaml --port=8080 --autosave
  REACTIVE_S3_REGION=eu-west-1 reactive serve s3://bucket/state.json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd, flags)
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Server.Port = port
			}
			if host != "" {
				cfg.Server.Host = host
			}
			loc, err := location(args, cfg)
			if err != nil {
				return err
			}

			logger := newLogger(cfg, cmd.ErrOrStderr())
			reg := prometheus.NewRegistry()
			reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
			obs := metrics.New(metrics.WithRegistry(reg))

			state, store, err := loadState(cmd.Context(), cmd, cfg, loc,
				reactive.WithObserver(obs),
				reactive.WithLogger(logger),
			)
			if err != nil {
				return err
			}

			srvConfig := server.DefaultConfig()
			srvConfig.Address = cfg.Address()
			srvConfig.WatchBuffer = cfg.Server.WatchBuffer
			srvConfig.Registry = reg
			srvConfig.Logger = logger
			if autosave {
				srvConfig.Store = store
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Info("serving state", "source", loc, "keys", state.Len(), "shallow", state.IsShallow())
			return server.New(state, srvConfig).Run(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from config)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from config)")
	cmd.Flags().BoolVar(&autosave, "autosave", false, "Save the document back to its source after every write")

	return cmd
}
