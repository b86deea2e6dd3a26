package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.opentelemetry.io/otel"

	"craneguard/internal/admin"
	"craneguard/internal/config"
	"craneguard/internal/logging"
	"craneguard/internal/metrics"
	"craneguard/internal/scenario"
	"craneguard/internal/sim"
)

var (
	simPrintOnly     bool
	simTUI           bool
	simConfigPath    string
	simSchemaPath    string
	simScenario      string
	simScenariosFile string
	simSpeed         float64
	simLogFile       string
)

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run the real-time crane simulator",
	Long:  "simulate advances the site's cranes in real time, predicts boom collisions and exports snapshots.",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(simConfigPath, simSchemaPath)
		if err != nil {
			return err
		}
		if simScenario != "" {
			cfg.Scenario = simScenario
		}
		if cmd.Flags().Changed("speed") {
			cfg.SpeedMultiplier = simSpeed
		}

		catalog := scenario.NewCatalog()
		if simScenariosFile != "" {
			if err := catalog.LoadFile(simScenariosFile); err != nil {
				return err
			}
		}

		siteID := viper.GetString("site_id")
		if siteID == "" {
			siteID = cfg.SiteID
		}
		if siteID == "" {
			siteID = defaultSiteID
		}

		sinks, cleanup, err := newSinks(cfg, sinkOptions{
			printOnly: simPrintOnly,
			tui:       simTUI,
			logFile:   simLogFile,
			endpoint:  viper.GetString("greptimedb_endpoint"),
			database:  viper.GetString("greptimedb_database"),
		})
		if err != nil {
			return err
		}
		defer cleanup()

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		log := logging.FromContext(ctx)
		tw := tuiWriter(sinks)
		if tw != nil {
			if log, err = newLogger(tw); err != nil {
				return err
			}
			ctx = logging.NewContext(ctx, log)
		}

		prov, closeMetrics, err := newMetricsProvider()
		if err != nil {
			return err
		}
		defer closeMetrics()
		otel.SetMeterProvider(prov.MeterProvider())

		simulator := sim.NewSimulator(siteID, cfg, viper.GetDuration("tick_interval"),
			sim.WithCatalog(catalog),
			sim.WithMeter(otel.Meter("craneguard")),
		)
		for _, s := range sinks {
			simulator.Subscribe(s, sim.WithKeepOnError())
		}
		if tw != nil {
			tw.SetController(simulator)
		}

		srv := admin.NewServer(simulator, log)
		if addr := viper.GetString("admin_addr"); addr != "" {
			go func() {
				log.Info("admin server listening", "addr", addr)
				sim.NotifyAdminStatus(true, sinks...)
				if err := srv.Start(addr); err != nil {
					log.Error("admin server failed", "err", err)
				}
				sim.NotifyAdminStatus(false, sinks...)
			}()
		}

		log.Info("simulation started", "site", siteID, "run", simulator.RunID(), "cranes", len(simulator.Cranes()))
		simulator.Run(ctx)

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Warn("admin server shutdown", "err", err)
		}
		log.Info("simulation stopped", "ticks", simulator.TickCount())
		return nil
	},
}

// newMetricsProvider exports metrics to the file named by --metrics-file.
// Without one the returned provider is a noop.
func newMetricsProvider() (*metrics.Provider, func(), error) {
	path := viper.GetString("metrics_file")
	if path == "" {
		p, err := metrics.New(metrics.Config{})
		return p, func() {}, err
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	p, err := metrics.New(metrics.Config{
		Enabled:     true,
		ServiceName: "craneguard",
		Writer:      f,
		Interval:    viper.GetDuration("metrics_interval"),
	})
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return p, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		p.Shutdown(ctx)
		f.Close()
	}, nil
}

func init() {
	f := simulateCmd.Flags()
	f.BoolVar(&simPrintOnly, "print-only", false, "Print snapshots to STDOUT instead of writing to GreptimeDB")
	f.BoolVar(&simTUI, "tui", false, "Render the interactive terminal dashboard")
	f.StringVar(&simConfigPath, "config", "config/site.yaml", "Path to site configuration YAML")
	f.StringVar(&simSchemaPath, "schema", "schemas/site.cue", "Path to CUE schema file")
	f.StringVar(&simScenario, "scenario", "", "Scenario preset replacing the configured cranes")
	f.StringVar(&simScenariosFile, "scenarios-file", "", "YAML file with additional scenarios")
	f.Float64Var(&simSpeed, "speed", 1, "Simulation speed multiplier (0.1 to 10)")
	f.StringVar(&simLogFile, "log-file", "", "Path to export snapshots (JSONL)")
	f.Duration("tick", 100*time.Millisecond, "Tick interval (e.g. 100ms, 1s)")
	f.String("admin-addr", ":8080", "Admin HTTP/WebSocket listen address; empty disables it")
	bindFlag("tick_interval", simulateCmd, "tick", "TICK_INTERVAL")
	f.String("metrics-file", "", "Export OpenTelemetry metrics as JSON to this file")
	f.Duration("metrics-interval", 10*time.Second, "Metrics export interval")
	bindFlag("admin_addr", simulateCmd, "admin-addr", "ADMIN_ADDR")
	bindFlag("metrics_file", simulateCmd, "metrics-file", "METRICS_FILE")
	bindFlag("metrics_interval", simulateCmd, "metrics-interval", "METRICS_INTERVAL")
}
