package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"craneguard/internal/logging"
)

const defaultSiteID = "site-01"

var rootCmd = &cobra.Command{
	Use:   "craneguard",
	Short: "Tower crane collision prediction toolkit",
	Long:  "craneguard simulates tower cranes on a construction site and predicts boom collisions before they happen.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		logger, err := newLogger(os.Stderr)
		if err != nil {
			return err
		}
		slog.SetDefault(logger)
		cmd.SetContext(logging.NewContext(cmd.Context(), logger))
		return nil
	},
	SilenceUsage: true,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds a logger at the configured level writing to w.
func newLogger(w io.Writer) (*slog.Logger, error) {
	level, err := logging.ParseLevel(viper.GetString("log_level"))
	if err != nil {
		return nil, err
	}
	return logging.New(w, level), nil
}

// bindFlag ties a viper key to a flag of cmd and an environment variable.
func bindFlag(key string, cmd *cobra.Command, flag, env string) {
	f := cmd.Flags().Lookup(flag)
	if f == nil {
		f = cmd.PersistentFlags().Lookup(flag)
	}
	if err := viper.BindPFlag(key, f); err != nil {
		panic(err)
	}
	if err := viper.BindEnv(key, env); err != nil {
		panic(err)
	}
}

func init() {
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	pf := rootCmd.PersistentFlags()
	pf.String("log-level", "info", "Log level (debug, info, warn, error)")
	pf.String("site-id", "", "Site identifier (defaults to the config site_id)")
	pf.String("greptime-endpoint", "", "GreptimeDB gRPC endpoint host[:port]; empty prints to STDOUT")
	pf.String("greptime-database", "public", "GreptimeDB database")
	bindFlag("log_level", rootCmd, "log-level", "LOG_LEVEL")
	bindFlag("site_id", rootCmd, "site-id", "SITE_ID")
	bindFlag("greptimedb_endpoint", rootCmd, "greptime-endpoint", "GREPTIMEDB_ENDPOINT")
	bindFlag("greptimedb_database", rootCmd, "greptime-database", "GREPTIMEDB_DATABASE")

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(replayCmd)
	rootCmd.AddCommand(scenariosCmd)
	rootCmd.AddCommand(validateCmd)
}
