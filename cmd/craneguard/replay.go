package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"craneguard/internal/sim"
)

var (
	replayInput     string
	replaySpeed     float64
	replayPrintOnly bool
)

var replayCmd = &cobra.Command{
	Use:   "replay",
	Short: "Replay a snapshot log file",
	Long:  "replay feeds snapshots recorded with --log-file back into GreptimeDB or STDOUT.",
	RunE: func(cmd *cobra.Command, args []string) error {
		sinks, cleanup, err := newSinks(nil, sinkOptions{
			printOnly: replayPrintOnly,
			endpoint:  viper.GetString("greptimedb_endpoint"),
			database:  viper.GetString("greptimedb_database"),
		})
		if err != nil {
			return err
		}
		defer cleanup()
		return sim.ReplayLogFile(replayInput, sim.NewMultiSink(sinks...), replaySpeed)
	},
}

func init() {
	replayCmd.Flags().StringVar(&replayInput, "input", "", "Path to snapshot log file")
	replayCmd.Flags().Float64Var(&replaySpeed, "speed", 1.0, "Playback speed multiplier")
	replayCmd.Flags().BoolVar(&replayPrintOnly, "print-only", false, "Print snapshots to STDOUT instead of writing to GreptimeDB")
	replayCmd.MarkFlagRequired("input")
}
