package main

import (
	"craneguard/internal/config"
	"craneguard/internal/sim"
)

// sinkOptions selects the snapshot sinks for a run.
type sinkOptions struct {
	printOnly bool
	tui       bool
	logFile   string
	endpoint  string
	database  string
}

// newSinks sets up snapshot sinks based on flags and env vars. It returns
// the sinks and a cleanup function that closes any resources.
func newSinks(cfg *config.SiteConfig, opts sinkOptions) ([]sim.SnapshotSink, func(), error) {
	var sinks []sim.SnapshotSink
	var closers []func() error
	cleanup := func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}

	useDB := !opts.printOnly && opts.endpoint != ""
	switch {
	case opts.tui:
		tw := sim.NewTUIWriter(cfg)
		sinks = append(sinks, tw)
		closers = append(closers, tw.Close)
	case !useDB:
		sinks = append(sinks, sim.NewStdoutWriter(cfg))
	}
	if useDB {
		gw, err := sim.NewGreptimeDBWriter(opts.endpoint, opts.database)
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		sinks = append(sinks, gw)
	}

	if opts.logFile != "" {
		fw, err := sim.NewFileWriter(opts.logFile, opts.logFile+".transitions", opts.logFile+".state")
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		sinks = append(sinks, fw)
		closers = append(closers, fw.Close)
	}
	return sinks, cleanup, nil
}

// tuiWriter returns the TUI sink if one was configured.
func tuiWriter(sinks []sim.SnapshotSink) *sim.TUIWriter {
	for _, s := range sinks {
		if tw, ok := s.(*sim.TUIWriter); ok {
			return tw
		}
	}
	return nil
}
