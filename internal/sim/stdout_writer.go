// Writer implementation printing snapshots to STDOUT
package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"

	"craneguard/internal/config"
)

// StdoutWriter prints snapshots as colored lines on a terminal and as JSON
// otherwise.
type StdoutWriter struct {
	cfg      *config.SiteConfig
	out      io.Writer
	colorize bool
	once     sync.Once
}

// NewStdoutWriter creates a StdoutWriter writing to os.Stdout. Colors are
// used only when stdout is a terminal.
func NewStdoutWriter(cfg *config.SiteConfig) *StdoutWriter {
	return &StdoutWriter{
		cfg:      cfg,
		out:      os.Stdout,
		colorize: term.IsTerminal(int(os.Stdout.Fd())),
	}
}

// WriteSnapshot prints one snapshot.
func (w *StdoutWriter) WriteSnapshot(s Snapshot) error {
	if !w.colorize {
		data, err := json.Marshal(s)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w.out, string(data))
		return err
	}
	w.once.Do(func() { printOverview(w.out, w.cfg) })
	printSnapshotColored(w.out, s)
	return nil
}
