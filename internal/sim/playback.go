package sim

import (
	"encoding/json"
	"errors"
	"io"
	"os"
	"time"
)

// ReplayLog replays JSONL snapshots from r to sink, pacing them by their
// simulation timestamps. A speed >0 accelerates playback. If speed <= 0,
// no artificial delay is inserted.
func ReplayLog(r io.Reader, sink SnapshotSink, speed float64) error {
	dec := json.NewDecoder(r)
	var prev time.Time
	for {
		var snap Snapshot
		if err := dec.Decode(&snap); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		ts := snap.Simulation.Timestamp
		if !prev.IsZero() && speed > 0 {
			diff := ts.Sub(prev)
			if speed != 1 {
				diff = time.Duration(float64(diff) / speed)
			}
			if diff > 0 {
				time.Sleep(diff)
			}
		}
		if err := sink.WriteSnapshot(snap); err != nil {
			return err
		}
		prev = ts
	}
}

// ReplayLogFile opens a file and replays its snapshots.
func ReplayLogFile(path string, sink SnapshotSink, speed float64) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ReplayLog(f, sink, speed)
}
