package sim

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// JSONStdoutWriter prints every snapshot as one JSON line.
type JSONStdoutWriter struct {
	out io.Writer
}

// NewJSONStdoutWriter creates a JSONStdoutWriter writing to os.Stdout.
func NewJSONStdoutWriter() *JSONStdoutWriter {
	return &JSONStdoutWriter{out: os.Stdout}
}

// WriteSnapshot outputs s in JSON format.
func (w *JSONStdoutWriter) WriteSnapshot(s Snapshot) error {
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w.out, string(data))
	return err
}
