package sim

import (
	"encoding/json"
	"os"
)

// FileWriter writes snapshots, transitions and site status rows to JSONL
// files.
type FileWriter struct {
	snapFile  *os.File
	transFile *os.File
	stateFile *os.File
	snapEnc   *json.Encoder
	transEnc  *json.Encoder
	stateEnc  *json.Encoder
}

// NewFileWriter creates a FileWriter. transitionsPath or statePath may be
// empty to skip those logs.
func NewFileWriter(snapshotPath, transitionsPath, statePath string) (*FileWriter, error) {
	sf, err := os.Create(snapshotPath)
	if err != nil {
		return nil, err
	}
	fw := &FileWriter{snapFile: sf, snapEnc: json.NewEncoder(sf)}
	if transitionsPath != "" {
		tf, err := os.Create(transitionsPath)
		if err != nil {
			fw.Close()
			return nil, err
		}
		fw.transFile = tf
		fw.transEnc = json.NewEncoder(tf)
	}
	if statePath != "" {
		stf, err := os.Create(statePath)
		if err != nil {
			fw.Close()
			return nil, err
		}
		fw.stateFile = stf
		fw.stateEnc = json.NewEncoder(stf)
	}
	return fw, nil
}

// WriteSnapshot logs s and, if enabled, its transitions and status row.
func (f *FileWriter) WriteSnapshot(s Snapshot) error {
	if err := f.snapEnc.Encode(s); err != nil {
		return err
	}
	if f.transEnc != nil {
		for _, e := range s.Transitions {
			if err := f.transEnc.Encode(e); err != nil {
				return err
			}
		}
	}
	if f.stateEnc != nil {
		return f.stateEnc.Encode(SiteStatusRow(s))
	}
	return nil
}

// Close closes any underlying files.
func (f *FileWriter) Close() error {
	var err error
	for _, file := range []*os.File{f.snapFile, f.transFile, f.stateFile} {
		if file == nil {
			continue
		}
		if e := file.Close(); e != nil && err == nil {
			err = e
		}
	}
	return err
}
