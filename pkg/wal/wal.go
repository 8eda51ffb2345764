// Package wal implements a minimal JSON write-ahead log. Records are
// appended and fsynced before the state they describe is mutated in memory,
// so a restart can rebuild that state by replaying the file front to back.
package wal

import (
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"os"
	"sync"
)

// rw-r--r--
const fileMode fs.FileMode = 0o644

type WAL struct {
	file *os.File
	mu   sync.Mutex
}

// Open opens or creates the log at path in append mode.
func Open(path string) (*WAL, error) {
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_RDWR, fileMode)
	if err != nil {
		return nil, err
	}
	return &WAL{file: file}, nil
}

// Write appends one record and forces it to disk before returning.
func (w *WAL) Write(v any) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := json.NewEncoder(w.file).Encode(v); err != nil {
		return err
	}
	return w.file.Sync()
}

// ReadAll replays every record from the start of the file. The callback
// receives the raw JSON of one record at a time, so the whole log never has
// to sit in memory at once.
func (w *WAL) ReadAll(callback func(raw []byte) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if _, err := w.file.Seek(0, io.SeekStart); err != nil {
		return err
	}

	dec := json.NewDecoder(w.file)
	for {
		var raw json.RawMessage
		if err := dec.Decode(&raw); err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return err
		}
		if err := callback(raw); err != nil {
			return err
		}
	}
	return nil
}

// Close closes the underlying file.
func (w *WAL) Close() error {
	return w.file.Close()
}
