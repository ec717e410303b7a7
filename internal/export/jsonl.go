// Package export appends recorded expenses to a local JSONL archive file.
package export

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"notaspese/internal/core"
)

// JSONLWriter appends one JSON object per line to a local file. Appends are
// serialized and fsynced so an exported record survives a crash.
type JSONLWriter struct {
	mu   sync.Mutex
	path string
}

func NewJSONLWriter(path string) (*JSONLWriter, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create export directory: %w", err)
	}
	return &JSONLWriter{path: path}, nil
}

func (w *JSONLWriter) Append(_ context.Context, e core.Expense) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	line, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal expense %s: %w", e.ID, err)
	}

	f, err := os.OpenFile(w.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open export file: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("append export line: %w", err)
	}
	if err := f.Sync(); err != nil {
		return fmt.Errorf("sync export file: %w", err)
	}
	return nil
}
