package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/i474232898/environmental-data-aggregation/internal/climate"
)

// Encode renders the report as indented JSON without HTML escaping.
func Encode(report *climate.Report) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// FileWriter writes each report to a single JSON file, replacing the previous one.
type FileWriter struct {
	path string
}

func NewFileWriter(path string) *FileWriter {
	return &FileWriter{path: path}
}

func (w *FileWriter) Path() string {
	return w.path
}

// SaveReport writes to a temporary file first and renames it over the target,
// so readers never observe a partially written report.
func (w *FileWriter) SaveReport(_ context.Context, report *climate.Report) error {
	data, err := Encode(report)
	if err != nil {
		return fmt.Errorf("file: encode report: %w", err)
	}

	dir := filepath.Dir(w.path)
	tmp, err := os.CreateTemp(dir, filepath.Base(w.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("file: create temp: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("file: write: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("file: close: %w", err)
	}
	if err := os.Rename(tmp.Name(), w.path); err != nil {
		return fmt.Errorf("file: rename: %w", err)
	}
	return nil
}
