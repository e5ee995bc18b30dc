// Package manifest reads and writes the CSV run manifests that drive
// batch extraction. A manifest has a required "path" column and an
// optional "class_name" column; every other column is ignored.
package manifest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
)

// Column names recognized in manifest headers.
const (
	ColumnPath      = "path"
	ColumnClassName = "class_name"
)

// ErrMissingPathColumn is returned when the manifest header lacks the
// required "path" column.
var ErrMissingPathColumn = errors.New(`manifest is missing the "path" column`)

// Entry is one manifest row: a run directory and, when known, the
// target class generated for.
type Entry struct {
	Path      string
	ClassName string
}

// Read loads manifest entries from a CSV file.
func Read(path string) ([]Entry, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open manifest %s: %w", path, err)
	}
	defer f.Close()

	entries, err := ReadFrom(f)
	if err != nil {
		return nil, fmt.Errorf("read manifest %s: %w", path, err)
	}
	return entries, nil
}

// ReadFrom parses manifest entries from CSV content. Rows with a blank
// path are skipped.
func ReadFrom(r io.Reader) ([]Entry, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrMissingPathColumn
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	pathIdx, classIdx := -1, -1
	for i, name := range header {
		switch strings.TrimSpace(name) {
		case ColumnPath:
			pathIdx = i
		case ColumnClassName:
			classIdx = i
		}
	}
	if pathIdx < 0 {
		return nil, ErrMissingPathColumn
	}

	var entries []Entry
	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if pathIdx >= len(record) {
			continue
		}
		p := strings.TrimSpace(record[pathIdx])
		if p == "" {
			continue
		}
		e := Entry{Path: p}
		if classIdx >= 0 && classIdx < len(record) {
			e.ClassName = strings.TrimSpace(record[classIdx])
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// Write stores entries as a path,class_name CSV file.
func Write(path string, entries []Entry) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create manifest %s: %w", path, err)
	}
	defer f.Close()

	if err := WriteTo(f, entries); err != nil {
		return fmt.Errorf("write manifest %s: %w", path, err)
	}
	return nil
}

// WriteTo serializes entries as CSV with a path,class_name header.
func WriteTo(w io.Writer, entries []Entry) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{ColumnPath, ColumnClassName}); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, e := range entries {
		if err := cw.Write([]string{e.Path, e.ClassName}); err != nil {
			return fmt.Errorf("write row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}
