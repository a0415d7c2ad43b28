// Package export writes feature tables as CSV or XLSX and reads CSV back.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/wonny/seasonality/internal/contracts"
)

// Format is an export file format
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// BaseName is the file name every export is written under, minus extension
const BaseName = "Seasonality"

// ParseFormat converts a flag value into a Format
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	default:
		return "", contracts.ValidationError{Field: "format", Message: fmt.Sprintf("unknown format %q (valid: csv, xlsx)", s)}
	}
}

// FileName returns the default file name for f, e.g. Seasonality.csv
func (f Format) FileName() string {
	return BaseName + "." + string(f)
}

// ContentType returns the MIME type of f
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Write renders ft to w in format f
func Write(w io.Writer, f Format, ft *contracts.FeatureTable) error {
	switch f {
	case FormatCSV, "":
		return WriteCSV(w, ft)
	case FormatXLSX:
		return WriteXLSX(w, ft)
	default:
		return fmt.Errorf("unsupported export format %q", f)
	}
}

// WriteFile writes ft into dir under the default file name and returns its path
func WriteFile(dir string, f Format, ft *contracts.FeatureTable) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}

	path := filepath.Join(dir, f.FileName())
	tmp, err := os.CreateTemp(dir, "."+BaseName+"-*")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, f, ft); err != nil {
		tmp.Close()
		return "", err
	}
	if err := tmp.Close(); err != nil {
		return "", fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return "", fmt.Errorf("move export into place: %w", err)
	}
	return path, nil
}
