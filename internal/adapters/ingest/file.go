package ingest

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/okian/bhoomi/internal/domain/model"
	"github.com/rotisserie/eris"
)

// Format identifies an observation file encoding.
type Format string

// Supported formats.
const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// FormatOf infers the format from a file name extension.
func FormatOf(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, filepath.Base(name))
	}
}

// LoadFile reads all observations from path, picking the parser by extension.
func LoadFile(path string) ([]model.Observation, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}

	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrSourceNotFound, path)
		}
		return nil, eris.Wrapf(err, "stat %s", path)
	}

	switch format {
	case FormatXLSX:
		return ReadXLSX(path)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, eris.Wrapf(err, "open %s", path)
		}
		defer f.Close()
		return ReadCSV(f)
	}
}

// Decode parses an uploaded file body. name is only used to pick the format.
func Decode(name string, data []byte) ([]model.Observation, error) {
	format, err := FormatOf(name)
	if err != nil {
		return nil, err
	}
	if format == FormatXLSX {
		return ReadXLSXBytes(data)
	}
	return ReadCSV(bytes.NewReader(data))
}
