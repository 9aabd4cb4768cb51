package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/okian/bhoomi/internal/domain/model"
	"github.com/rotisserie/eris"
)

// ReadCSV parses a CSV stream whose first record is the header.
func ReadCSV(r io.Reader) ([]model.Observation, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // field counts are checked against the header layout
	reader.TrimLeadingSpace = true

	var rows [][]string
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrMalformed, eris.Wrap(err, "csv: read row"))
		}
		rows = append(rows, record)
	}
	return parseRows(rows, false)
}

// WriteCSV writes obs with the canonical header.
func WriteCSV(w io.Writer, obs []model.Observation) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(Header); err != nil {
		return eris.Wrap(err, "csv: write header")
	}
	for _, o := range obs {
		if err := writer.Write(formatRow(o)); err != nil {
			return eris.Wrap(err, "csv: write row")
		}
	}
	writer.Flush()
	return eris.Wrap(writer.Error(), "csv: flush")
}
