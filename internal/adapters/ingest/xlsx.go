package ingest

import (
	"fmt"
	"io"
	"strings"

	"github.com/okian/bhoomi/internal/domain/model"
	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"
)

// SheetName is the sheet written by WriteXLSX. Readers use the first sheet
// whatever its name.
const SheetName = "observations"

// ReadXLSX parses the first sheet of the workbook at path.
func ReadXLSX(path string) ([]model.Observation, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, eris.Wrap(err, "xlsx: open file"))
	}
	return readWorkbook(f)
}

// ReadXLSXBytes parses the first sheet of an in-memory workbook.
func ReadXLSXBytes(data []byte) ([]model.Observation, error) {
	f, err := xlsx.OpenBinary(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, eris.Wrap(err, "xlsx: open binary"))
	}
	return readWorkbook(f)
}

func readWorkbook(f *xlsx.File) ([]model.Observation, error) {
	if len(f.Sheets) == 0 {
		return nil, fmt.Errorf("%w: xlsx: workbook has no sheets", ErrMalformed)
	}
	sheet := f.Sheets[0]

	rows := make([][]string, 0, len(sheet.Rows))
	for _, row := range sheet.Rows {
		if row == nil {
			rows = append(rows, nil)
			continue
		}
		cells := make([]string, len(row.Cells))
		for j, cell := range row.Cells {
			cells[j] = cell.String()
		}
		rows = append(rows, trimTrailingEmpty(cells))
	}
	return parseRows(rows, true)
}

// WriteXLSX writes obs to a single-sheet workbook with the canonical header.
func WriteXLSX(w io.Writer, obs []model.Observation) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet(SheetName)
	if err != nil {
		return eris.Wrap(err, "xlsx: add sheet")
	}

	header := sheet.AddRow()
	for _, name := range Header {
		header.AddCell().SetString(name)
	}
	for _, o := range obs {
		row := sheet.AddRow()
		row.AddCell().SetString(o.Timestamp)
		row.AddCell().SetFloat(o.Vibration)
		row.AddCell().SetFloat(o.SlopeAngle)
		row.AddCell().SetString(string(o.Weather))
		row.AddCell().SetInt(o.Risk)
	}

	return eris.Wrap(f.Write(w), "xlsx: write workbook")
}

// trimTrailingEmpty drops formatted-but-empty cells at the end of a row.
func trimTrailingEmpty(cells []string) []string {
	n := len(cells)
	for n > 0 && strings.TrimSpace(cells[n-1]) == "" {
		n--
	}
	return cells[:n]
}
