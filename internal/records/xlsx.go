package records

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "examstats/internal/errors"
)

func (l *SourceLoader) loadXLSX(path string) (*Store, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open %s", path), err).
			WithContext("source", path)
	}
	defer f.Close()

	sheet := l.opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, apperrors.NewParsingError(fmt.Sprintf("%s has no worksheets", path), nil).
				WithContext("source", path)
		}
		sheet = sheets[0]
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read sheet %q of %s", sheet, path), err).
			WithContext("source", path).
			WithContext("sheet", sheet)
	}

	return gridToStore(path, rows, l.opts.IndexColumn)
}

// gridToStore treats the first non-blank row as the header. GetRows trims
// trailing empty cells, so short rows are padded to the header width.
func gridToStore(source string, rows [][]string, indexColumn bool) (*Store, error) {
	var header []string
	var cells [][]string
	for i, row := range rows {
		if isBlankRow(row) {
			continue
		}
		if header == nil {
			header = row
			continue
		}
		if len(row) > len(header) {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("row %d of %s has %d cells, header has %d", i+1, source, len(row), len(header)), nil).
				WithContext("source", source)
		}
		padded := make([]string, len(header))
		copy(padded, row)
		cells = append(cells, padded)
	}

	if header == nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("%s has no header row", source), nil).
			WithContext("source", source)
	}

	fields, body, labels := splitIndex(headerNames(header), cells, indexColumn)
	return New(source, fields, typedRecords(fields, body), labels)
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
