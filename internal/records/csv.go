package records

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	apperrors "examstats/internal/errors"
)

func (l *SourceLoader) loadCSV(path string) (*Store, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open %s", path), err).
			WithContext("source", path)
	}
	defer file.Close()

	return readCSV(path, file, l.opts.IndexColumn)
}

// readCSV parses a header row followed by data rows. Short rows are
// padded with missing cells; rows wider than the header are rejected.
func readCSV(source string, r io.Reader, indexColumn bool) (*Store, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, apperrors.NewParsingError(fmt.Sprintf("%s has no header row", source), nil).
			WithContext("source", source)
	}
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read header of %s", source), err).
			WithContext("source", source)
	}
	if len(header) > 0 {
		header[0] = trimBOM(header[0])
	}

	var cells [][]string
	for {
		row, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read %s", source), err).
				WithContext("source", source).
				WithContext("row", len(cells))
		}
		if len(row) > len(header) {
			return nil, apperrors.NewParsingError(
				fmt.Sprintf("row %d of %s has %d cells, header has %d", len(cells)+1, source, len(row), len(header)), nil).
				WithContext("source", source).
				WithContext("row", len(cells))
		}
		if len(row) < len(header) {
			padded := make([]string, len(header))
			copy(padded, row)
			row = padded
		}
		cells = append(cells, row)
	}

	fields, body, labels := splitIndex(headerNames(header), cells, indexColumn)
	return New(source, fields, typedRecords(fields, body), labels)
}

func trimBOM(s string) string {
	return strings.TrimPrefix(s, "\ufeff")
}
