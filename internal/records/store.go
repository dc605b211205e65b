package records

import (
	"fmt"
	"sort"

	apperrors "examstats/internal/errors"
	"examstats/pkg/contracts/domain"
)

// Store is an ordered, immutable set of records sharing one field set.
// Rows are addressed by their zero-based position.
type Store struct {
	source   string
	fields   []string
	fieldSet map[string]struct{}
	rows     []domain.Record
	labels   []string
}

// Row is a store record together with its position and label
type Row struct {
	Index  int
	Label  string
	Record domain.Record
}

// Predicate selects rows in Filter
type Predicate func(domain.Record) bool

// New builds a store over rows. labels is either nil or holds one label per row.
func New(source string, fields []string, rows []domain.Record, labels []string) (*Store, error) {
	fieldSet := make(map[string]struct{}, len(fields))
	for _, f := range fields {
		if _, dup := fieldSet[f]; dup {
			return nil, apperrors.NewAppError(apperrors.ErrTypeSchema,
				fmt.Sprintf("%s has duplicate field %q", source, f), nil).
				WithContext("source", source)
		}
		fieldSet[f] = struct{}{}
	}

	if labels != nil && len(labels) != len(rows) {
		return nil, apperrors.NewAppError(apperrors.ErrTypeSchema,
			fmt.Sprintf("%s has %d labels for %d rows", source, len(labels), len(rows)), nil).
			WithContext("source", source)
	}

	copied := make([]domain.Record, len(rows))
	for i, row := range rows {
		if len(row) != len(fieldSet) {
			return nil, rowSchemaError(source, i)
		}
		for name := range row {
			if _, ok := fieldSet[name]; !ok {
				return nil, rowSchemaError(source, i)
			}
		}
		copied[i] = row.Clone()
	}

	return &Store{
		source:   source,
		fields:   append([]string(nil), fields...),
		fieldSet: fieldSet,
		rows:     copied,
		labels:   append([]string(nil), labels...),
	}, nil
}

func rowSchemaError(source string, index int) error {
	return apperrors.NewAppError(apperrors.ErrTypeSchema,
		fmt.Sprintf("row %d of %s does not match the header fields", index, source), nil).
		WithContext("source", source).
		WithContext("index", index)
}

// Source returns the location the store was loaded from
func (s *Store) Source() string { return s.source }

// Len returns the number of rows
func (s *Store) Len() int { return len(s.rows) }

// Fields returns the field names in source order
func (s *Store) Fields() []string {
	return append([]string(nil), s.fields...)
}

// HasField reports whether every row carries the named field
func (s *Store) HasField(name string) bool {
	_, ok := s.fieldSet[name]
	return ok
}

// RequireFields returns a schema error naming every missing field
func (s *Store) RequireFields(names ...string) error {
	var missing []string
	for _, name := range names {
		if !s.HasField(name) {
			missing = append(missing, name)
		}
	}
	if len(missing) == 0 {
		return nil
	}
	sort.Strings(missing)
	return apperrors.NewSchemaError(s.source, missing)
}

// Get returns a copy of the row at index
func (s *Store) Get(index int) (domain.Record, error) {
	if index < 0 || index >= len(s.rows) {
		return nil, apperrors.NewRowNotFoundError(s.source, index, len(s.rows))
	}
	return s.rows[index].Clone(), nil
}

// Label returns the index-column label of a row, or "" if the source had none
func (s *Store) Label(index int) string {
	if index < 0 || index >= len(s.labels) {
		return ""
	}
	return s.labels[index]
}

// Filter returns copies of all rows satisfying pred, in store order
func (s *Store) Filter(pred Predicate) []Row {
	var out []Row
	for i, row := range s.rows {
		if pred(row) {
			out = append(out, Row{Index: i, Label: s.Label(i), Record: row.Clone()})
		}
	}
	return out
}

// FieldEquals matches rows whose field equals value under domain.ValuesEqual.
// A missing value matches nothing.
func FieldEquals(field string, value interface{}) Predicate {
	return func(r domain.Record) bool {
		v, ok := r[field]
		return ok && domain.ValuesEqual(v, value)
	}
}

// And matches rows satisfying every predicate
func And(preds ...Predicate) Predicate {
	return func(r domain.Record) bool {
		for _, p := range preds {
			if !p(r) {
				return false
			}
		}
		return true
	}
}
