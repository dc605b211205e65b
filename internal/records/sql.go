package records

import (
	"context"
	"database/sql"
	"fmt"
	"net/url"
	"regexp"
	"strings"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib" // driver: pgx
	_ "modernc.org/sqlite"             // driver: sqlite

	apperrors "examstats/internal/errors"
	"examstats/pkg/contracts/domain"
)

var identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// sqlSource is a parsed sqlite:// or postgres:// location
type sqlSource struct {
	driver  string
	dsn     string
	table   string
	orderBy string
}

// parseSQLSource splits the table selection out of a database location.
//
//	sqlite://data/exam.db?table=responses&order_by=id
//	postgres://user:pw@host:5432/exams?sslmode=disable&table=responses
func parseSQLSource(kind, source string) (*sqlSource, error) {
	src := &sqlSource{}
	invalid := func(msg string, cause error) error {
		return apperrors.NewParsingError(msg, cause).WithContext("source", source)
	}

	var query url.Values
	switch kind {
	case "sqlite":
		src.driver = "sqlite"
		rest := strings.TrimPrefix(source, "sqlite://")
		path, rawQuery, _ := strings.Cut(rest, "?")
		q, err := url.ParseQuery(rawQuery)
		if err != nil {
			return nil, invalid(fmt.Sprintf("invalid source %q", source), err)
		}
		query = q
		if path != "" {
			src.dsn = "file:" + path + "?mode=ro"
		}
	case "postgres":
		src.driver = "pgx"
		u, err := url.Parse(source)
		if err != nil {
			return nil, invalid(fmt.Sprintf("invalid source %q", source), err)
		}
		query = u.Query()
		rest := u.Query()
		rest.Del("table")
		rest.Del("order_by")
		u.RawQuery = rest.Encode()
		src.dsn = u.String()
	default:
		return nil, invalid(fmt.Sprintf("unsupported database source %q", source), nil)
	}

	src.table = query.Get("table")
	src.orderBy = query.Get("order_by")

	if src.dsn == "" {
		return nil, invalid(fmt.Sprintf("source %q has no database", source), nil)
	}
	if !identifierPattern.MatchString(src.table) {
		return nil, invalid(fmt.Sprintf("source %q has invalid table %q", source, src.table), nil)
	}
	if src.orderBy != "" && !identifierPattern.MatchString(src.orderBy) {
		return nil, invalid(fmt.Sprintf("source %q has invalid order_by %q", source, src.orderBy), nil)
	}
	return src, nil
}

func (s *sqlSource) query() string {
	q := fmt.Sprintf(`SELECT * FROM "%s"`, s.table)
	if s.orderBy != "" {
		q += fmt.Sprintf(` ORDER BY "%s"`, s.orderBy)
	}
	return q
}

func (l *SourceLoader) loadSQL(ctx context.Context, kind, source string) (*Store, error) {
	src, err := parseSQLSource(kind, source)
	if err != nil {
		return nil, err
	}

	db, err := sql.Open(src.driver, src.dsn)
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open %s", source), err).
			WithContext("source", source)
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, src.query())
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to query %s", source), err).
			WithContext("source", source)
	}
	defer rows.Close()

	fields, err := rows.Columns()
	if err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to read columns of %s", source), err).
			WithContext("source", source)
	}

	var records []domain.Record
	for rows.Next() {
		values := make([]interface{}, len(fields))
		ptrs := make([]interface{}, len(fields))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return nil, apperrors.NewStorageError(fmt.Sprintf("failed to scan %s", source), err).
				WithContext("source", source).
				WithContext("row", len(records))
		}

		rec := make(domain.Record, len(fields))
		for i, name := range fields {
			rec[name] = normalizeSQLValue(values[i])
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to read %s", source), err).
			WithContext("source", source)
	}

	return New(source, fields, records, nil)
}

// normalizeSQLValue maps driver values onto the record value types
func normalizeSQLValue(v interface{}) interface{} {
	switch tv := v.(type) {
	case nil, bool, int64, float64, string:
		return tv
	case []byte:
		return string(tv)
	case int:
		return int64(tv)
	case int32:
		return int64(tv)
	case int16:
		return int64(tv)
	case float32:
		return float64(tv)
	case time.Time:
		return tv.Format(time.RFC3339)
	}
	return fmt.Sprint(v)
}
