package testutil

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"
	_ "modernc.org/sqlite"
)

// QuestionRows is a small question table with a leading index column.
// Exams A and B both have a question 1 so cross-exam linking shows up.
var QuestionRows = [][]string{
	{"", "exam", "q_number", "topic"},
	{"0", "A", "1", "alkenes"},
	{"1", "A", "2", "SN2"},
	{"2", "B", "1", "aromaticity"},
	{"3", "B", "2", "acids"},
}

// ResponseRows holds the responses to QuestionRows
var ResponseRows = [][]string{
	{"", "exam", "q_number", "drawing", "redrawing", "correct"},
	{"0", "A", "1", "True", "False", "True"},
	{"1", "A", "1", "False", "False", "False"},
	{"2", "A", "2", "True", "True", "True"},
	{"3", "B", "1", "True", "False", "False"},
	{"4", "B", "2", "False", "True", "True"},
	{"5", "B", "2", "True", "True", "True"},
}

// ExamFixtures writes tabular source files into a per-test directory
type ExamFixtures struct {
	Dir string
	t   *testing.T
}

// NewExamFixtures creates fixtures rooted at t.TempDir()
func NewExamFixtures(t *testing.T) *ExamFixtures {
	t.Helper()
	return &ExamFixtures{Dir: t.TempDir(), t: t}
}

// Path returns the absolute path of a fixture file
func (f *ExamFixtures) Path(name string) string {
	return filepath.Join(f.Dir, name)
}

// WriteCSV writes rows as a CSV file and returns its path
func (f *ExamFixtures) WriteCSV(name string, rows [][]string) string {
	f.t.Helper()

	path := f.Path(name)
	file, err := os.Create(path)
	if err != nil {
		f.t.Fatalf("create %s: %v", path, err)
	}
	defer file.Close()

	w := csv.NewWriter(file)
	if err := w.WriteAll(rows); err != nil {
		f.t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteText writes raw content and returns its path
func (f *ExamFixtures) WriteText(name, content string) string {
	f.t.Helper()

	path := f.Path(name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		f.t.Fatalf("write %s: %v", path, err)
	}
	return path
}

// WriteXLSX writes rows into the named sheet of a new workbook
func (f *ExamFixtures) WriteXLSX(name, sheet string, rows [][]interface{}) string {
	f.t.Helper()

	wb := excelize.NewFile()
	defer wb.Close()
	if sheet != "" {
		if err := wb.SetSheetName(wb.GetSheetName(0), sheet); err != nil {
			f.t.Fatalf("rename sheet: %v", err)
		}
	} else {
		sheet = wb.GetSheetName(0)
	}

	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			f.t.Fatalf("cell name: %v", err)
		}
		if err := wb.SetSheetRow(sheet, cell, &row); err != nil {
			f.t.Fatalf("write row %d: %v", r, err)
		}
	}

	path := f.Path(name)
	if err := wb.SaveAs(path); err != nil {
		f.t.Fatalf("save %s: %v", path, err)
	}
	return path
}

// WriteSQLite creates a database with one table and returns its sqlite:// source location
func (f *ExamFixtures) WriteSQLite(name, table string, columns []string, rows [][]interface{}) string {
	f.t.Helper()

	path := f.Path(name)
	db, err := sql.Open("sqlite", path)
	if err != nil {
		f.t.Fatalf("open %s: %v", path, err)
	}
	defer db.Close()

	ctx := context.Background()
	ddl := fmt.Sprintf(`CREATE TABLE "%s" (%s)`, table, strings.Join(columns, ", "))
	if _, err := db.ExecContext(ctx, ddl); err != nil {
		f.t.Fatalf("create table: %v", err)
	}

	names := make([]string, len(columns))
	marks := make([]string, len(columns))
	for i, col := range columns {
		names[i] = strings.Fields(col)[0]
		marks[i] = "?"
	}
	insert := fmt.Sprintf(`INSERT INTO "%s" (%s) VALUES (%s)`,
		table, strings.Join(names, ", "), strings.Join(marks, ", "))
	for _, row := range rows {
		if _, err := db.ExecContext(ctx, insert, row...); err != nil {
			f.t.Fatalf("insert row: %v", err)
		}
	}

	return "sqlite://" + path + "?table=" + table
}

// StandardSources writes QuestionRows and ResponseRows and returns their paths
func (f *ExamFixtures) StandardSources() (questions, responses string) {
	return f.WriteCSV("question_config.csv", QuestionRows), f.WriteCSV("response_config.csv", ResponseRows)
}
