// Package shared holds code used across examstats packages that belongs to
// no single layer.
//
// The testutil subpackage provides a buffered slog handler for asserting on
// log output and fixture writers that produce question and response sources
// as CSV, XLSX and SQLite files under t.TempDir().
package shared
