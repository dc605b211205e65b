// Package records loads tabular sources into immutable, positionally indexed
// record stores.
//
// # Sources
//
// A source location selects its reader:
//
//	data/questions.csv                         CSV with header row
//	data/questions.xlsx                        first (or configured) worksheet
//	sqlite://data/exam.db?table=responses      SQLite table
//	postgres://user@host/db?table=responses    Postgres table
//
// CSV and XLSX cells are typed per column the way a dataframe reader would:
// a column whose cells all parse as booleans becomes bool, then int64, then
// float64, otherwise string. Empty cells and NaN markers load as nil.
//
// # Loading
//
// SourceLoader re-reads its source on every call. CachedLoader keeps one
// store per location until it is invalidated:
//
//	loader := records.NewCachedLoader(records.NewSourceLoader(records.Options{IndexColumn: true}, logger))
//	store, err := loader.Load(ctx, "data/response_config.csv")
//	rows := store.Filter(records.And(
//	    records.FieldEquals("exam", "A"),
//	    records.FieldEquals("q_number", int64(1)),
//	))
package records
