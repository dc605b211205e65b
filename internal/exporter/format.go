package exporter

import (
	"fmt"
	"strconv"
)

// formatFloat renders a fraction with four decimal places
func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 4, 64)
}

// formatOptionalFloat renders nil as an empty cell
func formatOptionalFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return formatFloat(*f)
}

func formatBool(b bool) string {
	if b {
		return "true"
	}
	return "false"
}

// formatValue renders a record value; missing values become empty cells
func formatValue(v interface{}) string {
	switch tv := v.(type) {
	case nil:
		return ""
	case string:
		return tv
	case bool:
		return formatBool(tv)
	case int64:
		return strconv.FormatInt(tv, 10)
	case float64:
		return strconv.FormatFloat(tv, 'f', -1, 64)
	}
	return fmt.Sprint(v)
}
