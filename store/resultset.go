package store

import (
	"fmt"
	"strconv"
	"time"
)

// Row maps a column name to its value. NULL is nil; text columns are strings.
type Row map[string]any

// ResultSet is the tabular result of one query. Columns carries the projection order,
// which a Row alone cannot.
type ResultSet struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// Len returns the number of rows.
func (rs *ResultSet) Len() int {
	if rs == nil {
		return 0
	}
	return len(rs.Rows)
}

// Empty reports whether the query returned no rows.
func (rs *ResultSet) Empty() bool {
	return rs.Len() == 0
}

// Strings returns the text of one column for every row, in row order.
func (rs *ResultSet) Strings(column string) []string {
	out := make([]string, 0, rs.Len())
	if rs == nil {
		return out
	}
	for _, row := range rs.Rows {
		out = append(out, FormatValue(row[column]))
	}
	return out
}

// Cells returns row i formatted for display, in column order.
func (rs *ResultSet) Cells(i int) []string {
	row := rs.Rows[i]
	cells := make([]string, len(rs.Columns))
	for c, col := range rs.Columns {
		cells[c] = FormatValue(row[col])
	}
	return cells
}

// FormatValue renders a scanned value as table text.
func FormatValue(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case []byte:
		return string(val)
	case int64:
		return strconv.FormatInt(val, 10)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprint(val)
	}
}
