package table

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"tilemetry/domain/core"
)

// Column describes one column of a tabular result: a stable identifier plus
// a human-readable label. Identity lives in ID; Label is display-only.
type Column struct {
	ID    core.ColumnID `json:"id"`
	Label string        `json:"label"`
}

// TabularResult is a row-oriented result set as handed over by the host.
// Rows are ordered sequences of scalar cells, one per declared column, in
// declared column order.
type TabularResult struct {
	Columns []Column `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// IsEmpty reports whether the result carries no usable rows.
func (r *TabularResult) IsEmpty() bool {
	return r == nil || len(r.Rows) == 0
}

// ColumnIndex resolves a column identifier to its row position. Lookup is by
// identity, never by the order the mapping declared the column in.
func (r *TabularResult) ColumnIndex(id core.ColumnID) (int, bool) {
	for i, col := range r.Columns {
		if col.ID == id {
			return i, true
		}
	}
	return -1, false
}

// Validate checks the structural invariant that every row has exactly one
// cell per declared column.
func (r *TabularResult) Validate() error {
	if r.IsEmpty() {
		return core.NewMissingDataError("result has no rows")
	}
	if len(r.Columns) == 0 {
		return core.NewMissingDataError("result declares no columns")
	}
	for i, row := range r.Rows {
		if len(row) != len(r.Columns) {
			return core.NewMissingDataError(
				fmt.Sprintf("row %d has %d cells, expected %d", i, len(row), len(r.Columns)))
		}
	}
	return nil
}

// RoleMapping assigns logical roles to column identifiers: exactly one
// category column, a required current-value measure, and an optional
// prior-year measure. When Prior is unset every record's prior value falls
// back to its current value, yielding zero change.
type RoleMapping struct {
	Category core.ColumnID `json:"category"`
	Current  core.ColumnID `json:"current"`
	Prior    core.ColumnID `json:"prior,omitempty"`
}

// HasPrior reports whether a prior-year measure is mapped.
func (m RoleMapping) HasPrior() bool {
	return !core.ID(m.Prior).IsEmpty()
}

// Validate checks the one-category/at-least-one-measure shape.
func (m RoleMapping) Validate() error {
	if core.ID(m.Category).IsEmpty() {
		return core.NewInvalidMappingError("no category column assigned")
	}
	if core.ID(m.Current).IsEmpty() {
		return core.NewInvalidMappingError("no current-value measure assigned")
	}
	return nil
}

// CellString renders a scalar cell as its display string.
func CellString(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case fmt.Stringer:
		return t.String()
	default:
		return fmt.Sprintf("%v", t)
	}
}

// CellFloat coerces a scalar cell to a float64. Non-numeric and absent cells
// coerce to 0 with ok=false so callers can apply their own fallback.
func CellFloat(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		return f, err == nil
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
