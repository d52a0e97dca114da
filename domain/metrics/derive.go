package metrics

import (
	"sort"

	"gonum.org/v1/gonum/floats"

	"tilemetry/domain/core"
	"tilemetry/domain/table"
)

// DefaultTopN is how many categories receive full inline labels in the
// rendered visual. Categories outside the subset get a name-only label.
const DefaultTopN = 10

// Record carries the derived metrics for one category.
type Record struct {
	Name           string  `json:"name"`
	Value          float64 `json:"value"`
	PriorValue     float64 `json:"prior_value"`
	PercentChange  float64 `json:"percent_change"`
	PercentOfTotal float64 `json:"percent_of_total"`
	// Rank is the 1-based position when records are ordered descending by
	// Value, ties broken by input order.
	Rank int `json:"rank"`
	// Precomputed display strings, two decimal places.
	ChangeLabel string `json:"change_label"`
	ShareLabel  string `json:"share_label"`
}

// RecordSet is the full derivation output: one record per input row in input
// order, plus the top-N subset used for full-detail labeling.
type RecordSet struct {
	Records []Record `json:"records"`
	// Top is the min(N, len(Records)) highest-value records, descending by
	// Value, stable on ties. It only selects which categories get full
	// labels; it never filters or reorders Records.
	Top   []Record `json:"top"`
	Total float64  `json:"total"`
}

// Empty returns a RecordSet with no records, used when derivation degrades.
func Empty() *RecordSet {
	return &RecordSet{Records: []Record{}, Top: []Record{}}
}

// Options tunes derivation. The zero value means DefaultTopN.
type Options struct {
	TopN int
}

// Derive turns a tabular result plus a column role mapping into the ordered
// per-category record set, using the default top-N size.
func Derive(result *table.TabularResult, mapping table.RoleMapping) (*RecordSet, error) {
	return DeriveWithOptions(result, mapping, Options{})
}

// DeriveWithOptions is Derive with an explicit top-N size. It is pure: no
// I/O, no shared state, safe for concurrent use, and identical inputs always
// produce identical output.
func DeriveWithOptions(result *table.TabularResult, mapping table.RoleMapping, opts Options) (*RecordSet, error) {
	if err := mapping.Validate(); err != nil {
		return nil, err
	}
	if err := result.Validate(); err != nil {
		return nil, err
	}

	catIdx, ok := result.ColumnIndex(mapping.Category)
	if !ok {
		return nil, core.NewMissingDataError("category column " + mapping.Category.String() + " not present in result")
	}
	curIdx, ok := result.ColumnIndex(mapping.Current)
	if !ok {
		return nil, core.NewMissingDataError("measure column " + mapping.Current.String() + " not present in result")
	}
	priorIdx := -1
	if mapping.HasPrior() {
		priorIdx, ok = result.ColumnIndex(mapping.Prior)
		if !ok {
			return nil, core.NewMissingDataError("measure column " + mapping.Prior.String() + " not present in result")
		}
	}

	values := make([]float64, len(result.Rows))
	for i, row := range result.Rows {
		v, _ := table.CellFloat(row[curIdx])
		values[i] = v
	}
	// Total spans all rows, not just the top-N subset.
	total := floats.Sum(values)

	records := make([]Record, len(result.Rows))
	for i, row := range result.Rows {
		v := values[i]
		prior := 0.0
		if priorIdx >= 0 {
			prior, _ = table.CellFloat(row[priorIdx])
		}
		// Absent or zero prior history falls back to the current value,
		// which forces the change to read as 0 rather than missing.
		if prior == 0 {
			prior = v
		}

		change := 0.0
		if prior != 0 {
			change = (v - prior) / prior * 100
		}
		share := 0.0
		if total != 0 {
			share = v / total * 100
		}

		records[i] = Record{
			Name:           table.CellString(row[catIdx]),
			Value:          v,
			PriorValue:     prior,
			PercentChange:  change,
			PercentOfTotal: share,
			ChangeLabel:    FormatPercent(change),
			ShareLabel:     FormatPercent(share),
		}
	}

	order := rankOrder(records)
	for rank, idx := range order {
		records[idx].Rank = rank + 1
	}

	topN := opts.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}
	if topN > len(records) {
		topN = len(records)
	}
	top := make([]Record, topN)
	for i := 0; i < topN; i++ {
		top[i] = records[order[i]]
	}

	return &RecordSet{Records: records, Top: top, Total: total}, nil
}

// rankOrder returns record indexes sorted descending by Value, input order
// preserved on ties.
func rankOrder(records []Record) []int {
	order := make([]int, len(records))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return records[order[a]].Value > records[order[b]].Value
	})
	return order
}
