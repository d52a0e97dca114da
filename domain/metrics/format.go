package metrics

import "fmt"

// FormatPercent renders a percentage with two decimal places, matching the
// display contract of the widget labels.
func FormatPercent(v float64) string {
	return fmt.Sprintf("%.2f%%", v)
}

// FormatValue renders a measure value for inline labels. Whole numbers drop
// the fraction.
func FormatValue(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

// TileLabel builds the inline label for one tile. Categories inside the
// top-N subset get the full name/value/share label; the rest show only the
// category name.
func TileLabel(r Record, full bool) string {
	if !full {
		return r.Name
	}
	return fmt.Sprintf("%s %s (%s)", r.Name, FormatValue(r.Value), r.ShareLabel)
}
