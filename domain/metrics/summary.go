package metrics

import (
	"github.com/montanaflynn/stats"

	"tilemetry/domain/core"
)

// MeasureSummary describes the distribution of the current-value measure
// across all categories. It feeds the summary panel next to the widget.
type MeasureSummary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	Median float64 `json:"median"`
	StdDev float64 `json:"std_dev"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summarize computes summary statistics over a record set's current values.
func Summarize(rs *RecordSet) (MeasureSummary, error) {
	if rs == nil || len(rs.Records) == 0 {
		return MeasureSummary{}, core.NewMissingDataError("no records to summarize")
	}
	values := make(stats.Float64Data, len(rs.Records))
	for i, r := range rs.Records {
		values[i] = r.Value
	}

	mean, err := stats.Mean(values)
	if err != nil {
		return MeasureSummary{}, err
	}
	median, err := stats.Median(values)
	if err != nil {
		return MeasureSummary{}, err
	}
	// Population std dev; a widget summarizes the whole category set, not a
	// sample of it.
	sd, err := stats.StandardDeviationPopulation(values)
	if err != nil {
		return MeasureSummary{}, err
	}
	min, err := stats.Min(values)
	if err != nil {
		return MeasureSummary{}, err
	}
	max, err := stats.Max(values)
	if err != nil {
		return MeasureSummary{}, err
	}

	return MeasureSummary{
		Count:  len(values),
		Mean:   mean,
		Median: median,
		StdDev: sd,
		Min:    min,
		Max:    max,
	}, nil
}
