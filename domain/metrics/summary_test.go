package metrics

import (
	"errors"
	"math"
	"testing"

	"tilemetry/domain/core"
)

func TestSummarize(t *testing.T) {
	rs := &RecordSet{Records: []Record{
		{Name: "A", Value: 10},
		{Name: "B", Value: 20},
		{Name: "C", Value: 30},
	}}

	summary, err := Summarize(rs)
	if err != nil {
		t.Fatalf("Summarize failed: %v", err)
	}
	if summary.Count != 3 {
		t.Errorf("Expected count 3, got %d", summary.Count)
	}
	if summary.Mean != 20 {
		t.Errorf("Expected mean 20, got %f", summary.Mean)
	}
	if summary.Median != 20 {
		t.Errorf("Expected median 20, got %f", summary.Median)
	}
	if summary.Min != 10 || summary.Max != 30 {
		t.Errorf("Expected min 10 max 30, got %f / %f", summary.Min, summary.Max)
	}
	wantSD := math.Sqrt(200.0 / 3.0)
	if math.Abs(summary.StdDev-wantSD) > 1e-9 {
		t.Errorf("Expected stddev %f, got %f", wantSD, summary.StdDev)
	}
}

func TestSummarize_Empty(t *testing.T) {
	if _, err := Summarize(Empty()); !errors.Is(err, core.ErrMissingData) {
		t.Errorf("Expected ErrMissingData for empty set, got %v", err)
	}
	if _, err := Summarize(nil); !errors.Is(err, core.ErrMissingData) {
		t.Errorf("Expected ErrMissingData for nil set, got %v", err)
	}
}
