package core

import (
	"encoding/json"
	"testing"
	"time"
)

func TestTimestamp_ScanAndValue(t *testing.T) {
	stored := time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)

	var ts Timestamp
	if err := ts.Scan(stored); err != nil {
		t.Fatalf("Scan failed: %v", err)
	}
	if !ts.Time().Equal(stored) {
		t.Errorf("Expected %v after scan, got %v", stored, ts.Time())
	}

	v, err := ts.Value()
	if err != nil {
		t.Fatalf("Value failed: %v", err)
	}
	if got, ok := v.(time.Time); !ok || !got.Equal(stored) {
		t.Errorf("Expected %v from Value, got %v", stored, v)
	}

	if err := ts.Scan("not a time"); err == nil {
		t.Error("Expected scan error for unsupported source type")
	}

	if err := ts.Scan(nil); err != nil {
		t.Fatalf("Scan of nil failed: %v", err)
	}
	if !ts.IsZero() {
		t.Error("Expected zero timestamp after scanning nil")
	}
}

func TestTimestamp_JSONRoundTrip(t *testing.T) {
	orig := NewTimestamp(time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC))

	data, err := json.Marshal(orig)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	var decoded Timestamp
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if !decoded.Time().Equal(orig.Time()) {
		t.Errorf("Expected %v after round trip, got %v", orig, decoded)
	}
}
