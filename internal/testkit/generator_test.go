package testkit

import (
	"reflect"
	"testing"

	"tilemetry/domain/metrics"
	"tilemetry/domain/table"
)

func TestGenerator_Deterministic(t *testing.T) {
	config := DefaultGeneratorConfig()

	first := NewGenerator(config).Generate()
	second := NewGenerator(config).Generate()

	if !reflect.DeepEqual(first, second) {
		t.Error("Same seed must produce identical results")
	}
}

func TestGenerator_ShapeAndDerivability(t *testing.T) {
	config := DefaultGeneratorConfig()
	config.CategoryCount = 25

	result := NewGenerator(config).Generate()
	if err := result.Validate(); err != nil {
		t.Fatalf("Generated result invalid: %v", err)
	}
	if len(result.Rows) != 25 {
		t.Fatalf("Expected 25 rows, got %d", len(result.Rows))
	}

	rs, err := metrics.Derive(result, table.RoleMapping{
		Category: ColCategory,
		Current:  ColRevenue,
		Prior:    ColPrior,
	})
	if err != nil {
		t.Fatalf("Derive over generated data failed: %v", err)
	}
	if len(rs.Top) != metrics.DefaultTopN {
		t.Errorf("Expected top subset of %d, got %d", metrics.DefaultTopN, len(rs.Top))
	}
}
