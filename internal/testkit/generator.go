package testkit

import (
	"fmt"
	"math/rand"

	"tilemetry/domain/core"
	"tilemetry/domain/table"
)

// GeneratorConfig configures the synthetic category data generator
type GeneratorConfig struct {
	CategoryCount int     `json:"category_count"`
	BaseValue     float64 `json:"base_value"`
	GrowthSpread  float64 `json:"growth_spread"`
	Seed          int64   `json:"seed"`
}

// DefaultGeneratorConfig returns sensible defaults for demo data
func DefaultGeneratorConfig() GeneratorConfig {
	return GeneratorConfig{
		CategoryCount: 15,
		BaseValue:     100000,
		GrowthSpread:  0.4,
		Seed:          42,
	}
}

// Column identifiers produced by the generator.
const (
	ColCategory = core.ColumnID("category")
	ColRevenue  = core.ColumnID("revenue")
	ColPrior    = core.ColumnID("revenue_prior_year")
)

var categoryNames = []string{
	"Apparel", "Electronics", "Groceries", "Home & Garden", "Toys",
	"Sports", "Automotive", "Books", "Beauty", "Pet Supplies",
	"Office", "Jewelry", "Music", "Outdoors", "Baby",
	"Health", "Furniture", "Footwear", "Appliances", "Crafts",
}

// Generator produces synthetic per-category revenue results for demo mode
// and tests. Same seed, same output.
type Generator struct {
	config GeneratorConfig
	rng    *rand.Rand
}

// NewGenerator creates a seeded generator
func NewGenerator(config GeneratorConfig) *Generator {
	return &Generator{
		config: config,
		rng:    rand.New(rand.NewSource(config.Seed)),
	}
}

// Generate builds a tabular result with category, current revenue and
// prior-year revenue columns.
func (g *Generator) Generate() *table.TabularResult {
	columns := []table.Column{
		{ID: ColCategory, Label: "Category"},
		{ID: ColRevenue, Label: "Revenue"},
		{ID: ColPrior, Label: "Revenue (prior year)"},
	}

	rows := make([][]any, 0, g.config.CategoryCount)
	for i := 0; i < g.config.CategoryCount; i++ {
		name := g.categoryName(i)
		prior := g.config.BaseValue * (0.2 + 1.6*g.rng.Float64())
		growth := 1 + g.config.GrowthSpread*(2*g.rng.Float64()-1)
		current := prior * growth
		rows = append(rows, []any{name, current, prior})
	}

	return &table.TabularResult{Columns: columns, Rows: rows}
}

func (g *Generator) categoryName(i int) string {
	if i < len(categoryNames) {
		return categoryNames[i]
	}
	return fmt.Sprintf("Category %d", i+1)
}
