package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"tilemetry/adapters/chart"
	"tilemetry/adapters/excel"
	"tilemetry/domain/core"
	"tilemetry/domain/metrics"
	"tilemetry/domain/table"
	"tilemetry/ports"
)

// One-shot renderer: read a tabular file, derive category metrics, write the
// widget to disk. Useful for checking a mapping without running the server.
func main() {
	var (
		input    = flag.String("in", "", "xlsx or csv input file")
		category = flag.String("category", "", "category column identifier")
		current  = flag.String("current", "", "current-value measure column identifier")
		prior    = flag.String("prior", "", "prior-year measure column identifier (optional)")
		output   = flag.String("out", "widget.html", "output file (.html for treemap, .png for bars)")
		title    = flag.String("title", "Categories", "widget title")
		topN     = flag.Int("top", metrics.DefaultTopN, "full-label subset size")
	)
	flag.Parse()

	if *input == "" || *category == "" || *current == "" {
		flag.Usage()
		os.Exit(2)
	}

	result, err := excel.NewDataReader(*input).ReadData()
	if err != nil {
		log.Fatalf("reading %s: %v", *input, err)
	}

	mapping := table.RoleMapping{
		Category: core.ColumnID(*category),
		Current:  core.ColumnID(*current),
		Prior:    core.ColumnID(*prior),
	}
	rs, err := metrics.DeriveWithOptions(result, mapping, metrics.Options{TopN: *topN})
	if err != nil {
		log.Fatalf("deriving metrics: %v", err)
	}

	var renderer ports.RendererPort
	if strings.EqualFold(filepath.Ext(*output), ".png") {
		renderer = chart.NewBarRenderer(0)
	} else {
		renderer = chart.NewTreemapRenderer()
	}

	f, err := os.Create(*output)
	if err != nil {
		log.Fatalf("creating %s: %v", *output, err)
	}
	defer f.Close()

	req := ports.RenderRequest{Title: *title, Records: rs.Records, Top: rs.Top}
	if err := renderer.Render(context.Background(), req, f); err != nil {
		log.Fatalf("rendering: %v", err)
	}

	fmt.Printf("rendered %d categories (total %s) to %s\n",
		len(rs.Records), metrics.FormatValue(rs.Total), *output)
	for _, rec := range rs.Top {
		fmt.Printf("  %2d. %-20s %12s  change %8s  share %8s\n",
			rec.Rank, rec.Name, metrics.FormatValue(rec.Value), rec.ChangeLabel, rec.ShareLabel)
	}
}
