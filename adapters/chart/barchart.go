package chart

import (
	"context"
	"io"

	gochart "github.com/wcharczuk/go-chart/v2"

	"tilemetry/domain/core"
	"tilemetry/domain/metrics"
	"tilemetry/ports"
)

// BarRenderer draws the record set as a PNG bar chart through go-chart.
// Bar heights come straight from the derived values; categories in the top
// subset get the full inline label, the rest show the name alone.
type BarRenderer struct {
	Width  int
	Height int
}

// NewBarRenderer creates a PNG bar chart renderer.
func NewBarRenderer(width int) *BarRenderer {
	if width <= 0 {
		width = 1024
	}
	return &BarRenderer{Width: width, Height: 512}
}

// ContentType implements ports.RendererPort
func (r *BarRenderer) ContentType() string { return "image/png" }

// Render implements ports.RendererPort
func (r *BarRenderer) Render(_ context.Context, req ports.RenderRequest, out io.Writer) error {
	if len(req.Records) == 0 {
		return core.NewMissingDataError("no records to draw")
	}

	// Rank decides top-subset membership, so duplicate category names do
	// not all inherit the full label.
	values := make([]gochart.Value, 0, len(req.Records))
	for _, rec := range req.Records {
		values = append(values, gochart.Value{
			Label: metrics.TileLabel(rec, rec.Rank <= len(req.Top)),
			Value: rec.Value,
		})
	}

	graph := gochart.BarChart{
		Title:  req.Title,
		Width:  r.Width,
		Height: r.Height,
		Background: gochart.Style{
			Padding: gochart.Box{
				Top: 40,
			},
		},
		Bars: values,
	}
	return graph.Render(gochart.PNG, out)
}
