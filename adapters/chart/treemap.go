package chart

import (
	"context"
	"html/template"
	"io"

	"tilemetry/domain/core"
	"tilemetry/domain/metrics"
	"tilemetry/ports"
)

// The squarified layout, hover highlighting and scale legend all come from
// the Google Charts treemap package loaded in the browser; this adapter only
// marshals the record set into its data-table shape.
const treemapDoc = `<html>
  <head>
    <title>{{.Title}}</title>
    <script type="text/javascript" src="https://www.gstatic.com/charts/loader.js"></script>
    <script type="text/javascript">
      google.charts.load('current', {'packages':['treemap']});
      google.charts.setOnLoadCallback(drawChart);
      function drawChart() {
        var data = google.visualization.arrayToDataTable({{.Data}});

        tree = new google.visualization.TreeMap(document.getElementById('chart_div'));

        var options = {
          highlightOnMouseOver: true,
          maxDepth: 1,
          minColor: {{.MinColor}},
          midColor: {{.MidColor}},
          maxColor: {{.MaxColor}},
          headerHeight: 15,
          showScale: true,
          useWeightedAverageForAggregation: true
        };

        tree.draw(data, options);
      }
    </script>
  </head>
  <body>
    <div id="chart_div" style="width: 100%; height: 100%;"></div>
  </body>
</html>`

// TreemapRenderer writes a self-contained HTML treemap document. Tile area is
// the record value; tile color encodes the percent change against prior year.
type TreemapRenderer struct {
	tmpl *template.Template
}

// NewTreemapRenderer creates an HTML treemap renderer.
func NewTreemapRenderer() *TreemapRenderer {
	return &TreemapRenderer{
		tmpl: template.Must(template.New("treemap").Parse(treemapDoc)),
	}
}

// ContentType implements ports.RendererPort
func (r *TreemapRenderer) ContentType() string { return "text/html; charset=utf-8" }

type treemapData struct {
	Title    string
	Data     [][]any
	MinColor string
	MidColor string
	MaxColor string
}

// Render implements ports.RendererPort
func (r *TreemapRenderer) Render(_ context.Context, req ports.RenderRequest, out io.Writer) error {
	if len(req.Records) == 0 {
		return core.NewMissingDataError("no records to draw")
	}

	root := req.Title
	if root == "" {
		root = "All categories"
	}

	// Column layout required by the treemap data table: label, parent,
	// size, color value.
	data := make([][]any, 0, len(req.Records)+2)
	data = append(data, []any{"Category", "Parent", "Value", "Change"})
	data = append(data, []any{root, nil, 0, 0})
	// Rank decides top-subset membership; matching by name would promote
	// every duplicate of a top category.
	for _, rec := range req.Records {
		data = append(data, []any{
			metrics.TileLabel(rec, rec.Rank <= len(req.Top)),
			root,
			rec.Value,
			rec.PercentChange,
		})
	}

	palette := req.Palette
	for len(palette) < 3 {
		palette = append(palette, "#f7f7f7")
	}

	return r.tmpl.Execute(out, treemapData{
		Title:    root,
		Data:     data,
		MinColor: palette[0],
		MidColor: palette[1],
		MaxColor: palette[2],
	})
}
