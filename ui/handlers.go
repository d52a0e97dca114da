package ui

import (
	"encoding/base64"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/gomarkdown/markdown"

	"tilemetry/domain/core"
	"tilemetry/domain/metrics"
	"tilemetry/domain/widget"
)

// dashboardWidget is one widget card on the index page.
type dashboardWidget struct {
	Config   *widget.Config
	Records  []metrics.Record
	Top      []metrics.Record
	Summary  *metrics.MeasureSummary
	Degraded bool
	// ChartData is the rendered PNG, inlined as a data URI.
	ChartData template.URL
	// NotesHTML is the widget's markdown notes rendered to HTML.
	NotesHTML template.HTML
}

func (a *App) handleDashboard(w http.ResponseWriter, r *http.Request) {
	configs, err := a.widgets.List(r.Context())
	if err != nil {
		a.logger.Error("listing widgets: %v", err)
		http.Error(w, "failed to list widgets", http.StatusInternalServerError)
		return
	}

	ids := make([]core.WidgetID, len(configs))
	for i, cfg := range configs {
		ids[i] = cfg.ID
	}
	rendered, err := a.png.RenderAll(r.Context(), ids)
	if err != nil {
		a.logger.Error("rendering dashboard: %v", err)
		http.Error(w, "failed to render dashboard", http.StatusInternalServerError)
		return
	}

	cards := make([]dashboardWidget, 0, len(configs))
	for i, cfg := range configs {
		card := dashboardWidget{Config: cfg}
		if cfg.Notes != "" {
			card.NotesHTML = template.HTML(markdown.ToHTML([]byte(cfg.Notes), nil, nil))
		}
		if res := rendered[i].Result; res != nil && res.Records != nil {
			card.Records = res.Records.Records
			card.Top = res.Records.Top
			card.Summary = res.Summary
			card.Degraded = res.Degraded
			if len(rendered[i].Body) > 0 {
				card.ChartData = template.URL("data:image/png;base64," +
					base64.StdEncoding.EncodeToString(rendered[i].Body))
			}
		} else {
			card.Degraded = true
		}
		cards = append(cards, card)
	}

	if err := a.templates.ExecuteTemplate(w, "dashboard.html", map[string]any{
		"Widgets": cards,
	}); err != nil {
		a.logger.Error("rendering dashboard template: %v", err)
	}
}

func (a *App) handleWidget(w http.ResponseWriter, r *http.Request) {
	widgetID, err := core.ParseWidgetID(chi.URLParam(r, "widgetID"))
	if err != nil {
		http.Error(w, "widget not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := a.html.RenderWidget(r.Context(), widgetID, w); err != nil {
		if core.IsNotFoundError(err) {
			http.Error(w, "widget not found", http.StatusNotFound)
			return
		}
		a.logger.Error("rendering widget %s: %v", widgetID, err)
		http.Error(w, "failed to render widget", http.StatusInternalServerError)
	}
}

func (a *App) handleWidgetPNG(w http.ResponseWriter, r *http.Request) {
	widgetID, err := core.ParseWidgetID(chi.URLParam(r, "widgetID"))
	if err != nil {
		http.Error(w, "widget not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if _, err := a.png.RenderWidget(r.Context(), widgetID, w); err != nil {
		if core.IsNotFoundError(err) {
			http.Error(w, "widget not found", http.StatusNotFound)
			return
		}
		a.logger.Error("rendering widget chart %s: %v", widgetID, err)
		http.Error(w, "failed to render chart", http.StatusInternalServerError)
	}
}
