package ui

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"tilemetry/adapters/chart"
	"tilemetry/app"
	"tilemetry/internal/testkit"
)

func newTestApp(t *testing.T) (*App, *testkit.TestKit) {
	t.Helper()
	kit := testkit.NewTestKit()
	if _, err := kit.SeedWidget("Revenue by category"); err != nil {
		t.Fatalf("Seeding widget failed: %v", err)
	}

	models := kit.ChartModelAdapter()
	html := app.NewRenderService(models, chart.NewTreemapRenderer(), nil, nil)
	png := app.NewRenderService(models, chart.NewBarRenderer(640), nil, nil)

	a, err := NewApp(kit.Widgets, html, png, nil)
	if err != nil {
		t.Fatalf("NewApp failed: %v", err)
	}
	return a, kit
}

func TestDashboard(t *testing.T) {
	a, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "Revenue by category") {
		t.Error("Dashboard missing widget name")
	}
	if !strings.Contains(body, "data:image/png;base64,") {
		t.Error("Dashboard missing inline chart")
	}
}

func TestWidgetPage(t *testing.T) {
	a, kit := newTestApp(t)
	configs, err := kit.Widgets.List(context.Background())
	if err != nil {
		t.Fatalf("Listing widgets failed: %v", err)
	}

	req := httptest.NewRequest(http.MethodGet, "/widgets/"+configs[0].ID.String(), nil)
	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "google.charts.load") {
		t.Error("Widget page missing treemap document")
	}
}

func TestWidgetPage_NotFound(t *testing.T) {
	a, _ := newTestApp(t)

	req := httptest.NewRequest(http.MethodGet, "/widgets/ghost", nil)
	w := httptest.NewRecorder()
	a.Router().ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}
