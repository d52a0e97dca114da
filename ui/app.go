package ui

import (
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"tilemetry/app"
	"tilemetry/domain/metrics"
	"tilemetry/internal"
	"tilemetry/ports"
)

//go:embed templates/*
var embeddedFiles embed.FS

// App serves the widget dashboard: an index of configured widgets, the
// rendered treemap page per widget, and a PNG fallback chart.
type App struct {
	router    *chi.Mux
	widgets   ports.WidgetRepository
	html      *app.RenderService
	png       *app.RenderService
	templates *template.Template
	logger    *internal.Logger
}

// Config holds UI application configuration
type Config struct {
	Port string
}

// NewApp creates the UI application. html renders treemap documents, png
// renders the bar-chart fallback.
func NewApp(widgets ports.WidgetRepository, html, png *app.RenderService, logger *internal.Logger) (*App, error) {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	funcMap := template.FuncMap{
		"pct": metrics.FormatPercent,
		"val": metrics.FormatValue,
	}
	templates, err := template.New("").Funcs(funcMap).ParseFS(embeddedFiles, "templates/*.html")
	if err != nil {
		return nil, fmt.Errorf("failed to parse templates: %w", err)
	}

	a := &App{
		router:    chi.NewRouter(),
		widgets:   widgets,
		html:      html,
		png:       png,
		templates: templates,
		logger:    logger,
	}
	a.setupRoutes()
	return a, nil
}

func (a *App) setupRoutes() {
	a.router.Use(middleware.RequestID)
	a.router.Use(middleware.Logger)
	a.router.Use(middleware.Recoverer)

	a.router.Get("/", a.handleDashboard)
	a.router.Get("/widgets/{widgetID}", a.handleWidget)
	a.router.Get("/widgets/{widgetID}/chart.png", a.handleWidgetPNG)
}

// Router returns the chi router for serving
func (a *App) Router() http.Handler {
	return a.router
}

// Serve starts the HTTP server
func (a *App) Serve(cfg Config) error {
	a.logger.Info("dashboard listening on :%s", cfg.Port)
	return http.ListenAndServe(":"+cfg.Port, a.router)
}
