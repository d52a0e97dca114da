package main

import (
	"context"
	"log"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"golang.org/x/sync/errgroup"

	"tilemetry/adapters/chart"
	"tilemetry/adapters/excel"
	"tilemetry/adapters/postgres"
	"tilemetry/app"
	"tilemetry/domain/core"
	"tilemetry/domain/table"
	"tilemetry/internal"
	"tilemetry/internal/api"
	"tilemetry/internal/config"
	"tilemetry/internal/errors"
	"tilemetry/internal/testkit"
	"tilemetry/ports"
	"tilemetry/ui"
)

func main() {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	logger := internal.NewDefaultLogger()
	gin.SetMode(cfg.Server.GinMode)

	widgets, err := initWidgetRepository(cfg, logger)
	if err != nil {
		log.Fatalf("Failed to initialize widget storage: %v", err)
	}

	models := initChartModels(cfg, widgets, logger)

	// The emitter stands in for the host SDK's event bus; lifecycle signals
	// go to the log in standalone mode.
	emitter := logEmitter{logger: logger}

	htmlRender := app.NewRenderService(models, chart.NewTreemapRenderer(), emitter, logger).
		WithDefaultTopN(cfg.Render.TopN)
	pngRender := app.NewRenderService(models, chart.NewBarRenderer(cfg.Render.ChartWidth), emitter, logger).
		WithDefaultTopN(cfg.Render.TopN)

	dashboard, err := ui.NewApp(widgets, htmlRender, pngRender, logger)
	if err != nil {
		log.Fatalf("Failed to initialize dashboard: %v", err)
	}
	apiServer := api.NewServer(widgets, models, emitter, logger)

	g, _ := errgroup.WithContext(context.Background())
	g.Go(func() error {
		return dashboard.Serve(ui.Config{Port: cfg.Server.Port})
	})
	g.Go(func() error {
		return apiServer.Run(cfg.Server.APIPort)
	})
	if err := g.Wait(); err != nil {
		log.Fatalf("Server exited: %v", err)
	}
}

// initWidgetRepository connects postgres when configured, otherwise serves
// widget configs from memory with a seeded demo widget.
func initWidgetRepository(cfg *config.Config, logger *internal.Logger) (ports.WidgetRepository, error) {
	if cfg.Database.URL == "" {
		logger.Warn("DATABASE_URL not set, widget configs are in-memory only")
		kit := testkit.NewTestKit()
		if _, err := kit.SeedWidget("Revenue by category"); err != nil {
			return nil, err
		}
		return kit.Widgets, nil
	}

	db, err := sqlx.Connect("postgres", cfg.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}
	if err := db.Ping(); err != nil {
		return nil, errors.Wrap(err, "failed to ping database")
	}
	return postgres.NewWidgetRepository(db)
}

// initChartModels picks the data source: a configured xlsx/csv file, or the
// synthetic demo result.
func initChartModels(cfg *config.Config, widgets ports.WidgetRepository, logger *internal.Logger) ports.ChartModelPort {
	if cfg.Data.File != "" {
		logger.Info("serving tabular results from %s", cfg.Data.File)
		return excel.NewChartModelAdapter(widgets, cfg.Data.File)
	}
	logger.Info("DATA_FILE not set, serving synthetic demo data")
	return testkit.NewStaticChartModel(widgets, demoResult())
}

func demoResult() *table.TabularResult {
	return testkit.NewGenerator(testkit.DefaultGeneratorConfig()).Generate()
}

// logEmitter writes lifecycle signals to the application log.
type logEmitter struct {
	logger *internal.Logger
}

func (e logEmitter) RenderStarted(id core.WidgetID) {
	e.logger.Debug("render started: widget %s", id)
}

func (e logEmitter) RenderError(id core.WidgetID, cause error) {
	e.logger.Error("render error: widget %s: %v", id, cause)
}

func (e logEmitter) RenderComplete(id core.WidgetID) {
	e.logger.Debug("render complete: widget %s", id)
}
