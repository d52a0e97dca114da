package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"tilemetry/domain/core"
	"tilemetry/domain/metrics"
	"tilemetry/domain/table"
	"tilemetry/domain/widget"
	"tilemetry/internal"
	"tilemetry/ports"
)

// Server is the JSON API consumed by hosts that do their own rendering: it
// accepts a chart model and returns the derived record set as plain data.
type Server struct {
	engine  *gin.Engine
	widgets ports.WidgetRepository
	models  ports.ChartModelPort
	emitter ports.LifecycleEmitter
	logger  *internal.Logger
}

// NewServer creates the API server
func NewServer(widgets ports.WidgetRepository, models ports.ChartModelPort, emitter ports.LifecycleEmitter, logger *internal.Logger) *Server {
	if emitter == nil {
		emitter = ports.NopEmitter{}
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	s := &Server{
		engine:  gin.Default(),
		widgets: widgets,
		models:  models,
		emitter: emitter,
		logger:  logger,
	}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	v1 := s.engine.Group("/api/v1")
	v1.POST("/derive", s.handleDerive)
	v1.POST("/widgets", s.handleCreateWidget)
	v1.GET("/widgets", s.handleListWidgets)
	v1.GET("/widgets/:id/records", s.handleWidgetRecords)
}

// Engine exposes the gin engine, mainly for tests
func (s *Server) Engine() *gin.Engine {
	return s.engine
}

// Run starts the API server
func (s *Server) Run(port string) error {
	s.logger.Info("api listening on :%s", port)
	return s.engine.Run(":" + port)
}

// deriveRequest is the inbound chart model: the active tabular result plus
// the negotiated role mapping. The mapping is re-validated here; the host is
// not trusted to have done so.
type deriveRequest struct {
	Columns []table.Column    `json:"columns"`
	Rows    [][]any           `json:"rows"`
	Mapping table.RoleMapping `json:"mapping"`
	TopN    int               `json:"top_n"`
}

// deriveResponse carries the record set and, when derivation degraded, the
// diagnostic explaining the empty output.
type deriveResponse struct {
	Records    []metrics.Record        `json:"records"`
	Top        []metrics.Record        `json:"top"`
	Total      float64                 `json:"total"`
	Summary    *metrics.MeasureSummary `json:"summary,omitempty"`
	Diagnostic string                  `json:"diagnostic,omitempty"`
}

func (s *Server) handleDerive(c *gin.Context) {
	var req deriveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := &table.TabularResult{Columns: req.Columns, Rows: req.Rows}
	rs, err := metrics.DeriveWithOptions(result, req.Mapping, metrics.Options{TopN: req.TopN})
	if err != nil {
		if core.IsRecoverable(err) {
			// Recoverable failures degrade to an empty record set.
			s.logger.Warn("derive degraded: %v", err)
			empty := metrics.Empty()
			c.JSON(http.StatusOK, deriveResponse{
				Records:    empty.Records,
				Top:        empty.Top,
				Diagnostic: err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := deriveResponse{Records: rs.Records, Top: rs.Top, Total: rs.Total}
	if summary, err := metrics.Summarize(rs); err == nil {
		resp.Summary = &summary
	}
	c.JSON(http.StatusOK, resp)
}

// createWidgetRequest is the configuration step's payload.
type createWidgetRequest struct {
	Name       string            `json:"name" binding:"required"`
	SourceFile string            `json:"source_file"`
	Mapping    table.RoleMapping `json:"mapping"`
	Style      widget.Style      `json:"style"`
	TopN       int               `json:"top_n"`
	Palette    []string          `json:"palette"`
	Notes      string            `json:"notes"`
}

func (s *Server) handleCreateWidget(c *gin.Context) {
	var req createWidgetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := req.Mapping.Validate(); err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
		return
	}

	cfg := widget.NewConfig(req.Name, req.Mapping)
	cfg.SourceFile = req.SourceFile
	cfg.TopN = req.TopN
	cfg.Palette = req.Palette
	cfg.Notes = req.Notes
	if req.Style != "" {
		cfg.Style = req.Style
	}

	if err := s.widgets.Create(c.Request.Context(), cfg); err != nil {
		s.logger.Error("creating widget: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create widget"})
		return
	}
	c.JSON(http.StatusCreated, cfg)
}

func (s *Server) handleListWidgets(c *gin.Context) {
	configs, err := s.widgets.List(c.Request.Context())
	if err != nil {
		s.logger.Error("listing widgets: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list widgets"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"widgets": configs})
}

// handleWidgetRecords runs a full derivation pass for a stored widget,
// emitting the same lifecycle signals a rendered pass would.
func (s *Server) handleWidgetRecords(c *gin.Context) {
	widgetID, err := core.ParseWidgetID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "widget not found"})
		return
	}

	s.emitter.RenderStarted(widgetID)
	defer s.emitter.RenderComplete(widgetID)

	model, err := s.models.ChartModel(c.Request.Context(), widgetID)
	if err != nil {
		if core.IsNotFoundError(err) {
			c.JSON(http.StatusNotFound, gin.H{"error": "widget not found"})
			return
		}
		if core.IsRecoverable(err) {
			empty := metrics.Empty()
			c.JSON(http.StatusOK, deriveResponse{
				Records: empty.Records, Top: empty.Top, Diagnostic: err.Error(),
			})
			return
		}
		s.emitter.RenderError(widgetID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	opts := metrics.Options{}
	if model.Widget != nil {
		opts.TopN = model.Widget.TopN
	}
	rs, err := metrics.DeriveWithOptions(model.Result, model.Mapping, opts)
	if err != nil {
		if core.IsRecoverable(err) {
			empty := metrics.Empty()
			c.JSON(http.StatusOK, deriveResponse{
				Records: empty.Records, Top: empty.Top, Diagnostic: err.Error(),
			})
			return
		}
		s.emitter.RenderError(widgetID, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	resp := deriveResponse{Records: rs.Records, Top: rs.Top, Total: rs.Total}
	if summary, err := metrics.Summarize(rs); err == nil {
		resp.Summary = &summary
	}
	c.JSON(http.StatusOK, resp)
}
