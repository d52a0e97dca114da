package app

import (
	"bytes"
	"context"
	"fmt"
	"io"

	"golang.org/x/sync/errgroup"

	"tilemetry/domain/core"
	"tilemetry/domain/metrics"
	"tilemetry/internal"
	"tilemetry/ports"
)

// RenderService orchestrates one widget render: pull the chart model from
// the host, derive the record set, and hand it to the charting collaborator.
// Recoverable derivation failures degrade to an empty visual; nothing raised
// here may crash the hosting process.
type RenderService struct {
	models   ports.ChartModelPort
	renderer ports.RendererPort
	emitter  ports.LifecycleEmitter
	logger   *internal.Logger
	// defaultTopN applies when a widget does not configure its own subset
	// size. Zero falls through to the deriver default.
	defaultTopN int
}

// NewRenderService creates a render service. A nil emitter disables
// lifecycle signals.
func NewRenderService(models ports.ChartModelPort, renderer ports.RendererPort, emitter ports.LifecycleEmitter, logger *internal.Logger) *RenderService {
	if emitter == nil {
		emitter = ports.NopEmitter{}
	}
	if logger == nil {
		logger = internal.DefaultLogger
	}
	return &RenderService{
		models:   models,
		renderer: renderer,
		emitter:  emitter,
		logger:   logger,
	}
}

// WithDefaultTopN overrides the top-subset size used for widgets that do not
// configure their own.
func (s *RenderService) WithDefaultTopN(n int) *RenderService {
	s.defaultTopN = n
	return s
}

// RenderResult is the outcome of one render attempt.
type RenderResult struct {
	WidgetID core.WidgetID
	RenderID core.RenderID
	Records  *metrics.RecordSet
	Summary  *metrics.MeasureSummary
	// Degraded is set when derivation failed recoverably and the widget was
	// drawn empty.
	Degraded bool
}

// RenderWidget runs one full render attempt, writing the rendered widget to
// out. RenderComplete always fires, even after an error.
func (s *RenderService) RenderWidget(ctx context.Context, widgetID core.WidgetID, out io.Writer) (*RenderResult, error) {
	s.emitter.RenderStarted(widgetID)
	defer s.emitter.RenderComplete(widgetID)

	model, err := s.models.ChartModel(ctx, widgetID)
	if err != nil {
		s.emitter.RenderError(widgetID, err)
		return nil, err
	}

	result := &RenderResult{WidgetID: widgetID, RenderID: core.NewRenderID()}

	opts := metrics.Options{TopN: s.defaultTopN}
	if model.Widget != nil && model.Widget.TopN > 0 {
		opts.TopN = model.Widget.TopN
	}
	rs, err := metrics.DeriveWithOptions(model.Result, model.Mapping, opts)
	if err != nil {
		if !core.IsRecoverable(err) {
			s.emitter.RenderError(widgetID, err)
			return nil, err
		}
		// InvalidMapping / MissingData degrade to "no data to render".
		s.logger.Warn("widget %s has no data to render: %v", widgetID, err)
		rs = metrics.Empty()
		result.Degraded = true
	}
	result.Records = rs

	if result.Degraded {
		// Empty visual: nothing is drawn and no error crosses the boundary.
		return result, nil
	}

	if summary, err := metrics.Summarize(rs); err == nil {
		result.Summary = &summary
	}

	req := ports.RenderRequest{
		Records: rs.Records,
		Top:     rs.Top,
	}
	if model.Widget != nil {
		req.Title = model.Widget.Name
		req.Palette = model.Widget.EffectivePalette()
	}

	if err := s.renderSafely(ctx, req, out); err != nil {
		s.emitter.RenderError(widgetID, err)
		s.logger.Error("widget %s render failed: %v", widgetID, err)
		return result, err
	}
	return result, nil
}

// renderSafely contains faults in the charting collaborator. A panic there
// surfaces as a render-error, never as a process crash.
func (s *RenderService) renderSafely(ctx context.Context, req ports.RenderRequest, out io.Writer) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%w: renderer panic: %v", core.ErrRenderFailed, r)
		}
	}()
	return s.renderer.Render(ctx, req, out)
}

// RenderedWidget pairs a widget with its rendered bytes for dashboard
// assembly.
type RenderedWidget struct {
	Result *RenderResult
	Body   []byte
}

// RenderAll renders several widgets concurrently. A failed widget does not
// abort its siblings; its entry carries a nil Result.
func (s *RenderService) RenderAll(ctx context.Context, widgetIDs []core.WidgetID) ([]RenderedWidget, error) {
	rendered := make([]RenderedWidget, len(widgetIDs))
	g, ctx := errgroup.WithContext(ctx)
	for i, id := range widgetIDs {
		g.Go(func() error {
			var buf bytes.Buffer
			res, err := s.RenderWidget(ctx, id, &buf)
			if err != nil {
				s.logger.Warn("skipping widget %s in dashboard: %v", id, err)
				return nil
			}
			rendered[i] = RenderedWidget{Result: res, Body: buf.Bytes()}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return rendered, nil
}
