package testkit

import (
	"context"
	"sort"
	"sync"

	"tilemetry/domain/core"
	"tilemetry/domain/table"
	"tilemetry/domain/widget"
	"tilemetry/ports"
)

// TestKit bundles in-memory adapters for demo mode and tests: a widget
// repository, a chart model source over a fixed tabular result, and a
// lifecycle recorder.
type TestKit struct {
	Widgets *InMemoryWidgetRepository
	Result  *table.TabularResult
}

// NewTestKit creates a test kit over a generated demo result.
func NewTestKit() *TestKit {
	return &TestKit{
		Widgets: NewInMemoryWidgetRepository(),
		Result:  NewGenerator(DefaultGeneratorConfig()).Generate(),
	}
}

// ChartModelAdapter returns a chart model source serving the kit's result
// for every widget.
func (t *TestKit) ChartModelAdapter() ports.ChartModelPort {
	return &staticChartModel{widgets: t.Widgets, result: t.Result}
}

// SeedWidget stores a demo widget wired to the generated columns.
func (t *TestKit) SeedWidget(name string) (*widget.Config, error) {
	cfg := widget.NewConfig(name, table.RoleMapping{
		Category: ColCategory,
		Current:  ColRevenue,
		Prior:    ColPrior,
	})
	if err := t.Widgets.Create(context.Background(), cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// NewStaticChartModel builds a chart model source serving one fixed result
// for every widget in the given repository.
func NewStaticChartModel(widgets ports.WidgetRepository, result *table.TabularResult) ports.ChartModelPort {
	return &staticChartModel{widgets: widgets, result: result}
}

type staticChartModel struct {
	widgets ports.WidgetRepository
	result  *table.TabularResult
}

func (s *staticChartModel) ChartModel(ctx context.Context, widgetID core.WidgetID) (*ports.ChartModel, error) {
	cfg, err := s.widgets.GetByID(ctx, widgetID)
	if err != nil {
		return nil, err
	}
	return &ports.ChartModel{Widget: cfg, Result: s.result, Mapping: cfg.Mapping}, nil
}

// InMemoryWidgetRepository implements ports.WidgetRepository without a
// database.
type InMemoryWidgetRepository struct {
	mu      sync.RWMutex
	configs map[core.WidgetID]*widget.Config
}

// NewInMemoryWidgetRepository creates an empty in-memory repository
func NewInMemoryWidgetRepository() *InMemoryWidgetRepository {
	return &InMemoryWidgetRepository{configs: make(map[core.WidgetID]*widget.Config)}
}

func (r *InMemoryWidgetRepository) Create(_ context.Context, cfg *widget.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.configs[cfg.ID] = cfg
	return nil
}

func (r *InMemoryWidgetRepository) GetByID(_ context.Context, id core.WidgetID) (*widget.Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cfg, ok := r.configs[id]
	if !ok {
		return nil, core.NewNotFoundError("widget", id.String())
	}
	return cfg, nil
}

func (r *InMemoryWidgetRepository) List(_ context.Context) ([]*widget.Config, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	configs := make([]*widget.Config, 0, len(r.configs))
	for _, cfg := range r.configs {
		configs = append(configs, cfg)
	}
	sort.Slice(configs, func(i, j int) bool {
		return configs[i].CreatedAt.Before(configs[j].CreatedAt)
	})
	return configs, nil
}

func (r *InMemoryWidgetRepository) Update(_ context.Context, cfg *widget.Config) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.configs[cfg.ID]; !ok {
		return core.NewNotFoundError("widget", cfg.ID.String())
	}
	r.configs[cfg.ID] = cfg
	return nil
}

func (r *InMemoryWidgetRepository) Delete(_ context.Context, id core.WidgetID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.configs, id)
	return nil
}

// LifecycleRecorder captures emitted lifecycle signals in order.
type LifecycleRecorder struct {
	mu     sync.Mutex
	Events []LifecycleEvent
}

// LifecycleEvent is one recorded signal.
type LifecycleEvent struct {
	Kind     string // "started", "error", "complete"
	WidgetID core.WidgetID
	Cause    error
}

func (r *LifecycleRecorder) RenderStarted(id core.WidgetID) {
	r.record(LifecycleEvent{Kind: "started", WidgetID: id})
}

func (r *LifecycleRecorder) RenderError(id core.WidgetID, cause error) {
	r.record(LifecycleEvent{Kind: "error", WidgetID: id, Cause: cause})
}

func (r *LifecycleRecorder) RenderComplete(id core.WidgetID) {
	r.record(LifecycleEvent{Kind: "complete", WidgetID: id})
}

func (r *LifecycleRecorder) record(ev LifecycleEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Events = append(r.Events, ev)
}

// Kinds returns the ordered signal kinds, for assertions.
func (r *LifecycleRecorder) Kinds() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]string, len(r.Events))
	for i, ev := range r.Events {
		kinds[i] = ev.Kind
	}
	return kinds
}
