package excel

import (
	"context"
	"fmt"

	"tilemetry/domain/core"
	"tilemetry/domain/table"
	"tilemetry/ports"
)

// ChartModelAdapter serves chart models from file-backed widget configs. Each
// widget's source file (or the shared default) is read fresh per render, so a
// render attempt always sees the current data set.
type ChartModelAdapter struct {
	widgets     ports.WidgetRepository
	defaultFile string
}

// NewChartModelAdapter creates a file-backed chart model source.
func NewChartModelAdapter(widgets ports.WidgetRepository, defaultFile string) *ChartModelAdapter {
	return &ChartModelAdapter{widgets: widgets, defaultFile: defaultFile}
}

// ChartModel loads the widget's config and its backing tabular result.
func (a *ChartModelAdapter) ChartModel(ctx context.Context, widgetID core.WidgetID) (*ports.ChartModel, error) {
	cfg, err := a.widgets.GetByID(ctx, widgetID)
	if err != nil {
		return nil, err
	}

	path := cfg.SourceFile
	if path == "" {
		path = a.defaultFile
	}
	if path == "" {
		return nil, core.NewMissingDataError(fmt.Sprintf("widget %s has no data source", widgetID))
	}

	var result *table.TabularResult
	result, err = NewDataReader(path).ReadData()
	if err != nil {
		return nil, core.NewMissingDataError(err.Error())
	}

	return &ports.ChartModel{
		Widget:  cfg,
		Result:  result,
		Mapping: cfg.Mapping,
	}, nil
}
