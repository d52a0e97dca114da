package ports

import (
	"context"

	"tilemetry/domain/core"
	"tilemetry/domain/table"
	"tilemetry/domain/widget"
)

// ChartModel is what the host hands over for one render attempt: the active
// tabular result plus the previously negotiated role mapping. The deriver
// must not assume the host validated the mapping first.
type ChartModel struct {
	Widget  *widget.Config
	Result  *table.TabularResult
	Mapping table.RoleMapping
}

// ChartModelPort provides the inbound host data for a widget.
type ChartModelPort interface {
	ChartModel(ctx context.Context, widgetID core.WidgetID) (*ChartModel, error)
}
