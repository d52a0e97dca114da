package ports

import "tilemetry/domain/core"

// LifecycleEmitter carries the three render lifecycle signals to the host.
// RenderComplete fires after every attempt, success or not, mirroring a
// guaranteed-cleanup contract.
type LifecycleEmitter interface {
	RenderStarted(widgetID core.WidgetID)
	RenderError(widgetID core.WidgetID, cause error)
	RenderComplete(widgetID core.WidgetID)
}

// NopEmitter discards lifecycle signals, for hosts that do not subscribe.
type NopEmitter struct{}

func (NopEmitter) RenderStarted(core.WidgetID)      {}
func (NopEmitter) RenderError(core.WidgetID, error) {}
func (NopEmitter) RenderComplete(core.WidgetID)     {}
