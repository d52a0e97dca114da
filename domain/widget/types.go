package widget

import (
	"tilemetry/domain/core"
	"tilemetry/domain/table"
)

// Style selects which renderer draws the widget.
type Style string

const (
	StyleTreemap Style = "treemap"
	StyleBars    Style = "bars"
)

// DefaultPalette is the tile color ramp used when a config carries none.
var DefaultPalette = []string{"#009688", "#f7f7f7", "#ee8100"}

// Config is a saved widget: the negotiated column role mapping plus display
// settings. The host's configuration step produces these; render attempts
// only read them.
type Config struct {
	ID         core.WidgetID     `json:"id"`
	Name       string            `json:"name"`
	SourceFile string            `json:"source_file,omitempty"`
	Mapping    table.RoleMapping `json:"mapping"`
	Style      Style             `json:"style"`
	TopN       int               `json:"top_n"`
	Palette    []string          `json:"palette,omitempty"`
	// Notes holds optional markdown shown under the widget on the dashboard.
	Notes     string         `json:"notes,omitempty"`
	CreatedAt core.Timestamp `json:"created_at"`
	UpdatedAt core.Timestamp `json:"updated_at"`
}

// NewConfig creates a widget config with default display settings.
func NewConfig(name string, mapping table.RoleMapping) *Config {
	now := core.Now()
	return &Config{
		ID:        core.WidgetID(core.NewID()),
		Name:      name,
		Mapping:   mapping,
		Style:     StyleTreemap,
		TopN:      0, // 0 means the deriver default
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// EffectivePalette returns the configured palette or the default ramp.
func (c *Config) EffectivePalette() []string {
	if len(c.Palette) > 0 {
		return c.Palette
	}
	return DefaultPalette
}
