package ports

import (
	"context"
	"io"

	"tilemetry/domain/metrics"
)

// RenderRequest is the plain-data handoff to a charting collaborator. Layout,
// squarification and interaction are entirely the collaborator's concern.
type RenderRequest struct {
	Title   string
	Records []metrics.Record
	// Top selects which categories receive full inline labels; records
	// outside it are labeled name-only.
	Top     []metrics.Record
	Palette []string
}

// RendererPort draws a widget from derived records.
type RendererPort interface {
	Render(ctx context.Context, req RenderRequest, out io.Writer) error
	// ContentType is the MIME type of what Render writes.
	ContentType() string
}
