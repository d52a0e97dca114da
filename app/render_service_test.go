package app

import (
	"bytes"
	"context"
	"errors"
	"io"
	"reflect"
	"testing"

	"tilemetry/domain/core"
	"tilemetry/domain/table"
	"tilemetry/internal/testkit"
	"tilemetry/ports"
)

type fakeRenderer struct {
	body    []byte
	err     error
	panics  bool
	renders int
}

func (f *fakeRenderer) ContentType() string { return "text/plain" }

func (f *fakeRenderer) Render(_ context.Context, _ ports.RenderRequest, out io.Writer) error {
	f.renders++
	if f.panics {
		panic("treemap layout exploded")
	}
	if f.err != nil {
		return f.err
	}
	_, err := out.Write(f.body)
	return err
}

func newServiceFixture(t *testing.T, renderer ports.RendererPort) (*RenderService, *testkit.TestKit, *testkit.LifecycleRecorder, core.WidgetID) {
	t.Helper()
	kit := testkit.NewTestKit()
	cfg, err := kit.SeedWidget("Revenue by category")
	if err != nil {
		t.Fatalf("Seeding widget failed: %v", err)
	}
	recorder := &testkit.LifecycleRecorder{}
	svc := NewRenderService(kit.ChartModelAdapter(), renderer, recorder, nil)
	return svc, kit, recorder, cfg.ID
}

func TestRenderWidget_Success(t *testing.T) {
	renderer := &fakeRenderer{body: []byte("widget")}
	svc, _, recorder, widgetID := newServiceFixture(t, renderer)

	var buf bytes.Buffer
	res, err := svc.RenderWidget(context.Background(), widgetID, &buf)
	if err != nil {
		t.Fatalf("RenderWidget failed: %v", err)
	}
	if buf.String() != "widget" {
		t.Errorf("Expected rendered body, got %q", buf.String())
	}
	if res.Degraded {
		t.Error("Expected non-degraded result")
	}
	if len(res.Records.Records) == 0 {
		t.Error("Expected derived records")
	}
	if res.Summary == nil {
		t.Error("Expected measure summary")
	}

	want := []string{"started", "complete"}
	if got := recorder.Kinds(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected lifecycle %v, got %v", want, got)
	}
}

func TestRenderWidget_StampsFreshRenderID(t *testing.T) {
	renderer := &fakeRenderer{body: []byte("widget")}
	svc, _, _, widgetID := newServiceFixture(t, renderer)

	var buf bytes.Buffer
	first, err := svc.RenderWidget(context.Background(), widgetID, &buf)
	if err != nil {
		t.Fatalf("RenderWidget failed: %v", err)
	}
	second, err := svc.RenderWidget(context.Background(), widgetID, &buf)
	if err != nil {
		t.Fatalf("RenderWidget failed: %v", err)
	}

	if first.RenderID.String() == "" {
		t.Error("Expected a render ID on the result")
	}
	if first.RenderID == second.RenderID {
		t.Error("Each render attempt must carry its own ID")
	}
}

func TestRenderWidget_ConfiguredDefaultTopN(t *testing.T) {
	renderer := &fakeRenderer{body: []byte("widget")}
	svc, _, _, widgetID := newServiceFixture(t, renderer)
	svc.WithDefaultTopN(3)

	var buf bytes.Buffer
	res, err := svc.RenderWidget(context.Background(), widgetID, &buf)
	if err != nil {
		t.Fatalf("RenderWidget failed: %v", err)
	}

	// The seeded widget leaves TopN at 0, so the service default applies.
	if got := len(res.Records.Top); got != 3 {
		t.Errorf("Expected top subset of 3, got %d", got)
	}
	if got := len(res.Records.Records); got <= 3 {
		t.Errorf("Top subset must not filter the full record set, got %d records", got)
	}
}

func TestRenderWidget_DegradesOnInvalidMapping(t *testing.T) {
	renderer := &fakeRenderer{}
	svc, kit, recorder, _ := newServiceFixture(t, renderer)

	// A widget whose negotiated mapping lost its category role.
	broken, err := kit.SeedWidget("broken")
	if err != nil {
		t.Fatalf("Seeding widget failed: %v", err)
	}
	broken.Mapping = table.RoleMapping{Current: testkit.ColRevenue}
	if err := kit.Widgets.Update(context.Background(), broken); err != nil {
		t.Fatalf("Updating widget failed: %v", err)
	}

	var buf bytes.Buffer
	res, err := svc.RenderWidget(context.Background(), broken.ID, &buf)
	if err != nil {
		t.Fatalf("Recoverable failures must not error, got %v", err)
	}
	if !res.Degraded {
		t.Error("Expected degraded result")
	}
	if len(res.Records.Records) != 0 {
		t.Errorf("Expected empty record set, got %d records", len(res.Records.Records))
	}
	if renderer.renders != 0 {
		t.Error("Renderer must not run for a degraded widget")
	}

	// No render-error signal: the failure is recoverable.
	want := []string{"started", "complete"}
	if got := recorder.Kinds(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected lifecycle %v, got %v", want, got)
	}
}

func TestRenderWidget_RendererError(t *testing.T) {
	rendererErr := errors.New("canvas unavailable")
	svc, _, recorder, widgetID := newServiceFixture(t, &fakeRenderer{err: rendererErr})

	var buf bytes.Buffer
	res, err := svc.RenderWidget(context.Background(), widgetID, &buf)
	if !errors.Is(err, rendererErr) {
		t.Fatalf("Expected renderer error, got %v", err)
	}
	if res == nil || len(res.Records.Records) == 0 {
		t.Error("Derived records should survive a renderer failure")
	}

	want := []string{"started", "error", "complete"}
	if got := recorder.Kinds(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected lifecycle %v, got %v", want, got)
	}
}

func TestRenderWidget_RendererPanicIsContained(t *testing.T) {
	svc, _, recorder, widgetID := newServiceFixture(t, &fakeRenderer{panics: true})

	var buf bytes.Buffer
	_, err := svc.RenderWidget(context.Background(), widgetID, &buf)
	if !errors.Is(err, core.ErrRenderFailed) {
		t.Fatalf("Expected ErrRenderFailed from contained panic, got %v", err)
	}

	// render-complete still fires after the panic.
	want := []string{"started", "error", "complete"}
	if got := recorder.Kinds(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected lifecycle %v, got %v", want, got)
	}
}

func TestRenderWidget_UnknownWidget(t *testing.T) {
	svc, _, recorder, _ := newServiceFixture(t, &fakeRenderer{})

	var buf bytes.Buffer
	_, err := svc.RenderWidget(context.Background(), core.WidgetID("nope"), &buf)
	if !core.IsNotFoundError(err) {
		t.Fatalf("Expected not-found error, got %v", err)
	}

	want := []string{"started", "error", "complete"}
	if got := recorder.Kinds(); !reflect.DeepEqual(got, want) {
		t.Errorf("Expected lifecycle %v, got %v", want, got)
	}
}

func TestRenderAll(t *testing.T) {
	renderer := &fakeRenderer{body: []byte("x")}
	svc, kit, _, first := newServiceFixture(t, renderer)
	second, err := kit.SeedWidget("second")
	if err != nil {
		t.Fatalf("Seeding widget failed: %v", err)
	}

	rendered, err := svc.RenderAll(context.Background(), []core.WidgetID{first, second.ID, "missing"})
	if err != nil {
		t.Fatalf("RenderAll failed: %v", err)
	}
	if len(rendered) != 3 {
		t.Fatalf("Expected 3 entries, got %d", len(rendered))
	}
	if rendered[0].Result == nil || rendered[1].Result == nil {
		t.Error("Expected results for seeded widgets")
	}
	if rendered[2].Result != nil {
		t.Error("Missing widget must yield a nil result, not abort the batch")
	}
}
