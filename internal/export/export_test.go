package export_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/agrofair/portal/internal/adapters/narrative"
	"github.com/agrofair/portal/internal/adapters/render"
	"github.com/agrofair/portal/internal/domain/model"
	export "github.com/agrofair/portal/internal/export"
	"github.com/agrofair/portal/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
)

func TestMain(m *testing.M) {
	_ = logger.Init()
	os.Exit(m.Run())
}

// Mock implementations for testing

type mockSource struct {
	records []model.Exhibitor
	err     error
}

func (m *mockSource) ListExhibitors(ctx context.Context) ([]model.Exhibitor, error) {
	return m.records, m.err
}

type mockProvider struct {
	report  narrative.Report
	err     error
	started chan struct{} // closed-once signal that Generate was entered
	release chan struct{} // blocks Generate until closed, when non-nil
	once    sync.Once
}

func (m *mockProvider) Generate(ctx context.Context, records []model.Exhibitor, totals narrative.Totals) (narrative.Report, error) {
	if m.started != nil {
		m.once.Do(func() { close(m.started) })
	}
	if m.release != nil {
		<-m.release
	}
	return m.report, m.err
}

type mockView struct {
	mu       sync.Mutex
	mode     render.ViewMode
	entered  int
	exited   int
	enterErr error
	lastData render.ReportData
}

func newMockView() *mockView {
	return &mockView{mode: render.ModeInteractive}
}

func (m *mockView) Mode() render.ViewMode {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.mode
}

func (m *mockView) EnterDocumentMode(ctx context.Context, data render.ReportData) (render.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.enterErr != nil {
		return render.Document{}, m.enterErr
	}
	m.mode = render.ModeDocument
	m.entered++
	m.lastData = data
	return render.Document{HTML: []byte("<html></html>"), WidthPX: render.PageWidthPX}, nil
}

func (m *mockView) ExitDocumentMode() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mode = render.ModeInteractive
	m.exited++
}

type mockRasterizer struct {
	mu        sync.Mutex
	available bool
	artifact  []byte
	err       error
	renders   int
}

func (m *mockRasterizer) Available(ctx context.Context) bool {
	return m.available
}

func (m *mockRasterizer) Render(ctx context.Context, doc render.Document, opts render.Options) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.renders++
	return m.artifact, m.err
}

type mockSink struct {
	mu       sync.Mutex
	saved    map[string][]byte
	err      error
	lastName string
}

func newMockSink() *mockSink {
	return &mockSink{saved: make(map[string][]byte)}
}

func (m *mockSink) Save(ctx context.Context, filename string, artifact []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return "", m.err
	}
	m.saved[filename] = artifact
	m.lastName = filename
	return "exports/" + filename, nil
}

func fixedClock() func() time.Time {
	at := time.Date(2026, 7, 15, 10, 30, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func TestOrchestrator_Export(t *testing.T) {
	Convey("Given a fully working pipeline", t, func() {
		source := &mockSource{records: []model.Exhibitor{
			{ID: "1", Name: "A", City: "Porto Velho", BusinessVolume: 1000, Visitors: 10},
		}}
		provider := &mockProvider{report: narrative.Report{Summary: "resumo", Recommendations: []string{"r1"}}}
		view := newMockView()
		raster := &mockRasterizer{available: true, artifact: []byte("%PDF")}
		sink := newMockSink()

		o := export.New(source, provider, view, raster, sink, export.WithClock(fixedClock()))

		Convey("When running one export cycle", func() {
			result, err := o.Export(context.Background())

			Convey("Then it completes with an artifact", func() {
				So(err, ShouldBeNil)
				So(result.Error, ShouldBeEmpty)
				So(result.ArtifactPath, ShouldEqual, "exports/Relatorio_AGROFAIR_2026-07-15.pdf")
				So(result.NarrativeIncluded, ShouldBeTrue)
			})

			Convey("And the artifact was saved under the dated filename", func() {
				So(sink.lastName, ShouldEqual, "Relatorio_AGROFAIR_2026-07-15.pdf")
				So(sink.saved[sink.lastName], ShouldResemble, []byte("%PDF"))
			})

			Convey("And the view is back in interactive mode", func() {
				So(view.Mode(), ShouldEqual, render.ModeInteractive)
				So(view.entered, ShouldEqual, 1)
				So(view.exited, ShouldEqual, 1)
			})

			Convey("And the machine is idle again", func() {
				So(o.State(), ShouldEqual, export.StateIdle)
				So(o.LastResult(), ShouldNotBeNil)
				So(o.LastResult().ArtifactPath, ShouldEqual, result.ArtifactPath)
			})

			Convey("And the narrative is retained for redisplay", func() {
				So(o.Narrative(), ShouldNotBeNil)
				So(o.Narrative().Summary, ShouldEqual, "resumo")
			})
		})
	})
}

func TestOrchestrator_NarrativeFailure(t *testing.T) {
	Convey("Given a narrative provider that always fails", t, func() {
		source := &mockSource{}
		provider := &mockProvider{err: errors.New("model unavailable")}
		view := newMockView()
		raster := &mockRasterizer{available: true, artifact: []byte("%PDF")}
		sink := newMockSink()

		o := export.New(source, provider, view, raster, sink, export.WithClock(fixedClock()))

		Convey("When running an export cycle", func() {
			result, err := o.Export(context.Background())

			Convey("Then the export still completes, without the narrative", func() {
				So(err, ShouldBeNil)
				So(result.Error, ShouldBeEmpty)
				So(result.ArtifactPath, ShouldNotBeEmpty)
				So(result.NarrativeIncluded, ShouldBeFalse)
			})

			Convey("And no narrative is retained", func() {
				So(o.Narrative(), ShouldBeNil)
			})

			Convey("And the report rendered without a narrative section", func() {
				So(view.lastData.Narrative, ShouldBeNil)
			})
		})
	})
}

func TestOrchestrator_RasterizerUnavailable(t *testing.T) {
	Convey("Given a rasterizer that is not available", t, func() {
		source := &mockSource{}
		provider := &mockProvider{}
		view := newMockView()
		raster := &mockRasterizer{available: false}
		sink := newMockSink()

		o := export.New(source, provider, view, raster, sink)

		Convey("When running an export cycle", func() {
			result, err := o.Export(context.Background())

			Convey("Then the cycle fails without rendering", func() {
				So(err, ShouldBeNil)
				So(result.Error, ShouldNotBeEmpty)
				So(result.ArtifactPath, ShouldBeEmpty)
				So(raster.renders, ShouldEqual, 0)
				So(len(sink.saved), ShouldEqual, 0)
			})

			Convey("And the view is restored to interactive mode", func() {
				So(view.Mode(), ShouldEqual, render.ModeInteractive)
				So(view.exited, ShouldEqual, 1)
			})

			Convey("And the machine returns to idle so a retry is possible", func() {
				So(o.State(), ShouldEqual, export.StateIdle)
			})
		})
	})
}

func TestOrchestrator_SourceFailure(t *testing.T) {
	Convey("Given a record source that fails", t, func() {
		source := &mockSource{err: errors.New("db gone")}
		view := newMockView()

		o := export.New(source, &mockProvider{}, view, &mockRasterizer{available: true}, newMockSink())

		Convey("When running an export cycle", func() {
			result, err := o.Export(context.Background())

			Convey("Then it fails before touching the view", func() {
				So(err, ShouldBeNil)
				So(result.Error, ShouldContainSubstring, "db gone")
				So(view.entered, ShouldEqual, 0)
				So(view.exited, ShouldEqual, 0)
			})

			Convey("And the machine is idle again", func() {
				So(o.State(), ShouldEqual, export.StateIdle)
			})
		})
	})
}

func TestOrchestrator_SingleFlight(t *testing.T) {
	Convey("Given a cycle blocked inside narrative generation", t, func() {
		started := make(chan struct{})
		release := make(chan struct{})
		provider := &mockProvider{started: started, release: release}
		view := newMockView()
		raster := &mockRasterizer{available: true, artifact: []byte("%PDF")}
		sink := newMockSink()

		o := export.New(&mockSource{}, provider, view, raster, sink)

		So(o.Trigger(context.Background()), ShouldBeNil)
		<-started

		Convey("When triggering again while it runs", func() {
			err := o.Trigger(context.Background())

			Convey("Then the second trigger is rejected and only one render happens", func() {
				So(err, ShouldEqual, export.ErrInFlight)

				close(release)
				So(waitForIdle(o, 2*time.Second), ShouldBeTrue)
				So(raster.renders, ShouldEqual, 1)
				So(len(sink.saved), ShouldEqual, 1)
			})
		})
	})
}

func waitForIdle(o *export.Orchestrator, timeout time.Duration) bool {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if o.State() == export.StateIdle && o.LastResult() != nil {
			return true
		}
		time.Sleep(5 * time.Millisecond)
	}
	return false
}
