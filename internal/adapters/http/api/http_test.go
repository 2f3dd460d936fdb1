package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	api "github.com/agrofair/portal/internal/adapters/http/api"
	"github.com/agrofair/portal/internal/adapters/narrative"
	"github.com/agrofair/portal/internal/adapters/render"
	repository "github.com/agrofair/portal/internal/adapters/repository"
	"github.com/agrofair/portal/internal/domain/aggregate"
	"github.com/agrofair/portal/internal/domain/model"
	"github.com/agrofair/portal/internal/domain/projection"
	"github.com/agrofair/portal/internal/export"
	. "github.com/smartystreets/goconvey/convey"
)

// mockDeps backs the handlers with the in-memory store and a canned
// export machine.
type mockDeps struct {
	store *repository.MemoryStore

	triggerErr  error
	exportState export.State
	lastResult  *export.Result
	narrative   *narrative.Report
	viewMode    render.ViewMode
	triggered   int
}

func newMockDeps() *mockDeps {
	return &mockDeps{
		store:       repository.NewMemoryStore(),
		exportState: export.StateIdle,
		viewMode:    render.ModeInteractive,
	}
}

func (m *mockDeps) ListExhibitors(ctx context.Context) ([]model.Exhibitor, error) {
	return m.store.ListExhibitors(ctx)
}

func (m *mockDeps) CreateExhibitor(ctx context.Context, ex model.Exhibitor) (model.Exhibitor, error) {
	return m.store.CreateExhibitor(ctx, ex)
}

func (m *mockDeps) UpdateExhibitor(ctx context.Context, ex model.Exhibitor) (model.Exhibitor, error) {
	return m.store.UpdateExhibitor(ctx, ex)
}

func (m *mockDeps) DeleteExhibitor(ctx context.Context, id string) error {
	return m.store.DeleteExhibitor(ctx, id)
}

func (m *mockDeps) ListPhotos(ctx context.Context) ([]model.GalleryPhoto, error) {
	return m.store.ListPhotos(ctx)
}

func (m *mockDeps) AddPhoto(ctx context.Context, photo model.GalleryPhoto) (model.GalleryPhoto, error) {
	return m.store.AddPhoto(ctx, photo)
}

func (m *mockDeps) DeletePhoto(ctx context.Context, id string) error {
	return m.store.DeletePhoto(ctx, id)
}

func (m *mockDeps) Stats(ctx context.Context) (aggregate.Stats, error) {
	records, err := m.store.ListExhibitors(ctx)
	if err != nil {
		return aggregate.Stats{}, err
	}
	return aggregate.Compute(records), nil
}

func (m *mockDeps) Projection(ctx context.Context) (projection.Projection, error) {
	stats, err := m.Stats(ctx)
	if err != nil {
		return projection.Projection{}, err
	}
	return projection.Project(stats), nil
}

func (m *mockDeps) TriggerExport(ctx context.Context) error {
	if m.triggerErr != nil {
		return m.triggerErr
	}
	m.triggered++
	return nil
}

func (m *mockDeps) ExportState() export.State        { return m.exportState }
func (m *mockDeps) LastExportResult() *export.Result { return m.lastResult }
func (m *mockDeps) LastNarrative() *narrative.Report { return m.narrative }
func (m *mockDeps) ViewMode() render.ViewMode        { return m.viewMode }

func newTestServer(deps api.Dependencies) *httptest.Server {
	mux := http.NewServeMux()
	api.NewServer(deps).Register(context.Background(), mux)
	return httptest.NewServer(mux)
}

func postJSON(t *testing.T, url, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(url, "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("POST %s: %v", url, err)
	}
	return resp
}

func decode[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	defer resp.Body.Close()
	var v T
	if err := json.NewDecoder(resp.Body).Decode(&v); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	return v
}

func TestExhibitorEndpoints(t *testing.T) {
	Convey("Given a running API server", t, func() {
		deps := newMockDeps()
		srv := newTestServer(deps)
		defer srv.Close()

		validBody := `{"name":"Sítio Boa Esperança","category":"Agricultura familiar","products":"Hortaliças","city":"Porto Velho","business_volume":45000,"visitors":320}`

		Convey("When creating a valid exhibitor", func() {
			resp := postJSON(t, srv.URL+"/exhibitors", validBody)

			Convey("Then it answers 201 with the stored record", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusCreated)
				created := decode[map[string]any](t, resp)
				So(created["id"], ShouldNotBeEmpty)
				So(created["name"], ShouldEqual, "Sítio Boa Esperança")
			})
		})

		Convey("When posting malformed JSON", func() {
			resp := postJSON(t, srv.URL+"/exhibitors", `{"name":`)
			defer resp.Body.Close()

			Convey("Then it answers 400", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When posting an unknown category", func() {
			resp := postJSON(t, srv.URL+"/exhibitors", `{"name":"X","category":"Foguetes","city":"Jaru"}`)
			defer resp.Body.Close()

			Convey("Then it answers 400", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When listing after a create", func() {
			resp := postJSON(t, srv.URL+"/exhibitors", validBody)
			resp.Body.Close()

			listResp, err := http.Get(srv.URL + "/exhibitors")
			So(err, ShouldBeNil)

			Convey("Then the record is in the listing", func() {
				So(listResp.StatusCode, ShouldEqual, http.StatusOK)
				records := decode[[]map[string]any](t, listResp)
				So(records, ShouldHaveLength, 1)
				So(records[0]["city"], ShouldEqual, "Porto Velho")
			})
		})

		Convey("When updating a record that does not exist", func() {
			req, err := http.NewRequest(http.MethodPut, srv.URL+"/exhibitors/missing", strings.NewReader(validBody))
			So(err, ShouldBeNil)
			req.Header.Set("Content-Type", "application/json")
			resp, err := http.DefaultClient.Do(req)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then it answers 404 with the not_found code", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
				body := decode[map[string]any](t, resp)
				So(body["code"], ShouldEqual, "not_found")
			})
		})

		Convey("When deleting an existing record", func() {
			resp := postJSON(t, srv.URL+"/exhibitors", validBody)
			created := decode[map[string]any](t, resp)
			id, _ := created["id"].(string)

			req, err := http.NewRequest(http.MethodDelete, srv.URL+"/exhibitors/"+id, nil)
			So(err, ShouldBeNil)
			delResp, err := http.DefaultClient.Do(req)
			So(err, ShouldBeNil)
			defer delResp.Body.Close()

			Convey("Then it answers 204", func() {
				So(delResp.StatusCode, ShouldEqual, http.StatusNoContent)
			})
		})
	})
}

func TestStatsAndProjectionEndpoints(t *testing.T) {
	Convey("Given a server with two seeded records", t, func() {
		deps := newMockDeps()
		srv := newTestServer(deps)
		defer srv.Close()

		ctx := context.Background()
		_, err := deps.store.CreateExhibitor(ctx, model.Exhibitor{Name: "A", Category: model.CategoryCafe, City: "Cacoal", BusinessVolume: 3000, Visitors: 10})
		So(err, ShouldBeNil)
		_, err = deps.store.CreateExhibitor(ctx, model.Exhibitor{Name: "B", Category: model.CategoryCarne, City: "Jaru", BusinessVolume: 1000, Visitors: 5})
		So(err, ShouldBeNil)

		Convey("When fetching /stats", func() {
			resp, err := http.Get(srv.URL + "/stats")
			So(err, ShouldBeNil)

			Convey("Then the aggregate totals come back", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				stats := decode[aggregate.Stats](t, resp)
				So(stats.TotalVolume, ShouldEqual, 4000)
				So(stats.TotalVisitors, ShouldEqual, 15)
				So(stats.ExhibitorCount, ShouldEqual, 2)
				So(stats.MeanTicket, ShouldEqual, 2000)
				So(stats.TopCities, ShouldHaveLength, 2)
				So(stats.TopCities[0].Key, ShouldEqual, "Cacoal")
			})
		})

		Convey("When fetching /projection", func() {
			resp, err := http.Get(srv.URL + "/projection")
			So(err, ShouldBeNil)

			Convey("Then the growth multipliers were applied", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				proj := decode[projection.Projection](t, resp)
				So(proj.Volume, ShouldAlmostEqual, 4800)
				So(proj.Visitors, ShouldEqual, 17)
				So(proj.Exhibitors, ShouldEqual, 2)
			})
		})
	})
}

func TestExportEndpoints(t *testing.T) {
	Convey("Given a server with an idle export machine", t, func() {
		deps := newMockDeps()
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When triggering an export", func() {
			resp := postJSON(t, srv.URL+"/export", "")

			Convey("Then it answers 202 accepted", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusAccepted)
				ack := decode[map[string]any](t, resp)
				So(ack["status"], ShouldEqual, "accepted")
				So(deps.triggered, ShouldEqual, 1)
			})
		})

		Convey("When an export is already running", func() {
			deps.triggerErr = export.ErrInFlight
			resp := postJSON(t, srv.URL+"/export", "")

			Convey("Then it answers 409 with the in-flight code", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusConflict)
				body := decode[map[string]any](t, resp)
				So(body["code"], ShouldEqual, "export_in_flight")
			})
		})

		Convey("When polling export status", func() {
			deps.exportState = export.StateRendering
			deps.viewMode = render.ModeDocument
			deps.lastResult = &export.Result{ArtifactPath: "exports/r.pdf", NarrativeIncluded: true}
			deps.narrative = &narrative.Report{Summary: "resumo"}

			resp, err := http.Get(srv.URL + "/export")
			So(err, ShouldBeNil)

			Convey("Then state, mode, result, and narrative are reported", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				status := decode[map[string]any](t, resp)
				So(status["state"], ShouldEqual, "rendering")
				So(status["view_mode"], ShouldEqual, "document")

				result, _ := status["last_result"].(map[string]any)
				So(result["artifact_path"], ShouldEqual, "exports/r.pdf")

				narr, _ := status["narrative"].(map[string]any)
				So(narr["summary"], ShouldEqual, "resumo")
			})
		})
	})
}

func TestGalleryEndpoints(t *testing.T) {
	Convey("Given a running API server", t, func() {
		deps := newMockDeps()
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When adding a photo", func() {
			resp := postJSON(t, srv.URL+"/photos", `{"url":"https://example.com/a.jpg","title":"Abertura","category":"Evento","date":"2026-07-10"}`)

			Convey("Then it answers 201 and the photo lists", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusCreated)
				created := decode[map[string]any](t, resp)
				So(created["id"], ShouldNotBeEmpty)

				listResp, err := http.Get(srv.URL + "/photos")
				So(err, ShouldBeNil)
				photos := decode[[]map[string]any](t, listResp)
				So(photos, ShouldHaveLength, 1)
			})
		})

		Convey("When adding a photo without a URL", func() {
			resp := postJSON(t, srv.URL+"/photos", `{"title":"Sem foto"}`)
			defer resp.Body.Close()

			Convey("Then it answers 400", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusBadRequest)
			})
		})

		Convey("When deleting a photo that does not exist", func() {
			req, err := http.NewRequest(http.MethodDelete, srv.URL+"/photos/missing", nil)
			So(err, ShouldBeNil)
			resp, err := http.DefaultClient.Do(req)
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then it answers 404", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestHealthAndDashboard(t *testing.T) {
	Convey("Given a running API server", t, func() {
		deps := newMockDeps()
		srv := newTestServer(deps)
		defer srv.Close()

		Convey("When fetching /healthz", func() {
			resp, err := http.Get(srv.URL + "/healthz")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the metrics endpoint answers 200", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
			})
		})

		Convey("When fetching /dashboard", func() {
			resp, err := http.Get(srv.URL + "/dashboard")
			So(err, ShouldBeNil)
			defer resp.Body.Close()

			Convey("Then the embedded page is served", func() {
				So(resp.StatusCode, ShouldEqual, http.StatusOK)
				So(resp.Header.Get("Content-Type"), ShouldContainSubstring, "text/html")
			})
		})
	})
}
