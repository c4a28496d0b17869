package api_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/okian/catbreeds/internal/adapters/catapi"
	"github.com/okian/catbreeds/internal/adapters/http/api"
	app "github.com/okian/catbreeds/internal/app"
	"github.com/okian/catbreeds/internal/domain/cat"
	"github.com/okian/catbreeds/pkg/logger"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/sony/gobreaker"
)

type mockCatalog struct {
	page     cat.Page
	cats     []cat.Cat
	err      error
	lastName string
	lastOff  int
}

func (m *mockCatalog) ListCats(_ context.Context, offset int) (cat.Page, error) {
	m.lastOff = offset
	return m.page, m.err
}

func (m *mockCatalog) CatsByBreed(_ context.Context, name string, offset int) ([]cat.Cat, error) {
	m.lastName = name
	m.lastOff = offset
	return m.cats, m.err
}

type mockStats struct{}

func (mockStats) GetStats() map[string]interface{} {
	return map[string]interface{}{"started": true}
}

func newMux(deps api.Dependencies) *http.ServeMux {
	mux := http.NewServeMux()
	api.NewServer(deps, mockStats{}).Register(context.Background(), mux)
	return mux
}

func do(mux http.Handler, target string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, httptest.NewRequest(http.MethodGet, target, nil))
	return w
}

func decodeError(w *httptest.ResponseRecorder) map[string]string {
	var body map[string]string
	_ = json.Unmarshal(w.Body.Bytes(), &body)
	return body
}

func TestCatsList(t *testing.T) {
	Convey("Given an API server over a catalog", t, func() {
		deps := &mockCatalog{page: cat.Page{Cats: []cat.Cat{{Name: "Abyssinian"}}, PageSize: 20}}
		mux := newMux(deps)

		Convey("When GET /api/cats has no offset", func() {
			w := do(mux, "/api/cats")

			Convey("Then it should list from offset 0", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastOff, ShouldEqual, 0)
				So(w.Header().Get("Content-Type"), ShouldStartWith, "application/json")

				var page cat.Page
				So(json.Unmarshal(w.Body.Bytes(), &page), ShouldBeNil)
				So(page.Cats, ShouldHaveLength, 1)
				So(page.Cats[0].Name, ShouldEqual, "Abyssinian")
			})
		})

		Convey("When GET /api/cats carries an offset", func() {
			w := do(mux, "/api/cats?offset=40")

			Convey("Then the offset should be forwarded", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastOff, ShouldEqual, 40)
			})
		})

		Convey("When the offset is invalid", func() {
			for _, target := range []string{"/api/cats?offset=-1", "/api/cats?offset=abc"} {
				w := do(mux, target)
				So(w.Code, ShouldEqual, http.StatusBadRequest)
				So(decodeError(w)["code"], ShouldEqual, "bad_request")
			}
		})

		Convey("When POSTing to the list", func() {
			w := httptest.NewRecorder()
			mux.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/cats", nil))

			Convey("Then the method should not be allowed", func() {
				So(w.Code, ShouldEqual, http.StatusMethodNotAllowed)
			})
		})
	})
}

func TestCatsByBreed(t *testing.T) {
	Convey("Given an API server over a catalog", t, func() {
		deps := &mockCatalog{cats: []cat.Cat{{Name: "Maine Coon", Origin: "United States"}}}
		mux := newMux(deps)

		Convey("When the breed name is percent-encoded", func() {
			w := do(mux, "/api/cats/Maine%20Coon?offset=3")

			Convey("Then the decoded name should reach the catalog", func() {
				So(w.Code, ShouldEqual, http.StatusOK)
				So(deps.lastName, ShouldEqual, "Maine Coon")
				So(deps.lastOff, ShouldEqual, 3)

				var cats []cat.Cat
				So(json.Unmarshal(w.Body.Bytes(), &cats), ShouldBeNil)
				So(cats[0].Origin, ShouldEqual, "United States")
			})
		})

		Convey("When the catalog reports not found", func() {
			deps.err = app.ErrNotFound
			w := do(mux, "/api/cats/Nope")

			Convey("Then it should respond 404", func() {
				So(w.Code, ShouldEqual, http.StatusNotFound)
				So(decodeError(w)["code"], ShouldEqual, "not_found")
			})
		})

		Convey("When the upstream returned an HTTP error", func() {
			deps.err = &catapi.APIError{StatusCode: 400, Message: "Invalid API Key."}
			w := do(mux, "/api/cats/Ragdoll")

			Convey("Then it should respond 502 with the upstream message", func() {
				So(w.Code, ShouldEqual, http.StatusBadGateway)
				body := decodeError(w)
				So(body["code"], ShouldEqual, "upstream_error")
				So(body["message"], ShouldEqual, "Invalid API Key.")
			})
		})

		Convey("When the breaker is open", func() {
			deps.err = gobreaker.ErrOpenState
			w := do(mux, "/api/cats/Ragdoll")

			Convey("Then it should respond 503", func() {
				So(w.Code, ShouldEqual, http.StatusServiceUnavailable)
			})
		})

		Convey("When an unexpected error occurs", func() {
			deps.err = errors.New("dial tcp: secret host")
			w := do(mux, "/api/cats/Ragdoll")

			Convey("Then it should respond 500 without leaking details", func() {
				So(w.Code, ShouldEqual, http.StatusInternalServerError)
				body := decodeError(w)
				So(body["code"], ShouldEqual, "internal_error")
				So(body["message"], ShouldNotContainSubstring, "secret")
			})
		})
	})
}

func TestHealthAndStats(t *testing.T) {
	Convey("Given an API server", t, func() {
		mux := newMux(&mockCatalog{})

		Convey("Then /healthz should serve metrics", func() {
			w := do(mux, "/healthz")
			So(w.Code, ShouldEqual, http.StatusOK)
		})

		Convey("Then /stats should serve service stats", func() {
			w := do(mux, "/stats")
			So(w.Code, ShouldEqual, http.StatusOK)
			var stats map[string]interface{}
			So(json.Unmarshal(w.Body.Bytes(), &stats), ShouldBeNil)
			So(stats["started"], ShouldEqual, true)
		})
	})
}

func TestRegisterWithNilMux(t *testing.T) {
	Convey("Given a nil mux", t, func() {
		srv := api.NewServer(&mockCatalog{}, mockStats{})
		So(func() { srv.Register(context.Background(), nil) }, ShouldPanic)
	})
}

func TestMiddleware(t *testing.T) {
	Convey("Given the request id middleware", t, func() {
		var seen string
		h := api.RequestID(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			seen = api.RequestIDFrom(r.Context())
		}))

		Convey("When no id is supplied", func() {
			w := httptest.NewRecorder()
			h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

			Convey("Then one should be generated and echoed", func() {
				So(seen, ShouldNotBeEmpty)
				So(w.Header().Get(api.RequestIDHeader), ShouldEqual, seen)
			})
		})

		Convey("When an id is supplied", func() {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.Header.Set(api.RequestIDHeader, "abc-123")
			h.ServeHTTP(w, req)

			Convey("Then it should be reused", func() {
				So(seen, ShouldEqual, "abc-123")
				So(w.Header().Get(api.RequestIDHeader), ShouldEqual, "abc-123")
			})
		})
	})

	Convey("Given the recover middleware", t, func() {
		log, err := logger.New(&discard{}, logger.FormatText)
		So(err, ShouldBeNil)
		h := api.Recover(log)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
			panic("boom")
		}))

		Convey("Then a panic should become a 500", func() {
			w := httptest.NewRecorder()
			So(func() { h.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil)) }, ShouldNotPanic)
			So(w.Code, ShouldEqual, http.StatusInternalServerError)
			So(decodeError(w)["code"], ShouldEqual, "internal_error")
		})
	})
}

type discard struct{}

func (*discard) Write(p []byte) (int, error) { return len(p), nil }
