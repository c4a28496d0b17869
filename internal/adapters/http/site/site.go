// Package site serves the server-rendered cat breed views.
package site

import (
	"bytes"
	"context"
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/catbreeds/internal/adapters/catapi"
	app "github.com/okian/catbreeds/internal/app"
	"github.com/okian/catbreeds/internal/domain/cat"
	"github.com/okian/catbreeds/pkg/logger"
	"github.com/okian/catbreeds/pkg/metrics"
)

//go:embed templates/*.html
var templateFS embed.FS

//go:embed static/*
var staticFS embed.FS

// Messages shown on error pages.
const (
	msgNotFound     = "No cats found"
	msgPageNotFound = "Page not found"
	msgBadOffset    = "offset must be a non-negative integer"
	msgInternal     = "Something went wrong. Please try again later."
)

// Dependencies are the catalog lookups the views render.
type Dependencies interface {
	ListCats(ctx context.Context, offset int) (cat.Page, error)
	CatsByBreed(ctx context.Context, name string, offset int) ([]cat.Cat, error)
}

// Option configures the site handlers.
type Option func(*handlers)

// WithLogger sets the logger used for render and upstream failures.
func WithLogger(l logger.Logger) Option {
	return func(h *handlers) {
		if l != nil {
			h.logger = l
		}
	}
}

type handlers struct {
	deps   Dependencies
	logger logger.Logger
	pages  map[string]*template.Template
}

// Register mounts the views and /static/ on mux.
func Register(_ context.Context, mux *http.ServeMux, deps Dependencies, opts ...Option) {
	if mux == nil {
		panic("mux is nil")
	}
	h := &handlers{deps: deps, pages: mustParsePages()}
	for _, opt := range opts {
		opt(h)
	}
	if h.logger == nil {
		h.logger, _ = logger.New(io.Discard, logger.FormatText)
	}

	views := map[string]http.HandlerFunc{
		RouteHome:       h.home,
		RouteCats:       h.cats,
		RouteCatDetails: h.catDetails,
	}
	for _, r := range routes {
		pattern := "GET " + r.Path
		if r.Path == "/" {
			pattern = "GET /{$}"
		}
		mux.HandleFunc(pattern, instrument(views[r.Name], r.Name))
	}

	static, err := fs.Sub(staticFS, "static")
	if err != nil {
		panic(err)
	}
	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(static))))
	mux.HandleFunc("/", instrument(h.notFound, "not_found"))
}

func mustParsePages() map[string]*template.Template {
	funcs := template.FuncMap{"route": routeFunc}
	pages := make(map[string]*template.Template)
	for _, name := range []string{"home", "cats", "cat", "error"} {
		t := template.Must(template.New("layout.html").Funcs(funcs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html"))
		pages[name] = t
	}
	return pages
}

type homeView struct {
	Title string
}

type catsView struct {
	Title string
	Page  cat.Page
}

type catView struct {
	Title string
	Name  string
	Cats  []cat.Cat
}

type errorView struct {
	Title   string
	Status  int
	Message string
}

func (h *handlers) home(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, http.StatusOK, "home", homeView{Title: "Cat breeds"})
}

func (h *handlers) cats(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	if name := strings.TrimSpace(q.Get("name")); name != "" {
		target, err := PathFor(RouteCatDetails, map[string]string{"name": name})
		if err != nil {
			h.fail(w, r, err)
			return
		}
		http.Redirect(w, r, target, http.StatusSeeOther)
		return
	}

	offset := 0
	if raw := strings.TrimSpace(q.Get("offset")); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			h.renderError(w, r, http.StatusBadRequest, msgBadOffset)
			return
		}
		offset = n
	}

	page, err := h.deps.ListCats(r.Context(), offset)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "cats", catsView{Title: "Cats", Page: page})
}

func (h *handlers) catDetails(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	cats, err := h.deps.CatsByBreed(r.Context(), name, 0)
	if err != nil {
		h.fail(w, r, err)
		return
	}
	h.render(w, r, http.StatusOK, "cat", catView{Title: name, Name: name, Cats: cats})
}

func (h *handlers) notFound(w http.ResponseWriter, r *http.Request) {
	h.renderError(w, r, http.StatusNotFound, msgPageNotFound)
}

// fail maps a lookup error to an error page. Only upstream API messages are
// shown to the user.
func (h *handlers) fail(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, app.ErrNotFound):
		h.renderError(w, r, http.StatusNotFound, msgNotFound)
	case errors.Is(err, app.ErrInvalidOffset), errors.Is(err, catapi.ErrEmptyBreed):
		h.renderError(w, r, http.StatusBadRequest, err.Error())
	case catapi.IsAPIError(err):
		h.renderError(w, r, http.StatusBadGateway, err.Error())
	default:
		h.logger.Error(r.Context(), "view lookup failed",
			logger.String("path", r.URL.Path), logger.Error(err))
		h.renderError(w, r, http.StatusInternalServerError, msgInternal)
	}
}

func (h *handlers) renderError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	h.render(w, r, status, "error", errorView{
		Title:   http.StatusText(status),
		Status:  status,
		Message: msg,
	})
}

// render executes into a buffer first so a template failure still yields a
// clean 500.
func (h *handlers) render(w http.ResponseWriter, r *http.Request, status int, page string, data any) {
	var buf bytes.Buffer
	if err := h.pages[page].ExecuteTemplate(&buf, "layout.html", data); err != nil {
		h.logger.Error(r.Context(), "render failed",
			logger.String("page", page), logger.Error(fmt.Errorf("%w: %w", ErrRender, err)))
		http.Error(w, msgInternal, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (s *statusRecorder) WriteHeader(code int) {
	s.status = code
	s.ResponseWriter.WriteHeader(code)
}

func instrument(next http.HandlerFunc, view string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next(rec, r)
		metrics.RecordHTTPRequest("view_"+view, r.Method, strconv.Itoa(rec.status))
	}
}
