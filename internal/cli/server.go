package cli

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/chordial/chordial/pkg/cache"
	"github.com/chordial/chordial/pkg/config"
	"github.com/chordial/chordial/pkg/errors"
	"github.com/chordial/chordial/pkg/graph"
	"github.com/chordial/chordial/pkg/pipeline"
	"github.com/chordial/chordial/pkg/render/chord"
	"github.com/chordial/chordial/pkg/store"
)

// maxRequestBody caps JSON request bodies.
const maxRequestBody = 1 << 20

// server owns the live diagram session shared by all HTTP handlers.
//
// The runner renders artifact bytes through the cache; the diagram
// holds the interactive scene for hit-testing. Both see the same
// dataset and configuration, and particle placement is seeded, so the
// cached artifacts match the scene the tooltips are computed against.
type server struct {
	mu      sync.Mutex
	dataset graph.Dataset
	cfg     config.Config
	diagram *chord.Diagram

	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
}

// newServer builds the session state around an initial dataset and
// configuration.
func newServer(d graph.Dataset, cfg config.Config, ch cache.Cache, st store.Store, logger *log.Logger) *server {
	cfg = cfg.Normalize()

	diagram := chord.New(d, chord.WithConfig(cfg))
	if _, err := diagram.Redraw(); err != nil {
		logger.Error("initial render failed", "error", err)
	}

	keyer := cache.NewScopedKeyer(nil, "serve")
	return &server{
		dataset: d,
		cfg:     cfg,
		diagram: diagram,
		runner:  pipeline.NewRunner(ch, keyer, logger),
		store:   st,
		logger:  logger,
	}
}

// Close releases the diagram backend, the cache, and the store.
func (s *server) Close() {
	ctx, cancel := context.WithTimeout(context.Background(), serveShutdownTimeout)
	defer cancel()

	s.mu.Lock()
	defer s.mu.Unlock()
	_ = s.diagram.Close()
	_ = s.runner.Close()
	_ = s.store.Close(ctx)
}

// routes builds the chi route tree.
func (s *server) routes() http.Handler {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(s.logRequests)
	r.Use(chimw.Recoverer)

	r.Get("/", s.handleIndex)
	r.Get("/healthz", s.handleHealth)
	r.Get("/diagram.svg", s.handleDiagramSVG)
	r.Get("/diagram.png", s.handleDiagramPNG)
	r.Post("/hit", s.handleHit)

	r.Route("/config", func(r chi.Router) {
		r.Get("/", s.handleGetConfig)
		r.Put("/", s.handlePutConfig)
		r.Post("/", s.handlePutConfig)
	})

	r.Route("/diagrams", func(r chi.Router) {
		r.Get("/", s.handleListDiagrams)
		r.Post("/", s.handleSaveDiagram)
		r.Route("/{diagramID}", func(r chi.Router) {
			r.Get("/", s.handleGetDiagram)
			r.Post("/load", s.handleLoadDiagram)
			r.Delete("/", s.handleDeleteDiagram)
		})
	})

	return r
}

// logRequests attaches a request-scoped logger to the context and logs
// one line per request.
func (s *server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		reqLogger := s.logger.With("id", chimw.GetReqID(r.Context()))
		next.ServeHTTP(w, r.WithContext(withLogger(r.Context(), reqLogger)))
		reqLogger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"elapsed", time.Since(start).Round(time.Millisecond))
	})
}

// =============================================================================
// Rendering Handlers
// =============================================================================

func (s *server) handleDiagramSVG(w http.ResponseWriter, r *http.Request) {
	s.serveArtifact(w, r, pipeline.FormatSVG, "image/svg+xml")
}

func (s *server) handleDiagramPNG(w http.ResponseWriter, r *http.Request) {
	s.serveArtifact(w, r, pipeline.FormatPNG, "image/png")
}

// serveArtifact renders the current dataset in one format through the
// cached pipeline and writes the bytes.
func (s *server) serveArtifact(w http.ResponseWriter, r *http.Request, format, contentType string) {
	s.mu.Lock()
	d, cfg := s.dataset, s.cfg
	s.mu.Unlock()

	p := newProgress(loggerFromContext(r.Context()))
	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		Dataset: &d,
		Config:  &cfg,
		Formats: []string{format},
	})
	if err != nil {
		writeError(w, r, err)
		return
	}
	p.done("Rendered " + format)

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(result.Artifacts[format])
}

// =============================================================================
// Hit Testing
// =============================================================================

type hitRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

type hitResponse struct {
	OK      bool           `json:"ok"`
	Tooltip *chord.Tooltip `json:"tooltip,omitempty"`
}

func (s *server) handleHit(w http.ResponseWriter, r *http.Request) {
	var req hitRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}

	s.mu.Lock()
	tip, ok := s.diagram.Hover(req.X, req.Y)
	s.mu.Unlock()

	resp := hitResponse{OK: ok}
	if ok {
		resp.Tooltip = &tip
	}
	writeJSON(w, http.StatusOK, resp)
}

// =============================================================================
// Configuration Handlers
// =============================================================================

func (s *server) handleGetConfig(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	cfg := s.cfg
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, cfg)
}

// handlePutConfig merges a partial JSON document over the current
// configuration. Absent fields keep their values.
func (s *server) handlePutConfig(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()

	next := s.cfg
	if err := decodeJSON(w, r, &next); err != nil {
		writeError(w, r, err)
		return
	}
	next = next.Normalize()
	if err := next.Validate(); err != nil {
		writeError(w, r, err)
		return
	}

	s.cfg = next
	s.diagram.Update(next)
	if _, err := s.diagram.Redraw(); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, next)
}

// =============================================================================
// Saved Diagram Handlers
// =============================================================================

type saveRequest struct {
	Name string `json:"name"`
}

func (s *server) handleSaveDiagram(w http.ResponseWriter, r *http.Request) {
	var req saveRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if req.Name == "" {
		writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "diagram name is required"))
		return
	}

	s.mu.Lock()
	doc := store.New(req.Name, s.dataset, s.cfg)
	s.mu.Unlock()

	if err := s.store.Save(r.Context(), doc); err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, doc.Summarize())
}

func (s *server) handleListDiagrams(w http.ResponseWriter, r *http.Request) {
	summaries, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if summaries == nil {
		summaries = []store.Summary{}
	}
	writeJSON(w, http.StatusOK, summaries)
}

func (s *server) handleGetDiagram(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "diagramID"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// handleLoadDiagram makes a saved diagram the current session state.
func (s *server) handleLoadDiagram(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Get(r.Context(), chi.URLParam(r, "diagramID"))
	if err != nil {
		writeError(w, r, err)
		return
	}

	s.mu.Lock()
	s.dataset = doc.Dataset
	s.cfg = doc.Config.Normalize()
	s.diagram.UpdateData(doc.Dataset)
	s.diagram.Update(s.cfg)
	_, redrawErr := s.diagram.Redraw()
	s.mu.Unlock()

	if redrawErr != nil {
		writeError(w, r, redrawErr)
		return
	}
	writeJSON(w, http.StatusOK, doc.Summarize())
}

func (s *server) handleDeleteDiagram(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "diagramID")); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Misc Handlers
// =============================================================================

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = io.WriteString(w, indexHTML)
}

// =============================================================================
// Response Helpers
// =============================================================================

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body := http.MaxBytesReader(w, r.Body, maxRequestBody)
	if err := json.NewDecoder(body).Decode(v); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, errors.ErrCodeDiagramNotFound):
		status = http.StatusNotFound
	case errors.Is(err, errors.ErrCodeInvalidInput),
		errors.Is(err, errors.ErrCodeInvalidData),
		errors.Is(err, errors.ErrCodeInvalidConfig),
		errors.Is(err, errors.ErrCodeInvalidFormat):
		status = http.StatusBadRequest
	}

	if status >= http.StatusInternalServerError {
		loggerFromContext(r.Context()).Error("request failed", "error", err)
	}
	writeJSON(w, status, map[string]string{"error": errors.UserMessage(err)})
}

// indexHTML is the interactive viewer page: the rendered SVG inline,
// with pointer moves hit-tested server-side for tooltips.
const indexHTML = `<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>chordial</title>
<style>
  body { margin: 0; background: #16213e; color: #eee; font-family: system-ui, sans-serif; }
  header { padding: 12px 20px; font-size: 14px; opacity: 0.8; }
  #stage { display: flex; justify-content: center; }
  #stage svg { max-width: 92vmin; max-height: 92vmin; height: auto; }
  #tooltip { position: absolute; display: none; pointer-events: none;
             background: rgba(10, 14, 30, 0.92); border: 1px solid #444;
             border-radius: 6px; padding: 8px 10px; font-size: 13px;
             max-width: 260px; }
</style>
</head>
<body>
<header>chordial</header>
<div id="stage"></div>
<div id="tooltip"></div>
<script>
const stage = document.getElementById("stage");
const tip = document.getElementById("tooltip");

async function load() {
  const res = await fetch("/diagram.svg");
  stage.innerHTML = await res.text();
}

let pending = false;
stage.addEventListener("mousemove", async (ev) => {
  const svg = stage.querySelector("svg");
  if (!svg || pending) return;
  const box = svg.getBoundingClientRect();
  const vb = svg.viewBox.baseVal;
  const x = (ev.clientX - box.left) * (vb.width / box.width);
  const y = (ev.clientY - box.top) * (vb.height / box.height);

  pending = true;
  try {
    const res = await fetch("/hit", {
      method: "POST",
      headers: {"Content-Type": "application/json"},
      body: JSON.stringify({x, y}),
    });
    const hit = await res.json();
    if (!hit.ok) { tip.style.display = "none"; return; }
    tip.innerHTML = hit.tooltip.html;
    tip.style.left = (ev.pageX + 12) + "px";
    tip.style.top = (ev.pageY + 12) + "px";
    tip.style.display = "block";
  } finally {
    pending = false;
  }
});
stage.addEventListener("mouseleave", () => { tip.style.display = "none"; });

load();
</script>
</body>
</html>
`
