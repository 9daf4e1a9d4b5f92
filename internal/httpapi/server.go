package httpapi

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/skycastapp/skycast/internal/app"
)

// Server exposes the controller's state to the view layer: a polling
// endpoint, an SSE subscription feed, and the input paths (typed query,
// explicit search, voice upload).
type Server struct {
	ctrl      *app.Controller
	provider  app.Provider
	openAIKey string
}

type Option func(*Server)

// WithOpenAIKey enables the voice-search endpoint. Without it the
// endpoint degrades to 503 rather than failing requests mid-flight.
func WithOpenAIKey(key string) Option {
	return func(s *Server) { s.openAIKey = key }
}

func New(ctrl *app.Controller, provider app.Provider, opts ...Option) *Server {
	s := &Server{ctrl: ctrl, provider: provider}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(middleware.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Get("/search", s.handleSearchPlaces)
		r.Post("/query", s.handleQuery)
		r.Post("/search", s.handleSearch)
		r.Get("/state", s.handleState)
		r.Get("/state/stream", s.handleStateStream)
		r.Post("/voice", s.handleVoice)
		r.Post("/voice/stop", s.handleVoiceStop)
	})

	return r
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// handleSearchPlaces is a direct geocoding passthrough for clients that
// manage their own input state.
func (s *Server) handleSearchPlaces(w http.ResponseWriter, r *http.Request) {
	query := strings.TrimSpace(r.URL.Query().Get("q"))
	if query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query parameter 'q' is required"})
		return
	}

	limit := 5
	if v := r.URL.Query().Get("limit"); v != "" {
		if l, err := strconv.Atoi(v); err == nil && l > 0 && l <= 10 {
			limit = l
		}
	}

	places, err := s.provider.SearchPlaces(r.Context(), query, limit)
	if err != nil {
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": "failed to search places"})
		return
	}
	writeJSON(w, http.StatusOK, places)
}

// handleQuery is the typed-input path: it feeds the debouncer exactly
// like a keystroke would.
func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	s.ctrl.SetQuery(body.Text)
	writeJSON(w, http.StatusAccepted, s.ctrl.Snapshot())
}

// handleSearch is the explicit-submit path.
func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var body struct {
		City string `json:"city"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
		return
	}

	s.ctrl.Search(body.City)
	writeJSON(w, http.StatusAccepted, s.ctrl.Snapshot())
}

func (s *Server) handleState(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.ctrl.Snapshot())
}

func (s *Server) handleStateStream(w http.ResponseWriter, r *http.Request) {
	flusher := prepareSSE(w)
	if flusher == nil {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}

	ch, cancel := s.ctrl.Subscribe()
	defer cancel()

	for {
		select {
		case <-r.Context().Done():
			return
		case snap, ok := <-ch:
			if !ok {
				return
			}
			if err := writeEvent(w, flusher, "state", snap); err != nil {
				return
			}
		}
	}
}
