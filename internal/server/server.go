package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gorilla/schema"

	"github.com/mirror12k/catwalk-apigen/internal/config"
	"github.com/mirror12k/catwalk-apigen/internal/generator"
	"github.com/mirror12k/catwalk-apigen/internal/store"
	"github.com/mirror12k/catwalk-apigen/pkg/types"
)

// Server exposes generation and run history over HTTP.
type Server struct {
	cfg     *config.Config
	store   store.Store
	mux     *http.ServeMux
	logger  *slog.Logger
	decoder *schema.Decoder
}

type targetInfo struct {
	Name       string `json:"name"`
	FileName   string `json:"file_name"`
	AuthTokens bool   `json:"auth_tokens"`
}

type generateRequest struct {
	Target      string              `json:"target"`
	EndpointURL string              `json:"endpoint_url"`
	AuthTokens  *bool               `json:"auth_tokens"`
	Endpoints   types.APIDefinition `json:"endpoints"`
}

type generateResponse struct {
	RunID    string `json:"run_id"`
	Target   string `json:"target"`
	FileName string `json:"file_name"`
	Digest   string `json:"digest"`
	Source   string `json:"source"`
}

type runQuery struct {
	Target string `schema:"target"`
	Limit  int    `schema:"limit"`
}

// New constructs a new Server with routes registered.
func New(cfg *config.Config, st store.Store, logger *slog.Logger) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if st == nil {
		return nil, errors.New("store is nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	decoder := schema.NewDecoder()
	decoder.IgnoreUnknownKeys(true)

	srv := &Server{
		cfg:     cfg,
		store:   st,
		mux:     http.NewServeMux(),
		logger:  logger,
		decoder: decoder,
	}
	srv.registerRoutes()
	return srv, nil
}

// Handler returns the http handler.
func (s *Server) Handler() http.Handler {
	return s.mux
}

// ListenAndServe starts the server on addr.
func (s *Server) ListenAndServe(addr string) error {
	s.logger.Info("listening", "addr", addr)
	return http.ListenAndServe(addr, s.mux)
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/api/targets", s.handleTargets)
	s.mux.HandleFunc("/api/generate", s.handleGenerate)
	s.mux.HandleFunc("/api/runs", s.handleRuns)
	s.mux.HandleFunc("/api/runs/", s.handleRunRoutes)
}

func (s *Server) handleTargets(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	out := make([]targetInfo, 0, len(generator.Targets()))
	for _, t := range generator.Targets() {
		opts := s.cfg.Options(t)
		out = append(out, targetInfo{Name: t.String(), FileName: t.FileName(), AuthTokens: opts.AuthTokensFor(t)})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	setCORS(w)
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid json: "+err.Error(), http.StatusBadRequest)
		return
	}
	if strings.TrimSpace(req.Target) == "" {
		req.Target = s.cfg.Generate.Target
	}
	target, err := generator.ParseTarget(req.Target)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	opts := s.cfg.Options(target)
	if req.EndpointURL != "" {
		opts.EndpointURL = req.EndpointURL
	}
	if req.AuthTokens != nil {
		opts = opts.WithAuthTokens(*req.AuthTokens)
	}

	run, err := generator.GenerateAndRecord(s.store, req.Endpoints, target, opts, func(stage string) {
		s.logger.Debug("generate", "stage", stage)
	})
	if err != nil {
		s.writeGenerateError(w, err)
		return
	}
	s.logger.Info("generated client", "run", run.ID, "target", run.Target, "endpoints", run.EndpointCount)
	writeJSON(w, http.StatusOK, generateResponse{
		RunID:    run.ID,
		Target:   run.Target,
		FileName: target.FileName(),
		Digest:   run.Digest,
		Source:   run.Source,
	})
}

func (s *Server) writeGenerateError(w http.ResponseWriter, err error) {
	var invalid *generator.InvalidEndpointDefinitionError
	var unsupported *generator.UnsupportedTargetError
	switch {
	case errors.As(err, &invalid):
		writeJSON(w, http.StatusUnprocessableEntity, map[string]any{
			"error":    "invalid endpoint definition",
			"problems": invalid.Problems,
		})
	case errors.As(err, &unsupported), errors.Is(err, generator.ErrInvalidEndpointURL):
		http.Error(w, err.Error(), http.StatusBadRequest)
	default:
		s.logger.Error("generate failed", "error", err)
		http.Error(w, "generate failed: "+err.Error(), http.StatusInternalServerError)
	}
}

func (s *Server) handleRuns(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	var q runQuery
	if err := s.decoder.Decode(&q, r.URL.Query()); err != nil {
		http.Error(w, "invalid query: "+err.Error(), http.StatusBadRequest)
		return
	}
	if q.Limit < 0 {
		http.Error(w, "limit must not be negative", http.StatusBadRequest)
		return
	}
	runs, err := s.store.ListRuns(store.RunFilter{Target: q.Target, Limit: q.Limit})
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, runs)
}

func (s *Server) handleRunRoutes(w http.ResponseWriter, r *http.Request) {
	id, tail, ok := splitPath(r.URL.Path, "/api/runs/")
	if !ok || id == "" {
		http.NotFound(w, r)
		return
	}
	switch tail {
	case "":
		s.handleRunDetail(w, r, id)
	case "source":
		s.handleRunSource(w, r, id)
	default:
		http.NotFound(w, r)
	}
}

func (s *Server) handleRunDetail(w http.ResponseWriter, r *http.Request, id string) {
	switch r.Method {
	case http.MethodGet:
		run, ok := s.lookupRun(w, id)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, run)
	case http.MethodDelete:
		if err := s.store.DeleteRun(id); err != nil {
			if errors.Is(err, store.ErrNotFound) {
				http.Error(w, "run not found", http.StatusNotFound)
				return
			}
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		s.logger.Info("deleted run", "run", id)
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
	}
}

func (s *Server) handleRunSource(w http.ResponseWriter, r *http.Request, id string) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	run, ok := s.lookupRun(w, id)
	if !ok {
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+generator.Target(run.Target).FileName()+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(run.Source))
}

func (s *Server) lookupRun(w http.ResponseWriter, id string) (*types.GenerationRun, bool) {
	run, err := s.store.GetRun(id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			http.Error(w, "run not found", http.StatusNotFound)
			return nil, false
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return nil, false
	}
	return run, true
}

func splitPath(fullPath, prefix string) (string, string, bool) {
	if !strings.HasPrefix(fullPath, prefix) {
		return "", "", false
	}
	rest := strings.TrimPrefix(fullPath, prefix)
	rest = strings.Trim(rest, "/")
	if rest == "" {
		return "", "", false
	}
	parts := strings.Split(rest, "/")
	id := parts[0]
	tail := ""
	if len(parts) > 1 {
		tail = strings.Join(parts[1:], "/")
	}
	return id, tail, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func setCORS(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
}
