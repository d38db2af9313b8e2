// Package server exposes the genealogy pipeline over HTTP.
//
// The API is deliberately small: one resource, computed on demand.
//
//	POST /v1/genealogy        infer a tree, respond with the parent array
//	POST /v1/genealogy/graph  same inference, respond in node-link form
//	GET  /healthz             liveness probe
//
// Both inference endpoints accept the same JSON request body:
//
//	{"percent": 20, "vectors": ["0101...", ...], "refresh": false}
//
// Failures map the pipeline's error taxonomy onto HTTP statuses:
// validation problems are 400, the two data-dependent fatal outcomes
// (structure incomplete, non-convergence) are 422 because the request
// was well-formed but the population did not admit a clean tree.
package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/tbl3rd/bvg/pkg/bitvec"
	bvgerrors "github.com/tbl3rd/bvg/pkg/errors"
	"github.com/tbl3rd/bvg/pkg/genealogy"
	"github.com/tbl3rd/bvg/pkg/pipeline"
	"github.com/tbl3rd/bvg/pkg/treeio"
)

// Server handles HTTP requests against a pipeline runner.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	router chi.Router
}

// New creates a Server around runner. The logger must not be nil.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	s := &Server{runner: runner, logger: logger}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealthz)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/genealogy", s.handleInfer)
		r.Post("/genealogy/graph", s.handleInferGraph)
	})

	s.router = r
	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// inferRequest is the JSON body for both inference endpoints.
type inferRequest struct {
	Percent int      `json:"percent"`
	Vectors []string `json:"vectors"`
	Refresh bool     `json:"refresh,omitempty"`
}

// inferResponse is the parent-array response shape.
type inferResponse struct {
	RunID   string         `json:"run_id"`
	Parents []int          `json:"parents"`
	Root    int            `json:"root"`
	Stats   pipeline.Stats `json:"stats"`
	Cached  bool           `json:"cached"`
}

// errorResponse is the error envelope for all failures.
type errorResponse struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Code    bvgerrors.Code `json:"code"`
	Message string         `json:"message"`
}

func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleInfer(w http.ResponseWriter, r *http.Request) {
	result, ok := s.runPipeline(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, inferResponse{
		RunID:   result.RunID,
		Parents: result.Parents,
		Root:    result.Root,
		Stats:   result.Stats,
		Cached:  result.CacheHit,
	})
}

func (s *Server) handleInferGraph(w http.ResponseWriter, r *http.Request) {
	result, ok := s.runPipeline(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, treeio.FromParents(result.Parents, nil))
}

// runPipeline decodes the request, runs the inference, and writes any
// error response. The boolean reports whether a result was produced.
func (s *Server) runPipeline(w http.ResponseWriter, r *http.Request) (*pipeline.Result, bool) {
	var req inferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, bvgerrors.Wrap(bvgerrors.ErrCodeInvalidInput, err, "malformed request body"))
		return nil, false
	}
	if len(req.Vectors) == 0 {
		s.writeError(w, bvgerrors.New(bvgerrors.ErrCodeInvalidInput, "vectors must not be empty"))
		return nil, false
	}

	data := []byte(strings.Join(req.Vectors, "\n") + "\n")
	result, err := s.runner.InferBytes(r.Context(), data, pipeline.Options{
		Percent: req.Percent,
		Refresh: req.Refresh,
	})
	if err != nil {
		s.writeError(w, classify(err))
		return nil, false
	}
	return result, true
}

// classify maps pipeline errors onto coded errors for the response.
func classify(err error) *bvgerrors.Error {
	var coded *bvgerrors.Error
	if errors.As(err, &coded) {
		return coded
	}

	var lineErr *bitvec.LineError
	switch {
	case errors.As(err, &lineErr):
		return bvgerrors.Wrap(bvgerrors.ErrCodeBadLine, err, "population line %d is malformed", lineErr.Line)
	case errors.Is(err, genealogy.ErrPercentRange):
		return bvgerrors.Wrap(bvgerrors.ErrCodeInvalidPercent, err, "mutation percentage out of range [0,100]")
	case errors.Is(err, genealogy.ErrIncomplete):
		return bvgerrors.Wrap(bvgerrors.ErrCodeSpanIncomplete, err, "cannot relate entire population")
	case errors.Is(err, genealogy.ErrNonConvergence):
		return bvgerrors.Wrap(bvgerrors.ErrCodeNonConvergence, err, "genealogy did not converge")
	default:
		return bvgerrors.Wrap(bvgerrors.ErrCodeInternal, err, "inference failed")
	}
}

// statusFor maps error codes onto HTTP statuses.
func statusFor(code bvgerrors.Code) int {
	switch code {
	case bvgerrors.ErrCodeInvalidInput, bvgerrors.ErrCodeInvalidPercent, bvgerrors.ErrCodeInvalidFormat:
		return http.StatusBadRequest
	case bvgerrors.ErrCodeBadLine, bvgerrors.ErrCodeSpanIncomplete, bvgerrors.ErrCodeNonConvergence:
		return http.StatusUnprocessableEntity
	case bvgerrors.ErrCodeNotFound, bvgerrors.ErrCodeFileNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, err *bvgerrors.Error) {
	status := statusFor(err.Code)
	if status >= 500 {
		s.logger.Error("request failed", "code", err.Code, "err", err)
	}
	writeJSON(w, status, errorResponse{Error: errorBody{
		Code:    err.Code,
		Message: bvgerrors.UserMessage(err),
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// logRequests logs one line per request with method, path, status,
// and elapsed time.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"elapsed", time.Since(start).Round(time.Millisecond),
		)
	})
}
