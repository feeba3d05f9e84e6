package server

import (
	"encoding/json"
	stderrors "errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/corral/pkg/errors"
	corralio "github.com/matzehuels/corral/pkg/io"
	"github.com/matzehuels/corral/pkg/observability"
	"github.com/matzehuels/corral/pkg/pipeline"
	"github.com/matzehuels/corral/pkg/store"
	"github.com/matzehuels/corral/pkg/topology"
)

// RealizeRequest is the body of POST /v1/realize. Exactly one of Pattern
// and Topology must be set; zero caps take the server defaults.
type RealizeRequest struct {
	Pattern          *corralio.Graph `json:"pattern,omitempty"`
	Topology         string          `json:"topology,omitempty"`
	MaxQubitDegree   int             `json:"max_qubit_degree,omitempty"`
	MaxCouplerDegree int             `json:"max_coupler_degree,omitempty"`
	SkipFill         bool            `json:"skip_fill,omitempty"`
	CouplerPrefix    string          `json:"coupler_prefix,omitempty"`
}

// RealizeResponse answers POST /v1/realize. Error is set when the pattern
// is infeasible; the record is stored either way.
type RealizeResponse struct {
	ID          string               `json:"id"`
	CreatedAt   time.Time            `json:"created_at"`
	Cached      bool                 `json:"cached"`
	Realization corralio.Realization `json:"realization"`
	Error       *APIError            `json:"error,omitempty"`
}

// Summary is one entry of GET /v1/realizations.
type Summary struct {
	ID               string    `json:"id"`
	CreatedAt        time.Time `json:"created_at"`
	Source           string    `json:"source,omitempty"`
	Feasible         bool      `json:"feasible"`
	Qubits           int       `json:"qubits"`
	Couplers         int       `json:"couplers"`
	MaxQubitDegree   int       `json:"max_qubit_degree"`
	MaxCouplerDegree int       `json:"max_coupler_degree"`
}

// APIError is the JSON error payload.
type APIError struct {
	Code      errors.Code `json:"code"`
	Message   string      `json:"message"`
	RequestID string      `json:"request_id,omitempty"`
}

type errorResponse struct {
	Error APIError `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleTopologies(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, topology.List())
}

func (s *Server) handleRealize(w http.ResponseWriter, r *http.Request) {
	var req RealizeRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, r, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode request body"))
		return
	}

	opts, err := s.realizeOptions(req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	res, err := s.runner.Execute(r.Context(), opts)
	if err != nil && !errors.Is(err, errors.ErrCodeInfeasible) {
		writeError(w, r, err)
		return
	}

	rec := store.NewRecord(opts.Source(), res.PatternHash, res.Pattern, res.Realization, res.Config)
	if err := s.store.Save(r.Context(), rec); err != nil {
		writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "save realization"))
		return
	}

	resp := RealizeResponse{
		ID:          rec.ID,
		CreatedAt:   rec.CreatedAt,
		Cached:      res.CacheInfo.RealizeHit,
		Realization: rec.Realization,
	}
	status := http.StatusCreated
	if err != nil {
		resp.Error = apiError(r, err)
		status = http.StatusUnprocessableEntity
	}
	w.Header().Set("Location", "/v1/realizations/"+rec.ID)
	writeJSON(w, status, resp)
}

func (s *Server) realizeOptions(req RealizeRequest) (pipeline.Options, error) {
	opts := pipeline.Options{
		Topology:         req.Topology,
		MaxQubitDegree:   req.MaxQubitDegree,
		MaxCouplerDegree: req.MaxCouplerDegree,
		SkipFill:         req.SkipFill,
		CouplerPrefix:    req.CouplerPrefix,
		Formats:          []string{pipeline.FormatJSON},
	}
	if opts.MaxQubitDegree == 0 {
		opts.MaxQubitDegree = s.cfg.MaxQubitDegree
	}
	if opts.MaxCouplerDegree == 0 {
		opts.MaxCouplerDegree = s.cfg.MaxCouplerDegree
	}
	if req.Pattern != nil {
		if err := s.checkSize(len(req.Pattern.Nodes), len(req.Pattern.Edges)); err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidPattern, err, "pattern")
		}
		g, err := req.Pattern.ToGraph()
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidPattern, err, "pattern")
		}
		opts.Pattern = g
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return opts, err
	}
	if opts.Topology != "" {
		qubits, pairs, err := topology.Size(opts.Topology)
		if err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidTopology, err, "topology %q", opts.Topology)
		}
		if err := s.checkSize(qubits, pairs); err != nil {
			return opts, errors.Wrap(errors.ErrCodeInvalidTopology, err, "topology %s", opts.Topology)
		}
	}
	return opts, nil
}

// checkSize rejects patterns over the configured limits before any graph
// is built.
func (s *Server) checkSize(qubits, pairs int) error {
	if qubits > s.cfg.MaxQubits {
		return fmt.Errorf("%d qubits (max %d)", qubits, s.cfg.MaxQubits)
	}
	if pairs > s.cfg.MaxPairs {
		return fmt.Errorf("%d coupled pairs (max %d)", pairs, s.cfg.MaxPairs)
	}
	return nil
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			writeError(w, r, errors.New(errors.ErrCodeInvalidInput, "limit must be a positive integer, got %q", v))
			return
		}
		limit = n
	}

	recs, err := s.store.List(r.Context(), limit)
	if err != nil {
		writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "list realizations"))
		return
	}
	out := make([]Summary, 0, len(recs))
	for _, rec := range recs {
		out = append(out, summarize(rec))
	}
	writeJSON(w, http.StatusOK, out)
}

func summarize(rec *store.Record) Summary {
	sum := Summary{
		ID:               rec.ID,
		CreatedAt:        rec.CreatedAt,
		Source:           rec.Source,
		Feasible:         rec.Realization.Feasible,
		Qubits:           len(rec.Pattern.Nodes),
		MaxQubitDegree:   rec.Realization.Config.MaxQubitDegree,
		MaxCouplerDegree: rec.Realization.Config.MaxCouplerDegree,
	}
	if bip := rec.Realization.Bipartite; bip != nil {
		for _, n := range bip.Nodes {
			if n.Kind == corralio.KindCoupler {
				sum.Couplers++
			}
		}
	}
	return sum
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	rec, err := s.record(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

func (s *Server) handleSVG(w http.ResponseWriter, r *http.Request) {
	rec, err := s.record(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	res, cfg, err := rec.Result()
	if err != nil {
		writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "decode realization"))
		return
	}

	projections, _ := strconv.ParseBool(r.URL.Query().Get("projections"))
	artifacts, err := s.runner.Render(r.Context(), res, pipeline.Options{
		MaxQubitDegree:   cfg.MaxQubitDegree,
		MaxCouplerDegree: cfg.MaxCouplerDegree,
		SkipFill:         cfg.SkipFill,
		CouplerPrefix:    cfg.CouplerPrefix,
		Formats:          []string{pipeline.FormatSVG},
		Projections:      projections,
	})
	if err != nil {
		writeError(w, r, errors.Wrap(errors.ErrCodeInternal, err, "render diagram"))
		return
	}
	w.Header().Set("Content-Type", "image/svg+xml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifacts[pipeline.FormatSVG])
}

func (s *Server) record(r *http.Request) (*store.Record, error) {
	id := chi.URLParam(r, "id")
	if !store.ValidID(id) {
		return nil, notFound("realization %q not found", id)
	}
	rec, err := s.store.Get(r.Context(), id)
	if stderrors.Is(err, store.ErrNotFound) {
		return nil, notFound("realization %q not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "get realization")
	}
	return rec, nil
}

func notFound(format string, args ...any) error {
	return errors.New(errors.ErrCodeNotFound, format, args...)
}

func apiError(r *http.Request, err error) *APIError {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	msg := errors.UserMessage(err)
	if code == errors.ErrCodeInternal {
		msg = "internal error"
	}
	return &APIError{
		Code:      code,
		Message:   msg,
		RequestID: middleware.GetReqID(r.Context()),
	}
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		observability.HTTP().OnError(r.Context(), r.Method, r.URL.Path, err)
	}
	writeJSON(w, status, errorResponse{Error: *apiError(r, err)})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
