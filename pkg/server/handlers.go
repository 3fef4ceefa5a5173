package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/geotrig/pkg/calc"
	"github.com/matzehuels/geotrig/pkg/diagram"
	"github.com/matzehuels/geotrig/pkg/errors"
	"github.com/matzehuels/geotrig/pkg/expr"
	"github.com/matzehuels/geotrig/pkg/history"
	"github.com/matzehuels/geotrig/pkg/trig"
)

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(s.page)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = w.Write([]byte("ok"))
}

// handleCompute runs one calculation. The diagram format may be overridden
// with ?format= and diagrams disabled with ?diagrams=false.
func (s *Server) handleCompute(w http.ResponseWriter, r *http.Request) {
	var req calc.Request
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	// The CLI may omit the module; page requests always name one.
	if req.Module == "" {
		s.writeJSON(w, http.StatusOK, calc.ErrorResponse(errors.New(errors.ErrCodeInvalidModule, "module required")))
		return
	}

	opts := s.cfg.Diagram
	if f := r.URL.Query().Get("format"); f != "" {
		opts.Format = f
	}
	if r.URL.Query().Get("diagrams") == "false" {
		opts.SkipDiagrams = true
	}

	res, err := s.runner.Execute(r.Context(), req, opts)
	if err != nil {
		s.logger.Debug("compute failed", "module", req.Module, "op", req.Operation, "error", err)
		s.writeJSON(w, http.StatusOK, calc.ErrorResponse(err))
		return
	}
	s.writeJSON(w, http.StatusOK, res.Response)
}

func (s *Server) handleOperations(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, calc.Operations())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	limit := 0
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = n
	}
	records, err := s.runner.Recent(r.Context(), limit)
	if err != nil {
		s.logger.Error("history", "error", err)
		s.writeError(w, http.StatusInternalServerError, "history unavailable")
		return
	}
	if records == nil {
		records = []history.Record{}
	}
	s.writeJSON(w, http.StatusOK, records)
}

// handleTriangle draws the triangle with sides a, b and c (default 3, 4, 5).
func (s *Server) handleTriangle(w http.ResponseWriter, r *http.Request) {
	format := chi.URLParam(r, "format")
	if err := diagram.ValidateFormat(format); err != nil {
		s.writeError(w, http.StatusNotFound, errors.UserMessage(err))
		return
	}

	q := expr.Params{}
	for _, k := range []string{"a", "b", "c", "title"} {
		q[k] = r.URL.Query().Get(k)
	}
	var sides [3]float64
	for i, k := range []string{"a", "b", "c"} {
		v, err := q.Float(k, []string{"3", "4", "5"}[i])
		if err != nil {
			s.writeError(w, http.StatusBadRequest, errors.UserMessage(err))
			return
		}
		sides[i] = v
	}
	t, err := trig.Solve(sides[0], sides[1], sides[2])
	if err != nil {
		s.writeError(w, http.StatusBadRequest, errors.UserMessage(err))
		return
	}

	opts := s.cfg.Diagram
	opts.Format = format
	layout := diagram.New(trig.Solution{Triangle: t, Title: q.String("title", trig.DefaultTitle)})
	out, err := s.runner.Render(r.Context(), []diagram.Layout{layout}, opts)
	if err != nil {
		s.logger.Error("render triangle", "format", format, "error", err)
		s.writeError(w, http.StatusInternalServerError, "rendering failed")
		return
	}

	w.Header().Set("Content-Type", diagram.ContentType(format))
	w.Header().Set("Cache-Control", "public, max-age=3600")
	_, _ = w.Write(out[0])
}

// writeJSON encodes v before writing the header; values that cannot be
// encoded are answered with a 500.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := json.Marshal(v)
	if err != nil {
		s.logger.Error("encode response", "error", err)
		status = http.StatusInternalServerError
		data = []byte(`{"error":"encoding failed"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(append(data, '\n'))
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
