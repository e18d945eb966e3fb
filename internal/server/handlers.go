package server

import (
	stderrors "errors"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/sankey/pkg/buildinfo"
	"github.com/matzehuels/sankey/pkg/errors"
	"github.com/matzehuels/sankey/pkg/graph"
	"github.com/matzehuels/sankey/pkg/ingest"
	"github.com/matzehuels/sankey/pkg/pipeline"
	"github.com/matzehuels/sankey/pkg/storage"
)

type healthResponse struct {
	Status  string         `json:"status"`
	Version buildinfo.Info `json:"version"`
	Uptime  string         `json:"uptime"`
}

// GET /healthz
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: buildinfo.Get(),
		Uptime:  time.Since(s.started).Truncate(time.Second).String(),
	})
}

// POST /api/v1/render
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	opts, err := s.requestOptions(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatSVG
	}
	if err := pipeline.ValidateFormat(format); err != nil {
		writeError(w, s.logger, err)
		return
	}
	opts.Formats = []string{format}

	g, err := s.readGraph(w, r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), g, opts)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	setResultHeaders(w, result)
	w.Header().Set("Content-Type", pipeline.ContentTypes[format])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[format])
}

// GET /api/v1/diagrams
func (s *Server) handleListDiagrams(w http.ResponseWriter, r *http.Request) {
	var opts storage.ListOptions
	q := r.URL.Query()
	var err error
	if opts.Limit, err = intParam(q, "limit"); err != nil {
		writeError(w, s.logger, err)
		return
	}
	if opts.Offset, err = intParam(q, "offset"); err != nil {
		writeError(w, s.logger, err)
		return
	}
	if opts.Limit < 0 || opts.Offset < 0 {
		writeError(w, s.logger, errors.New(errors.ErrCodeInvalidInput, "limit and offset must not be negative"))
		return
	}

	list, err := s.store.List(r.Context(), opts)
	if err != nil {
		writeError(w, s.logger, errors.Wrap(errors.ErrCodeInternal, err, "list diagrams"))
		return
	}
	if list == nil {
		list = []storage.Summary{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"diagrams": list})
}

// POST /api/v1/diagrams
func (s *Server) handleCreateDiagram(w http.ResponseWriter, r *http.Request) {
	opts, err := s.requestOptions(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	opts.Formats = []string{pipeline.FormatSVG}

	name := r.URL.Query().Get("name")
	if name != "" {
		if err := errors.ValidateIdentifier("diagram name", name); err != nil {
			writeError(w, s.logger, err)
			return
		}
	}

	g, err := s.readGraph(w, r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	result, err := s.runner.Execute(r.Context(), g, opts)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}

	d := &storage.Diagram{
		Name:      name,
		GraphHash: result.GraphHash,
		NodeCount: result.Stats.NodeCount,
		EdgeCount: result.Stats.EdgeCount,
		Graph:     g,
		Layout:    result.Layout,
		SVG:       result.Artifacts[pipeline.FormatSVG],
	}
	if err := s.store.Save(r.Context(), d); err != nil {
		writeError(w, s.logger, errors.Wrap(errors.ErrCodeInternal, err, "save diagram"))
		return
	}
	s.logger.Info("stored diagram", "id", d.ID, "nodes", d.NodeCount, "edges", d.EdgeCount)

	setResultHeaders(w, result)
	w.Header().Set("Location", "/api/v1/diagrams/"+d.ID)
	writeJSON(w, http.StatusCreated, d)
}

// GET /api/v1/diagrams/{id}
func (s *Server) handleGetDiagram(w http.ResponseWriter, r *http.Request) {
	d, err := s.loadDiagram(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, d)
}

// GET /api/v1/diagrams/{id}/svg
func (s *Server) handleGetDiagramSVG(w http.ResponseWriter, r *http.Request) {
	d, err := s.loadDiagram(r)
	if err != nil {
		writeError(w, s.logger, err)
		return
	}
	if len(d.SVG) == 0 {
		writeError(w, s.logger, notFound("diagram %s has no svg", d.ID))
		return
	}
	w.Header().Set("Content-Type", pipeline.ContentTypes[pipeline.FormatSVG])
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(d.SVG)
}

// DELETE /api/v1/diagrams/{id}
func (s *Server) handleDeleteDiagram(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.store.Delete(r.Context(), id); err != nil {
		writeError(w, s.logger, storageError(id, err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) loadDiagram(r *http.Request) (*storage.Diagram, error) {
	id := chi.URLParam(r, "id")
	d, err := s.store.Get(r.Context(), id)
	if err != nil {
		return nil, storageError(id, err)
	}
	return d, nil
}

// readGraph decodes the request body into a flow graph.
func (s *Server) readGraph(w http.ResponseWriter, r *http.Request) (graph.Graph, error) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return graph.Graph{}, errors.New(errors.ErrCodeInvalidInput, "request body exceeds %d bytes", tooLarge.Limit)
		}
		return graph.Graph{}, errors.Wrap(errors.ErrCodeInvalidInput, err, "read request body")
	}

	q := r.URL.Query()
	ingestOpts := ingest.Options{
		Unit:         boolParam(q, "unit"),
		KeepIsolated: boolParam(q, "keep_isolated"),
	}
	g, rep, err := pipeline.Load("", body, q.Get("input"), ingestOpts)
	if err != nil {
		return graph.Graph{}, err
	}
	for _, warn := range rep.Warnings {
		s.logger.Warn("input warning", "kind", rep.Kind, "error", warn)
	}
	return g, nil
}

func setResultHeaders(w http.ResponseWriter, result *pipeline.Result) {
	h := w.Header()
	h.Set("X-Graph-Hash", result.GraphHash)
	h.Set("X-Layout-Cache", hitOrMiss(result.CacheInfo.LayoutHit))
	if n := result.Diagnostics.UnresolvedEdges; n > 0 {
		h.Set("X-Unresolved-Edges", strconv.Itoa(n))
	}
}

func hitOrMiss(hit bool) string {
	if hit {
		return "hit"
	}
	return "miss"
}

func storageError(id string, err error) error {
	if stderrors.Is(err, storage.ErrNotFound) {
		return notFound("diagram %q not found", id)
	}
	return errors.Wrap(errors.ErrCodeInternal, err, "load diagram %s", id)
}
