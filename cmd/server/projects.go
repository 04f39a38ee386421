package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/Simplici0/servicequote/internal/pricing"
	"github.com/Simplici0/servicequote/internal/report"
	"github.com/Simplici0/servicequote/internal/store"
	"github.com/Simplici0/servicequote/internal/validation"
)

// projectResponse is a stored project plus the checks run on its input.
type projectResponse struct {
	store.Project
	Validation       validation.Report   `json:"validation"`
	CalculationError *pricing.InputError `json:"calculationError,omitempty"`
}

// recalculate prices in with the current tables. An input the engine rejects
// yields a nil result and the rejection.
func (s *server) recalculate(ctx context.Context, in pricing.ProjectInput) (*pricing.CalculationResult, *pricing.InputError, error) {
	tables, err := s.store.GetTables(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("load pricing tables: %w", err)
	}
	result, err := pricing.Calculate(in, tables)
	var inputErr *pricing.InputError
	if errors.As(err, &inputErr) {
		return nil, inputErr, nil
	}
	if err != nil {
		return nil, nil, err
	}
	return &result, nil, nil
}

func (s *server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.store.ListProjects(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		s.internalError(w, r, "failed to load projects", err)
		return
	}
	writeJSON(w, http.StatusOK, projects)
}

func (s *server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	result, inputErr, err := s.recalculate(r.Context(), in)
	if err != nil {
		s.internalError(w, r, "failed to calculate project", err)
		return
	}

	p, err := s.store.CreateProject(r.Context(), in, result)
	if err != nil {
		s.internalError(w, r, "failed to create project", err)
		return
	}
	writeJSON(w, http.StatusCreated, projectResponse{Project: p, Validation: validation.Validate(in), CalculationError: inputErr})
}

func (s *server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	p, ok := s.loadProject(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, projectResponse{Project: p, Validation: validation.Validate(p.Input)})
}

func (s *server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	result, inputErr, err := s.recalculate(r.Context(), in)
	if err != nil {
		s.internalError(w, r, "failed to calculate project", err)
		return
	}

	if err := s.store.UpdateProjectInput(r.Context(), id, in, result); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "project not found")
			return
		}
		s.internalError(w, r, "failed to update project", err)
		return
	}

	p, ok := s.loadProject(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, projectResponse{Project: p, Validation: validation.Validate(in), CalculationError: inputErr})
}

func (s *server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.store.DeleteProject(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "not_found", "project not found")
			return
		}
		s.internalError(w, r, "failed to delete project", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *server) handleRecalculateProject(w http.ResponseWriter, r *http.Request) {
	p, ok := s.loadProject(w, r)
	if !ok {
		return
	}
	tables, err := s.store.GetTables(r.Context())
	if err != nil {
		s.internalError(w, r, "failed to load pricing tables", err)
		return
	}
	result, err := pricing.Calculate(p.Input, tables)
	if err != nil {
		s.writeCalculationError(w, r, err)
		return
	}
	if err := s.store.SaveProjectResult(r.Context(), p.ID, result); err != nil {
		s.internalError(w, r, "failed to save project result", err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *server) handleProjectReport(w http.ResponseWriter, r *http.Request) {
	p, ok := s.loadProject(w, r)
	if !ok {
		return
	}
	if p.Result == nil {
		writeError(w, http.StatusConflict, "not_calculated", "project has no valid calculation")
		return
	}
	doc := report.Build(p.Input, *p.Result, s.now())

	var (
		body        []byte
		contentType string
		err         error
	)
	format := chi.URLParam(r, "format")
	switch format {
	case "pdf":
		body, err = report.GeneratePDF(doc)
		contentType = "application/pdf"
	case "xlsx":
		body, err = report.GenerateExcel(doc)
		contentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	case "txt":
		var buf bytes.Buffer
		err = report.WriteText(&buf, doc)
		body = buf.Bytes()
		contentType = "text/plain; charset=utf-8"
	default:
		writeError(w, http.StatusNotFound, "unknown_format", "supported formats: pdf, xlsx, txt")
		return
	}
	if err != nil {
		s.internalError(w, r, "failed to render report", err)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="proposta-%s.%s"`, p.ID, format))
	_, _ = w.Write(body)
}

func (s *server) loadProject(w http.ResponseWriter, r *http.Request) (store.Project, bool) {
	p, err := s.store.GetProject(r.Context(), chi.URLParam(r, "id"))
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "not_found", "project not found")
		return store.Project{}, false
	}
	if err != nil {
		s.internalError(w, r, "failed to load project", err)
		return store.Project{}, false
	}
	return p, true
}
