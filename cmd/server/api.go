package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/Simplici0/servicequote/internal/pricing"
	"github.com/Simplici0/servicequote/internal/store"
	"github.com/Simplici0/servicequote/internal/validation"
)

const maxBodyBytes = 1 << 20

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Field   string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: code, Message: message})
}

func (s *server) internalError(w http.ResponseWriter, r *http.Request, msg string, err error) {
	slog.Error(msg, "method", r.Method, "path", r.URL.Path, "error", err)
	writeError(w, http.StatusInternalServerError, "internal_error", msg)
}

// writeCalculationError maps engine precondition failures to 422.
func (s *server) writeCalculationError(w http.ResponseWriter, r *http.Request, err error) {
	var inputErr *pricing.InputError
	if errors.As(err, &inputErr) {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error:   inputErr.Code,
			Message: inputErr.Message,
			Field:   inputErr.Field,
		})
		return
	}
	s.internalError(w, r, "calculation failed", err)
}

func readBody(w http.ResponseWriter, r *http.Request) ([]byte, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	return raw, nil
}

// decodeInput reads a project input, filling omitted fields with defaults.
func decodeInput(w http.ResponseWriter, r *http.Request) (pricing.ProjectInput, bool) {
	raw, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return pricing.ProjectInput{}, false
	}
	in, err := store.DecodeInput(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return pricing.ProjectInput{}, false
	}
	return in, true
}

func (s *server) handleCalculate(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	tables, err := s.store.GetTables(r.Context())
	if err != nil {
		s.internalError(w, r, "failed to load pricing tables", err)
		return
	}

	result, err := pricing.Calculate(in, tables)
	if err != nil {
		s.writeCalculationError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (s *server) handleValidate(w http.ResponseWriter, r *http.Request) {
	in, ok := decodeInput(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, validation.Validate(in))
}

func (s *server) handleDimension(w http.ResponseWriter, r *http.Request) {
	req := pricing.StaffingRequest{
		Tier1SplitPct: pricing.DefaultTier1SplitPct,
		TMAMinutes:    pricing.DefaultTMAMinutes,
		OccupancyPct:  pricing.DefaultOccupancyPct,
	}
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	if !req.Coverage.Valid() {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: pricing.CodeUnknownEnum, Field: "coverage", Message: "unknown coverage"})
		return
	}
	if !req.ServiceLevel.Valid() {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: pricing.CodeUnknownEnum, Field: "serviceLevel", Message: "unknown service level"})
		return
	}
	if req.LoadTotal < 0 {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{Error: pricing.CodeNegativeAmount, Field: "loadTotal", Message: "load must not be negative"})
		return
	}

	tables, err := s.store.GetTables(r.Context())
	if err != nil {
		s.internalError(w, r, "failed to load pricing tables", err)
		return
	}
	writeJSON(w, http.StatusOK, pricing.Dimension(req, tables))
}

func (s *server) handleGetTables(w http.ResponseWriter, r *http.Request) {
	tables, err := s.store.GetTables(r.Context())
	if err != nil {
		s.internalError(w, r, "failed to load pricing tables", err)
		return
	}
	writeJSON(w, http.StatusOK, tables)
}

func (s *server) handlePutTables(w http.ResponseWriter, r *http.Request) {
	raw, err := readBody(w, r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	tables, err := store.DecodeTables(raw)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_body", err.Error())
		return
	}
	if err := validation.ValidateTables(tables); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid_tables", err.Error())
		return
	}
	if err := s.store.SaveTables(r.Context(), tables); err != nil {
		s.internalError(w, r, "failed to save pricing tables", err)
		return
	}
	writeJSON(w, http.StatusOK, tables)
}
