// Package api exposes the HTTP surface: a single POST /query endpoint.
package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/killrtmrn242/AI-Assistant/internal/query"
)

const internalErrorAnswer = "An error occurred while processing your request. Please try again later."

// QueryHandler runs one user query to a terminal outcome.
type QueryHandler interface {
	Handle(ctx context.Context, query string) (query.Result, error)
}

type Server struct {
	Queries QueryHandler
}

func NewServer(queries QueryHandler) *Server {
	return &Server{Queries: queries}
}

func (s *Server) Mount(r chi.Router) {
	r.Post("/query", s.handleQuery)
}

type queryRequest struct {
	Query string `json:"query"`
}

type queryResponse struct {
	Answer string      `json:"answer"`
	Data   *query.Data `json:"data,omitempty"`
	Error  string      `json:"error,omitempty"`
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	result, err := s.Queries.Handle(r.Context(), req.Query)
	if err != nil {
		slog.Error("query failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, queryResponse{
			Answer: internalErrorAnswer,
			Error:  err.Error(),
		})
		return
	}

	writeJSON(w, http.StatusOK, queryResponse{
		Answer: result.Answer,
		Data:   result.Data,
	})
}

type apiError struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, statusCode int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, statusCode int, message string) {
	writeJSON(w, statusCode, apiError{Error: message})
}

func decodeJSONBody(r *http.Request, dst any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		return fmt.Errorf("request body must contain a single JSON object")
	}
	return nil
}
