package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/kompasshr/kompasshr/internal/auth"
	"github.com/kompasshr/kompasshr/internal/pipeline"
	"github.com/kompasshr/kompasshr/internal/sqlgate"
)

type askRequest struct {
	Question string `json:"question"`
	ShowSQL  bool   `json:"show_sql"`
	ShowRows bool   `json:"show_rows"`
}

type askResponse struct {
	Answer string           `json:"answer"`
	SQL    string           `json:"sql,omitempty"`
	Rows   []map[string]any `json:"rows,omitempty"`
}

func handleAsk(deps Dependencies, w http.ResponseWriter, r *http.Request) {
	if deps.Pipeline == nil {
		writeError(r.Context(), w, http.StatusNotImplemented, "ASK_NOT_CONFIGURED", "answer pipeline is not configured", false, nil)
		return
	}
	if err := requireRole(r, auth.RoleReader); err != nil {
		writeError(r.Context(), w, http.StatusForbidden, "FORBIDDEN", err.Error(), false, nil)
		return
	}

	var req askRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(r.Context(), w, http.StatusBadRequest, "INVALID_JSON", "invalid ask request body", false, map[string]any{"details": err.Error()})
		return
	}
	if strings.TrimSpace(req.Question) == "" {
		writeError(r.Context(), w, http.StatusBadRequest, "QUESTION_REQUIRED", "question is required", false, nil)
		return
	}

	result, err := deps.Pipeline.Answer(r.Context(), strings.TrimSpace(req.Question))
	if err != nil {
		writeAskError(w, r, err)
		return
	}

	response := askResponse{Answer: result.Answer}
	if req.ShowSQL {
		response.SQL = result.Statement
	}
	if req.ShowRows {
		response.Rows = result.Rows
	}
	writeJSON(w, http.StatusOK, response)
}

func writeAskError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, sqlgate.ErrPolicyViolation):
		writeError(r.Context(), w, http.StatusBadRequest, "SQL_REJECTED", err.Error(), false, nil)
	case errors.Is(err, pipeline.ErrGeneration):
		writeError(r.Context(), w, http.StatusBadGateway, "GENERATION_FAILED", err.Error(), true, nil)
	case errors.Is(err, pipeline.ErrExecution):
		writeError(r.Context(), w, http.StatusBadRequest, "QUERY_EXECUTION_FAILED", err.Error(), false, nil)
	default:
		writeError(r.Context(), w, http.StatusInternalServerError, "ASK_FAILED", err.Error(), false, nil)
	}
}
