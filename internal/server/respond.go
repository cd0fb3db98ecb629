package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"vidsum/internal/pipeline"
)

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// statusForPipelineError maps the pipeline error taxonomy onto HTTP codes:
// bad input is the caller's fault, everything else is ours.
func statusForPipelineError(err error) int {
	var verr *pipeline.ValidationError
	if errors.As(err, &verr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
