package server

import (
	"encoding/json"
	"net/http"

	"vidsum/internal/store"
)

type processRequest struct {
	Path string `json:"path"`
}

type processResponse struct {
	JobID          string `json:"job_id"`
	Transcript     string `json:"transcript"`
	WordCount      int    `json:"word_count"`
	Filename       string `json:"filename"`
	VideoDuration  string `json:"video_duration"`
	ProcessingTime string `json:"processing_time"`
}

// handleProcess validates and transcribes one video synchronously, recording
// the request as a job. Summarization is a separate request against the
// returned transcript or job id.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request) {
	var req processRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Path == "" {
		respondError(w, http.StatusBadRequest, "request body must be JSON with a non-empty 'path'")
		return
	}

	ctx := r.Context()

	job, err := s.store.CreateJob(ctx, req.Path)
	if err != nil {
		s.log.Error(ctx, "Failed to create job: %v", err)
		respondError(w, http.StatusInternalServerError, "failed to create job")
		return
	}

	if err := s.store.SetStatus(ctx, job.ID, store.StatusProcessing); err != nil {
		s.log.Warn(ctx, "Failed to mark job processing: %v", err)
	}

	res, err := s.pipe.Process(ctx, req.Path)
	if err != nil {
		if serr := s.store.SetError(ctx, job.ID, err.Error()); serr != nil {
			s.log.Warn(ctx, "Failed to record job error: %v", serr)
		}
		respondError(w, statusForPipelineError(err), err.Error())
		return
	}

	if err := s.store.SetTranscript(ctx, job.ID, res.Transcript, res.WordCount); err != nil {
		s.log.Warn(ctx, "Failed to persist transcript: %v", err)
	}

	respondJSON(w, http.StatusOK, processResponse{
		JobID:          job.ID,
		Transcript:     res.Transcript,
		WordCount:      res.WordCount,
		Filename:       res.Filename,
		VideoDuration:  res.VideoDuration.String(),
		ProcessingTime: res.ProcessingTime.String(),
	})
}

type summarizeRequest struct {
	Text     string `json:"text,omitempty"`
	JobID    string `json:"job_id,omitempty"`
	Style    string `json:"style,omitempty"`
	MaxWords int    `json:"max_words,omitempty"`
}

// handleSummarize summarizes either inline text or a stored job's transcript.
func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	var req summarizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON request body")
		return
	}

	ctx := r.Context()

	text := req.Text
	if text == "" && req.JobID != "" {
		job, err := s.store.GetJob(ctx, req.JobID)
		if err != nil {
			s.log.Error(ctx, "Failed to load job %s: %v", req.JobID, err)
			respondError(w, http.StatusInternalServerError, "failed to load job")
			return
		}
		if job == nil {
			respondError(w, http.StatusNotFound, "job not found")
			return
		}
		text = job.Transcript
	}

	res := s.summarizer.Summarize(ctx, text, req.Style, req.MaxWords)

	if res.Success && req.JobID != "" {
		if err := s.store.SetSummary(ctx, req.JobID, res.Summary, string(res.Strategy), res.WordCount); err != nil {
			s.log.Warn(ctx, "Failed to persist summary for job %s: %v", req.JobID, err)
		}
	}

	status := http.StatusOK
	if !res.Success {
		status = http.StatusUnprocessableEntity
	}
	respondJSON(w, status, res)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id := r.URL.Query().Get("id")
	if id == "" {
		respondError(w, http.StatusBadRequest, "missing 'id' query parameter")
		return
	}

	job, err := s.store.GetJob(r.Context(), id)
	if err != nil {
		s.log.Error(r.Context(), "Failed to load job %s: %v", id, err)
		respondError(w, http.StatusInternalServerError, "failed to load job")
		return
	}
	if job == nil {
		respondError(w, http.StatusNotFound, "job not found")
		return
	}

	respondJSON(w, http.StatusOK, job)
}
