package store

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"vidsum/internal/logger"
)

// Job statuses.
const (
	StatusPending    = "pending"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// Job is one video processing request and its outputs.
type Job struct {
	ID              string    `json:"id"`
	VideoPath       string    `json:"video_path"`
	Status          string    `json:"status"`
	Transcript      string    `json:"transcript,omitempty"`
	TranscriptWords int       `json:"transcript_words,omitempty"`
	Summary         string    `json:"summary,omitempty"`
	Strategy        string    `json:"strategy,omitempty"`
	SummaryWords    int       `json:"summary_words,omitempty"`
	Error           string    `json:"error,omitempty"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Store persists jobs in a local sqlite database.
type Store struct {
	db  *sql.DB
	log logger.Logger
}

func New(dbPath string, log logger.Logger) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, errors.Wrap(err, "create database directory")
	}

	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, errors.Wrap(err, "open database")
	}

	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	if _, err := db.Exec(`CREATE TABLE IF NOT EXISTS jobs (
		id               TEXT PRIMARY KEY,
		video_path       TEXT NOT NULL,
		status           TEXT NOT NULL DEFAULT 'pending',
		transcript       TEXT NOT NULL DEFAULT '',
		transcript_words INTEGER NOT NULL DEFAULT 0,
		summary          TEXT NOT NULL DEFAULT '',
		strategy         TEXT NOT NULL DEFAULT '',
		summary_words    INTEGER NOT NULL DEFAULT 0,
		error            TEXT NOT NULL DEFAULT '',
		created_at       TIMESTAMP NOT NULL,
		updated_at       TIMESTAMP NOT NULL
	)`); err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create jobs table")
	}

	return &Store{db: db, log: log}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// CreateJob inserts a new pending job for the given video.
func (s *Store) CreateJob(ctx context.Context, videoPath string) (*Job, error) {
	now := time.Now().UTC()
	job := &Job{
		ID:        uuid.NewString(),
		VideoPath: videoPath,
		Status:    StatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO jobs (id, video_path, status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		job.ID, job.VideoPath, job.Status, job.CreatedAt, job.UpdatedAt,
	)
	if err != nil {
		return nil, errors.Wrap(err, "insert job")
	}
	return job, nil
}

// GetJob returns the job with the given id, or nil when it does not exist.
func (s *Store) GetJob(ctx context.Context, id string) (*Job, error) {
	var job Job
	err := s.db.QueryRowContext(ctx,
		`SELECT id, video_path, status, transcript, transcript_words,
		        summary, strategy, summary_words, error, created_at, updated_at
		 FROM jobs WHERE id = ?`, id,
	).Scan(
		&job.ID, &job.VideoPath, &job.Status, &job.Transcript, &job.TranscriptWords,
		&job.Summary, &job.Strategy, &job.SummaryWords, &job.Error,
		&job.CreatedAt, &job.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, errors.Wrap(err, "query job")
	}
	return &job, nil
}

// SetStatus updates the job status.
func (s *Store) SetStatus(ctx context.Context, id, status string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, updated_at = ? WHERE id = ?`,
		status, time.Now().UTC(), id,
	)
	return errors.Wrap(err, "update job status")
}

// SetTranscript stores the pipeline output for a job.
func (s *Store) SetTranscript(ctx context.Context, id, transcript string, words int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET transcript = ?, transcript_words = ?, status = ?, updated_at = ?
		 WHERE id = ?`,
		transcript, words, StatusCompleted, time.Now().UTC(), id,
	)
	return errors.Wrap(err, "update job transcript")
}

// SetSummary stores a summarization result for a job.
func (s *Store) SetSummary(ctx context.Context, id, summary, strategy string, words int) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET summary = ?, strategy = ?, summary_words = ?, updated_at = ?
		 WHERE id = ?`,
		summary, strategy, words, time.Now().UTC(), id,
	)
	return errors.Wrap(err, "update job summary")
}

// SetError marks the job failed with the given reason.
func (s *Store) SetError(ctx context.Context, id, reason string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE jobs SET status = ?, error = ?, updated_at = ? WHERE id = ?`,
		StatusFailed, reason, time.Now().UTC(), id,
	)
	return errors.Wrap(err, "update job error")
}
