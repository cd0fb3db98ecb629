package pipeline

import "fmt"

// Stage identifies where a processing request currently is. Requests move
// Idle → Validating → ExtractingAudio → Transcribing → Done, with Failed
// terminal from any active stage.
type Stage string

const (
	StageIdle            Stage = "idle"
	StageValidating      Stage = "validating"
	StageExtractingAudio Stage = "extracting_audio"
	StageTranscribing    Stage = "transcribing"
	StageDone            Stage = "done"
	StageFailed          Stage = "failed"
)

// ValidationError reports a bad input file. It is surfaced to the caller
// verbatim and never retried.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return e.Reason
}

// ExternalToolError reports that an external tool was missing or exited
// non-zero; the tool's diagnostic output travels in the wrapped error.
type ExternalToolError struct {
	Tool string
	Err  error
}

func (e *ExternalToolError) Error() string {
	return fmt.Sprintf("%s: %v", e.Tool, e.Err)
}

func (e *ExternalToolError) Unwrap() error {
	return e.Err
}

// ModelError reports a failed model call (transcription or generation).
type ModelError struct {
	Op  string
	Err error
}

func (e *ModelError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// StageError tags a failure with the pipeline stage it occurred in.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}
