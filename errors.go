package remix

import (
	"errors"
	"fmt"
)

// Error categories. Every error returned by the pipeline wraps exactly one
// of these, so callers can branch with errors.Is.
var (
	// ErrDecode indicates an input buffer could not be decoded or has an
	// invalid sample layout.
	ErrDecode = errors.New("decode failed")

	// ErrParameter indicates a request field is outside its contract.
	ErrParameter = errors.New("invalid parameter")

	// ErrProcessing indicates an effect stage could not be built or run.
	ErrProcessing = errors.New("processing failed")

	// ErrExport indicates the encoder or output sink failed.
	ErrExport = errors.New("export failed")
)

// Pipeline steps reported by StageError.
const (
	StepValidate   = "validate"
	StepDecode     = "decode"
	StepNormalize  = "normalize"
	StepResolve    = "resolve"
	StepStretch    = "stretch"
	StepEffects    = "effects"
	StepBackground = "background"
	StepExport     = "export"
)

// StageError records the pipeline step a remix failed in.
type StageError struct {
	Stage string
	Err   error
}

func (e *StageError) Error() string {
	return fmt.Sprintf("remix: %s: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

func stageError(stage string, err error) error {
	if err == nil {
		return nil
	}
	return &StageError{Stage: stage, Err: err}
}
