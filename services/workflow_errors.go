package services

import "fmt"

// Workflow error codes. Stable strings so log pipelines and the UI can key
// off them without parsing messages.
const (
	CodeInvalidTransition      = "INVALID_TRANSITION"
	CodeUnmappedAction         = "UNMAPPED_ACTION"
	CodeInvalidRole            = "INVALID_ROLE"
	CodeRoleResolution         = "ROLE_RESOLUTION_FAILED"
	CodeAlreadyAssigned        = "ALREADY_ASSIGNED"
	CodeConcurrentModification = "CONCURRENT_MODIFICATION"
	CodeHistoryValidation      = "HISTORY_VALIDATION_FAILED"
)

// WorkflowError is a typed failure returned by the workflow engine and its
// collaborators. Retryable marks failures that are safe for the caller to
// retry automatically (transient infrastructure or lost races); everything
// else needs a new decision from the human actor.
type WorkflowError struct {
	Code      string
	Message   string
	Retryable bool
	// ConfigDefect flags operator-facing configuration problems (an
	// unmapped action) as opposed to user errors, so monitoring can
	// separate them from ordinary rejections.
	ConfigDefect bool
	Err          error
}

func (e *WorkflowError) Error() string {
	if e.Message == "" {
		return e.Code
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *WorkflowError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match any WorkflowError of the same code, so sentinels
// below double as comparison targets for wrapped instances.
func (e *WorkflowError) Is(target error) bool {
	t, ok := target.(*WorkflowError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

// Sentinel instances for errors.Is checks.
var (
	ErrInvalidTransition      = &WorkflowError{Code: CodeInvalidTransition}
	ErrUnmappedAction         = &WorkflowError{Code: CodeUnmappedAction, ConfigDefect: true}
	ErrInvalidRole            = &WorkflowError{Code: CodeInvalidRole}
	ErrRoleResolution         = &WorkflowError{Code: CodeRoleResolution, Retryable: true}
	ErrAlreadyAssigned        = &WorkflowError{Code: CodeAlreadyAssigned}
	ErrConcurrentModification = &WorkflowError{Code: CodeConcurrentModification, Retryable: true}
	ErrHistoryValidation      = &WorkflowError{Code: CodeHistoryValidation}
)

func invalidTransition(from, to string) *WorkflowError {
	return &WorkflowError{
		Code:    CodeInvalidTransition,
		Message: fmt.Sprintf("cannot transition from %q to %q", from, to),
	}
}

func unmappedAction(status string) *WorkflowError {
	return &WorkflowError{
		Code:         CodeUnmappedAction,
		Message:      fmt.Sprintf("no action mapped for status %q", status),
		ConfigDefect: true,
	}
}

func invalidRole(role string) *WorkflowError {
	return &WorkflowError{
		Code:    CodeInvalidRole,
		Message: fmt.Sprintf("role %q is not a permitted role", role),
	}
}

func roleResolutionFailed(err error) *WorkflowError {
	return &WorkflowError{
		Code:      CodeRoleResolution,
		Message:   "identity lookup failed",
		Retryable: true,
		Err:       err,
	}
}

func alreadyAssigned(editorID int) *WorkflowError {
	return &WorkflowError{
		Code:    CodeAlreadyAssigned,
		Message: fmt.Sprintf("submission is already assigned to editor %d", editorID),
	}
}

func historyValidation(msg string) *WorkflowError {
	return &WorkflowError{
		Code:    CodeHistoryValidation,
		Message: msg,
	}
}
