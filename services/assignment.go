package services

import (
	"time"

	"editorial-platform-api/models"
)

// AssignmentManager handles exclusive editorial ownership of a submission.
// It mutates only the in-memory aggregate; exclusivity under concurrency is
// enforced by the version-guarded commit, so two racing claims resolve with
// exactly one winner.
type AssignmentManager struct{}

func NewAssignmentManager() *AssignmentManager {
	return &AssignmentManager{}
}

// Claim assigns the submission to the editor. It fails when another editor
// already holds the submission; a repeated claim by the current holder is
// also a conflict, the holder already owns it.
func (m *AssignmentManager) Claim(sub *models.Submission, editorID int, now time.Time) error {
	if sub.AssignedTo != nil {
		return alreadyAssigned(*sub.AssignedTo)
	}
	sub.AssignedTo = &editorID
	sub.AssignedAt = &now
	return nil
}

// Release unconditionally clears the assignment. The engine calls it on
// every transition whose target is not the assigned-in-progress status, so
// assignment fields can never point at a stale editor.
func (m *AssignmentManager) Release(sub *models.Submission) {
	sub.AssignedTo = nil
	sub.AssignedAt = nil
}
