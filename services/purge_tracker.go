package services

import (
	"time"

	"editorial-platform-api/models"
)

// PurgeEligibilityTracker flags submissions that landed in a
// terminal-negative status as candidates for later deletion. It only ever
// marks forward: un-marking a resurrected submission is a purge-policy
// decision made outside this core. Actual deletion is owned by the external
// purge executor.
type PurgeEligibilityTracker struct{}

func NewPurgeEligibilityTracker() *PurgeEligibilityTracker {
	return &PurgeEligibilityTracker{}
}

// Mark is idempotent: PurgeEligibleSince is set on the first marking and
// never moved afterwards.
func (t *PurgeEligibilityTracker) Mark(sub *models.Submission, now time.Time) {
	if sub.EligibleForPurge {
		return
	}
	sub.EligibleForPurge = true
	sub.PurgeEligibleSince = &now
}
