package services

import (
	"fmt"

	"editorial-platform-api/models"
)

// HistoryLedger validates and appends audit entries to a submission's
// history. Entries are immutable once appended; correcting historical
// mistakes is a data-migration concern, not something the ledger supports.
type HistoryLedger struct {
	registry *StatusRegistry
}

func NewHistoryLedger(registry *StatusRegistry) *HistoryLedger {
	return &HistoryLedger{registry: registry}
}

// Append validates the entry and appends it to the submission's in-memory
// history. The entry is persisted together with the rest of the aggregate
// when the engine commits.
func (l *HistoryLedger) Append(sub *models.Submission, entry models.SubmissionHistoryEntry) error {
	if entry.ActingUserID == 0 {
		return historyValidation("history entry requires an acting user")
	}
	if !l.registry.IsPermittedRole(entry.ActingUserRole) {
		return historyValidation(fmt.Sprintf("history entry role %q is not permitted", entry.ActingUserRole))
	}
	if !l.registry.IsKnown(entry.Status) {
		return historyValidation(fmt.Sprintf("history entry status %q is unknown", entry.Status))
	}
	if n := len(sub.History); n > 0 && entry.CreatedAt.Before(sub.History[n-1].CreatedAt) {
		return historyValidation("history entry timestamp precedes the previous entry")
	}

	entry.SubmissionID = sub.SubmissionID
	sub.History = append(sub.History, entry)
	return nil
}
