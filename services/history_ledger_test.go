package services

import (
	"errors"
	"testing"
	"time"

	"editorial-platform-api/models"
)

func TestLedgerAppendValidEntry(t *testing.T) {
	ledger := NewHistoryLedger(mustRegistry(t, DefaultRegistryConfig()))
	sub := testSubmission(5, StatusDraft)

	entry := models.SubmissionHistoryEntry{
		Action:         "submit",
		Status:         StatusSubmitted,
		ActingUserID:   100,
		ActingUserRole: RoleUser,
		CreatedAt:      time.Now(),
	}
	if err := ledger.Append(sub, entry); err != nil {
		t.Fatalf("append failed: %v", err)
	}
	if len(sub.History) != 1 {
		t.Fatalf("history length = %d", len(sub.History))
	}
	if sub.History[0].SubmissionID != 5 {
		t.Errorf("entry submissionID = %d, want stamped with the aggregate's", sub.History[0].SubmissionID)
	}
}

func TestLedgerRejectsInvalidEntries(t *testing.T) {
	ledger := NewHistoryLedger(mustRegistry(t, DefaultRegistryConfig()))
	now := time.Now()

	base := models.SubmissionHistoryEntry{
		Action:         "approve",
		Status:         StatusApproved,
		ActingUserID:   1,
		ActingUserRole: RoleEditor,
		CreatedAt:      now,
	}

	tests := []struct {
		name   string
		mutate func(*models.SubmissionHistoryEntry)
	}{
		{"missing acting user", func(e *models.SubmissionHistoryEntry) { e.ActingUserID = 0 }},
		{"unpermitted role", func(e *models.SubmissionHistoryEntry) { e.ActingUserRole = "superuser" }},
		{"empty role", func(e *models.SubmissionHistoryEntry) { e.ActingUserRole = "" }},
		{"unknown status", func(e *models.SubmissionHistoryEntry) { e.Status = "vanished" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sub := testSubmission(5, StatusInReview)
			entry := base
			tt.mutate(&entry)
			err := ledger.Append(sub, entry)
			if !errors.Is(err, ErrHistoryValidation) {
				t.Errorf("error = %v, want HistoryValidation", err)
			}
			if len(sub.History) != 0 {
				t.Error("rejected entry was appended")
			}
		})
	}
}

func TestLedgerRejectsBackwardsTimestamp(t *testing.T) {
	ledger := NewHistoryLedger(mustRegistry(t, DefaultRegistryConfig()))
	now := time.Now()

	sub := testSubmission(5, StatusInReview)
	sub.History = []models.SubmissionHistoryEntry{{
		Action:         "assign",
		Status:         StatusInReview,
		ActingUserID:   1,
		ActingUserRole: RoleEditor,
		CreatedAt:      now,
	}}

	err := ledger.Append(sub, models.SubmissionHistoryEntry{
		Action:         "approve",
		Status:         StatusApproved,
		ActingUserID:   1,
		ActingUserRole: RoleEditor,
		CreatedAt:      now.Add(-time.Minute),
	})
	if !errors.Is(err, ErrHistoryValidation) {
		t.Fatalf("error = %v, want HistoryValidation", err)
	}

	// An equal timestamp is allowed; only strictly backwards is rejected.
	if err := ledger.Append(sub, models.SubmissionHistoryEntry{
		Action:         "approve",
		Status:         StatusApproved,
		ActingUserID:   1,
		ActingUserRole: RoleEditor,
		CreatedAt:      now,
	}); err != nil {
		t.Errorf("equal timestamp rejected: %v", err)
	}
}
