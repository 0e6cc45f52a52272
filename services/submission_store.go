package services

import (
	"context"
	"errors"
	"time"

	"editorial-platform-api/config"
	"editorial-platform-api/models"

	"gorm.io/gorm"
)

// ErrSubmissionNotFound is returned by Load when no live submission matches.
var ErrSubmissionNotFound = errors.New("submission not found")

// SubmissionStore is the persistence boundary of the workflow engine. The
// engine mutates a loaded aggregate in memory and commits the whole thing in
// one conditional write; it never issues partial writes.
type SubmissionStore interface {
	Load(ctx context.Context, id int) (*models.Submission, error)

	// CommitIfUnchanged persists the mutated aggregate only if the stored
	// version still equals expectedVersion, bumping the version on
	// success. A lost race returns ErrConcurrentModification and leaves
	// the stored state untouched.
	CommitIfUnchanged(ctx context.Context, sub *models.Submission, expectedVersion int) error
}

type gormSubmissionStore struct {
	db *gorm.DB
}

// NewSubmissionStore returns a SubmissionStore backed by the submissions and
// submission_status_history tables.
func NewSubmissionStore(db *gorm.DB) SubmissionStore {
	return &gormSubmissionStore{db: db}
}

// DefaultSubmissionStore returns a store on the global connection.
func DefaultSubmissionStore() SubmissionStore {
	return NewSubmissionStore(config.DB)
}

func (s *gormSubmissionStore) Load(ctx context.Context, id int) (*models.Submission, error) {
	var sub models.Submission
	err := s.db.WithContext(ctx).
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("history_id ASC")
		}).
		Where("submission_id = ? AND delete_at IS NULL", id).
		First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubmissionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

func (s *gormSubmissionStore) CommitIfUnchanged(ctx context.Context, sub *models.Submission, expectedVersion int) error {
	now := time.Now()

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Conditional write: the version predicate makes the whole
		// commit a compare-and-swap on the aggregate. Columns are
		// listed explicitly because cleared assignment fields must be
		// written back as NULL.
		res := tx.Model(&models.Submission{}).
			Where("submission_id = ? AND version = ?", sub.SubmissionID, expectedVersion).
			Updates(map[string]interface{}{
				"status":               sub.Status,
				"assigned_to":          sub.AssignedTo,
				"assigned_at":          sub.AssignedAt,
				"reviewed_at":          sub.ReviewedAt,
				"reviewed_by":          sub.ReviewedBy,
				"revision_notes":       sub.RevisionNotes,
				"published_at":         sub.PublishedAt,
				"eligible_for_purge":   sub.EligibleForPurge,
				"purge_eligible_since": sub.PurgeEligibleSince,
				"version":              expectedVersion + 1,
				"update_at":            now,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrConcurrentModification
		}

		for i := range sub.History {
			entry := &sub.History[i]
			if entry.HistoryID != 0 {
				continue // already persisted, history rows are never rewritten
			}
			entry.SubmissionID = sub.SubmissionID
			if err := tx.Create(entry).Error; err != nil {
				return err
			}
		}

		sub.Version = expectedVersion + 1
		sub.UpdateAt = &now
		return nil
	})
}
