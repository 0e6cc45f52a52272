package models

import "time"

// Submission is the aggregate root for one piece of work moving through
// editorial review. Status, assignment and purge fields are mutated only by
// the workflow engine; everything else is ordinary author-owned content.
type Submission struct {
	SubmissionID     int    `gorm:"primaryKey;column:submission_id" json:"submission_id"`
	SubmissionNumber string `gorm:"column:submission_number;unique" json:"submission_number"`
	UserID           int    `gorm:"column:user_id" json:"user_id"`
	Title            string `gorm:"column:title" json:"title"`
	Body             string `gorm:"column:body" json:"body"`
	Excerpt          string `gorm:"column:excerpt" json:"excerpt"`
	Slug             string `gorm:"column:slug" json:"slug"`

	Status        string     `gorm:"column:status" json:"status"`
	AssignedTo    *int       `gorm:"column:assigned_to" json:"assigned_to,omitempty"`
	AssignedAt    *time.Time `gorm:"column:assigned_at" json:"assigned_at,omitempty"`
	ReviewedAt    *time.Time `gorm:"column:reviewed_at" json:"reviewed_at,omitempty"`
	ReviewedBy    *int       `gorm:"column:reviewed_by" json:"reviewed_by,omitempty"`
	RevisionNotes *string    `gorm:"column:revision_notes" json:"revision_notes,omitempty"`
	PublishedAt   *time.Time `gorm:"column:published_at" json:"published_at,omitempty"`

	EligibleForPurge   bool       `gorm:"column:eligible_for_purge" json:"eligible_for_purge"`
	PurgeEligibleSince *time.Time `gorm:"column:purge_eligible_since" json:"purge_eligible_since,omitempty"`
	// MarkedForDeletion is owned by the external purge executor; the workflow
	// engine only ever reads it.
	MarkedForDeletion bool `gorm:"column:marked_for_deletion" json:"marked_for_deletion"`

	// Version is the optimistic lock counter. Every committed transition
	// increments it; a commit against a stale version is rejected.
	Version int `gorm:"column:version" json:"version"`

	CreateAt *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`

	// Relations
	User    User                     `gorm:"foreignKey:UserID" json:"user,omitempty"`
	History []SubmissionHistoryEntry `gorm:"foreignKey:SubmissionID" json:"history,omitempty"`
}

// SubmissionHistoryEntry is one immutable row of the per-submission audit
// trail. Rows are only ever appended, never edited or deleted.
type SubmissionHistoryEntry struct {
	HistoryID      int       `gorm:"primaryKey;column:history_id" json:"history_id"`
	SubmissionID   int       `gorm:"column:submission_id" json:"submission_id"`
	Action         string    `gorm:"column:action" json:"action"`
	Status         string    `gorm:"column:status" json:"status"`
	ActingUserID   int       `gorm:"column:acting_user_id" json:"acting_user_id"`
	ActingUserRole string    `gorm:"column:acting_user_role" json:"acting_user_role"`
	Notes          string    `gorm:"column:notes" json:"notes"`
	CreatedAt      time.Time `gorm:"column:created_at" json:"created_at"`
}

// TableName overrides
func (Submission) TableName() string {
	return "submissions"
}

func (SubmissionHistoryEntry) TableName() string {
	return "submission_status_history"
}

// CurrentHistoryStatus returns the status recorded by the newest history
// entry, or the empty string when no transition has been recorded yet.
func (s *Submission) CurrentHistoryStatus() string {
	if len(s.History) == 0 {
		return ""
	}
	return s.History[len(s.History)-1].Status
}
