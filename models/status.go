package models

import "time"

// SubmissionStatus is one row of the externally configured status table.
// The workflow engine never hardcodes statuses; it consults the registry
// built from these rows.
type SubmissionStatus struct {
	StatusID         int        `gorm:"primaryKey;column:status_id" json:"status_id"`
	StatusCode       string     `gorm:"column:status_code;unique" json:"status_code"`
	StatusName       string     `gorm:"column:status_name" json:"status_name"`
	Action           *string    `gorm:"column:action" json:"action,omitempty"`
	IsInitial        bool       `gorm:"column:is_initial" json:"is_initial"`
	IsAssigned       bool       `gorm:"column:is_assigned" json:"is_assigned"`
	IsPublished      bool       `gorm:"column:is_published" json:"is_published"`
	IsRevisionFamily bool       `gorm:"column:is_revision_family" json:"is_revision_family"`
	IsTerminalNeg    bool       `gorm:"column:is_terminal_negative" json:"is_terminal_negative"`
	IsReviewerAction bool       `gorm:"column:is_reviewer_decision" json:"is_reviewer_decision"`
	CreateAt         *time.Time `gorm:"column:create_at" json:"create_at"`
	UpdateAt         *time.Time `gorm:"column:update_at" json:"update_at"`
	DeleteAt         *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// SubmissionTransition is one legal edge of the status graph.
type SubmissionTransition struct {
	TransitionID int        `gorm:"primaryKey;column:transition_id" json:"transition_id"`
	FromStatus   string     `gorm:"column:from_status" json:"from_status"`
	ToStatus     string     `gorm:"column:to_status" json:"to_status"`
	CreateAt     *time.Time `gorm:"column:create_at" json:"create_at"`
	DeleteAt     *time.Time `gorm:"column:delete_at" json:"delete_at,omitempty"`
}

// TableName overrides
func (SubmissionStatus) TableName() string {
	return "submission_statuses"
}

func (SubmissionTransition) TableName() string {
	return "submission_transitions"
}
