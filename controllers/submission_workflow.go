// controllers/submission_workflow.go
package controllers

import (
	"errors"
	"log"
	"net/http"
	"strconv"

	"editorial-platform-api/services"

	"github.com/gin-gonic/gin"
)

type TransitionBody struct {
	Notes string `json:"notes"`
}

type BulkReassignRequest struct {
	SubmissionIDs []int `json:"submission_ids" binding:"required,min=1"`
	EditorID      int   `json:"editor_id" binding:"required"`
}

// applyTransition runs one engine transition for the calling user and writes
// the HTTP response. Notification dispatch happens only after a successful
// commit.
func applyTransition(c *gin.Context, targetStatus string) {
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	var body TransitionBody
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&body); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
	}

	userID, _ := c.Get("userID")
	role, _ := c.Get("role")

	engine, err := services.DefaultWorkflowEngine()
	if err != nil {
		log.Printf("workflow: status configuration unavailable: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Status configuration unavailable"})
		return
	}

	outcome, err := engine.RequestTransitionByID(c.Request.Context(), submissionID, services.TransitionRequest{
		TargetStatus: targetStatus,
		Actor:        services.Actor{UserID: userID.(int), Role: role.(string)},
		Notes:        body.Notes,
	})
	if err != nil {
		respondTransitionError(c, err)
		return
	}

	services.NotifyTransition(outcome)

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"action":     outcome.Action,
		"status":     outcome.ToStatus,
		"submission": outcome.Submission,
	})
}

// respondTransitionError maps workflow failures onto HTTP responses with a
// reason the editorial UI can show verbatim.
func respondTransitionError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrSubmissionNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	var wfErr *services.WorkflowError
	if !errors.As(err, &wfErr) {
		log.Printf("workflow: transition failed: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Transition failed"})
		return
	}

	if wfErr.ConfigDefect {
		// Operator problem, not a user mistake. Keep it loud in the logs.
		log.Printf("workflow: configuration defect: %v", wfErr)
	}

	status := http.StatusConflict
	switch wfErr.Code {
	case services.CodeInvalidTransition:
		status = http.StatusUnprocessableEntity
	case services.CodeInvalidRole, services.CodeHistoryValidation:
		status = http.StatusUnprocessableEntity
	case services.CodeUnmappedAction, services.CodeRoleResolution:
		status = http.StatusInternalServerError
	case services.CodeAlreadyAssigned, services.CodeConcurrentModification:
		status = http.StatusConflict
	}

	c.JSON(status, gin.H{
		"error":     wfErr.Error(),
		"code":      wfErr.Code,
		"retryable": wfErr.Retryable,
	})
}

// SubmitSubmission moves a draft (or a revised submission) into the queue
func SubmitSubmission(c *gin.Context) {
	applyTransition(c, services.StatusSubmitted)
}

// ClaimSubmission assigns the submission to the calling editor
func ClaimSubmission(c *gin.Context) {
	applyTransition(c, services.StatusInReview)
}

// ReleaseSubmission returns a claimed submission to the queue. Modeled as a
// normal transition back to submitted so the release lands in history.
func ReleaseSubmission(c *gin.Context) {
	applyTransition(c, services.StatusSubmitted)
}

// ShortlistSubmission marks a submission as shortlisted
func ShortlistSubmission(c *gin.Context) {
	applyTransition(c, services.StatusShortlisted)
}

// RequestChanges sends a submission back to the author for revision
func RequestChanges(c *gin.Context) {
	applyTransition(c, services.StatusNeedsRevision)
}

// ApproveSubmission records an approve decision
func ApproveSubmission(c *gin.Context) {
	applyTransition(c, services.StatusApproved)
}

// RejectSubmission records a reject decision
func RejectSubmission(c *gin.Context) {
	applyTransition(c, services.StatusRejected)
}

// PublishSubmission publishes an approved submission
func PublishSubmission(c *gin.Context) {
	applyTransition(c, services.StatusPublished)
}

// ArchiveSubmission archives a published submission
func ArchiveSubmission(c *gin.Context) {
	applyTransition(c, services.StatusArchived)
}

// BulkReassignSubmissions releases each listed submission and claims it for
// the target editor. Every submission is an independent atomic unit; partial
// failure is reported per item, never rolled back globally.
func BulkReassignSubmissions(c *gin.Context) {
	var req BulkReassignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	adminID, _ := c.Get("userID")
	adminRole, _ := c.Get("role")

	engine, err := services.DefaultWorkflowEngine()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Status configuration unavailable"})
		return
	}

	type itemResult struct {
		SubmissionID int    `json:"submission_id"`
		Success      bool   `json:"success"`
		Error        string `json:"error,omitempty"`
	}

	admin := services.Actor{UserID: adminID.(int), Role: adminRole.(string)}

	results := make([]itemResult, 0, len(req.SubmissionIDs))
	succeeded := 0
	for _, id := range req.SubmissionIDs {
		if _, err := engine.ReassignSubmission(c.Request.Context(), id, admin, req.EditorID, services.StatusSubmitted); err != nil {
			results = append(results, itemResult{SubmissionID: id, Error: err.Error()})
			continue
		}

		results = append(results, itemResult{SubmissionID: id, Success: true})
		succeeded++
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   succeeded == len(req.SubmissionIDs),
		"succeeded": succeeded,
		"failed":    len(req.SubmissionIDs) - succeeded,
		"results":   results,
	})
}
