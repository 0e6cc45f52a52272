package services

import (
	"fmt"
	"log"
	"time"

	"editorial-platform-api/config"
	"editorial-platform-api/models"
)

// NotifyTransition records an in-app notification for the submission author
// and sends the matching email. Controllers call this after a successful
// commit; a delivery failure is logged but never fails the request, the
// transition is already durable.
func NotifyTransition(outcome *TransitionOutcome) {
	sub := outcome.Submission

	var author models.User
	if err := config.DB.Where("user_id = ? AND delete_at IS NULL", sub.UserID).First(&author).Error; err != nil {
		log.Printf("notify: author %d not found for submission %d: %v", sub.UserID, sub.SubmissionID, err)
		return
	}

	title, message := transitionMessage(outcome)

	submissionID := sub.SubmissionID
	notification := models.Notification{
		UserID:              author.UserID,
		Title:               title,
		Message:             message,
		Type:                notificationType(outcome),
		RelatedSubmissionID: &submissionID,
		CreateAt:            time.Now(),
	}
	if err := config.DB.Create(&notification).Error; err != nil {
		log.Printf("notify: failed to store notification for submission %d: %v", sub.SubmissionID, err)
	}

	html := fmt.Sprintf(
		"<p>Dear %s %s,</p><p>%s</p><p>Submission: <strong>%s</strong> (%s)</p>",
		author.UserFname, author.UserLname, message, sub.Title, sub.SubmissionNumber,
	)
	if err := config.SendMail([]string{author.Email}, title, html); err != nil {
		log.Printf("notify: failed to send email for submission %d: %v", sub.SubmissionID, err)
	}
}

func transitionMessage(outcome *TransitionOutcome) (string, string) {
	switch outcome.Action {
	case "submit":
		return "Submission received", "Your work has entered the review queue."
	case "assign":
		return "Review started", "An editor is now reviewing your submission."
	case "shortlist":
		return "Submission shortlisted", "Your submission has been shortlisted."
	case "request_changes":
		msg := "The editors have requested changes to your submission."
		if outcome.Notes != "" {
			msg = fmt.Sprintf("%s Notes: %s", msg, outcome.Notes)
		}
		return "Changes requested", msg
	case "approve":
		return "Submission approved", "Congratulations, your submission has been approved."
	case "reject":
		return "Submission declined", "Your submission was not selected this time."
	case "publish":
		return "Submission published", "Your work is now live."
	case "archive":
		return "Submission archived", "Your published work has been archived."
	default:
		return "Submission updated", fmt.Sprintf("Your submission moved to %s.", outcome.ToStatus)
	}
}

func notificationType(outcome *TransitionOutcome) string {
	switch outcome.Action {
	case "approve", "publish", "shortlist":
		return "success"
	case "reject":
		return "error"
	case "request_changes":
		return "warning"
	default:
		return "info"
	}
}
