// controllers/submission.go
package controllers

import (
	"editorial-platform-api/config"
	"editorial-platform-api/models"
	"editorial-platform-api/services"
	"editorial-platform-api/utils"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ===================== SUBMISSION MANAGEMENT =====================

type SubmissionCreateRequest struct {
	Title   string `json:"title" binding:"required"`
	Body    string `json:"body" binding:"required"`
	Excerpt string `json:"excerpt"`
}

type SubmissionUpdateRequest struct {
	Title   *string `json:"title"`
	Body    *string `json:"body"`
	Excerpt *string `json:"excerpt"`
}

// GetSubmissions returns the caller's submissions; editors and admins see all
func GetSubmissions(c *gin.Context) {
	userID, _ := c.Get("userID")
	role, _ := c.Get("role")

	status := c.Query("status")
	assignedToMe := c.Query("assigned_to_me") == "true"

	var submissions []models.Submission
	query := config.DB.Preload("User").
		Where("delete_at IS NULL")

	// Authors only see their own work
	roleName := role.(string)
	if roleName != services.RoleEditor && roleName != services.RoleAdmin && roleName != services.RoleReviewer {
		query = query.Where("user_id = ?", userID)
	}

	if status != "" {
		query = query.Where("status = ?", status)
	}
	if assignedToMe {
		query = query.Where("assigned_to = ?", userID)
	}

	if err := query.Order("create_at DESC").Find(&submissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"submissions": submissions,
		"total":       len(submissions),
	})
}

// GetSubmission returns a specific submission with its full history
func GetSubmission(c *gin.Context) {
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}
	userID, _ := c.Get("userID")
	role, _ := c.Get("role")

	var submission models.Submission
	if err := config.DB.Preload("User").
		Preload("History", func(db *gorm.DB) *gorm.DB {
			return db.Order("history_id ASC")
		}).
		Where("submission_id = ? AND delete_at IS NULL", submissionID).
		First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	roleName := role.(string)
	if submission.UserID != userID.(int) &&
		roleName != services.RoleEditor && roleName != services.RoleAdmin && roleName != services.RoleReviewer {
		c.JSON(http.StatusForbidden, gin.H{"error": "Not allowed to view this submission"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"submission": submission,
	})
}

// CreateSubmission creates a new draft for the calling author
func CreateSubmission(c *gin.Context) {
	var req SubmissionCreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("userID")

	registry, err := services.LoadStatusRegistry(false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Status configuration unavailable"})
		return
	}

	slug := utils.UniqueSlug(req.Title, func(candidate string) bool {
		var count int64
		config.DB.Model(&models.Submission{}).Where("slug = ?", candidate).Count(&count)
		return count > 0
	})

	now := time.Now()
	submission := models.Submission{
		SubmissionNumber: uuid.NewString(),
		UserID:           userID.(int),
		Title:            strings.TrimSpace(req.Title),
		Body:             req.Body,
		Excerpt:          strings.TrimSpace(req.Excerpt),
		Slug:             slug,
		Status:           registry.InitialStatus(),
		Version:          1,
		CreateAt:         &now,
		UpdateAt:         &now,
	}

	if err := config.DB.Create(&submission).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create submission"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":    true,
		"submission": submission,
	})
}

// UpdateSubmission lets an author edit draft or needs-revision content.
// Status never changes here; that is the workflow engine's job.
func UpdateSubmission(c *gin.Context) {
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}

	var req SubmissionUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, _ := c.Get("userID")

	var submission models.Submission
	if err := config.DB.Where("submission_id = ? AND delete_at IS NULL", submissionID).
		First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	if submission.UserID != userID.(int) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the author can edit a submission"})
		return
	}

	registry, err := services.LoadStatusRegistry(false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Status configuration unavailable"})
		return
	}
	if submission.Status != registry.InitialStatus() && !registry.IsRevisionFamily(submission.Status) {
		c.JSON(http.StatusConflict, gin.H{"error": "Submission can only be edited while in draft or awaiting revision"})
		return
	}

	now := time.Now()
	updates := map[string]interface{}{"update_at": now}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Body != nil {
		updates["body"] = *req.Body
	}
	if req.Excerpt != nil {
		updates["excerpt"] = strings.TrimSpace(*req.Excerpt)
	}

	if err := config.DB.Model(&models.Submission{}).
		Where("submission_id = ?", submission.SubmissionID).
		Updates(updates).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update submission"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Submission updated"})
}

// DeleteSubmission soft deletes a draft that never entered the pipeline
func DeleteSubmission(c *gin.Context) {
	submissionID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid submission ID"})
		return
	}
	userID, _ := c.Get("userID")

	var submission models.Submission
	if err := config.DB.Where("submission_id = ? AND delete_at IS NULL", submissionID).
		First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Submission not found"})
		return
	}

	if submission.UserID != userID.(int) {
		c.JSON(http.StatusForbidden, gin.H{"error": "Only the author can delete a submission"})
		return
	}

	registry, err := services.LoadStatusRegistry(false)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Status configuration unavailable"})
		return
	}
	if submission.Status != registry.InitialStatus() {
		c.JSON(http.StatusConflict, gin.H{"error": "Only drafts can be deleted"})
		return
	}

	now := time.Now()
	if err := config.DB.Model(&models.Submission{}).
		Where("submission_id = ?", submission.SubmissionID).
		Update("delete_at", now).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete submission"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "message": "Submission deleted"})
}
