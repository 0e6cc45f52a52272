// controllers/publication.go
package controllers

import (
	"editorial-platform-api/config"
	"editorial-platform-api/models"
	"editorial-platform-api/services"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// PublishedSummary is the public shape of a published submission. SEO
// metadata only; body is served by the detail endpoint.
type PublishedSummary struct {
	SubmissionID int     `json:"submission_id"`
	Title        string  `json:"title"`
	Excerpt      string  `json:"excerpt"`
	Slug         string  `json:"slug"`
	PublishedAt  *string `json:"published_at"`
	AuthorName   string  `json:"author_name"`
}

// GetPublishedSubmissions lists published work for the public site
func GetPublishedSubmissions(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	var rows []PublishedSummary
	query := config.DB.Model(&models.Submission{}).
		Select(`submissions.submission_id, submissions.title, submissions.excerpt, submissions.slug,
			DATE_FORMAT(submissions.published_at, '%Y-%m-%dT%H:%i:%sZ') AS published_at,
			COALESCE(users.pen_name, CONCAT(users.user_fname, ' ', users.user_lname)) AS author_name`).
		Joins("LEFT JOIN users ON users.user_id = submissions.user_id").
		Where("submissions.status = ? AND submissions.delete_at IS NULL", services.StatusPublished)

	var total int64
	query.Count(&total)

	if err := query.Order("submissions.published_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Scan(&rows).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch publications"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"publications": rows,
		"total":        total,
		"page":         page,
		"page_size":    pageSize,
	})
}

// GetPublicationBySlug serves one published submission by its SEO slug
func GetPublicationBySlug(c *gin.Context) {
	slug := c.Param("slug")

	var submission models.Submission
	if err := config.DB.Preload("User").
		Where("slug = ? AND status = ? AND delete_at IS NULL", slug, services.StatusPublished).
		First(&submission).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Publication not found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"publication": submission,
	})
}
