// controllers/admin_purge.go
package controllers

import (
	"editorial-platform-api/config"
	"editorial-platform-api/models"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// GetPurgeEligibleSubmissions lists submissions flagged for deferred
// deletion. The purge executor itself runs outside this service; this
// endpoint only exposes the eligibility bookkeeping for operators.
func GetPurgeEligibleSubmissions(c *gin.Context) {
	minAgeDays, _ := strconv.Atoi(c.DefaultQuery("min_age_days", "0"))

	var submissions []models.Submission
	query := config.DB.
		Where("eligible_for_purge = ? AND marked_for_deletion = ?", true, false)

	if minAgeDays > 0 {
		query = query.Where("purge_eligible_since <= DATE_SUB(NOW(), INTERVAL ? DAY)", minAgeDays)
	}

	if err := query.Order("purge_eligible_since ASC").Find(&submissions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch purge-eligible submissions"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"submissions": submissions,
		"total":       len(submissions),
	})
}
