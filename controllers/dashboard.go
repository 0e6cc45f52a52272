package controllers

import (
	"editorial-platform-api/config"
	"editorial-platform-api/models"
	"editorial-platform-api/services"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

// GetDashboardStats returns dashboard statistics
func GetDashboardStats(c *gin.Context) {
	userIDVal, userExists := c.Get("userID")
	roleVal, roleExists := c.Get("role")
	if !userExists || !roleExists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success": false,
			"error":   "authentication context missing",
		})
		return
	}

	userID, okUser := userIDVal.(int)
	role, okRole := roleVal.(string)
	if !okUser || !okRole {
		c.JSON(http.StatusInternalServerError, gin.H{
			"success": false,
			"error":   "invalid user or role",
		})
		return
	}

	var stats map[string]interface{}
	if role == services.RoleAdmin || role == services.RoleEditor {
		stats = getEditorialDashboard()
	} else {
		stats = getAuthorDashboard(userID)
	}

	if stats == nil {
		stats = make(map[string]interface{})
	}
	stats["current_date"] = time.Now().Format("2006-01-02")

	c.JSON(http.StatusOK, gin.H{
		"stats": stats,
	})
}

// getAuthorDashboard returns stats for a writer's own submissions
func getAuthorDashboard(userID int) map[string]interface{} {
	stats := make(map[string]interface{})

	var byStatus []struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	config.DB.Model(&models.Submission{}).
		Select("status, COUNT(*) AS count").
		Where("user_id = ? AND delete_at IS NULL", userID).
		Group("status").
		Scan(&byStatus)

	var total int64
	config.DB.Model(&models.Submission{}).
		Where("user_id = ? AND delete_at IS NULL", userID).
		Count(&total)

	stats["my_submissions"] = map[string]interface{}{
		"total":     total,
		"by_status": byStatus,
	}
	return stats
}

// getEditorialDashboard returns queue and throughput stats for editors
func getEditorialDashboard() map[string]interface{} {
	stats := make(map[string]interface{})

	var byStatus []struct {
		Status string `json:"status"`
		Count  int64  `json:"count"`
	}
	config.DB.Model(&models.Submission{}).
		Select("status, COUNT(*) AS count").
		Where("delete_at IS NULL").
		Group("status").
		Scan(&byStatus)

	var queueDepth int64
	config.DB.Model(&models.Submission{}).
		Where("status = ? AND delete_at IS NULL", services.StatusSubmitted).
		Count(&queueDepth)

	var reviewerThroughput []struct {
		ReviewedBy int   `json:"reviewed_by"`
		Decisions  int64 `json:"decisions"`
	}
	since := time.Now().AddDate(0, -1, 0)
	config.DB.Model(&models.Submission{}).
		Select("reviewed_by, COUNT(*) AS decisions").
		Where("reviewed_by IS NOT NULL AND reviewed_at >= ? AND delete_at IS NULL", since).
		Group("reviewed_by").
		Order("decisions DESC").
		Scan(&reviewerThroughput)

	var purgeBacklog int64
	config.DB.Model(&models.Submission{}).
		Where("eligible_for_purge = ? AND marked_for_deletion = ?", true, false).
		Count(&purgeBacklog)

	stats["by_status"] = byStatus
	stats["review_queue_depth"] = queueDepth
	stats["reviewer_throughput_30d"] = reviewerThroughput
	stats["purge_backlog"] = purgeBacklog
	return stats
}
