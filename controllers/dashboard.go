package controllers

import (
	"net/http"

	"member-portal-api/config"
	"member-portal-api/models"
	"member-portal-api/services"

	"github.com/gin-gonic/gin"
)

type statusCount struct {
	Status models.ReviewStatus `json:"status"`
	Count  int64               `json:"count"`
}

type monthCount struct {
	Month string `json:"month"`
	Count int64  `json:"count"`
}

func countByStatus(table string) ([]statusCount, error) {
	var rows []statusCount
	err := config.DB.Table(table).
		Select("status, COUNT(*) as count").
		Where("delete_at IS NULL").
		Group("status").
		Scan(&rows).Error
	return rows, err
}

func monthlySubmissions(table string) ([]monthCount, error) {
	var rows []monthCount
	err := config.DB.Table(table).
		Select("DATE_FORMAT(submitted_at, '%Y-%m') as month, COUNT(*) as count").
		Where("submitted_at IS NOT NULL AND delete_at IS NULL AND submitted_at >= DATE_SUB(NOW(), INTERVAL 12 MONTH)").
		Group("month").
		Order("month ASC").
		Scan(&rows).Error
	return rows, err
}

// GetDashboardStats aggregates the counters the admin landing page shows:
// per-entity status breakdown, the review backlog, a twelve month submission
// trend and open consultation threads.
// GET /api/v1/admin/dashboard/stats
func GetDashboardStats(c *gin.Context) {
	memberCounts, err := countByStatus("member_registrations")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate registrations", "code": codeInternal})
		return
	}
	performanceCounts, err := countByStatus("performance_records")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate records", "code": codeInternal})
		return
	}
	applicationCounts, err := countByStatus("project_applications")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate applications", "code": codeInternal})
		return
	}

	pending := int64(0)
	for _, rows := range [][]statusCount{memberCounts, performanceCounts, applicationCounts} {
		for _, row := range rows {
			if row.Status == models.StatusSubmitted {
				pending += row.Count
			}
		}
	}

	var openThreads int64
	if err := config.DB.Model(&models.MessageThread{}).
		Where("status = ? AND delete_at IS NULL", models.ThreadOpen).
		Count(&openThreads).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to count threads", "code": codeInternal})
		return
	}

	trend, err := monthlySubmissions("member_registrations")
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to aggregate trend", "code": codeInternal})
		return
	}

	var recentTransitions []models.ReviewStatusHistory
	if err := config.DB.Model(&models.ReviewStatusHistory{}).
		Where("entity_type IN ?", []string{
			services.EntityMemberRegistration,
			services.EntityPerformanceRecord,
			services.EntityProjectApplication,
		}).
		Order("created_at DESC").Limit(10).
		Find(&recentTransitions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch recent activity", "code": codeInternal})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"members":            memberCounts,
		"performance":        performanceCounts,
		"applications":       applicationCounts,
		"pending_review":     pending,
		"open_threads":       openThreads,
		"registration_trend": trend,
		"recent_activity":    recentTransitions,
	})
}
