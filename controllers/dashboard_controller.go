package controllers

import (
	"net/http"
	"time"

	"github.com/fit-quest/api-go/models"
	"github.com/fit-quest/api-go/types"
	"github.com/fit-quest/api-go/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type DashboardController struct {
	DB *gorm.DB
}

func NewDashboardController(db *gorm.DB) *DashboardController {
	return &DashboardController{DB: db}
}

type weightPoint struct {
	Date   string  `json:"date"`
	Weight float64 `json:"weight"`
}

func weightHistory(activities []models.Activity, limit int) []weightPoint {
	// activities arrive newest first; the chart wants chronological order
	var points []weightPoint
	for i := len(activities) - 1; i >= 0; i-- {
		a := activities[i]
		if a.WeightRecorded != nil {
			points = append(points, weightPoint{Date: types.DateKey(a.Date), Weight: *a.WeightRecorded})
		}
	}
	if len(points) > limit {
		points = points[len(points)-limit:]
	}
	return points
}

// GetDashboard applies the daily inactivity penalty, then assembles the
// progression snapshot the dashboard renders.
func (dc *DashboardController) GetDashboard(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var user models.User
	if err := dc.DB.First(&user, claims.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found", "success": false})
		return
	}

	now := time.Now().UTC()
	penalty, err := applyInactivityPenalty(dc.DB, &user, now)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to apply inactivity penalty", "success": false})
		return
	}

	var activities []models.Activity
	if err := dc.DB.Where("user_id = ?", user.ID).Order("date DESC").Find(&activities).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching activities", "success": false})
		return
	}

	dates := make([]time.Time, len(activities))
	totalMinutes := 0
	typeCounts := map[string]int{}
	for i, a := range activities {
		dates[i] = a.Date
		totalMinutes += a.Duration
		typeCounts[a.ExerciseType]++
	}

	streak := types.CalculateStreak(dates, now)
	achievements := types.GetAchievements(len(activities), streak, user.Level)
	unlockedCount := 0
	for _, a := range achievements {
		if a.Unlocked {
			unlockedCount++
		}
	}

	expForNext := types.ExpForNextLevel(user.Level)
	progress := 0.0
	if expForNext > 0 {
		progress = user.Exp / expForNext * 100
	}

	recent := activities
	if len(recent) > 10 {
		recent = recent[:10]
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":           user.ID,
			"username":     user.Username,
			"level":        user.Level,
			"exp":          user.Exp,
			"weight":       user.Weight,
			"player_class": user.PlayerClass,
		},
		"exp_for_next":      expForNext,
		"progress":          progress,
		"streak":            streak,
		"achievements":      achievements,
		"unlocked_count":    unlockedCount,
		"total_activities":  len(activities),
		"total_minutes":     totalMinutes,
		"recent_activities": recent,
		"weight_history":    weightHistory(activities, 20),
		"type_breakdown":    typeCounts,
		"penalty":           penalty, // nil unless applied this request
	})
}
