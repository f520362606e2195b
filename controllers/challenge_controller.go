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

type ChallengeController struct {
	DB *gorm.DB
}

func NewChallengeController(db *gorm.DB) *ChallengeController {
	return &ChallengeController{DB: db}
}

func toChallengeActivities(activities []models.Activity) []types.ChallengeActivity {
	out := make([]types.ChallengeActivity, len(activities))
	for i, a := range activities {
		out[i] = types.ChallengeActivity{
			Date:         a.Date,
			ExerciseType: a.ExerciseType,
			Duration:     a.Duration,
			Intensity:    a.Intensity,
			ExpGained:    a.ExpGained,
		}
	}
	return out
}

// GetChallenges derives the current weekly and monthly challenge instances
// and their progress from the user's activity history. Instances are never
// persisted; only claims are.
func (cc *ChallengeController) GetChallenges(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var user models.User
	if err := cc.DB.First(&user, claims.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found", "success": false})
		return
	}

	var activities []models.Activity
	if err := cc.DB.Where("user_id = ?", user.ID).Find(&activities).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching activities", "success": false})
		return
	}

	now := time.Now().UTC()
	all := toChallengeActivities(activities)
	dates := make([]time.Time, len(activities))
	for i, a := range activities {
		dates[i] = a.Date
	}
	streak := types.CalculateStreak(dates, now)

	claimed := make(map[string]bool, len(user.ClaimedChallenges))
	for _, id := range user.ClaimedChallenges {
		claimed[id] = true
	}

	weekStart, weekEnd := types.WeeklyWindow(now)
	weekActivities := types.FilterWindow(all, weekStart, weekEnd)
	var weekly []types.ChallengeProgress
	for _, tpl := range types.GetWeeklyChallenges() {
		weekly = append(weekly, types.EvaluateChallenge(tpl, weekActivities, streak, claimed, now))
	}

	monthStart, monthEnd := types.MonthlyWindow(now)
	monthActivities := types.FilterWindow(all, monthStart, monthEnd)
	var monthly []types.ChallengeProgress
	for _, tpl := range types.GetMonthlyChallenges() {
		monthly = append(monthly, types.EvaluateChallenge(tpl, monthActivities, streak, claimed, now))
	}

	c.JSON(http.StatusOK, gin.H{
		"success":     true,
		"weekly":      weekly,
		"monthly":     monthly,
		"week_start":  weekStart,
		"month_start": monthStart,
	})
}

// ClaimChallenge claims the current period's instance of a challenge
// template. Reward EXP, the leveling loop and the claimed-id append happen in
// one transaction so a partial claim can never double-pay.
func (cc *ChallengeController) ClaimChallenge(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var input struct {
		Key string `json:"key" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	tpl, ok := types.GetChallengeTemplate(input.Key)
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown challenge", "success": false})
		return
	}

	now := time.Now().UTC()
	instanceID := types.ChallengeInstanceID(tpl, now)

	tx := cc.DB.Begin()
	if tx.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to start claim", "success": false})
		return
	}

	user, err := lockUser(tx, claims.UserID)
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found", "success": false})
		return
	}

	if user.HasClaimed(instanceID) {
		tx.Rollback()
		c.JSON(http.StatusConflict, gin.H{"error": "Challenge already claimed", "success": false})
		return
	}

	start, end := types.PeriodWindow(tpl.Period, now)
	var activities []models.Activity
	if err := tx.Where("user_id = ? AND date >= ? AND date < ?", user.ID, start, end).Find(&activities).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching activities", "success": false})
		return
	}

	streak := 0
	if tpl.Metric == types.METRIC_STREAK {
		dates, err := activityDates(tx, user.ID)
		if err != nil {
			tx.Rollback()
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching activities", "success": false})
			return
		}
		streak = types.CalculateStreak(dates, now)
	}

	raw := types.ChallengeRawProgress(tpl, toChallengeActivities(activities), streak)
	if raw < tpl.Target {
		tx.Rollback()
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "Challenge not completed",
			"success":  false,
			"progress": raw,
			"target":   tpl.Target,
		})
		return
	}

	levels, err := grantExp(tx, user, tpl.RewardExp)
	if err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to grant reward", "success": false})
		return
	}

	user.ClaimedChallenges = append(user.ClaimedChallenges, instanceID)
	if err := tx.Model(user).Update("claimed_challenges", user.ClaimedChallenges).Error; err != nil {
		tx.Rollback()
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to record claim", "success": false})
		return
	}

	if err := tx.Commit().Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to commit claim", "success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"instance_id":   instanceID,
		"reward_exp":    tpl.RewardExp,
		"levels_gained": levels,
		"level":         user.Level,
		"exp":           user.Exp,
	})
}
