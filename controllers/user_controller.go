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

type UserController struct {
	DB *gorm.DB
}

func NewUserController(db *gorm.DB) *UserController {
	return &UserController{DB: db}
}

// GetProfile returns the user's lifetime aggregates, streak, achievements and
// weight history.
func (uc *UserController) GetProfile(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var user models.User
	if err := uc.DB.First(&user, claims.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found", "success": false})
		return
	}

	var activities []models.Activity
	if err := uc.DB.Where("user_id = ?", user.ID).Order("date DESC").Find(&activities).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching activities", "success": false})
		return
	}

	dates := make([]time.Time, len(activities))
	totalExp := 0.0
	totalMinutes := 0
	for i, a := range activities {
		dates[i] = a.Date
		totalExp += a.ExpGained
		totalMinutes += a.Duration
	}
	streak := types.CalculateStreak(dates, time.Now().UTC())

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"user": gin.H{
			"id":                user.ID,
			"username":          user.Username,
			"email":             user.Email,
			"level":             user.Level,
			"exp":               user.Exp,
			"weight":            user.Weight,
			"player_class":      user.PlayerClass,
			"class_selected_at": user.ClassSelectedAt,
			"created_at":        user.CreatedAt,
		},
		"total_activities": len(activities),
		"total_exp":        totalExp,
		"total_minutes":    totalMinutes,
		"streak":           streak,
		"achievements":     types.GetAchievements(len(activities), streak, user.Level),
		"weight_history":   weightHistory(activities, 30),
	})
}

// UpdateProfile records profile fields the user can set directly; today that
// is the body weight used as the complete-profile step after Google sign-up.
func (uc *UserController) UpdateProfile(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var input struct {
		Weight float64 `json:"weight" binding:"required,min=20,max=400"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	var user models.User
	if err := uc.DB.First(&user, claims.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found", "success": false})
		return
	}

	if err := uc.DB.Model(&user).Update("weight", input.Weight).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update profile", "success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Profile updated successfully",
		"weight":  input.Weight,
	})
}
