package controllers

import (
	"math"
	"net/http"
	"time"

	"github.com/fit-quest/api-go/models"
	"github.com/fit-quest/api-go/types"
	"github.com/fit-quest/api-go/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

type ActivityController struct {
	DB *gorm.DB
}

func NewActivityController(db *gorm.DB) *ActivityController {
	return &ActivityController{DB: db}
}

type ActivityInput struct {
	ExerciseType string  `json:"exercise_type" binding:"required"`
	Duration     int     `json:"duration" binding:"required,min=1,max=600"`
	Intensity    string  `json:"intensity" binding:"required,oneof=low medium high"`
	HasEvidence  bool    `json:"has_evidence"`
	EvidenceURL  string  `json:"evidence_url"`
	Weight       float64 `json:"weight" binding:"omitempty,min=20,max=400"`
	Date         string  `json:"date"` // optional RFC3339, defaults to now
}

func (in *ActivityInput) validate() (time.Time, string, bool) {
	if !types.IsValidExerciseType(in.ExerciseType) {
		return time.Time{}, "exercise_type must be one of the supported exercise types", false
	}
	date := time.Now().UTC()
	if in.Date != "" {
		parsed, err := time.Parse(time.RFC3339, in.Date)
		if err != nil {
			return time.Time{}, "date must be RFC3339 formatted", false
		}
		date = parsed.UTC()
	}
	return date, "", true
}

func (in *ActivityInput) weightPtr() *float64 {
	if in.Weight <= 0 {
		return nil
	}
	w := in.Weight
	return &w
}

// CreateActivity validates the submission, computes EXP, and inserts the
// activity plus the user's exp/level/weight update in one transaction.
func (ac *ActivityController) CreateActivity(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var input ActivityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}
	date, msg, ok := input.validate()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg, "success": false})
		return
	}

	var (
		user     *models.User
		activity models.Activity
		levels   []int
	)

	err := ac.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		user, err = lockUser(tx, claims.UserID)
		if err != nil {
			return err
		}

		newWeight := input.weightPtr()
		expGained := types.CalculateExpGain(types.ExpGainInput{
			Duration:       input.Duration,
			Intensity:      input.Intensity,
			HasEvidence:    input.HasEvidence,
			ExerciseType:   input.ExerciseType,
			ClassKey:       user.PlayerClass,
			PreviousWeight: user.Weight,
			NewWeight:      newWeight,
		})

		activity = models.Activity{
			UserID:         user.ID,
			Date:           date,
			ExerciseType:   input.ExerciseType,
			Duration:       input.Duration,
			Intensity:      input.Intensity,
			ExpGained:      expGained,
			HasEvidence:    input.HasEvidence,
			EvidenceURL:    input.EvidenceURL,
			WeightRecorded: newWeight,
		}
		if err := tx.Create(&activity).Error; err != nil {
			return err
		}

		levels, err = grantExp(tx, user, expGained)
		if err != nil {
			return err
		}

		if newWeight != nil {
			user.Weight = newWeight
			if err := tx.Model(user).Update("weight", *newWeight).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to save activity", "success": false})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success":       true,
		"activity":      activity,
		"exp_gained":    activity.ExpGained,
		"levels_gained": levels,
		"level":         user.Level,
		"exp":           user.Exp,
	})
}

// PreviewExp computes the EXP a submission would earn without persisting
// anything.
func (ac *ActivityController) PreviewExp(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var input ActivityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}
	if _, msg, ok := input.validate(); !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg, "success": false})
		return
	}

	var user models.User
	if err := ac.DB.First(&user, claims.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found", "success": false})
		return
	}

	expGained := types.CalculateExpGain(types.ExpGainInput{
		Duration:       input.Duration,
		Intensity:      input.Intensity,
		HasEvidence:    input.HasEvidence,
		ExerciseType:   input.ExerciseType,
		ClassKey:       user.PlayerClass,
		PreviousWeight: user.Weight,
		NewWeight:      input.weightPtr(),
	})
	level, exp, levels := types.ApplyExpGain(user.Level, user.Exp, expGained)

	c.JSON(http.StatusOK, gin.H{
		"success":       true,
		"exp_gained":    expGained,
		"levels_gained": levels,
		"level":         level,
		"exp":           exp,
	})
}

// GetActivities returns the user's history, newest first.
func (ac *ActivityController) GetActivities(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var query struct {
		Page     int `form:"page,default=1" binding:"min=1"`
		PageSize int `form:"pageSize,default=15" binding:"min=1,max=50"`
	}
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	var total int64
	if err := ac.DB.Model(&models.Activity{}).Where("user_id = ?", claims.UserID).Count(&total).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error counting activities", "success": false})
		return
	}

	var activities []models.Activity
	err := ac.DB.Where("user_id = ?", claims.UserID).
		Order("date DESC").
		Offset((query.Page - 1) * query.PageSize).
		Limit(query.PageSize).
		Find(&activities).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error fetching activities", "success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"activities": activities,
		"pagination": gin.H{
			"current_page": query.Page,
			"page_size":    query.PageSize,
			"total_items":  total,
			"total_pages":  math.Ceil(float64(total) / float64(query.PageSize)),
		},
	})
}

func (ac *ActivityController) GetActivity(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var activity models.Activity
	if err := ac.DB.Where("id = ? AND user_id = ?", c.Param("id"), claims.UserID).First(&activity).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found", "success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{"success": true, "activity": activity})
}

// UpdateActivity recomputes exp_gained for the edited attributes and applies
// the delta to the user's EXP (clamped at zero, level untouched).
func (ac *ActivityController) UpdateActivity(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var input ActivityInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}
	_, msg, ok := input.validate()
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg, "success": false})
		return
	}

	var (
		user     *models.User
		activity models.Activity
		delta    float64
		found    = true
	)

	err := ac.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		user, err = lockUser(tx, claims.UserID)
		if err != nil {
			return err
		}

		if err := tx.Where("id = ? AND user_id = ?", c.Param("id"), claims.UserID).First(&activity).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				found = false
				return nil
			}
			return err
		}

		newWeight := input.weightPtr()
		newGain := types.CalculateExpGain(types.ExpGainInput{
			Duration:       input.Duration,
			Intensity:      input.Intensity,
			HasEvidence:    input.HasEvidence,
			ExerciseType:   input.ExerciseType,
			ClassKey:       user.PlayerClass,
			PreviousWeight: user.Weight,
			NewWeight:      newWeight,
		})
		delta = newGain - activity.ExpGained

		activity.ExerciseType = input.ExerciseType
		activity.Duration = input.Duration
		activity.Intensity = input.Intensity
		activity.HasEvidence = input.HasEvidence
		activity.EvidenceURL = input.EvidenceURL
		activity.WeightRecorded = newWeight
		activity.ExpGained = newGain
		if err := tx.Save(&activity).Error; err != nil {
			return err
		}

		return adjustExp(tx, user, delta)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update activity", "success": false})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found", "success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":   true,
		"activity":  activity,
		"exp_delta": delta,
		"level":     user.Level,
		"exp":       user.Exp,
	})
}

// DeleteActivity removes the activity and reverses its EXP contribution.
func (ac *ActivityController) DeleteActivity(c *gin.Context) {
	claims := utils.GetUser(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found in context"})
		return
	}

	var (
		user  *models.User
		found = true
	)

	err := ac.DB.Transaction(func(tx *gorm.DB) error {
		var err error
		user, err = lockUser(tx, claims.UserID)
		if err != nil {
			return err
		}

		var activity models.Activity
		if err := tx.Where("id = ? AND user_id = ?", c.Param("id"), claims.UserID).First(&activity).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				found = false
				return nil
			}
			return err
		}

		if err := tx.Delete(&activity).Error; err != nil {
			return err
		}
		return adjustExp(tx, user, -activity.ExpGained)
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete activity", "success": false})
		return
	}
	if !found {
		c.JSON(http.StatusNotFound, gin.H{"error": "Activity not found", "success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"message": "Activity deleted",
		"level":   user.Level,
		"exp":     user.Exp,
	})
}
