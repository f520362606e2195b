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

const CLASS_CHANGE_COOLDOWN = 30 * 24 * time.Hour

type ClassController struct {
	DB *gorm.DB
}

func NewClassController(db *gorm.DB) *ClassController {
	return &ClassController{DB: db}
}

func (cc *ClassController) GetClasses(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"classes": types.GetPlayerClasses(),
	})
}

// SelectClass sets the user's player class. Changes are gated to once per
// rolling 30-day window; the first selection is always allowed.
func (cc *ClassController) SelectClass(c *gin.Context) {
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

	playerClass, ok := types.GetPlayerClass(input.Key)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown player class", "success": false})
		return
	}

	var user models.User
	if err := cc.DB.First(&user, claims.UserID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found", "success": false})
		return
	}

	now := time.Now().UTC()
	if user.ClassSelectedAt != nil && now.Sub(*user.ClassSelectedAt) < CLASS_CHANGE_COOLDOWN {
		nextChange := user.ClassSelectedAt.Add(CLASS_CHANGE_COOLDOWN)
		c.JSON(http.StatusConflict, gin.H{
			"error":       "Class can only be changed once every 30 days",
			"success":     false,
			"next_change": nextChange,
		})
		return
	}

	err := cc.DB.Model(&user).Updates(map[string]interface{}{
		"player_class":      playerClass.Key,
		"class_selected_at": now,
	}).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to select class", "success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success": true,
		"class":   playerClass,
	})
}
