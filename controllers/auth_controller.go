package controllers

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/fit-quest/api-go/config"
	"github.com/fit-quest/api-go/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type AuthController struct {
	DB           *gorm.DB
	GoogleConfig *config.GoogleConfig
}

func NewAuthController(db *gorm.DB) *AuthController {
	return &AuthController{
		DB:           db,
		GoogleConfig: config.NewGoogleConfig(),
	}
}

// issueTokens signs an access token and persists a fresh refresh token.
func (ac *AuthController) issueTokens(user *models.User) (string, string, error) {
	secret := []byte(os.Getenv("JWT_SECRET"))

	accessTokenBase := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":  user.ID,
		"username": user.Username,
		"exp":      time.Now().Add(time.Hour * 24 * 7).Unix(),
	})
	accessToken, err := accessTokenBase.SignedString(secret)
	if err != nil {
		return "", "", err
	}

	jti := uuid.NewString()
	refreshTokenBase := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"jti":     jti,
		"exp":     time.Now().Add(time.Hour * 24 * 30).Unix(),
	})
	refreshToken, err := refreshTokenBase.SignedString(secret)
	if err != nil {
		return "", "", err
	}

	err = ac.DB.Create(&models.RefreshToken{
		UserID:         user.ID,
		Token:          refreshToken,
		JTI:            jti,
		ExpirationDate: time.Now().Add(time.Hour * 24 * 30),
	}).Error
	if err != nil {
		return "", "", err
	}

	return accessToken, refreshToken, nil
}

func authUserResponse(user *models.User) gin.H {
	return gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"level":    user.Level,
		"exp":      user.Exp,
	}
}

func (ac *AuthController) Register(c *gin.Context) {
	var input struct {
		Username string  `json:"username" binding:"required,min=3,max=20"`
		Password string  `json:"password" binding:"required,min=6"`
		Email    string  `json:"email" binding:"omitempty,email"`
		Weight   float64 `json:"weight" binding:"required,min=20,max=400"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	var existing models.User
	if err := ac.DB.Where("username = ?", input.Username).First(&existing).Error; err == nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Username already taken", "success": false})
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not hash password", "success": false})
		return
	}
	hashedPasswordStr := string(hashedPassword)

	var email *string
	if input.Email != "" {
		email = &input.Email
	}

	user := models.User{
		Username: input.Username,
		Password: &hashedPasswordStr,
		Email:    email,
		Level:    1,
		Exp:      0,
		Weight:   &input.Weight,
	}

	if err := ac.DB.Create(&user).Error; err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": "Username or email already exists", "success": false})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"success": true,
		"message": "User registered successfully",
		"user":    authUserResponse(&user),
	})
}

func (ac *AuthController) Login(c *gin.Context) {
	var input struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	var user models.User
	if err := ac.DB.Where("username = ?", input.Username).First(&user).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials", "success": false})
		return
	}

	if user.Password == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials", "success": false})
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(*user.Password), []byte(input.Password)); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials", "success": false})
		return
	}

	accessToken, refreshToken, err := ac.issueTokens(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token", "success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token_type":    "Bearer",
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user":          authUserResponse(&user),
		"success":       true,
	})
}

func (ac *AuthController) RefreshToken(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	var refreshToken models.RefreshToken
	if err := ac.DB.Where("token = ?", input.RefreshToken).First(&refreshToken).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid refresh token", "success": false})
		return
	}

	if time.Now().After(refreshToken.ExpirationDate) {
		ac.DB.Delete(&refreshToken)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Refresh token expired", "success": false})
		return
	}

	var user models.User
	if err := ac.DB.First(&user, refreshToken.UserID).Error; err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "User not found", "success": false})
		return
	}

	// rotate: drop the used token, issue a new pair
	ac.DB.Delete(&refreshToken)

	accessToken, newRefreshToken, err := ac.issueTokens(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token", "success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token_type":    "Bearer",
		"access_token":  accessToken,
		"refresh_token": newRefreshToken,
		"user":          authUserResponse(&user),
		"success":       true,
	})
}

func (ac *AuthController) Logout(c *gin.Context) {
	var input struct {
		RefreshToken string `json:"refresh_token" binding:"required"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	result := ac.DB.Where("token = ?", input.RefreshToken).Delete(&models.RefreshToken{})
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to logout", "success": false})
		return
	}

	// token not found still logs out cleanly
	c.JSON(http.StatusOK, gin.H{"message": "Logged out successfully", "success": true})
}

func (ac *AuthController) GoogleLogin(c *gin.Context) {
	if ac.GoogleConfig == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Google sign-in is not configured", "success": false})
		return
	}

	var input struct {
		IDToken     string `json:"id_token"`
		AccessToken string `json:"access_token"`
		Code        string `json:"code"`
	}

	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "success": false})
		return
	}

	var userInfo *config.GoogleUserInfo
	var err error

	switch {
	case input.Code != "":
		token, exchangeErr := ac.GoogleConfig.ExchangeCode(c.Request.Context(), input.Code)
		if exchangeErr != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Failed to exchange code for token", "success": false})
			return
		}
		userInfo, err = ac.GoogleConfig.GetUserInfo(token.AccessToken)
	case input.IDToken != "":
		userInfo, err = ac.GoogleConfig.VerifyIDToken(input.IDToken)
	case input.AccessToken != "":
		userInfo, err = ac.GoogleConfig.GetUserInfo(input.AccessToken)
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "Either code, id_token, or access_token is required", "success": false})
		return
	}

	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid Google token", "success": false})
		return
	}

	var user models.User
	userExists := ac.DB.Where("google_id = ?", userInfo.ID).First(&user).Error == nil

	if !userExists {
		if userInfo.Email != "" {
			var byEmail models.User
			if ac.DB.Where("email = ?", userInfo.Email).First(&byEmail).Error == nil {
				c.JSON(http.StatusConflict, gin.H{"error": "Email already registered with another account", "success": false})
				return
			}
		}

		user, err = ac.createGoogleUser(userInfo)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create user", "success": false})
			return
		}
	}

	accessToken, refreshToken, err := ac.issueTokens(&user)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Could not generate token", "success": false})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token_type":    "Bearer",
		"access_token":  accessToken,
		"refresh_token": refreshToken,
		"user":          authUserResponse(&user),
		"new_user":      !userExists, // client sends them to complete-profile for weight
		"success":       true,
	})
}

func (ac *AuthController) createGoogleUser(userInfo *config.GoogleUserInfo) (models.User, error) {
	username := strings.SplitN(userInfo.Email, "@", 2)[0]
	if username == "" {
		username = userInfo.ID
		if len(username) > 8 {
			username = username[:8]
		}
	}

	base := username
	counter := 1
	for {
		var existing models.User
		if ac.DB.Where("username = ?", username).First(&existing).Error != nil {
			break
		}
		username = base + strconv.Itoa(counter)
		counter++
	}

	var email *string
	if userInfo.Email != "" {
		email = &userInfo.Email
	}

	user := models.User{
		Username: username,
		Email:    email,
		GoogleID: &userInfo.ID,
		Level:    1,
		Exp:      0,
	}
	if err := ac.DB.Create(&user).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}
