package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/fit-quest/api-go/models"
	"github.com/fit-quest/api-go/utils"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.ReplaceAll(t.Name(), "/", "_")
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", name)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Activity{}, &models.RefreshToken{}))
	return db
}

func createTestUser(t *testing.T, db *gorm.DB, user *models.User) *models.User {
	t.Helper()
	if user.Username == "" {
		user.Username = "tester"
	}
	if user.Level == 0 {
		user.Level = 1
	}
	require.NoError(t, db.Create(user).Error)
	return user
}

func newTestContext(t *testing.T, user *models.User, method, target string, body interface{}) (*gin.Context, *httptest.ResponseRecorder) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	if user != nil {
		utils.SetUser(c, &utils.UserClaims{UserID: user.ID, Username: user.Username})
	}
	return c, w
}

func decodeBody(t *testing.T, w *httptest.ResponseRecorder) map[string]interface{} {
	t.Helper()
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func reloadUser(t *testing.T, db *gorm.DB, id uint) *models.User {
	t.Helper()
	var user models.User
	require.NoError(t, db.First(&user, id).Error)
	return &user
}
