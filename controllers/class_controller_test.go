package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/fit-quest/api-go/models"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetClasses(t *testing.T) {
	db := setupTestDB(t)
	cc := NewClassController(db)

	c, w := newTestContext(t, nil, http.MethodGet, "/api/classes", nil)
	cc.GetClasses(c)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	classes := body["classes"].([]interface{})
	assert.Len(t, classes, 4)
}

func TestSelectClass(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, &models.User{})
	cc := NewClassController(db)

	c, w := newTestContext(t, user, http.MethodPost, "/api/classes/select", gin.H{"key": "monk"})
	cc.SelectClass(c)
	require.Equal(t, http.StatusOK, w.Code)

	stored := reloadUser(t, db, user.ID)
	require.NotNil(t, stored.PlayerClass)
	assert.Equal(t, "monk", *stored.PlayerClass)
	assert.NotNil(t, stored.ClassSelectedAt)
}

func TestSelectClassUnknownKey(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, &models.User{})
	cc := NewClassController(db)

	c, w := newTestContext(t, user, http.MethodPost, "/api/classes/select", gin.H{"key": "bard"})
	cc.SelectClass(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	stored := reloadUser(t, db, user.ID)
	assert.Nil(t, stored.PlayerClass)
}

func TestSelectClassCooldown(t *testing.T) {
	db := setupTestDB(t)
	recently := time.Now().UTC().AddDate(0, 0, -10)
	warrior := "warrior"
	user := createTestUser(t, db, &models.User{PlayerClass: &warrior, ClassSelectedAt: &recently})
	cc := NewClassController(db)

	c, w := newTestContext(t, user, http.MethodPost, "/api/classes/select", gin.H{"key": "ranger"})
	cc.SelectClass(c)
	require.Equal(t, http.StatusConflict, w.Code)

	body := decodeBody(t, w)
	assert.NotEmpty(t, body["next_change"])

	stored := reloadUser(t, db, user.ID)
	assert.Equal(t, "warrior", *stored.PlayerClass)
}

func TestSelectClassAfterCooldown(t *testing.T) {
	db := setupTestDB(t)
	longAgo := time.Now().UTC().AddDate(0, 0, -31)
	warrior := "warrior"
	user := createTestUser(t, db, &models.User{PlayerClass: &warrior, ClassSelectedAt: &longAgo})
	cc := NewClassController(db)

	c, w := newTestContext(t, user, http.MethodPost, "/api/classes/select", gin.H{"key": "ranger"})
	cc.SelectClass(c)
	require.Equal(t, http.StatusOK, w.Code)

	stored := reloadUser(t, db, user.ID)
	assert.Equal(t, "ranger", *stored.PlayerClass)
}
