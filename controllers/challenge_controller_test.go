package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/fit-quest/api-go/models"
	"github.com/fit-quest/api-go/types"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClaimChallengeGrantsReward(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, &models.User{})
	cc := NewChallengeController(db)

	now := time.Now().UTC()
	for i := 0; i < 5; i++ {
		require.NoError(t, db.Create(&models.Activity{
			UserID: user.ID, Date: now, ExerciseType: "Cardio", Duration: 30, Intensity: "low", ExpGained: 30,
		}).Error)
	}

	c, w := newTestContext(t, user, http.MethodPost, "/api/challenges/claim", gin.H{"key": "weekly_activities"})
	cc.ClaimChallenge(c)

	require.Equal(t, http.StatusOK, w.Code)
	body := decodeBody(t, w)
	assert.InDelta(t, 120.0, body["reward_exp"], 1e-9)
	assert.Equal(t, float64(2), body["level"]) // 120 exp crosses the level 1 threshold
	assert.InDelta(t, 20.0, body["exp"], 1e-9)

	tpl, ok := types.GetChallengeTemplate("weekly_activities")
	require.True(t, ok)
	instanceID := types.ChallengeInstanceID(tpl, now)
	assert.Equal(t, instanceID, body["instance_id"])

	stored := reloadUser(t, db, user.ID)
	assert.True(t, stored.HasClaimed(instanceID))
	assert.Equal(t, 2, stored.Level)
}

func TestClaimChallengeTwiceConflicts(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, &models.User{})
	cc := NewChallengeController(db)

	now := time.Now().UTC()
	for i := 0; i < 5; i++ {
		require.NoError(t, db.Create(&models.Activity{
			UserID: user.ID, Date: now, ExerciseType: "Cardio", Duration: 30, Intensity: "low", ExpGained: 30,
		}).Error)
	}

	c, w := newTestContext(t, user, http.MethodPost, "/api/challenges/claim", gin.H{"key": "weekly_activities"})
	cc.ClaimChallenge(c)
	require.Equal(t, http.StatusOK, w.Code)
	expAfterFirst := reloadUser(t, db, user.ID).Exp

	c, w = newTestContext(t, user, http.MethodPost, "/api/challenges/claim", gin.H{"key": "weekly_activities"})
	cc.ClaimChallenge(c)
	assert.Equal(t, http.StatusConflict, w.Code)

	stored := reloadUser(t, db, user.ID)
	assert.InDelta(t, expAfterFirst, stored.Exp, 1e-9)
	assert.Len(t, stored.ClaimedChallenges, 1)
}

func TestClaimChallengeRejectsIncomplete(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, &models.User{})
	cc := NewChallengeController(db)

	require.NoError(t, db.Create(&models.Activity{
		UserID: user.ID, Date: time.Now().UTC(), ExerciseType: "Cardio", Duration: 30, Intensity: "low", ExpGained: 30,
	}).Error)

	c, w := newTestContext(t, user, http.MethodPost, "/api/challenges/claim", gin.H{"key": "weekly_activities"})
	cc.ClaimChallenge(c)

	require.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, float64(1), body["progress"])
	assert.Equal(t, float64(5), body["target"])

	stored := reloadUser(t, db, user.ID)
	assert.Equal(t, 0.0, stored.Exp)
	assert.Empty(t, stored.ClaimedChallenges)
}

func TestClaimChallengeUnknownKey(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, &models.User{})
	cc := NewChallengeController(db)

	c, w := newTestContext(t, user, http.MethodPost, "/api/challenges/claim", gin.H{"key": "weekly_unicorns"})
	cc.ClaimChallenge(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestClaimChallengeIgnoresActivitiesOutsideWindow(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, &models.User{})
	cc := NewChallengeController(db)

	// plenty of history, all of it older than any current window
	old := time.Now().UTC().AddDate(0, -3, 0)
	for i := 0; i < 10; i++ {
		require.NoError(t, db.Create(&models.Activity{
			UserID: user.ID, Date: old, ExerciseType: "Cardio", Duration: 60, Intensity: "high", ExpGained: 120,
		}).Error)
	}

	c, w := newTestContext(t, user, http.MethodPost, "/api/challenges/claim", gin.H{"key": "weekly_activities"})
	cc.ClaimChallenge(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetChallengesReportsProgressAndClaims(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, &models.User{})
	cc := NewChallengeController(db)

	now := time.Now().UTC()
	for i := 0; i < 5; i++ {
		require.NoError(t, db.Create(&models.Activity{
			UserID: user.ID, Date: now, ExerciseType: "Cardio", Duration: 30, Intensity: "low", ExpGained: 30,
		}).Error)
	}

	c, w := newTestContext(t, user, http.MethodPost, "/api/challenges/claim", gin.H{"key": "weekly_activities"})
	cc.ClaimChallenge(c)
	require.Equal(t, http.StatusOK, w.Code)

	c, w = newTestContext(t, user, http.MethodGet, "/api/challenges", nil)
	cc.GetChallenges(c)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	weekly := body["weekly"].([]interface{})
	require.Len(t, weekly, len(types.GetWeeklyChallenges()))
	monthly := body["monthly"].([]interface{})
	require.Len(t, monthly, len(types.GetMonthlyChallenges()))

	byKey := map[string]map[string]interface{}{}
	for _, raw := range weekly {
		entry := raw.(map[string]interface{})
		byKey[entry["key"].(string)] = entry
	}

	activities := byKey["weekly_activities"]
	assert.Equal(t, float64(5), activities["progress"])
	assert.Equal(t, true, activities["completed"])
	assert.Equal(t, true, activities["claimed"])

	minutes := byKey["weekly_minutes"]
	assert.Equal(t, float64(150), minutes["progress"]) // 5 x 30
	assert.Equal(t, true, minutes["completed"])
	assert.Equal(t, false, minutes["claimed"])

	variety := byKey["weekly_variety"]
	assert.Equal(t, float64(1), variety["progress"])
	assert.Equal(t, false, variety["completed"])
}
