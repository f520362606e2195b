package controllers

import (
	"net/http"
	"testing"
	"time"

	"github.com/fit-quest/api-go/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetDashboard(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, &models.User{Level: 2, Exp: 50})
	dc := NewDashboardController(db)

	now := time.Now().UTC()
	w80 := 80.0
	w79 := 79.0
	require.NoError(t, db.Create(&models.Activity{
		UserID: user.ID, Date: now.AddDate(0, 0, -1), ExerciseType: "Cardio", Duration: 30, Intensity: "low", ExpGained: 30, WeightRecorded: &w80,
	}).Error)
	require.NoError(t, db.Create(&models.Activity{
		UserID: user.ID, Date: now, ExerciseType: "Yoga", Duration: 45, Intensity: "medium", ExpGained: 67.5, WeightRecorded: &w79,
	}).Error)

	c, w := newTestContext(t, user, http.MethodGet, "/api/dashboard", nil)
	dc.GetDashboard(c)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	assert.Equal(t, float64(2), body["streak"])
	assert.Equal(t, float64(2), body["total_activities"])
	assert.Equal(t, float64(75), body["total_minutes"])
	assert.Nil(t, body["penalty"]) // active yesterday, nothing to decay
	assert.Equal(t, float64(282), body["exp_for_next"])

	breakdown := body["type_breakdown"].(map[string]interface{})
	assert.Equal(t, float64(1), breakdown["Cardio"])
	assert.Equal(t, float64(1), breakdown["Yoga"])

	history := body["weight_history"].([]interface{})
	require.Len(t, history, 2)
	first := history[0].(map[string]interface{})
	assert.Equal(t, float64(80), first["weight"]) // chronological order

	// first_step unlocked, 9 achievements total
	achievements := body["achievements"].([]interface{})
	require.Len(t, achievements, 9)
	unlocked := 0
	for _, raw := range achievements {
		if raw.(map[string]interface{})["unlocked"] == true {
			unlocked++
		}
	}
	assert.Equal(t, float64(unlocked), body["unlocked_count"])
	assert.GreaterOrEqual(t, unlocked, 1)
}

func TestGetDashboardAppliesPenalty(t *testing.T) {
	db := setupTestDB(t)
	user := createTestUser(t, db, &models.User{Exp: 1000})
	dc := NewDashboardController(db)

	now := time.Now().UTC()
	require.NoError(t, db.Create(&models.Activity{
		UserID: user.ID, Date: now.AddDate(0, 0, -4), ExerciseType: "Cardio", Duration: 30, Intensity: "low", ExpGained: 30,
	}).Error)

	c, w := newTestContext(t, user, http.MethodGet, "/api/dashboard", nil)
	dc.GetDashboard(c)
	require.Equal(t, http.StatusOK, w.Code)

	body := decodeBody(t, w)
	require.NotNil(t, body["penalty"])
	penalty := body["penalty"].(map[string]interface{})
	assert.Equal(t, float64(3), penalty["inactive_days"])
	assert.InDelta(t, 150.0, penalty["amount"], 1e-9)

	stored := reloadUser(t, db, user.ID)
	assert.InDelta(t, 850.0, stored.Exp, 1e-9)
}

func TestWeightHistoryLimit(t *testing.T) {
	var activities []models.Activity
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	// newest first, the way the dashboard query orders them
	for i := 29; i >= 0; i-- {
		w := 70.0 + float64(i)
		activities = append(activities, models.Activity{Date: base.AddDate(0, 0, i), WeightRecorded: &w})
	}

	points := weightHistory(activities, 20)
	require.Len(t, points, 20)
	assert.Equal(t, 80.0, points[0].Weight) // oldest surviving point
	assert.Equal(t, 99.0, points[19].Weight)
	assert.Equal(t, "2024-01-30", points[19].Date)
}
