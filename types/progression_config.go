package types

import (
	"math"
	"time"
)

const (
	EVIDENCE_BONUS      = 1.2
	WEIGHT_LOSS_BONUS   = 1.1
	WEIGHT_GAIN_PENALTY = 0.9
	CLASS_BONUS         = 0.3

	PENALTY_RATE_PER_DAY = 0.05
	MAX_PENALTY_DAYS     = 7
)

// IntensityMultipliers maps activity intensity to its base EXP multiplier.
// Unknown intensities fall back to 1.
var IntensityMultipliers = map[string]float64{
	"low":    1,
	"medium": 1.5,
	"high":   2,
}

var ExerciseTypes = []string{
	"Cardio",
	"Strength",
	"Crossfit",
	"Cycling",
	"Hiking",
	"Yoga",
	"Pilates",
	"Stretching",
	"Running",
	"Swimming",
	"Team Sports",
	"Other",
}

func IsValidExerciseType(exerciseType string) bool {
	for _, t := range ExerciseTypes {
		if t == exerciseType {
			return true
		}
	}
	return false
}

func IsValidIntensity(intensity string) bool {
	_, ok := IntensityMultipliers[intensity]
	return ok
}

type PlayerClass struct {
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Specialties []string `json:"specialties"`
	Bonus       float64  `json:"bonus"`
}

func GetPlayerClasses() []PlayerClass {
	return []PlayerClass{
		{
			Key:         "warrior",
			Name:        "Warrior",
			Description: "Bonus EXP for strength work",
			Specialties: []string{"Strength", "Crossfit"},
			Bonus:       CLASS_BONUS,
		},
		{
			Key:         "ranger",
			Name:        "Ranger",
			Description: "Bonus EXP for endurance outdoors",
			Specialties: []string{"Cardio", "Cycling", "Hiking"},
			Bonus:       CLASS_BONUS,
		},
		{
			Key:         "monk",
			Name:        "Monk",
			Description: "Bonus EXP for mobility and balance",
			Specialties: []string{"Yoga", "Pilates", "Stretching"},
			Bonus:       CLASS_BONUS,
		},
		{
			Key:         "athlete",
			Name:        "Athlete",
			Description: "Bonus EXP for sport training",
			Specialties: []string{"Running", "Swimming", "Team Sports"},
			Bonus:       CLASS_BONUS,
		},
	}
}

func GetPlayerClass(key string) (PlayerClass, bool) {
	for _, pc := range GetPlayerClasses() {
		if pc.Key == key {
			return pc, true
		}
	}
	return PlayerClass{}, false
}

// ExpForNextLevel returns the EXP cost to advance from level to level+1.
func ExpForNextLevel(level int) float64 {
	return math.Floor(100 * math.Pow(float64(level), 1.5))
}

type ExpGainInput struct {
	Duration     int
	Intensity    string
	HasEvidence  bool
	ExerciseType string
	ClassKey     *string
	// PreviousWeight is the user's last recorded weight; NewWeight the weight
	// recorded with this activity. The weight modifier only applies when both
	// are present and NewWeight is positive.
	PreviousWeight *float64
	NewWeight      *float64
}

// CalculateExpGain converts activity attributes into EXP:
// duration x intensity, then evidence, class specialty and weight-trend
// modifiers in that order.
func CalculateExpGain(in ExpGainInput) float64 {
	multiplier, ok := IntensityMultipliers[in.Intensity]
	if !ok {
		multiplier = 1
	}
	base := float64(in.Duration) * multiplier

	if in.HasEvidence {
		base *= EVIDENCE_BONUS
	}

	if in.ClassKey != nil {
		if pc, ok := GetPlayerClass(*in.ClassKey); ok {
			for _, specialty := range pc.Specialties {
				if specialty == in.ExerciseType {
					base *= 1 + pc.Bonus
					break
				}
			}
		}
	}

	if in.PreviousWeight != nil && in.NewWeight != nil && *in.NewWeight > 0 {
		switch {
		case *in.NewWeight < *in.PreviousWeight:
			base *= WEIGHT_LOSS_BONUS
		case *in.NewWeight > *in.PreviousWeight:
			base *= WEIGHT_GAIN_PENALTY
		}
	}

	return base
}

// ApplyExpGain adds gained EXP and runs the leveling loop. It returns the new
// level, the normalized remaining EXP and every level crossed, in order, so
// callers can congratulate each one.
func ApplyExpGain(level int, exp, gained float64) (int, float64, []int) {
	exp += gained
	var levelsGained []int
	for exp >= ExpForNextLevel(level) {
		exp -= ExpForNextLevel(level)
		level++
		levelsGained = append(levelsGained, level)
	}
	return level, exp, levelsGained
}

// DateKey collapses a timestamp to its UTC calendar date.
func DateKey(t time.Time) string {
	return t.UTC().Format("2006-01-02")
}

// CalculateStreak counts consecutive activity days ending today or yesterday.
// Today without an activity does not break an existing streak; a gap of more
// than one day resets it to zero.
func CalculateStreak(dates []time.Time, today time.Time) int {
	if len(dates) == 0 {
		return 0
	}

	seen := make(map[string]bool, len(dates))
	var last time.Time
	for _, d := range dates {
		u := d.UTC()
		day := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
		seen[day.Format("2006-01-02")] = true
		if day.After(last) {
			last = day
		}
	}

	u := today.UTC()
	todayDay := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	if todayDay.Sub(last) > 24*time.Hour {
		return 0
	}

	cursor := todayDay
	if !seen[cursor.Format("2006-01-02")] {
		cursor = last
	}

	streak := 0
	for seen[cursor.Format("2006-01-02")] {
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
	return streak
}

// CalculateInactivityPenalty returns the EXP decay for the given number of
// fully inactive days, capped at MAX_PENALTY_DAYS of decay.
func CalculateInactivityPenalty(exp float64, inactiveDays int) float64 {
	if inactiveDays <= 0 || exp <= 0 {
		return 0
	}
	days := inactiveDays
	if days > MAX_PENALTY_DAYS {
		days = MAX_PENALTY_DAYS
	}
	penalty := exp * PENALTY_RATE_PER_DAY * float64(days)
	if penalty > exp {
		penalty = exp
	}
	return penalty
}

type Achievement struct {
	Key         string `json:"key"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Unlocked    bool   `json:"unlocked"`
}

// GetAchievements evaluates the fixed achievement list against the user's
// aggregates. Nothing is persisted; the list is recomputed on every view.
func GetAchievements(totalActivities, streak, level int) []Achievement {
	return []Achievement{
		{Key: "first_step", Name: "First Step", Description: "Log your first activity", Icon: "fa-shoe-prints", Unlocked: totalActivities >= 1},
		{Key: "dedication", Name: "Dedication", Description: "Log 10 activities", Icon: "fa-medal", Unlocked: totalActivities >= 10},
		{Key: "consistent", Name: "Consistent", Description: "Log 50 activities", Icon: "fa-trophy", Unlocked: totalActivities >= 50},
		{Key: "marathoner", Name: "Marathoner", Description: "Log 100 activities", Icon: "fa-running", Unlocked: totalActivities >= 100},
		{Key: "perfect_week", Name: "Perfect Week", Description: "Hold a 7-day streak", Icon: "fa-fire", Unlocked: streak >= 7},
		{Key: "unstoppable_month", Name: "Unstoppable Month", Description: "Hold a 30-day streak", Icon: "fa-fire-alt", Unlocked: streak >= 30},
		{Key: "warrior", Name: "Warrior", Description: "Reach level 5", Icon: "fa-shield-alt", Unlocked: level >= 5},
		{Key: "champion", Name: "Champion", Description: "Reach level 10", Icon: "fa-crown", Unlocked: level >= 10},
		{Key: "legend", Name: "Legend", Description: "Reach level 25", Icon: "fa-gem", Unlocked: level >= 25},
	}
}
