package types

import (
	"fmt"
	"time"
)

const (
	PERIOD_WEEKLY  = "weekly"
	PERIOD_MONTHLY = "monthly"
)

// Challenge progress metrics, evaluated over the period's activity window.
const (
	METRIC_ACTIVITY_COUNT       = "activity_count"
	METRIC_TOTAL_MINUTES        = "total_minutes"
	METRIC_HIGH_INTENSITY_COUNT = "high_intensity_count"
	METRIC_UNIQUE_TYPES         = "unique_types"
	METRIC_STREAK               = "streak"
	METRIC_TOTAL_EXP            = "total_exp"
)

type ChallengeTemplate struct {
	Key         string  `json:"key"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Period      string  `json:"period"`
	Metric      string  `json:"metric"`
	Target      float64 `json:"target"`
	RewardExp   float64 `json:"reward_exp"`
}

// Keys must stay stable: claimed instance ids are derived from them and are
// persisted on the user.
func GetWeeklyChallenges() []ChallengeTemplate {
	return []ChallengeTemplate{
		{Key: "weekly_activities", Name: "Active Week", Description: "Log 5 activities this week", Period: PERIOD_WEEKLY, Metric: METRIC_ACTIVITY_COUNT, Target: 5, RewardExp: 120},
		{Key: "weekly_minutes", Name: "Time on Feet", Description: "Train 150 minutes this week", Period: PERIOD_WEEKLY, Metric: METRIC_TOTAL_MINUTES, Target: 150, RewardExp: 150},
		{Key: "weekly_high_intensity", Name: "Push Hard", Description: "3 high-intensity sessions this week", Period: PERIOD_WEEKLY, Metric: METRIC_HIGH_INTENSITY_COUNT, Target: 3, RewardExp: 100},
		{Key: "weekly_variety", Name: "Mix It Up", Description: "Train 4 different exercise types this week", Period: PERIOD_WEEKLY, Metric: METRIC_UNIQUE_TYPES, Target: 4, RewardExp: 130},
		{Key: "weekly_streak", Name: "Seven Straight", Description: "Hold a 7-day streak", Period: PERIOD_WEEKLY, Metric: METRIC_STREAK, Target: 7, RewardExp: 200},
		{Key: "weekly_exp", Name: "Point Hunter", Description: "Earn 500 EXP this week", Period: PERIOD_WEEKLY, Metric: METRIC_TOTAL_EXP, Target: 500, RewardExp: 180},
	}
}

func GetMonthlyChallenges() []ChallengeTemplate {
	return []ChallengeTemplate{
		{Key: "monthly_activities", Name: "Regular", Description: "Log 20 activities this month", Period: PERIOD_MONTHLY, Metric: METRIC_ACTIVITY_COUNT, Target: 20, RewardExp: 500},
		{Key: "monthly_minutes", Name: "Grinder", Description: "Train 600 minutes this month", Period: PERIOD_MONTHLY, Metric: METRIC_TOTAL_MINUTES, Target: 600, RewardExp: 600},
		{Key: "monthly_high_intensity", Name: "Intensity Month", Description: "10 high-intensity sessions this month", Period: PERIOD_MONTHLY, Metric: METRIC_HIGH_INTENSITY_COUNT, Target: 10, RewardExp: 400},
		{Key: "monthly_variety", Name: "All-Rounder", Description: "Train 6 different exercise types this month", Period: PERIOD_MONTHLY, Metric: METRIC_UNIQUE_TYPES, Target: 6, RewardExp: 450},
		{Key: "monthly_exp", Name: "EXP Machine", Description: "Earn 2000 EXP this month", Period: PERIOD_MONTHLY, Metric: METRIC_TOTAL_EXP, Target: 2000, RewardExp: 700},
	}
}

func GetChallengeTemplate(key string) (ChallengeTemplate, bool) {
	for _, tpl := range GetWeeklyChallenges() {
		if tpl.Key == key {
			return tpl, true
		}
	}
	for _, tpl := range GetMonthlyChallenges() {
		if tpl.Key == key {
			return tpl, true
		}
	}
	return ChallengeTemplate{}, false
}

// WeeklyWindow returns the [start, end) bounds of the current ISO week,
// Monday 00:00 UTC through the following Monday.
func WeeklyWindow(today time.Time) (time.Time, time.Time) {
	u := today.UTC()
	day := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
	offset := (int(day.Weekday()) + 6) % 7 // Monday = 0
	start := day.AddDate(0, 0, -offset)
	return start, start.AddDate(0, 0, 7)
}

// MonthlyWindow returns the [start, end) bounds of the current calendar month.
func MonthlyWindow(today time.Time) (time.Time, time.Time) {
	u := today.UTC()
	start := time.Date(u.Year(), u.Month(), 1, 0, 0, 0, 0, time.UTC)
	return start, start.AddDate(0, 1, 0)
}

// PeriodWindow dispatches on the template's period.
func PeriodWindow(period string, today time.Time) (time.Time, time.Time) {
	if period == PERIOD_MONTHLY {
		return MonthlyWindow(today)
	}
	return WeeklyWindow(today)
}

// ChallengeInstanceID derives the stable identifier of the template's instance
// for the period containing today. Re-deriving within the same period yields
// the same id; a new period yields a fresh, unclaimed one.
func ChallengeInstanceID(tpl ChallengeTemplate, today time.Time) string {
	u := today.UTC()
	if tpl.Period == PERIOD_MONTHLY {
		return fmt.Sprintf("%s:%04d-%02d", tpl.Key, u.Year(), int(u.Month()))
	}
	year, week := u.ISOWeek()
	return fmt.Sprintf("%s:%04d-W%02d", tpl.Key, year, week)
}

// ChallengeActivity is the slice of an activity the challenge engine needs.
type ChallengeActivity struct {
	Date         time.Time
	ExerciseType string
	Duration     int
	Intensity    string
	ExpGained    float64
}

// FilterWindow keeps activities whose calendar date falls in [start, end).
func FilterWindow(activities []ChallengeActivity, start, end time.Time) []ChallengeActivity {
	var out []ChallengeActivity
	for _, a := range activities {
		u := a.Date.UTC()
		day := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
		if !day.Before(start) && day.Before(end) {
			out = append(out, a)
		}
	}
	return out
}

// ChallengeRawProgress computes the template's metric over the windowed
// activities. The streak metric uses the user's overall streak, not a
// window-scoped one.
func ChallengeRawProgress(tpl ChallengeTemplate, activities []ChallengeActivity, streak int) float64 {
	switch tpl.Metric {
	case METRIC_ACTIVITY_COUNT:
		return float64(len(activities))
	case METRIC_TOTAL_MINUTES:
		total := 0
		for _, a := range activities {
			total += a.Duration
		}
		return float64(total)
	case METRIC_HIGH_INTENSITY_COUNT:
		count := 0
		for _, a := range activities {
			if a.Intensity == "high" {
				count++
			}
		}
		return float64(count)
	case METRIC_UNIQUE_TYPES:
		seen := make(map[string]bool)
		for _, a := range activities {
			seen[a.ExerciseType] = true
		}
		return float64(len(seen))
	case METRIC_STREAK:
		return float64(streak)
	case METRIC_TOTAL_EXP:
		total := 0.0
		for _, a := range activities {
			total += a.ExpGained
		}
		return total
	}
	return 0
}

type ChallengeProgress struct {
	Key         string  `json:"key"`
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Period      string  `json:"period"`
	Metric      string  `json:"metric"`
	InstanceID  string  `json:"instance_id"`
	Progress    float64 `json:"progress"` // clamped to target for display
	Target      float64 `json:"target"`
	RewardExp   float64 `json:"reward_exp"`
	Completed   bool    `json:"completed"`
	Claimed     bool    `json:"claimed"`
}

// EvaluateChallenge derives the template's current instance and its progress.
// The activities passed in must already be filtered to the period window.
func EvaluateChallenge(tpl ChallengeTemplate, activities []ChallengeActivity, streak int, claimed map[string]bool, today time.Time) ChallengeProgress {
	raw := ChallengeRawProgress(tpl, activities, streak)
	progress := raw
	if progress > tpl.Target {
		progress = tpl.Target
	}
	id := ChallengeInstanceID(tpl, today)
	return ChallengeProgress{
		Key:         tpl.Key,
		Name:        tpl.Name,
		Description: tpl.Description,
		Period:      tpl.Period,
		Metric:      tpl.Metric,
		InstanceID:  id,
		Progress:    progress,
		Target:      tpl.Target,
		RewardExp:   tpl.RewardExp,
		Completed:   raw >= tpl.Target,
		Claimed:     claimed[id],
	}
}
