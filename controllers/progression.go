package controllers

import (
	"time"

	"github.com/fit-quest/api-go/models"
	"github.com/fit-quest/api-go/types"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// lockUser re-reads the user row inside the transaction with a row lock so
// concurrent submissions for the same user serialize on the EXP update.
// FOR UPDATE is only meaningful on postgres; sqlite serializes writes itself.
func lockUser(tx *gorm.DB, userID uint) (*models.User, error) {
	var user models.User
	q := tx
	if tx.Dialector.Name() == "postgres" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	if err := q.First(&user, userID).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// grantExp adds gained EXP, runs the leveling loop and persists level and exp.
// Returns every level crossed.
func grantExp(tx *gorm.DB, user *models.User, gained float64) ([]int, error) {
	newLevel, newExp, levelsGained := types.ApplyExpGain(user.Level, user.Exp, gained)
	user.Level = newLevel
	user.Exp = newExp
	err := tx.Model(user).Updates(map[string]interface{}{
		"level": newLevel,
		"exp":   newExp,
	}).Error
	if err != nil {
		return nil, err
	}
	return levelsGained, nil
}

// adjustExp applies an edit/delete EXP delta directly, clamped at zero. The
// leveling loop is intentionally not re-run and the level never decreases, so
// exp can temporarily sit above the current threshold until the next gain
// normalizes it.
func adjustExp(tx *gorm.DB, user *models.User, delta float64) error {
	newExp := user.Exp + delta
	if newExp < 0 {
		newExp = 0
	}
	user.Exp = newExp
	return tx.Model(user).Update("exp", newExp).Error
}

func activityDates(db *gorm.DB, userID uint) ([]time.Time, error) {
	var dates []time.Time
	err := db.Model(&models.Activity{}).Where("user_id = ?", userID).Pluck("date", &dates).Error
	return dates, err
}

type PenaltyResult struct {
	InactiveDays int     `json:"inactive_days"`
	Amount       float64 `json:"amount"`
	NewExp       float64 `json:"new_exp"`
}

// applyInactivityPenalty decays EXP by 5% per fully inactive day (capped at 7
// days), at most once per calendar day. It returns nil when no penalty was
// taken this request; last_penalty_date is stamped either way.
func applyInactivityPenalty(db *gorm.DB, user *models.User, now time.Time) (*PenaltyResult, error) {
	todayStr := types.DateKey(now)
	if user.LastPenaltyDate != nil && *user.LastPenaltyDate == todayStr {
		return nil, nil
	}

	var result *PenaltyResult
	err := db.Transaction(func(tx *gorm.DB) error {
		locked, err := lockUser(tx, user.ID)
		if err != nil {
			return err
		}
		// another request may have stamped today while we waited on the lock
		if locked.LastPenaltyDate != nil && *locked.LastPenaltyDate == todayStr {
			*user = *locked
			return nil
		}

		dates, err := activityDates(tx, user.ID)
		if err != nil {
			return err
		}
		if len(dates) == 0 {
			// no history, no penalty: just stamp the run
			locked.LastPenaltyDate = &todayStr
			*user = *locked
			return tx.Model(locked).Update("last_penalty_date", todayStr).Error
		}

		var last time.Time
		for _, d := range dates {
			u := d.UTC()
			day := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
			if day.After(last) {
				last = day
			}
		}
		u := now.UTC()
		today := time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
		inactiveDays := int(today.Sub(last).Hours()/24) - 1

		penalty := types.CalculateInactivityPenalty(locked.Exp, inactiveDays)
		if penalty <= 0 {
			locked.LastPenaltyDate = &todayStr
			*user = *locked
			return tx.Model(locked).Update("last_penalty_date", todayStr).Error
		}

		newExp := locked.Exp - penalty
		if newExp < 0 {
			newExp = 0
		}
		locked.Exp = newExp
		locked.LastPenaltyDate = &todayStr
		*user = *locked
		result = &PenaltyResult{InactiveDays: inactiveDays, Amount: penalty, NewExp: newExp}
		return tx.Model(locked).Updates(map[string]interface{}{
			"exp":               newExp,
			"last_penalty_date": todayStr,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}
