package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	ID        uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"deleted_at"`
	Username  string         `gorm:"unique;not null" json:"username"`
	Email     *string        `gorm:"unique" json:"email"`
	Password  *string        `json:"-"` // nil for Google-only accounts
	GoogleID  *string        `gorm:"unique" json:"-"`

	Level  int      `gorm:"not null;default:1" json:"level"`
	Exp    float64  `gorm:"not null;default:0" json:"exp"`
	Weight *float64 `json:"weight"` // kg, last recorded body weight

	// ISO date (YYYY-MM-DD) of the last inactivity-penalty run. Compared as a
	// string so the penalty applies at most once per calendar day.
	LastPenaltyDate *string `gorm:"type:varchar(10)" json:"last_penalty_date"`

	PlayerClass     *string    `gorm:"type:varchar(30)" json:"player_class"`
	ClassSelectedAt *time.Time `json:"class_selected_at"`

	// Challenge instance ids already rewarded.
	ClaimedChallenges datatypes.JSONSlice[string] `json:"claimed_challenges"`

	Activities    []Activity     `json:"-" gorm:"foreignKey:UserID"`
	RefreshTokens []RefreshToken `json:"-" gorm:"foreignKey:UserID"`
}

func (u *User) HasClaimed(instanceID string) bool {
	for _, id := range u.ClaimedChallenges {
		if id == instanceID {
			return true
		}
	}
	return false
}
