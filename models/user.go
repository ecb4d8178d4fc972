package models

import (
	"time"

	"gorm.io/gorm"
)

// Settings holds per-user study preferences, embedded in the user row.
type Settings struct {
	TimerDuration     int    `gorm:"default:30" json:"timerDuration"` // seconds per card
	Theme             string `gorm:"size:20;default:'light'" json:"theme"`
	KeyboardShortcuts bool   `gorm:"default:true" json:"keyboardShortcuts"`
}

// User represents a user in the system
type User struct {
	gorm.Model
	Username string `gorm:"unique;not null;size:100"`
	Email    string `gorm:"unique;not null;size:200"`
	Password string `gorm:"not null" json:"-"`

	// Gamification counters. Level tracks floor(points/100)+1 and never
	// decreases.
	Points int      `gorm:"default:0"`
	Level  int      `gorm:"default:1"`
	Streak int      `gorm:"default:0"`
	Badges []string `gorm:"serializer:json"`

	Settings Settings `gorm:"embedded;embeddedPrefix:settings_"`

	// Pending account-deletion token. Both fields are nil until the user
	// requests deletion; the token is unusable once the expiry passes.
	DeleteToken       *string    `gorm:"size:64;index" json:"-"`
	DeleteTokenExpiry *time.Time `json:"-"`

	Decks []Deck `gorm:"foreignKey:UserID" json:"-"`
}
