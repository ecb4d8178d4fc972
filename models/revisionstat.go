package models

import (
	"time"

	"gorm.io/gorm"
)

// RevisionStat is an immutable record of a single card review. Rows are
// written once and kept for history even if the card or deck is later
// deleted.
type RevisionStat struct {
	gorm.Model
	UserID      uint      `gorm:"not null;index"`
	FlashcardID uint      `gorm:"not null"`
	DeckID      uint      `gorm:"not null"`
	Correct     bool      `gorm:"not null"`
	ReviewedAt  time.Time `gorm:"not null;index"`

	Flashcard Flashcard `gorm:"foreignKey:FlashcardID"`
	Deck      Deck      `gorm:"foreignKey:DeckID"`
}
