package models

import "gorm.io/gorm"

// Activity types, one per loggable user action.
const (
	ActivityDeckCreated       = "deck_created"
	ActivityDeckUpdated       = "deck_updated"
	ActivityDeckDeleted       = "deck_deleted"
	ActivityFlashcardCreated  = "flashcard_created"
	ActivityFlashcardUpdated  = "flashcard_updated"
	ActivityFlashcardDeleted  = "flashcard_deleted"
	ActivityRevisionCompleted = "revision_completed"
)

// Activity is an append-only log entry describing a user action. Entries
// are never mutated by normal flow; CreatedAt is the event timestamp.
type Activity struct {
	gorm.Model
	UserID      uint   `gorm:"not null;index"`
	Type        string `gorm:"not null;size:50"`
	TargetID    string `gorm:"size:100"`
	Description string `gorm:"size:500"`
}
