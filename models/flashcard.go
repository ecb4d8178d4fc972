package models

import "gorm.io/gorm"

// Flashcard represents an individual flashcard. Ownership is transitive
// through the parent deck's owner.
type Flashcard struct {
	gorm.Model
	PublicID string   `gorm:"size:100;uniqueIndex"`
	DeckID   uint     `gorm:"not null;index"`
	Question string   `gorm:"not null;size:1000"`
	Answer   string   `gorm:"not null;size:1000"`
	Tags     []string `gorm:"serializer:json"`

	Deck Deck `gorm:"foreignKey:DeckID" json:"-"`
}
