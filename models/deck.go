package models

import "gorm.io/gorm"

// Deck represents a collection of flashcards owned by a single user
type Deck struct {
	gorm.Model
	PublicID    string   `gorm:"size:100;uniqueIndex"`
	UserID      uint     `gorm:"not null;index"`
	Title       string   `gorm:"not null;size:200"`
	Description string   `gorm:"size:1000"`
	Tags        []string `gorm:"serializer:json"`
	IsFavourite bool     `gorm:"default:false"`

	User       User        `gorm:"foreignKey:UserID" json:"-"`
	Flashcards []Flashcard `gorm:"foreignKey:DeckID" json:"-"`
}
