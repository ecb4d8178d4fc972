package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/flashzen/flashzen-api/middleware"
	"github.com/flashzen/flashzen-api/models"
	"github.com/flashzen/flashzen-api/progress"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// POST /api/revision
//
// Records a single card review: the immutable stat row, the gamification
// update and the activity entry are written in one transaction. The user
// row is read under a row lock so two concurrent reviews from the same
// account cannot lose a counter update.
func (db *DBHandler) RecordRevision(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r)

	var req struct {
		FlashcardID string `json:"flashcardId"`
		DeckID      string `json:"deckId"`
		Correct     bool   `json:"correct"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	deck, ok := db.findOwnedDeck(w, r, req.DeckID)
	if !ok {
		return
	}

	var flashcard models.Flashcard
	if err := db.Where("public_id = ? AND deck_id = ?", req.FlashcardID, deck.ID).First(&flashcard).Error; err != nil {
		respondMessage(w, http.StatusNotFound, "Flashcard not found")
		return
	}

	stat := models.RevisionStat{
		UserID:      userID,
		FlashcardID: flashcard.ID,
		DeckID:      deck.ID,
		Correct:     req.Correct,
		ReviewedAt:  db.Now(),
	}

	outcome := "Incorrect"
	if req.Correct {
		outcome = "Correct"
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&stat).Error; err != nil {
			return err
		}

		var user models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error; err != nil {
			return err
		}

		next := progress.Apply(progress.State{
			Points: user.Points,
			Level:  user.Level,
			Streak: user.Streak,
			Badges: user.Badges,
		}, req.Correct)

		user.Points = next.Points
		user.Level = next.Level
		user.Streak = next.Streak
		user.Badges = next.Badges
		if err := tx.Save(&user).Error; err != nil {
			return err
		}

		activity := models.Activity{
			UserID:      userID,
			Type:        models.ActivityRevisionCompleted,
			TargetID:    flashcard.PublicID,
			Description: "Reviewed flashcard - " + outcome,
		}
		return tx.Create(&activity).Error
	})
	if err != nil {
		log.Printf("RecordRevision: transaction error for user %d: %v", userID, err)
		respondMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondJSON(w, http.StatusCreated, stat)
}

// GET /api/revision returns the caller's 50 most recent reviews with deck and
// card context for the history view.
func (db *DBHandler) GetRevisionStats(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r)

	var stats []models.RevisionStat
	err := db.Preload("Deck").Preload("Flashcard").
		Where("user_id = ?", userID).
		Order("reviewed_at DESC").
		Limit(50).
		Find(&stats).Error
	if err != nil {
		log.Printf("GetRevisionStats: query error for user %d: %v", userID, err)
		respondMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondJSON(w, http.StatusOK, stats)
}
