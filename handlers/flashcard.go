package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/flashzen/flashzen-api/middleware"
	"github.com/flashzen/flashzen-api/models"
)

// findOwnedFlashcard loads a card by public ID and checks ownership through
// its parent deck, writing the error response itself on failure.
func (db *DBHandler) findOwnedFlashcard(w http.ResponseWriter, r *http.Request, publicID string) (*models.Flashcard, bool) {
	userID, _ := middleware.UserID(r)

	var flashcard models.Flashcard
	if err := db.Where("public_id = ?", publicID).First(&flashcard).Error; err != nil {
		respondMessage(w, http.StatusNotFound, "Flashcard not found")
		return nil, false
	}

	var deck models.Deck
	if err := db.First(&deck, flashcard.DeckID).Error; err != nil {
		respondMessage(w, http.StatusNotFound, "Deck not found")
		return nil, false
	}
	if deck.UserID != userID {
		respondMessage(w, http.StatusUnauthorized, "Not authorized")
		return nil, false
	}
	return &flashcard, true
}

// POST /api/flashcards
func (db *DBHandler) CreateFlashcard(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Deck     string   `json:"deck"` // parent deck public ID
		Question string   `json:"question"`
		Answer   string   `json:"answer"`
		Tags     []string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Question == "" || req.Answer == "" {
		respondMessage(w, http.StatusBadRequest, "Question and answer are required")
		return
	}

	deck, ok := db.findOwnedDeck(w, r, req.Deck)
	if !ok {
		return
	}

	publicID, err := gonanoid.New()
	if err != nil {
		log.Printf("CreateFlashcard: failed to generate publicID: %v", err)
		respondMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	flashcard := models.Flashcard{
		PublicID: publicID,
		DeckID:   deck.ID,
		Question: req.Question,
		Answer:   req.Answer,
		Tags:     req.Tags,
	}
	if err := db.Create(&flashcard).Error; err != nil {
		log.Printf("CreateFlashcard: creation error: %v", err)
		respondMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	db.logActivity(deck.UserID, models.ActivityFlashcardCreated, flashcard.PublicID,
		"Created flashcard: "+truncate(flashcard.Question, 50))

	respondJSON(w, http.StatusCreated, flashcard)
}

// GET /api/flashcards/user lists every card across the caller's decks.
func (db *DBHandler) GetUserFlashcards(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r)

	var flashcards []models.Flashcard
	err := db.Joins("JOIN decks ON decks.id = flashcards.deck_id").
		Where("decks.user_id = ?", userID).
		Order("flashcards.created_at DESC").
		Find(&flashcards).Error
	if err != nil {
		log.Printf("GetUserFlashcards: query error for user %d: %v", userID, err)
		respondMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondJSON(w, http.StatusOK, flashcards)
}

// GET /api/flashcards/{deckID}
func (db *DBHandler) GetDeckFlashcards(w http.ResponseWriter, r *http.Request) {
	deck, ok := db.findOwnedDeck(w, r, r.PathValue("deckID"))
	if !ok {
		return
	}

	var flashcards []models.Flashcard
	if err := db.Where("deck_id = ?", deck.ID).Find(&flashcards).Error; err != nil {
		log.Printf("GetDeckFlashcards: query error for deck %s: %v", deck.PublicID, err)
		respondMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondJSON(w, http.StatusOK, flashcards)
}

// PUT /api/flashcards/{flashcardID}
func (db *DBHandler) UpdateFlashcard(w http.ResponseWriter, r *http.Request) {
	flashcard, ok := db.findOwnedFlashcard(w, r, r.PathValue("flashcardID"))
	if !ok {
		return
	}

	var req struct {
		Question *string   `json:"question"`
		Answer   *string   `json:"answer"`
		Tags     *[]string `json:"tags"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Question != nil {
		if *req.Question == "" {
			respondMessage(w, http.StatusBadRequest, "Question cannot be empty")
			return
		}
		flashcard.Question = *req.Question
	}
	if req.Answer != nil {
		if *req.Answer == "" {
			respondMessage(w, http.StatusBadRequest, "Answer cannot be empty")
			return
		}
		flashcard.Answer = *req.Answer
	}
	if req.Tags != nil {
		flashcard.Tags = *req.Tags
	}

	if err := db.Save(flashcard).Error; err != nil {
		log.Printf("UpdateFlashcard: save error for card %s: %v", flashcard.PublicID, err)
		respondMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	userID, _ := middleware.UserID(r)
	db.logActivity(userID, models.ActivityFlashcardUpdated, flashcard.PublicID,
		"Updated flashcard: "+truncate(flashcard.Question, 50))

	respondJSON(w, http.StatusOK, flashcard)
}

// DELETE /api/flashcards/{flashcardID}
func (db *DBHandler) DeleteFlashcard(w http.ResponseWriter, r *http.Request) {
	flashcard, ok := db.findOwnedFlashcard(w, r, r.PathValue("flashcardID"))
	if !ok {
		return
	}

	if err := db.Unscoped().Delete(flashcard).Error; err != nil {
		log.Printf("DeleteFlashcard: delete error for card %s: %v", flashcard.PublicID, err)
		respondMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	userID, _ := middleware.UserID(r)
	db.logActivity(userID, models.ActivityFlashcardDeleted, flashcard.PublicID,
		"Deleted flashcard: "+truncate(flashcard.Question, 50))

	respondMessage(w, http.StatusOK, "Flashcard removed")
}
