package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/flashzen/flashzen-api/middleware"
	"github.com/flashzen/flashzen-api/models"
	"gorm.io/gorm"
)

// findOwnedDeck loads a deck by public ID and verifies the requester owns
// it, writing the error response itself when it does not.
func (db *DBHandler) findOwnedDeck(w http.ResponseWriter, r *http.Request, publicID string) (*models.Deck, bool) {
	userID, _ := middleware.UserID(r)

	var deck models.Deck
	if err := db.Where("public_id = ?", publicID).First(&deck).Error; err != nil {
		respondMessage(w, http.StatusNotFound, "Deck not found")
		return nil, false
	}
	if deck.UserID != userID {
		respondMessage(w, http.StatusUnauthorized, "Not authorized")
		return nil, false
	}
	return &deck, true
}

// POST /api/decks
func (db *DBHandler) CreateDeck(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r)

	var req struct {
		Title       string   `json:"title"`
		Description string   `json:"description"`
		Tags        []string `json:"tags"`
		IsFavourite bool     `json:"isFavourite"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Title == "" {
		respondMessage(w, http.StatusBadRequest, "Title is required")
		return
	}

	publicID, err := gonanoid.New()
	if err != nil {
		log.Printf("CreateDeck: failed to generate publicID: %v", err)
		respondMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	deck := models.Deck{
		PublicID:    publicID,
		UserID:      userID,
		Title:       req.Title,
		Description: req.Description,
		Tags:        req.Tags,
		IsFavourite: req.IsFavourite,
	}
	if err := db.Create(&deck).Error; err != nil {
		log.Printf("CreateDeck: creation error: %v", err)
		respondMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	db.logActivity(userID, models.ActivityDeckCreated, deck.PublicID, "Created deck: "+deck.Title)

	respondJSON(w, http.StatusCreated, deck)
}

// GET /api/decks
func (db *DBHandler) GetUserDecks(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r)

	var decks []models.Deck
	if err := db.Where("user_id = ?", userID).Order("is_favourite DESC, created_at DESC").Find(&decks).Error; err != nil {
		log.Printf("GetUserDecks: query error for user %d: %v", userID, err)
		respondMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondJSON(w, http.StatusOK, decks)
}

// GET /api/decks/{deckID}
func (db *DBHandler) GetDeckByID(w http.ResponseWriter, r *http.Request) {
	deck, ok := db.findOwnedDeck(w, r, r.PathValue("deckID"))
	if !ok {
		return
	}
	respondJSON(w, http.StatusOK, deck)
}

// PUT /api/decks/{deckID}
func (db *DBHandler) UpdateDeck(w http.ResponseWriter, r *http.Request) {
	deck, ok := db.findOwnedDeck(w, r, r.PathValue("deckID"))
	if !ok {
		return
	}

	// Pointer fields distinguish "omitted" from an explicit empty value,
	// so isFavourite can be set to false and tags cleared.
	var req struct {
		Title       *string   `json:"title"`
		Description *string   `json:"description"`
		Tags        *[]string `json:"tags"`
		IsFavourite *bool     `json:"isFavourite"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Title != nil {
		if *req.Title == "" {
			respondMessage(w, http.StatusBadRequest, "Title cannot be empty")
			return
		}
		deck.Title = *req.Title
	}
	if req.Description != nil {
		deck.Description = *req.Description
	}
	if req.Tags != nil {
		deck.Tags = *req.Tags
	}
	if req.IsFavourite != nil {
		deck.IsFavourite = *req.IsFavourite
	}

	if err := db.Save(deck).Error; err != nil {
		log.Printf("UpdateDeck: save error for deck %s: %v", deck.PublicID, err)
		respondMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	db.logActivity(deck.UserID, models.ActivityDeckUpdated, deck.PublicID, "Updated deck: "+deck.Title)

	respondJSON(w, http.StatusOK, deck)
}

// PATCH /api/decks/{deckID}/favourite
func (db *DBHandler) ToggleFavourite(w http.ResponseWriter, r *http.Request) {
	deck, ok := db.findOwnedDeck(w, r, r.PathValue("deckID"))
	if !ok {
		return
	}

	deck.IsFavourite = !deck.IsFavourite
	if err := db.Save(deck).Error; err != nil {
		log.Printf("ToggleFavourite: save error for deck %s: %v", deck.PublicID, err)
		respondMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondJSON(w, http.StatusOK, deck)
}

// DELETE /api/decks/{deckID}
func (db *DBHandler) DeleteDeck(w http.ResponseWriter, r *http.Request) {
	deck, ok := db.findOwnedDeck(w, r, r.PathValue("deckID"))
	if !ok {
		return
	}

	// The deck's flashcards go with it; revision stats stay as history.
	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Unscoped().Where("deck_id = ?", deck.ID).Delete(&models.Flashcard{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Delete(deck).Error
	})
	if err != nil {
		log.Printf("DeleteDeck: delete error for deck %s: %v", deck.PublicID, err)
		respondMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	db.logActivity(deck.UserID, models.ActivityDeckDeleted, deck.PublicID, "Deleted deck: "+deck.Title)

	respondMessage(w, http.StatusOK, "Deck removed")
}
