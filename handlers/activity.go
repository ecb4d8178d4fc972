package handlers

import (
	"log"
	"net/http"

	"github.com/flashzen/flashzen-api/middleware"
	"github.com/flashzen/flashzen-api/models"
)

// GET /api/activity returns the caller's 20 most recent activity entries.
func (db *DBHandler) GetUserActivities(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r)

	var activities []models.Activity
	err := db.Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(20).
		Find(&activities).Error
	if err != nil {
		log.Printf("GetUserActivities: query error for user %d: %v", userID, err)
		respondMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondJSON(w, http.StatusOK, activities)
}
