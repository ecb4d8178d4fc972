package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/flashzen/flashzen-api/mailer"
	"github.com/flashzen/flashzen-api/models"
	"gorm.io/gorm"
)

type DBHandler struct {
	*gorm.DB
	Mail mailer.Mailer

	// Now is swapped in tests to control token expiry.
	Now func() time.Time
}

func NewDBHandler(db *gorm.DB, mail mailer.Mailer) *DBHandler {
	return &DBHandler{DB: db, Mail: mail, Now: time.Now}
}

func respondJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("respondJSON: encoding error: %v", err)
	}
}

// respondMessage writes the standard {"message": ...} body used for both
// error responses and confirmations.
func respondMessage(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"message": message})
}

// logActivity appends an entry to the user's activity feed. Failures are
// logged and swallowed: the primary operation already succeeded.
func (db *DBHandler) logActivity(userID uint, activityType, targetID, description string) {
	activity := models.Activity{
		UserID:      userID,
		Type:        activityType,
		TargetID:    targetID,
		Description: description,
	}
	if err := db.Create(&activity).Error; err != nil {
		log.Printf("logActivity: failed to record %s for user %d: %v", activityType, userID, err)
	}
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
