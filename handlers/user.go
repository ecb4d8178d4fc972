package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"regexp"
	"time"

	"github.com/flashzen/flashzen-api/auth"
	"github.com/flashzen/flashzen-api/middleware"
	"github.com/flashzen/flashzen-api/models"
	"gorm.io/gorm"
)

var emailRegex = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// userResponse is the public projection of a user record.
type userResponse struct {
	ID        uint            `json:"_id"`
	Username  string          `json:"username"`
	Email     string          `json:"email"`
	Points    int             `json:"points"`
	Level     int             `json:"level"`
	Streak    int             `json:"streak"`
	Badges    []string        `json:"badges"`
	Settings  models.Settings `json:"settings"`
	CreatedAt time.Time       `json:"createdAt"`
}

func toUserResponse(user *models.User) userResponse {
	badges := user.Badges
	if badges == nil {
		badges = []string{}
	}
	return userResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Points:    user.Points,
		Level:     user.Level,
		Streak:    user.Streak,
		Badges:    badges,
		Settings:  user.Settings,
		CreatedAt: user.CreatedAt,
	}
}

// POST /api/auth/register
func (db *DBHandler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if req.Username == "" {
		respondMessage(w, http.StatusBadRequest, "Username is required")
		return
	}
	if !emailRegex.MatchString(req.Email) {
		respondMessage(w, http.StatusBadRequest, "Please provide a valid email address")
		return
	}
	if len(req.Password) < 6 {
		respondMessage(w, http.StatusBadRequest, "Password must be at least 6 characters long")
		return
	}

	var existing models.User
	if err := db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		respondMessage(w, http.StatusBadRequest, "User already exists with this email")
		return
	}
	if err := db.Where("username = ?", req.Username).First(&existing).Error; err == nil {
		respondMessage(w, http.StatusBadRequest, "Username already taken")
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		log.Printf("RegisterUser: hashing error: %v", err)
		respondMessage(w, http.StatusInternalServerError, "Server error during registration")
		return
	}

	user := models.User{
		Username: req.Username,
		Email:    req.Email,
		Password: hash,
		Level:    1,
		Badges:   []string{},
	}
	if err := db.Create(&user).Error; err != nil {
		log.Printf("RegisterUser: creation error: %v", err)
		respondMessage(w, http.StatusInternalServerError, "Server error during registration")
		return
	}

	tokenString, err := auth.CreateToken(user.ID)
	if err != nil {
		log.Printf("RegisterUser: token generation error: %v", err)
		respondMessage(w, http.StatusInternalServerError, "Server error during registration")
		return
	}

	respondJSON(w, http.StatusCreated, map[string]interface{}{
		"_id":      user.ID,
		"username": user.Username,
		"email":    user.Email,
		"token":    tokenString,
	})
}

// POST /api/auth/login
func (db *DBHandler) LoginUser(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var user models.User
	if err := db.Where("email = ?", req.Email).First(&user).Error; err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	if !auth.CheckPasswordHash(req.Password, user.Password) {
		respondMessage(w, http.StatusBadRequest, "Invalid credentials")
		return
	}

	tokenString, err := auth.CreateToken(user.ID)
	if err != nil {
		log.Printf("LoginUser: token generation error: %v", err)
		respondMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"_id":      user.ID,
		"username": user.Username,
		"email":    user.Email,
		"token":    tokenString,
	})
}

// GET /api/auth/profile
func (db *DBHandler) GetProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r)

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		respondMessage(w, http.StatusNotFound, "User not found")
		return
	}

	respondJSON(w, http.StatusOK, toUserResponse(&user))
}

// PUT /api/auth/profile
func (db *DBHandler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r)

	// Pointer fields distinguish "omitted" from an explicit empty value.
	var req struct {
		Username *string `json:"username"`
		Email    *string `json:"email"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		respondMessage(w, http.StatusNotFound, "User not found")
		return
	}

	if req.Username != nil {
		if *req.Username == "" {
			respondMessage(w, http.StatusBadRequest, "Username cannot be empty")
			return
		}
		var existing models.User
		if err := db.Where("username = ? AND id <> ?", *req.Username, user.ID).First(&existing).Error; err == nil {
			respondMessage(w, http.StatusBadRequest, "Username already taken")
			return
		}
		user.Username = *req.Username
	}

	if req.Email != nil {
		if !emailRegex.MatchString(*req.Email) {
			respondMessage(w, http.StatusBadRequest, "Please provide a valid email address")
			return
		}
		var existing models.User
		if err := db.Where("email = ? AND id <> ?", *req.Email, user.ID).First(&existing).Error; err == nil {
			respondMessage(w, http.StatusBadRequest, "Email already in use by another account")
			return
		}
		user.Email = *req.Email
	}

	if err := db.Save(&user).Error; err != nil {
		log.Printf("UpdateProfile: save error for user %d: %v", userID, err)
		respondMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondJSON(w, http.StatusOK, toUserResponse(&user))
}

// leaderboardEntry omits settings and other private fields.
type leaderboardEntry struct {
	Username  string    `json:"username"`
	Points    int       `json:"points"`
	Level     int       `json:"level"`
	Streak    int       `json:"streak"`
	Badges    []string  `json:"badges"`
	CreatedAt time.Time `json:"createdAt"`
}

// GET /api/auth/leaderboard
func (db *DBHandler) GetLeaderboard(w http.ResponseWriter, r *http.Request) {
	var users []models.User
	if err := db.Order("points DESC, level DESC, streak DESC").Limit(50).Find(&users).Error; err != nil {
		log.Printf("GetLeaderboard: query error: %v", err)
		respondMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	entries := make([]leaderboardEntry, 0, len(users))
	for i := range users {
		badges := users[i].Badges
		if badges == nil {
			badges = []string{}
		}
		entries = append(entries, leaderboardEntry{
			Username:  users[i].Username,
			Points:    users[i].Points,
			Level:     users[i].Level,
			Streak:    users[i].Streak,
			Badges:    badges,
			CreatedAt: users[i].CreatedAt,
		})
	}

	respondJSON(w, http.StatusOK, entries)
}

// PUT /api/auth/settings
func (db *DBHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r)

	var req struct {
		Settings struct {
			TimerDuration     *int    `json:"timerDuration"`
			Theme             *string `json:"theme"`
			KeyboardShortcuts *bool   `json:"keyboardShortcuts"`
		} `json:"settings"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		respondMessage(w, http.StatusNotFound, "User not found")
		return
	}

	if req.Settings.TimerDuration != nil {
		if *req.Settings.TimerDuration <= 0 {
			respondMessage(w, http.StatusBadRequest, "Timer duration must be positive")
			return
		}
		user.Settings.TimerDuration = *req.Settings.TimerDuration
	}
	if req.Settings.Theme != nil {
		user.Settings.Theme = *req.Settings.Theme
	}
	if req.Settings.KeyboardShortcuts != nil {
		user.Settings.KeyboardShortcuts = *req.Settings.KeyboardShortcuts
	}

	if err := db.Save(&user).Error; err != nil {
		log.Printf("UpdateSettings: save error for user %d: %v", userID, err)
		respondMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	respondMessage(w, http.StatusOK, "Settings updated successfully")
}

// generateDeleteToken returns 256 bits of entropy, hex-encoded.
func generateDeleteToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// POST /api/auth/delete-account
//
// Phase 1 of the deletion workflow: persist a time-limited token and email
// a confirmation link. The token is saved before the email goes out; if
// delivery fails the user stays pending with no email, and retrying simply
// overwrites the token.
func (db *DBHandler) RequestDeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.UserID(r)

	var user models.User
	if err := db.First(&user, userID).Error; err != nil {
		respondMessage(w, http.StatusNotFound, "User not found")
		return
	}

	token, err := generateDeleteToken()
	if err != nil {
		log.Printf("RequestDeleteAccount: token generation error: %v", err)
		respondMessage(w, http.StatusInternalServerError, "Server error")
		return
	}
	expiry := db.Now().Add(24 * time.Hour)

	user.DeleteToken = &token
	user.DeleteTokenExpiry = &expiry
	if err := db.Save(&user).Error; err != nil {
		log.Printf("RequestDeleteAccount: save error for user %d: %v", userID, err)
		respondMessage(w, http.StatusInternalServerError, "Server error")
		return
	}

	if err := db.Mail.SendDeleteConfirmation(user.Email, token); err != nil {
		log.Printf("RequestDeleteAccount: email error for user %d: %v", userID, err)
		respondMessage(w, http.StatusInternalServerError, "Failed to send deletion confirmation email")
		return
	}

	respondMessage(w, http.StatusOK, "Account deletion confirmation email sent. Please check your email.")
}

var errInvalidDeleteToken = errors.New("invalid or expired deletion token")

// DELETE /api/auth/confirm-delete/{token}
//
// Phase 2: the token is the credential, so no bearer auth here. Expired,
// consumed and never-issued tokens are deliberately indistinguishable.
func (db *DBHandler) ConfirmDeleteAccount(w http.ResponseWriter, r *http.Request) {
	token := r.PathValue("token")
	now := db.Now()

	err := db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("delete_token = ? AND delete_token_expiry > ?", token, now).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errInvalidDeleteToken
			}
			return err
		}

		// Compare-and-delete: repeat the token predicate so that of two
		// concurrent confirmations only one sees a row to delete.
		res := tx.Unscoped().
			Where("id = ? AND delete_token = ? AND delete_token_expiry > ?", user.ID, token, now).
			Delete(&models.User{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return errInvalidDeleteToken
		}

		// Fan out to everything the user owns, flashcards before their
		// decks.
		var deckIDs []uint
		if err := tx.Model(&models.Deck{}).Where("user_id = ?", user.ID).Pluck("id", &deckIDs).Error; err != nil {
			return err
		}
		if len(deckIDs) > 0 {
			if err := tx.Unscoped().Where("deck_id IN ?", deckIDs).Delete(&models.Flashcard{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Unscoped().Where("user_id = ?", user.ID).Delete(&models.Deck{}).Error; err != nil {
			return err
		}
		if err := tx.Unscoped().Where("user_id = ?", user.ID).Delete(&models.RevisionStat{}).Error; err != nil {
			return err
		}
		return tx.Unscoped().Where("user_id = ?", user.ID).Delete(&models.Activity{}).Error
	})

	if errors.Is(err, errInvalidDeleteToken) {
		respondMessage(w, http.StatusBadRequest, "Invalid or expired deletion token")
		return
	}
	if err != nil {
		log.Printf("ConfirmDeleteAccount: transaction error: %v", err)
		respondMessage(w, http.StatusInternalServerError, "Failed to delete account")
		return
	}

	respondMessage(w, http.StatusOK, "Account successfully deleted")
}
