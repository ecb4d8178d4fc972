package handlers_test

import (
	"net/http"
	"testing"
	"time"
)

func TestRegisterUser(t *testing.T) {
	t.Run("creates a user and returns a token", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)

		var resp map[string]interface{}
		rec := e.do(http.MethodPost, "/api/auth/register", "", map[string]string{
			"username": "alice",
			"email":    "alice@example.com",
			"password": "TestPassword123",
		}, &resp)

		if rec.Code != http.StatusCreated {
			t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
		}
		if resp["token"] == "" || resp["token"] == nil {
			t.Error("response missing token")
		}
		if resp["username"] != "alice" {
			t.Errorf("username = %v, want alice", resp["username"])
		}
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)
		e.register("alice", "alice@example.com")

		rec := e.do(http.MethodPost, "/api/auth/register", "", map[string]string{
			"username": "alice2",
			"email":    "alice@example.com",
			"password": "AnotherPass123",
		}, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("rejects duplicate username", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)
		e.register("alice", "alice@example.com")

		rec := e.do(http.MethodPost, "/api/auth/register", "", map[string]string{
			"username": "alice",
			"email":    "other@example.com",
			"password": "AnotherPass123",
		}, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})

	t.Run("rejects bad email and short password", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)

		for _, body := range []map[string]string{
			{"username": "bob", "email": "not-an-email", "password": "password123"},
			{"username": "bob", "email": "bob@example.com", "password": "short"},
			{"username": "", "email": "bob@example.com", "password": "password123"},
		} {
			rec := e.do(http.MethodPost, "/api/auth/register", "", body, nil)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("body %v: status = %d, want 400", body, rec.Code)
			}
		}
	})
}

func TestLoginUser(t *testing.T) {
	t.Run("valid credentials return a token", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)
		e.register("alice", "alice@example.com")

		var resp map[string]interface{}
		rec := e.do(http.MethodPost, "/api/auth/login", "", map[string]string{
			"email":    "alice@example.com",
			"password": "password123",
		}, &resp)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}
		if resp["token"] == "" || resp["token"] == nil {
			t.Error("response missing token")
		}
	})

	t.Run("wrong password and unknown email collapse to the same error", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)
		e.register("alice", "alice@example.com")

		for _, body := range []map[string]string{
			{"email": "alice@example.com", "password": "wrongpass"},
			{"email": "nobody@example.com", "password": "password123"},
		} {
			var resp map[string]string
			rec := e.do(http.MethodPost, "/api/auth/login", "", body, &resp)
			if rec.Code != http.StatusBadRequest {
				t.Errorf("body %v: status = %d, want 400", body, rec.Code)
			}
			if resp["message"] != "Invalid credentials" {
				t.Errorf("body %v: message = %q", body, resp["message"])
			}
		}
	})
}

func TestProfile(t *testing.T) {
	t.Run("new user starts at zero points, level one", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)
		token := e.register("alice", "alice@example.com")

		var profile struct {
			Points   int `json:"points"`
			Level    int `json:"level"`
			Streak   int `json:"streak"`
			Settings struct {
				TimerDuration     int    `json:"timerDuration"`
				Theme             string `json:"theme"`
				KeyboardShortcuts bool   `json:"keyboardShortcuts"`
			} `json:"settings"`
		}
		rec := e.do(http.MethodGet, "/api/auth/profile", token, nil, &profile)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200", rec.Code)
		}
		if profile.Points != 0 || profile.Level != 1 || profile.Streak != 0 {
			t.Errorf("profile = %+v, want zeroed gamification at level 1", profile)
		}
		if profile.Settings.TimerDuration != 30 || profile.Settings.Theme != "light" || !profile.Settings.KeyboardShortcuts {
			t.Errorf("settings defaults = %+v", profile.Settings)
		}
	})

	t.Run("requires auth", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)

		rec := e.do(http.MethodGet, "/api/auth/profile", "", nil, nil)
		if rec.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want 401", rec.Code)
		}
	})

	t.Run("update changes only provided fields", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)
		token := e.register("alice", "alice@example.com")

		var resp struct {
			Username string `json:"username"`
			Email    string `json:"email"`
		}
		rec := e.do(http.MethodPut, "/api/auth/profile", token, map[string]string{
			"username": "alice-renamed",
		}, &resp)

		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}
		if resp.Username != "alice-renamed" {
			t.Errorf("username = %q", resp.Username)
		}
		if resp.Email != "alice@example.com" {
			t.Errorf("email changed unexpectedly: %q", resp.Email)
		}
	})

	t.Run("update rejects an email already in use", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)
		token := e.register("alice", "alice@example.com")
		e.register("bob", "bob@example.com")

		rec := e.do(http.MethodPut, "/api/auth/profile", token, map[string]string{
			"email": "bob@example.com",
		}, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
	})
}

func TestUpdateSettings(t *testing.T) {
	t.Run("merges partial settings, keeping omitted fields", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)
		token := e.register("alice", "alice@example.com")

		// Explicit false must stick even though it is the zero value.
		rec := e.do(http.MethodPut, "/api/auth/settings", token, map[string]interface{}{
			"settings": map[string]interface{}{
				"theme":             "dark",
				"keyboardShortcuts": false,
			},
		}, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
		}

		var profile struct {
			Settings struct {
				TimerDuration     int    `json:"timerDuration"`
				Theme             string `json:"theme"`
				KeyboardShortcuts bool   `json:"keyboardShortcuts"`
			} `json:"settings"`
		}
		e.do(http.MethodGet, "/api/auth/profile", token, nil, &profile)

		if profile.Settings.Theme != "dark" {
			t.Errorf("theme = %q, want dark", profile.Settings.Theme)
		}
		if profile.Settings.KeyboardShortcuts {
			t.Error("keyboardShortcuts still true after explicit false")
		}
		if profile.Settings.TimerDuration != 30 {
			t.Errorf("timerDuration = %d, want untouched 30", profile.Settings.TimerDuration)
		}
	})
}

func TestLeaderboard(t *testing.T) {
	t.Parallel()
	e := newEnv(t)
	tokenA := e.register("alice", "alice@example.com")
	e.register("bob", "bob@example.com")

	// Give alice some points.
	deckID := e.createDeck(tokenA, "Biology")
	cardID := e.createFlashcard(tokenA, deckID, "Q", "A")
	for i := 0; i < 3; i++ {
		rec := e.do(http.MethodPost, "/api/revision", tokenA, map[string]interface{}{
			"flashcardId": cardID, "deckId": deckID, "correct": true,
		}, nil)
		if rec.Code != http.StatusCreated {
			t.Fatalf("revision: status %d", rec.Code)
		}
	}

	var entries []struct {
		Username string `json:"username"`
		Points   int    `json:"points"`
	}
	rec := e.do(http.MethodGet, "/api/auth/leaderboard", tokenA, nil, &entries)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Username != "alice" || entries[0].Points != 30 {
		t.Errorf("top entry = %+v, want alice with 30 points", entries[0])
	}
}

func TestDeletionWorkflow(t *testing.T) {
	t.Run("request emails a token and confirm deletes the account", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)
		token := e.register("alice", "alice@example.com")
		deckID := e.createDeck(token, "Biology")
		e.createFlashcard(token, deckID, "Q", "A")

		rec := e.do(http.MethodPost, "/api/auth/delete-account", token, nil, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("request: status = %d: %s", rec.Code, rec.Body.String())
		}
		if len(e.mail.Sent) != 1 {
			t.Fatalf("got %d emails, want 1", len(e.mail.Sent))
		}
		if e.mail.Sent[0].To != "alice@example.com" {
			t.Errorf("email to %q", e.mail.Sent[0].To)
		}
		deleteToken := e.mail.Sent[0].Token
		if len(deleteToken) != 64 {
			t.Errorf("token length = %d, want 64 hex chars", len(deleteToken))
		}

		rec = e.do(http.MethodDelete, "/api/auth/confirm-delete/"+deleteToken, "", nil, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("confirm: status = %d: %s", rec.Code, rec.Body.String())
		}

		// The account is gone: login now fails like any bad credential.
		rec = e.do(http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "alice@example.com", "password": "password123",
		}, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("login after deletion: status = %d, want 400", rec.Code)
		}

		// And the email is free for a new registration (hard delete).
		e.register("alice-again", "alice@example.com")
	})

	t.Run("a token is usable exactly once", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)
		token := e.register("alice", "alice@example.com")

		e.do(http.MethodPost, "/api/auth/delete-account", token, nil, nil)
		deleteToken := e.mail.Sent[0].Token

		if rec := e.do(http.MethodDelete, "/api/auth/confirm-delete/"+deleteToken, "", nil, nil); rec.Code != http.StatusOK {
			t.Fatalf("first confirm: status = %d", rec.Code)
		}

		var resp map[string]string
		rec := e.do(http.MethodDelete, "/api/auth/confirm-delete/"+deleteToken, "", nil, &resp)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("second confirm: status = %d, want 400", rec.Code)
		}
		if resp["message"] != "Invalid or expired deletion token" {
			t.Errorf("message = %q", resp["message"])
		}
	})

	t.Run("an expired token does not delete the user", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)
		token := e.register("alice", "alice@example.com")

		e.do(http.MethodPost, "/api/auth/delete-account", token, nil, nil)
		deleteToken := e.mail.Sent[0].Token

		e.advanceClock(25 * time.Hour)
		rec := e.do(http.MethodDelete, "/api/auth/confirm-delete/"+deleteToken, "", nil, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("expired confirm: status = %d, want 400", rec.Code)
		}

		// Still able to log in.
		rec = e.do(http.MethodPost, "/api/auth/login", "", map[string]string{
			"email": "alice@example.com", "password": "password123",
		}, nil)
		if rec.Code != http.StatusOK {
			t.Errorf("login after expired confirm: status = %d, want 200", rec.Code)
		}
	})

	t.Run("never-issued token is rejected with the same error", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)

		var resp map[string]string
		rec := e.do(http.MethodDelete, "/api/auth/confirm-delete/deadbeef", "", nil, &resp)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("status = %d, want 400", rec.Code)
		}
		if resp["message"] != "Invalid or expired deletion token" {
			t.Errorf("message = %q", resp["message"])
		}
	})

	t.Run("email failure surfaces 500 but keeps the token", func(t *testing.T) {
		t.Parallel()
		e := newEnv(t)
		token := e.register("alice", "alice@example.com")

		e.mail.Err = errSMTPDown
		rec := e.do(http.MethodPost, "/api/auth/delete-account", token, nil, nil)
		if rec.Code != http.StatusInternalServerError {
			t.Fatalf("status = %d, want 500", rec.Code)
		}

		// A retry overwrites the pending token and succeeds.
		e.mail.Err = nil
		rec = e.do(http.MethodPost, "/api/auth/delete-account", token, nil, nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("retry: status = %d", rec.Code)
		}
		deleteToken := e.mail.Sent[0].Token
		if rec := e.do(http.MethodDelete, "/api/auth/confirm-delete/"+deleteToken, "", nil, nil); rec.Code != http.StatusOK {
			t.Errorf("confirm after retry: status = %d", rec.Code)
		}
	})
}
