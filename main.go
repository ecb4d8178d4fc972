package main

import (
	"log"
	"net/http"
	"os"

	"github.com/flashzen/flashzen-api/config"
	"github.com/flashzen/flashzen-api/handlers"
	"github.com/flashzen/flashzen-api/mailer"
	"github.com/flashzen/flashzen-api/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"
)

func init() {
	// Load .env file if not in production environment
	if os.Getenv("RAILWAY_ENVIRONMENT_NAME") == "" {
		err := godotenv.Load()
		if err != nil {
			log.Printf("Warning: .env file not found, environment variables might not be loaded: %v", err)
		}
	}
}

func main() {
	// Initialize database connection
	config.Connect()

	mail := &mailer.SMTPMailer{
		Host:        config.Env.SMTPHost,
		Port:        config.Env.SMTPPort,
		Username:    config.Env.SMTPUser,
		Password:    config.Env.SMTPPass,
		FrontendURL: config.Env.FrontendURL,
	}
	DBHandler := handlers.NewDBHandler(config.Database, mail)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("Flashcard Manager API running"))
	})

	// Auth
	mux.HandleFunc("POST /api/auth/register", DBHandler.RegisterUser)
	mux.HandleFunc("POST /api/auth/login", DBHandler.LoginUser)
	mux.HandleFunc("GET /api/auth/profile", middleware.RequireAuth(DBHandler.GetProfile))
	mux.HandleFunc("PUT /api/auth/profile", middleware.RequireAuth(DBHandler.UpdateProfile))
	mux.HandleFunc("GET /api/auth/leaderboard", middleware.RequireAuth(DBHandler.GetLeaderboard))
	mux.HandleFunc("PUT /api/auth/settings", middleware.RequireAuth(DBHandler.UpdateSettings))
	mux.HandleFunc("POST /api/auth/delete-account", middleware.RequireAuth(DBHandler.RequestDeleteAccount))
	// The deletion token is the credential here, so no bearer auth.
	mux.HandleFunc("DELETE /api/auth/confirm-delete/{token}", DBHandler.ConfirmDeleteAccount)

	// Decks
	mux.HandleFunc("POST /api/decks", middleware.RequireAuth(DBHandler.CreateDeck))
	mux.HandleFunc("GET /api/decks", middleware.RequireAuth(DBHandler.GetUserDecks))
	mux.HandleFunc("GET /api/decks/{deckID}", middleware.RequireAuth(DBHandler.GetDeckByID))
	mux.HandleFunc("PUT /api/decks/{deckID}", middleware.RequireAuth(DBHandler.UpdateDeck))
	mux.HandleFunc("PATCH /api/decks/{deckID}/favourite", middleware.RequireAuth(DBHandler.ToggleFavourite))
	mux.HandleFunc("DELETE /api/decks/{deckID}", middleware.RequireAuth(DBHandler.DeleteDeck))

	// Flashcards
	mux.HandleFunc("POST /api/flashcards", middleware.RequireAuth(DBHandler.CreateFlashcard))
	mux.HandleFunc("GET /api/flashcards/user", middleware.RequireAuth(DBHandler.GetUserFlashcards))
	mux.HandleFunc("GET /api/flashcards/{deckID}", middleware.RequireAuth(DBHandler.GetDeckFlashcards))
	mux.HandleFunc("PUT /api/flashcards/{flashcardID}", middleware.RequireAuth(DBHandler.UpdateFlashcard))
	mux.HandleFunc("DELETE /api/flashcards/{flashcardID}", middleware.RequireAuth(DBHandler.DeleteFlashcard))

	// Revision
	mux.HandleFunc("POST /api/revision", middleware.RequireAuth(DBHandler.RecordRevision))
	mux.HandleFunc("GET /api/revision", middleware.RequireAuth(DBHandler.GetRevisionStats))

	// Activity
	mux.HandleFunc("GET /api/activity", middleware.RequireAuth(DBHandler.GetUserActivities))

	// Configure CORS with specific options
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   config.Env.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization", "X-Requested-With", "Accept", "Origin"},
		AllowCredentials: true,
		MaxAge:           86400,
	}).Handler(mux)

	// Server configuration

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080" // fallback port for local development
	}
	serverAddr := "0.0.0.0:" + port

	http.ListenAndServe(serverAddr, corsHandler)
}
