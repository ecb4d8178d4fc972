package config

import (
	"os"
	"strings"
)

type Environment struct {
	IsDevelopment bool
	FrontendURL   string
	CORSOrigins   []string
	SMTPHost      string
	SMTPPort      string
	SMTPUser      string
	SMTPPass      string
}

var Env Environment

func init() {
	frontendURL := os.Getenv("FRONTEND_URL")

	// If no frontend URL is set, we're in development
	isDev := frontendURL == ""
	if isDev {
		frontendURL = "http://localhost:5174"
	}

	origins := []string{"http://localhost:3000", "http://localhost:5174"}
	if raw := os.Getenv("CORS_ORIGINS"); raw != "" {
		origins = strings.Split(raw, ",")
	}

	Env = Environment{
		IsDevelopment: isDev,
		FrontendURL:   frontendURL,
		CORSOrigins:   origins,
		SMTPHost:      os.Getenv("SMTP_HOST"),
		SMTPPort:      os.Getenv("SMTP_PORT"),
		SMTPUser:      os.Getenv("SMTP_USER"),
		SMTPPass:      os.Getenv("SMTP_PASS"),
	}
}
