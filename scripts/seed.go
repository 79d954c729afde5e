//go:build ignore

// Seed creates a demo organization, user, session and API key for local
// development. Run with: go run scripts/seed.go
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/mira/feedhub/internal/apikeys"
	"github.com/mira/feedhub/internal/auth"
	"github.com/mira/feedhub/internal/database"
	"github.com/mira/feedhub/internal/database/models"
	"github.com/mira/feedhub/pkg/config"
	"github.com/mira/feedhub/pkg/util"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := util.NewLogger(cfg.Server.Env)

	db, err := database.Connect(&cfg.Database, logger)
	if err != nil {
		logger.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	if err := database.AutoMigrate(db); err != nil {
		logger.Error("failed to run migrations", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()

	org := models.Organization{Name: "Acme", Slug: "acme", IsPublic: true}
	if err := db.WithContext(ctx).FirstOrCreate(&org, models.Organization{Slug: "acme"}).Error; err != nil {
		logger.Error("failed to create organization", "error", err)
		os.Exit(1)
	}

	user := models.User{Email: "demo@acme.test", DisplayName: "Demo Admin", IsActive: true}
	if err := db.WithContext(ctx).FirstOrCreate(&user, models.User{Email: "demo@acme.test"}).Error; err != nil {
		logger.Error("failed to create user", "error", err)
		os.Exit(1)
	}

	membership := models.OrgMembership{UserID: user.ID, OrganizationID: org.ID, Role: "owner"}
	if err := db.WithContext(ctx).FirstOrCreate(&membership,
		models.OrgMembership{UserID: user.ID, OrganizationID: org.ID}).Error; err != nil {
		logger.Error("failed to create membership", "error", err)
		os.Exit(1)
	}

	for _, p := range []models.Post{
		{OrganizationID: org.ID, Title: "Dark mode", Body: "Please add dark mode", Status: models.PostStatusPlanned, Votes: 12},
		{OrganizationID: org.ID, Title: "CSV export", Body: "Export feedback as CSV", Status: models.PostStatusOpen, Votes: 4},
		{OrganizationID: org.ID, Title: "v1.2 released", Body: "Faster boards", Status: models.PostStatusShipped, IsChangelog: true},
	} {
		if err := db.WithContext(ctx).FirstOrCreate(&p, models.Post{OrganizationID: org.ID, Title: p.Title}).Error; err != nil {
			logger.Error("failed to create post", "title", p.Title, "error", err)
			os.Exit(1)
		}
	}

	jwtService := auth.NewJWTService(cfg.Session.Secret, cfg.Session.Expiry())
	sessions := auth.NewService(db, jwtService, cfg.Session.CookieName)
	token, err := sessions.CreateSession(ctx, user.ID, cfg.Session.Expiry())
	if err != nil {
		logger.Error("failed to create session", "error", err)
		os.Exit(1)
	}

	keys := apikeys.NewService(db, cfg.APIKey.HMACSecret, nil, logger)
	expires := time.Now().Add(365 * 24 * time.Hour)
	raw, _, err := keys.Create(ctx, &org, "demo key", &expires)
	if err != nil {
		logger.Error("failed to create api key", "error", err)
		os.Exit(1)
	}

	fmt.Println("seeded organization:", org.Slug)
	fmt.Println("session cookie", cfg.Session.CookieName+"="+token)
	fmt.Println("api key:", raw)
}
