// seed inserts a demo user with sample tasks for local development.
// Idempotent: nothing is written when the demo user already exists.
package main

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"tasktracker/backend/internal/config"
	"tasktracker/backend/internal/db"
	"tasktracker/backend/internal/logger"
	"tasktracker/backend/internal/security"
	taskrepo "tasktracker/backend/internal/task/repository"
	taskservice "tasktracker/backend/internal/task/service"
	userdomain "tasktracker/backend/internal/user/domain"
	userrepo "tasktracker/backend/internal/user/repository"
)

const (
	demoEmail    = "demo@example.com"
	demoName     = "Demo User"
	demoPassword = "Passw0rd"
)

func strPtr(s string) *string { return &s }

func sampleTasks(now time.Time) []taskservice.CreateInput {
	due := func(days int) *string {
		return strPtr(now.AddDate(0, 0, days).Format(time.RFC3339))
	}
	return []taskservice.CreateInput{
		{Title: "Set up project repository", Description: strPtr("Initialize git and push the first commit"), Status: "COMPLETED", Priority: "HIGH"},
		{Title: "Write API documentation", Description: strPtr("Document the auth and task endpoints"), Status: "IN_PROGRESS", Priority: "MEDIUM", DueDate: due(3)},
		{Title: "Review pull requests", Status: "PENDING", Priority: "HIGH", DueDate: due(1)},
		{Title: "Plan next sprint", Description: strPtr("Collect ideas from the backlog"), Status: "PENDING", Priority: "LOW", DueDate: due(7)},
		{Title: "Update dependencies", Status: "PENDING", Priority: "MEDIUM"},
	}
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.New("", "info", "seed").Fatal("config", zap.Error(err))
	}
	log := logger.New(cfg.Env, cfg.LogLevel, "seed")
	defer func() { _ = log.Sync() }()

	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is not set; create a .env from .env.example or set DATABASE_URL")
	}
	conn, err := db.Open(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("database", zap.Error(err))
	}
	defer conn.Close()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	users := userrepo.NewPostgresRepository(conn)
	existing, err := users.GetByEmail(ctx, demoEmail)
	if err != nil {
		log.Fatal("lookup demo user", zap.Error(err))
	}
	if existing != nil {
		log.Info("demo user already exists; skipping", zap.String("email", demoEmail))
		return
	}

	hash, err := security.NewHasher(cfg.BcryptCost).Hash([]byte(demoPassword))
	if err != nil {
		log.Fatal("hash password", zap.Error(err))
	}
	u := &userdomain.User{
		ID:           uuid.New().String(),
		Email:        demoEmail,
		Name:         demoName,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := users.Create(ctx, u); err != nil {
		log.Fatal("create demo user", zap.Error(err))
	}

	tasks := taskservice.NewTaskService(taskrepo.NewPostgresRepository(conn), nil)
	inputs := sampleTasks(time.Now().UTC())
	for _, in := range inputs {
		if _, err := tasks.Create(ctx, u.ID, in); err != nil {
			log.Fatal("create sample task", zap.String("title", in.Title), zap.Error(err))
		}
	}
	log.Info("seeded demo data",
		zap.String("email", demoEmail),
		zap.String("password", demoPassword),
		zap.Int("tasks", len(inputs)))
}
