package main

import (
	"context"
	"errors"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-user-api/config"
	"github.com/oksasatya/go-user-api/internal/domain/entity"
	"github.com/oksasatya/go-user-api/internal/domain/repository"
	pginfra "github.com/oksasatya/go-user-api/internal/infrastructure/postgres"
	"github.com/oksasatya/go-user-api/pkg/helpers"
)

// seeds the administrator account; running it again resets its password and profile
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName, cfg.Env)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	pool, err := pginfra.NewPool(ctx, cfg.PostgresDSN(), pginfra.PoolOptions{MaxConns: 2})
	if err != nil {
		logger.WithError(err).Fatal("failed to connect to postgres")
	}
	defer pool.Close()
	repo := pginfra.NewUserRepository(pool)

	hash, err := helpers.HashPassword(cfg.AdminPassword)
	if err != nil {
		logger.WithError(err).Fatal("failed to hash password")
	}

	admin, err := repo.FindByEmail(ctx, cfg.AdminEmail)
	exists := err == nil
	switch {
	case errors.Is(err, repository.ErrNotFound):
		admin = &entity.User{}
	case err != nil:
		logger.WithError(err).Fatal("failed to look up admin")
	}

	admin.SetEmail(cfg.AdminEmail)
	admin.Password = hash
	admin.FirstName = "Admin"
	admin.LastName = "Admin"
	admin.Phone = cfg.AdminPhone
	admin.Roles = []string{entity.RoleAdmin}
	admin.Enabled = true
	admin.SuperAdmin = true

	if exists {
		err = repo.Update(ctx, admin)
	} else {
		err = repo.Create(ctx, admin)
	}
	if err != nil {
		logger.WithError(err).Fatal("failed to seed admin")
	}
	logger.WithFields(logrus.Fields{"id": admin.ID, "email": admin.Email, "updated": exists}).Info("seeded admin account")
}
