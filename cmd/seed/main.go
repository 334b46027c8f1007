package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/adcart-backend/config"
	"github.com/oksasatya/adcart-backend/internal/domain/entity"
	"github.com/oksasatya/adcart-backend/internal/domain/repository"
	"github.com/oksasatya/adcart-backend/internal/infrastructure/mongostore"
	"github.com/oksasatya/adcart-backend/pkg/helpers"
)

type seedAccount struct {
	name     string
	email    string
	password string
	role     entity.Role
}

var accounts = []seedAccount{
	{name: "demoUser", email: "user@adcart.local", password: "password123", role: entity.RoleUser},
	{name: "demoAdvertiser", email: "advertiser@adcart.local", password: "password123", role: entity.RoleAdvertiser},
}

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	client, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoTimeout)
	if err != nil {
		log.Fatalf("failed to connect to mongodb: %v", err)
	}
	defer func() { _ = client.Disconnect(context.Background()) }()

	db := client.Database(cfg.MongoDB)
	if err := mongostore.EnsureIndexes(ctx, db); err != nil {
		log.Fatalf("failed to ensure indexes: %v", err)
	}
	users := mongostore.NewUserRepository(db)
	jwt := helpers.NewJWTManager(cfg.JWTAccessSecret, cfg.AccessTTL)

	for _, a := range accounts {
		u, err := ensureUser(ctx, users, a)
		if err != nil {
			log.Fatalf("failed to seed %s: %v", a.email, err)
		}
		token, exp, err := jwt.GenerateAccessToken(u.ID, string(u.Role))
		if err != nil {
			log.Fatalf("failed to sign token for %s: %v", a.email, err)
		}
		fmt.Printf("seeded %s: id=%s email=%s password=%s\n", u.Role, u.ID, u.Email, a.password)
		fmt.Printf("  access token (expires %s):\n  %s\n", exp.Format("2006-01-02 15:04"), token)
	}
}

// ensureUser returns the existing account for a.email or creates it.
func ensureUser(ctx context.Context, users *mongostore.UserRepository, a seedAccount) (*entity.User, error) {
	u, err := users.GetByEmail(ctx, a.email)
	if err == nil {
		return u, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}
	hash, err := helpers.HashPassword(a.password)
	if err != nil {
		return nil, err
	}
	u = &entity.User{Name: a.name, Email: a.email, Password: hash, Role: a.role}
	if err := users.Create(ctx, u); err != nil {
		return nil, err
	}
	return u, nil
}
