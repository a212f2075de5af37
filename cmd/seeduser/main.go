// Command seeduser creates a user, or resets the password and role of an
// existing one.
//
//	go run ./cmd/seeduser --username alice --password s3cret --role staff
package main

import (
	"context"
	"os"
	"time"

	"github.com/LaTashkhat17/Inventory-Management-System/internal/config"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/infra"
	"github.com/LaTashkhat17/Inventory-Management-System/internal/model"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/pflag"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm/clause"
)

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	username := pflag.String("username", "admin", "login name")
	password := pflag.String("password", "admin123", "plain-text password")
	role := pflag.String("role", model.RoleAdmin, "admin | staff")
	pflag.Parse()

	if *role != model.RoleAdmin && *role != model.RoleStaff {
		log.Fatal().Str("role", *role).Msg("role must be admin or staff")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL, cfg.DBAutoMigrate)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to postgres")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), 12)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt")
	}

	u := model.User{Username: *username, PasswordHash: string(hash), Role: *role, Active: true}
	err = db.WithContext(context.Background()).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "username"}},
		DoUpdates: clause.AssignmentColumns([]string{"password_hash", "role", "active", "updated_at"}),
	}).Create(&u).Error
	if err != nil {
		log.Fatal().Err(err).Msg("upsert user")
	}
	log.Info().Str("username", *username).Str("role", *role).Msg("user created or updated")
}
