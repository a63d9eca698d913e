package main

import (
	"database/sql"
	"fmt"
	"log"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"

	"github.com/rizkypratama/go-accounts/config"
	"github.com/rizkypratama/go-accounts/pkg/helpers"
)

// Administrative provisioning path: seeds a superuser for local setups.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := sql.Open("pgx", cfg.PostgresDSN())
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}
	defer func() { _ = db.Close() }()

	email := "admin@example.com"
	username := "admin"
	password := "changeme123"
	hash, err := helpers.HashPassword(password)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	var id string
	err = db.QueryRow(`
		INSERT INTO users (email, username, first_name, last_name, password_hash,
			date_joined, is_active, is_staff, is_superuser, is_verified)
		VALUES ($1, $2, 'Site', 'Admin', $3, $4, TRUE, TRUE, TRUE, TRUE)
		ON CONFLICT (email) DO UPDATE SET is_staff = TRUE, is_superuser = TRUE
		RETURNING id
	`, email, username, hash, time.Now().UTC()).Scan(&id)
	if err != nil {
		log.Fatalf("failed to seed superuser: %v", err)
	}
	fmt.Printf("seeded superuser: id=%s email=%s username=%s\n", id, email, username)
}
