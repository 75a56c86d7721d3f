// seed inserts two test users (password: password123) and a few notes
// into the local dev database.
// Run: go run ./cmd/seed
package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/ErlanBelekov/notes-api/internal/domain"
	"github.com/ErlanBelekov/notes-api/internal/infrastructure/postgres"
	"golang.org/x/crypto/bcrypt"
)

const seedPassword = "password123"

var seedUsers = []struct {
	username string
	email    string
	age      int
}{
	{"alice", "alice@test.local", 30},
	{"bob", "bob@test.local", 25},
}

var seedNotes = map[string][]struct {
	title   string
	content string
}{
	"alice@test.local": {
		{"Groceries", "milk, eggs, coffee"},
		{"Ideas", "try the new editor keybindings"},
		{"Untitled", ""}, // exercises the default content
	},
	"bob@test.local": {
		{"Standup", "demo the cookie flow on friday"},
	},
}

func main() {
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	ctx := context.Background()

	pool, err := postgres.NewPool(ctx, databaseURL)
	if err != nil {
		log.Fatalf("db: %v", err)
	}
	defer pool.Close()

	userRepo := postgres.NewUserRepository(pool)
	noteRepo := postgres.NewNoteRepository(pool)

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), bcrypt.DefaultCost)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	for _, su := range seedUsers {
		user, err := userRepo.Create(ctx, &domain.User{
			Username:     su.username,
			Email:        su.email,
			PasswordHash: string(hash),
			Age:          su.age,
		})
		if errors.Is(err, domain.ErrUserExists) {
			log.Printf("user %s already seeded, skipping", su.email)
			continue
		}
		if err != nil {
			log.Fatalf("create user %s: %v", su.email, err)
		}

		for _, sn := range seedNotes[su.email] {
			content := sn.content
			if content == "" {
				content = domain.DefaultNoteContent
			}
			if _, err := noteRepo.Create(ctx, &domain.Note{
				Title:     sn.title,
				Content:   content,
				UserID:    user.ID,
				UserEmail: user.Email,
			}); err != nil {
				log.Fatalf("create note %q: %v", sn.title, err)
			}
		}

		fmt.Printf("seeded %s (%s)\n", su.username, su.email)
	}
}
