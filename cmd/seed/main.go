package main

import (
	"context"
	"encoding/json"
	"flag"
	"log"
	"os"

	"gorm.io/gorm"

	"accountsvc/internal/auth"
	"accountsvc/internal/config"
	"accountsvc/internal/db"
	"accountsvc/internal/model"
	"accountsvc/internal/repository"
)

// SeedUserData represents one entry in the seed file.
type SeedUserData struct {
	Email       string `json:"email"`
	Firstname   string `json:"firstname"`
	Lastname    string `json:"lastname"`
	Phonenumber string `json:"phonenumber"`
	Password    string `json:"password"`
}

func main() {
	file := flag.String("file", "seed/users.json", "path to a JSON file with users to seed")
	flag.Parse()

	log.Println("Starting seed script...")

	cfg := config.Load()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	log.Println("Connected to database")

	if err := gormDB.AutoMigrate(&model.User{}); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	users, err := readSeedFile(*file)
	if err != nil {
		log.Fatalf("Failed to read seed file: %v", err)
	}
	log.Printf("Read %d users from %s", len(users), *file)

	userRepo := repository.NewUserRepository(gormDB)
	hasher := auth.NewPasswordHasher()
	ctx := context.Background()

	created, updated, skipped := 0, 0, 0
	for _, item := range users {
		if item.Email == "" || item.Password == "" {
			log.Printf("Skipping entry without email or password: %q", item.Email)
			skipped++
			continue
		}

		digest, err := hasher.Hash(item.Password)
		if err != nil {
			log.Fatalf("Failed to hash password for %s: %v", item.Email, err)
		}

		existing, err := userRepo.FindByEmail(ctx, item.Email)
		if err != nil && err != gorm.ErrRecordNotFound {
			log.Fatalf("Failed to look up %s: %v", item.Email, err)
		}

		if existing != nil {
			_, err = userRepo.Patch(ctx, existing.ID, map[string]interface{}{
				"firstname":     item.Firstname,
				"lastname":      item.Lastname,
				"phonenumber":   item.Phonenumber,
				"password_hash": digest,
			})
			if err != nil {
				log.Fatalf("Failed to update %s: %v", item.Email, err)
			}
			updated++
			continue
		}

		user := &model.User{
			Email:        item.Email,
			Firstname:    item.Firstname,
			Lastname:     item.Lastname,
			Phonenumber:  item.Phonenumber,
			PasswordHash: digest,
		}
		if err := userRepo.Create(ctx, user); err != nil {
			log.Fatalf("Failed to create %s: %v", item.Email, err)
		}
		created++
	}

	log.Printf("Seed completed successfully!")
	log.Printf("  - New users created: %d", created)
	log.Printf("  - Existing users updated: %d", updated)
	if skipped > 0 {
		log.Printf("  - Skipped invalid entries: %d", skipped)
	}
}

func readSeedFile(path string) ([]SeedUserData, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var users []SeedUserData
	if err := json.Unmarshal(data, &users); err != nil {
		return nil, err
	}
	return users, nil
}
