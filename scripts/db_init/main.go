// Command db_init prepares the configured store and optionally seeds an
// admin account, since the admin role cannot be self-assigned at signup.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	dbfs "github.com/PhamNghia11/career-web/db"
	"github.com/PhamNghia11/career-web/internal/config"
	"github.com/PhamNghia11/career-web/internal/db"
	"github.com/PhamNghia11/career-web/internal/models"
	"github.com/PhamNghia11/career-web/internal/repository/mongo"
	"github.com/PhamNghia11/career-web/internal/repository/sqlite"
	"github.com/PhamNghia11/career-web/pkg/repository"
)

func main() {
	configPath := flag.String("config", "", "Path to config YAML file")
	adminEmail := flag.String("admin-email", "", "seed an admin account with this email")
	adminPassword := flag.String("admin-password", "", "password for the seeded admin")
	adminName := flag.String("admin-name", "Quản trị viên", "display name for the seeded admin")
	flag.Parse()

	ctx := context.Background()
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	var accounts repository.AccountRepo
	switch cfg.Storage.Driver {
	case config.DriverMongo:
		repo, err := mongo.Connect(ctx, cfg.Storage.MongoURI, cfg.Storage.MongoDatabase, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Mongo connect error: %v\n", err)
			os.Exit(1)
		}
		defer repo.Close(ctx)
		if err := repo.EnsureIndexes(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "Index error: %v\n", err)
			os.Exit(1)
		}
		accounts = repo

	default:
		database, err := db.New(ctx, cfg.Storage.DatabasePath, nil)
		if err != nil {
			fmt.Fprintf(os.Stderr, "DB init error: %v\n", err)
			os.Exit(1)
		}
		defer database.Close()

		if err := db.Migrate(ctx, database, dbfs.Migrations); err != nil {
			fmt.Fprintf(os.Stderr, "Migration runner error: %v\n", err)
			os.Exit(1)
		}
		accounts = sqlite.New(database, nil)
	}

	if *adminEmail != "" {
		if err := seedAdmin(ctx, accounts, *adminName, *adminEmail, *adminPassword); err != nil {
			fmt.Fprintf(os.Stderr, "Seed error: %v\n", err)
			os.Exit(1)
		}
	}

	fmt.Println("Database initialized successfully.")
}

func seedAdmin(ctx context.Context, accounts repository.AccountRepo, name, email, password string) error {
	if len(password) < 6 {
		return errors.New("admin password must be at least 6 characters")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	now := time.Now().UTC()
	id, err := accounts.CreateAccount(ctx, &models.Account{
		Name:          name,
		Email:         models.NormalizeEmail(email),
		Role:          models.RoleAdmin,
		PasswordHash:  string(hash),
		EmailVerified: true,
		Created:       now,
		Updated:       now,
	})
	if errors.Is(err, models.ErrConflict) {
		fmt.Printf("Admin %s already exists, skipping.\n", email)
		return nil
	}
	if err != nil {
		return err
	}
	fmt.Printf("Seeded admin %s (%s).\n", email, id)
	return nil
}
