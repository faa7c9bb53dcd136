package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"golang.org/x/term"

	"github.com/ArleDjinn/AjedrezRecreativo/internal/config"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/database"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/logger"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/repository"
	"github.com/ArleDjinn/AjedrezRecreativo/internal/service"
)

// createadmin registers a back-office account from the terminal. The
// password is read without echo and confirmed twice.
func main() {
	cfg := config.Load()
	logger.Init(cfg.LogLevel, "text")

	db, err := database.Connect(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database", "error", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		logger.Fatal("Failed to run migrations", "error", err)
	}

	reader := bufio.NewReader(os.Stdin)
	fmt.Print("Email: ")
	email, err := reader.ReadString('\n')
	if err != nil {
		logger.Fatal("Failed to read email", "error", err)
	}
	email = strings.TrimSpace(email)

	fmt.Print("Password: ")
	password, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		logger.Fatal("Failed to read password", "error", err)
	}

	fmt.Print("Confirm password: ")
	confirm, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		logger.Fatal("Failed to read password", "error", err)
	}

	if string(password) != string(confirm) {
		logger.Fatal("Passwords do not match")
	}

	repos := repository.NewRepositories(db)
	auth := service.NewAuthService(repos.Admins, cfg.JWTSecret, cfg.SessionTTL)

	admin, err := auth.CreateAdmin(context.Background(), email, string(password))
	if err != nil {
		logger.Fatal("Failed to create admin", "error", err)
	}

	fmt.Printf("Admin %s created (id %d)\n", admin.Email, admin.ID)
}
