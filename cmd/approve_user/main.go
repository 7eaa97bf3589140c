package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/aashavskiy/tennisbookingbot/models"
)

// Approves (and optionally promotes) a Telegram user directly in the
// database, for when the chat approval flow isn't available.
func main() {
	admin := flag.Bool("admin", false, "also grant administrator rights")
	flag.Parse()
	if flag.NArg() < 1 {
		fmt.Println("usage: go run ./cmd/approve_user [--admin] <telegram-id>")
		os.Exit(2)
	}
	var telegramID int64
	if _, err := fmt.Sscanf(flag.Arg(0), "%d", &telegramID); err != nil {
		log.Fatalf("invalid telegram id %q", flag.Arg(0))
	}

	_ = godotenv.Load()
	dsn := os.Getenv("DB_DSN")
	if strings.TrimSpace(dsn) == "" {
		log.Fatal("DB_DSN not set in environment")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to open db: %v", err)
	}

	var user models.User
	if err := db.Where("telegram_id = ?", telegramID).First(&user).Error; err != nil {
		log.Fatalf("user %d not found: %v", telegramID, err)
	}
	updates := map[string]interface{}{"is_approved": true}
	if *admin {
		updates["is_admin"] = true
	}
	if err := db.Model(&user).Updates(updates).Error; err != nil {
		log.Fatalf("failed to update user: %v", err)
	}
	fmt.Printf("user %d (@%s) approved (admin=%v)\n", telegramID, user.Username, user.IsAdmin || *admin)
}
