package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/alexuswingz/Clutched/internal/config"
	"github.com/alexuswingz/Clutched/internal/database"
	"github.com/alexuswingz/Clutched/internal/models"
	"github.com/alexuswingz/Clutched/internal/seeds"
)

// Wipes user-generated data but keeps developer accounts, so the pinned
// profiles survive a reset between playtests.
func main() {
	config.LoadConfig()
	database.Connect()

	fmt.Println("WARNING: This will PERMANENTLY DELETE all messages, swipes, matches")
	fmt.Println("and non-developer profiles.")
	fmt.Print("Type 'reset' to continue: ")

	reader := bufio.NewReader(os.Stdin)
	answer, _ := reader.ReadString('\n')
	if strings.TrimSpace(answer) != "reset" {
		fmt.Println("Aborted.")
		return
	}

	tables := []struct {
		name  string
		model interface{}
	}{
		{"messages", &models.Message{}},
		{"global messages", &models.GlobalMessage{}},
		{"reactions", &models.Reaction{}},
		{"swipes", &models.Swipe{}},
		{"matches", &models.Match{}},
	}

	for _, t := range tables {
		result := database.DB.Unscoped().Where("1 = 1").Delete(t.model)
		if result.Error != nil {
			log.Fatalf("Failed to clear %s: %v", t.name, result.Error)
		}
		fmt.Printf("Cleared %s (%d rows)\n", t.name, result.RowsAffected)
	}

	// Keep developer profiles: role, admin avatar or dev_ prefix all count
	result := database.DB.Unscoped().
		Where("role != ? AND avatar != ? AND id NOT LIKE ? ESCAPE '\\'", models.RoleDeveloper, models.AdminAvatar, "dev\\_%").
		Delete(&models.User{})
	if result.Error != nil {
		log.Fatalf("Failed to clear users: %v", result.Error)
	}
	fmt.Printf("Cleared users (%d rows, developers kept)\n", result.RowsAffected)

	if err := seeds.SeedDevelopers(); err != nil {
		log.Fatalf("Failed to seed developer profiles: %v", err)
	}

	fmt.Println("Reset complete.")
}
