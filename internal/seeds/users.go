package seeds

import (
	"log"
	"time"

	"github.com/alexuswingz/Clutched/internal/database"
	"github.com/alexuswingz/Clutched/internal/models"
)

// SeedDevelopers ensures the pinned developer profiles exist. These accounts
// sit at the top of the discovery deck and render with the admin avatar; the
// dev_ ID prefix marks them even if the role column is ever reset.
func SeedDevelopers() error {
	developers := []models.User{
		{
			ID:            "dev_alexus",
			Username:      "alexus",
			Age:           24,
			Gender:        "male",
			Bio:           "Built Clutched. Say hi!",
			FavoriteAgent: "Jett",
			Rank:          "Immortal",
			Avatar:        models.AdminAvatar,
			Role:          models.RoleDeveloper,
		},
		{
			ID:            "dev_clutched",
			Username:      "clutched",
			Age:           21,
			Gender:        "other",
			Bio:           "Official Clutched account. Announcements and updates.",
			FavoriteAgent: "Sage",
			Rank:          "Radiant",
			Avatar:        models.AdminAvatar,
			Role:          models.RoleDeveloper,
		},
	}

	for _, dev := range developers {
		var existing models.User
		err := database.DB.Where("id = ?", dev.ID).First(&existing).Error
		if err == nil {
			log.Printf("Developer profile found: %s", existing.Username)
			continue
		}

		dev.CreatedAt = time.Now()
		dev.UpdatedAt = time.Now()
		dev.LastActiveAt = time.Now()

		if err := database.DB.Create(&dev).Error; err != nil {
			return err
		}
		log.Printf("Seeded developer profile: %s", dev.Username)
	}

	return nil
}
