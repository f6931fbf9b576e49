package migrations

import (
	"fmt"
	"time"

	"github.com/alexuswingz/Clutched/pkg/logger"
	"gorm.io/gorm"
)

// Migration represents a database migration
type Migration struct {
	ID        string // Unique identifier (e.g., "001_add_message_indexes")
	Name      string // Human-readable name
	Up        func(db *gorm.DB) error
	Down      func(db *gorm.DB) error
	DependsOn []string // IDs of migrations this depends on
}

// MigrationRecord tracks which migrations have been applied
type MigrationRecord struct {
	ID        string    `gorm:"primaryKey;type:text"`
	Name      string    `gorm:"type:text"`
	AppliedAt time.Time `gorm:"autoUpdateTime:nano"`
}

func (MigrationRecord) TableName() string {
	return "schema_migrations"
}

// Migrator handles database migrations
type Migrator struct {
	db         *gorm.DB
	migrations []Migration
}

func NewMigrator(db *gorm.DB) *Migrator {
	return &Migrator{
		db:         db,
		migrations: GetMigrations(),
	}
}

// Run executes all pending migrations
func (m *Migrator) Run() error {
	if err := m.db.AutoMigrate(&MigrationRecord{}); err != nil {
		return fmt.Errorf("failed to create migrations table: %w", err)
	}

	var applied []MigrationRecord
	if err := m.db.Find(&applied).Error; err != nil {
		return fmt.Errorf("failed to fetch applied migrations: %w", err)
	}

	appliedMap := make(map[string]bool)
	for _, r := range applied {
		appliedMap[r.ID] = true
	}

	for _, migration := range m.migrations {
		if appliedMap[migration.ID] {
			continue
		}

		logger.Info().Str("migration", migration.ID).Str("name", migration.Name).Msg("Running migration")

		for _, dep := range migration.DependsOn {
			if !appliedMap[dep] {
				return fmt.Errorf("migration %s depends on %s which is not applied", migration.ID, dep)
			}
		}

		if err := m.db.Transaction(func(tx *gorm.DB) error {
			if err := migration.Up(tx); err != nil {
				return err
			}
			return tx.Create(&MigrationRecord{
				ID:   migration.ID,
				Name: migration.Name,
			}).Error
		}); err != nil {
			logger.Error().Err(err).Str("migration", migration.ID).Msg("Migration failed")
			return fmt.Errorf("migration %s failed: %w", migration.ID, err)
		}

		appliedMap[migration.ID] = true
		logger.Info().Str("migration", migration.ID).Msg("Migration completed")
	}

	return nil
}

// GetMigrations returns all registered migrations in order
func GetMigrations() []Migration {
	return []Migration{
		Migration001AddMessageIndexes(),
	}
}
