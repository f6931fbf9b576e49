package migrations

import (
	"gorm.io/gorm"
)

// Migration001AddMessageIndexes adds composite indexes for the hot-path
// queries AutoMigrate's single-column indexes do not cover:
// 1. Channel history fetch (channel_id, created_at)
// 2. Unread counting (channel_id, is_read, sender_id)
// 3. Global feed paging (created_at DESC on global_messages)
//
// All statements are idempotent (IF NOT EXISTS) for safe re-runs.
func Migration001AddMessageIndexes() Migration {
	return Migration{
		ID:   "001_add_message_indexes",
		Name: "Add composite indexes for message hot paths",
		Up: func(db *gorm.DB) error {
			idx1 := `
				CREATE INDEX IF NOT EXISTS idx_messages_channel_created
				ON messages (channel_id, created_at)
			`
			if err := db.Exec(idx1).Error; err != nil {
				return err
			}

			idx2 := `
				CREATE INDEX IF NOT EXISTS idx_messages_unread
				ON messages (channel_id, is_read, sender_id)
			`
			if err := db.Exec(idx2).Error; err != nil {
				return err
			}

			idx3 := `
				CREATE INDEX IF NOT EXISTS idx_global_messages_created
				ON global_messages (created_at)
			`
			return db.Exec(idx3).Error
		},
		Down: func(db *gorm.DB) error {
			for _, idx := range []string{
				"idx_messages_channel_created",
				"idx_messages_unread",
				"idx_global_messages_created",
			} {
				if err := db.Exec("DROP INDEX IF EXISTS " + idx).Error; err != nil {
					return err
				}
			}
			return nil
		},
	}
}
