package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GlobalMessage is a message in the community chat room. Sender display
// fields are denormalized so the feed renders without N profile lookups.
type GlobalMessage struct {
	ID       string `gorm:"primaryKey;type:text" json:"id"`
	SenderID string `gorm:"index;type:text;not null" json:"senderId"`

	SenderName   string `json:"senderName"`
	SenderAvatar string `json:"senderAvatar"`
	SenderAge    int    `json:"senderAge"`
	SenderGender string `json:"senderGender"`

	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `gorm:"index" json:"createdAt"`

	Reactions []Reaction `gorm:"foreignKey:MessageID" json:"-"`
}

func (m *GlobalMessage) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}

// Reaction is one user's emoji reaction on a global message. A user has at
// most one reaction per message; reacting again with the same emoji removes
// it, with a different emoji replaces it.
type Reaction struct {
	MessageID string    `gorm:"primaryKey;type:text" json:"messageId"`
	UserID    string    `gorm:"primaryKey;type:text" json:"userId"`
	Emoji     string    `gorm:"type:text;not null" json:"emoji"`
	CreatedAt time.Time `json:"createdAt"`
}

// AllowedReactionEmojis is the curated reaction set.
var AllowedReactionEmojis = []string{"heart", "laugh", "sad", "angry", "like", "love"}

func IsValidReactionEmoji(emoji string) bool {
	for _, e := range AllowedReactionEmojis {
		if e == emoji {
			return true
		}
	}
	return false
}
