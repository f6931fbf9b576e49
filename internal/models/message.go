package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Message is a direct message inside a two-party channel. Channels are
// virtual: the channel ID is derived from the two participant IDs and a
// channel exists as soon as its first message does. Content is immutable
// once sent; the read flag is the only mutation.
type Message struct {
	ID        string `gorm:"primaryKey;type:text" json:"id"`
	ChannelID string `gorm:"index;type:text;not null" json:"channelId"`

	SenderID string `gorm:"index;type:text;not null" json:"senderId"`
	Content  string `gorm:"type:text;not null" json:"content"`

	IsRead bool       `gorm:"default:false" json:"read"`
	ReadAt *time.Time `json:"readAt"`

	CreatedAt time.Time `gorm:"index" json:"createdAt"`

	Sender User `gorm:"foreignKey:SenderID" json:"sender,omitempty"`
}

func (m *Message) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == "" {
		m.ID = uuid.New().String()
	}
	return
}
