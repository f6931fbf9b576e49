package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Swipe records one discovery-feed decision. A pair of mutual likes
// produces a Match.
type Swipe struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	SwiperID  string    `gorm:"uniqueIndex:idx_swipe_pair;type:text;not null" json:"swiperId"`
	TargetID  string    `gorm:"uniqueIndex:idx_swipe_pair;type:text;not null" json:"targetId"`
	Liked     bool      `json:"liked"`
	CreatedAt time.Time `json:"createdAt"`
}

func (s *Swipe) BeforeCreate(tx *gorm.DB) (err error) {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	return
}

const (
	MatchStatusActive = "active"
)

// Match links two users who liked each other. The ID is the sorted pair of
// user IDs joined by an underscore so a pair can only ever match once.
type Match struct {
	ID        string    `gorm:"primaryKey;type:text" json:"id"`
	User1ID   string    `gorm:"index;type:text;not null" json:"user1Id"`
	User2ID   string    `gorm:"index;type:text;not null" json:"user2Id"`
	Status    string    `gorm:"type:text;default:'active'" json:"status"`
	CreatedAt time.Time `json:"createdAt"`
}

// MatchID derives the deterministic match row ID for a pair of users.
func MatchID(a, b string) string {
	if b < a {
		a, b = b, a
	}
	return a + "_" + b
}
