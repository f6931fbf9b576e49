package models

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

type Role string

const (
	RoleUser      Role = "user"
	RoleModerator Role = "moderator"
	RoleTester    Role = "tester"
	RoleDeveloper Role = "developer"
)

const (
	DefaultAvatar = "/images/default.jpg"
	AdminAvatar   = "/images/admin.jpg"
)

// User is a Clutched profile. There is no account system: the client creates
// a profile, caches it locally and identifies itself by the profile ID.
type User struct {
	ID        string         `gorm:"primaryKey;type:text" json:"id"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Username string `gorm:"uniqueIndex" json:"username"`
	Age      int    `json:"age"`
	Gender   string `json:"gender"`
	Bio      string `json:"bio"`

	// Valorant flavor
	FavoriteAgent string `json:"favoriteAgent"`
	Rank          string `json:"rank"`

	// Avatar: either an uploaded storage URL or a bundled agent image path.
	// AvatarData holds a base64 data URL when storage upload failed.
	Avatar     string `json:"avatar"`
	AvatarData string `gorm:"type:text" json:"avatarData,omitempty"`

	Role Role `gorm:"type:text;default:'user'" json:"role"`

	// Web push fallback target, empty when the client never registered one
	PushToken string `json:"-"`

	LastActiveAt time.Time `json:"lastActiveAt"`
}

// IsDeveloper reports whether this is the pinned developer account.
// The legacy data has developer profiles identified three different ways,
// all of which must keep working.
func (u *User) IsDeveloper() bool {
	return u.Role == RoleDeveloper ||
		u.Avatar == AdminAvatar ||
		strings.HasPrefix(u.ID, "dev_")
}

// ResolveAvatar picks the image the client should render, in priority order:
// developer override, base64 fallback data, uploaded URL, agent image.
func (u *User) ResolveAvatar() string {
	if u.IsDeveloper() {
		return AdminAvatar
	}
	if u.AvatarData != "" {
		return u.AvatarData
	}
	if u.Avatar != "" {
		return u.Avatar
	}
	if u.FavoriteAgent != "" {
		return "/images/" + strings.ToLower(u.FavoriteAgent) + ".jpg"
	}
	return DefaultAvatar
}
