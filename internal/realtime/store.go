package realtime

import (
	"context"

	"github.com/alexuswingz/Clutched/internal/database"
	"github.com/alexuswingz/Clutched/internal/models"
	"github.com/alexuswingz/Clutched/internal/sync"
)

// UserStore adapts the users table to the sync pipeline's fetch/roster
// interfaces.
type UserStore struct{}

func (UserStore) FetchUser(ctx context.Context, id string) (*sync.Profile, error) {
	var u models.User
	if err := database.DB.WithContext(ctx).
		Select("id", "username", "avatar", "role").
		First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &sync.Profile{
		ID:       u.ID,
		Username: u.Username,
		Avatar:   u.ResolveAvatar(),
		Role:     string(u.Role),
	}, nil
}

// LoadRoster returns the full user listing for channel enumeration.
func (UserStore) LoadRoster(ctx context.Context) ([]sync.Profile, error) {
	var users []models.User
	if err := database.DB.WithContext(ctx).
		Select("id", "username", "avatar", "role").
		Find(&users).Error; err != nil {
		return nil, err
	}

	roster := make([]sync.Profile, 0, len(users))
	for _, u := range users {
		roster = append(roster, sync.Profile{
			ID:       u.ID,
			Username: u.Username,
			Avatar:   u.ResolveAvatar(),
			Role:     string(u.Role),
		})
	}
	return roster, nil
}
