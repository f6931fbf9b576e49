package sync

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestResolver_ResolvesUsername(t *testing.T) {
	r := NewResolver(&fakeUsers{profiles: map[string]*Profile{
		"u2": {ID: "u2", Username: "sage"},
	}})

	assert.Equal(t, "sage", r.DisplayName(context.Background(), "u2"))
}

func TestResolver_FallbackOnError(t *testing.T) {
	r := NewResolver(&fakeUsers{err: errors.New("network down")})

	assert.Equal(t, FallbackSenderName, r.DisplayName(context.Background(), "u2"))
}

func TestResolver_FallbackOnMissingRecord(t *testing.T) {
	r := NewResolver(&fakeUsers{profiles: map[string]*Profile{}})

	assert.Equal(t, FallbackSenderName, r.DisplayName(context.Background(), "ghost"))
}

func TestResolver_FallbackOnBlankName(t *testing.T) {
	r := NewResolver(&fakeUsers{profiles: map[string]*Profile{
		"u2": {ID: "u2", Username: ""},
	}})

	assert.Equal(t, FallbackSenderName, r.DisplayName(context.Background(), "u2"))
}
