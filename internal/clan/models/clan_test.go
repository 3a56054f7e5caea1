package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clanhall/pkg/clanerrors"
)

func TestNewClan(t *testing.T) {
	now := time.Now()

	t.Run("valid", func(t *testing.T) {
		c, err := NewClan(uuid.New(), "WOLF", "Night Wolves", "alice", 1000, now)
		require.NoError(t, err)
		assert.Equal(t, "WOLF", c.Tag)
		assert.Equal(t, 1000, c.RankingPoints)
		assert.Equal(t, 0, c.PenaltyPoints)
		assert.Equal(t, now, c.CreatedAt)
	})

	t.Run("trims surrounding whitespace", func(t *testing.T) {
		c, err := NewClan(uuid.New(), "  WOLF ", " Night Wolves ", "alice", 0, now)
		require.NoError(t, err)
		assert.Equal(t, "WOLF", c.Tag)
		assert.Equal(t, "Night Wolves", c.Name)
	})

	invalid := []struct {
		name string
		tag  string
		cn   string
	}{
		{"tag too short", "W", "Night Wolves"},
		{"tag too long", "WOLFPACK", "Night Wolves"},
		{"tag not alphanumeric", "W-LF", "Night Wolves"},
		{"name too short", "WOLF", "N"},
		{"name too long", "WOLF", "this clan name is way past the thirty-two character limit"},
	}
	for _, tc := range invalid {
		t.Run(tc.name, func(t *testing.T) {
			_, err := NewClan(uuid.New(), tc.tag, tc.cn, "alice", 0, now)
			assert.True(t, clanerrors.HasCode(err, clanerrors.CodeValidation))
		})
	}
}

func TestNormalizeTag(t *testing.T) {
	assert.Equal(t, "wolf", NormalizeTag("  WoLf "))
	assert.Equal(t, NormalizeTag("WOLF"), NormalizeTag("wolf"))
}
