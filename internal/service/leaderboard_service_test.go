package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLeaderboard(t *testing.T) {
	env := newTestEnv(t)

	env.createUser(t, "gold", 300)
	env.createUser(t, "silver", 200)
	env.createUser(t, "bronze", 200)
	env.createUser(t, "fourth", 50)

	entries, err := env.leaderboard.GetLeaderboard(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 4)

	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "gold", entries[0].Name)

	// Tied totals share a rank.
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, 2, entries[2].Rank)
	assert.Equal(t, 4, entries[3].Rank)

	t.Run("LimitApplies", func(t *testing.T) {
		top, err := env.leaderboard.GetLeaderboard(context.Background(), 2)
		require.NoError(t, err)
		assert.Len(t, top, 2)
	})
}

func TestGetUserRank(t *testing.T) {
	env := newTestEnv(t)

	top := env.createUser(t, "top", 500)
	tiedA := env.createUser(t, "tiedA", 250)
	tiedB := env.createUser(t, "tiedB", 250)
	last := env.createUser(t, "last", 0)

	for _, tc := range []struct {
		userID uint
		rank   int
	}{
		{top.ID, 1},
		{tiedA.ID, 2},
		{tiedB.ID, 2},
		{last.ID, 4},
	} {
		rank, err := env.leaderboard.GetUserRank(tc.userID)
		require.NoError(t, err)
		assert.Equal(t, tc.rank, rank)
	}
}

func TestTiedTopRank(t *testing.T) {
	env := newTestEnv(t)

	first := env.createUser(t, "coFirstA", 700)
	second := env.createUser(t, "coFirstB", 700)

	for _, id := range []uint{first.ID, second.ID} {
		rank, err := env.leaderboard.GetUserRank(id)
		require.NoError(t, err)
		assert.Equal(t, 1, rank)
	}

	entries, err := env.leaderboard.GetLeaderboard(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, 1, entries[1].Rank)
}

func TestGetUserStats(t *testing.T) {
	env := newTestEnv(t)

	user := env.createUser(t, "statuser", 600)
	env.createUser(t, "leader", 900)

	_, err := env.achievement.Evaluate(env.db, user)
	require.NoError(t, err)

	stats, err := env.leaderboard.GetUserStats(user.ID)
	require.NoError(t, err)

	assert.Equal(t, 600, stats.TotalPoints)
	assert.Equal(t, 3, stats.Level)
	assert.Equal(t, 2, stats.Rank)
	assert.Equal(t, 2, stats.AchievementsCount)
	assert.InDelta(t, 10, stats.LevelProgress, 0.001)
}
