package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateLevel(t *testing.T) {
	cases := []struct {
		points int
		level  int
	}{
		{0, 1},
		{99, 1},
		{100, 2},
		{499, 2},
		{500, 3},
		{1499, 3},
		{1500, 4},
		{2999, 4},
		{3000, 5},
		{100000, 5},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.level, CalculateLevel(tc.points), "points=%d", tc.points)
	}
}

func TestLevelProgress(t *testing.T) {
	assert.InDelta(t, 0, LevelProgress(0), 0.001)
	assert.InDelta(t, 50, LevelProgress(50), 0.001)
	assert.InDelta(t, 0, LevelProgress(100), 0.001)
	assert.InDelta(t, 25, LevelProgress(200), 0.001)
	// Top level always reads full.
	assert.InDelta(t, 100, LevelProgress(3000), 0.001)
	assert.InDelta(t, 100, LevelProgress(99999), 0.001)
}

func TestNextStreak(t *testing.T) {
	now := time.Date(2025, 6, 10, 15, 0, 0, 0, time.UTC)

	t.Run("FirstActivity", func(t *testing.T) {
		assert.Equal(t, 1, nextStreak(0, time.Time{}, now))
	})

	t.Run("SameDayKeeps", func(t *testing.T) {
		assert.Equal(t, 3, nextStreak(3, now.Add(-2*time.Hour), now))
	})

	t.Run("NextDayExtends", func(t *testing.T) {
		assert.Equal(t, 4, nextStreak(3, now.Add(-24*time.Hour), now))
	})

	t.Run("GapResets", func(t *testing.T) {
		assert.Equal(t, 1, nextStreak(7, now.Add(-72*time.Hour), now))
	})
}

func TestAwardPoints(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "climber", 95)

	require.NoError(t, env.progression.AwardPoints(env.db, user, 10))

	fresh, err := env.users.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 105, fresh.TotalPoints)
	assert.Equal(t, 2, fresh.Level)
	assert.Equal(t, 1, fresh.StreakDays)
	assert.False(t, fresh.LastActivity.IsZero())
}

func TestCourseProgress(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "progressor", 0)

	t.Run("CourseWithoutLessons", func(t *testing.T) {
		course, _ := env.createCourse(t, "Empty", 0)
		pct, err := env.progression.CourseProgress(user.ID, course.ID)
		require.NoError(t, err)
		assert.Zero(t, pct)
	})

	t.Run("HalfCompleted", func(t *testing.T) {
		course, lessons := env.createCourse(t, "Halfway", 2)
		env.enroll(t, user.ID, course.ID)

		result, err := env.learning.CompleteLesson(user.ID, lessons[0].ID, 60)
		require.NoError(t, err)
		require.True(t, result.Success)

		pct, err := env.progression.CourseProgress(user.ID, course.ID)
		require.NoError(t, err)
		assert.InDelta(t, 50, pct, 0.001)
	})
}
