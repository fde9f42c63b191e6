package service

import (
	"ecolearn_backend/internal/model"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func achievementNames(achievements []model.Achievement) []string {
	names := make([]string, len(achievements))
	for i, a := range achievements {
		names[i] = a.Name
	}
	return names
}

func TestEvaluatePointThresholds(t *testing.T) {
	env := newTestEnv(t)

	t.Run("FirstStepsAt100", func(t *testing.T) {
		user := env.createUser(t, "novice", 105)

		earned, err := env.achievement.Evaluate(env.db, user)
		require.NoError(t, err)
		assert.Equal(t, []string{"First Steps"}, achievementNames(earned))
	})

	t.Run("ReEvaluateGrantsNothing", func(t *testing.T) {
		user := env.createUser(t, "repeat", 105)

		_, err := env.achievement.Evaluate(env.db, user)
		require.NoError(t, err)

		earned, err := env.achievement.Evaluate(env.db, user)
		require.NoError(t, err)
		assert.Empty(t, earned)
	})

	t.Run("MultipleThresholdsAtOnce", func(t *testing.T) {
		user := env.createUser(t, "veteran", 1200)

		earned, err := env.achievement.Evaluate(env.db, user)
		require.NoError(t, err)
		assert.ElementsMatch(t,
			[]string{"First Steps", "Knowledge Seeker", "Eco Warrior"},
			achievementNames(earned),
		)
	})
}

func TestEvaluateGreenChampion(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "finisher", 0)

	for i := 0; i < 5; i++ {
		course, _ := env.createCourse(t, "Course", 0)
		require.NoError(t, env.db.Create(&model.Enrollment{
			UserID:      user.ID,
			CourseID:    course.ID,
			EnrolledAt:  time.Now(),
			Completed:   true,
			CompletedAt: time.Now(),
		}).Error)
	}

	earned, err := env.achievement.Evaluate(env.db, user)
	require.NoError(t, err)
	assert.Equal(t, []string{"Green Champion"}, achievementNames(earned))
}

func TestGetUserAchievements(t *testing.T) {
	env := newTestEnv(t)
	user := env.createUser(t, "collector", 600)

	_, err := env.achievement.Evaluate(env.db, user)
	require.NoError(t, err)

	summary, err := env.achievement.GetUserAchievements(user.ID)
	require.NoError(t, err)

	assert.Equal(t, 600, summary.TotalPoints)
	assert.Len(t, summary.Achievements, 5)

	earned := make(map[string]bool)
	for _, a := range summary.Achievements {
		earned[a.Name] = a.Earned
	}
	assert.True(t, earned["First Steps"])
	assert.True(t, earned["Knowledge Seeker"])
	assert.False(t, earned["Eco Warrior"])

	require.Len(t, summary.Badges, 5)
	for _, b := range summary.Badges {
		switch b.Badge.Name {
		case "Beginner", "Learner", "Explorer":
			assert.True(t, b.Earned, b.Badge.Name)
			assert.InDelta(t, 100, b.Progress, 0.001)
		case "Expert":
			assert.False(t, b.Earned)
			assert.InDelta(t, 40, b.Progress, 0.001)
		case "Master":
			assert.False(t, b.Earned)
			assert.InDelta(t, 20, b.Progress, 0.001)
		}
	}
}
