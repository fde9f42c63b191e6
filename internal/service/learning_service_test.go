package service

import (
	"ecolearn_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetLesson(t *testing.T) {
	env := newTestEnv(t)

	user := env.createUser(t, "reader", 0)
	course, lessons := env.createCourse(t, "Biodiversity", 3)
	env.enroll(t, user.ID, course.ID)

	view, err := env.learning.GetLesson(user.ID, course.ID, lessons[1].ID)
	require.NoError(t, err)

	assert.Equal(t, lessons[1].ID, view.Lesson.ID)
	assert.Equal(t, 2, view.LessonNumber)
	assert.Equal(t, 3, view.TotalLessons)
	assert.Equal(t, lessons[0].ID, view.PrevLessonID)
	assert.Equal(t, lessons[2].ID, view.NextLessonID)
	assert.False(t, view.Progress.Completed)
	assert.False(t, view.Progress.StartedAt.IsZero())

	t.Run("ViewingIsIdempotent", func(t *testing.T) {
		again, err := env.learning.GetLesson(user.ID, course.ID, lessons[1].ID)
		require.NoError(t, err)
		assert.Equal(t, view.Progress.ID, again.Progress.ID)
	})

	t.Run("NotEnrolled", func(t *testing.T) {
		outsider := env.createUser(t, "lurker", 0)
		_, err := env.learning.GetLesson(outsider.ID, course.ID, lessons[0].ID)
		assert.ErrorIs(t, err, util.ErrNotEnrolled)
	})

	t.Run("LessonOutsideCourse", func(t *testing.T) {
		_, otherLessons := env.createCourse(t, "Unrelated", 1)
		_, err := env.learning.GetLesson(user.ID, course.ID, otherLessons[0].ID)
		assert.ErrorIs(t, err, util.ErrLessonNotFound)
	})
}

func TestCompleteLesson(t *testing.T) {
	env := newTestEnv(t)

	user := env.createUser(t, "completer", 0)
	course, lessons := env.createCourse(t, "Energy", 2)
	env.enroll(t, user.ID, course.ID)

	t.Run("FirstLesson", func(t *testing.T) {
		result, err := env.learning.CompleteLesson(user.ID, lessons[0].ID, 120)
		require.NoError(t, err)

		assert.True(t, result.Success)
		assert.True(t, result.Completed)
		assert.Equal(t, 10, result.PointsEarned)
		assert.InDelta(t, 50, result.ProgressPercentage, 0.001)

		fresh, err := env.users.FindByID(user.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, fresh.TotalPoints)

		progress, err := env.progress.Find(user.ID, lessons[0].ID)
		require.NoError(t, err)
		assert.True(t, progress.Completed)
		assert.Equal(t, 120, progress.TimeSpent)
	})

	t.Run("RecompletionIsNoOp", func(t *testing.T) {
		result, err := env.learning.CompleteLesson(user.ID, lessons[0].ID, 60)
		require.NoError(t, err)

		assert.False(t, result.Success)
		assert.Equal(t, "Lesson already completed", result.Message)
		assert.Zero(t, result.PointsEarned)

		fresh, err := env.users.FindByID(user.ID)
		require.NoError(t, err)
		assert.Equal(t, 10, fresh.TotalPoints)
	})

	t.Run("LastLessonCompletesEnrollment", func(t *testing.T) {
		result, err := env.learning.CompleteLesson(user.ID, lessons[1].ID, 0)
		require.NoError(t, err)

		assert.True(t, result.Success)
		assert.InDelta(t, 100, result.ProgressPercentage, 0.001)

		enrollment, err := env.enrollments.Find(user.ID, course.ID)
		require.NoError(t, err)
		assert.True(t, enrollment.Completed)
		assert.False(t, enrollment.CompletedAt.IsZero())
	})

	t.Run("UnknownLesson", func(t *testing.T) {
		_, err := env.learning.CompleteLesson(user.ID, 9999, 0)
		assert.ErrorIs(t, err, util.ErrLessonNotFound)
	})
}

func TestRecordTime(t *testing.T) {
	env := newTestEnv(t)

	user := env.createUser(t, "skimmer", 0)
	course, lessons := env.createCourse(t, "Slow Reading", 1)
	env.enroll(t, user.ID, course.ID)

	result, err := env.learning.RecordTime(user.ID, lessons[0].ID, 45)
	require.NoError(t, err)

	assert.True(t, result.Success)
	assert.False(t, result.Completed)
	assert.Zero(t, result.PointsEarned)

	progress, err := env.progress.Find(user.ID, lessons[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 45, progress.TimeSpent)
	assert.False(t, progress.Completed)

	// Time accumulates across calls and never awards points.
	_, err = env.learning.RecordTime(user.ID, lessons[0].ID, 15)
	require.NoError(t, err)

	progress, err = env.progress.Find(user.ID, lessons[0].ID)
	require.NoError(t, err)
	assert.Equal(t, 60, progress.TimeSpent)

	fresh, err := env.users.FindByID(user.ID)
	require.NoError(t, err)
	assert.Zero(t, fresh.TotalPoints)
}

func TestCompleteLessonUnlocksAchievement(t *testing.T) {
	env := newTestEnv(t)

	user := env.createUser(t, "nearlevel", 95)
	course, lessons := env.createCourse(t, "Threshold", 1)
	env.enroll(t, user.ID, course.ID)

	result, err := env.learning.CompleteLesson(user.ID, lessons[0].ID, 0)
	require.NoError(t, err)

	require.True(t, result.Success)
	require.Len(t, result.NewAchievements, 1)
	assert.Equal(t, "First Steps", result.NewAchievements[0].Name)

	fresh, err := env.users.FindByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, 105, fresh.TotalPoints)
	assert.Equal(t, 2, fresh.Level)
}
