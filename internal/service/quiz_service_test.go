package service

import (
	"ecolearn_backend/internal/model"
	"ecolearn_backend/internal/util"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScoreQuiz(t *testing.T) {
	questions := []model.Question{
		{
			BaseModel: model.BaseModel{ID: 1},
			Answers: []model.Answer{
				{BaseModel: model.BaseModel{ID: 10}, IsCorrect: true},
				{BaseModel: model.BaseModel{ID: 11}},
			},
		},
		{
			BaseModel: model.BaseModel{ID: 2},
			Answers: []model.Answer{
				{BaseModel: model.BaseModel{ID: 20}},
				{BaseModel: model.BaseModel{ID: 21}, IsCorrect: true},
			},
		},
	}

	t.Run("AllCorrect", func(t *testing.T) {
		result := ScoreQuiz(questions, map[uint]uint{1: 10, 2: 21})
		assert.Equal(t, 2, result.Score)
		assert.Equal(t, 2, result.Total)
		assert.InDelta(t, 100, result.Percentage, 0.001)
	})

	t.Run("PartiallyCorrect", func(t *testing.T) {
		result := ScoreQuiz(questions, map[uint]uint{1: 10, 2: 20})
		assert.Equal(t, 1, result.Score)
		assert.InDelta(t, 50, result.Percentage, 0.001)
		assert.Equal(t, []uint{10}, result.CorrectAnswerIDs)
	})

	t.Run("MissingSelectionCountsWrong", func(t *testing.T) {
		result := ScoreQuiz(questions, map[uint]uint{1: 10})
		assert.Equal(t, 1, result.Score)
		assert.Equal(t, 2, result.Total)
	})

	t.Run("EmptyQuiz", func(t *testing.T) {
		result := ScoreQuiz(nil, map[uint]uint{1: 10})
		assert.Equal(t, 0, result.Score)
		assert.Equal(t, 0, result.Total)
		assert.Zero(t, result.Percentage)
	})

	t.Run("QuestionWithoutCorrectAnswer", func(t *testing.T) {
		broken := []model.Question{{
			BaseModel: model.BaseModel{ID: 3},
			Answers:   []model.Answer{{BaseModel: model.BaseModel{ID: 30}}},
		}}
		result := ScoreQuiz(broken, map[uint]uint{3: 30})
		assert.Equal(t, 0, result.Score)
		assert.Equal(t, 1, result.Total)
	})
}

func TestQuizPoints(t *testing.T) {
	assert.Equal(t, 50, QuizPoints(100, 50))
	assert.Equal(t, 40, QuizPoints(80, 50))
	assert.Equal(t, 0, QuizPoints(0, 50))
	// Fractional percentages truncate toward zero.
	assert.Equal(t, 16, QuizPoints(100.0/3, 50))
}

func TestSubmitQuiz(t *testing.T) {
	env := newTestEnv(t)

	user := env.createUser(t, "quiztaker", 0)
	course, _ := env.createCourse(t, "Recycling", 0)
	env.enroll(t, user.ID, course.ID)
	quiz, correct := env.createQuiz(t, course.ID, 5)

	t.Run("FirstSubmission", func(t *testing.T) {
		// Answer four of five correctly.
		answers := make(map[uint]uint, len(correct))
		skipped := false
		for questionID, answerID := range correct {
			if !skipped {
				skipped = true
				continue
			}
			answers[questionID] = answerID
		}

		result, err := env.quiz.SubmitQuiz(user.ID, quiz.ID, answers)
		require.NoError(t, err)
		assert.True(t, result.Success)
		assert.Equal(t, 4, result.Score)
		assert.Equal(t, 5, result.TotalQuestions)
		assert.InDelta(t, 80, result.Percentage, 0.001)
		assert.Equal(t, 40, result.PointsEarned)

		fresh, err := env.users.FindByID(user.ID)
		require.NoError(t, err)
		assert.Equal(t, 40, fresh.TotalPoints)
		assert.Equal(t, 1, fresh.Level)

		attempt, err := env.quizzes.FindAttempt(user.ID, quiz.ID)
		require.NoError(t, err)
		assert.Equal(t, 4, attempt.Score)
		assert.Equal(t, 40, attempt.PointsEarned)
	})

	t.Run("ResubmissionBlocked", func(t *testing.T) {
		result, err := env.quiz.SubmitQuiz(user.ID, quiz.ID, correct)
		require.NoError(t, err)
		assert.False(t, result.Success)
		assert.Equal(t, "Quiz already completed", result.Message)

		// No double award, even for a perfect retake.
		fresh, err := env.users.FindByID(user.ID)
		require.NoError(t, err)
		assert.Equal(t, 40, fresh.TotalPoints)

		count, err := env.quizzes.CountAttempts(user.ID)
		require.NoError(t, err)
		assert.EqualValues(t, 1, count)
	})

	t.Run("NotEnrolled", func(t *testing.T) {
		outsider := env.createUser(t, "outsider", 0)
		_, err := env.quiz.SubmitQuiz(outsider.ID, quiz.ID, correct)
		assert.ErrorIs(t, err, util.ErrNotEnrolled)
	})

	t.Run("UnknownQuiz", func(t *testing.T) {
		_, err := env.quiz.SubmitQuiz(user.ID, 9999, correct)
		assert.ErrorIs(t, err, util.ErrQuizNotFound)
	})
}

func TestGetQuizForTaking(t *testing.T) {
	env := newTestEnv(t)

	user := env.createUser(t, "viewer", 0)
	course, _ := env.createCourse(t, "Oceans", 0)
	env.enroll(t, user.ID, course.ID)
	quiz, correct := env.createQuiz(t, course.ID, 2)

	view, err := env.quiz.GetQuizForTaking(user.ID, course.ID, quiz.ID)
	require.NoError(t, err)
	assert.Len(t, view.Questions, 2)
	assert.False(t, view.Attempted)
	for _, q := range view.Questions {
		assert.Len(t, q.Answers, 3)
	}

	_, err = env.quiz.SubmitQuiz(user.ID, quiz.ID, correct)
	require.NoError(t, err)

	view, err = env.quiz.GetQuizForTaking(user.ID, course.ID, quiz.ID)
	require.NoError(t, err)
	assert.True(t, view.Attempted)

	t.Run("WrongCourse", func(t *testing.T) {
		other, _ := env.createCourse(t, "Forests", 0)
		env.enroll(t, user.ID, other.ID)
		_, err := env.quiz.GetQuizForTaking(user.ID, other.ID, quiz.ID)
		assert.ErrorIs(t, err, util.ErrQuizNotFound)
	})
}
