package service

import (
	"ecolearn_backend/internal/repository"
	"ecolearn_backend/internal/util"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEnroll(t *testing.T) {
	env := newTestEnv(t)

	user := env.createUser(t, "enrollee", 0)
	course, _ := env.createCourse(t, "Climate Basics", 2)

	enrollment, err := env.course.Enroll(user.ID, course.ID)
	require.NoError(t, err)
	assert.Equal(t, user.ID, enrollment.UserID)
	assert.False(t, enrollment.Completed)

	t.Run("ReEnrollRejected", func(t *testing.T) {
		_, err := env.course.Enroll(user.ID, course.ID)
		assert.ErrorIs(t, err, util.ErrAlreadyEnrolled)
	})

	t.Run("UnknownCourse", func(t *testing.T) {
		_, err := env.course.Enroll(user.ID, 9999)
		assert.ErrorIs(t, err, util.ErrCourseNotFound)
	})
}

func TestListCourses(t *testing.T) {
	env := newTestEnv(t)

	user := env.createUser(t, "browser", 0)
	enrolled, _ := env.createCourse(t, "Solar Power", 1)
	env.createCourse(t, "Wind Power", 1)
	env.enroll(t, user.ID, enrolled.ID)

	summaries, total, err := env.course.ListCourses(user.ID, repository.CourseFilter{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)

	flags := make(map[string]bool)
	for _, s := range summaries {
		flags[s.Title] = s.Enrolled
	}
	assert.True(t, flags["Solar Power"])
	assert.False(t, flags["Wind Power"])

	t.Run("SearchFilter", func(t *testing.T) {
		_, total, err := env.course.ListCourses(user.ID, repository.CourseFilter{
			Search: "Solar",
			Page:   1,
			Limit:  10,
		})
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
	})
}

func TestGetCourseDetail(t *testing.T) {
	env := newTestEnv(t)

	user := env.createUser(t, "detailviewer", 0)
	course, lessons := env.createCourse(t, "Water Cycle", 2)
	env.createQuiz(t, course.ID, 1)
	env.enroll(t, user.ID, course.ID)

	_, err := env.learning.CompleteLesson(user.ID, lessons[0].ID, 0)
	require.NoError(t, err)

	detail, err := env.course.GetCourseDetail(user.ID, course.ID)
	require.NoError(t, err)

	require.NotNil(t, detail.Enrollment)
	require.Len(t, detail.Lessons, 2)
	assert.True(t, detail.Lessons[0].Completed)
	assert.False(t, detail.Lessons[1].Completed)
	assert.Len(t, detail.Quizzes, 1)
}

func TestSearch(t *testing.T) {
	env := newTestEnv(t)

	course, _ := env.createCourse(t, "Composting at Home", 1)

	t.Run("TermTooShort", func(t *testing.T) {
		results, err := env.course.Search("c")
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("MatchesCoursesAndLessons", func(t *testing.T) {
		results, err := env.course.Search("Composting")
		require.NoError(t, err)
		require.NotEmpty(t, results)
		assert.Equal(t, "course", results[0].Type)
		assert.Equal(t, course.ID, results[0].ID)
		assert.Contains(t, results[0].URL, "/courses/")
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abc...", truncate("abcdef", 3))

	// Multi-byte text is cut on character boundaries, not byte offsets.
	snippet := truncate("Klimaschutz für Anfänger", 14)
	assert.Equal(t, "Klimaschutz fü...", snippet)
	assert.True(t, utf8.ValidString(snippet))
}

func TestCreateQuizValidation(t *testing.T) {
	env := newTestEnv(t)
	course, _ := env.createCourse(t, "Authoring", 0)

	base := func(correctFlags ...bool) QuizRequest {
		answers := make([]AnswerRequest, len(correctFlags))
		for i, correct := range correctFlags {
			answers[i] = AnswerRequest{Text: "option", IsCorrect: correct}
		}
		return QuizRequest{
			Title:     "draft",
			Questions: []QuestionRequest{{Text: "pick one", Answers: answers}},
		}
	}

	t.Run("NoCorrectAnswer", func(t *testing.T) {
		_, err := env.course.CreateQuiz(course.ID, base(false, false))
		assert.Error(t, err)
	})

	t.Run("TwoCorrectAnswers", func(t *testing.T) {
		_, err := env.course.CreateQuiz(course.ID, base(true, true))
		assert.Error(t, err)
	})

	t.Run("ExactlyOneCorrect", func(t *testing.T) {
		quiz, err := env.course.CreateQuiz(course.ID, base(false, true))
		require.NoError(t, err)

		loaded, err := env.quizzes.FindByIDWithQuestions(quiz.ID)
		require.NoError(t, err)
		require.Len(t, loaded.Questions, 1)
		assert.Len(t, loaded.Questions[0].Answers, 2)
	})
}
