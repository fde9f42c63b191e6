package service

import (
	"ecolearn_backend/internal/config"
	"ecolearn_backend/internal/model"
	"ecolearn_backend/internal/repository"
	"ecolearn_backend/internal/util"
	"ecolearn_backend/pkg/monitoring"
	"encoding/json"
	"errors"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ScoreResult is the outcome of grading one submission against a quiz.
type ScoreResult struct {
	Score            int
	Total            int
	Percentage       float64
	CorrectAnswerIDs []uint
}

// ScoreQuiz grades a submission. A question counts as correct iff the
// selected answer id equals the id of the first answer flagged correct; a
// missing selection or a question with no correct answer on record counts as
// incorrect, never errors.
func ScoreQuiz(questions []model.Question, answers map[uint]uint) ScoreResult {
	result := ScoreResult{Total: len(questions)}

	for _, question := range questions {
		var correct *model.Answer
		for i := range question.Answers {
			if question.Answers[i].IsCorrect {
				correct = &question.Answers[i]
				break
			}
		}
		if correct == nil {
			continue
		}

		if selected, ok := answers[question.ID]; ok && selected == correct.ID {
			result.Score++
			result.CorrectAnswerIDs = append(result.CorrectAnswerIDs, correct.ID)
		}
	}

	if result.Total > 0 {
		result.Percentage = float64(result.Score) / float64(result.Total) * 100
	}
	return result
}

// QuizPoints converts a score percentage into awarded points, proportional to
// the configured per-quiz maximum.
func QuizPoints(percentage float64, pointsPerQuiz int) int {
	return int(percentage / 100 * float64(pointsPerQuiz))
}

type QuizService struct {
	QuizRepo       *repository.QuizRepository
	EnrollmentRepo *repository.EnrollmentRepository
	UserRepo       *repository.UserRepository
	Progression    *ProgressionService
	Achievements   *AchievementService
	Leaderboard    *LeaderboardService
	Cfg            *config.Config
	DB             *gorm.DB
}

func NewQuizService(
	quizRepo *repository.QuizRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	userRepo *repository.UserRepository,
	progression *ProgressionService,
	achievements *AchievementService,
	leaderboard *LeaderboardService,
	cfg *config.Config,
	db *gorm.DB,
) *QuizService {
	return &QuizService{
		QuizRepo:       quizRepo,
		EnrollmentRepo: enrollmentRepo,
		UserRepo:       userRepo,
		Progression:    progression,
		Achievements:   achievements,
		Leaderboard:    leaderboard,
		Cfg:            cfg,
		DB:             db,
	}
}

// QuizView is a quiz prepared for taking: answer correctness stripped.
type QuizView struct {
	ID        uint           `json:"id"`
	CourseID  uint           `json:"courseId"`
	Title     string         `json:"title"`
	Questions []QuestionView `json:"questions"`
	Attempted bool           `json:"attempted"`
}

type QuestionView struct {
	ID      uint         `json:"id"`
	Text    string       `json:"text"`
	Answers []AnswerView `json:"answers"`
}

type AnswerView struct {
	ID   uint   `json:"id"`
	Text string `json:"text"`
}

// GetQuizForTaking returns the quiz with questions and choices but without
// correctness flags. Requires enrollment in the owning course.
func (s *QuizService) GetQuizForTaking(userID, courseID, quizID uint) (*QuizView, error) {
	quiz, err := s.QuizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}
	if quiz.CourseID != courseID {
		return nil, util.ErrQuizNotFound
	}

	if _, err := s.EnrollmentRepo.Find(userID, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotEnrolled
		}
		return nil, err
	}

	view := &QuizView{
		ID:       quiz.ID,
		CourseID: quiz.CourseID,
		Title:    quiz.Title,
	}

	if _, err := s.QuizRepo.FindAttempt(userID, quizID); err == nil {
		view.Attempted = true
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	for _, question := range quiz.Questions {
		qv := QuestionView{ID: question.ID, Text: question.Text}
		for _, answer := range question.Answers {
			qv.Answers = append(qv.Answers, AnswerView{ID: answer.ID, Text: answer.Text})
		}
		view.Questions = append(view.Questions, qv)
	}

	return view, nil
}

// QuizSubmissionResult mirrors the submit response contract. Success is false
// on the idempotent already-attempted path.
type QuizSubmissionResult struct {
	Success         bool                `json:"success"`
	Message         string              `json:"message,omitempty"`
	Score           int                 `json:"score"`
	TotalQuestions  int                 `json:"totalQuestions"`
	Percentage      float64             `json:"percentage"`
	PointsEarned    int                 `json:"pointsEarned"`
	CorrectAnswers  []uint              `json:"correctAnswers"`
	NewAchievements []model.Achievement `json:"newAchievements"`
}

var alreadyAttemptedResult = &QuizSubmissionResult{
	Success: false,
	Message: "Quiz already completed",
}

// SubmitQuiz grades the submission and commits the attempt, the point award
// and any achievement grants in one transaction. A prior attempt, including
// one racing this call into the unique index, yields the already-completed
// result instead of an error.
func (s *QuizService) SubmitQuiz(userID, quizID uint, answers map[uint]uint) (*QuizSubmissionResult, error) {
	quiz, err := s.QuizRepo.FindByIDWithQuestions(quizID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrQuizNotFound
		}
		return nil, err
	}

	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}

	if _, err := s.EnrollmentRepo.Find(userID, quiz.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotEnrolled
		}
		return nil, err
	}

	if _, err := s.QuizRepo.FindAttempt(userID, quizID); err == nil {
		return alreadyAttemptedResult, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	score := ScoreQuiz(quiz.Questions, answers)
	pointsEarned := QuizPoints(score.Percentage, s.Cfg.Gamification.PointsPerQuiz)

	answersJSON, err := json.Marshal(answers)
	if err != nil {
		return nil, err
	}

	result := &QuizSubmissionResult{
		Success:        true,
		Score:          score.Score,
		TotalQuestions: score.Total,
		Percentage:     score.Percentage,
		PointsEarned:   pointsEarned,
		CorrectAnswers: score.CorrectAnswerIDs,
	}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		attempt := model.QuizAttempt{
			UserID:       userID,
			QuizID:       quizID,
			Score:        score.Score,
			PointsEarned: pointsEarned,
			Answers:      datatypes.JSON(answersJSON),
			AttemptedAt:  time.Now(),
		}
		if err := tx.Create(&attempt).Error; err != nil {
			return err
		}

		if err := s.Progression.AwardPoints(tx, user, pointsEarned); err != nil {
			return err
		}

		newAchievements, err := s.Achievements.Evaluate(tx, user)
		if err != nil {
			return err
		}
		result.NewAchievements = newAchievements

		return nil
	})
	if err != nil {
		// A concurrent submission won the unique index; report the same
		// already-completed outcome the sequential path does.
		if isDuplicateKey(err) {
			return alreadyAttemptedResult, nil
		}
		return nil, err
	}

	monitoring.PointsAwarded.WithLabelValues("quiz").Add(float64(pointsEarned))
	s.Leaderboard.Invalidate()

	return result, nil
}
