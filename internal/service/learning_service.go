package service

import (
	"ecolearn_backend/internal/config"
	"ecolearn_backend/internal/model"
	"ecolearn_backend/internal/repository"
	"ecolearn_backend/internal/util"
	"ecolearn_backend/pkg/monitoring"
	"errors"
	"time"

	"gorm.io/gorm"
)

// LearningService drives the lesson flow: viewing creates the progress row,
// completing awards points and feeds the achievement engine.
type LearningService struct {
	CourseRepo     *repository.CourseRepository
	ProgressRepo   *repository.ProgressRepository
	EnrollmentRepo *repository.EnrollmentRepository
	UserRepo       *repository.UserRepository
	Progression    *ProgressionService
	Achievements   *AchievementService
	Leaderboard    *LeaderboardService
	Cfg            *config.Config
	DB             *gorm.DB
}

func NewLearningService(
	courseRepo *repository.CourseRepository,
	progressRepo *repository.ProgressRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	userRepo *repository.UserRepository,
	progression *ProgressionService,
	achievements *AchievementService,
	leaderboard *LeaderboardService,
	cfg *config.Config,
	db *gorm.DB,
) *LearningService {
	return &LearningService{
		CourseRepo:     courseRepo,
		ProgressRepo:   progressRepo,
		EnrollmentRepo: enrollmentRepo,
		UserRepo:       userRepo,
		Progression:    progression,
		Achievements:   achievements,
		Leaderboard:    leaderboard,
		Cfg:            cfg,
		DB:             db,
	}
}

// LessonView carries a lesson plus its navigation context inside the course.
type LessonView struct {
	Lesson       model.Lesson         `json:"lesson"`
	Progress     model.LessonProgress `json:"progress"`
	PrevLessonID uint                 `json:"prevLessonId,omitempty"`
	NextLessonID uint                 `json:"nextLessonId,omitempty"`
	LessonNumber int                  `json:"lessonNumber"`
	TotalLessons int                  `json:"totalLessons"`
}

// GetLesson returns the lesson for an enrolled user and records that it was
// started. The progress row is created on first view; a concurrent first view
// is absorbed by the unique index.
func (s *LearningService) GetLesson(userID, courseID, lessonID uint) (*LessonView, error) {
	lesson, err := s.CourseRepo.FindLessonByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}
	if lesson.CourseID != courseID {
		return nil, util.ErrLessonNotFound
	}

	if _, err := s.EnrollmentRepo.Find(userID, courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotEnrolled
		}
		return nil, err
	}

	progress, err := s.ProgressRepo.Find(userID, lessonID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fresh := model.LessonProgress{
			UserID:    userID,
			LessonID:  lessonID,
			StartedAt: time.Now(),
		}
		if createErr := s.ProgressRepo.Create(&fresh); createErr != nil && !isDuplicateKey(createErr) {
			return nil, createErr
		}
		progress, err = s.ProgressRepo.Find(userID, lessonID)
	}
	if err != nil {
		return nil, err
	}

	lessons, err := s.CourseRepo.FindLessons(courseID)
	if err != nil {
		return nil, err
	}

	view := &LessonView{
		Lesson:       *lesson,
		Progress:     *progress,
		TotalLessons: len(lessons),
	}
	for i, l := range lessons {
		if l.ID != lessonID {
			continue
		}
		view.LessonNumber = i + 1
		if i > 0 {
			view.PrevLessonID = lessons[i-1].ID
		}
		if i < len(lessons)-1 {
			view.NextLessonID = lessons[i+1].ID
		}
		break
	}

	return view, nil
}

// LessonCompletionResult mirrors the completion response contract.
type LessonCompletionResult struct {
	Success            bool                `json:"success"`
	Message            string              `json:"message,omitempty"`
	Completed          bool                `json:"completed"`
	PointsEarned       int                 `json:"pointsEarned"`
	ProgressPercentage float64             `json:"progressPercentage"`
	NewAchievements    []model.Achievement `json:"newAchievements"`
}

// CompleteLesson marks the lesson done and awards the configured points. The
// completion check happens before the flag is set, so re-completing an
// already-finished lesson is a no-op that never re-awards. When the award
// pushes course progress to 100% the enrollment is stamped completed inside
// the same transaction.
func (s *LearningService) CompleteLesson(userID, lessonID uint, timeSpent int) (*LessonCompletionResult, error) {
	lesson, err := s.CourseRepo.FindLessonByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
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

	if _, err := s.EnrollmentRepo.Find(userID, lesson.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotEnrolled
		}
		return nil, err
	}

	result := &LessonCompletionResult{}

	err = s.DB.Transaction(func(tx *gorm.DB) error {
		progressRepo := repository.NewProgressRepository(tx)

		progress, err := progressRepo.Find(userID, lessonID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			progress = &model.LessonProgress{
				UserID:    userID,
				LessonID:  lessonID,
				StartedAt: time.Now(),
			}
			if err := progressRepo.Create(progress); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		if progress.Completed {
			result.Success = false
			result.Message = "Lesson already completed"
			result.Completed = true
			percentage, err := courseProgressTx(tx, userID, lesson.CourseID)
			if err != nil {
				return err
			}
			result.ProgressPercentage = percentage
			return nil
		}

		now := time.Now()
		updates := map[string]interface{}{
			"completed":    true,
			"completed_at": now,
		}
		if timeSpent > 0 {
			updates["time_spent"] = progress.TimeSpent + timeSpent
		}
		if err := tx.Model(&model.LessonProgress{}).
			Where("id = ?", progress.ID).
			Updates(updates).Error; err != nil {
			return err
		}

		pointsEarned := s.Cfg.Gamification.PointsPerLesson
		if err := s.Progression.AwardPoints(tx, user, pointsEarned); err != nil {
			return err
		}

		percentage, err := courseProgressTx(tx, userID, lesson.CourseID)
		if err != nil {
			return err
		}

		if percentage >= 100 {
			if err := s.completeEnrollment(tx, userID, lesson.CourseID); err != nil {
				return err
			}
		}

		newAchievements, err := s.Achievements.Evaluate(tx, user)
		if err != nil {
			return err
		}

		result.Success = true
		result.Completed = true
		result.PointsEarned = pointsEarned
		result.ProgressPercentage = percentage
		result.NewAchievements = newAchievements
		return nil
	})
	if err != nil {
		if isDuplicateKey(err) {
			// A concurrent completion created the progress row first; the
			// lesson is done either way and no points are lost.
			return &LessonCompletionResult{
				Success:   false,
				Message:   "Lesson already completed",
				Completed: true,
			}, nil
		}
		return nil, err
	}

	if result.Success {
		monitoring.PointsAwarded.WithLabelValues("lesson").Add(float64(result.PointsEarned))
		s.Leaderboard.Invalidate()
	}

	return result, nil
}

// RecordTime accumulates study time on a lesson without completing it. The
// completion flag and points are untouched.
func (s *LearningService) RecordTime(userID, lessonID uint, timeSpent int) (*LessonCompletionResult, error) {
	lesson, err := s.CourseRepo.FindLessonByID(lessonID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrLessonNotFound
		}
		return nil, err
	}

	if _, err := s.EnrollmentRepo.Find(userID, lesson.CourseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrNotEnrolled
		}
		return nil, err
	}

	progress, err := s.ProgressRepo.Find(userID, lessonID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		fresh := model.LessonProgress{
			UserID:    userID,
			LessonID:  lessonID,
			StartedAt: time.Now(),
		}
		if createErr := s.ProgressRepo.Create(&fresh); createErr != nil && !isDuplicateKey(createErr) {
			return nil, createErr
		}
		progress, err = s.ProgressRepo.Find(userID, lessonID)
	}
	if err != nil {
		return nil, err
	}

	if timeSpent > 0 {
		if err := s.DB.Model(&model.LessonProgress{}).
			Where("id = ?", progress.ID).
			Update("time_spent", progress.TimeSpent+timeSpent).Error; err != nil {
			return nil, err
		}
	}

	percentage, err := s.Progression.CourseProgress(userID, lesson.CourseID)
	if err != nil {
		return nil, err
	}

	return &LessonCompletionResult{
		Success:            true,
		Completed:          progress.Completed,
		ProgressPercentage: percentage,
	}, nil
}

func (s *LearningService) completeEnrollment(tx *gorm.DB, userID, courseID uint) error {
	return tx.Model(&model.Enrollment{}).
		Where("user_id = ? AND course_id = ? AND completed = ?", userID, courseID, false).
		Updates(map[string]interface{}{
			"completed":    true,
			"completed_at": time.Now(),
		}).Error
}
