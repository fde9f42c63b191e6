package service

import (
	"ecolearn_backend/internal/model"
	"ecolearn_backend/internal/repository"
	"time"

	"gorm.io/gorm"
)

// levelThresholds are the inclusive lower bounds for levels 1-5.
var levelThresholds = []int{0, 100, 500, 1500, 3000}

// CalculateLevel maps a point total onto levels 1-5.
func CalculateLevel(points int) int {
	level := 1
	for i, threshold := range levelThresholds {
		if points >= threshold {
			level = i + 1
		}
	}
	return level
}

// LevelProgress reports how far into the current level band the point total
// sits, as a percentage clamped to [0,100]. The top level always reports 100.
func LevelProgress(points int) float64 {
	level := CalculateLevel(points)
	if level >= len(levelThresholds) {
		return 100
	}

	lower := levelThresholds[level-1]
	upper := levelThresholds[level]

	progress := float64(points-lower) / float64(upper-lower) * 100
	if progress < 0 {
		return 0
	}
	if progress > 100 {
		return 100
	}
	return progress
}

// nextStreak rolls the daily streak forward for an activity at now: same-day
// activity keeps it, consecutive-day activity extends it, a gap resets it.
func nextStreak(current int, lastActivity, now time.Time) int {
	if current == 0 || lastActivity.IsZero() {
		return 1
	}

	last := lastActivity.Truncate(24 * time.Hour)
	today := now.Truncate(24 * time.Hour)

	switch today.Sub(last) {
	case 0:
		return current
	case 24 * time.Hour:
		return current + 1
	default:
		return 1
	}
}

// ProgressionService maintains a user's points, level, streak and course
// completion as side effects of scoring and lesson completion.
type ProgressionService struct {
	UserRepo       *repository.UserRepository
	ProgressRepo   *repository.ProgressRepository
	CourseRepo     *repository.CourseRepository
	EnrollmentRepo *repository.EnrollmentRepository
}

func NewProgressionService(
	userRepo *repository.UserRepository,
	progressRepo *repository.ProgressRepository,
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
) *ProgressionService {
	return &ProgressionService{
		UserRepo:       userRepo,
		ProgressRepo:   progressRepo,
		CourseRepo:     courseRepo,
		EnrollmentRepo: enrollmentRepo,
	}
}

// AwardPoints adds delta to the user inside tx, recomputing level and streak
// and stamping the activity time. delta must be non-negative in normal flow,
// so points never decrease.
func (s *ProgressionService) AwardPoints(tx *gorm.DB, user *model.User, delta int) error {
	now := time.Now()

	user.TotalPoints += delta
	user.Level = CalculateLevel(user.TotalPoints)
	user.StreakDays = nextStreak(user.StreakDays, user.LastActivity, now)
	user.LastActivity = now

	return tx.Model(&model.User{}).
		Where("id = ?", user.ID).
		Updates(map[string]interface{}{
			"total_points":  user.TotalPoints,
			"level":         user.Level,
			"streak_days":   user.StreakDays,
			"last_activity": user.LastActivity,
		}).Error
}

// CourseProgress returns the user's completion percentage for a course;
// a course with no lessons reports 0.
func (s *ProgressionService) CourseProgress(userID, courseID uint) (float64, error) {
	total, err := s.CourseRepo.CountLessons(courseID)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}

	completed, err := s.ProgressRepo.CountCompletedInCourse(userID, courseID)
	if err != nil {
		return 0, err
	}

	return float64(completed) / float64(total) * 100, nil
}

// courseProgressTx is CourseProgress against an open transaction, used when
// lesson completion needs the fresh percentage before commit.
func courseProgressTx(tx *gorm.DB, userID, courseID uint) (float64, error) {
	progressRepo := repository.NewProgressRepository(tx)
	courseRepo := repository.NewCourseRepository(tx)

	total, err := courseRepo.CountLessons(courseID)
	if err != nil {
		return 0, err
	}
	if total == 0 {
		return 0, nil
	}

	completed, err := progressRepo.CountCompletedInCourse(userID, courseID)
	if err != nil {
		return 0, err
	}

	return float64(completed) / float64(total) * 100, nil
}
