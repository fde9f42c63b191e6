package repository

import (
	"ecolearn_backend/internal/model"

	"gorm.io/gorm"
)

type ProgressRepository struct {
	DB *gorm.DB
}

func NewProgressRepository(db *gorm.DB) *ProgressRepository {
	return &ProgressRepository{DB: db}
}

func (r *ProgressRepository) Find(userID, lessonID uint) (*model.LessonProgress, error) {
	var progress model.LessonProgress
	err := r.DB.Where("user_id = ? AND lesson_id = ?", userID, lessonID).
		First(&progress).Error
	return &progress, err
}

func (r *ProgressRepository) Create(progress *model.LessonProgress) error {
	return r.DB.Create(progress).Error
}

// FindByUserAndLessons returns existing progress rows keyed by lesson id, for
// decorating a course detail view.
func (r *ProgressRepository) FindByUserAndLessons(userID uint, lessonIDs []uint) (map[uint]model.LessonProgress, error) {
	var rows []model.LessonProgress
	err := r.DB.Where("user_id = ? AND lesson_id IN ?", userID, lessonIDs).
		Find(&rows).Error
	if err != nil {
		return nil, err
	}

	byLesson := make(map[uint]model.LessonProgress, len(rows))
	for _, p := range rows {
		byLesson[p.LessonID] = p
	}
	return byLesson, nil
}

// CountCompletedInCourse counts the user's completed lessons belonging to the
// course; the numerator of course progress.
func (r *ProgressRepository) CountCompletedInCourse(userID, courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.LessonProgress{}).
		Joins("JOIN lessons ON lessons.id = lesson_progress.lesson_id").
		Where("lesson_progress.user_id = ? AND lesson_progress.completed = ? AND lessons.course_id = ?",
			userID, true, courseID).
		Count(&count).Error
	return count, err
}

func (r *ProgressRepository) ListRecentCompleted(userID uint, limit int) ([]model.LessonProgress, error) {
	var rows []model.LessonProgress
	err := r.DB.Where("user_id = ? AND completed = ?", userID, true).
		Order("completed_at DESC").
		Limit(limit).
		Find(&rows).Error
	return rows, err
}
