package repository

import (
	"ecolearn_backend/internal/model"

	"gorm.io/gorm"
)

type CourseRepository struct {
	DB *gorm.DB
}

func NewCourseRepository(db *gorm.DB) *CourseRepository {
	return &CourseRepository{DB: db}
}

// CourseFilter narrows the course listing.
type CourseFilter struct {
	Search     string
	Difficulty string
	Page       int
	Limit      int
}

func (r *CourseRepository) List(filter CourseFilter) ([]model.Course, int64, error) {
	query := r.DB.Model(&model.Course{})

	if filter.Search != "" {
		term := "%" + filter.Search + "%"
		query = query.Where("title LIKE ? OR description LIKE ?", term, term)
	}
	if filter.Difficulty != "" {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var courses []model.Course
	offset := (filter.Page - 1) * filter.Limit
	err := query.Order("created_at DESC").Offset(offset).Limit(filter.Limit).Find(&courses).Error
	return courses, total, err
}

func (r *CourseRepository) FindByID(id uint) (*model.Course, error) {
	var course model.Course
	err := r.DB.First(&course, id).Error
	return &course, err
}

func (r *CourseRepository) Create(course *model.Course) error {
	return r.DB.Create(course).Error
}

func (r *CourseRepository) Update(course *model.Course) error {
	return r.DB.Save(course).Error
}

func (r *CourseRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Course{}).Count(&count).Error
	return count, err
}

// FindLessons returns a course's lessons in display order.
func (r *CourseRepository) FindLessons(courseID uint) ([]model.Lesson, error) {
	var lessons []model.Lesson
	err := r.DB.Where("course_id = ?", courseID).
		Order("position ASC, id ASC").
		Find(&lessons).Error
	return lessons, err
}

func (r *CourseRepository) CountLessons(courseID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.Lesson{}).
		Where("course_id = ?", courseID).
		Count(&count).Error
	return count, err
}

func (r *CourseRepository) FindLessonByID(id uint) (*model.Lesson, error) {
	var lesson model.Lesson
	err := r.DB.First(&lesson, id).Error
	return &lesson, err
}

func (r *CourseRepository) CreateLesson(lesson *model.Lesson) error {
	return r.DB.Create(lesson).Error
}

func (r *CourseRepository) SearchLessons(term string, limit int) ([]model.Lesson, error) {
	var lessons []model.Lesson
	like := "%" + term + "%"
	err := r.DB.Where("title LIKE ? OR content LIKE ?", like, like).
		Limit(limit).
		Find(&lessons).Error
	return lessons, err
}
