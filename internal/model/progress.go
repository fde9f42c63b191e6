package model

import "time"

// LessonProgress tracks a user's state for one lesson. Rows are created on
// first view and updated in place when the lesson is completed, never deleted
// by normal flow.
type LessonProgress struct {
	BaseModel
	UserID      uint      `gorm:"uniqueIndex:idx_user_lesson;not null" json:"userId"`
	LessonID    uint      `gorm:"uniqueIndex:idx_user_lesson;not null" json:"lessonId"`
	Completed   bool      `gorm:"default:false" json:"completed"`
	StartedAt   time.Time `json:"startedAt"`
	CompletedAt time.Time `json:"completedAt"`
	TimeSpent   int       `gorm:"default:0" json:"timeSpent"` // seconds
}

func (LessonProgress) TableName() string {
	return "lesson_progress"
}
