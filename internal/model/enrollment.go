package model

import "time"

// Enrollment gates lesson and quiz access for a course. One row per
// user+course, completion stamped when course progress reaches 100%.
type Enrollment struct {
	BaseModel
	UserID      uint      `gorm:"uniqueIndex:idx_user_course;not null" json:"userId"`
	CourseID    uint      `gorm:"uniqueIndex:idx_user_course;not null" json:"courseId"`
	EnrolledAt  time.Time `json:"enrolledAt"`
	Completed   bool      `gorm:"default:false" json:"completed"`
	CompletedAt time.Time `json:"completedAt"`
}

func (Enrollment) TableName() string {
	return "enrollments"
}
