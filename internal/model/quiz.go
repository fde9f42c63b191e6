package model

import (
	"time"

	"gorm.io/datatypes"
)

type Quiz struct {
	BaseModel
	CourseID uint   `gorm:"index;not null" json:"courseId"`
	Title    string `gorm:"size:150;not null" json:"title"`

	Questions []Question `gorm:"foreignKey:QuizID" json:"questions,omitempty"`
}

func (Quiz) TableName() string {
	return "quizzes"
}

type Question struct {
	BaseModel
	QuizID   uint   `gorm:"index;not null" json:"quizId"`
	Text     string `gorm:"type:text;not null" json:"text"`
	Position int    `gorm:"default:0" json:"position"`

	Answers []Answer `gorm:"foreignKey:QuestionID" json:"answers,omitempty"`
}

func (Question) TableName() string {
	return "questions"
}

// Answer rows are not constrained to a single IsCorrect per question at the
// data level; the scoring engine takes the first flagged answer and the
// authoring endpoint rejects questions without exactly one.
type Answer struct {
	BaseModel
	QuestionID uint   `gorm:"index;not null" json:"questionId"`
	Text       string `gorm:"size:255;not null" json:"text"`
	IsCorrect  bool   `gorm:"default:false" json:"-"`
}

func (Answer) TableName() string {
	return "answers"
}

// QuizAttempt is the single scored submission for a user+quiz pair. The
// composite unique index is what makes double submission impossible under
// concurrency.
type QuizAttempt struct {
	BaseModel
	UserID       uint           `gorm:"uniqueIndex:idx_user_quiz;not null" json:"userId"`
	QuizID       uint           `gorm:"uniqueIndex:idx_user_quiz;not null" json:"quizId"`
	Score        int            `gorm:"default:0" json:"score"`
	PointsEarned int            `gorm:"default:0" json:"pointsEarned"`
	Answers      datatypes.JSON `json:"answers"`
	AttemptedAt  time.Time      `json:"attemptedAt"`
}

func (QuizAttempt) TableName() string {
	return "quiz_attempts"
}
