package model

type CourseDifficulty string

const (
	Beginner     CourseDifficulty = "beginner"
	Intermediate CourseDifficulty = "intermediate"
	Advanced     CourseDifficulty = "advanced"
)

type Course struct {
	BaseModel
	Title       string           `gorm:"size:150;not null" json:"title"`
	Description string           `gorm:"type:text;not null" json:"description"`
	Difficulty  CourseDifficulty `gorm:"size:20;default:'beginner';index" json:"difficulty"`
	CoverImage  string           `gorm:"size:255" json:"coverImage"`

	Lessons []Lesson `gorm:"foreignKey:CourseID" json:"lessons,omitempty"`
	Quizzes []Quiz   `gorm:"foreignKey:CourseID" json:"quizzes,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

// Lesson ordering inside a course is by Position, ties broken by id.
type Lesson struct {
	BaseModel
	CourseID uint   `gorm:"index;not null" json:"courseId"`
	Title    string `gorm:"size:150;not null" json:"title"`
	Content  string `gorm:"type:text;not null" json:"content"`
	VideoURL string `gorm:"size:255" json:"videoUrl"`
	Position int    `gorm:"default:0" json:"position"`
}

func (Lesson) TableName() string {
	return "lessons"
}
