package service

import (
	"ecolearn_backend/internal/model"
	"ecolearn_backend/internal/repository"
	"ecolearn_backend/internal/util"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"
)

type CourseService struct {
	CourseRepo     *repository.CourseRepository
	QuizRepo       *repository.QuizRepository
	EnrollmentRepo *repository.EnrollmentRepository
	ProgressRepo   *repository.ProgressRepository
}

func NewCourseService(
	courseRepo *repository.CourseRepository,
	quizRepo *repository.QuizRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	progressRepo *repository.ProgressRepository,
) *CourseService {
	return &CourseService{
		CourseRepo:     courseRepo,
		QuizRepo:       quizRepo,
		EnrollmentRepo: enrollmentRepo,
		ProgressRepo:   progressRepo,
	}
}

// CourseSummary decorates a catalog row with the viewer's enrollment state.
type CourseSummary struct {
	model.Course
	Enrolled bool `json:"enrolled"`
}

func (s *CourseService) ListCourses(userID uint, filter repository.CourseFilter) ([]CourseSummary, int64, error) {
	courses, total, err := s.CourseRepo.List(filter)
	if err != nil {
		return nil, 0, err
	}

	enrolled := make(map[uint]bool)
	if userID != 0 {
		enrollments, err := s.EnrollmentRepo.ListByUser(userID)
		if err != nil {
			return nil, 0, err
		}
		for _, e := range enrollments {
			enrolled[e.CourseID] = true
		}
	}

	summaries := make([]CourseSummary, len(courses))
	for i, course := range courses {
		summaries[i] = CourseSummary{
			Course:   course,
			Enrolled: enrolled[course.ID],
		}
	}
	return summaries, total, nil
}

// LessonState pairs a lesson with the viewer's completion flag.
type LessonState struct {
	model.Lesson
	Completed bool `json:"completed"`
}

type CourseDetail struct {
	Course     model.Course      `json:"course"`
	Lessons    []LessonState     `json:"lessons"`
	Quizzes    []model.Quiz      `json:"quizzes"`
	Enrollment *model.Enrollment `json:"enrollment,omitempty"`
}

func (s *CourseService) GetCourseDetail(userID, courseID uint) (*CourseDetail, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	lessons, err := s.CourseRepo.FindLessons(courseID)
	if err != nil {
		return nil, err
	}

	quizzes, err := s.QuizRepo.FindByCourse(courseID)
	if err != nil {
		return nil, err
	}

	detail := &CourseDetail{
		Course:  *course,
		Quizzes: quizzes,
	}

	var progressByLesson map[uint]model.LessonProgress
	if enrollment, err := s.EnrollmentRepo.Find(userID, courseID); err == nil {
		detail.Enrollment = enrollment

		lessonIDs := make([]uint, len(lessons))
		for i, l := range lessons {
			lessonIDs[i] = l.ID
		}
		progressByLesson, err = s.ProgressRepo.FindByUserAndLessons(userID, lessonIDs)
		if err != nil {
			return nil, err
		}
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	detail.Lessons = make([]LessonState, len(lessons))
	for i, lesson := range lessons {
		detail.Lessons[i] = LessonState{
			Lesson:    lesson,
			Completed: progressByLesson[lesson.ID].Completed,
		}
	}

	return detail, nil
}

// Enroll registers the user in a course. Re-enrolling is an idempotent
// no-op surfaced as ErrAlreadyEnrolled, including under a concurrent race on
// the unique index.
func (s *CourseService) Enroll(userID, courseID uint) (*model.Enrollment, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	if _, err := s.EnrollmentRepo.Find(userID, courseID); err == nil {
		return nil, util.ErrAlreadyEnrolled
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	enrollment := &model.Enrollment{
		UserID:     userID,
		CourseID:   courseID,
		EnrolledAt: time.Now(),
	}
	if err := s.EnrollmentRepo.Create(enrollment); err != nil {
		if isDuplicateKey(err) {
			return nil, util.ErrAlreadyEnrolled
		}
		return nil, err
	}

	return enrollment, nil
}

// SearchResult is one hit from the cross-entity search.
type SearchResult struct {
	Type        string `json:"type"`
	ID          uint   `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	URL         string `json:"url"`
}

// truncate shortens s to max characters, never splitting a multi-byte rune.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}

// Search matches courses and lessons against a free-text term; queries under
// two characters return nothing rather than scanning everything.
func (s *CourseService) Search(term string) ([]SearchResult, error) {
	if len(term) < 2 {
		return []SearchResult{}, nil
	}

	courses, _, err := s.CourseRepo.List(repository.CourseFilter{
		Search: term,
		Page:   1,
		Limit:  5,
	})
	if err != nil {
		return nil, err
	}

	lessons, err := s.CourseRepo.SearchLessons(term, 5)
	if err != nil {
		return nil, err
	}

	results := make([]SearchResult, 0, len(courses)+len(lessons))
	for _, course := range courses {
		results = append(results, SearchResult{
			Type:        "course",
			ID:          course.ID,
			Title:       course.Title,
			Description: truncate(course.Description, 150),
			URL:         fmt.Sprintf("/courses/%d", course.ID),
		})
	}
	for _, lesson := range lessons {
		results = append(results, SearchResult{
			Type:        "lesson",
			ID:          lesson.ID,
			Title:       lesson.Title,
			Description: truncate(lesson.Content, 150),
			URL:         fmt.Sprintf("/courses/%d/lessons/%d", lesson.CourseID, lesson.ID),
		})
	}

	return results, nil
}

// CourseRequest is the authoring payload for creating or updating a course.
type CourseRequest struct {
	Title       string `json:"title" binding:"required"`
	Description string `json:"description" binding:"required"`
	Difficulty  string `json:"difficulty" binding:"omitempty,oneof=beginner intermediate advanced"`
	CoverImage  string `json:"coverImage"`
}

func (s *CourseService) CreateCourse(req CourseRequest) (*model.Course, error) {
	course := &model.Course{
		Title:       req.Title,
		Description: req.Description,
		CoverImage:  req.CoverImage,
	}
	if req.Difficulty != "" {
		course.Difficulty = model.CourseDifficulty(req.Difficulty)
	} else {
		course.Difficulty = model.Beginner
	}

	if err := s.CourseRepo.Create(course); err != nil {
		return nil, err
	}
	return course, nil
}

func (s *CourseService) UpdateCourse(courseID uint, req CourseRequest) (*model.Course, error) {
	course, err := s.CourseRepo.FindByID(courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	course.Title = req.Title
	course.Description = req.Description
	course.CoverImage = req.CoverImage
	if req.Difficulty != "" {
		course.Difficulty = model.CourseDifficulty(req.Difficulty)
	}

	if err := s.CourseRepo.Update(course); err != nil {
		return nil, err
	}
	return course, nil
}

type LessonRequest struct {
	Title    string `json:"title" binding:"required"`
	Content  string `json:"content" binding:"required"`
	VideoURL string `json:"videoUrl"`
	Position int    `json:"position"`
}

func (s *CourseService) CreateLesson(courseID uint, req LessonRequest) (*model.Lesson, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	lesson := &model.Lesson{
		CourseID: courseID,
		Title:    req.Title,
		Content:  req.Content,
		VideoURL: req.VideoURL,
		Position: req.Position,
	}
	if err := s.CourseRepo.CreateLesson(lesson); err != nil {
		return nil, err
	}
	return lesson, nil
}

type AnswerRequest struct {
	Text      string `json:"text" binding:"required"`
	IsCorrect bool   `json:"isCorrect"`
}

type QuestionRequest struct {
	Text     string          `json:"text" binding:"required"`
	Position int             `json:"position"`
	Answers  []AnswerRequest `json:"answers" binding:"required,min=2"`
}

type QuizRequest struct {
	Title     string            `json:"title" binding:"required"`
	Questions []QuestionRequest `json:"questions" binding:"required,min=1"`
}

// CreateQuiz creates a quiz with its nested questions and answers. Every
// question must carry exactly one correct answer; the scoring engine
// tolerates bad data, but authoring is where it gets rejected.
func (s *CourseService) CreateQuiz(courseID uint, req QuizRequest) (*model.Quiz, error) {
	if _, err := s.CourseRepo.FindByID(courseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotFound
		}
		return nil, err
	}

	for i, q := range req.Questions {
		correct := 0
		for _, a := range q.Answers {
			if a.IsCorrect {
				correct++
			}
		}
		if correct != 1 {
			return nil, fmt.Errorf("question %d must have exactly one correct answer, got %d", i+1, correct)
		}
	}

	quiz := &model.Quiz{
		CourseID: courseID,
		Title:    req.Title,
	}
	for _, q := range req.Questions {
		question := model.Question{
			Text:     q.Text,
			Position: q.Position,
		}
		for _, a := range q.Answers {
			question.Answers = append(question.Answers, model.Answer{
				Text:      a.Text,
				IsCorrect: a.IsCorrect,
			})
		}
		quiz.Questions = append(quiz.Questions, question)
	}

	if err := s.QuizRepo.Create(quiz); err != nil {
		return nil, err
	}
	return quiz, nil
}
