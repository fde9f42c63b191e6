package util

import "errors"

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrEmailRegistered = errors.New("email already registered")
	ErrCourseNotFound  = errors.New("course not found")
	ErrLessonNotFound  = errors.New("lesson not found")
	ErrQuizNotFound    = errors.New("quiz not found")
	ErrNotEnrolled     = errors.New("not enrolled in this course")
	ErrAlreadyEnrolled = errors.New("already enrolled in this course")
)
