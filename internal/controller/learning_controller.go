package controller

import (
	"ecolearn_backend/internal/service"
	"ecolearn_backend/internal/util"
	"errors"
	"io"

	"github.com/gin-gonic/gin"
)

type LearningController struct {
	LearningService *service.LearningService
	Progression     *service.ProgressionService
}

func NewLearningController(learningService *service.LearningService, progression *service.ProgressionService) *LearningController {
	return &LearningController{
		LearningService: learningService,
		Progression:     progression,
	}
}

type LessonProgressRequest struct {
	Completed *bool `json:"completed"`
	TimeSpent int   `json:"timeSpent" binding:"omitempty,min=0"`
}

// wantsCompletion reports whether the request asks to mark the lesson done.
// An absent completed field means completion; only an explicit false records
// time without finishing the lesson.
func (r LessonProgressRequest) wantsCompletion() bool {
	return r.Completed == nil || *r.Completed
}

// UpdateLessonProgress marks the lesson done with its point award unless the
// body carries an explicit completed=false, which only records time spent.
func (c *LearningController) UpdateLessonProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	lessonID, ok := parseUintParam(ctx, "lessonId")
	if !ok {
		return
	}

	// The body is optional; an empty request simply carries no timeSpent.
	var req LessonProgressRequest
	if err := ctx.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		util.BadRequest(ctx, err.Error())
		return
	}

	var (
		result *service.LessonCompletionResult
		err    error
	)
	if req.wantsCompletion() {
		result, err = c.LearningService.CompleteLesson(user.UserID, lessonID, req.TimeSpent)
	} else {
		result, err = c.LearningService.RecordTime(user.UserID, lessonID, req.TimeSpent)
	}
	if err != nil {
		switch {
		case errors.Is(err, util.ErrLessonNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrNotEnrolled):
			util.Forbidden(ctx)
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, result)
}

func (c *LearningController) GetCourseProgress(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID, ok := parseUintParam(ctx, "courseId")
	if !ok {
		return
	}

	percentage, err := c.Progression.CourseProgress(user.UserID, courseID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"progressPercentage": percentage})
}
