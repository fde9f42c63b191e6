package controller

import (
	"ecolearn_backend/internal/repository"
	"ecolearn_backend/internal/service"
	"ecolearn_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type CourseController struct {
	CourseService   *service.CourseService
	LearningService *service.LearningService
}

func NewCourseController(courseService *service.CourseService, learningService *service.LearningService) *CourseController {
	return &CourseController{
		CourseService:   courseService,
		LearningService: learningService,
	}
}

func parseUintParam(ctx *gin.Context, name string) (uint, bool) {
	value, err := strconv.ParseUint(ctx.Param(name), 10, 32)
	if err != nil {
		util.BadRequest(ctx, "invalid "+name)
		return 0, false
	}
	return uint(value), true
}

// ListCourses supports free-text search, difficulty filtering and pagination.
func (c *CourseController) ListCourses(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	page, _ := strconv.Atoi(ctx.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(util.DefaultPageLimit)))
	if limit < 1 || limit > util.MaxPageLimit {
		limit = util.DefaultPageLimit
	}

	filter := repository.CourseFilter{
		Search:     ctx.Query("search"),
		Difficulty: ctx.Query("difficulty"),
		Page:       page,
		Limit:      limit,
	}

	courses, total, err := c.CourseService.ListCourses(user.UserID, filter)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, util.PageResponse{
		List:  courses,
		Total: total,
		Page:  page,
		Limit: limit,
	})
}

func (c *CourseController) GetCourse(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID, ok := parseUintParam(ctx, "courseId")
	if !ok {
		return
	}

	detail, err := c.CourseService.GetCourseDetail(user.UserID, courseID)
	if err != nil {
		if errors.Is(err, util.ErrCourseNotFound) {
			util.NotFound(ctx)
		} else {
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Success(ctx, detail)
}

func (c *CourseController) Enroll(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID, ok := parseUintParam(ctx, "courseId")
	if !ok {
		return
	}

	enrollment, err := c.CourseService.Enroll(user.UserID, courseID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrCourseNotFound):
			util.NotFound(ctx)
		case errors.Is(err, util.ErrAlreadyEnrolled):
			util.Success(ctx, gin.H{
				"success": false,
				"message": "already enrolled in this course",
			})
		default:
			util.LogInternalError(ctx, err)
		}
		return
	}

	util.Created(ctx, enrollment)
}

// GetLesson returns the lesson body with navigation; viewing records the
// lesson as started.
func (c *CourseController) GetLesson(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID, ok := parseUintParam(ctx, "courseId")
	if !ok {
		return
	}
	lessonID, ok := parseUintParam(ctx, "lessonId")
	if !ok {
		return
	}

	view, err := c.LearningService.GetLesson(user.UserID, courseID, lessonID)
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

	util.Success(ctx, view)
}

func (c *CourseController) Search(ctx *gin.Context) {
	results, err := c.CourseService.Search(ctx.Query("q"))
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"results": results})
}
