package controller

import (
	"ecolearn_backend/internal/service"
	"ecolearn_backend/internal/util"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService *service.QuizService
}

func NewQuizController(quizService *service.QuizService) *QuizController {
	return &QuizController{QuizService: quizService}
}

func (c *QuizController) GetQuiz(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	courseID, ok := parseUintParam(ctx, "courseId")
	if !ok {
		return
	}
	quizID, ok := parseUintParam(ctx, "quizId")
	if !ok {
		return
	}

	view, err := c.QuizService.GetQuizForTaking(user.UserID, courseID, quizID)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
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

// SubmitQuizRequest maps question ids to the selected answer id. JSON object
// keys are strings, so ids arrive as strings and are parsed server side.
type SubmitQuizRequest struct {
	Answers map[string]uint `json:"answers" binding:"required"`
}

func (c *QuizController) SubmitQuiz(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	quizID, ok := parseUintParam(ctx, "quizId")
	if !ok {
		return
	}

	var req SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	answers := make(map[uint]uint, len(req.Answers))
	for key, answerID := range req.Answers {
		questionID, err := strconv.ParseUint(key, 10, 32)
		if err != nil {
			util.BadRequest(ctx, "invalid question id: "+key)
			return
		}
		answers[uint(questionID)] = answerID
	}

	result, err := c.QuizService.SubmitQuiz(user.UserID, quizID, answers)
	if err != nil {
		switch {
		case errors.Is(err, util.ErrQuizNotFound):
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
