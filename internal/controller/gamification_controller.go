package controller

import (
	"ecolearn_backend/internal/service"
	"ecolearn_backend/internal/util"
	"strconv"

	"github.com/gin-gonic/gin"
)

type GamificationController struct {
	Leaderboard  *service.LeaderboardService
	Achievements *service.AchievementService
}

func NewGamificationController(leaderboard *service.LeaderboardService, achievements *service.AchievementService) *GamificationController {
	return &GamificationController{
		Leaderboard:  leaderboard,
		Achievements: achievements,
	}
}

func (c *GamificationController) GetLeaderboard(ctx *gin.Context) {
	limit, _ := strconv.Atoi(ctx.DefaultQuery("limit", strconv.Itoa(util.DefaultLeaderboardLimit)))
	if limit < 1 || limit > util.MaxLeaderboardLimit {
		limit = util.DefaultLeaderboardLimit
	}

	entries, err := c.Leaderboard.GetLeaderboard(ctx.Request.Context(), limit)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"leaderboard": entries})
}

func (c *GamificationController) GetMyRank(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	rank, err := c.Leaderboard.GetUserRank(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{"rank": rank})
}

func (c *GamificationController) GetMyAchievements(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	achievements, err := c.Achievements.GetUserAchievements(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, achievements)
}

func (c *GamificationController) GetMyStats(ctx *gin.Context) {
	user := util.GetUserFromContext(ctx)
	if user == nil {
		util.Unauthorized(ctx)
		return
	}

	stats, err := c.Leaderboard.GetUserStats(user.UserID)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}

	util.Success(ctx, stats)
}
