package app

import (
	"ecolearn_backend/internal/config"
	"ecolearn_backend/internal/middleware"
	"ecolearn_backend/internal/model"
	"ecolearn_backend/pkg/monitoring"

	"github.com/gin-gonic/gin"
)

func (a *App) registerRoutes(router *gin.Engine, c *controllers, repos *repositories, cfg *config.Config) {
	router.Use(middleware.RequestID())
	router.Use(middleware.RequestLogger())

	router.GET("/metrics", monitoring.PrometheusHandler())

	a.registerPublicRoutes(router, c)

	authGroup := router.Group("/api")
	authGroup.Use(middleware.AuthMiddleware(cfg), middleware.ActivityMiddleware(repos.user))
	{
		a.registerLearnerRoutes(authGroup, c)
		a.registerAdminRoutes(authGroup, c)
	}
}

func (a *App) registerPublicRoutes(router *gin.Engine, c *controllers) {
	public := router.Group("/api")
	{
		public.GET("/health", c.health.Health)
		public.POST("/register", c.auth.Register)
		public.POST("/login", c.auth.Login)
		public.GET("/search", c.course.Search)
		public.GET("/stats", c.dashboard.GetPlatformStats)
		public.GET("/leaderboard", c.gamification.GetLeaderboard)
	}
}

func (a *App) registerLearnerRoutes(rg *gin.RouterGroup, c *controllers) {
	rg.GET("/profile", c.user.GetProfile)
	rg.PUT("/profile", c.user.UpdateProfile)
	rg.GET("/dashboard", c.dashboard.GetDashboard)

	// Course catalog and learning flow
	rg.GET("/courses", c.course.ListCourses)
	rg.GET("/courses/:courseId", c.course.GetCourse)
	rg.POST("/courses/:courseId/enroll", c.course.Enroll)
	rg.GET("/courses/:courseId/progress", c.learning.GetCourseProgress)
	rg.GET("/courses/:courseId/lessons/:lessonId", c.course.GetLesson)
	rg.POST("/lessons/:lessonId/progress", c.learning.UpdateLessonProgress)

	// Quizzes
	rg.GET("/courses/:courseId/quizzes/:quizId", c.quiz.GetQuiz)
	rg.POST("/quizzes/:quizId/submit", c.quiz.SubmitQuiz)

	// Gamification
	gamification := rg.Group("/gamification")
	{
		gamification.GET("/leaderboard", c.gamification.GetLeaderboard)
		gamification.GET("/rank", c.gamification.GetMyRank)
		gamification.GET("/achievements", c.gamification.GetMyAchievements)
		gamification.GET("/stats", c.gamification.GetMyStats)
	}
}

func (a *App) registerAdminRoutes(rg *gin.RouterGroup, c *controllers) {
	admin := rg.Group("/admin")
	admin.Use(middleware.RoleMiddleware(model.Educator))
	{
		admin.POST("/courses", c.content.CreateCourse)
		admin.PUT("/courses/:courseId", c.content.UpdateCourse)
		admin.POST("/courses/:courseId/lessons", c.content.CreateLesson)
		admin.POST("/courses/:courseId/quizzes", c.content.CreateQuiz)
	}
}
