package service

import (
	"ecolearn_backend/internal/model"
	"ecolearn_backend/internal/repository"
)

type DashboardService struct {
	UserRepo        *repository.UserRepository
	CourseRepo      *repository.CourseRepository
	EnrollmentRepo  *repository.EnrollmentRepository
	AchievementRepo *repository.AchievementRepository
	Progression     *ProgressionService
	Leaderboard     *LeaderboardService
}

func NewDashboardService(
	userRepo *repository.UserRepository,
	courseRepo *repository.CourseRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	achievementRepo *repository.AchievementRepository,
	progression *ProgressionService,
	leaderboard *LeaderboardService,
) *DashboardService {
	return &DashboardService{
		UserRepo:        userRepo,
		CourseRepo:      courseRepo,
		EnrollmentRepo:  enrollmentRepo,
		AchievementRepo: achievementRepo,
		Progression:     progression,
		Leaderboard:     leaderboard,
	}
}

// EnrollmentProgress decorates an enrollment with its live completion
// percentage.
type EnrollmentProgress struct {
	model.Enrollment
	ProgressPercentage float64 `json:"progressPercentage"`
}

type Dashboard struct {
	Enrollments        []EnrollmentProgress `json:"enrollments"`
	OverallProgress    float64              `json:"overallProgress"`
	Rank               int                  `json:"rank"`
	RecentAchievements []model.Achievement  `json:"recentAchievements"`
	TotalAchievements  int                  `json:"totalAchievements"`
}

func (s *DashboardService) GetDashboard(userID uint) (*Dashboard, error) {
	enrollments, err := s.EnrollmentRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	decorated := make([]EnrollmentProgress, len(enrollments))
	var progressSum float64
	for i, enrollment := range enrollments {
		percentage, err := s.Progression.CourseProgress(userID, enrollment.CourseID)
		if err != nil {
			return nil, err
		}
		decorated[i] = EnrollmentProgress{
			Enrollment:         enrollment,
			ProgressPercentage: percentage,
		}
		progressSum += percentage
	}

	var overall float64
	if len(enrollments) > 0 {
		overall = progressSum / float64(len(enrollments))
	}

	rank, err := s.Leaderboard.GetUserRank(userID)
	if err != nil {
		return nil, err
	}

	achievements, err := s.AchievementRepo.FindEarnedByUser(userID)
	if err != nil {
		return nil, err
	}
	recent := achievements
	if len(recent) > 5 {
		recent = recent[:5]
	}

	return &Dashboard{
		Enrollments:        decorated,
		OverallProgress:    overall,
		Rank:               rank,
		RecentAchievements: recent,
		TotalAchievements:  len(achievements),
	}, nil
}

// PlatformStats is the public home-page counter block.
type PlatformStats struct {
	TotalUsers       int64 `json:"totalUsers"`
	TotalCourses     int64 `json:"totalCourses"`
	TotalEnrollments int64 `json:"totalEnrollments"`
}

func (s *DashboardService) GetPlatformStats() (*PlatformStats, error) {
	users, err := s.UserRepo.Count()
	if err != nil {
		return nil, err
	}
	courses, err := s.CourseRepo.Count()
	if err != nil {
		return nil, err
	}
	enrollments, err := s.EnrollmentRepo.Count()
	if err != nil {
		return nil, err
	}

	return &PlatformStats{
		TotalUsers:       users,
		TotalCourses:     courses,
		TotalEnrollments: enrollments,
	}, nil
}
