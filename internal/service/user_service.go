package service

import (
	"ecolearn_backend/internal/model"
	"ecolearn_backend/internal/repository"
	"ecolearn_backend/internal/util"
	"errors"

	"gorm.io/gorm"
)

type UserService struct {
	UserRepo        *repository.UserRepository
	EnrollmentRepo  *repository.EnrollmentRepository
	AchievementRepo *repository.AchievementRepository
	ProgressRepo    *repository.ProgressRepository
}

func NewUserService(
	userRepo *repository.UserRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	achievementRepo *repository.AchievementRepository,
	progressRepo *repository.ProgressRepository,
) *UserService {
	return &UserService{
		UserRepo:        userRepo,
		EnrollmentRepo:  enrollmentRepo,
		AchievementRepo: achievementRepo,
		ProgressRepo:    progressRepo,
	}
}

func (s *UserService) GetUserByID(id uint) (*model.User, error) {
	user, err := s.UserRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrUserNotFound
		}
		return nil, err
	}
	return user, nil
}

// Profile is the user page payload: identity plus learning statistics.
type Profile struct {
	User               model.User             `json:"user"`
	CoursesCompleted   int                    `json:"coursesCompleted"`
	TotalEnrollments   int                    `json:"totalEnrollments"`
	AchievementsEarned int                    `json:"achievementsEarned"`
	LevelProgress      float64                `json:"levelProgress"`
	RecentActivity     []model.LessonProgress `json:"recentActivity"`
}

func (s *UserService) GetProfile(userID uint) (*Profile, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	completed, err := s.EnrollmentRepo.CountCompleted(userID)
	if err != nil {
		return nil, err
	}

	enrollments, err := s.EnrollmentRepo.ListByUser(userID)
	if err != nil {
		return nil, err
	}

	earned, err := s.AchievementRepo.CountEarned(userID)
	if err != nil {
		return nil, err
	}

	recent, err := s.ProgressRepo.ListRecentCompleted(userID, 10)
	if err != nil {
		return nil, err
	}

	return &Profile{
		User:               *user,
		CoursesCompleted:   int(completed),
		TotalEnrollments:   len(enrollments),
		AchievementsEarned: int(earned),
		LevelProgress:      LevelProgress(user.TotalPoints),
		RecentActivity:     recent,
	}, nil
}

// UpdateProfileRequest carries the self-service editable fields only.
type UpdateProfileRequest struct {
	Name   string `json:"name"`
	Bio    string `json:"bio"`
	Avatar string `json:"avatar"`
}

func (s *UserService) UpdateProfile(userID uint, req UpdateProfileRequest) (*model.User, error) {
	user, err := s.GetUserByID(userID)
	if err != nil {
		return nil, err
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	user.Bio = req.Bio
	if req.Avatar != "" {
		user.Avatar = req.Avatar
	}

	if err := s.UserRepo.Update(user); err != nil {
		return nil, err
	}
	return user, nil
}
