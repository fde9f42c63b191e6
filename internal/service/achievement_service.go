package service

import (
	"ecolearn_backend/internal/model"
	"ecolearn_backend/internal/repository"
	"ecolearn_backend/pkg/monitoring"
	"time"

	"gorm.io/gorm"
)

// achievementRule decides whether a catalog entry is earned given the user's
// current progression state.
type achievementRule func(user *model.User, completedCourses int64) bool

func pointsAtLeast(threshold int) achievementRule {
	return func(user *model.User, _ int64) bool {
		return user.TotalPoints >= threshold
	}
}

// achievementRules keys unlock predicates by catalog name. Catalog rows
// without a rule here are never auto-granted.
var achievementRules = map[string]achievementRule{
	"First Steps":          pointsAtLeast(100),
	"Knowledge Seeker":     pointsAtLeast(500),
	"Eco Warrior":          pointsAtLeast(1000),
	"Environmental Expert": pointsAtLeast(2500),
	"Green Champion": func(_ *model.User, completedCourses int64) bool {
		return completedCourses >= 5
	},
}

type AchievementService struct {
	AchievementRepo *repository.AchievementRepository
	EnrollmentRepo  *repository.EnrollmentRepository
	UserRepo        *repository.UserRepository
}

func NewAchievementService(
	achievementRepo *repository.AchievementRepository,
	enrollmentRepo *repository.EnrollmentRepository,
	userRepo *repository.UserRepository,
) *AchievementService {
	return &AchievementService{
		AchievementRepo: achievementRepo,
		EnrollmentRepo:  enrollmentRepo,
		UserRepo:        userRepo,
	}
}

// Evaluate grants every not-yet-earned achievement whose rule matches the
// user's current state and returns the newly earned entries. It runs inside
// the caller's transaction so grants commit with the points that triggered
// them. A concurrent duplicate grant is absorbed by the unique index.
func (s *AchievementService) Evaluate(tx *gorm.DB, user *model.User) ([]model.Achievement, error) {
	achievementRepo := repository.NewAchievementRepository(tx)
	enrollmentRepo := repository.NewEnrollmentRepository(tx)

	catalog, err := achievementRepo.ListCatalog()
	if err != nil {
		return nil, err
	}

	earned, err := achievementRepo.EarnedIDs(user.ID)
	if err != nil {
		return nil, err
	}

	completedCourses, err := enrollmentRepo.CountCompleted(user.ID)
	if err != nil {
		return nil, err
	}

	var newAchievements []model.Achievement
	for _, achievement := range catalog {
		if earned[achievement.ID] {
			continue
		}

		rule, ok := achievementRules[achievement.Name]
		if !ok || !rule(user, completedCourses) {
			continue
		}

		grant := model.UserAchievement{
			UserID:        user.ID,
			AchievementID: achievement.ID,
			EarnedAt:      time.Now(),
		}
		if err := tx.Create(&grant).Error; err != nil {
			if isDuplicateKey(err) {
				continue
			}
			return nil, err
		}

		monitoring.AchievementsUnlocked.Inc()
		newAchievements = append(newAchievements, achievement)
	}

	return newAchievements, nil
}

// BadgeStatus is a badge tier with the user's computed standing; never
// persisted per user.
type BadgeStatus struct {
	Badge    model.Badge `json:"badge"`
	Earned   bool        `json:"earned"`
	Progress float64     `json:"progress"`
}

// AchievementStatus flags which catalog entries the user has earned.
type AchievementStatus struct {
	model.Achievement
	Earned bool `json:"earned"`
}

type UserAchievements struct {
	TotalPoints  int                 `json:"totalPoints"`
	Achievements []AchievementStatus `json:"achievements"`
	Badges       []BadgeStatus       `json:"badges"`
}

// GetUserAchievements returns the whole catalog with earned flags plus badge
// tiers with progress computed from the user's points.
func (s *AchievementService) GetUserAchievements(userID uint) (*UserAchievements, error) {
	user, err := s.UserRepo.FindByID(userID)
	if err != nil {
		return nil, err
	}

	catalog, err := s.AchievementRepo.ListCatalog()
	if err != nil {
		return nil, err
	}

	earned, err := s.AchievementRepo.EarnedIDs(userID)
	if err != nil {
		return nil, err
	}

	statuses := make([]AchievementStatus, len(catalog))
	for i, achievement := range catalog {
		statuses[i] = AchievementStatus{
			Achievement: achievement,
			Earned:      earned[achievement.ID],
		}
	}

	badges, err := s.AchievementRepo.ListBadges()
	if err != nil {
		return nil, err
	}

	badgeStatuses := make([]BadgeStatus, len(badges))
	for i, badge := range badges {
		progress := 100.0
		if badge.PointsRequired > 0 {
			progress = float64(user.TotalPoints) / float64(badge.PointsRequired) * 100
			if progress > 100 {
				progress = 100
			}
		}
		badgeStatuses[i] = BadgeStatus{
			Badge:    badge,
			Earned:   user.TotalPoints >= badge.PointsRequired,
			Progress: progress,
		}
	}

	return &UserAchievements{
		TotalPoints:  user.TotalPoints,
		Achievements: statuses,
		Badges:       badgeStatuses,
	}, nil
}
