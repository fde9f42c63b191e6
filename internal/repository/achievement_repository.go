package repository

import (
	"ecolearn_backend/internal/model"

	"gorm.io/gorm"
)

type AchievementRepository struct {
	DB *gorm.DB
}

func NewAchievementRepository(db *gorm.DB) *AchievementRepository {
	return &AchievementRepository{DB: db}
}

func (r *AchievementRepository) ListCatalog() ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := r.DB.Order("id ASC").Find(&achievements).Error
	return achievements, err
}

// FindEarnedByUser returns the catalog entries the user has unlocked, newest
// first.
func (r *AchievementRepository) FindEarnedByUser(userID uint) ([]model.Achievement, error) {
	var achievements []model.Achievement
	err := r.DB.
		Joins("JOIN user_achievements ON user_achievements.achievement_id = achievements.id").
		Where("user_achievements.user_id = ?", userID).
		Order("user_achievements.earned_at DESC").
		Find(&achievements).Error
	return achievements, err
}

func (r *AchievementRepository) EarnedIDs(userID uint) (map[uint]bool, error) {
	var rows []model.UserAchievement
	err := r.DB.Where("user_id = ?", userID).Find(&rows).Error
	if err != nil {
		return nil, err
	}

	ids := make(map[uint]bool, len(rows))
	for _, ua := range rows {
		ids[ua.AchievementID] = true
	}
	return ids, nil
}

func (r *AchievementRepository) CountEarned(userID uint) (int64, error) {
	var count int64
	err := r.DB.Model(&model.UserAchievement{}).
		Where("user_id = ?", userID).
		Count(&count).Error
	return count, err
}

func (r *AchievementRepository) ListBadges() ([]model.Badge, error) {
	var badges []model.Badge
	err := r.DB.Order("points_required ASC").Find(&badges).Error
	return badges, err
}
