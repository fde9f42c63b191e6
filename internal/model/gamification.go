package model

import "time"

// Achievement is a catalog entry; earning one creates a UserAchievement.
type Achievement struct {
	BaseModel
	Name        string `gorm:"size:100;not null;unique" json:"name"`
	Description string `gorm:"size:255;not null" json:"description"`
	Icon        string `gorm:"size:50;default:'fa-award'" json:"icon"`
}

func (Achievement) TableName() string {
	return "achievements"
}

type UserAchievement struct {
	BaseModel
	UserID        uint      `gorm:"uniqueIndex:idx_user_achievement;not null" json:"userId"`
	AchievementID uint      `gorm:"uniqueIndex:idx_user_achievement;not null" json:"achievementId"`
	EarnedAt      time.Time `json:"earnedAt"`
}

func (UserAchievement) TableName() string {
	return "user_achievements"
}

// Badge tiers are never persisted per user; earned status is computed on read
// by comparing the user's points against PointsRequired.
type Badge struct {
	BaseModel
	Name           string `gorm:"size:100;not null;unique" json:"name"`
	Description    string `gorm:"size:255;not null" json:"description"`
	Icon           string `gorm:"size:50;default:'fa-medal'" json:"icon"`
	PointsRequired int    `gorm:"default:0" json:"pointsRequired"`
}

func (Badge) TableName() string {
	return "badges"
}
