package model

import (
	"time"
)

type UserRole string

const (
	Student  UserRole = "student"
	Educator UserRole = "educator"
	Admin    UserRole = "admin"
)

// User carries both identity and the gamification counters. TotalPoints only
// grows through normal flow; Level is derived from TotalPoints but stored so
// leaderboard reads never recompute it.
type User struct {
	BaseModel
	Name         string    `gorm:"size:100;not null" json:"name"`
	Email        string    `gorm:"size:120;unique;not null" json:"email"`
	Password     string    `gorm:"size:100;not null" json:"-"`
	Bio          string    `gorm:"type:text" json:"bio"`
	Avatar       string    `gorm:"size:255" json:"avatar"`
	Role         UserRole  `gorm:"size:20;default:'student'" json:"role"`
	Disabled     bool      `gorm:"default:false" json:"disabled"`
	TotalPoints  int       `gorm:"default:0;index" json:"totalPoints"`
	Level        int       `gorm:"default:1" json:"level"`
	StreakDays   int       `gorm:"default:0" json:"streakDays"`
	LastActivity time.Time `json:"lastActivity"`
	LastLogin    time.Time `json:"lastLogin"`
}

func (User) TableName() string {
	return "users"
}
