package database

import (
	"ecolearn_backend/internal/config"
	"ecolearn_backend/internal/model"
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func InitDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=%s&parseTime=%t&loc=Local",
		cfg.User,
		cfg.Password,
		cfg.Host,
		cfg.Port,
		cfg.DBName,
		cfg.Charset,
		cfg.ParseTime,
	)

	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	})

	if err != nil {
		return nil, err
	}

	log.Println("Database connection established")
	return db, nil
}

// Migrate creates the schema, including the composite unique indexes that
// back the one-attempt-per-quiz and one-grant-per-achievement guarantees.
func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Course{},
		&model.Lesson{},
		&model.Quiz{},
		&model.Question{},
		&model.Answer{},
		&model.Enrollment{},
		&model.LessonProgress{},
		&model.QuizAttempt{},
		&model.Achievement{},
		&model.UserAchievement{},
		&model.Badge{},
	)
}

// SeedCatalogs inserts the achievement and badge catalogs when the tables are
// empty. Both are reference data; user-earned state lives elsewhere.
func SeedCatalogs(db *gorm.DB) error {
	var achievementCount int64
	db.Model(&model.Achievement{}).Count(&achievementCount)
	if achievementCount == 0 {
		defaultAchievements := []model.Achievement{
			{Name: "First Steps", Description: "Earn your first 100 points", Icon: "fa-baby-carriage"},
			{Name: "Knowledge Seeker", Description: "Earn 500 points", Icon: "fa-book"},
			{Name: "Eco Warrior", Description: "Earn 1000 points", Icon: "fa-shield-alt"},
			{Name: "Environmental Expert", Description: "Earn 2500 points", Icon: "fa-graduation-cap"},
			{Name: "Green Champion", Description: "Complete 5 courses", Icon: "fa-trophy"},
		}
		for _, a := range defaultAchievements {
			if err := db.Create(&a).Error; err != nil {
				return err
			}
		}
	}

	var badgeCount int64
	db.Model(&model.Badge{}).Count(&badgeCount)
	if badgeCount == 0 {
		defaultBadges := []model.Badge{
			{Name: "Beginner", Description: "Welcome to EcoLearn!", Icon: "fa-seedling", PointsRequired: 0},
			{Name: "Learner", Description: "You're making progress!", Icon: "fa-leaf", PointsRequired: 100},
			{Name: "Explorer", Description: "Keep exploring!", Icon: "fa-compass", PointsRequired: 500},
			{Name: "Expert", Description: "You're an expert!", Icon: "fa-medal", PointsRequired: 1500},
			{Name: "Master", Description: "Environmental master!", Icon: "fa-crown", PointsRequired: 3000},
		}
		for _, b := range defaultBadges {
			if err := db.Create(&b).Error; err != nil {
				return err
			}
		}
	}

	return nil
}
