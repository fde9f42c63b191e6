package repository

import (
	"ecolearn_backend/internal/model"
	"time"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{DB: db}
}

func (r *UserRepository) Create(user *model.User) error {
	return r.DB.Create(user).Error
}

func (r *UserRepository) FindByID(id uint) (*model.User, error) {
	var user model.User
	err := r.DB.First(&user, id).Error
	return &user, err
}

func (r *UserRepository) FindByEmail(email string) (*model.User, error) {
	var user model.User
	err := r.DB.Where("email = ?", email).First(&user).Error
	return &user, err
}

func (r *UserRepository) Update(user *model.User) error {
	return r.DB.Save(user).Error
}

func (r *UserRepository) UpdateLastSeen(userID uint) error {
	return r.DB.Model(&model.User{}).
		Where("id = ?", userID).
		Update("last_activity", time.Now()).
		Error
}

// FindTopByPoints orders by points descending with id ascending as the
// deterministic tiebreak.
func (r *UserRepository) FindTopByPoints(limit int) ([]model.User, error) {
	var users []model.User
	err := r.DB.Order("total_points DESC, id ASC").Limit(limit).Find(&users).Error
	return users, err
}

// CountWithMorePoints backs rank computation: rank = 1 + count(points > mine),
// so tied users report the same rank.
func (r *UserRepository) CountWithMorePoints(points int) (int64, error) {
	var count int64
	err := r.DB.Model(&model.User{}).
		Where("total_points > ?", points).
		Count(&count).Error
	return count, err
}

func (r *UserRepository) Count() (int64, error) {
	var count int64
	err := r.DB.Model(&model.User{}).Count(&count).Error
	return count, err
}
