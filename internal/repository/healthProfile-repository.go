package repository

import (
	"errors"
	"log"

	"github.com/IngrediSense/auth_service/internal/domain"
	"gorm.io/gorm"
)

var ErrProfileNotFound = errors.New("health profile not found")

type HealthProfileRepository interface {
	FindByUserId(userID uint) (*domain.HealthProfile, error)
	Upsert(profile *domain.HealthProfile) (*domain.HealthProfile, error)
	DeleteByUserId(userID uint) error
}

type healthProfileRepository struct {
	db *gorm.DB
}

func NewHealthProfileRepository(db *gorm.DB) HealthProfileRepository {
	return &healthProfileRepository{db: db}
}

func (r *healthProfileRepository) FindByUserId(userID uint) (*domain.HealthProfile, error) {
	profile := &domain.HealthProfile{}
	if err := r.db.First(profile, "user_id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProfileNotFound
		}
		log.Printf("find health profile error: %v", err)
		return nil, err
	}
	return profile, nil
}

func (r *healthProfileRepository) Upsert(profile *domain.HealthProfile) (*domain.HealthProfile, error) {
	if profile == nil {
		return nil, errors.New("nil profile")
	}

	existing := &domain.HealthProfile{}
	err := r.db.First(existing, "user_id = ?", profile.UserID).Error
	switch {
	case err == nil:
		profile.ID = existing.ID
		profile.CreatedAt = existing.CreatedAt
		if err := r.db.Save(profile).Error; err != nil {
			log.Printf("update health profile error: %v", err)
			return nil, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := r.db.Create(profile).Error; err != nil {
			log.Printf("create health profile error: %v", err)
			return nil, err
		}
	default:
		log.Printf("upsert health profile error: %v", err)
		return nil, err
	}

	return profile, nil
}

func (r *healthProfileRepository) DeleteByUserId(userID uint) error {
	if err := r.db.Where("user_id = ?", userID).Delete(&domain.HealthProfile{}).Error; err != nil {
		log.Printf("delete health profile error: %v", err)
		return err
	}
	return nil
}
