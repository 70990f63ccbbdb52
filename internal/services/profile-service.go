package services

import (
	"errors"

	"github.com/IngrediSense/auth_service/internal/domain"
	"github.com/IngrediSense/auth_service/internal/dto"
	"github.com/IngrediSense/auth_service/internal/repository"
)

type ProfileService interface {
	GetHealthProfile(userID uint) (*dto.HealthProfileResponse, error)
	UpdateHealthProfile(userID uint, input dto.UpdateHealthProfileRequest) (*dto.HealthProfileResponse, error)
}

type profileService struct {
	repo repository.HealthProfileRepository
}

func NewProfileService(repo repository.HealthProfileRepository) ProfileService {
	return &profileService{repo: repo}
}

// GetHealthProfile returns the stored profile, or an empty shape when the
// user has never saved one (no record is created by reading).
func (s *profileService) GetHealthProfile(userID uint) (*dto.HealthProfileResponse, error) {
	profile, err := s.repo.FindByUserId(userID)
	if err != nil {
		if errors.Is(err, repository.ErrProfileNotFound) {
			return emptyProfile(), nil
		}
		return nil, err
	}
	return toProfileResponse(profile), nil
}

func (s *profileService) UpdateHealthProfile(userID uint, input dto.UpdateHealthProfileRequest) (*dto.HealthProfileResponse, error) {
	profile := &domain.HealthProfile{
		UserID:     userID,
		Allergies:  orEmpty(input.Allergies),
		Conditions: orEmpty(input.Conditions),
		Diets:      orEmpty(input.Diets),
		Goals:      orEmpty(input.Goals),
		Stats:      input.Stats,
	}
	if profile.Stats == nil {
		profile.Stats = map[string]string{}
	}

	// Completed as soon as any list carries data.
	profile.ProfileCompleted = len(profile.Allergies) > 0 ||
		len(profile.Conditions) > 0 ||
		len(profile.Diets) > 0 ||
		len(profile.Goals) > 0

	saved, err := s.repo.Upsert(profile)
	if err != nil {
		return nil, err
	}
	return toProfileResponse(saved), nil
}

func emptyProfile() *dto.HealthProfileResponse {
	return &dto.HealthProfileResponse{
		Allergies:  []string{},
		Conditions: []string{},
		Diets:      []string{},
		Goals:      []string{},
		Stats:      map[string]string{},
	}
}

func toProfileResponse(p *domain.HealthProfile) *dto.HealthProfileResponse {
	if p.Stats == nil {
		p.Stats = map[string]string{}
	}
	return &dto.HealthProfileResponse{
		Allergies:        orEmpty(p.Allergies),
		Conditions:       orEmpty(p.Conditions),
		Diets:            orEmpty(p.Diets),
		Goals:            orEmpty(p.Goals),
		Stats:            p.Stats,
		ProfileCompleted: p.ProfileCompleted,
	}
}

func orEmpty(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
