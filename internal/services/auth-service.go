package services

import (
	"encoding/json"
	"errors"
	"log"
	"net/mail"
	"strings"
	"time"

	"github.com/IngrediSense/auth_service/internal/apperr"
	"github.com/IngrediSense/auth_service/internal/domain"
	"github.com/IngrediSense/auth_service/internal/dto"
	"github.com/IngrediSense/auth_service/internal/helper"
	"github.com/IngrediSense/auth_service/internal/interfaces"
	"github.com/IngrediSense/auth_service/internal/repository"
	"github.com/google/uuid"
)

type AuthService interface {
	Register(input dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(input dto.LoginRequest) (*dto.AuthResponse, error)
	GetSelf(userID uint) (*dto.UserResponse, error)
	UpdateProfile(userID uint, input dto.UpdateProfileRequest) (*dto.UserResponse, error)
	ChangePassword(userID uint, input dto.ChangePasswordRequest) error
	DeleteAccount(userID uint, password string) error
	RefreshTokens(refreshToken string) (*dto.TokenPair, error)
}

type authService struct {
	repo     repository.UserRepository
	auth     helper.Auth
	producer interfaces.ProducerHandler
}

func NewAuthService(repo repository.UserRepository, auth helper.Auth, producer interfaces.ProducerHandler) AuthService {
	return &authService{
		repo:     repo,
		auth:     auth,
		producer: producer,
	}
}

func (s *authService) Register(input dto.RegisterRequest) (*dto.AuthResponse, error) {
	name := strings.TrimSpace(input.Name)
	email := strings.TrimSpace(strings.ToLower(input.Email))

	if len(name) < 2 || len(name) > 50 {
		return nil, apperr.New(apperr.BadRequest, "Name must be between 2 and 50 characters")
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, apperr.New(apperr.BadRequest, "Please provide a valid email address")
	}
	if len(input.Password) < 8 {
		return nil, apperr.New(apperr.BadRequest, "Password must be at least 8 characters long")
	}

	user, err := s.repo.CreateUser(name, email, input.Password)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return nil, apperr.New(apperr.Conflict, "Email already registered. Please use a different email or login.")
		}
		return nil, err
	}

	accessToken, refreshToken, err := s.auth.IssuePair(user.ID)
	if err != nil {
		return nil, err
	}

	log.Printf("new user registered: %s", user.Email)
	s.publishEvent(dto.EventUserRegistered, user)

	return &dto.AuthResponse{
		User:         sanitize(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *authService) Login(input dto.LoginRequest) (*dto.AuthResponse, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))

	// Same message for unknown email and wrong password so callers cannot
	// enumerate accounts.
	user, err := s.repo.FindUserByEmail(email)
	if err != nil || !s.repo.MatchPassword(user, input.Password) {
		return nil, apperr.New(apperr.Unauthorized, "Invalid email or password")
	}

	accessToken, refreshToken, err := s.auth.IssuePair(user.ID)
	if err != nil {
		return nil, err
	}

	log.Printf("user logged in: %s", user.Email)

	return &dto.AuthResponse{
		User:         sanitize(user),
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

func (s *authService) GetSelf(userID uint) (*dto.UserResponse, error) {
	user, err := s.repo.FindUserById(userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.New(apperr.NotFound, "User not found")
		}
		return nil, err
	}
	view := sanitize(user)
	return &view, nil
}

func (s *authService) UpdateProfile(userID uint, input dto.UpdateProfileRequest) (*dto.UserResponse, error) {
	user, err := s.repo.FindUserById(userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.New(apperr.NotFound, "User not found")
		}
		return nil, err
	}

	if name := strings.TrimSpace(input.Name); name != "" {
		if len(name) < 2 || len(name) > 50 {
			return nil, apperr.New(apperr.BadRequest, "Name must be between 2 and 50 characters")
		}
		user.Name = name
	}

	if email := strings.TrimSpace(strings.ToLower(input.Email)); email != "" && email != user.Email {
		if _, err := mail.ParseAddress(email); err != nil {
			return nil, apperr.New(apperr.BadRequest, "Please provide a valid email address")
		}
		other, err := s.repo.FindUserByEmail(email)
		if err == nil && other.ID != user.ID {
			return nil, apperr.New(apperr.Conflict, "Email already in use by another account")
		}
		if err != nil && !errors.Is(err, repository.ErrUserNotFound) {
			return nil, err
		}
		user.Email = email
	}

	if avatar := strings.TrimSpace(input.Avatar); avatar != "" {
		user.Avatar = avatar
	}

	if err := s.repo.SaveUser(user); err != nil {
		return nil, err
	}

	log.Printf("user profile updated: %s", user.Email)
	view := sanitize(user)
	return &view, nil
}

func (s *authService) ChangePassword(userID uint, input dto.ChangePasswordRequest) error {
	user, err := s.repo.FindUserById(userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperr.New(apperr.NotFound, "User not found")
		}
		return err
	}

	if !s.repo.MatchPassword(user, input.CurrentPassword) {
		return apperr.New(apperr.Unauthorized, "Current password is incorrect")
	}

	if len(input.NewPassword) < 8 {
		return apperr.New(apperr.BadRequest, "Password must be at least 8 characters long")
	}

	// Hash-compare, not string equality: the stored value is a hash.
	if s.repo.MatchPassword(user, input.NewPassword) {
		return apperr.New(apperr.BadRequest, "New password must be different from current password")
	}

	if err := s.repo.UpdatePassword(user, input.NewPassword); err != nil {
		return err
	}

	log.Printf("password changed for user: %s", user.Email)
	s.publishEvent(dto.EventUserPasswordChanged, user)
	return nil
}

func (s *authService) DeleteAccount(userID uint, password string) error {
	user, err := s.repo.FindUserById(userID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return apperr.New(apperr.NotFound, "User not found")
		}
		return err
	}

	if !s.repo.MatchPassword(user, password) {
		return apperr.New(apperr.Unauthorized, "Incorrect password. Account deletion failed.")
	}

	if err := s.repo.DeleteUser(user.ID); err != nil {
		return err
	}

	log.Printf("account deleted: %s", user.Email)
	s.publishEvent(dto.EventUserDeleted, user)
	return nil
}

func (s *authService) RefreshTokens(refreshToken string) (*dto.TokenPair, error) {
	claims, err := s.auth.VerifyRefresh(refreshToken)
	if err != nil {
		log.Printf("refresh token verification failed: %v", err)
		return nil, apperr.New(apperr.Unauthorized, "Invalid or expired refresh token")
	}

	user, err := s.repo.FindUserById(claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return nil, apperr.New(apperr.NotFound, "User not found")
		}
		return nil, err
	}

	// Rotation without a blacklist: the old refresh token simply ages out.
	accessToken, newRefreshToken, err := s.auth.IssuePair(user.ID)
	if err != nil {
		return nil, err
	}

	log.Printf("access token refreshed for user: %s", user.Email)

	return &dto.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: newRefreshToken,
	}, nil
}

func (s *authService) publishEvent(key string, user *domain.User) {
	if s.producer == nil {
		return
	}

	payload, err := json.Marshal(dto.UserEvent{
		EventID:    uuid.New().String(),
		UserID:     user.ID,
		Email:      user.Email,
		OccurredAt: time.Now(),
	})
	if err != nil {
		return
	}

	// Best effort: a broker outage must never fail the request.
	if err := s.producer.PublishMessage([]byte(key), payload); err != nil {
		log.Printf("publish %s event failed: %v", key, err)
	}
}

func sanitize(user *domain.User) dto.UserResponse {
	return dto.UserResponse{
		ID:              user.ID,
		Name:            user.Name,
		Email:           user.Email,
		Avatar:          user.Avatar,
		Role:            user.Role,
		IsEmailVerified: user.IsEmailVerified,
		CreatedAt:       user.CreatedAt,
		UpdatedAt:       user.UpdatedAt,
	}
}
