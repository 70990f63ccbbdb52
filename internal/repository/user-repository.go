package repository

import (
	"errors"
	"log"
	"strings"
	"time"

	"github.com/IngrediSense/auth_service/internal/domain"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrDuplicateEmail = errors.New("email already registered")
	ErrUserNotFound   = errors.New("user not found")
)

// UserRepository is the credential store. Hashing happens only inside
// CreateUser and UpdatePassword; saving a user for unrelated fields never
// touches the stored hash.
type UserRepository interface {
	CreateUser(name, email, rawPassword string) (*domain.User, error)
	FindUserByEmail(email string) (*domain.User, error)
	FindUserById(userID uint) (*domain.User, error)
	SaveUser(user *domain.User) error
	MatchPassword(user *domain.User, candidate string) bool
	UpdatePassword(user *domain.User, newRawPassword string) error
	DeleteUser(userID uint) error
}

type userRepository struct {
	db   *gorm.DB
	cost int
}

func NewUserRepository(db *gorm.DB, bcryptCost int) UserRepository {
	if bcryptCost < bcrypt.MinCost || bcryptCost > bcrypt.MaxCost {
		bcryptCost = 12
	}
	return &userRepository{db: db, cost: bcryptCost}
}

func (r *userRepository) CreateUser(name, email, rawPassword string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	var count int64
	if err := r.db.Model(&domain.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		log.Printf("check duplicate email error: %v", err)
		return nil, err
	}
	if count > 0 {
		return nil, ErrDuplicateEmail
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(rawPassword), r.cost)
	if err != nil {
		return nil, err
	}

	user := &domain.User{
		Name:     strings.TrimSpace(name),
		Email:    email,
		Password: string(hash),
		Avatar:   domain.DefaultAvatar,
		Role:     domain.RoleUser,
	}

	if err := r.db.Create(user).Error; err != nil {
		log.Printf("create user error: %v", err)
		return nil, err
	}

	return user, nil
}

func (r *userRepository) FindUserByEmail(email string) (*domain.User, error) {
	email = strings.TrimSpace(strings.ToLower(email))

	user := &domain.User{}
	if err := r.db.First(user, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		log.Printf("find user by email error: %v", err)
		return nil, err
	}

	return user, nil
}

func (r *userRepository) FindUserById(userID uint) (*domain.User, error) {
	user := &domain.User{}
	if err := r.db.First(user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		log.Printf("find user by id error: %v", err)
		return nil, err
	}

	return user, nil
}

func (r *userRepository) SaveUser(user *domain.User) error {
	if user == nil {
		return errors.New("nil user")
	}

	if err := r.db.Save(user).Error; err != nil {
		log.Printf("save user error: %v", err)
		return err
	}
	return nil
}

func (r *userRepository) MatchPassword(user *domain.User, candidate string) bool {
	if user == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(candidate)) == nil
}

// UpdatePassword re-hashes and back-dates PasswordChangedAt by one second so
// a token minted in the very same request is already considered stale.
func (r *userRepository) UpdatePassword(user *domain.User, newRawPassword string) error {
	if user == nil {
		return errors.New("nil user")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newRawPassword), r.cost)
	if err != nil {
		return err
	}

	changedAt := time.Now().Add(-time.Second)
	updates := map[string]interface{}{
		"password":            string(hash),
		"password_changed_at": changedAt,
	}
	if err := r.db.Model(user).Updates(updates).Error; err != nil {
		log.Printf("update password error: %v", err)
		return err
	}

	user.Password = string(hash)
	user.PasswordChangedAt = &changedAt
	return nil
}

func (r *userRepository) DeleteUser(userID uint) error {
	res := r.db.Delete(&domain.User{}, userID)
	if res.Error != nil {
		log.Printf("delete user error: %v", res.Error)
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}
