package domain

import "time"

const DefaultAvatar = "https://via.placeholder.com/150"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Name     string `gorm:"size:50;not null" json:"name"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Avatar   string `json:"avatar"`
	Role     string `gorm:"type:varchar(20);not null;default:user" json:"role"`

	IsEmailVerified bool `gorm:"not null;default:false" json:"isEmailVerified"`

	// PasswordChangedAt stays nil until the first password change after
	// creation; tokens issued before it are rejected by the auth middleware.
	PasswordChangedAt    *time.Time `json:"-"`
	PasswordResetToken   string     `json:"-"`
	PasswordResetExpires *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ChangedPasswordAfter reports whether the password was changed after the
// given token issue time. Comparison is at second precision because JWT
// issued-at claims carry seconds.
func (u *User) ChangedPasswordAfter(issuedAt time.Time) bool {
	if u.PasswordChangedAt == nil {
		return false
	}
	return issuedAt.Unix() < u.PasswordChangedAt.Unix()
}
