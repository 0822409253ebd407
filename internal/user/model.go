package user

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID `json:"id"`
	UserName     string    `json:"userName"`
	FirstName    *string   `json:"firstName,omitempty"`
	LastName     *string   `json:"lastName,omitempty"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose password hash in JSON
	Role         Role      `json:"role"`
	PhoneNumber  *string   `json:"phoneNumber,omitempty"`

	IsActive         bool       `json:"isActive"`
	IsLocked         bool       `json:"isLocked"`
	IsEmailConfirmed bool       `json:"isEmailConfirmed"`
	LockoutEnd       *time.Time `json:"-"`

	// Session state. RefreshToken and RefreshTokenExpiresAt are either
	// both nil or both set; same for the reset pair.
	RefreshToken          *string    `json:"-"`
	RefreshTokenExpiresAt *time.Time `json:"-"`
	ResetToken            *string    `json:"-"`
	ResetTokenExpiresAt   *time.Time `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// HasActiveSession reports whether a refresh token pair is currently set.
func (u *User) HasActiveSession() bool {
	return u.RefreshToken != nil && u.RefreshTokenExpiresAt != nil
}

// ClearRefreshToken clears both halves of the refresh token pair.
func (u *User) ClearRefreshToken() {
	u.RefreshToken = nil
	u.RefreshTokenExpiresAt = nil
}

// SetRefreshToken sets both halves of the refresh token pair.
func (u *User) SetRefreshToken(token string, expiresAt time.Time) {
	u.RefreshToken = &token
	u.RefreshTokenExpiresAt = &expiresAt
}

// ClearResetToken clears both halves of the reset token pair.
func (u *User) ClearResetToken() {
	u.ResetToken = nil
	u.ResetTokenExpiresAt = nil
}

// SetResetToken sets both halves of the reset token pair.
func (u *User) SetResetToken(token string, expiresAt time.Time) {
	u.ResetToken = &token
	u.ResetTokenExpiresAt = &expiresAt
}

// Profile is the public view of a user returned by the API.
type Profile struct {
	ID        uuid.UUID `json:"id"`
	UserName  string    `json:"userName"`
	Email     string    `json:"email"`
	FirstName *string   `json:"firstName,omitempty"`
	LastName  *string   `json:"lastName,omitempty"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToProfile maps a user to its public profile view.
func (u *User) ToProfile() *Profile {
	return &Profile{
		ID:        u.ID,
		UserName:  u.UserName,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}
