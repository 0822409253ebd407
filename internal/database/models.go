package database

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// User is the database row model for the users table
type User struct {
	bun.BaseModel `bun:"table:users,alias:u"`

	ID           uuid.UUID `bun:"id,pk,type:uuid,default:gen_random_uuid()"`
	UserName     string    `bun:"user_name,notnull"`
	FirstName    *string   `bun:"first_name"`
	LastName     *string   `bun:"last_name"`
	Email        string    `bun:"email,notnull,unique"`
	PasswordHash string    `bun:"password_hash,notnull"`
	Role         string    `bun:"role,notnull,default:'User'"`
	PhoneNumber  *string   `bun:"phone_number"`

	IsActive         bool       `bun:"is_active,notnull,default:true"`
	IsLocked         bool       `bun:"is_locked,notnull,default:false"`
	IsEmailConfirmed bool       `bun:"is_email_confirmed,notnull,default:false"`
	LockoutEnd       *time.Time `bun:"lockout_end"`

	// Refresh and reset token pairs live on the user row; each pair is
	// either both null or both set.
	RefreshToken          *string    `bun:"refresh_token"`
	RefreshTokenExpiresAt *time.Time `bun:"refresh_token_expires_at"`
	ResetToken            *string    `bun:"reset_token"`
	ResetTokenExpiresAt   *time.Time `bun:"reset_token_expires_at"`

	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp"`
	UpdatedAt time.Time `bun:"updated_at,nullzero"`
}
