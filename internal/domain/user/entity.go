package user

import (
	"time"

	"github.com/google/uuid"
)

const DefaultAvatar = "https://res.cloudinary.com/dvagn6szo/image/upload/w_1000,c_fill,ar_1:1,g_auto,r_max,bo_5px_solid_red,b_rgb:262c35/v1697119285/profile-728591_640_iqw8jv.jpg"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents a user entity in the domain. PasswordHash is nil for
// OAuth-only accounts. RefreshToken holds the single active refresh token;
// issuing a new one overwrites it. ResetToken and ResetTokenExpiresAt are
// always set and cleared together.
type User struct {
	ID           uuid.UUID
	Username     string
	Email        string
	PasswordHash *string
	GoogleID     *string
	Avatar       string
	Role         string

	RefreshToken        *string
	ResetToken          *string
	ResetTokenExpiresAt *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasPassword reports whether the account can log in locally.
func (u *User) HasPassword() bool {
	return u.PasswordHash != nil && *u.PasswordHash != ""
}
