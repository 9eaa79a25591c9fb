package user

import (
	"github.com/google/uuid"

	domainTask "taskboard/internal/domain/task"
	domainUser "taskboard/internal/domain/user"
)

type RegisterRequest struct {
	Username string `json:"username" validate:"required,min=1,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=4"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	CurrentRefreshToken string `json:"currentRefreshToken" validate:"required"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" validate:"required"`
	NewPassword string `json:"newPassword" validate:"required,min=4"`
}

// UpdateProfileRequest carries the existing-fields-only partial update.
// A nil field is left untouched; Password goes through the hash path.
type UpdateProfileRequest struct {
	Username *string `json:"username" validate:"omitempty,min=1,max=100"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Avatar   *string `json:"avatar" validate:"omitempty,url"`
	Password *string `json:"password" validate:"omitempty,min=4"`
}

type OAuthSignInInput struct {
	Email      string
	GivenName  string
	FamilyName string
	SubjectID  string
	Picture    string
}

// UserResponse is the external representation of a user: no password hash, no
// tokens, no bookkeeping timestamps.
type UserResponse struct {
	ID       uuid.UUID         `json:"id"`
	Username string            `json:"username"`
	Email    string            `json:"email"`
	Avatar   string            `json:"avatar"`
	Role     string            `json:"role"`
	Tasks    *domainTask.Board `json:"tasks,omitempty"`
}

func ToUserResponse(u *domainUser.User) *UserResponse {
	if u == nil {
		return nil
	}
	return &UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
		Avatar:   u.Avatar,
		Role:     u.Role,
	}
}
