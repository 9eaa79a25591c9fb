package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"taskboard/internal/config"
	domainTask "taskboard/internal/domain/task"
	domainUser "taskboard/internal/domain/user"
	"taskboard/internal/logger"
	"taskboard/internal/mail"
	appErrors "taskboard/pkg/errors"
	"taskboard/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

const resetTokenTTL = 1 * time.Hour

// Mailer is the transactional email capability the reset flow consumes.
type Mailer interface {
	Send(msg *mail.Message) error
}

// Service implements account, session and password reset use cases
type Service struct {
	userRepo domainUser.Repository
	taskRepo domainTask.Repository
	mailer   Mailer
	config   *config.Config
}

func NewService(
	userRepo domainUser.Repository,
	taskRepo domainTask.Repository,
	mailer Mailer,
	cfg *config.Config,
) *Service {
	return &Service{
		userRepo: userRepo,
		taskRepo: taskRepo,
		mailer:   mailer,
		config:   cfg,
	}
}

func (s *Service) Register(ctx context.Context, req *RegisterRequest) (*UserResponse, error) {
	req.Email = utils.SanitizeEmail(req.Email)

	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	existing, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil && !errors.Is(err, domainUser.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		logger.Warn("Registration attempt with existing email",
			zap.String("email", req.Email),
			zap.String("event", "registration_failed_duplicate_email"),
		)
		return nil, domainUser.ErrEmailAlreadyInUse
	}

	// Hash before write. Every path that sets a password does this
	// explicitly; there is no persistence hook.
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domainUser.User{
		Username:     req.Username,
		Email:        req.Email,
		PasswordHash: &hashedPassword,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	logger.Info("User registered",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.String("event", "user_registered"),
	)

	return ToUserResponse(user), nil
}

func (s *Service) Login(ctx context.Context, req *LoginRequest) (*utils.TokenPair, error) {
	req.Email = utils.SanitizeEmail(req.Email)

	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	user, err := s.checkCredentials(ctx, req.Email, req.Password)
	if err != nil {
		return nil, err
	}
	if user == nil {
		// Unknown email and wrong password collapse into one answer so the
		// response never reveals which part was wrong.
		logger.Warn("Login failed",
			zap.String("email", req.Email),
			zap.String("event", "login_failed"),
		)
		return nil, appErrors.ErrInvalidCredentials
	}

	pair, err := s.createTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	logger.Info("User logged in",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.String("event", "login_success"),
	)

	return pair, nil
}

// checkCredentials returns the user only when the email resolves, a password
// hash exists and it matches; every mismatch returns nil, not an error.
func (s *Service) checkCredentials(ctx context.Context, email, password string) (*domainUser.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if !user.HasPassword() {
		return nil, nil
	}
	if !utils.CheckPassword(*user.PasswordHash, password) {
		return nil, nil
	}

	return user, nil
}

func (s *Service) Logout(ctx context.Context, userID uuid.UUID) error {
	if err := s.userRepo.SetRefreshToken(ctx, userID, ""); err != nil {
		return err
	}

	logger.Info("User logged out",
		zap.String("user_id", userID.String()),
		zap.String("event", "logout"),
	)
	return nil
}

// createTokenPair issues both tokens and persists the refresh token on the
// user record. That write is what makes the new refresh token the only valid
// one.
func (s *Service) createTokenPair(ctx context.Context, user *domainUser.User) (*utils.TokenPair, error) {
	accessToken, err := utils.GenerateAccessToken(user.ID, user.Role, s.config.JWT.AccessSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := utils.GenerateRefreshToken(user.ID, s.config.JWT.RefreshSecret)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.userRepo.SetRefreshToken(ctx, user.ID, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &utils.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh rotates a refresh token: the presented token must verify and match
// the stored one, and succeeding invalidates it by storing its replacement.
func (s *Service) Refresh(ctx context.Context, currentRefreshToken string) (*utils.TokenPair, error) {
	claims, err := utils.ValidateToken(currentRefreshToken, s.config.JWT.RefreshSecret)
	if err != nil {
		logger.Warn("Refresh attempt with invalid token",
			zap.String("event", "token_refresh_failed_invalid_token"),
			zap.Error(err),
		)
		return nil, appErrors.ErrLoginRequired
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return nil, domainUser.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if user.RefreshToken == nil || *user.RefreshToken != currentRefreshToken {
		// A superseded token was replayed. Valid signature, but it is no
		// longer the stored one.
		logger.Warn("Refresh attempt with superseded token",
			zap.String("user_id", user.ID.String()),
			zap.String("event", "token_refresh_failed_superseded"),
		)
		return nil, appErrors.ErrLoginRequired
	}

	pair, err := s.createTokenPair(ctx, user)
	if err != nil {
		return nil, err
	}

	logger.Info("Token pair rotated",
		zap.String("user_id", user.ID.String()),
		zap.String("event", "token_refresh_success"),
	)

	return pair, nil
}

// OAuthSignIn logs in the user matching the verified email, creating the
// account on first login. OAuth accounts carry no password hash.
func (s *Service) OAuthSignIn(ctx context.Context, input OAuthSignInInput) (*utils.TokenPair, error) {
	// Provider emails arrive in whatever casing the account was created
	// with; stored emails are always lowercased.
	input.Email = utils.SanitizeEmail(input.Email)

	user, err := s.userRepo.GetByEmail(ctx, input.Email)
	if err != nil && !errors.Is(err, domainUser.ErrUserNotFound) {
		return nil, fmt.Errorf("failed to retrieve user: %w", err)
	}

	if user == nil {
		username := input.GivenName
		if input.FamilyName != "" {
			username = input.GivenName + " " + input.FamilyName
		}

		user = &domainUser.User{
			Username: username,
			Email:    input.Email,
			GoogleID: &input.SubjectID,
		}
		if input.Picture != "" {
			user.Avatar = input.Picture
		}

		if err := s.userRepo.Create(ctx, user); err != nil {
			return nil, err
		}

		logger.Info("User created from OAuth login",
			zap.String("user_id", user.ID.String()),
			zap.String("email", user.Email),
			zap.String("event", "oauth_user_created"),
		)
	}

	return s.createTokenPair(ctx, user)
}

// GetProfile returns the user with the dereferenced board.
func (s *Service) GetProfile(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	board, err := s.taskRepo.GetBoard(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp := ToUserResponse(user)
	resp.Tasks = board
	return resp, nil
}

// UpdateProfile applies a partial update restricted to fields the user record
// already has. The password field passes through the hash path.
func (s *Service) UpdateProfile(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*UserResponse, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.Username != nil {
		user.Username = utils.SanitizeString(*req.Username)
	}
	if req.Email != nil {
		user.Email = utils.SanitizeEmail(*req.Email)
	}
	if req.Avatar != nil {
		user.Avatar = utils.SanitizeURL(*req.Avatar)
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}

	if req.Password != nil {
		hashedPassword, err := utils.HashPassword(*req.Password)
		if err != nil {
			return nil, fmt.Errorf("failed to hash password: %w", err)
		}
		if err := s.userRepo.UpdatePassword(ctx, userID, hashedPassword); err != nil {
			return nil, err
		}
	}

	logger.Info("Profile updated",
		zap.String("user_id", userID.String()),
		zap.Bool("password_changed", req.Password != nil),
		zap.String("event", "profile_updated"),
	)

	return ToUserResponse(user), nil
}

func (s *Service) GetAllUsers(ctx context.Context) ([]*UserResponse, error) {
	users, err := s.userRepo.GetAll(ctx)
	if err != nil {
		return nil, err
	}

	responses := make([]*UserResponse, 0, len(users))
	for _, u := range users {
		responses = append(responses, ToUserResponse(u))
	}

	return responses, nil
}

func (s *Service) GetUser(ctx context.Context, userID uuid.UUID) (*UserResponse, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	return ToUserResponse(user), nil
}

// RequestPasswordReset issues a time-boxed single-use reset token and mails
// the reset link.
func (s *Service) RequestPasswordReset(ctx context.Context, req *ForgotPasswordRequest) error {
	req.Email = utils.SanitizeEmail(req.Email)

	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, domainUser.ErrUserNotFound) {
			return domainUser.ErrUserNotFound
		}
		return fmt.Errorf("failed to retrieve user: %w", err)
	}

	token, err := utils.GenerateResetToken()
	if err != nil {
		return fmt.Errorf("failed to generate reset token: %w", err)
	}

	expiresAt := time.Now().Add(resetTokenTTL)
	if err := s.userRepo.SetResetToken(ctx, user.ID, token, expiresAt); err != nil {
		return err
	}

	resetURL := fmt.Sprintf("%s/reset-password/%s", s.config.Frontend.URL, token)
	msg := &mail.Message{
		To:      user.Email,
		Subject: "Password Reset Request",
		HTMLBody: fmt.Sprintf(`<h1>Password Reset Request</h1>
<p>You requested a password reset. Click <a href="%s">here</a> to reset your password.</p>
<p>If you did not request this, please ignore this email.</p>`, resetURL),
		ReplyTo: s.config.SMTP.From,
	}

	if err := s.mailer.Send(msg); err != nil {
		return fmt.Errorf("failed to send reset email: %w", err)
	}

	logger.Info("Password reset token issued",
		zap.String("user_id", user.ID.String()),
		zap.String("email", user.Email),
		zap.Time("expires_at", expiresAt),
		zap.String("event", "password_reset_requested"),
	)

	return nil
}

// CompletePasswordReset consumes a reset token: the new hash is written and
// both reset fields are cleared in the same update.
func (s *Service) CompletePasswordReset(ctx context.Context, req *ResetPasswordRequest) error {
	if err := utils.ValidateStruct(req); err != nil {
		return appErrors.NewAppError("VALIDATION_ERROR", "Invalid input", err)
	}

	user, err := s.userRepo.GetByResetToken(ctx, req.Token, time.Now())
	if err != nil {
		if errors.Is(err, domainUser.ErrResetTokenInvalid) {
			logger.Warn("Password reset attempt with invalid token",
				zap.String("event", "password_reset_failed_invalid_token"),
			)
			return appErrors.ErrInvalidResetToken
		}
		return fmt.Errorf("failed to look up reset token: %w", err)
	}

	hashedPassword, err := utils.HashPassword(req.NewPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	if err := s.userRepo.ResetPassword(ctx, user.ID, hashedPassword); err != nil {
		return err
	}

	logger.Info("Password reset completed",
		zap.String("user_id", user.ID.String()),
		zap.String("event", "password_reset_success"),
	)

	return nil
}

// AdminUpdateUser applies the same existing-fields-only patch on behalf of an
// admin and returns the updated user.
func (s *Service) AdminUpdateUser(ctx context.Context, userID uuid.UUID, req *UpdateProfileRequest) (*UserResponse, error) {
	return s.UpdateProfile(ctx, userID, req)
}
