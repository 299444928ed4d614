package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"melodia/internal/common"
	"melodia/internal/common/security"
	"melodia/internal/domain/model"
	"melodia/internal/domain/repository"
	"melodia/internal/platform/mail"

	"github.com/rs/zerolog"
)

const resetTokenTTL = time.Hour

type AuthService struct {
	userRepo repository.UserRepository
	jwt      *security.JWTManager
	mailer   mail.Mailer
	log      zerolog.Logger
}

func NewAuthService(userRepo repository.UserRepository, jwt *security.JWTManager, mailer mail.Mailer, log zerolog.Logger) *AuthService {
	return &AuthService{userRepo: userRepo, jwt: jwt, mailer: mailer, log: log}
}

type RegisterRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthResponse struct {
	User         *model.User `json:"user"`
	Token        string      `json:"token"`
	RefreshToken string      `json:"refreshToken"`
}

type TokenPair struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
}

func (s *AuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	if req.FirstName == "" || req.LastName == "" || req.Username == "" || req.Email == "" || req.Password == "" {
		return nil, common.Errorf("all fields are required: %w", common.ErrValidation)
	}

	hashedPassword, err := security.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &model.User{
		FirstName:      req.FirstName,
		LastName:       req.LastName,
		Username:       req.Username,
		Email:          req.Email,
		HashedPassword: hashedPassword,
		Role:           model.RoleUser, // Default role
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		// Repo surfaces common.ErrConflict on duplicate email/username
		return nil, err
	}

	return s.issueTokens(user)
}

// Login verifies credentials. Unknown email and wrong password are reported
// with the same error so the response cannot be used to enumerate accounts.
func (s *AuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	if req.Email == "" || req.Password == "" {
		return nil, common.Errorf("email and password are required: %w", common.ErrValidation)
	}

	user, err := s.userRepo.FindByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to find user: %w", err)
	}

	if !security.CheckPasswordHash(req.Password, user.HashedPassword) {
		return nil, common.ErrInvalidCredentials
	}

	return s.issueTokens(user)
}

func (s *AuthService) issueTokens(user *model.User) (*AuthResponse, error) {
	token, err := s.jwt.GenerateAccessToken(user.ID, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}
	refresh, err := s.jwt.GenerateRefreshToken(user.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	user.HashedPassword = "" // Clear before returning
	return &AuthResponse{User: user, Token: token, RefreshToken: refresh}, nil
}

// Refresh rotates both tokens given a valid refresh token.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	if refreshToken == "" {
		return nil, common.Errorf("refresh token is required: %w", common.ErrValidation)
	}

	userID, err := s.jwt.ParseRefreshToken(refreshToken)
	if err != nil {
		return nil, err // ErrTokenExpired or ErrTokenInvalid
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	resp, err := s.issueTokens(user)
	if err != nil {
		return nil, err
	}
	return &TokenPair{Token: resp.Token, RefreshToken: resp.RefreshToken}, nil
}

// ForgotPassword starts the reset flow. Whether or not the email matches an
// account the caller gets the same outcome; token generation and mail
// dispatch are simply skipped for unknown addresses.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) error {
	if email == "" {
		return common.Errorf("email is required: %w", common.ErrValidation)
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	token, err := security.NewResetToken()
	if err != nil {
		return err
	}
	if err := s.userRepo.SetResetToken(ctx, email, token, time.Now().Add(resetTokenTTL)); err != nil {
		return fmt.Errorf("failed to store reset token: %w", err)
	}

	// Delivery problems must not change the response the caller sees, or
	// the endpoint starts leaking which addresses exist.
	if err := s.mailer.SendPasswordReset(ctx, user.Email, user.FirstName, token); err != nil {
		s.log.Error().Err(err).Str("email", email).Msg("failed to send reset email")
	}
	return nil
}

// ResetPassword redeems a reset token. The token is single-use: the
// repository clears it in the same statement that stores the new hash.
func (s *AuthService) ResetPassword(ctx context.Context, token, newPassword string) error {
	if token == "" || newPassword == "" {
		return common.Errorf("token and new password are required: %w", common.ErrValidation)
	}

	user, err := s.userRepo.FindByResetToken(ctx, token)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.ErrInvalidResetToken
		}
		return fmt.Errorf("failed to look up reset token: %w", err)
	}

	hashedPassword, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userRepo.ConsumePasswordReset(ctx, user.ID, token, hashedPassword)
}

// ChangePassword requires the current password to match before storing the
// new one.
func (s *AuthService) ChangePassword(ctx context.Context, userID int64, currentPassword, newPassword string) error {
	if currentPassword == "" || newPassword == "" {
		return common.Errorf("current and new password are required: %w", common.ErrValidation)
	}

	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !security.CheckPasswordHash(currentPassword, user.HashedPassword) {
		return common.ErrWrongPassword
	}

	hashedPassword, err := security.HashPassword(newPassword)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	return s.userRepo.UpdatePassword(ctx, userID, hashedPassword)
}

// CheckEmail reports whether an account exists for the address. Only exposed
// to the signup flow.
func (s *AuthService) CheckEmail(ctx context.Context, email string) (bool, error) {
	if email == "" {
		return false, common.Errorf("email is required: %w", common.ErrValidation)
	}
	_, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return false, nil
		}
		return false, err
	}
	return true, nil
}
