package services

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"craftlink_backend/internal/auth"
	"craftlink_backend/internal/email"
	"craftlink_backend/internal/logger"
	"craftlink_backend/internal/models"
	"craftlink_backend/internal/repositories"
	"craftlink_backend/internal/services/dto"
	"craftlink_backend/pkg/apperrors"
	"craftlink_backend/pkg/retry"

	"gorm.io/gorm"
)

const (
	refreshTokenTTL = 30 * 24 * time.Hour
	resetTokenTTL   = time.Hour
)

type AuthService struct {
	db            *gorm.DB
	users         repositories.UserRepository
	profiles      repositories.ProfileRepository
	refreshTokens repositories.RefreshTokenRepository
	mailer        email.Provider
	retryPolicy   retry.Policy
}

func NewAuthService(
	db *gorm.DB,
	users repositories.UserRepository,
	profiles repositories.ProfileRepository,
	refreshTokens repositories.RefreshTokenRepository,
	mailer email.Provider,
) *AuthService {
	return &AuthService{
		db:            db,
		users:         users,
		profiles:      profiles,
		refreshTokens: refreshTokens,
		mailer:        mailer,
		retryPolicy:   retry.DefaultPolicy(),
	}
}

// Register creates the account and its profile in one transaction, so a
// username conflict leaves no orphaned user behind.
func (s *AuthService) Register(req dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := auth.ValidatePassword(req.Password); err != nil {
		return nil, apperrors.ErrWeakPassword
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	verificationToken, err := randomToken()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:             strings.ToLower(req.Email),
		PasswordHash:      hash,
		Role:              req.Role,
		Status:            models.UserStatusPending,
		VerificationToken: verificationToken,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.users.WithTx(tx).Create(user); err != nil {
			return err
		}

		profile := &models.UserProfile{
			UserID:      user.ID,
			Username:    strings.ToLower(req.Username),
			DisplayName: req.DisplayName,
			City:        req.City,
		}
		if profile.DisplayName == "" {
			profile.DisplayName = req.Username
		}
		return s.profiles.WithTx(tx).Create(profile)
	})
	if err != nil {
		switch {
		case apperrors.Is(err, repositories.ErrEmailTaken):
			return nil, apperrors.ErrEmailAlreadyExists
		case apperrors.Is(err, repositories.ErrUsernameTaken):
			return nil, apperrors.ErrUsernameTaken
		}
		return nil, apperrors.InternalError(err)
	}

	s.sendAsync("verification", func() error {
		return s.mailer.SendVerification(user.Email, verificationToken)
	})

	return s.issueTokens(user)
}

func (s *AuthService) Login(req dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.users.FindByEmail(strings.ToLower(req.Email))
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil, apperrors.ErrInvalidCredentials
		}
		return nil, apperrors.InternalError(err)
	}

	// Accounts provisioned through the identity webhook have no local password.
	if user.PasswordHash == "" || !auth.CheckPasswordHash(req.Password, user.PasswordHash) {
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := s.checkAccountStatus(user); err != nil {
		return nil, err
	}

	return s.issueTokens(user)
}

/// Refresh rotates the refresh token: the presented token is consumed and a
// new pair is issued. A reused token fails here.
func (s *AuthService) Refresh(req dto.RefreshTokenRequest) (*dto.AuthResponse, error) {
	stored, err := s.refreshTokens.FindByToken(req.RefreshToken)
	if err != nil {
		if apperrors.Is(err, repositories.ErrRefreshTokenNotFound) {
			return nil, apperrors.ErrInvalidToken
		}
		return nil, apperrors.InternalError(err)
	}

	if time.Now().After(stored.ExpiresAt) {
		_ = s.refreshTokens.Delete(stored.Token)
		return nil, apperrors.ErrInvalidToken
	}

	user, err := s.users.FindByID(stored.UserID)
	if err != nil {
		return nil, apperrors.ErrInvalidToken
	}
	if err := s.checkAccountStatus(user); err != nil {
		return nil, err
	}

	if err := s.refreshTokens.Delete(stored.Token); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return s.issueTokens(user)
}

func (s *AuthService) Logout(req dto.LogoutRequest) error {
	err := s.refreshTokens.Delete(req.RefreshToken)
	if err != nil && !apperrors.Is(err, repositories.ErrRefreshTokenNotFound) {
		return apperrors.InternalError(err)
	}
	return nil
}

func (s *AuthService) VerifyEmail(token string) error {
	user, err := s.users.FindByVerificationToken(token)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrInvalidToken
		}
		return apperrors.InternalError(err)
	}

	if err := s.users.SetVerified(user.ID); err != nil {
		return apperrors.InternalError(err)
	}
	return nil
}

// RequestPasswordReset always reports success; whether the address exists is
// never revealed to the caller.
func (s *AuthService) RequestPasswordReset(emailAddr string) error {
	user, err := s.users.FindByEmail(strings.ToLower(emailAddr))
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return nil
		}
		return apperrors.InternalError(err)
	}

	token, err := randomToken()
	if err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.users.SetResetToken(user.ID, token, time.Now().Add(resetTokenTTL)); err != nil {
		return apperrors.InternalError(err)
	}

	s.sendAsync("password reset", func() error {
		return s.mailer.SendPasswordReset(user.Email, token)
	})
	return nil
}

func (s *AuthService) ResetPassword(req dto.ResetPasswordRequest) error {
	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		return apperrors.ErrWeakPassword
	}

	user, err := s.users.FindByResetToken(req.Token)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrInvalidToken
		}
		return apperrors.InternalError(err)
	}
	if user.ResetTokenExp == nil || time.Now().After(*user.ResetTokenExp) {
		return apperrors.ErrInvalidToken
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.users.UpdatePassword(user.ID, hash); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.users.ClearResetToken(user.ID); err != nil {
		return apperrors.InternalError(err)
	}

	// A password change invalidates every session.
	if err := s.refreshTokens.DeleteByUser(user.ID); err != nil {
		logger.Warn("session cleanup failed after password reset", "user_id", user.ID, "error", err.Error())
	}
	return nil
}

func (s *AuthService) ChangePassword(userID string, req dto.ChangePasswordRequest) error {
	if err := auth.ValidatePassword(req.NewPassword); err != nil {
		return apperrors.ErrWeakPassword
	}

	user, err := s.users.FindByID(userID)
	if err != nil {
		if apperrors.Is(err, repositories.ErrUserNotFound) {
			return apperrors.ErrNotFound(err)
		}
		return apperrors.InternalError(err)
	}

	if user.PasswordHash == "" || !auth.CheckPasswordHash(req.OldPassword, user.PasswordHash) {
		return apperrors.ErrInvalidCredentials
	}

	hash, err := auth.HashPassword(req.NewPassword)
	if err != nil {
		return apperrors.InternalError(err)
	}

	if err := s.users.UpdatePassword(userID, hash); err != nil {
		return apperrors.InternalError(err)
	}
	if err := s.refreshTokens.DeleteByUser(userID); err != nil {
		logger.Warn("session cleanup failed after password change", "user_id", userID, "error", err.Error())
	}
	return nil
}

// ProvisionExternalUser creates a local account for an identity-provider
// user. Replays of the same external id are idempotent and return the
// existing account.
func (s *AuthService) ProvisionExternalUser(externalID, emailAddr, username string) (*models.User, error) {
	existing, err := s.users.FindByExternalID(externalID)
	if err == nil {
		return existing, nil
	}
	if !apperrors.Is(err, repositories.ErrUserNotFound) {
		return nil, apperrors.InternalError(err)
	}

	user := &models.User{
		Email:      strings.ToLower(emailAddr),
		Role:       models.UserRoleBoth,
		Status:     models.UserStatusActive,
		IsVerified: true,
		ExternalID: &externalID,
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		if err := s.users.WithTx(tx).Create(user); err != nil {
			return err
		}

		base := strings.ToLower(username)
		if base == "" {
			base = strings.SplitN(user.Email, "@", 2)[0]
		}

		profileRepo := s.profiles.WithTx(tx)
		candidate := base
		for attempt := 0; ; attempt++ {
			profile := &models.UserProfile{
				UserID:      user.ID,
				Username:    candidate,
				DisplayName: username,
			}
			err := profileRepo.Create(profile)
			if err == nil {
				return nil
			}
			if !apperrors.Is(err, repositories.ErrUsernameTaken) || attempt >= 5 {
				return err
			}
			suffix, err2 := randomToken()
			if err2 != nil {
				return err2
			}
			candidate = fmt.Sprintf("%s_%s", base, suffix[:6])
		}
	})
	if err != nil {
		if apperrors.Is(err, repositories.ErrEmailTaken) {
			return nil, apperrors.ErrEmailAlreadyExists
		}
		return nil, apperrors.InternalError(err)
	}

	logger.Info("external user provisioned", "user_id", user.ID, "external_id", externalID)
	return user, nil
}

func (s *AuthService) checkAccountStatus(user *models.User) error {
	switch user.Status {
	case models.UserStatusSuspended:
		return apperrors.ErrUserSuspended
	case models.UserStatusBanned:
		return apperrors.ErrUserBanned
	}
	return nil
}

func (s *AuthService) issueTokens(user *models.User) (*dto.AuthResponse, error) {
	accessToken, err := auth.GenerateToken(user.ID, string(user.Role))
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refreshValue, err := randomToken()
	if err != nil {
		return nil, apperrors.InternalError(err)
	}

	refreshToken := &models.RefreshToken{
		UserID:    user.ID,
		Token:     refreshValue,
		ExpiresAt: time.Now().Add(refreshTokenTTL),
	}
	if err := s.refreshTokens.Create(refreshToken); err != nil {
		return nil, apperrors.InternalError(err)
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshValue,
		User:         dto.ToUserResponse(user),
	}, nil
}

// sendAsync delivers mail off the request path, retrying transient failures.
func (s *AuthService) sendAsync(kind string, send func() error) {
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()

		err := s.retryPolicy.Do(ctx, send)
		if err != nil {
			logger.Error("email delivery failed", "kind", kind, "error", err.Error())
		}
	}()
}

func randomToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}
