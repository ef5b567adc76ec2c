package services

import (
	"testing"

	"craftlink_backend/internal/models"
	"craftlink_backend/internal/services/dto"
	"craftlink_backend/pkg/apperrors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndLogin(t *testing.T) {
	env := newTestEnv(t)

	req := dto.RegisterRequest{
		Email:    "anna@example.com",
		Password: "correct-horse",
		Role:     models.UserRoleCreator,
		Username: "anna",
	}

	resp, err := env.authService.Register(req)
	require.NoError(t, err)
	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "anna@example.com", resp.User.Email)
	assert.False(t, resp.User.IsVerified)

	// The profile was created in the same transaction.
	profile, err := env.profiles.FindByUsername("anna")
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, profile.UserID)
	assert.Equal(t, "anna", profile.DisplayName)

	login, err := env.authService.Login(dto.LoginRequest{
		Email:    "Anna@Example.com",
		Password: "correct-horse",
	})
	require.NoError(t, err)
	assert.Equal(t, resp.User.ID, login.User.ID)
}

func TestRegister_Conflicts(t *testing.T) {
	env := newTestEnv(t)

	base := dto.RegisterRequest{
		Email:    "taken@example.com",
		Password: "correct-horse",
		Role:     models.UserRoleClient,
		Username: "taken",
	}
	_, err := env.authService.Register(base)
	require.NoError(t, err)

	t.Run("duplicate email", func(t *testing.T) {
		dup := base
		dup.Username = "someoneelse"
		_, err := env.authService.Register(dup)
		assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
	})

	t.Run("duplicate username", func(t *testing.T) {
		dup := base
		dup.Email = "other@example.com"
		_, err := env.authService.Register(dup)
		assert.ErrorIs(t, err, apperrors.ErrUsernameTaken)

		// The rolled-back transaction must not leave an orphaned user.
		_, err = env.users.FindByEmail("other@example.com")
		assert.Error(t, err)
	})

	t.Run("weak password", func(t *testing.T) {
		weak := base
		weak.Email = "weak@example.com"
		weak.Username = "weakuser"
		weak.Password = "short"
		_, err := env.authService.Register(weak)
		assert.ErrorIs(t, err, apperrors.ErrWeakPassword)
	})
}

func TestLogin_InvalidCredentials(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.authService.Register(dto.RegisterRequest{
		Email:    "bob@example.com",
		Password: "correct-horse",
		Role:     models.UserRoleClient,
		Username: "bob",
	})
	require.NoError(t, err)

	_, err = env.authService.Login(dto.LoginRequest{Email: "bob@example.com", Password: "wrong-password"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	// Unknown address yields the same error as a wrong password.
	_, err = env.authService.Login(dto.LoginRequest{Email: "nobody@example.com", Password: "whatever"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLogin_SuspendedAccount(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.authService.Register(dto.RegisterRequest{
		Email:    "sus@example.com",
		Password: "correct-horse",
		Role:     models.UserRoleClient,
		Username: "sususer",
	})
	require.NoError(t, err)

	require.NoError(t, env.db.Model(&models.User{}).
		Where("id = ?", resp.User.ID).
		Update("status", models.UserStatusSuspended).Error)

	_, err = env.authService.Login(dto.LoginRequest{Email: "sus@example.com", Password: "correct-horse"})
	assert.ErrorIs(t, err, apperrors.ErrUserSuspended)
}

func TestRefresh_Rotation(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.authService.Register(dto.RegisterRequest{
		Email:    "carol@example.com",
		Password: "correct-horse",
		Role:     models.UserRoleBoth,
		Username: "carol",
	})
	require.NoError(t, err)

	rotated, err := env.authService.Refresh(dto.RefreshTokenRequest{RefreshToken: resp.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, resp.RefreshToken, rotated.RefreshToken)

	// The consumed token no longer works.
	_, err = env.authService.Refresh(dto.RefreshTokenRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	// The rotated one does.
	_, err = env.authService.Refresh(dto.RefreshTokenRequest{RefreshToken: rotated.RefreshToken})
	assert.NoError(t, err)
}

func TestVerifyEmail(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.authService.Register(dto.RegisterRequest{
		Email:    "dave@example.com",
		Password: "correct-horse",
		Role:     models.UserRoleCreator,
		Username: "dave",
	})
	require.NoError(t, err)

	user, err := env.users.FindByID(resp.User.ID)
	require.NoError(t, err)
	require.NotEmpty(t, user.VerificationToken)

	require.NoError(t, env.authService.VerifyEmail(user.VerificationToken))

	verified, err := env.users.FindByID(user.ID)
	require.NoError(t, err)
	assert.True(t, verified.IsVerified)
	assert.Equal(t, models.UserStatusActive, verified.Status)
	assert.Empty(t, verified.VerificationToken)

	assert.ErrorIs(t, env.authService.VerifyEmail("bogus-token"), apperrors.ErrInvalidToken)
}

func TestRequestPasswordReset_UnknownAddressIsSilent(t *testing.T) {
	env := newTestEnv(t)

	// No account enumeration: an unknown address reports success.
	assert.NoError(t, env.authService.RequestPasswordReset("ghost@example.com"))
}

func TestResetPassword_Flow(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.authService.Register(dto.RegisterRequest{
		Email:    "erin@example.com",
		Password: "correct-horse",
		Role:     models.UserRoleClient,
		Username: "erin",
	})
	require.NoError(t, err)

	require.NoError(t, env.authService.RequestPasswordReset("erin@example.com"))

	user, err := env.users.FindByID(resp.User.ID)
	require.NoError(t, err)
	require.NotEmpty(t, user.ResetToken)

	require.NoError(t, env.authService.ResetPassword(dto.ResetPasswordRequest{
		Token:       user.ResetToken,
		NewPassword: "brand-new-password",
	}))

	// Old sessions are dead, the new password works.
	_, err = env.authService.Refresh(dto.RefreshTokenRequest{RefreshToken: resp.RefreshToken})
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)

	_, err = env.authService.Login(dto.LoginRequest{Email: "erin@example.com", Password: "brand-new-password"})
	assert.NoError(t, err)

	// The token was single use.
	err = env.authService.ResetPassword(dto.ResetPasswordRequest{
		Token:       user.ResetToken,
		NewPassword: "yet-another-password",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestChangePassword(t *testing.T) {
	env := newTestEnv(t)

	resp, err := env.authService.Register(dto.RegisterRequest{
		Email:    "frank@example.com",
		Password: "correct-horse",
		Role:     models.UserRoleClient,
		Username: "frank",
	})
	require.NoError(t, err)

	err = env.authService.ChangePassword(resp.User.ID, dto.ChangePasswordRequest{
		OldPassword: "wrong-old",
		NewPassword: "new-password-1",
	})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)

	require.NoError(t, env.authService.ChangePassword(resp.User.ID, dto.ChangePasswordRequest{
		OldPassword: "correct-horse",
		NewPassword: "new-password-1",
	}))

	_, err = env.authService.Login(dto.LoginRequest{Email: "frank@example.com", Password: "new-password-1"})
	assert.NoError(t, err)
}

func TestProvisionExternalUser(t *testing.T) {
	env := newTestEnv(t)

	user, err := env.authService.ProvisionExternalUser("clerk_abc123", "Grace@Example.com", "grace")
	require.NoError(t, err)
	assert.Equal(t, "grace@example.com", user.Email)
	assert.Equal(t, models.UserRoleBoth, user.Role)
	assert.True(t, user.IsVerified)
	require.NotNil(t, user.ExternalID)
	assert.Equal(t, "clerk_abc123", *user.ExternalID)

	// Replaying the same event returns the same account.
	again, err := env.authService.ProvisionExternalUser("clerk_abc123", "grace@example.com", "grace")
	require.NoError(t, err)
	assert.Equal(t, user.ID, again.ID)

	var count int64
	env.db.Model(&models.User{}).Count(&count)
	assert.EqualValues(t, 1, count)

	// Webhook accounts carry no local password, so password login is refused.
	_, err = env.authService.Login(dto.LoginRequest{Email: "grace@example.com", Password: "anything-at-all"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestProvisionExternalUser_UsernameCollision(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.authService.Register(dto.RegisterRequest{
		Email:    "henry@example.com",
		Password: "correct-horse",
		Role:     models.UserRoleCreator,
		Username: "henry",
	})
	require.NoError(t, err)

	user, err := env.authService.ProvisionExternalUser("clerk_henry", "henry2@example.com", "henry")
	require.NoError(t, err)

	profile, err := env.profiles.FindByUserID(user.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "henry", profile.Username)
	assert.Contains(t, profile.Username, "henry")
}
