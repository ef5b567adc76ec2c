package dto

import (
	"craftlink_backend/internal/models"
)

type RegisterRequest struct {
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=8"`
	Role     models.UserRole `json:"role" binding:"required,oneof=creator client both"`
	Username string          `json:"username" binding:"required,min=3,max=30,alphanum"`

	DisplayName string `json:"display_name,omitempty"`
	City        string `json:"city,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type VerifyEmailRequest struct {
	Token string `json:"token" binding:"required"`
}

type RequestPasswordResetRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type ResetPasswordRequest struct {
	Token       string `json:"token" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

type SetWalletAddressRequest struct {
	WalletAddress string `json:"wallet_address" binding:"required,max=128"`
}

type AuthResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	User         UserResponse `json:"user"`
}

type UserResponse struct {
	ID            string          `json:"id"`
	Email         string          `json:"email"`
	Role          models.UserRole `json:"role"`
	Status        string          `json:"status"`
	IsVerified    bool            `json:"is_verified"`
	WalletAddress string          `json:"wallet_address,omitempty"`
}

func ToUserResponse(user *models.User) UserResponse {
	return UserResponse{
		ID:            user.ID,
		Email:         user.Email,
		Role:          user.Role,
		Status:        string(user.Status),
		IsVerified:    user.IsVerified,
		WalletAddress: user.WalletAddress,
	}
}
