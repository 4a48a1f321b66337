package dto

import "employee-management/internal/model"

type RegisterRequest struct {
	Username  string `json:"username" binding:"required,min=3,max=50"`
	Email     string `json:"email" binding:"required,email"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"first_name" binding:"required,max=100"`
	LastName  string `json:"last_name" binding:"required,max=100"`
}

type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

type ChangePasswordRequest struct {
	OldPassword string `json:"old_password" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// UpdateProfileRequest is bound from multipart form data; the optional
// profile picture file is handled separately by the handler.
type UpdateProfileRequest struct {
	FirstName   *string `form:"first_name"`
	LastName    *string `form:"last_name"`
	Email       *string `form:"email" binding:"omitempty,email"`
	PhoneNumber *string `form:"phone_number"`
	Address     *string `form:"address"`
	DateOfBirth *string `form:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
}

type AuthResponse struct {
	AccessToken  string      `json:"access_token"`
	RefreshToken string      `json:"refresh_token"`
	TokenType    string      `json:"token_type"`
	ExpiresIn    int64       `json:"expires_in"`
	User         *model.User `json:"user"`
}
