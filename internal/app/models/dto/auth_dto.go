package dto

import "github.com/yigit/tuitiondesk/internal/app/models"

// RegisterRequest represents a self-service sign up
type RegisterRequest struct {
	FullName string `json:"fullName" binding:"required,max=100" example:"Asha Rao"`
	Email    string `json:"email" binding:"required,email,max=255" example:"asha@example.com"`
	Mobile   string `json:"mobile" binding:"max=20" example:"9876543210"`
	Password string `json:"password" binding:"required,min=6,max=72" example:"secret123"`
}

// RegisterResponse is returned after the user and its student profile are created
type RegisterResponse struct {
	UserID    int64       `json:"userId" example:"3"`
	StudentID int64       `json:"studentId" example:"12"`
	Email     string      `json:"email" example:"asha@example.com"`
	Role      models.Role `json:"role" example:"student"`
}

// LoginRequest represents the login payload. Role is accepted for
// compatibility with older clients and never trusted.
type LoginRequest struct {
	Email    string `json:"email" binding:"required" example:"asha@example.com"`
	Password string `json:"password" binding:"required" example:"secret123"`
	Role     string `json:"role,omitempty" example:"student"`
}

// TokenResponse carries the issued access token
type TokenResponse struct {
	AccessToken string `json:"accessToken"`
	TokenType   string `json:"tokenType" example:"Bearer"`
	ExpiresIn   int64  `json:"expiresIn" example:"43200"`
}

// LoginResponse reports the stored role and the linked profile, if any
type LoginResponse struct {
	Success bool            `json:"success" example:"true"`
	Role    models.Role     `json:"role" example:"student"`
	Email   string          `json:"email" example:"asha@example.com"`
	Profile *models.Student `json:"profile"`
	Token   *TokenResponse  `json:"token,omitempty"`
}

// MeResponse describes the authenticated caller
type MeResponse struct {
	User    *models.User    `json:"user"`
	Profile *models.Student `json:"profile"`
}
