package dto

import "filmoteka/internal/http-api/models"

// RegisterRequest: payload for password registration
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// LoginRequest: payload for password login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// YandexAuthRequest: client-side OAuth token from the Yandex ID SDK
type YandexAuthRequest struct {
	Token string `json:"token" binding:"required"`
}

// RefreshRequest: exchange a refresh token for a new access token
type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// TokenResponse: issued token pair
type TokenResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	TokenType    string       `json:"token_type"`
	User         *models.User `json:"user,omitempty"`
}
