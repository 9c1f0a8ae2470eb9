// Входные/выходные модели REST API сессий.
package models

type AuthLoginRequest struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

type AuthRefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

type AuthResponse struct {
	AccessToken      string `json:"accessToken"`
	RefreshToken     string `json:"refreshToken"`
	AccessExpiresAt  int64  `json:"accessExpiresAt"`  // Unix UTC
	RefreshExpiresAt int64  `json:"refreshExpiresAt"` // Unix UTC
}

type AuthValidateRequest struct {
	AccessToken string `json:"accessToken"`
}

type AuthValidateResponse struct {
	Valid  bool   `json:"valid"`
	UserID string `json:"userId,omitempty"`
	Email  string `json:"email,omitempty"`
}

type AuthMeResponse struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}
