package models

// Identity переводит тело запроса входа в доменную идентичность.
func (r AuthLoginRequest) Identity() Identity {
	return Identity{UserID: r.UserID, Email: r.Email}
}

// AuthFromPair — доменная пара токенов -> REST-ответ.
func AuthFromPair(p *TokenPair) AuthResponse {
	if p == nil {
		return AuthResponse{}
	}

	return AuthResponse{
		AccessToken:      p.AccessToken,
		RefreshToken:     p.RefreshToken,
		AccessExpiresAt:  p.AccessExpiresAt.UTC().Unix(),
		RefreshExpiresAt: p.RefreshExpiresAt.UTC().Unix(),
	}
}

// AuthValidateFromPayload — результат проверки access-токена -> REST-ответ.
func AuthValidateFromPayload(p TokenPayload, valid bool) AuthValidateResponse {
	if !valid {
		return AuthValidateResponse{Valid: false}
	}

	return AuthValidateResponse{Valid: true, UserID: p.UserID, Email: p.Email}
}

// AuthMeFromPayload — полезная нагрузка access-токена -> REST-ответ /auth/me.
func AuthMeFromPayload(p TokenPayload) AuthMeResponse {
	return AuthMeResponse{UserID: p.UserID, Email: p.Email}
}
