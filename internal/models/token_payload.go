package models

// TokenPayload — полезная нагрузка, которая встраивается без изменений
// и в access-, и в refresh-токен.
type TokenPayload struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
}

// Identity возвращает идентичность, закодированную в полезной нагрузке.
func (p TokenPayload) Identity() Identity {
	return Identity{UserID: p.UserID, Email: p.Email}
}
