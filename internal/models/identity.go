package models

// Identity — уже аутентифицированный пользователь, для которого выпускается сессия.
// Проверка пароля и регистрация выполняются вне сервиса.
type Identity struct {
	UserID string
	Email  string
}

// Payload строит полезную нагрузку токенов из идентичности.
func (i Identity) Payload() TokenPayload {
	return TokenPayload{UserID: i.UserID, Email: i.Email}
}
