// Package models содержит доменные структуры системы совместного
// инвестирования: пользователей, объекты недвижимости, проекты,
// членство в группах и временное состояние регистрации.
package models

import "time"

// Роли пользователей системы.
const (
	RoleParticipant = "participant"
	RoleAdmin       = "admin"
)

// User представляет зарегистрированного пользователя системы.
type User struct {
	UID           string    // Уникальный идентификатор пользователя
	Nom           string    // Фамилия
	Prenom        string    // Имя
	Email         string    // Электронная почта (уникальная, в нижнем регистре)
	PasswordHash  string    // Bcrypt-хэш пароля, никогда не сериализуется наружу
	Tel           string    // Телефон
	PaysResidence string    // Страна проживания
	Role          string    // Роль: participant или admin
	CreatedAt     time.Time // Дата создания записи
}

// PublicUser возвращает представление пользователя без учётных данных,
// пригодное для выдачи в JSON-ответах.
func (u *User) PublicUser() map[string]any {
	return map[string]any{
		"id":             u.UID,
		"nom":            u.Nom,
		"prenom":         u.Prenom,
		"email":          u.Email,
		"tel":            u.Tel,
		"pays_residence": u.PaysResidence,
		"role":           u.Role,
	}
}
