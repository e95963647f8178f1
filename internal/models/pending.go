package models

import "time"

// DraftUser — данные нового пользователя, ожидающие подтверждения оплаты.
// Пароль хранится уже захэшированным.
type DraftUser struct {
	Nom           string    `json:"nom"`
	Prenom        string    `json:"prenom"`
	Email         string    `json:"email"`
	PasswordHash  string    `json:"password_hash"`
	Tel           string    `json:"tel,omitempty"`
	PaysResidence string    `json:"pays_residence,omitempty"`
	Role          string    `json:"role"`
	CreatedAt     time.Time `json:"created_at"`
}

// PendingEnrollment — временное состояние регистрации, привязанное к сессии.
// Создаётся при открытии платёжного ордера, потребляется ровно один раз при
// успешном завершении оплаты либо удаляется при отмене или истечении срока.
// Заполнено ровно одно из двух: DraftUser (новый пользователь) или
// ExistingUserID (присоединение уже зарегистрированного).
type PendingEnrollment struct {
	OrderID        string     `json:"order_id"`
	ProjetID       string     `json:"projet_id"`
	DraftUser      *DraftUser `json:"draft_user,omitempty"`
	ExistingUserID string     `json:"existing_user_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
}

// ExpiredAt сообщает, истекла ли запись к моменту now при заданном окне жизни.
func (p *PendingEnrollment) ExpiredAt(now time.Time, window time.Duration) bool {
	return now.Sub(p.CreatedAt) > window
}
