package models

import "time"

// Статусы членства в группе проекта.
const (
	GroupeActif   = "actif"
	GroupeInactif = "inactif"
)

// Groupe — запись членства, связывающая пользователя с проектом.
// На пару (projet, participant) допускается не более одной активной записи,
// что обеспечивается частичным уникальным индексом в базе данных.
type Groupe struct {
	ID            string    `json:"id"`
	ProjetID      string    `json:"projet_id"`
	ParticipantID string    `json:"participant_id"`
	Statut        string    `json:"statut"`
	CreatedAt     time.Time `json:"created_at"`
}
