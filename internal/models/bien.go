package models

import "time"

// Proprietaire описывает владельца объекта недвижимости.
type Proprietaire struct {
	Nom       string `json:"nom"`
	Prenom    string `json:"prenom"`
	Telephone string `json:"telephone"`
	Document  string `json:"document,omitempty"` // Ссылка на подтверждающий документ
}

// Preuve — документ, подтверждающий право собственности.
type Preuve struct {
	Libelle  string `json:"libelle"`
	Document string `json:"document,omitempty"`
}

// Bien представляет объект недвижимости, на который опирается проект.
type Bien struct {
	ID           string       `json:"id"`
	Libelle      string       `json:"libelle"`
	Description  string       `json:"description"`
	TypeBien     string       `json:"type_bien"`
	Proprietaire Proprietaire `json:"proprietaire"`
	Preuves      []Preuve     `json:"preuves"`
	CreatedAt    time.Time    `json:"created_at"`
}
