package models

import "time"

// Статусы проекта.
const (
	ProjetActif     = "actif"
	ProjetEnPause   = "en pause"
	ProjetTermine   = "terminé"
	ProjetAbandonne = "abandonné"
)

// BeneficeAnnuel — бенефиции проекта за один год.
type BeneficeAnnuel struct {
	Annee   int     `json:"annee"`
	Montant float64 `json:"montant"`
}

// Projet представляет инвестиционный проект, привязанный к объекту
// недвижимости. Поля ParticipantsActuels, MensualiteParParticipant и
// MensualiteTotaleAPayer являются производными: они пересчитываются при
// каждом изменении состава группы и никогда не принимаются от клиента.
type Projet struct {
	ID                       string           `json:"id"`
	BienID                   string           `json:"bien_id"`
	Titre                    string           `json:"titre"`
	Description              string           `json:"description"`
	Secteur                  string           `json:"secteur"`
	Statut                   string           `json:"statut"`
	ValeurTotaleProjet       float64          `json:"valeur_totale_projet"`
	PrefinancementPersonnel  float64          `json:"prefinancement_personnel"`
	Duree                    int              `json:"duree"` // Длительность в месяцах
	ParticipantsActuels      int              `json:"participants_actuels"`
	MensualiteParParticipant float64          `json:"mensualite_par_participant"`
	MensualiteTotaleAPayer   float64          `json:"mensualite_totale_a_payer"`
	CommissionImmoInvest     float64          `json:"commission_immo_invest"`
	Penalite                 float64          `json:"penalite"`
	DateDebut                time.Time        `json:"date_debut"`
	TotalBeneficesRecus      float64          `json:"total_benefices_recus"`
	BeneficesAnnuels         []BeneficeAnnuel `json:"benefices_annuels"`
	CreatedAt                time.Time        `json:"created_at"`
}
