package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/juntimo/juntimo-backend/internal/lib/mensualite"
	"github.com/juntimo/juntimo-backend/internal/models"
)

const projetColumns = `id, bien_id, titre, description, secteur, statut,
			      valeur_totale_projet, prefinancement_personnel, duree,
			      participants_actuels, mensualite_par_participant, mensualite_totale_a_payer,
			      commission_immo_invest, penalite, date_debut,
			      total_benefices_recus, benefices_annuels, created_at`

// CreateProjet вставляет новый проект и возвращает его ID.
// Производные поля (участники, mensualités) всегда стартуют с нуля.
func (s *Storage) CreateProjet(ctx context.Context, projet models.Projet) (string, error) {
	const op = "storage.CreateProjet"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	benefices, err := json.Marshal(projet.BeneficesAnnuels)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var newID string
	query := `INSERT INTO projets (bien_id, titre, description, secteur, statut,
			      valeur_totale_projet, prefinancement_personnel, duree,
			      commission_immo_invest, penalite, date_debut,
			      total_benefices_recus, benefices_annuels)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query,
		projet.BienID, projet.Titre, projet.Description, projet.Secteur, projet.Statut,
		projet.ValeurTotaleProjet, projet.PrefinancementPersonnel, projet.Duree,
		projet.CommissionImmoInvest, projet.Penalite, projet.DateDebut,
		projet.TotalBeneficesRecus, benefices).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetProjet возвращает проект по ID.
func (s *Storage) GetProjet(ctx context.Context, id string) (*models.Projet, error) {
	const op = "storage.GetProjet"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + projetColumns + ` FROM projets WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)
	p, err := scanProjet(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

// ListProjets возвращает все проекты.
func (s *Storage) ListProjets(ctx context.Context) ([]*models.Projet, error) {
	const op = "storage.ListProjets"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT ` + projetColumns + ` FROM projets ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Projet
	for rows.Next() {
		p, err := scanProjet(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateProjet обновляет редактируемые поля проекта и возвращает число
// изменённых строк. Производные поля клиентом не задаются и здесь не трогаются.
func (s *Storage) UpdateProjet(ctx context.Context, projet models.Projet, id string) (int, error) {
	const op = "storage.UpdateProjet"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	benefices, err := json.Marshal(projet.BeneficesAnnuels)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE projets
			  SET titre = $1, description = $2, secteur = $3, statut = $4,
			      valeur_totale_projet = $5, prefinancement_personnel = $6, duree = $7,
			      commission_immo_invest = $8, penalite = $9, date_debut = $10,
			      total_benefices_recus = $11, benefices_annuels = $12
			  WHERE id = $13`
	result, err := s.DB.ExecContext(ctx, query,
		projet.Titre, projet.Description, projet.Secteur, projet.Statut,
		projet.ValeurTotaleProjet, projet.PrefinancementPersonnel, projet.Duree,
		projet.CommissionImmoInvest, projet.Penalite, projet.DateDebut,
		projet.TotalBeneficesRecus, benefices, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveProjet удаляет проект вместе с записями членства и возвращает
// число удалённых проектов.
func (s *Storage) RemoveProjet(ctx context.Context, id string) (int, error) {
	const op = "storage.RemoveProjet"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, `DELETE FROM groupes WHERE projet_id = $1`, id); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	result, err := tx.ExecContext(ctx, `DELETE FROM projets WHERE id = $1`, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// IncrementParticipantsAndRecalc увеличивает счётчик участников проекта и в
// той же транзакции пересчитывает оба производных платёжных поля: читатель
// никогда не увидит новый счётчик со старыми mensualités. Возвращает проект
// в обновлённом состоянии.
func (s *Storage) IncrementParticipantsAndRecalc(ctx context.Context, id string) (*models.Projet, error) {
	const op = "storage.IncrementParticipantsAndRecalc"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	tx, err := s.DB.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	row := tx.QueryRowContext(ctx,
		`SELECT valeur_totale_projet, duree, participants_actuels
		 FROM projets WHERE id = $1 FOR UPDATE`, id)
	var valeurTotale float64
	var duree, participants int
	if err := row.Scan(&valeurTotale, &duree, &participants); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	participants++
	parParticipant := mensualite.PerParticipant(valeurTotale, duree, participants)
	totale := mensualite.Totale(valeurTotale, duree, participants)

	updated := tx.QueryRowContext(ctx,
		`UPDATE projets
		 SET participants_actuels = $1,
		     mensualite_par_participant = $2,
		     mensualite_totale_a_payer = $3
		 WHERE id = $4
		 RETURNING `+projetColumns, participants, parParticipant, totale, id)
	p, err := scanProjet(updated)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return p, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProjet(row rowScanner) (*models.Projet, error) {
	var p models.Projet
	var benefices []byte
	if err := row.Scan(&p.ID, &p.BienID, &p.Titre, &p.Description, &p.Secteur, &p.Statut,
		&p.ValeurTotaleProjet, &p.PrefinancementPersonnel, &p.Duree,
		&p.ParticipantsActuels, &p.MensualiteParParticipant, &p.MensualiteTotaleAPayer,
		&p.CommissionImmoInvest, &p.Penalite, &p.DateDebut,
		&p.TotalBeneficesRecus, &benefices, &p.CreatedAt); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(benefices, &p.BeneficesAnnuels); err != nil {
		return nil, err
	}
	return &p, nil
}
