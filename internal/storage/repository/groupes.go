package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/juntimo/juntimo-backend/internal/models"
)

// FindActiveGroupe находит активную запись членства для пары (проект, участник).
// Второй результат false, если записи нет.
func (s *Storage) FindActiveGroupe(ctx context.Context, projetID, participantID string) (*models.Groupe, bool, error) {
	const op = "storage.FindActiveGroupe"
	select {
	case <-ctx.Done():
		return nil, false, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, projet_id, participant_id, statut, created_at
			  FROM groupes
			  WHERE projet_id = $1 AND participant_id = $2 AND statut = 'actif'`
	var g models.Groupe
	err := s.DB.QueryRowContext(ctx, query, projetID, participantID).Scan(
		&g.ID, &g.ProjetID, &g.ParticipantID, &g.Statut, &g.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("%s: %w", op, err)
	}
	return &g, true, nil
}

// CountActiveGroupes возвращает число активных участников проекта.
func (s *Storage) CountActiveGroupes(ctx context.Context, projetID string) (int, error) {
	const op = "storage.CountActiveGroupes"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT COUNT(*) FROM groupes WHERE projet_id = $1 AND statut = 'actif'`
	var count int
	if err := s.DB.QueryRowContext(ctx, query, projetID).Scan(&count); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return count, nil
}

// CreateGroupe создаёт активную запись членства. Повторная активная запись
// на ту же пару даёт ErrDuplicate: гонку двух конкурирующих вставок закрывает
// частичный уникальный индекс, а не предварительная проверка.
func (s *Storage) CreateGroupe(ctx context.Context, projetID, participantID string) (*models.Groupe, error) {
	const op = "storage.CreateGroupe"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `INSERT INTO groupes (projet_id, participant_id, statut)
			  VALUES ($1, $2, 'actif')
			  RETURNING id, projet_id, participant_id, statut, created_at`
	var g models.Groupe
	err := s.DB.QueryRowContext(ctx, query, projetID, participantID).Scan(
		&g.ID, &g.ProjetID, &g.ParticipantID, &g.Statut, &g.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%s: %w", op, ErrDuplicate)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &g, nil
}

// ListGroupesForProjet возвращает все записи членства проекта.
func (s *Storage) ListGroupesForProjet(ctx context.Context, projetID string) ([]*models.Groupe, error) {
	const op = "storage.ListGroupesForProjet"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, projet_id, participant_id, statut, created_at
			  FROM groupes
			  WHERE projet_id = $1
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query, projetID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Groupe
	for rows.Next() {
		var g models.Groupe
		if err := rows.Scan(&g.ID, &g.ProjetID, &g.ParticipantID, &g.Statut, &g.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &g)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}
