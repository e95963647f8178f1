package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/juntimo/juntimo-backend/internal/models"
)

// CreateBien вставляет новый объект недвижимости и возвращает его ID.
func (s *Storage) CreateBien(ctx context.Context, bien models.Bien) (string, error) {
	const op = "storage.CreateBien"
	select {
	case <-ctx.Done():
		return "", fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	proprietaire, err := json.Marshal(bien.Proprietaire)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	preuves, err := json.Marshal(bien.Preuves)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}

	var newID string
	query := `INSERT INTO biens (libelle, description, type_bien, proprietaire, preuves)
			  VALUES ($1, $2, $3, $4, $5)
			  RETURNING id`
	if err := s.DB.QueryRowContext(ctx, query,
		bien.Libelle, bien.Description, bien.TypeBien, proprietaire, preuves).Scan(&newID); err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	return newID, nil
}

// GetBien возвращает объект недвижимости по ID.
func (s *Storage) GetBien(ctx context.Context, id string) (*models.Bien, error) {
	const op = "storage.GetBien"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, libelle, description, type_bien, proprietaire, preuves, created_at
			  FROM biens WHERE id = $1`
	row := s.DB.QueryRowContext(ctx, query, id)

	var b models.Bien
	var proprietaire, preuves []byte
	if err := row.Scan(&b.ID, &b.Libelle, &b.Description, &b.TypeBien,
		&proprietaire, &preuves, &b.CreatedAt); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("%s: %w", op, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(proprietaire, &b.Proprietaire); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := json.Unmarshal(preuves, &b.Preuves); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &b, nil
}

// ListBiens возвращает все объекты недвижимости.
func (s *Storage) ListBiens(ctx context.Context) ([]*models.Bien, error) {
	const op = "storage.ListBiens"
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `SELECT id, libelle, description, type_bien, proprietaire, preuves, created_at
			  FROM biens
			  ORDER BY created_at`
	rows, err := s.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var result []*models.Bien
	for rows.Next() {
		var b models.Bien
		var proprietaire, preuves []byte
		if err := rows.Scan(&b.ID, &b.Libelle, &b.Description, &b.TypeBien,
			&proprietaire, &preuves, &b.CreatedAt); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := json.Unmarshal(proprietaire, &b.Proprietaire); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		if err := json.Unmarshal(preuves, &b.Preuves); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, &b)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// UpdateBien обновляет объект недвижимости и возвращает число изменённых строк.
func (s *Storage) UpdateBien(ctx context.Context, bien models.Bien, id string) (int, error) {
	const op = "storage.UpdateBien"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	proprietaire, err := json.Marshal(bien.Proprietaire)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	preuves, err := json.Marshal(bien.Preuves)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}

	query := `UPDATE biens
			  SET libelle = $1, description = $2, type_bien = $3, proprietaire = $4, preuves = $5
			  WHERE id = $6`
	result, err := s.DB.ExecContext(ctx, query,
		bien.Libelle, bien.Description, bien.TypeBien, proprietaire, preuves, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}

// RemoveBien удаляет объект недвижимости и возвращает число удалённых строк.
func (s *Storage) RemoveBien(ctx context.Context, id string) (int, error) {
	const op = "storage.RemoveBien"
	select {
	case <-ctx.Done():
		return 0, fmt.Errorf("%s: %w", op, ctx.Err())
	default:
	}

	query := `DELETE FROM biens WHERE id = $1`
	result, err := s.DB.ExecContext(ctx, query, id)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return int(rowsAffected), nil
}
