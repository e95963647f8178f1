// Package bien содержит логику бизнес-уровня для работы с объектами недвижимости.
package bien

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/juntimo/juntimo-backend/internal/models"
	"github.com/juntimo/juntimo-backend/internal/storage/repository"
)

// ErrNotFound возвращается, когда объект недвижимости не существует.
var ErrNotFound = errors.New("bien not found")

// BienRepository описывает контракт для работы с объектами недвижимости.
type BienRepository interface {
	CreateBien(ctx context.Context, bien models.Bien) (string, error)
	GetBien(ctx context.Context, id string) (*models.Bien, error)
	ListBiens(ctx context.Context) ([]*models.Bien, error)
	UpdateBien(ctx context.Context, bien models.Bien, id string) (int, error)
	RemoveBien(ctx context.Context, id string) (int, error)
}

// Service — CRUD-операции над объектами недвижимости.
type Service struct {
	repo BienRepository
	log  *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo BienRepository, log *slog.Logger) *Service {
	return &Service{repo: repo, log: log}
}

// Create сохраняет новый объект недвижимости и возвращает его ID.
func (s *Service) Create(ctx context.Context, bien models.Bien) (string, error) {
	const op = "bien.Create"

	id, err := s.repo.CreateBien(ctx, bien)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("bien created", slog.String("op", op), slog.String("id", id))
	return id, nil
}

// Get возвращает объект недвижимости по ID.
func (s *Service) Get(ctx context.Context, id string) (*models.Bien, error) {
	const op = "bien.Get"

	bien, err := s.repo.GetBien(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("bien %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return bien, nil
}

// List возвращает все объекты недвижимости.
func (s *Service) List(ctx context.Context) ([]*models.Bien, error) {
	const op = "bien.List"

	biens, err := s.repo.ListBiens(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return biens, nil
}

// Update обновляет объект недвижимости по ID.
func (s *Service) Update(ctx context.Context, bien models.Bien, id string) error {
	const op = "bien.Update"

	n, err := s.repo.UpdateBien(ctx, bien, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("bien %s: %w", id, ErrNotFound)
	}
	return nil
}

// Remove удаляет объект недвижимости по ID.
func (s *Service) Remove(ctx context.Context, id string) error {
	const op = "bien.Remove"

	n, err := s.repo.RemoveBien(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("bien %s: %w", id, ErrNotFound)
	}
	s.log.Info("bien removed", slog.String("op", op), slog.String("id", id))
	return nil
}
