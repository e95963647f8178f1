// Package projet содержит логику бизнес-уровня для работы с инвестиционными
// проектами. Производные платёжные поля проекта (число участников и
// mensualités) при чтении сверяются с актуальным составом группы.
package projet

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/juntimo/juntimo-backend/internal/lib/mensualite"
	"github.com/juntimo/juntimo-backend/internal/models"
	"github.com/juntimo/juntimo-backend/internal/storage/repository"
)

// Ошибки бизнес-уровня.
var (
	// ErrNotFound возвращается, когда проект не существует.
	ErrNotFound = errors.New("projet not found")
	// ErrBienNotFound возвращается при создании проекта с неизвестным
	// объектом недвижимости.
	ErrBienNotFound = errors.New("referenced bien not found")
)

// ProjetRepository описывает контракт для работы с проектами.
type ProjetRepository interface {
	CreateProjet(ctx context.Context, projet models.Projet) (string, error)
	GetProjet(ctx context.Context, id string) (*models.Projet, error)
	ListProjets(ctx context.Context) ([]*models.Projet, error)
	UpdateProjet(ctx context.Context, projet models.Projet, id string) (int, error)
	RemoveProjet(ctx context.Context, id string) (int, error)
}

// BienReader проверяет существование объекта недвижимости.
type BienReader interface {
	GetBien(ctx context.Context, id string) (*models.Bien, error)
}

// MembershipCounter возвращает число активных участников проекта.
type MembershipCounter interface {
	CountActive(ctx context.Context, projetID string) (int, error)
}

// Service — операции над проектами.
type Service struct {
	repo   ProjetRepository
	biens  BienReader
	ledger MembershipCounter
	log    *slog.Logger
}

// New создает новый экземпляр Service.
func New(repo ProjetRepository, biens BienReader, ledger MembershipCounter, log *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		biens:  biens,
		ledger: ledger,
		log:    log,
	}
}

// Create сохраняет новый проект. Объект недвижимости должен существовать;
// производные платёжные поля при создании всегда нулевые.
func (s *Service) Create(ctx context.Context, projet models.Projet) (string, error) {
	const op = "projet.Create"

	if _, err := s.biens.GetBien(ctx, projet.BienID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", fmt.Errorf("bien %s: %w", projet.BienID, ErrBienNotFound)
		}
		return "", fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.repo.CreateProjet(ctx, projet)
	if err != nil {
		return "", fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("projet created", slog.String("op", op), slog.String("id", id))
	return id, nil
}

// Get возвращает проект по ID с выверенными производными полями.
func (s *Service) Get(ctx context.Context, id string) (*models.Projet, error) {
	const op = "projet.Get"

	projet, err := s.repo.GetProjet(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("projet %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.refreshDerived(ctx, projet); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return projet, nil
}

// List возвращает все проекты с выверенными производными полями.
func (s *Service) List(ctx context.Context) ([]*models.Projet, error) {
	const op = "projet.List"

	projets, err := s.repo.ListProjets(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	for _, p := range projets {
		if err := s.refreshDerived(ctx, p); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}
	return projets, nil
}

// Update обновляет редактируемые поля проекта по ID. Производные поля
// клиентом не задаются и запросом не затрагиваются.
func (s *Service) Update(ctx context.Context, projet models.Projet, id string) error {
	const op = "projet.Update"

	n, err := s.repo.UpdateProjet(ctx, projet, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("projet %s: %w", id, ErrNotFound)
	}
	return nil
}

// Remove удаляет проект вместе с его группами.
func (s *Service) Remove(ctx context.Context, id string) error {
	const op = "projet.Remove"

	n, err := s.repo.RemoveProjet(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n == 0 {
		return fmt.Errorf("projet %s: %w", id, ErrNotFound)
	}
	s.log.Info("projet removed", slog.String("op", op), slog.String("id", id))
	return nil
}

// refreshDerived пересчитывает производные поля по актуальному составу
// группы. Хранимые значения служат быстрым чтением, состав группы — истиной.
func (s *Service) refreshDerived(ctx context.Context, projet *models.Projet) error {
	count, err := s.ledger.CountActive(ctx, projet.ID)
	if err != nil {
		return err
	}
	projet.ParticipantsActuels = count
	projet.MensualiteParParticipant = mensualite.PerParticipant(projet.ValeurTotaleProjet, projet.Duree, count)
	projet.MensualiteTotaleAPayer = mensualite.Totale(projet.ValeurTotaleProjet, projet.Duree, count)
	return nil
}
