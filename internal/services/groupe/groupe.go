// Package groupe содержит бизнес-логику учёта членства пользователей в
// группах проектов: поиск активного членства, подсчёт участников и создание
// новых записей с защитой от дублей.
package groupe

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/juntimo/juntimo-backend/internal/models"
	"github.com/juntimo/juntimo-backend/internal/storage/repository"
)

// ErrDuplicateMembership возвращается при попытке создать вторую активную
// запись членства на одну пару (проект, участник).
var ErrDuplicateMembership = errors.New("active membership already exists")

// GroupeRepository определяет методы для работы с записями членства в хранилище.
type GroupeRepository interface {
	// FindActiveGroupe находит активную запись для пары (проект, участник).
	FindActiveGroupe(ctx context.Context, projetID, participantID string) (*models.Groupe, bool, error)
	// CountActiveGroupes возвращает число активных участников проекта.
	CountActiveGroupes(ctx context.Context, projetID string) (int, error)
	// CreateGroupe создаёт активную запись членства.
	CreateGroupe(ctx context.Context, projetID, participantID string) (*models.Groupe, error)
}

// Ledger реализует учёт членства поверх хранилища.
type Ledger struct {
	repo GroupeRepository
	log  *slog.Logger
}

// NewLedger создает новый экземпляр Ledger.
func NewLedger(repo GroupeRepository, log *slog.Logger) *Ledger {
	return &Ledger{
		repo: repo,
		log:  log,
	}
}

// FindActive возвращает активную запись членства, если она существует.
func (l *Ledger) FindActive(ctx context.Context, projetID, participantID string) (*models.Groupe, bool, error) {
	return l.repo.FindActiveGroupe(ctx, projetID, participantID)
}

// CountActive возвращает число активных участников проекта.
func (l *Ledger) CountActive(ctx context.Context, projetID string) (int, error) {
	return l.repo.CountActiveGroupes(ctx, projetID)
}

// AddMembership создаёт активную запись членства. Наличие активной записи для
// пары даёт ErrDuplicateMembership: проверка выполняется атомарно со вставкой
// уникальным индексом хранилища, поэтому две конкурирующие вставки никогда не
// дадут двух активных записей.
func (l *Ledger) AddMembership(ctx context.Context, projetID, participantID string) (*models.Groupe, error) {
	g, err := l.repo.CreateGroupe(ctx, projetID, participantID)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fmt.Errorf("projet %s, participant %s: %w", projetID, participantID, ErrDuplicateMembership)
		}
		return nil, err
	}
	l.log.Info("membership created",
		slog.String("projet_id", projetID),
		slog.String("participant_id", participantID))
	return g, nil
}
