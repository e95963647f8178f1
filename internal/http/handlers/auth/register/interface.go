package register

import (
	"context"

	"github.com/juntimo/juntimo-backend/internal/services/enrollment"
)

// Service описывает интерфейс бизнес-логики начала регистрации.
type Service interface {
	Start(ctx context.Context, sessionID string, in enrollment.StartInput) (*enrollment.StartResult, error)
}
