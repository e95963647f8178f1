// Package auth содержит логику бизнес-уровня для аутентификации пользователей.
package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/juntimo/juntimo-backend/internal/lib/jwt"
	"github.com/juntimo/juntimo-backend/internal/lib/password"
	"github.com/juntimo/juntimo-backend/internal/models"
	"github.com/juntimo/juntimo-backend/internal/storage/repository"
)

// ErrInvalidCredentials возвращается при неверной паре email/пароль. Клиент
// получает одинаковый ответ для несуществующего email и неверного пароля.
var ErrInvalidCredentials = errors.New("invalid credentials")

// UserRepository описывает контракт для работы с пользователями в базе данных.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его UID.
	CreateUser(ctx context.Context, user models.User) (string, error)

	// GetUserByEmail возвращает пользователя по email без учёта регистра.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
}

// Service отвечает за авторизацию, валидацию JWT и создание
// административной учётной записи по умолчанию.
type Service struct {
	users    UserRepository
	jwtMaker jwt.Maker
	log      *slog.Logger
}

// New создает новый экземпляр Service.
func New(users UserRepository, jwtMaker jwt.Maker, log *slog.Logger) *Service {
	return &Service{
		users:    users,
		jwtMaker: jwtMaker,
		log:      log,
	}
}

// Login проверяет пароль пользователя и генерирует JWT.
func (s *Service) Login(ctx context.Context, email, rawPassword string) (*models.User, string, error) {
	const op = "auth.Login"

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	if err := password.CompareHash(user.PasswordHash, rawPassword); err != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := s.jwtMaker.GenerateToken(user.UID, user.Email, user.Role)
	if err != nil {
		return nil, "", fmt.Errorf("%s: %w", op, err)
	}
	return user, token, nil
}

// ValidateToken проверяет JWT и возвращает информацию о пользователе, роль и признак валидности.
func (s *Service) ValidateToken(_ context.Context, token string) (*models.User, string, bool, error) {
	claims, err := s.jwtMaker.ParseToken(token)
	if err != nil {
		return nil, "", false, err
	}
	user := &models.User{
		UID:   claims.UserID,
		Email: claims.Email,
		Role:  claims.Role,
	}
	return user, claims.Role, true, nil
}

// EnsureDefaultAdmin создаёт административную учётную запись, если её ещё
// нет. Вызывается при старте приложения; повторный запуск безопасен.
func (s *Service) EnsureDefaultAdmin(ctx context.Context, email, rawPassword string) error {
	const op = "auth.EnsureDefaultAdmin"

	if email == "" || rawPassword == "" {
		s.log.Warn("default admin credentials are not configured, skipping bootstrap")
		return nil
	}

	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil
	} else if !errors.Is(err, repository.ErrNotFound) {
		return fmt.Errorf("%s: %w", op, err)
	}

	hashed, err := password.GetHash(rawPassword)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	admin := models.User{
		Nom:          "Admin",
		Prenom:       "JUNTIMO",
		Email:        email,
		PasswordHash: hashed,
		Role:         models.RoleAdmin,
	}
	uid, err := s.users.CreateUser(ctx, admin)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Гонка двух инстансов при старте: админ уже создан.
			return nil
		}
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("default admin created", slog.String("uid", uid))
	return nil
}
