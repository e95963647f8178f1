// Package enrollment реализует workflow регистрации с оплатой: открытие
// платёжного ордера, сохранение незавершённой регистрации в сессии на время
// внешнего редиректа, списание средств по возвратному callback, фиксацию
// пользователя и членства и пересчёт финансовых агрегатов проекта.
//
// Состояния: NONE -> AWAITING_PAYMENT -> COMPLETED, с терминальными
// альтернативами CANCELLED и EXPIRED и возвратом в NONE при ошибках
// валидации.
package enrollment

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/juntimo/juntimo-backend/internal/lib/jwt"
	"github.com/juntimo/juntimo-backend/internal/lib/password"
	"github.com/juntimo/juntimo-backend/internal/lib/sl"
	"github.com/juntimo/juntimo-backend/internal/models"
	"github.com/juntimo/juntimo-backend/internal/paypal"
	"github.com/juntimo/juntimo-backend/internal/rabbitmq"
	"github.com/juntimo/juntimo-backend/internal/services/groupe"
	"github.com/juntimo/juntimo-backend/internal/storage/repository"
)

// Значения по умолчанию для регистрационного взноса.
const (
	DefaultFrais  = "50.00"
	DefaultDevise = "USD"
)

var emailRe = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// UserRepository описывает контракт для работы с пользователями.
type UserRepository interface {
	// CreateUser сохраняет нового пользователя и возвращает его UID.
	CreateUser(ctx context.Context, user models.User) (string, error)
	// GetUserByEmail возвращает пользователя по email без учёта регистра.
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	// GetUser возвращает пользователя по UID.
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// ProjetRepository описывает контракт для работы с проектами.
type ProjetRepository interface {
	// GetProjet возвращает проект по ID.
	GetProjet(ctx context.Context, id string) (*models.Projet, error)
	// IncrementParticipantsAndRecalc атомарно увеличивает счётчик
	// участников и пересчитывает производные платёжные поля.
	IncrementParticipantsAndRecalc(ctx context.Context, id string) (*models.Projet, error)
}

// MembershipLedger описывает учёт членства в группах проектов.
type MembershipLedger interface {
	FindActive(ctx context.Context, projetID, participantID string) (*models.Groupe, bool, error)
	AddMembership(ctx context.Context, projetID, participantID string) (*models.Groupe, error)
}

// Gateway описывает платёжный шлюз: две операции процесса регистрации.
type Gateway interface {
	CreateOrder(ctx context.Context, req paypal.CreateOrderRequest) (*paypal.Order, error)
	CaptureOrder(ctx context.Context, orderID string) (*paypal.CaptureResult, error)
}

// PendingStore описывает хранилище незавершённых регистраций сессии.
type PendingStore interface {
	Put(ctx context.Context, sessionID string, rec models.PendingEnrollment) error
	Get(ctx context.Context, sessionID string) (*models.PendingEnrollment, bool, error)
	Clear(ctx context.Context, sessionID string) error
}

// EventPublisher публикует события завершённых регистраций.
type EventPublisher interface {
	Publish(routingKey string, message any) error
}

// Service оркестрирует workflow регистрации.
type Service struct {
	users         UserRepository
	projets       ProjetRepository
	ledger        MembershipLedger
	gateway       Gateway
	pending       PendingStore
	jwtMaker      jwt.Maker
	events        EventPublisher // может быть nil: события не критичны
	log           *slog.Logger
	baseURL       string
	pendingExpiry time.Duration
}

// New создает новый экземпляр Service. publisher может быть nil — тогда
// события завершённых регистраций не публикуются.
func New(users UserRepository, projets ProjetRepository, ledger MembershipLedger,
	gateway Gateway, pending PendingStore, jwtMaker jwt.Maker,
	events EventPublisher, log *slog.Logger, baseURL string, pendingExpiry time.Duration) *Service {
	return &Service{
		users:         users,
		projets:       projets,
		ledger:        ledger,
		gateway:       gateway,
		pending:       pending,
		jwtMaker:      jwtMaker,
		events:        events,
		log:           log,
		baseURL:       baseURL,
		pendingExpiry: pendingExpiry,
	}
}

// StartInput — входные данные перехода NONE -> AWAITING_PAYMENT.
// Для анонимного пути заполняются данные нового пользователя; для пути
// присоединения уже вошедшего пользователя — только ExistingUserID и проект.
type StartInput struct {
	Nom              string
	Prenom           string
	Email            string
	MotDePasse       string
	Tel              string
	PaysResidence    string
	ProjetID         string
	FraisInscription string
	Devise           string
	ExistingUserID   string
}

// StartResult — ордер открыт, покупателя нужно перенаправить на ApproveLink.
type StartResult struct {
	ApproveLink string
	OrderID     string
}

// Start выполняет переход NONE -> AWAITING_PAYMENT: валидирует вход,
// открывает платёжный ордер и сохраняет незавершённую регистрацию в сессии.
// Новый Start затирает предыдущую запись сессии, если она была.
func (s *Service) Start(ctx context.Context, sessionID string, in StartInput) (*StartResult, error) {
	const op = "enrollment.Start"
	log := s.log.With(slog.String("op", op), slog.String("projet_id", in.ProjetID))

	joining := in.ExistingUserID != ""
	if err := validateStart(in, joining); err != nil {
		return nil, err
	}
	amount, currency, err := normalizeFee(in.FraisInscription, in.Devise)
	if err != nil {
		return nil, err
	}

	projet, err := s.projets.GetProjet(ctx, in.ProjetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("projet %s: %w", in.ProjetID, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	var draft *models.DraftUser
	if joining {
		// Путь присоединения: активное членство делает оплату бессмысленной.
		if _, found, err := s.ledger.FindActive(ctx, in.ProjetID, in.ExistingUserID); err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		} else if found {
			return nil, fmt.Errorf("projet %s: %w", in.ProjetID, groupe.ErrDuplicateMembership)
		}
	} else {
		// Анонимный путь: занятый email означает, что нужно войти и
		// воспользоваться присоединением к проекту.
		if _, err := s.users.GetUserByEmail(ctx, in.Email); err == nil {
			return nil, fmt.Errorf("%s: %w", in.Email, ErrEmailTaken)
		} else if !errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
	}

	if !joining {
		hashed, err := password.GetHash(in.MotDePasse)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		draft = &models.DraftUser{
			Nom:           strings.TrimSpace(in.Nom),
			Prenom:        strings.TrimSpace(in.Prenom),
			Email:         strings.ToLower(strings.TrimSpace(in.Email)),
			PasswordHash:  hashed,
			Tel:           in.Tel,
			PaysResidence: in.PaysResidence,
			Role:          models.RoleParticipant,
			CreatedAt:     time.Now().UTC(),
		}
	}

	description := fmt.Sprintf("Participation au projet %q", projet.Titre)
	if !joining {
		description = fmt.Sprintf("Inscription et participation au projet %q", projet.Titre)
	}

	order, err := s.gateway.CreateOrder(ctx, paypal.CreateOrderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []paypal.PurchaseUnit{{
			Amount:      paypal.Amount{CurrencyCode: currency, Value: amount},
			Description: description,
		}},
		ApplicationContext: paypal.ApplicationContext{
			BrandName:   "JUNTIMO",
			LandingPage: "LOGIN",
			UserAction:  "PAY_NOW",
			ReturnURL:   s.baseURL + "/auth/paypalSuccess",
			CancelURL:   s.baseURL + "/auth/paypalCancel",
		},
	})
	if err != nil {
		return nil, err
	}

	rec := models.PendingEnrollment{
		OrderID:        order.ID,
		ProjetID:       in.ProjetID,
		DraftUser:      draft,
		ExistingUserID: in.ExistingUserID,
		CreatedAt:      time.Now().UTC(),
	}
	if err := s.pending.Put(ctx, sessionID, rec); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	log.Info("enrollment started", slog.String("order_id", order.ID), slog.Bool("joining", joining))
	return &StartResult{
		ApproveLink: order.ApproveLink(),
		OrderID:     order.ID,
	}, nil
}

// PaymentDetails — сводка по списанию для ответа клиенту.
type PaymentDetails struct {
	OrderID   string `json:"orderId"`
	CaptureID string `json:"captureId,omitempty"`
	Amount    string `json:"amount,omitempty"`
	Currency  string `json:"currency,omitempty"`
	Status    string `json:"status"`
}

// CompleteResult — исход перехода AWAITING_PAYMENT -> COMPLETED.
type CompleteResult struct {
	User              *models.User
	Projet            *models.Projet
	Token             string
	IsNewUser         bool
	AlreadyRegistered bool
	Payment           *PaymentDetails
}

// Complete выполняет переход AWAITING_PAYMENT -> COMPLETED по возвратному
// callback от шлюза: сверяет ордер с записью сессии, проверяет окно жизни,
// списывает средства, фиксирует пользователя и членство, пересчитывает
// агрегаты проекта и выдаёт токен. Запись сессии удаляется только на
// успешном пути, поэтому повторный callback с тем же ордером получает
// ErrSessionExpired, а не второе списание.
func (s *Service) Complete(ctx context.Context, sessionID, orderID string) (*CompleteResult, error) {
	const op = "enrollment.Complete"
	log := s.log.With(slog.String("op", op), slog.String("order_id", orderID))

	if orderID == "" {
		return nil, fmt.Errorf("order id: %w", ErrValidation)
	}

	rec, found, err := s.pending.Get(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !found {
		return nil, fmt.Errorf("no pending enrollment: %w", ErrSessionExpired)
	}
	if rec.OrderID != orderID {
		// Чужой или повторно проигранный callback: ордер не из этой сессии.
		log.Warn("order id mismatch", slog.String("expected", rec.OrderID))
		return nil, fmt.Errorf("order mismatch: %w", ErrSessionExpired)
	}

	if rec.ExpiredAt(time.Now().UTC(), s.pendingExpiry) {
		if err := s.pending.Clear(ctx, sessionID); err != nil {
			log.Error("failed to clear expired pending enrollment", sl.Err(err))
		}
		return nil, fmt.Errorf("pending enrollment older than %s: %w", s.pendingExpiry, ErrSessionExpired)
	}

	projet, err := s.projets.GetProjet(ctx, rec.ProjetID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("projet %s: %w", rec.ProjetID, ErrNotFound)
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	capture, err := s.gateway.CaptureOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if capture.Status != paypal.StatusCompleted {
		log.Warn("capture not completed", slog.String("status", capture.Status))
		return nil, fmt.Errorf("status %s: %w", capture.Status, ErrPaymentNotCompleted)
	}

	// Дальше любой сбой означает списанные, но не оформленные средства:
	// запись сессии сохраняется для ручного разбора.
	finalUser, isNewUser, err := s.resolveUser(ctx, rec)
	if err != nil {
		return nil, err
	}

	payment := paymentDetails(orderID, capture)

	if _, err := s.ledger.AddMembership(ctx, rec.ProjetID, finalUser.UID); err != nil {
		if errors.Is(err, groupe.ErrDuplicateMembership) {
			// Идемпотентный исход: членство уже есть, оформлять нечего.
			if err := s.pending.Clear(ctx, sessionID); err != nil {
				log.Error("failed to clear pending enrollment", sl.Err(err))
			}
			log.Info("duplicate membership on complete, treated as already registered")
			return &CompleteResult{
				User:              finalUser,
				Projet:            projet,
				AlreadyRegistered: true,
				Payment:           payment,
			}, nil
		}
		return nil, fmt.Errorf("%w: add membership: %w", ErrAfterCapture, err)
	}

	updatedProjet, err := s.projets.IncrementParticipantsAndRecalc(ctx, rec.ProjetID)
	if err != nil {
		return nil, fmt.Errorf("%w: recalc projet: %w", ErrAfterCapture, err)
	}

	if err := s.pending.Clear(ctx, sessionID); err != nil {
		log.Error("failed to clear pending enrollment", sl.Err(err))
	}

	token, err := s.jwtMaker.GenerateToken(finalUser.UID, finalUser.Email, finalUser.Role)
	if err != nil {
		return nil, fmt.Errorf("%w: issue token: %w", ErrAfterCapture, err)
	}

	s.publishCompleted(finalUser.UID, rec.ProjetID, payment)

	log.Info("enrollment completed",
		slog.String("user_uid", finalUser.UID),
		slog.Bool("is_new_user", isNewUser),
		slog.Int("participants_actuels", updatedProjet.ParticipantsActuels))

	return &CompleteResult{
		User:      finalUser,
		Projet:    updatedProjet,
		Token:     token,
		IsNewUser: isNewUser,
		Payment:   payment,
	}, nil
}

// Cancel очищает незавершённую регистрацию сессии. Всегда успешен, даже
// когда очищать нечего.
func (s *Service) Cancel(ctx context.Context, sessionID string) {
	const op = "enrollment.Cancel"
	if err := s.pending.Clear(ctx, sessionID); err != nil {
		s.log.Error("failed to clear pending enrollment",
			slog.String("op", op), sl.Err(err))
	}
}

// resolveUser определяет итогового пользователя: загружает существующего либо
// создаёт нового из черновика, повторно проверяя уникальность email —
// между началом регистрации и завершением оплаты проходит время.
func (s *Service) resolveUser(ctx context.Context, rec *models.PendingEnrollment) (*models.User, bool, error) {
	if rec.ExistingUserID != "" {
		u, err := s.users.GetUser(ctx, rec.ExistingUserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, false, fmt.Errorf("user %s: %w", rec.ExistingUserID, ErrNotFound)
			}
			return nil, false, fmt.Errorf("%w: load user: %w", ErrAfterCapture, err)
		}
		return u, false, nil
	}

	if rec.DraftUser == nil {
		return nil, false, fmt.Errorf("pending enrollment has no user data: %w", ErrValidation)
	}

	draft := rec.DraftUser
	if _, err := s.users.GetUserByEmail(ctx, draft.Email); err == nil {
		return nil, false, fmt.Errorf("%s: %w", draft.Email, ErrEmailTaken)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, false, fmt.Errorf("%w: check email: %w", ErrAfterCapture, err)
	}

	user := models.User{
		Nom:           draft.Nom,
		Prenom:        draft.Prenom,
		Email:         draft.Email,
		PasswordHash:  draft.PasswordHash,
		Tel:           draft.Tel,
		PaysResidence: draft.PaysResidence,
		Role:          draft.Role,
	}
	uid, err := s.users.CreateUser(ctx, user)
	if err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			// Гонку двух регистраций на один email закрывает индекс.
			return nil, false, fmt.Errorf("%s: %w", draft.Email, ErrEmailTaken)
		}
		return nil, false, fmt.Errorf("%w: create user: %w", ErrAfterCapture, err)
	}
	user.UID = uid
	return &user, true, nil
}

func (s *Service) publishCompleted(userUID, projetID string, payment *PaymentDetails) {
	if s.events == nil {
		return
	}
	event := rabbitmq.EnrollmentCompleted{
		UserUID:  userUID,
		ProjetID: projetID,
		OrderID:  payment.OrderID,
		Amount:   payment.Amount,
		Currency: payment.Currency,
	}
	if err := s.events.Publish("completed", event); err != nil {
		s.log.Error("failed to publish enrollment event", sl.Err(err))
	}
}

func validateStart(in StartInput, joining bool) error {
	if in.ProjetID == "" {
		return fmt.Errorf("projetId is required: %w", ErrValidation)
	}
	if joining {
		return nil
	}
	switch {
	case in.Nom == "":
		return fmt.Errorf("nom is required: %w", ErrValidation)
	case in.Prenom == "":
		return fmt.Errorf("prenom is required: %w", ErrValidation)
	case in.Email == "":
		return fmt.Errorf("email is required: %w", ErrValidation)
	case !emailRe.MatchString(in.Email):
		return fmt.Errorf("email format is invalid: %w", ErrValidation)
	case len(in.MotDePasse) < 8:
		return fmt.Errorf("mot_de_passe must be at least 8 characters: %w", ErrValidation)
	}
	return nil
}

// normalizeFee подставляет значения по умолчанию и проверяет сумму взноса.
func normalizeFee(frais, devise string) (string, string, error) {
	if frais == "" {
		frais = DefaultFrais
	}
	if devise == "" {
		devise = DefaultDevise
	}
	amount, err := strconv.ParseFloat(frais, 64)
	if err != nil || amount <= 0 {
		return "", "", fmt.Errorf("fraisInscription is invalid: %w", ErrValidation)
	}
	return frais, devise, nil
}

func paymentDetails(orderID string, capture *paypal.CaptureResult) *PaymentDetails {
	details := &PaymentDetails{
		OrderID: orderID,
		Status:  capture.Status,
	}
	if c := capture.Capture(); c != nil {
		details.CaptureID = c.ID
		details.Amount = c.Amount.Value
		details.Currency = c.Amount.CurrencyCode
	}
	return details
}
