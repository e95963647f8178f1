// Package create реализует HTTP-обработчик для создания инвестиционных проектов.
//
// Handler принимает JSON-запрос с данными проекта, валидирует их, проверяет
// через бизнес-логику существование объекта недвижимости и возвращает ID
// созданной записи. Производные платёжные поля клиентом не задаются.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/juntimo/juntimo-backend/internal/http/response"
	"github.com/juntimo/juntimo-backend/internal/lib/sl"
	"github.com/juntimo/juntimo-backend/internal/models"
	projetservice "github.com/juntimo/juntimo-backend/internal/services/projet"
)

// Значения по умолчанию для финансовых параметров проекта.
const (
	defaultCommission = 0.01
	defaultPenalite   = 0.25
)

// Request — входные данные нового проекта.
type Request struct {
	BienID                  string                  `json:"bien_id" validate:"required,uuid"`
	Titre                   string                  `json:"titre" validate:"required"`
	Description             string                  `json:"description"`
	Secteur                 string                  `json:"secteur" validate:"required"`
	Statut                  string                  `json:"statut"`
	ValeurTotaleProjet      float64                 `json:"valeur_totale_projet" validate:"required,gt=0"`
	PrefinancementPersonnel float64                 `json:"prefinancement_personnel"`
	Duree                   int                     `json:"duree" validate:"required,gt=0"`
	CommissionImmoInvest    float64                 `json:"commission_immo_invest"`
	Penalite                float64                 `json:"penalite"`
	DateDebut               time.Time               `json:"date_debut"`
	BeneficesAnnuels        []models.BeneficeAnnuel `json:"benefices_annuels"`
}

// Service описывает интерфейс бизнес-логики создания проекта.
type Service interface {
	Create(ctx context.Context, projet models.Projet) (string, error)
}

// Handler управляет HTTP-запросами на создание проектов.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Создать проект
// @Description Создает новый инвестиционный проект для существующего объекта недвижимости.
// @Tags Projets
// @Accept  json
// @Produce  json
// @Param request body Request true "Данные нового проекта"
// @Success 200 {object} map[string]any "Успешное создание"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON или несуществующий объект"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /projets [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.projet.create"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusUnprocessableEntity)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}
	log.Info("all fields are validated")

	projet := models.Projet{
		BienID:                  req.BienID,
		Titre:                   req.Titre,
		Description:             req.Description,
		Secteur:                 req.Secteur,
		Statut:                  req.Statut,
		ValeurTotaleProjet:      req.ValeurTotaleProjet,
		PrefinancementPersonnel: req.PrefinancementPersonnel,
		Duree:                   req.Duree,
		CommissionImmoInvest:    req.CommissionImmoInvest,
		Penalite:                req.Penalite,
		DateDebut:               req.DateDebut,
		BeneficesAnnuels:        req.BeneficesAnnuels,
	}
	if projet.Statut == "" {
		projet.Statut = models.ProjetActif
	}
	if projet.CommissionImmoInvest == 0 {
		projet.CommissionImmoInvest = defaultCommission
	}
	if projet.Penalite == 0 {
		projet.Penalite = defaultPenalite
	}
	if projet.DateDebut.IsZero() {
		projet.DateDebut = time.Now().UTC()
	}

	id, err := h.service.Create(r.Context(), projet)
	if err != nil {
		if errors.Is(err, projetservice.ErrBienNotFound) {
			log.Warn("referenced bien not found", slog.String("bien_id", req.BienID))
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("referenced bien does not exist"))
			return
		}
		log.Error("failed to create projet", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not create projet"))
		return
	}

	log.Info("projet created", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
