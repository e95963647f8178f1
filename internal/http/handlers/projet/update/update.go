// Package update реализует HTTP-обработчик для обновления проекта по ID.
// Производные платёжные поля запросом не затрагиваются.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/juntimo/juntimo-backend/internal/http/response"
	"github.com/juntimo/juntimo-backend/internal/lib/sl"
	"github.com/juntimo/juntimo-backend/internal/models"
	projetservice "github.com/juntimo/juntimo-backend/internal/services/projet"
)

// Request — обновлённые данные проекта.
type Request struct {
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
	TotalBeneficesRecus     float64                 `json:"total_benefices_recus"`
	BeneficesAnnuels        []models.BeneficeAnnuel `json:"benefices_annuels"`
}

// Service описывает интерфейс бизнес-логики обновления проекта.
type Service interface {
	Update(ctx context.Context, projet models.Projet, id string) error
}

// Handler обрабатывает запросы на обновление проекта.
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
// @Summary Обновить проект
// @Description Обновляет редактируемые поля проекта по ID.
// @Tags Projets
// @Accept  json
// @Produce  json
// @Param id path string true "ID проекта"
// @Param request body Request true "Обновлённые данные"
// @Success 200 {object} map[string]any "Успешное обновление"
// @Failure 400 {object} response.ErrorResponse "Некорректный JSON"
// @Failure 404 {object} response.ErrorResponse "Проект не найден"
// @Failure 422 {object} response.ErrorResponse "Ошибка валидации"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /projets/{id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.projet.update"

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

	id := chi.URLParam(r, "id")
	projet := models.Projet{
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
		TotalBeneficesRecus:     req.TotalBeneficesRecus,
		BeneficesAnnuels:        req.BeneficesAnnuels,
	}
	if projet.Statut == "" {
		projet.Statut = models.ProjetActif
	}

	if err := h.service.Update(r.Context(), projet, id); err != nil {
		if errors.Is(err, projetservice.ErrNotFound) {
			log.Warn("projet not found", slog.String("id", id))
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("projet not found"))
			return
		}
		log.Error("failed to update projet", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("could not update projet"))
		return
	}

	log.Info("projet updated", slog.String("id", id))
	render.JSON(w, r, response.OKWithData(map[string]any{
		"id": id,
	}))
}
