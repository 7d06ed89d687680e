package set_date_override

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
	"github.com/m04kA/SMC-SchedulingService/internal/service/rules/models"
)

const (
	msgInvalidHostID      = "некорректный ID хоста"
	msgInvalidRequestBody = "некорректное тело запроса"
	msgInvalidOverride    = "некорректное исключение: ожидается дата YYYY-MM-DD, mode replace|add и окна HH:MM"
	msgOverlapping        = "окна исключения пересекаются"
)

type Handler struct {
	service RulesService
	logger  Logger
}

func NewHandler(service RulesService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PUT /api/v1/hosts/{hostId}/overrides/{date}
// mode=replace с пустым списком окон делает дату выходной
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	hostID, err := strconv.ParseInt(vars["hostId"], 10, 64)
	if err != nil {
		h.logger.Warn("PUT /hosts/{id}/overrides/{date} - Invalid host ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidHostID)
		return
	}
	date := vars["date"]

	var req models.SetOverrideRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PUT /hosts/{id}/overrides/{date} - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.SetOverride(r.Context(), hostID, date, &req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrOverlappingInterval):
			h.logger.Warn("PUT /hosts/{id}/overrides/{date} - Overlapping intervals: host_id=%d, date=%s", hostID, date)
			handlers.RespondBadRequest(w, msgOverlapping)

		case errors.Is(err, domain.ErrInvalidRange):
			h.logger.Warn("PUT /hosts/{id}/overrides/{date} - Invalid override: host_id=%d, date=%s, error=%v",
				hostID, date, err)
			handlers.RespondBadRequest(w, msgInvalidOverride)

		default:
			h.logger.Error("PUT /hosts/{id}/overrides/{date} - Failed to set override: host_id=%d, date=%s, error=%v",
				hostID, date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("PUT /hosts/{id}/overrides/{date} - Override saved: host_id=%d, date=%s, mode=%s",
		hostID, date, result.Mode)
	handlers.RespondJSON(w, http.StatusOK, result)
}
