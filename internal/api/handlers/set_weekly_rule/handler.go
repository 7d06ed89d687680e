package set_weekly_rule

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
	msgInvalidInterval    = "некорректное окно: ожидается день недели 0..6 и HH:MM, начало раньше конца"
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

// Handle POST /api/v1/hosts/{hostId}/weekly-rules
// Окно сливается с пересекающимися и смежными окнами того же дня
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	hostID, err := strconv.ParseInt(mux.Vars(r)["hostId"], 10, 64)
	if err != nil {
		h.logger.Warn("POST /hosts/{id}/weekly-rules - Invalid host ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidHostID)
		return
	}

	var req models.SetWeeklyRuleRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /hosts/{id}/weekly-rules - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.service.SetWeeklyRule(r.Context(), hostID, &req)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidRange) {
			h.logger.Warn("POST /hosts/{id}/weekly-rules - Invalid interval: host_id=%d, error=%v", hostID, err)
			handlers.RespondBadRequest(w, msgInvalidInterval)
			return
		}
		h.logger.Error("POST /hosts/{id}/weekly-rules - Failed to add rule: host_id=%d, error=%v", hostID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("POST /hosts/{id}/weekly-rules - Rule added: host_id=%d, day=%d", hostID, req.DayOfWeek)
	handlers.RespondJSON(w, http.StatusOK, result)
}
