package delete_weekly_rules

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/domain"
)

const (
	msgInvalidHostID = "некорректный ID хоста"
	msgInvalidDay    = "параметр day обязателен, 0 (воскресенье) .. 6 (суббота)"
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

// Handle DELETE /api/v1/hosts/{hostId}/weekly-rules?day=N
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	hostID, err := strconv.ParseInt(mux.Vars(r)["hostId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /hosts/{id}/weekly-rules - Invalid host ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidHostID)
		return
	}

	day, err := strconv.Atoi(r.URL.Query().Get("day"))
	if err != nil {
		h.logger.Warn("DELETE /hosts/{id}/weekly-rules - Invalid day: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDay)
		return
	}

	if err := h.service.DeleteWeeklyRules(r.Context(), hostID, day); err != nil {
		if errors.Is(err, domain.ErrInvalidRange) {
			h.logger.Warn("DELETE /hosts/{id}/weekly-rules - Invalid day: host_id=%d, day=%d", hostID, day)
			handlers.RespondBadRequest(w, msgInvalidDay)
			return
		}
		h.logger.Error("DELETE /hosts/{id}/weekly-rules - Failed to delete rules: host_id=%d, day=%d, error=%v",
			hostID, day, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("DELETE /hosts/{id}/weekly-rules - Day cleared: host_id=%d, day=%d", hostID, day)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
