package delete_date_override

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/rules"
)

const (
	msgInvalidHostID = "некорректный ID хоста"
	msgInvalidDate   = "некорректная дата, ожидается YYYY-MM-DD"
	msgNotFound      = "исключение на дату не найдено"
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

// Handle DELETE /api/v1/hosts/{hostId}/overrides/{date}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	hostID, err := strconv.ParseInt(vars["hostId"], 10, 64)
	if err != nil {
		h.logger.Warn("DELETE /hosts/{id}/overrides/{date} - Invalid host ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidHostID)
		return
	}
	date := vars["date"]

	if err := h.service.DeleteOverride(r.Context(), hostID, date); err != nil {
		switch {
		case errors.Is(err, rules.ErrOverrideNotFound):
			h.logger.Warn("DELETE /hosts/{id}/overrides/{date} - Override not found: host_id=%d, date=%s", hostID, date)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, rules.ErrInvalidInput):
			h.logger.Warn("DELETE /hosts/{id}/overrides/{date} - Invalid date: %s", date)
			handlers.RespondBadRequest(w, msgInvalidDate)

		default:
			h.logger.Error("DELETE /hosts/{id}/overrides/{date} - Failed to delete override: host_id=%d, date=%s, error=%v",
				hostID, date, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("DELETE /hosts/{id}/overrides/{date} - Override deleted: host_id=%d, date=%s", hostID, date)
	handlers.RespondJSON(w, http.StatusNoContent, nil)
}
