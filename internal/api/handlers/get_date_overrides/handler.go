package get_date_overrides

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
	msgInvalidRange  = "некорректный период, ожидается YYYY-MM-DD"
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

// Handle GET /api/v1/hosts/{hostId}/overrides
// Query params: start, end (опционально, YYYY-MM-DD)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	hostID, err := strconv.ParseInt(mux.Vars(r)["hostId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /hosts/{id}/overrides - Invalid host ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidHostID)
		return
	}

	query := r.URL.Query()
	var from, to *string
	if v := query.Get("start"); v != "" {
		from = &v
	}
	if v := query.Get("end"); v != "" {
		to = &v
	}

	result, err := h.service.ListOverrides(r.Context(), hostID, from, to)
	if err != nil {
		if errors.Is(err, rules.ErrInvalidInput) {
			h.logger.Warn("GET /hosts/{id}/overrides - Invalid range: host_id=%d, error=%v", hostID, err)
			handlers.RespondBadRequest(w, msgInvalidRange)
			return
		}
		h.logger.Error("GET /hosts/{id}/overrides - Failed to list overrides: host_id=%d, error=%v", hostID, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
