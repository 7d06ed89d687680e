package get_availability

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
	msgMissingDate   = "параметр date обязателен"
	msgInvalidInput  = "некорректная дата или часовой пояс"
)

type Handler struct {
	service         RulesService
	defaultTimezone string
	logger          Logger
}

// NewHandler создает handler. defaultTimezone используется, если timezone не передан.
func NewHandler(service RulesService, defaultTimezone string, logger Logger) *Handler {
	return &Handler{
		service:         service,
		defaultTimezone: defaultTimezone,
		logger:          logger,
	}
}

// Handle GET /api/v1/hosts/{hostId}/availability
// Query params: date (required, YYYY-MM-DD), timezone (optional, IANA)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	hostID, err := strconv.ParseInt(mux.Vars(r)["hostId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /hosts/{id}/availability - Invalid host ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidHostID)
		return
	}

	query := r.URL.Query()
	date := query.Get("date")
	if date == "" {
		h.logger.Warn("GET /hosts/{id}/availability - Missing date: host_id=%d", hostID)
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}
	timezone := query.Get("timezone")
	if timezone == "" {
		timezone = h.defaultTimezone
	}

	result, err := h.service.Resolve(r.Context(), hostID, date, timezone)
	if err != nil {
		if errors.Is(err, rules.ErrInvalidInput) {
			h.logger.Warn("GET /hosts/{id}/availability - Invalid input: host_id=%d, error=%v", hostID, err)
			handlers.RespondBadRequest(w, msgInvalidInput)
			return
		}
		h.logger.Error("GET /hosts/{id}/availability - Failed to resolve: host_id=%d, date=%s, error=%v",
			hostID, date, err)
		handlers.RespondInternalError(w)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
