package get_host_bookings

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-SchedulingService/internal/api/handlers"
	"github.com/m04kA/SMC-SchedulingService/internal/service/bookings"
)

const (
	msgInvalidHostID = "некорректный ID хоста"
	msgInvalidParams = "некорректные параметры запроса"
)

type Handler struct {
	service BookingService
	logger  Logger
}

func NewHandler(service BookingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/hosts/{hostId}/bookings
// Query params: eventTypeId, start, end (YYYY-MM-DD), status (опционально)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	hostID, err := strconv.ParseInt(mux.Vars(r)["hostId"], 10, 64)
	if err != nil {
		h.logger.Warn("GET /hosts/{id}/bookings - Invalid host ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidHostID)
		return
	}

	query := r.URL.Query()
	serviceReq, err := ToServiceRequest(hostID, query.Get("eventTypeId"), query.Get("start"), query.Get("end"), query.Get("status"))
	if err != nil {
		h.logger.Warn("GET /hosts/{id}/bookings - Invalid parameters: %v", err)
		handlers.RespondBadRequest(w, msgInvalidParams)
		return
	}

	result, err := h.service.GetHostBookings(r.Context(), serviceReq)
	if err != nil {
		if errors.Is(err, bookings.ErrInvalidInput) {
			h.logger.Warn("GET /hosts/{id}/bookings - Invalid parameters: host_id=%d, error=%v", hostID, err)
			handlers.RespondBadRequest(w, msgInvalidParams)
			return
		}
		h.logger.Error("GET /hosts/{id}/bookings - Failed to get bookings: host_id=%d, error=%v", hostID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /hosts/{id}/bookings - Bookings retrieved: host_id=%d, count=%d", hostID, result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
