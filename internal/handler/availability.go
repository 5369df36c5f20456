package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/glossline/detailing-booking/backend/internal/availability"
	"github.com/glossline/detailing-booking/backend/internal/domain"
	"github.com/glossline/detailing-booking/backend/internal/metrics"
	"github.com/glossline/detailing-booking/backend/internal/utils"
)

// GetAvailability lists the open slots for ?date=YYYY-MM-DD, optionally narrowed to the workers
// allowed to perform ?serviceID=N.
func (h *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	var query struct {
		Date      string `validate:"omitempty,datetime=2006-01-02"`
		ServiceID int64  `validate:"gte=0"`
	}
	query.Date = strings.TrimSpace(r.URL.Query().Get("date"))
	if v := r.URL.Query().Get("serviceID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			h.errorResponse(w, r, "serviceID must be a number")
			return
		}
		query.ServiceID = id
	}
	if err := h.validate.Struct(query); err != nil {
		h.badRequest(w, r, err)
		return
	}

	metrics.IncAvailabilityQuery()

	if query.Date == "" {
		h.successResponse(w, r, "Available slots loaded", []availability.AvailableSlot{})
		return
	}
	// nothing is bookable outside the horizon, so there is no point in computing it
	if err := utils.ValidateBookingDate(query.Date, time.Now(), h.engine.Location(), h.config.Business.MaxAdvanceDays); err != nil {
		h.successResponse(w, r, "Available slots loaded", []availability.AvailableSlot{})
		return
	}

	var service *domain.Service
	if query.ServiceID > 0 {
		s, err := h.repository.GetServiceByID(query.ServiceID)
		if err != nil {
			switch {
			case errors.Is(err, sql.ErrNoRows):
				h.errorResponse(w, r, "Service not found")
			default:
				h.internalServerError(w, r, err)
			}
			return
		}
		service = s
	}

	snap, err := h.repository.GetAvailabilitySnapshot(query.Date)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Available slots loaded", h.engine.AvailableSlots(query.Date, service, snap))
}
