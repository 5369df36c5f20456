package handler

import (
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/glossline/detailing-booking/backend/internal/availability"
	"github.com/glossline/detailing-booking/backend/internal/domain"
	"github.com/glossline/detailing-booking/backend/internal/metrics"
	"github.com/glossline/detailing-booking/backend/internal/repository"
	"github.com/glossline/detailing-booking/backend/internal/utils"
)

const auditEntityBooking = "booking"

const slotTakenMessage = "This slot was just taken, please pick another"

func formatPrice(cents int64) string {
	return fmt.Sprintf("$%d.%02d", cents/100, cents%100)
}

func (h *Handler) bookingMailData(b *domain.Booking) domain.BookingMailData {
	return domain.BookingMailData{
		BusinessName:  h.config.Business.Name,
		CustomerName:  b.CustomerName,
		CustomerEmail: b.CustomerEmail,
		CustomerPhone: b.CustomerPhone,
		Reference:     b.Reference,
		ServiceName:   b.ServiceName,
		VehicleSize:   string(b.VehicleSize),
		Date:          b.Date,
		Slot:          b.Label(),
		Address:       b.Address,
		Price:         formatPrice(b.PriceCents),
		Status:        string(b.Status),
	}
}

// notify enqueues a booking email. The booking is already stored, so a failure is only logged.
func (h *Handler) notify(mailType, to string, b *domain.Booking) {
	msg := domain.MailMessage{
		Type: mailType,
		To:   to,
		Data: h.bookingMailData(b),
	}
	if err := h.mailQueue.Publish(msg); err != nil {
		slog.Warn("cannot enqueue booking email",
			slog.String("type", mailType),
			slog.String("reference", b.Reference),
			slog.String("error", err.Error()),
		)
	}
}

func (h *Handler) CreateBooking(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Date          string             `json:"date" validate:"required,datetime=2006-01-02"`
		Time          string             `json:"time" validate:"required"`
		Worker        string             `json:"worker" validate:"required"`
		ServiceID     int64              `json:"serviceID" validate:"required,gt=0"`
		VehicleSize   domain.VehicleSize `json:"vehicleSize" validate:"required,oneof=small medium large"`
		CustomerName  string             `json:"customerName" validate:"required,max=100"`
		CustomerEmail string             `json:"customerEmail" validate:"required,email"`
		CustomerPhone string             `json:"customerPhone" validate:"required,max=30"`
		Address       string             `json:"address" validate:"required,max=300"`
		Notes         string             `json:"notes" validate:"max=1000"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	// a composite "9:00 AM (Nick)" label in time wins over the worker field
	if t, worker, ok := domain.ParseSlotLabel(req.Time); ok {
		req.Time, req.Worker = t, worker
	}
	req.Worker = domain.CleanWorkerName(req.Worker)
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := utils.ValidateBookingDate(req.Date, time.Now(), h.engine.Location(), h.config.Business.MaxAdvanceDays); err != nil {
		metrics.IncBookingRejected("date")
		h.errorResponse(w, r, err.Error())
		return
	}

	minutes, err := availability.ParseDisplayTime(req.Time)
	if err != nil {
		h.errorResponse(w, r, "time must look like 9:00 AM")
		return
	}

	service, err := h.repository.GetServiceByID(req.ServiceID)
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "Service not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}
	if !service.IsActive {
		h.errorResponse(w, r, "This service is no longer offered")
		return
	}
	price, ok := service.PriceFor(req.VehicleSize)
	if !ok {
		h.errorResponse(w, r, "Unknown vehicle size")
		return
	}

	snap, err := h.repository.GetAvailabilitySnapshot(req.Date)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}
	if !h.engine.IsAvailable(req.Date, service, snap, req.Time, req.Worker) {
		metrics.IncBookingRejected("unavailable")
		h.errorResponse(w, r, slotTakenMessage)
		return
	}

	booking := &domain.Booking{
		Reference:     utils.GenerateBookingReference(),
		Date:          req.Date,
		Time:          availability.FormatClock(minutes),
		Worker:        req.Worker,
		ServiceID:     service.ID,
		ServiceName:   service.Name,
		VehicleSize:   req.VehicleSize,
		CustomerName:  req.CustomerName,
		CustomerEmail: req.CustomerEmail,
		CustomerPhone: req.CustomerPhone,
		Address:       req.Address,
		Notes:         req.Notes,
		PriceCents:    price,
		Status:        domain.StatusPending,
	}

	if err := h.repository.CreateBooking(booking); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "bookings_active_slot_key":
			metrics.IncBookingRejected("conflict")
			h.errorResponse(w, r, slotTakenMessage)
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	metrics.IncBookingCreated(string(booking.Status))
	h.audit(r, domain.AuditActionCreate, auditEntityBooking, strconv.FormatInt(booking.ID, 10), booking)

	h.notify(domain.MailBookingReceived, booking.CustomerEmail, booking)
	h.notify(domain.MailBookingNotification, h.config.Email.NotifyAddress, booking)

	h.successResponse(w, r, "Booking received", booking)
}

func (h *Handler) GetBookingByReference(w http.ResponseWriter, r *http.Request) {
	reference, err := uuid.Parse(chi.URLParam(r, "reference"))
	if err != nil {
		h.errorResponse(w, r, "Booking not found")
		return
	}

	booking, err := h.repository.GetBookingByReference(reference.String())
	if err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "Booking not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.successResponse(w, r, "Booking loaded", booking)
}

func (h *Handler) GetBookings(w http.ResponseWriter, r *http.Request) {
	var query struct {
		Date   string `validate:"omitempty,datetime=2006-01-02"`
		Status string `validate:"omitempty,oneof=pending confirmed completed cancelled"`
		Limit  int    `validate:"gte=1,lte=1000"`
	}
	query.Date = r.URL.Query().Get("date")
	query.Status = r.URL.Query().Get("status")
	query.Limit = 200
	if v := r.URL.Query().Get("limit"); v != "" {
		limit, err := strconv.Atoi(v)
		if err != nil {
			h.errorResponse(w, r, "limit must be a number")
			return
		}
		query.Limit = limit
	}
	if err := h.validate.Struct(query); err != nil {
		h.badRequest(w, r, err)
		return
	}

	bookings, err := h.repository.GetBookings(repository.BookingFilter{
		Date:   query.Date,
		Status: domain.BookingStatus(query.Status),
		Limit:  query.Limit,
	})
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Bookings loaded", bookings)
}

func (h *Handler) GetBooking(w http.ResponseWriter, r *http.Request) {
	booking := r.Context().Value(BookingCtx).(*domain.Booking)
	h.successResponse(w, r, "Booking loaded", booking)
}

func (h *Handler) UpdateBookingStatus(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Status domain.BookingStatus `json:"status" validate:"required,oneof=pending confirmed completed cancelled"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	booking := r.Context().Value(BookingCtx).(*domain.Booking)
	booking.Status = booking.Status.Normalize()
	previous := booking.Status

	if err := booking.Transition(req.Status); err != nil {
		h.errorResponse(w, r, fmt.Sprintf("Cannot change a %s booking to %s", previous, req.Status))
		return
	}

	if err := h.repository.UpdateBookingStatus(booking); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "Booking was changed by someone else, please retry")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	metrics.IncBookingTransition(string(booking.Status))
	h.audit(r, domain.AuditActionStatusChange, auditEntityBooking, strconv.FormatInt(booking.ID, 10), map[string]any{
		"from": previous,
		"to":   booking.Status,
	})

	h.notify(domain.MailBookingStatusChanged, booking.CustomerEmail, booking)

	h.successResponse(w, r, "Booking status updated", booking)
}
