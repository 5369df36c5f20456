package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/glossline/detailing-booking/backend/internal/domain"
	"github.com/glossline/detailing-booking/backend/internal/utils"
)

const auditEntityWorker = "worker"

func (h *Handler) GetAllWorkers(w http.ResponseWriter, r *http.Request) {
	workers, err := h.repository.GetAllWorkers()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Workers loaded", workers)
}

func (h *Handler) GetWorker(w http.ResponseWriter, r *http.Request) {
	worker := r.Context().Value(WorkerCtx).(*domain.Worker)
	h.successResponse(w, r, "Worker loaded", worker)
}

func (h *Handler) workerError(w http.ResponseWriter, r *http.Request, err error) {
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr):
		switch pgErr.ConstraintName {
		case "workers_name_key":
			h.errorResponse(w, r, "A worker with this name already exists")
		case "workers_day_off_check":
			h.errorResponse(w, r, "Day off must be between 0 and 6, or -1 for none")
		default:
			h.internalServerError(w, r, err)
		}
	case errors.Is(err, sql.ErrNoRows):
		h.errorResponse(w, r, "Worker was changed by someone else, please retry")
	default:
		h.internalServerError(w, r, err)
	}
}

// checkNoUpcomingBookings answers the request itself and returns false when worker still has
// active bookings that would lose their slot.
func (h *Handler) checkNoUpcomingBookings(w http.ResponseWriter, r *http.Request, worker string) bool {
	count, err := h.repository.CountUpcomingActiveBookings(worker)
	if err != nil {
		h.internalServerError(w, r, err)
		return false
	}
	if count > 0 {
		h.errorResponse(w, r, "Worker has "+strconv.Itoa(count)+" upcoming bookings, cancel or complete them first")
		return false
	}
	return true
}

func (h *Handler) CreateWorker(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name              string                          `json:"name" validate:"required,max=50,excludesall=()"`
		Order             int32                           `json:"order"`
		Start             string                          `json:"start" validate:"required"`
		End               string                          `json:"end" validate:"required"`
		Interval          int                             `json:"interval" validate:"gte=0,lte=720"`
		DayOff            *int                            `json:"dayOff" validate:"omitempty,gte=-1,lte=6"`
		LastSlotInclusive bool                            `json:"lastSlotInclusive"`
		Overrides         map[int]domain.ScheduleOverride `json:"overrides"`
		CustomSlots       []string                        `json:"customSlots"`
		Lunch             *domain.TimeWindow              `json:"lunch"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	req.Name = domain.CleanWorkerName(req.Name)
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	worker := &domain.Worker{
		Name:              req.Name,
		SortOrder:         req.Order,
		Start:             req.Start,
		End:               req.End,
		Interval:          req.Interval,
		DayOff:            domain.NoDayOff,
		LastSlotInclusive: req.LastSlotInclusive,
		Overrides:         req.Overrides,
		CustomSlots:       req.CustomSlots,
		Lunch:             req.Lunch,
	}
	if req.DayOff != nil {
		worker.DayOff = *req.DayOff
	}

	if err := utils.ValidateWorkerSchedule(worker); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.CreateWorker(worker); err != nil {
		h.workerError(w, r, err)
		return
	}

	h.audit(r, domain.AuditActionCreate, auditEntityWorker, strconv.FormatInt(worker.ID, 10), worker)

	h.successResponse(w, r, "Worker created", worker)
}

func (h *Handler) UpdateWorker(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name              *string                         `json:"name" validate:"omitempty,min=1,max=50,excludesall=()"`
		Order             *int32                          `json:"order"`
		Start             *string                         `json:"start"`
		End               *string                         `json:"end"`
		Interval          *int                            `json:"interval" validate:"omitempty,gte=0,lte=720"`
		DayOff            *int                            `json:"dayOff" validate:"omitempty,gte=-1,lte=6"`
		LastSlotInclusive *bool                           `json:"lastSlotInclusive"`
		Overrides         map[int]domain.ScheduleOverride `json:"overrides"`
		CustomSlots       []string                        `json:"customSlots"`
		Lunch             *domain.TimeWindow              `json:"lunch"`
		ClearLunch        bool                            `json:"clearLunch"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if req.Name != nil {
		name := domain.CleanWorkerName(*req.Name)
		req.Name = &name
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	worker := r.Context().Value(WorkerCtx).(*domain.Worker)

	if req.Name != nil && *req.Name != worker.Name {
		if !h.checkNoUpcomingBookings(w, r, worker.Name) {
			return
		}
		worker.Name = *req.Name
	}
	if req.Order != nil {
		worker.SortOrder = *req.Order
	}
	if req.Start != nil {
		worker.Start = *req.Start
	}
	if req.End != nil {
		worker.End = *req.End
	}
	if req.Interval != nil {
		worker.Interval = *req.Interval
	}
	if req.DayOff != nil {
		worker.DayOff = *req.DayOff
	}
	if req.LastSlotInclusive != nil {
		worker.LastSlotInclusive = *req.LastSlotInclusive
	}
	if req.Overrides != nil {
		worker.Overrides = req.Overrides
	}
	if req.CustomSlots != nil {
		worker.CustomSlots = req.CustomSlots
	}
	switch {
	case req.ClearLunch:
		worker.Lunch = nil
	case req.Lunch != nil:
		worker.Lunch = req.Lunch
	}

	if err := utils.ValidateWorkerSchedule(worker); err != nil {
		h.badRequest(w, r, err)
		return
	}

	if err := h.repository.UpdateWorker(worker); err != nil {
		h.workerError(w, r, err)
		return
	}

	h.audit(r, domain.AuditActionUpdate, auditEntityWorker, strconv.FormatInt(worker.ID, 10), worker)

	h.successResponse(w, r, "Worker updated", worker)
}

func (h *Handler) DeleteWorker(w http.ResponseWriter, r *http.Request) {
	worker := r.Context().Value(WorkerCtx).(*domain.Worker)

	if !h.checkNoUpcomingBookings(w, r, worker.Name) {
		return
	}

	if err := h.repository.DeleteWorker(worker.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.audit(r, domain.AuditActionDelete, auditEntityWorker, strconv.FormatInt(worker.ID, 10), map[string]any{
		"name": worker.Name,
	})

	h.successResponse(w, r, "Worker deleted", nil)
}
