package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/glossline/detailing-booking/backend/internal/domain"
)

const (
	auditEntityRestriction = "category_restriction"
	auditEntityDayOffRule  = "day_off_rule"
)

func (h *Handler) GetAllCategoryRestrictions(w http.ResponseWriter, r *http.Request) {
	restrictions, err := h.repository.GetAllCategoryRestrictions()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Category restrictions loaded", restrictions)
}

// ReplaceCategoryRestriction limits a service category to the given workers. An empty list opens
// the category to everyone again.
func (h *Handler) ReplaceCategoryRestriction(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Category    string   `json:"-" validate:"required,max=50"`
		WorkerNames []string `json:"workerNames" validate:"dive,required"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	req.Category = strings.ToLower(strings.TrimSpace(chi.URLParam(r, "category")))
	for i, name := range req.WorkerNames {
		req.WorkerNames[i] = domain.CleanWorkerName(name)
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	restriction := &domain.CategoryRestriction{
		Category:    req.Category,
		WorkerNames: req.WorkerNames,
	}
	if restriction.WorkerNames == nil {
		restriction.WorkerNames = []string{}
	}

	if err := h.repository.ReplaceCategoryRestriction(restriction); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr) && pgErr.ConstraintName == "category_restrictions_worker_name_fkey":
			h.errorResponse(w, r, "Unknown worker in list")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.audit(r, domain.AuditActionUpdate, auditEntityRestriction, restriction.Category, restriction)

	h.successResponse(w, r, "Category restriction saved", restriction)
}

func (h *Handler) GetAllDayOffRules(w http.ResponseWriter, r *http.Request) {
	rules, err := h.repository.GetAllDayOffRules()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Day-off rules loaded", rules)
}

func (h *Handler) CreateDayOffRule(w http.ResponseWriter, r *http.Request) {
	var req struct {
		WorkerName string `json:"workerName" validate:"required"`
		Day        *int   `json:"day" validate:"required,gte=0,lte=6"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	req.WorkerName = domain.CleanWorkerName(req.WorkerName)
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	rule := &domain.DayOffRule{
		WorkerName: req.WorkerName,
		Day:        *req.Day,
	}

	if err := h.repository.CreateDayOffRule(rule); err != nil {
		var pgErr *pgconn.PgError
		switch {
		case errors.As(err, &pgErr):
			switch pgErr.ConstraintName {
			case "day_off_rules_worker_day_key":
				h.errorResponse(w, r, "This day-off rule already exists")
			case "day_off_rules_worker_name_fkey":
				h.errorResponse(w, r, "Worker not found")
			default:
				h.internalServerError(w, r, err)
			}
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.audit(r, domain.AuditActionCreate, auditEntityDayOffRule, strconv.FormatInt(rule.ID, 10), rule)

	h.successResponse(w, r, "Day-off rule created", rule)
}

func (h *Handler) DeleteDayOffRule(w http.ResponseWriter, r *http.Request) {
	id, ok := h.idParam(w, r, "Invalid rule ID")
	if !ok {
		return
	}

	if err := h.repository.DeleteDayOffRule(id); err != nil {
		switch {
		case errors.Is(err, sql.ErrNoRows):
			h.errorResponse(w, r, "Day-off rule not found")
		default:
			h.internalServerError(w, r, err)
		}
		return
	}

	h.audit(r, domain.AuditActionDelete, auditEntityDayOffRule, strconv.FormatInt(id, 10), nil)

	h.successResponse(w, r, "Day-off rule deleted", nil)
}
