package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/glossline/detailing-booking/backend/internal/domain"
)

const auditEntityService = "service"

// GetActiveServices is the public catalog shown in the booking flow.
func (h *Handler) GetActiveServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.repository.GetAllServices(false)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Services loaded", services)
}

func (h *Handler) GetAllServices(w http.ResponseWriter, r *http.Request) {
	services, err := h.repository.GetAllServices(true)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Services loaded", services)
}

func (h *Handler) GetService(w http.ResponseWriter, r *http.Request) {
	service := r.Context().Value(ServiceCtx).(*domain.Service)
	h.successResponse(w, r, "Service loaded", service)
}

func (h *Handler) serviceError(w http.ResponseWriter, r *http.Request, err error) {
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr):
		switch pgErr.ConstraintName {
		case "services_name_key":
			h.errorResponse(w, r, "A service with this name already exists")
		default:
			h.internalServerError(w, r, err)
		}
	case errors.Is(err, sql.ErrNoRows):
		h.errorResponse(w, r, "Service was changed by someone else, please retry")
	default:
		h.internalServerError(w, r, err)
	}
}

func (h *Handler) CreateService(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        string `json:"name" validate:"required,max=100"`
		Category    string `json:"category" validate:"required,max=50"`
		Description string `json:"description" validate:"max=2000"`
		SmallCents  int64  `json:"smallCents" validate:"gte=0"`
		MediumCents int64  `json:"mediumCents" validate:"gte=0"`
		LargeCents  int64  `json:"largeCents" validate:"gte=0"`
		IsActive    *bool  `json:"isActive"`
		Order       int32  `json:"order"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	service := &domain.Service{
		Name:        req.Name,
		Category:    strings.ToLower(strings.TrimSpace(req.Category)),
		Description: req.Description,
		SmallCents:  req.SmallCents,
		MediumCents: req.MediumCents,
		LargeCents:  req.LargeCents,
		IsActive:    true,
		SortOrder:   req.Order,
	}
	if req.IsActive != nil {
		service.IsActive = *req.IsActive
	}

	if err := h.repository.CreateService(service); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.audit(r, domain.AuditActionCreate, auditEntityService, strconv.FormatInt(service.ID, 10), service)

	h.successResponse(w, r, "Service created", service)
}

func (h *Handler) UpdateService(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Name        *string `json:"name" validate:"omitempty,min=1,max=100"`
		Category    *string `json:"category" validate:"omitempty,min=1,max=50"`
		Description *string `json:"description" validate:"omitempty,max=2000"`
		SmallCents  *int64  `json:"smallCents" validate:"omitempty,gte=0"`
		MediumCents *int64  `json:"mediumCents" validate:"omitempty,gte=0"`
		LargeCents  *int64  `json:"largeCents" validate:"omitempty,gte=0"`
		IsActive    *bool   `json:"isActive"`
		Order       *int32  `json:"order"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	service := r.Context().Value(ServiceCtx).(*domain.Service)

	if req.Name != nil {
		service.Name = *req.Name
	}
	if req.Category != nil {
		service.Category = strings.ToLower(strings.TrimSpace(*req.Category))
	}
	if req.Description != nil {
		service.Description = *req.Description
	}
	if req.SmallCents != nil {
		service.SmallCents = *req.SmallCents
	}
	if req.MediumCents != nil {
		service.MediumCents = *req.MediumCents
	}
	if req.LargeCents != nil {
		service.LargeCents = *req.LargeCents
	}
	if req.IsActive != nil {
		service.IsActive = *req.IsActive
	}
	if req.Order != nil {
		service.SortOrder = *req.Order
	}

	if err := h.repository.UpdateService(service); err != nil {
		h.serviceError(w, r, err)
		return
	}

	h.audit(r, domain.AuditActionUpdate, auditEntityService, strconv.FormatInt(service.ID, 10), service)

	h.successResponse(w, r, "Service updated", service)
}

// DeleteService removes a service. Existing bookings keep the service name they were made with.
func (h *Handler) DeleteService(w http.ResponseWriter, r *http.Request) {
	service := r.Context().Value(ServiceCtx).(*domain.Service)

	if err := h.repository.DeleteService(service.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.audit(r, domain.AuditActionDelete, auditEntityService, strconv.FormatInt(service.ID, 10), map[string]any{
		"name": service.Name,
	})

	h.successResponse(w, r, "Service deleted", nil)
}
