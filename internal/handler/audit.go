package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/glossline/detailing-booking/backend/internal/domain"
)

// actor names who performed a request: the logged-in admin, or the public customer flow.
func actor(r *http.Request) string {
	if admin, ok := r.Context().Value(MyInfoCtx).(*domain.Admin); ok {
		return admin.Username
	}
	return domain.AuditActorCustomer
}

// audit records a change. Failures are logged; the change itself already happened.
func (h *Handler) audit(r *http.Request, action, entity, entityID string, detail any) {
	raw, err := json.Marshal(detail)
	if err != nil {
		slog.Error("cannot encode audit detail", slog.String("entity", entity), slog.String("error", err.Error()))
		raw = nil
	}

	log := &domain.AuditLog{
		Actor:    actor(r),
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Detail:   raw,
	}
	if err := h.repository.CreateAuditLog(log); err != nil {
		slog.Error("cannot write audit log", slog.String("entity", entity), slog.String("entity_id", entityID), slog.String("error", err.Error()))
	}
}

func (h *Handler) GetAuditLogs(w http.ResponseWriter, r *http.Request) {
	var query struct {
		Limit int `validate:"gte=1,lte=500"`
	}
	query.Limit = 100
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

	logs, err := h.repository.GetLatestAuditLogs(query.Limit)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Audit logs loaded", logs)
}
