package handler

import (
	"database/sql"
	"errors"
	"net/http"
	"strconv"

	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/glossline/detailing-booking/backend/internal/domain"
	"github.com/glossline/detailing-booking/backend/internal/utils"
)

const auditEntityAdmin = "admin"

func (h *Handler) GetAllAdmins(w http.ResponseWriter, r *http.Request) {
	admins, err := h.repository.GetAllAdmins()
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.successResponse(w, r, "Admins loaded", admins)
}

func (h *Handler) adminConstraintError(w http.ResponseWriter, r *http.Request, err error) {
	var pgErr *pgconn.PgError
	switch {
	case errors.As(err, &pgErr):
		switch pgErr.ConstraintName {
		case "admins_username_key":
			h.errorResponse(w, r, "Username already exists")
		case "admins_email_key":
			h.errorResponse(w, r, "Email already exists")
		default:
			h.internalServerError(w, r, err)
		}
	case errors.Is(err, sql.ErrNoRows):
		h.errorResponse(w, r, "Admin was changed by someone else, please retry")
	default:
		h.internalServerError(w, r, err)
	}
}

func (h *Handler) CreateAdmin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username" validate:"required,alphanum,max=32"`
		FullName string `json:"fullName" validate:"required,max=100"`
		Email    string `json:"email" validate:"required,email"`
		Role     string `json:"role" validate:"required,oneof=owner staff"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	password := utils.GenerateRandomPassword(h.config.NewAdmin.PasswordLength)

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	admin := &domain.Admin{
		Username:     req.Username,
		PasswordHash: string(hashedPassword),
		FullName:     req.FullName,
		Email:        req.Email,
		Role:         domain.Role(req.Role),
	}

	if err := h.repository.CreateAdmin(admin); err != nil {
		h.adminConstraintError(w, r, err)
		return
	}

	mailMessage := domain.MailMessage{
		Type: domain.MailCreateAdmin,
		To:   admin.Email,
		Data: domain.CreateAdminMailData{
			FullName: admin.FullName,
			Username: admin.Username,
			Password: password,
		},
	}
	if err := h.mailQueue.Publish(mailMessage); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.audit(r, domain.AuditActionCreate, auditEntityAdmin, strconv.FormatInt(admin.ID, 10), map[string]any{
		"username": admin.Username,
		"role":     admin.Role,
	})

	h.successResponse(w, r, "Admin created", admin)
}

func (h *Handler) GetAdmin(w http.ResponseWriter, r *http.Request) {
	admin := r.Context().Value(AdminInfoCtx).(*domain.Admin)
	h.successResponse(w, r, "Admin loaded", admin)
}

func (h *Handler) UpdateAdmin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		FullName *string `json:"fullName" validate:"omitempty,max=100"`
		Email    *string `json:"email" validate:"omitempty,email"`
		Role     *string `json:"role" validate:"omitempty,oneof=owner staff"`
		IsActive *bool   `json:"isActive"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	admin := r.Context().Value(AdminInfoCtx).(*domain.Admin)

	if req.FullName != nil {
		admin.FullName = *req.FullName
	}
	if req.Email != nil {
		admin.Email = *req.Email
	}
	if req.Role != nil {
		admin.Role = domain.Role(*req.Role)
	}
	if req.IsActive != nil {
		admin.IsActive = *req.IsActive
	}

	if err := h.repository.UpdateAdmin(admin); err != nil {
		h.adminConstraintError(w, r, err)
		return
	}

	h.audit(r, domain.AuditActionUpdate, auditEntityAdmin, strconv.FormatInt(admin.ID, 10), req)

	h.successResponse(w, r, "Admin updated", admin)
}

func (h *Handler) DeleteAdmin(w http.ResponseWriter, r *http.Request) {
	admin := r.Context().Value(AdminInfoCtx).(*domain.Admin)
	myInfo := r.Context().Value(MyInfoCtx).(*domain.Admin)

	if admin.ID == myInfo.ID {
		h.errorResponse(w, r, "You cannot delete your own account")
		return
	}

	if err := h.repository.DeleteAdmin(admin.ID); err != nil {
		h.internalServerError(w, r, err)
		return
	}

	h.audit(r, domain.AuditActionDelete, auditEntityAdmin, strconv.FormatInt(admin.ID, 10), map[string]any{
		"username": admin.Username,
	})

	h.successResponse(w, r, "Admin deleted", nil)
}

func (h *Handler) UpdateAdminPassword(w http.ResponseWriter, r *http.Request) {
	admin := r.Context().Value(AdminInfoCtx).(*domain.Admin)

	var req struct {
		Password string `json:"password" validate:"required,min=8"`
	}

	if err := h.readJSON(r, &req); err != nil {
		h.badRequest(w, r, err)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		h.badRequest(w, r, err)
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		h.internalServerError(w, r, err)
		return
	}

	admin.PasswordHash = string(hashedPassword)
	if err := h.repository.UpdateAdmin(admin); err != nil {
		h.adminConstraintError(w, r, err)
		return
	}

	h.audit(r, domain.AuditActionUpdate, auditEntityAdmin, strconv.FormatInt(admin.ID, 10), map[string]any{
		"password": "reset",
	})

	h.successResponse(w, r, "Password updated", nil)
}
