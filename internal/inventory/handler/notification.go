package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/stocker/stocker-backend/internal/inventory/service"
	"github.com/stocker/stocker-backend/pkg/actor"
	"github.com/stocker/stocker-backend/pkg/errors"
	"github.com/stocker/stocker-backend/pkg/httputil"
	"github.com/stocker/stocker-backend/pkg/logger"
)

// NotificationHandler handles in-app notification endpoints
type NotificationHandler struct {
	service *service.NotificationService
	logger  *logger.Logger
}

// NewNotificationHandler creates a new notification handler
func NewNotificationHandler(svc *service.NotificationService, log *logger.Logger) *NotificationHandler {
	return &NotificationHandler{
		service: svc,
		logger:  log,
	}
}

// List lists the caller's notifications
func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	act := actor.FromContext(r.Context())
	if act == nil {
		httputil.Error(w, errors.Unauthorized("authentication required"))
		return
	}

	page, perPage := pagination(r)

	notifications, total, err := h.service.List(r.Context(), act.ID, page, perPage)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSONWithMeta(w, http.StatusOK, notifications, httputil.NewMeta(page, perPage, total))
}

// UnreadCount returns the caller's unread notification count
func (h *NotificationHandler) UnreadCount(w http.ResponseWriter, r *http.Request) {
	act := actor.FromContext(r.Context())
	if act == nil {
		httputil.Error(w, errors.Unauthorized("authentication required"))
		return
	}

	count, err := h.service.UnreadCount(r.Context(), act.ID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]int64{"unread": count})
}

// MarkRead marks one notification as read
func (h *NotificationHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	act := actor.FromContext(r.Context())
	if act == nil {
		httputil.Error(w, errors.Unauthorized("authentication required"))
		return
	}

	id := chi.URLParam(r, "id")

	if err := h.service.MarkRead(r.Context(), id, act.ID); err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.NoContent(w)
}

// MarkAllRead marks all of the caller's notifications as read
func (h *NotificationHandler) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	act := actor.FromContext(r.Context())
	if act == nil {
		httputil.Error(w, errors.Unauthorized("authentication required"))
		return
	}

	updated, err := h.service.MarkAllRead(r.Context(), act.ID)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	httputil.JSON(w, http.StatusOK, map[string]int64{"updated": updated})
}
