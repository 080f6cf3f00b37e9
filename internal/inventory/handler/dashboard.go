package handler

import (
	"net/http"

	"github.com/stocker/stocker-backend/internal/inventory/repository"
	"github.com/stocker/stocker-backend/internal/inventory/service"
	"github.com/stocker/stocker-backend/pkg/actor"
	"github.com/stocker/stocker-backend/pkg/httputil"
	"github.com/stocker/stocker-backend/pkg/logger"
)

// DashboardHandler serves the aggregated overview screen
type DashboardHandler struct {
	service       *service.InventoryService
	notifications *service.NotificationService
	logger        *logger.Logger
}

// NewDashboardHandler creates a new dashboard handler
func NewDashboardHandler(svc *service.InventoryService, notifications *service.NotificationService, log *logger.Logger) *DashboardHandler {
	return &DashboardHandler{
		service:       svc,
		notifications: notifications,
		logger:        log,
	}
}

// Dashboard aggregates stock statistics, category counts, the latest ledger
// activity and the caller's unread notification count into one payload
type Dashboard struct {
	Stock               *service.StockStats         `json:"stock"`
	Categories          []*repository.Category      `json:"categories"`
	RecentMovements     []*repository.StockMovement `json:"recent_movements"`
	UnreadNotifications int64                       `json:"unread_notifications"`
}

// Get returns the dashboard payload
func (h *DashboardHandler) Get(w http.ResponseWriter, r *http.Request) {
	stats, err := h.service.StockStatus(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	categories, err := h.service.ListCategories(r.Context())
	if err != nil {
		httputil.Error(w, err)
		return
	}

	movements, _, err := h.service.ListMovements(r.Context(), "", 1, 10)
	if err != nil {
		httputil.Error(w, err)
		return
	}

	var unread int64
	if act := actor.FromContext(r.Context()); act != nil {
		unread, err = h.notifications.UnreadCount(r.Context(), act.ID)
		if err != nil {
			httputil.Error(w, err)
			return
		}
	}

	httputil.JSON(w, http.StatusOK, &Dashboard{
		Stock:               stats,
		Categories:          categories,
		RecentMovements:     movements,
		UnreadNotifications: unread,
	})
}
