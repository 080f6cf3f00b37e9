package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/stocker/stocker-backend/internal/inventory/events"
	"github.com/stocker/stocker-backend/internal/inventory/repository"
	"github.com/stocker/stocker-backend/pkg/logger"
	"github.com/stocker/stocker-backend/pkg/mailer"
)

// ProductLister loads the product set the dispatcher evaluates
type ProductLister interface {
	GetAll(ctx context.Context) ([]*repository.Product, error)
}

// StaffDirectory resolves the alert recipients
type StaffDirectory interface {
	ListStaffWithEmail(ctx context.Context) ([]*repository.StaffUser, error)
}

// NotificationStore persists in-app notifications
type NotificationStore interface {
	Create(ctx context.Context, n *repository.Notification) error
}

// AlertDispatcher evaluates the catalog after every stock-affecting change
// and notifies staff about products that need attention. Dispatch runs are
// independent: a condition that persists across runs is reported again.
type AlertDispatcher struct {
	products      ProductLister
	staff         StaffDirectory
	notifications NotificationStore
	mail          mailer.Mailer
	publisher     *events.InventoryEventPublisher
	thresholds    Thresholds
	logger        *logger.Logger
	now           func() time.Time
}

// NewAlertDispatcher creates a new alert dispatcher
func NewAlertDispatcher(
	products ProductLister,
	staff StaffDirectory,
	notifications NotificationStore,
	mail mailer.Mailer,
	publisher *events.InventoryEventPublisher,
	thresholds Thresholds,
	log *logger.Logger,
) *AlertDispatcher {
	return &AlertDispatcher{
		products:      products,
		staff:         staff,
		notifications: notifications,
		mail:          mail,
		publisher:     publisher,
		thresholds:    thresholds,
		logger:        log,
		now:           time.Now,
	}
}

// Dispatch evaluates the catalog and sends alerts. Failures are logged and
// never surface to the operation that triggered the run; the stock change
// itself has already committed.
func (d *AlertDispatcher) Dispatch(ctx context.Context) {
	if d == nil {
		return
	}

	products, err := d.products.GetAll(ctx)
	if err != nil {
		d.logger.Error().Err(err).Msg("alert dispatch: failed to load products")
		return
	}

	stats := d.thresholds.EvaluateStock(products, d.now())

	staff, err := d.staff.ListStaffWithEmail(ctx)
	if err != nil {
		d.logger.Error().Err(err).Msg("alert dispatch: failed to load staff recipients")
		return
	}
	if len(staff) == 0 {
		d.logger.Warn().Msg("alert dispatch: no staff recipients configured, skipping")
		return
	}

	// Low-stock alerts cover the strict 0 < qty < threshold band. A product
	// at zero is out of stock, not low stock, and gets no alert.
	if len(stats.LowStock) > 0 {
		d.dispatchAlert(ctx, staff, repository.NotificationLowStock,
			"Low stock alert", lowStockBody(stats.LowStock, d.thresholds.LowStock), stats.LowStock)
	}

	if len(stats.Expired) > 0 {
		d.dispatchAlert(ctx, staff, repository.NotificationExpired,
			"Expired products alert", expiredBody(stats.Expired), stats.Expired)
	}
}

func (d *AlertDispatcher) dispatchAlert(ctx context.Context, staff []*repository.StaffUser, kind, title, body string, products []*repository.Product) {
	recipients := make([]string, len(staff))
	for i, u := range staff {
		recipients[i] = u.Email
	}

	if err := d.mail.Send(ctx, recipients, title, body); err != nil {
		d.logger.Error().Err(err).Str("alert_type", kind).Msg("alert dispatch: failed to send email")
	}

	for _, u := range staff {
		n := &repository.Notification{
			UserID:  u.ID,
			Kind:    kind,
			Title:   title,
			Message: body,
		}
		if err := d.notifications.Create(ctx, n); err != nil {
			d.logger.Error().Err(err).Str("user_id", u.ID).Str("alert_type", kind).Msg("alert dispatch: failed to create notification")
		}
	}

	d.publisher.PublishAlertDispatched(ctx, kind, len(products), len(staff))

	d.logger.Info().
		Str("alert_type", kind).
		Int("product_count", len(products)).
		Int("recipients", len(staff)).
		Msg("alert dispatched")
}

func lowStockBody(products []*repository.Product, threshold int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "The following products are below the stock threshold of %d:\n\n", threshold)
	for _, p := range products {
		fmt.Fprintf(&b, "- %s (%s): %d in stock\n", p.Name, p.SKU, p.QuantityInStock)
	}
	b.WriteString("\nPlease restock as soon as possible.\n")
	return b.String()
}

func expiredBody(products []*repository.Product) string {
	var b strings.Builder
	b.WriteString("The following products have passed their expiry date:\n\n")
	for _, p := range products {
		expiry := ""
		if p.ExpiryDate != nil {
			expiry = p.ExpiryDate.Format("2006-01-02")
		}
		fmt.Fprintf(&b, "- %s (%s): expired %s\n", p.Name, p.SKU, expiry)
	}
	b.WriteString("\nPlease remove these products from stock.\n")
	return b.String()
}
