package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stocker/stocker-backend/internal/inventory/repository"
	"github.com/stocker/stocker-backend/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeProducts struct {
	products []*repository.Product
	err      error
}

func (f *fakeProducts) GetAll(ctx context.Context) ([]*repository.Product, error) {
	return f.products, f.err
}

type fakeStaff struct {
	staff []*repository.StaffUser
	err   error
}

func (f *fakeStaff) ListStaffWithEmail(ctx context.Context) ([]*repository.StaffUser, error) {
	return f.staff, f.err
}

type fakeNotifications struct {
	created []*repository.Notification
	err     error
}

func (f *fakeNotifications) Create(ctx context.Context, n *repository.Notification) error {
	if f.err != nil {
		return f.err
	}
	f.created = append(f.created, n)
	return nil
}

type sentMail struct {
	To      []string
	Subject string
	Body    string
}

type fakeMailer struct {
	sent []sentMail
	err  error
}

func (f *fakeMailer) Send(ctx context.Context, to []string, subject, body string) error {
	if f.err != nil {
		return f.err
	}
	f.sent = append(f.sent, sentMail{To: to, Subject: subject, Body: body})
	return nil
}

func newTestDispatcher(products *fakeProducts, staff *fakeStaff, notifications *fakeNotifications, mail *fakeMailer) *AlertDispatcher {
	d := NewAlertDispatcher(
		products, staff, notifications, mail, nil,
		Thresholds{LowStock: 100, NearExpiryDays: 30},
		logger.New("test", "test"),
	)
	d.now = func() time.Time { return date("2024-01-01") }
	return d
}

func twoStaff() *fakeStaff {
	return &fakeStaff{staff: []*repository.StaffUser{
		{ID: "u1", Email: "alice@example.com", IsStaff: true, IsActive: true},
		{ID: "u2", Email: "bob@example.com", IsStaff: true, IsActive: true},
	}}
}

func TestDispatch_LowStock(t *testing.T) {
	products := &fakeProducts{products: []*repository.Product{
		{ID: "p1", Name: "Aspirin", SKU: "PRD-AAAA0001", QuantityInStock: 20},
		{ID: "p2", Name: "Ibuprofen", SKU: "PRD-BBBB0002", QuantityInStock: 500},
	}}
	notifications := &fakeNotifications{}
	mail := &fakeMailer{}

	d := newTestDispatcher(products, twoStaff(), notifications, mail)
	d.Dispatch(context.Background())

	// One email addressed to every staff member
	require.Len(t, mail.sent, 1)
	assert.Equal(t, []string{"alice@example.com", "bob@example.com"}, mail.sent[0].To)
	assert.Contains(t, mail.sent[0].Body, "Aspirin")
	assert.NotContains(t, mail.sent[0].Body, "Ibuprofen")

	// One notification per staff member
	require.Len(t, notifications.created, 2)
	assert.Equal(t, "u1", notifications.created[0].UserID)
	assert.Equal(t, "u2", notifications.created[1].UserID)
	assert.Equal(t, repository.NotificationLowStock, notifications.created[0].Kind)
}

func TestDispatch_OutOfStockExcludedFromLowStockAlert(t *testing.T) {
	// A product that drops to zero is out of stock, not low stock, and must
	// not appear in the low-stock alert.
	products := &fakeProducts{products: []*repository.Product{
		{ID: "p1", Name: "Paracetamol", SKU: "PRD-CCCC0003", QuantityInStock: 0},
		{ID: "p2", Name: "Amoxicillin", SKU: "PRD-DDDD0004", QuantityInStock: 50},
	}}
	notifications := &fakeNotifications{}
	mail := &fakeMailer{}

	d := newTestDispatcher(products, twoStaff(), notifications, mail)
	d.Dispatch(context.Background())

	require.Len(t, mail.sent, 1)
	assert.Contains(t, mail.sent[0].Body, "Amoxicillin")
	assert.NotContains(t, mail.sent[0].Body, "Paracetamol")
}

func TestDispatch_OnlyOutOfStockSendsNothing(t *testing.T) {
	products := &fakeProducts{products: []*repository.Product{
		{ID: "p1", Name: "Paracetamol", SKU: "PRD-CCCC0003", QuantityInStock: 0},
	}}
	notifications := &fakeNotifications{}
	mail := &fakeMailer{}

	d := newTestDispatcher(products, twoStaff(), notifications, mail)
	d.Dispatch(context.Background())

	assert.Empty(t, mail.sent)
	assert.Empty(t, notifications.created)
}

func TestDispatch_ExpiredProducts(t *testing.T) {
	products := &fakeProducts{products: []*repository.Product{
		{ID: "p1", Name: "Old Syrup", SKU: "PRD-DDDD0004", QuantityInStock: 300, ExpiryDate: datePtr("2023-12-15")},
	}}
	notifications := &fakeNotifications{}
	mail := &fakeMailer{}

	d := newTestDispatcher(products, twoStaff(), notifications, mail)
	d.Dispatch(context.Background())

	require.Len(t, mail.sent, 1)
	assert.Contains(t, mail.sent[0].Subject, "Expired")
	assert.Contains(t, mail.sent[0].Body, "2023-12-15")

	require.Len(t, notifications.created, 2)
	assert.Equal(t, repository.NotificationExpired, notifications.created[0].Kind)
}

func TestDispatch_BothAlertTypes(t *testing.T) {
	products := &fakeProducts{products: []*repository.Product{
		{ID: "p1", Name: "Low", SKU: "PRD-000A", QuantityInStock: 5},
		{ID: "p2", Name: "Gone", SKU: "PRD-000B", QuantityInStock: 200, ExpiryDate: datePtr("2023-01-01")},
	}}
	notifications := &fakeNotifications{}
	mail := &fakeMailer{}

	d := newTestDispatcher(products, twoStaff(), notifications, mail)
	d.Dispatch(context.Background())

	// Independent dispatches per alert type
	assert.Len(t, mail.sent, 2)
	assert.Len(t, notifications.created, 4)
}

func TestDispatch_NoStaffRecipients(t *testing.T) {
	products := &fakeProducts{products: []*repository.Product{
		{ID: "p1", Name: "Low", SKU: "PRD-000A", QuantityInStock: 5},
	}}
	notifications := &fakeNotifications{}
	mail := &fakeMailer{}

	d := newTestDispatcher(products, &fakeStaff{}, notifications, mail)
	d.Dispatch(context.Background())

	assert.Empty(t, mail.sent)
	assert.Empty(t, notifications.created)
}

func TestDispatch_NothingBelowThreshold(t *testing.T) {
	products := &fakeProducts{products: []*repository.Product{
		{ID: "p1", Name: "Fine", SKU: "PRD-000A", QuantityInStock: 500},
	}}
	notifications := &fakeNotifications{}
	mail := &fakeMailer{}

	d := newTestDispatcher(products, twoStaff(), notifications, mail)
	d.Dispatch(context.Background())

	assert.Empty(t, mail.sent)
	assert.Empty(t, notifications.created)
}

func TestDispatch_MailFailureStillCreatesNotifications(t *testing.T) {
	products := &fakeProducts{products: []*repository.Product{
		{ID: "p1", Name: "Low", SKU: "PRD-000A", QuantityInStock: 5},
	}}
	notifications := &fakeNotifications{}
	mail := &fakeMailer{err: errors.New("smtp unreachable")}

	d := newTestDispatcher(products, twoStaff(), notifications, mail)
	d.Dispatch(context.Background())

	// Email failure is logged, in-app notifications still go out
	assert.Len(t, notifications.created, 2)
}

func TestDispatch_RepeatedRunsRepeatAlerts(t *testing.T) {
	// A condition that persists across runs is reported on every run; there
	// is no deduplication between dispatches.
	products := &fakeProducts{products: []*repository.Product{
		{ID: "p1", Name: "Low", SKU: "PRD-000A", QuantityInStock: 5},
	}}
	notifications := &fakeNotifications{}
	mail := &fakeMailer{}

	d := newTestDispatcher(products, twoStaff(), notifications, mail)
	d.Dispatch(context.Background())
	d.Dispatch(context.Background())

	assert.Len(t, mail.sent, 2)
	assert.Len(t, notifications.created, 4)
}
