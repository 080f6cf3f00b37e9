package messaging

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types
const (
	// Inventory events
	EventProductCreated  = "inventory.product.created"
	EventStockRecorded   = "inventory.stock.recorded"
	EventAlertDispatched = "inventory.alert.dispatched"

	// User events (consumed; published by the external user system)
	EventUserCreated = "user.created"
	EventUserUpdated = "user.updated"
	EventUserDeleted = "user.deleted"
)

// Exchange names
const (
	ExchangeInventoryEvents = "inventory.events"
	ExchangeUserEvents      = "user.events"
)

// Event is the base event structure
type Event struct {
	ID            string          `json:"id"`
	Type          string          `json:"type"`
	Source        string          `json:"source"`
	Timestamp     time.Time       `json:"timestamp"`
	CorrelationID string          `json:"correlation_id"`
	Data          json.RawMessage `json:"data"`
}

// NewEvent creates a new event with the given type and data
func NewEvent(eventType, source, correlationID string, data interface{}) (*Event, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Event{
		ID:            GenerateEventID(),
		Type:          eventType,
		Source:        source,
		Timestamp:     time.Now().UTC(),
		CorrelationID: correlationID,
		Data:          dataBytes,
	}, nil
}

// UnmarshalData unmarshals the event data into the provided struct
func (e *Event) UnmarshalData(v interface{}) error {
	return json.Unmarshal(e.Data, v)
}

// GenerateEventID generates a unique event ID
func GenerateEventID() string {
	return uuid.New().String()
}

// Inventory events

// ProductCreatedEvent is published when a product is added to the catalog
type ProductCreatedEvent struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	SKU       string `json:"sku"`
	Quantity  int    `json:"quantity"`
	CreatedBy string `json:"created_by"`
}

// StockRecordedEvent is published when a stock movement is written to the ledger
type StockRecordedEvent struct {
	MovementID       string `json:"movement_id"`
	ProductID        string `json:"product_id"`
	MovementType     string `json:"movement_type"`
	PreviousQuantity int    `json:"previous_quantity"`
	NewQuantity      int    `json:"new_quantity"`
	Delta            int    `json:"delta"`
	Reason           string `json:"reason,omitempty"`
	PerformedBy      string `json:"performed_by"`
}

// AlertDispatchedEvent is published after the alert dispatcher sends a round
// of low-stock or expired alerts
type AlertDispatchedEvent struct {
	AlertType    string `json:"alert_type"`
	ProductCount int    `json:"product_count"`
	Recipients   int    `json:"recipients"`
}

// User events (consumed)

// UserCreatedEvent mirrors the external user system's creation payload
type UserCreatedEvent struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsStaff   bool   `json:"is_staff"`
	IsActive  bool   `json:"is_active"`
}

// UserUpdatedEvent mirrors the external user system's update payload
type UserUpdatedEvent struct {
	UserID    string `json:"user_id"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	IsStaff   bool   `json:"is_staff"`
	IsActive  bool   `json:"is_active"`
}

// UserDeletedEvent mirrors the external user system's deletion payload
type UserDeletedEvent struct {
	UserID string `json:"user_id"`
}
