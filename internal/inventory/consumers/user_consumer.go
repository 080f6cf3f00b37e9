package consumers

import (
	"context"

	"github.com/stocker/stocker-backend/internal/inventory/repository"
	"github.com/stocker/stocker-backend/pkg/logger"
	"github.com/stocker/stocker-backend/pkg/messaging"
)

// UserEventConsumer keeps the local staff user cache in sync with the user
// service. The cache feeds the alert dispatcher's recipient list.
type UserEventConsumer struct {
	consumer      *messaging.Consumer
	staffUserRepo *repository.StaffUserRepository
	logger        *logger.Logger
}

// NewUserEventConsumer creates a new user event consumer
func NewUserEventConsumer(
	rmq *messaging.RabbitMQ,
	staffUserRepo *repository.StaffUserRepository,
	log *logger.Logger,
) (*UserEventConsumer, error) {
	consumer, err := messaging.NewConsumer(rmq, "inventory-service.user-events", log)
	if err != nil {
		return nil, err
	}

	if err := consumer.Subscribe(messaging.ExchangeUserEvents, "user.#"); err != nil {
		return nil, err
	}

	c := &UserEventConsumer{
		consumer:      consumer,
		staffUserRepo: staffUserRepo,
		logger:        log,
	}

	consumer.RegisterHandler(messaging.EventUserCreated, c.handleUserCreated)
	consumer.RegisterHandler(messaging.EventUserUpdated, c.handleUserUpdated)
	consumer.RegisterHandler(messaging.EventUserDeleted, c.handleUserDeleted)

	return c, nil
}

// Start starts consuming messages
func (c *UserEventConsumer) Start(ctx context.Context) error {
	return c.consumer.Start(ctx)
}

func (c *UserEventConsumer) handleUserCreated(ctx context.Context, event *messaging.Event) error {
	var data messaging.UserCreatedEvent
	if err := event.UnmarshalData(&data); err != nil {
		return err
	}

	c.logger.Info().
		Str("user_id", data.UserID).
		Str("email", data.Email).
		Msg("received user created event")

	return c.staffUserRepo.Upsert(ctx, &repository.StaffUser{
		ID:        data.UserID,
		Email:     data.Email,
		FirstName: data.FirstName,
		LastName:  data.LastName,
		IsStaff:   data.IsStaff,
		IsActive:  data.IsActive,
	})
}

func (c *UserEventConsumer) handleUserUpdated(ctx context.Context, event *messaging.Event) error {
	var data messaging.UserUpdatedEvent
	if err := event.UnmarshalData(&data); err != nil {
		return err
	}

	c.logger.Info().
		Str("user_id", data.UserID).
		Msg("received user updated event")

	return c.staffUserRepo.Upsert(ctx, &repository.StaffUser{
		ID:        data.UserID,
		Email:     data.Email,
		FirstName: data.FirstName,
		LastName:  data.LastName,
		IsStaff:   data.IsStaff,
		IsActive:  data.IsActive,
	})
}

func (c *UserEventConsumer) handleUserDeleted(ctx context.Context, event *messaging.Event) error {
	var data messaging.UserDeletedEvent
	if err := event.UnmarshalData(&data); err != nil {
		return err
	}

	c.logger.Info().
		Str("user_id", data.UserID).
		Msg("received user deleted event")

	return c.staffUserRepo.Delete(ctx, data.UserID)
}
