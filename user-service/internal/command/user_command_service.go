package command

import (
	"context"
	"errors"

	"github.com/Juan181803/ecommerce-microservice-backend-app2/shared/dto"
	"github.com/Juan181803/ecommerce-microservice-backend-app2/shared/events"
	"github.com/Juan181803/ecommerce-microservice-backend-app2/shared/models"
	"github.com/Juan181803/ecommerce-microservice-backend-app2/user-service/internal/mapper"
	"go.uber.org/zap"
)

// UserWriter is the write side of the user store.
type UserWriter interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Save(ctx context.Context, user *models.User) (*models.User, error)
	DeleteByID(ctx context.Context, id int) error
}

// EventPublisher is satisfied by *events.Publisher.
type EventPublisher interface {
	Publish(ctx context.Context, stream, eventType string, data any) error
}

// UserCommandService persists user writes and announces them on the user
// event stream.
type UserCommandService struct {
	repo      UserWriter
	publisher EventPublisher
	log       *zap.SugaredLogger
}

// NewUserCommandService accepts a nil publisher or logger.
func NewUserCommandService(repo UserWriter, publisher EventPublisher, log *zap.SugaredLogger) *UserCommandService {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &UserCommandService{repo: repo, publisher: publisher, log: log}
}

// Save inserts or updates a user. Another user already holding the email is
// a conflict, and nothing is written.
func (s *UserCommandService) Save(ctx context.Context, in *dto.User) (*dto.User, error) {
	user := mapper.ToDomain(in)
	if user == nil {
		return nil, models.NewValidation("user", "must not be empty")
	}

	existing, err := s.repo.FindByEmail(ctx, user.Email)
	switch {
	case errors.Is(err, models.ErrNotFound):
	case err != nil:
		return nil, err
	case user.UserID == 0 || existing.UserID != user.UserID:
		return nil, models.NewConflict("user", "email", user.Email)
	}

	saved, err := s.repo.Save(ctx, user)
	if err != nil {
		return nil, err
	}

	eventType := events.UserUpdated
	if user.UserID == 0 || saved.UserID != user.UserID {
		eventType = events.UserCreated
	}
	if err := s.publisher.Publish(ctx, events.UserEventsStream, eventType, events.UserSavedEvent{
		UserID:    saved.UserID,
		Email:     saved.Email,
		FirstName: saved.FirstName,
		LastName:  saved.LastName,
	}); err != nil {
		s.log.Warnw("failed to publish user event", "type", eventType, "userId", saved.UserID, "error", err)
	}
	return mapper.ToTransfer(saved), nil
}

// DeleteByID removes the user and its credential. An unknown id is not an error.
func (s *UserCommandService) DeleteByID(ctx context.Context, id int) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		return err
	}
	if err := s.publisher.Publish(ctx, events.UserEventsStream, events.UserDeleted, events.UserDeletedEvent{
		UserID: id,
	}); err != nil {
		s.log.Warnw("failed to publish user event", "type", events.UserDeleted, "userId", id, "error", err)
	}
	return nil
}
