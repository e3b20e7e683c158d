package query

import (
	"context"
	"errors"

	"github.com/Juan181803/ecommerce-microservice-backend-app2/shared/dto"
	"github.com/Juan181803/ecommerce-microservice-backend-app2/shared/models"
	"github.com/Juan181803/ecommerce-microservice-backend-app2/user-service/internal/mapper"
)

// UserReader is the read side of the user store.
type UserReader interface {
	FindAll(ctx context.Context) ([]models.User, error)
	FindByID(ctx context.Context, id int) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ExistsByID(ctx context.Context, id int) (bool, error)
}

// UserQueryService answers user lookups and maps results to their API shape.
type UserQueryService struct {
	repo UserReader
}

func NewUserQueryService(repo UserReader) *UserQueryService {
	return &UserQueryService{repo: repo}
}

func (s *UserQueryService) ListAll(ctx context.Context) ([]*dto.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	return mapper.ToTransferList(users), nil
}

func (s *UserQueryService) GetByID(ctx context.Context, id int) (*dto.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.NewNotFound("user", "id", id)
	}
	if err != nil {
		return nil, err
	}
	return mapper.ToTransfer(user), nil
}

func (s *UserQueryService) GetByEmail(ctx context.Context, email string) (*dto.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return nil, models.NewNotFound("user", "email", email)
	}
	if err != nil {
		return nil, err
	}
	return mapper.ToTransfer(user), nil
}

func (s *UserQueryService) ExistsByID(ctx context.Context, id int) (bool, error) {
	return s.repo.ExistsByID(ctx, id)
}
