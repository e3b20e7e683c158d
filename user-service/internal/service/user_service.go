// Package service exposes the user operations as one API. Reads are served by
// internal/query and writes by internal/command.
package service

import (
	"github.com/Juan181803/ecommerce-microservice-backend-app2/user-service/internal/command"
	"github.com/Juan181803/ecommerce-microservice-backend-app2/user-service/internal/query"
	"go.uber.org/zap"
)

// UserRepository is the full store contract the service needs.
type UserRepository interface {
	query.UserReader
	command.UserWriter
}

type UserService struct {
	*query.UserQueryService
	*command.UserCommandService
}

func NewUserService(repo UserRepository, publisher command.EventPublisher, log *zap.SugaredLogger) *UserService {
	return &UserService{
		UserQueryService:   query.NewUserQueryService(repo),
		UserCommandService: command.NewUserCommandService(repo, publisher, log),
	}
}
