package user

import (
	"context"
	"strings"

	"github.com/jwalitptl/push-api/internal/model"
	"github.com/jwalitptl/push-api/internal/repository"
	"github.com/jwalitptl/push-api/pkg/errors"
	"github.com/jwalitptl/push-api/pkg/validator"
)

type UserServicer interface {
	CreateOrGetUser(ctx context.Context, req *model.CreateUserRequest) (*model.User, error)
	GetUser(ctx context.Context, id int64) (*model.User, error)
	DeleteUser(ctx context.Context, id int64) error
}

type Service struct {
	repo repository.UserRepository
}

func NewService(repo repository.UserRepository) *Service {
	return &Service{repo: repo}
}

// CreateOrGetUser returns the existing user whose email or external id
// matches, or creates one. Blank identifiers are treated as absent; a
// non-blank email must be well formed.
func (s *Service) CreateOrGetUser(ctx context.Context, req *model.CreateUserRequest) (*model.User, error) {
	email := normalize(req.Email)
	if email != nil && !validator.ValidEmail(*email) {
		return nil, errors.Validation("email must be a valid email address", nil)
	}

	return s.repo.CreateOrGet(ctx,
		normalize(req.ExternalID),
		normalize(req.Name),
		email,
	)
}

func (s *Service) GetUser(ctx context.Context, id int64) (*model.User, error) {
	return s.repo.Get(ctx, id)
}

// DeleteUser removes the user. Their tokens and deliveries stay, unowned.
func (s *Service) DeleteUser(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func normalize(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
