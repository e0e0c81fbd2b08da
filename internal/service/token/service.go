package token

import (
	"context"
	"strings"
	"time"

	"github.com/jwalitptl/push-api/internal/model"
	"github.com/jwalitptl/push-api/internal/repository"
	apperrors "github.com/jwalitptl/push-api/pkg/errors"
)

type Servicer interface {
	RegisterToken(ctx context.Context, req *model.RegisterTokenRequest) (*model.DeviceToken, error)
	ListForUser(ctx context.Context, userID int64) ([]*model.DeviceToken, error)
	ListAll(ctx context.Context) ([]*model.DeviceToken, error)
}

type Service struct {
	tokens repository.DeviceTokenRepository
	users  repository.UserRepository
	now    func() time.Time
}

func NewService(tokens repository.DeviceTokenRepository, users repository.UserRepository) *Service {
	return &Service{
		tokens: tokens,
		users:  users,
		now:    time.Now,
	}
}

// RegisterToken binds token to the user, moving it away from any previous
// owner.
func (s *Service) RegisterToken(ctx context.Context, req *model.RegisterTokenRequest) (*model.DeviceToken, error) {
	token := strings.TrimSpace(req.Token)
	if token == "" {
		return nil, apperrors.Validation("token is required", nil)
	}
	userID := int64(req.UserID)
	if userID <= 0 {
		return nil, apperrors.Validation("userId is required", nil)
	}

	if _, err := s.users.Get(ctx, userID); err != nil {
		return nil, err
	}

	var platform *string
	if req.Platform != nil {
		if p := strings.TrimSpace(*req.Platform); p != "" {
			platform = &p
		}
	}

	return s.tokens.Upsert(ctx, userID, token, platform, s.now())
}

func (s *Service) ListForUser(ctx context.Context, userID int64) ([]*model.DeviceToken, error) {
	return s.tokens.ListByUser(ctx, userID)
}

// ListAll returns every token with a living owner.
func (s *Service) ListAll(ctx context.Context) ([]*model.DeviceToken, error) {
	return s.tokens.ListAll(ctx)
}
