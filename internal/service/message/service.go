package message

import (
	"context"
	"time"

	"github.com/jwalitptl/push-api/internal/model"
	"github.com/jwalitptl/push-api/internal/repository"
)

type Servicer interface {
	CreateMessage(ctx context.Context, title, body *string, data model.JSONMap) (*model.Message, error)
	GetMessage(ctx context.Context, id int64) (*model.Message, error)
	DeleteMessage(ctx context.Context, id int64) error
	ListUserHistory(ctx context.Context, userID int64) ([]*model.HistoryEntry, error)
}

type Service struct {
	repo repository.MessageRepository
	now  func() time.Time
}

func NewService(repo repository.MessageRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) CreateMessage(ctx context.Context, title, body *string, data model.JSONMap) (*model.Message, error) {
	return s.repo.Create(ctx, title, body, data, s.now())
}

func (s *Service) GetMessage(ctx context.Context, id int64) (*model.Message, error) {
	return s.repo.Get(ctx, id)
}

// DeleteMessage removes the message together with its ledger rows.
func (s *Service) DeleteMessage(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// ListUserHistory returns newest-first deliveries for the user. An unknown
// user simply has no history.
func (s *Service) ListUserHistory(ctx context.Context, userID int64) ([]*model.HistoryEntry, error) {
	return s.repo.ListUserHistory(ctx, userID)
}
