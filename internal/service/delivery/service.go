package delivery

import (
	"context"
	"fmt"
	"time"

	"github.com/jwalitptl/push-api/internal/model"
	"github.com/jwalitptl/push-api/internal/repository"
	apperrors "github.com/jwalitptl/push-api/pkg/errors"
)

// Ledger records one row per (message, token) attempt.
type Ledger interface {
	Queue(ctx context.Context, params model.QueueDeliveryParams) (*model.Delivery, error)
	MarkSent(ctx context.Context, id int64) (*model.Delivery, error)
	MarkFailed(ctx context.Context, id int64, errText string) (*model.Delivery, error)
	ListByMessage(ctx context.Context, messageID int64) ([]*model.Delivery, error)
}

type Service struct {
	repo repository.DeliveryRepository
	now  func() time.Time
}

func NewService(repo repository.DeliveryRepository) *Service {
	return &Service{repo: repo, now: time.Now}
}

func (s *Service) Queue(ctx context.Context, params model.QueueDeliveryParams) (*model.Delivery, error) {
	if params.Status == "" {
		params.Status = model.DeliveryStatusQueued
	}
	if !params.Status.Valid() {
		return nil, apperrors.InvalidState(fmt.Sprintf("invalid delivery status %q", params.Status))
	}
	return s.repo.Create(ctx, params, s.now())
}

// MarkSent records success. The error text is cleared.
func (s *Service) MarkSent(ctx context.Context, id int64) (*model.Delivery, error) {
	at := s.now()
	return s.transition(ctx, id, model.DeliveryStatusSent, nil, &at)
}

func (s *Service) MarkFailed(ctx context.Context, id int64, errText string) (*model.Delivery, error) {
	return s.transition(ctx, id, model.DeliveryStatusFailed, &errText, nil)
}

func (s *Service) transition(ctx context.Context, id int64, status model.DeliveryStatus, errText *string, sentAt *time.Time) (*model.Delivery, error) {
	ok, err := s.repo.Transition(ctx, id, status, errText, sentAt)
	if err != nil {
		return nil, err
	}

	d, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.InvalidState(fmt.Sprintf("delivery %d is already %s", id, d.Status))
	}
	return d, nil
}

func (s *Service) ListByMessage(ctx context.Context, messageID int64) ([]*model.Delivery, error) {
	return s.repo.ListByMessage(ctx, messageID)
}
