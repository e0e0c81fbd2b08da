package postgres

import (
	"context"
	"time"

	"github.com/jwalitptl/push-api/internal/model"
	"github.com/jwalitptl/push-api/internal/repository"
	apperrors "github.com/jwalitptl/push-api/pkg/errors"
)

const deliveryColumns = `id, message_id, user_id, token_id, status, error, sent_at, created_at`

type deliveryRepository struct {
	BaseRepository
}

func NewDeliveryRepository(base BaseRepository) repository.DeliveryRepository {
	return &deliveryRepository{base}
}

func (r *deliveryRepository) Create(ctx context.Context, params model.QueueDeliveryParams, createdAt time.Time) (*model.Delivery, error) {
	query := `
		INSERT INTO message_deliveries (message_id, user_id, token_id, status, error, sent_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		RETURNING id
	`

	status := params.Status
	if status == "" {
		status = model.DeliveryStatusQueued
	}

	var sentAt *time.Time
	if params.SentAt != nil {
		t := params.SentAt.UTC()
		sentAt = &t
	}

	var id int64
	err := r.db.GetContext(ctx, &id, r.q(query),
		params.MessageID,
		params.UserID,
		params.TokenID,
		string(status),
		params.Error,
		sentAt,
		createdAt.UTC(),
	)
	if err != nil {
		return nil, storeError("failed to queue delivery", "message", err)
	}
	return r.Get(ctx, id)
}

func (r *deliveryRepository) Get(ctx context.Context, id int64) (*model.Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM message_deliveries WHERE id = ?`

	var d model.Delivery
	if err := r.db.GetContext(ctx, &d, r.q(query), id); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("delivery", err)
		}
		return nil, apperrors.Store("failed to get delivery", err)
	}
	return &d, nil
}

func (r *deliveryRepository) Transition(ctx context.Context, id int64, status model.DeliveryStatus, errText *string, sentAt *time.Time) (bool, error) {
	query := `
		UPDATE message_deliveries
		SET status = ?, error = ?, sent_at = ?
		WHERE id = ? AND status = 'queued'
	`

	var at *time.Time
	if sentAt != nil {
		t := sentAt.UTC()
		at = &t
	}

	res, err := r.db.ExecContext(ctx, r.q(query), string(status), errText, at, id)
	if err != nil {
		return false, apperrors.Store("failed to update delivery", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, apperrors.Store("failed to update delivery", err)
	}
	return n == 1, nil
}

func (r *deliveryRepository) ListByMessage(ctx context.Context, messageID int64) ([]*model.Delivery, error) {
	query := `SELECT ` + deliveryColumns + ` FROM message_deliveries WHERE message_id = ? ORDER BY id`

	deliveries := []*model.Delivery{}
	if err := r.db.SelectContext(ctx, &deliveries, r.q(query), messageID); err != nil {
		return nil, apperrors.Store("failed to list deliveries", err)
	}
	return deliveries, nil
}
