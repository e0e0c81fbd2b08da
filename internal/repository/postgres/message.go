package postgres

import (
	"context"
	"time"

	"github.com/jwalitptl/push-api/internal/model"
	"github.com/jwalitptl/push-api/internal/repository"
	apperrors "github.com/jwalitptl/push-api/pkg/errors"
)

type messageRepository struct {
	BaseRepository
}

func NewMessageRepository(base BaseRepository) repository.MessageRepository {
	return &messageRepository{base}
}

func (r *messageRepository) Create(ctx context.Context, title, body *string, data model.JSONMap, createdAt time.Time) (*model.Message, error) {
	query := `
		INSERT INTO messages (title, body, data, created_at)
		VALUES (?, ?, ?, ?)
		RETURNING id
	`

	var id int64
	if err := r.db.GetContext(ctx, &id, r.q(query), title, body, data, createdAt.UTC()); err != nil {
		return nil, storeError("failed to create message", "message", err)
	}
	return r.Get(ctx, id)
}

func (r *messageRepository) Get(ctx context.Context, id int64) (*model.Message, error) {
	query := `SELECT id, title, body, data, created_at FROM messages WHERE id = ?`

	var msg model.Message
	if err := r.db.GetContext(ctx, &msg, r.q(query), id); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("message", err)
		}
		return nil, apperrors.Store("failed to get message", err)
	}
	return &msg, nil
}

// Delete removes the message; its ledger rows go with it.
func (r *messageRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.q(`DELETE FROM messages WHERE id = ?`), id)
	if err != nil {
		return apperrors.Store("failed to delete message", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Store("failed to delete message", err)
	}
	if n == 0 {
		return apperrors.NotFound("message", nil)
	}
	return nil
}

type historyRow struct {
	ID           int64                `db:"id"`
	Status       model.DeliveryStatus `db:"status"`
	Error        *string              `db:"error"`
	SentAt       *time.Time           `db:"sent_at"`
	CreatedAt    time.Time            `db:"created_at"`
	MessageID    int64                `db:"message_id"`
	MessageTitle *string              `db:"message_title"`
	MessageBody  *string              `db:"message_body"`
	MessageData  model.JSONMap        `db:"message_data"`
}

func (r *messageRepository) ListUserHistory(ctx context.Context, userID int64) ([]*model.HistoryEntry, error) {
	query := `
		SELECT
			d.id, d.status, d.error, d.sent_at, d.created_at,
			m.id AS message_id,
			m.title AS message_title,
			m.body AS message_body,
			m.data AS message_data
		FROM message_deliveries d
		JOIN messages m ON m.id = d.message_id
		WHERE d.user_id = ?
		ORDER BY d.created_at DESC, d.id DESC
	`

	var rows []historyRow
	if err := r.db.SelectContext(ctx, &rows, r.q(query), userID); err != nil {
		return nil, apperrors.Store("failed to list message history", err)
	}

	entries := make([]*model.HistoryEntry, 0, len(rows))
	for _, row := range rows {
		entries = append(entries, &model.HistoryEntry{
			ID:        row.ID,
			Status:    row.Status,
			Error:     row.Error,
			SentAt:    row.SentAt,
			CreatedAt: row.CreatedAt,
			Message: model.MessageSummary{
				ID:    row.MessageID,
				Title: row.MessageTitle,
				Body:  row.MessageBody,
				Data:  row.MessageData,
			},
		})
	}
	return entries, nil
}
