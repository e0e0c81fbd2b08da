package postgres

import (
	"context"
	"time"

	"github.com/jwalitptl/push-api/internal/model"
	"github.com/jwalitptl/push-api/internal/repository"
	apperrors "github.com/jwalitptl/push-api/pkg/errors"
)

const deviceTokenColumns = `dt.id, dt.user_id, dt.token, dt.platform, dt.last_seen_at, dt.created_at, dt.updated_at`

type deviceTokenRepository struct {
	BaseRepository
}

func NewDeviceTokenRepository(base BaseRepository) repository.DeviceTokenRepository {
	return &deviceTokenRepository{base}
}

func (r *deviceTokenRepository) Upsert(ctx context.Context, userID int64, token string, platform *string, seenAt time.Time) (*model.DeviceToken, error) {
	query := `
		INSERT INTO device_tokens (user_id, token, platform, last_seen_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (token) DO UPDATE SET
			user_id = excluded.user_id,
			platform = excluded.platform,
			last_seen_at = excluded.last_seen_at,
			updated_at = excluded.updated_at
		RETURNING id
	`

	seenAt = seenAt.UTC()
	var id int64
	if err := r.db.GetContext(ctx, &id, r.q(query), userID, token, platform, seenAt, seenAt, seenAt); err != nil {
		return nil, storeError("failed to upsert device token", "user", err)
	}

	return r.get(ctx, `dt.id = ?`, id)
}

func (r *deviceTokenRepository) GetByToken(ctx context.Context, token string) (*model.DeviceToken, error) {
	return r.get(ctx, `dt.token = ?`, token)
}

func (r *deviceTokenRepository) get(ctx context.Context, where string, arg interface{}) (*model.DeviceToken, error) {
	query := `SELECT ` + deviceTokenColumns + ` FROM device_tokens dt WHERE ` + where

	var dt model.DeviceToken
	if err := r.db.GetContext(ctx, &dt, r.q(query), arg); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("device token", err)
		}
		return nil, apperrors.Store("failed to get device token", err)
	}
	return &dt, nil
}

func (r *deviceTokenRepository) ListByUser(ctx context.Context, userID int64) ([]*model.DeviceToken, error) {
	query := `
		SELECT ` + deviceTokenColumns + `
		FROM device_tokens dt
		JOIN users u ON u.id = dt.user_id
		WHERE u.id = ?
		ORDER BY dt.id
	`

	tokens := []*model.DeviceToken{}
	if err := r.db.SelectContext(ctx, &tokens, r.q(query), userID); err != nil {
		return nil, apperrors.Store("failed to list device tokens", err)
	}
	return tokens, nil
}

func (r *deviceTokenRepository) ListAll(ctx context.Context) ([]*model.DeviceToken, error) {
	query := `
		SELECT ` + deviceTokenColumns + `
		FROM device_tokens dt
		JOIN users u ON u.id = dt.user_id
		ORDER BY dt.id
	`

	tokens := []*model.DeviceToken{}
	if err := r.db.SelectContext(ctx, &tokens, query); err != nil {
		return nil, apperrors.Store("failed to list device tokens", err)
	}
	return tokens, nil
}
