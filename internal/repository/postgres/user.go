package postgres

import (
	"context"
	"strings"
	"time"

	"github.com/jwalitptl/push-api/internal/model"
	"github.com/jwalitptl/push-api/internal/repository"
	apperrors "github.com/jwalitptl/push-api/pkg/errors"
)

const userColumns = `id, external_id, name, email, created_at`

type userRepository struct {
	BaseRepository
}

func NewUserRepository(base BaseRepository) repository.UserRepository {
	return &userRepository{base}
}

func (r *userRepository) CreateOrGet(ctx context.Context, externalID, name, email *string) (*model.User, error) {
	user, err := r.findByIdentity(ctx, externalID, email)
	if err != nil {
		return nil, err
	}
	if user != nil {
		return user, nil
	}

	query := `
		INSERT INTO users (external_id, name, email, created_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT DO NOTHING
		RETURNING id
	`

	var id int64
	err = r.db.GetContext(ctx, &id, r.q(query), externalID, name, email, time.Now().UTC())
	if err != nil {
		if !isNoRows(err) {
			return nil, storeError("failed to create user", "user", err)
		}

		// Lost a race against an identical insert; return the winner.
		user, err = r.findByIdentity(ctx, externalID, email)
		if err != nil {
			return nil, err
		}
		if user == nil {
			return nil, apperrors.Conflict("user identity already taken", nil)
		}
		return user, nil
	}

	return r.Get(ctx, id)
}

// findByIdentity returns the lowest-id user whose email or external id
// matches, or nil when there is none.
func (r *userRepository) findByIdentity(ctx context.Context, externalID, email *string) (*model.User, error) {
	var (
		conds []string
		args  []interface{}
	)
	if email != nil {
		conds = append(conds, "email = ?")
		args = append(args, *email)
	}
	if externalID != nil {
		conds = append(conds, "external_id = ?")
		args = append(args, *externalID)
	}
	if len(conds) == 0 {
		return nil, nil
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE ` +
		strings.Join(conds, " OR ") + ` ORDER BY id LIMIT 1`

	var user model.User
	if err := r.db.GetContext(ctx, &user, r.q(query), args...); err != nil {
		if isNoRows(err) {
			return nil, nil
		}
		return nil, apperrors.Store("failed to look up user", err)
	}
	return &user, nil
}

func (r *userRepository) Get(ctx context.Context, id int64) (*model.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = ?`

	var user model.User
	if err := r.db.GetContext(ctx, &user, r.q(query), id); err != nil {
		if isNoRows(err) {
			return nil, apperrors.NotFound("user", err)
		}
		return nil, apperrors.Store("failed to get user", err)
	}
	return &user, nil
}

func (r *userRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, r.q(`DELETE FROM users WHERE id = ?`), id)
	if err != nil {
		return apperrors.Store("failed to delete user", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return apperrors.Store("failed to delete user", err)
	}
	if n == 0 {
		return apperrors.NotFound("user", nil)
	}
	return nil
}
