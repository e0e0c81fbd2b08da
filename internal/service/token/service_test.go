package token_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/push-api/internal/model"
	"github.com/jwalitptl/push-api/internal/repository"
	"github.com/jwalitptl/push-api/internal/repository/postgres"
	"github.com/jwalitptl/push-api/internal/service/token"
	"github.com/jwalitptl/push-api/internal/testutil"
	apperrors "github.com/jwalitptl/push-api/pkg/errors"
)

func setup(t *testing.T) (*token.Service, repository.UserRepository) {
	db := testutil.NewSQLiteDB(t)
	base := postgres.NewBaseRepository(db)
	users := postgres.NewUserRepository(base)
	return token.NewService(postgres.NewDeviceTokenRepository(base), users), users
}

func TestRegisterTokenValidation(t *testing.T) {
	svc, _ := setup(t)

	_, err := svc.RegisterToken(context.Background(), &model.RegisterTokenRequest{UserID: 1, Token: "   "})
	assert.True(t, apperrors.Is(err, apperrors.ErrValidation))
}

func TestRegisterTokenUnknownUser(t *testing.T) {
	svc, _ := setup(t)

	_, err := svc.RegisterToken(context.Background(), &model.RegisterTokenRequest{UserID: 404, Token: "tok"})
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}

func TestRegisterTokenReassignsSilently(t *testing.T) {
	ctx := context.Background()
	svc, users := setup(t)

	u1, err := users.CreateOrGet(ctx, nil, nil, testutil.Ptr("one@example.com"))
	require.NoError(t, err)
	u2, err := users.CreateOrGet(ctx, nil, nil, testutil.Ptr("two@example.com"))
	require.NoError(t, err)

	first, err := svc.RegisterToken(ctx, &model.RegisterTokenRequest{UserID: model.FlexibleID(u1.ID), Token: "shared", Platform: testutil.Ptr("android")})
	require.NoError(t, err)
	second, err := svc.RegisterToken(ctx, &model.RegisterTokenRequest{UserID: model.FlexibleID(u2.ID), Token: "shared"})
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, u2.ID, *second.UserID)
	assert.Nil(t, second.Platform)

	mine, err := svc.ListForUser(ctx, u1.ID)
	require.NoError(t, err)
	assert.Empty(t, mine)

	all, err := svc.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, "shared", all[0].Token)
}
