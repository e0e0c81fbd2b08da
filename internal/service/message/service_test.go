package message_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/push-api/internal/model"
	"github.com/jwalitptl/push-api/internal/repository/postgres"
	"github.com/jwalitptl/push-api/internal/service/message"
	"github.com/jwalitptl/push-api/internal/testutil"
	apperrors "github.com/jwalitptl/push-api/pkg/errors"
)

func TestMessageLifecycle(t *testing.T) {
	ctx := context.Background()
	db := testutil.NewSQLiteDB(t)
	svc := message.NewService(postgres.NewMessageRepository(postgres.NewBaseRepository(db)))

	data := model.JSONMap{"deep": map[string]interface{}{"link": "app://x"}}
	msg, err := svc.CreateMessage(ctx, testutil.Ptr("Title"), testutil.Ptr("Body"), data)
	require.NoError(t, err)

	got, err := svc.GetMessage(ctx, msg.ID)
	require.NoError(t, err)
	assert.Equal(t, data, got.Data)
	assert.Equal(t, "Body", *got.Body)

	history, err := svc.ListUserHistory(ctx, 77)
	require.NoError(t, err)
	assert.Empty(t, history)

	require.NoError(t, svc.DeleteMessage(ctx, msg.ID))
	_, err = svc.GetMessage(ctx, msg.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}
