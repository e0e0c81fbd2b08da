package delivery_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/push-api/internal/model"
	"github.com/jwalitptl/push-api/internal/repository"
	"github.com/jwalitptl/push-api/internal/repository/postgres"
	"github.com/jwalitptl/push-api/internal/service/delivery"
	"github.com/jwalitptl/push-api/internal/testutil"
	apperrors "github.com/jwalitptl/push-api/pkg/errors"
)

func setup(t *testing.T) (*delivery.Service, repository.MessageRepository) {
	db := testutil.NewSQLiteDB(t)
	base := postgres.NewBaseRepository(db)
	return delivery.NewService(postgres.NewDeliveryRepository(base)), postgres.NewMessageRepository(base)
}

func newMessage(t *testing.T, messages repository.MessageRepository) *model.Message {
	msg, err := messages.Create(context.Background(), testutil.Ptr("t"), nil, nil, time.Now())
	require.NoError(t, err)
	return msg
}

func TestQueueDefaultsToQueued(t *testing.T) {
	ctx := context.Background()
	svc, messages := setup(t)
	msg := newMessage(t, messages)

	d, err := svc.Queue(ctx, model.QueueDeliveryParams{MessageID: msg.ID})
	require.NoError(t, err)
	assert.Equal(t, model.DeliveryStatusQueued, d.Status)
	assert.Nil(t, d.Error)
	assert.Nil(t, d.SentAt)
}

func TestQueueRejectsUnknownStatus(t *testing.T) {
	svc, messages := setup(t)
	msg := newMessage(t, messages)

	_, err := svc.Queue(context.Background(), model.QueueDeliveryParams{
		MessageID: msg.ID,
		Status:    "delivered",
	})
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidState))
}

func TestMarkSent(t *testing.T) {
	ctx := context.Background()
	svc, messages := setup(t)
	msg := newMessage(t, messages)

	d, err := svc.Queue(ctx, model.QueueDeliveryParams{MessageID: msg.ID})
	require.NoError(t, err)

	sent, err := svc.MarkSent(ctx, d.ID)
	require.NoError(t, err)
	assert.Equal(t, model.DeliveryStatusSent, sent.Status)
	assert.NotNil(t, sent.SentAt)
	assert.Nil(t, sent.Error)
}

func TestMarkFailed(t *testing.T) {
	ctx := context.Background()
	svc, messages := setup(t)
	msg := newMessage(t, messages)

	d, err := svc.Queue(ctx, model.QueueDeliveryParams{MessageID: msg.ID})
	require.NoError(t, err)

	failed, err := svc.MarkFailed(ctx, d.ID, "requested entity was not found")
	require.NoError(t, err)
	assert.Equal(t, model.DeliveryStatusFailed, failed.Status)
	require.NotNil(t, failed.Error)
	assert.Equal(t, "requested entity was not found", *failed.Error)
	assert.Nil(t, failed.SentAt)
}

func TestTerminalStatesDoNotTransition(t *testing.T) {
	ctx := context.Background()
	svc, messages := setup(t)
	msg := newMessage(t, messages)

	d, err := svc.Queue(ctx, model.QueueDeliveryParams{MessageID: msg.ID})
	require.NoError(t, err)
	_, err = svc.MarkFailed(ctx, d.ID, "boom")
	require.NoError(t, err)

	_, err = svc.MarkSent(ctx, d.ID)
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidState))

	_, err = svc.MarkFailed(ctx, d.ID, "again")
	assert.True(t, apperrors.Is(err, apperrors.ErrInvalidState))

	rows, err := svc.ListByMessage(ctx, msg.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, model.DeliveryStatusFailed, rows[0].Status)
	assert.Equal(t, "boom", *rows[0].Error)
}

func TestMarkUnknownDelivery(t *testing.T) {
	svc, _ := setup(t)

	_, err := svc.MarkSent(context.Background(), 12345)
	assert.True(t, apperrors.Is(err, apperrors.ErrNotFound))
}
