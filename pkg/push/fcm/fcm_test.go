package fcm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jwalitptl/push-api/pkg/push"
)

func TestBuildMessage(t *testing.T) {
	msg := BuildMessage("tok-1", push.Notification{
		Title: "Hello",
		Body:  "World",
		Data:  map[string]string{"k": "v"},
	})

	assert.Equal(t, "tok-1", msg.Token)
	require.NotNil(t, msg.Notification)
	assert.Equal(t, "Hello", msg.Notification.Title)
	assert.Equal(t, "World", msg.Notification.Body)
	assert.Equal(t, map[string]string{"k": "v"}, msg.Data)
	require.NotNil(t, msg.Android)
	assert.Equal(t, "high", msg.Android.Priority)
	require.NotNil(t, msg.APNS)
	assert.Equal(t, "10", msg.APNS.Headers["apns-priority"])
}

func TestBuildMessageDataOnly(t *testing.T) {
	msg := BuildMessage("tok-1", push.Notification{Data: map[string]string{"k": "v"}})

	assert.Nil(t, msg.Notification)
	assert.Equal(t, "v", msg.Data["k"])
}
