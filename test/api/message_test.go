package api_test

import (
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSendRequiresAuth(t *testing.T) {
	resp := makeRequest("POST", "/messages", map[string]interface{}{"title": "hi"}, "")
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	bad := makeRequest("POST", "/messages", map[string]interface{}{"title": "hi"}, "not-a-jwt")
	assert.Equal(t, http.StatusUnauthorized, bad.StatusCode)
}

func TestTargetedSend(t *testing.T) {
	userID := createTestUser(t)
	good := uniqueName("good")
	bad := uniqueName("bad-")
	registerTestToken(t, userID, good)
	registerTestToken(t, userID, bad)

	resp := sendTestMessage(t, map[string]interface{}{
		"title":  "Hello",
		"body":   "World",
		"data":   map[string]interface{}{"orderId": 42, "kind": "promo"},
		"userId": userID,
	})

	msg := resp.Data["message"].(map[string]interface{})
	assert.Equal(t, "Hello", msg["title"])
	assert.Equal(t, map[string]interface{}{"orderId": float64(42), "kind": "promo"}, msg["data"])

	deliveries := deliveriesOf(resp)
	require.Len(t, deliveries, 2)
	byToken := map[string]map[string]interface{}{}
	for _, d := range deliveries {
		byToken[d["token"].(string)] = d
	}
	assert.Equal(t, "sent", byToken[good]["status"])
	assert.Equal(t, "projects/e2e/messages/"+good, byToken[good]["providerMessageId"])
	assert.Equal(t, "failed", byToken[bad]["status"])
	assert.NotEmpty(t, byToken[bad]["error"])

	msgID := int64(msg["id"].(float64))
	getResp := makeRequest("GET", fmt.Sprintf("/messages/%d", msgID), nil, "")
	require.True(t, getResp.IsSuccess(), getResp.RawData)
	ledger := deliveriesOf(getResp)
	require.Len(t, ledger, 2)
	for _, d := range ledger {
		assert.Contains(t, []interface{}{"sent", "failed"}, d["status"])
	}
}

func TestTargetedSendStringUserID(t *testing.T) {
	userID := createTestUser(t)
	tok := uniqueName("str-send")
	registerTestToken(t, userID, tok)

	resp := sendTestMessage(t, map[string]interface{}{"title": "str", "userId": fmt.Sprint(userID)})
	deliveries := deliveriesOf(resp)
	require.Len(t, deliveries, 1)
	assert.Equal(t, tok, deliveries[0]["token"])
}

func TestBroadcastSend(t *testing.T) {
	first := createTestUser(t)
	second := createTestUser(t)
	a := uniqueName("bcast")
	b := uniqueName("bcast")
	registerTestToken(t, first, a)
	registerTestToken(t, second, b)

	resp := sendTestMessage(t, map[string]interface{}{"title": "everyone"})

	var tokens []string
	for _, d := range deliveriesOf(resp) {
		tokens = append(tokens, d["token"].(string))
	}
	assert.Contains(t, tokens, a)
	assert.Contains(t, tokens, b)
}

func TestSendToUserWithoutTokens(t *testing.T) {
	userID := createTestUser(t)

	resp := sendTestMessage(t, map[string]interface{}{"title": "nobody", "userId": userID})
	assert.Empty(t, deliveriesOf(resp))
	assert.NotNil(t, resp.Data["message"])
}

func TestSendToUnknownUser(t *testing.T) {
	resp := sendTestMessage(t, map[string]interface{}{"title": "ghost", "userId": 987654})
	assert.Empty(t, deliveriesOf(resp))
}

func TestDeleteMessageFlow(t *testing.T) {
	userID := createTestUser(t)
	registerTestToken(t, userID, uniqueName("del-tok"))
	resp := sendTestMessage(t, map[string]interface{}{"title": "bye", "userId": userID})
	msgID := int64(resp.Data["message"].(map[string]interface{})["id"].(float64))

	deleteResp := makeRequest("DELETE", fmt.Sprintf("/messages/%d", msgID), nil, "")
	require.True(t, deleteResp.IsSuccess(), deleteResp.RawData)
	assert.Equal(t, true, deleteResp.Data["deleted"])

	getResp := makeRequest("GET", fmt.Sprintf("/messages/%d", msgID), nil, "")
	assert.Equal(t, http.StatusNotFound, getResp.StatusCode)

	// Cascaded deliveries no longer show up in history
	history := makeRequest("GET", fmt.Sprintf("/users/%d/messages", userID), nil, "")
	require.True(t, history.IsSuccess())
	assert.Empty(t, history.List)

	again := makeRequest("DELETE", fmt.Sprintf("/messages/%d", msgID), nil, "")
	assert.Equal(t, http.StatusNotFound, again.StatusCode)
}

func TestMessageBadID(t *testing.T) {
	resp := makeRequest("GET", "/messages/abc", nil, "")
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, "validation", resp.GetString("code"))
}
