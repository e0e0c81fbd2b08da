package api_test

import (
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

var seq atomic.Int64

// uniqueName returns prefix with a per-run counter.
func uniqueName(prefix string) string {
	return fmt.Sprintf("%s_%d", prefix, seq.Add(1))
}

func createTestUser(t *testing.T) int64 {
	t.Helper()
	resp := makeRequest("POST", "/users", map[string]interface{}{
		"email": uniqueName("user") + "@example.com",
		"name":  "Test User",
	}, "")
	require.True(t, resp.IsSuccess(), "Failed to create test user: %s", resp.RawData)
	return resp.GetID("id")
}

func registerTestToken(t *testing.T, userID int64, token string) int64 {
	t.Helper()
	resp := makeRequest("POST", "/tokens", map[string]interface{}{
		"userId":   userID,
		"token":    token,
		"platform": "android",
	}, "")
	require.True(t, resp.IsSuccess(), "Failed to register token: %s", resp.RawData)
	return resp.GetID("id")
}

func sendTestMessage(t *testing.T, body map[string]interface{}) TestResponse {
	t.Helper()
	resp := makeRequest("POST", "/messages", body, authToken)
	require.True(t, resp.IsSuccess(), "Failed to send message: %s", resp.RawData)
	return resp
}

func deliveriesOf(resp TestResponse) []map[string]interface{} {
	raw, _ := resp.Data["deliveries"].([]interface{})
	out := make([]map[string]interface{}, 0, len(raw))
	for _, d := range raw {
		if m, ok := d.(map[string]interface{}); ok {
			out = append(out, m)
		}
	}
	return out
}
