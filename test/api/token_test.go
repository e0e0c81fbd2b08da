package api_test

import (
	"net/http"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterTokenFlow(t *testing.T) {
	first := createTestUser(t)
	second := createTestUser(t)
	tok := uniqueName("tok")

	tokenID := registerTestToken(t, first, tok)
	assert.NotZero(t, tokenID)

	// Re-registering moves the token to the new owner
	resp := makeRequest("POST", "/tokens", map[string]interface{}{
		"userId": second,
		"token":  tok,
	}, "")
	require.True(t, resp.IsSuccess(), resp.RawData)
	assert.Equal(t, tokenID, resp.GetID("id"))
	assert.Equal(t, float64(second), resp.Data["user_id"])
}

func TestRegisterTokenStringUserID(t *testing.T) {
	userID := createTestUser(t)

	resp := makeRequest("POST", "/tokens", map[string]interface{}{
		"userId": strconv.FormatInt(userID, 10),
		"token":  uniqueName("str-tok"),
	}, "")
	require.True(t, resp.IsSuccess(), resp.RawData)
	assert.Equal(t, float64(userID), resp.Data["user_id"])

	bad := makeRequest("POST", "/tokens", map[string]interface{}{
		"userId": "abc",
		"token":  uniqueName("str-tok"),
	}, "")
	assert.Equal(t, http.StatusBadRequest, bad.StatusCode)
	assert.Equal(t, "validation", bad.GetString("code"))
	assert.NotContains(t, bad.GetString("error"), "Go struct")
}

func TestRegisterTokenValidation(t *testing.T) {
	userID := createTestUser(t)

	missingToken := makeRequest("POST", "/tokens", map[string]interface{}{"userId": userID}, "")
	assert.Equal(t, http.StatusBadRequest, missingToken.StatusCode)
	assert.Equal(t, "validation", missingToken.GetString("code"))

	missingUser := makeRequest("POST", "/tokens", map[string]interface{}{"token": "abc"}, "")
	assert.Equal(t, http.StatusBadRequest, missingUser.StatusCode)

	empty := makeRequest("POST", "/tokens", nil, "")
	assert.Equal(t, http.StatusBadRequest, empty.StatusCode)
}

func TestRegisterTokenUnknownUser(t *testing.T) {
	resp := makeRequest("POST", "/tokens", map[string]interface{}{
		"userId": 987654,
		"token":  uniqueName("tok"),
	}, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	assert.Equal(t, "not_found", resp.GetString("code"))
}
