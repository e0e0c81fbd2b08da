package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jwalitptl/push-api/internal/app"
	"github.com/jwalitptl/push-api/internal/config"
	"github.com/jwalitptl/push-api/internal/repository/postgres"
	"github.com/jwalitptl/push-api/pkg/auth"
	"github.com/jwalitptl/push-api/pkg/logger"
	"github.com/jwalitptl/push-api/pkg/push"
)

const jwtSecret = "e2e-secret"

var (
	baseURL   string
	authToken string
	sender    = &recordingSender{}
)

// TestResponse is a decoded API reply.
type TestResponse struct {
	StatusCode int
	Data       map[string]interface{}
	List       []interface{}
	RawData    string
}

func (r TestResponse) IsSuccess() bool {
	return r.StatusCode == http.StatusOK
}

func (r TestResponse) GetString(key string) string {
	if v, ok := r.Data[key].(string); ok {
		return v
	}
	return ""
}

func (r TestResponse) GetID(key string) int64 {
	if v, ok := r.Data[key].(float64); ok {
		return int64(v)
	}
	return 0
}

// recordingSender fails every token prefixed with "bad-".
type recordingSender struct {
	mu   sync.Mutex
	sent []string
}

func (s *recordingSender) Send(_ context.Context, token string, _ push.Notification) (string, error) {
	s.mu.Lock()
	s.sent = append(s.sent, token)
	s.mu.Unlock()
	if strings.HasPrefix(token, "bad-") {
		return "", fmt.Errorf("registration token is not valid: %w", push.ErrUnregistered)
	}
	return "projects/e2e/messages/" + token, nil
}

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		Database: config.DatabaseConfig{Driver: postgres.DriverSQLite, DSN: ":memory:"},
		Dispatch: config.DispatchConfig{Concurrency: 4},
		Auth:     config.AuthConfig{JWTSecret: jwtSecret},
		Metrics:  config.MetricsConfig{Prefix: "e2e"},
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	if err := postgres.Migrate(context.Background(), db); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	r := app.New(app.Deps{
		Config:   cfg,
		DB:       db,
		Sender:   sender,
		Registry: prometheus.NewRegistry(),
		Logger:   logger.Nop(),
	})
	srv := httptest.NewServer(r.Engine())
	baseURL = srv.URL

	setupAuth()

	code := m.Run()

	srv.Close()
	db.Close()
	os.Exit(code)
}

func setupAuth() {
	token, err := auth.NewJWTService(jwtSecret).GenerateToken("e2e", time.Hour)
	if err != nil {
		fmt.Printf("Failed to sign token: %v\n", err)
		os.Exit(1)
	}
	authToken = token
}

func makeRequest(method, path string, body interface{}, token string) TestResponse {
	var reqBody io.Reader
	if body != nil {
		jsonBody, err := json.Marshal(body)
		if err != nil {
			return TestResponse{RawData: err.Error()}
		}
		reqBody = bytes.NewBuffer(jsonBody)
	}

	req, err := http.NewRequest(method, baseURL+path, reqBody)
	if err != nil {
		return TestResponse{RawData: err.Error()}
	}

	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	response, err := http.DefaultClient.Do(req)
	if err != nil {
		return TestResponse{RawData: err.Error()}
	}
	defer response.Body.Close()

	respBody, err := io.ReadAll(response.Body)
	if err != nil {
		return TestResponse{StatusCode: response.StatusCode, RawData: err.Error()}
	}

	testResp := TestResponse{
		StatusCode: response.StatusCode,
		RawData:    string(respBody),
	}
	if bytes.HasPrefix(bytes.TrimSpace(respBody), []byte("[")) {
		_ = json.Unmarshal(respBody, &testResp.List)
	} else {
		_ = json.Unmarshal(respBody, &testResp.Data)
	}
	return testResp
}
