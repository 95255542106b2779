package handlers_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"campus_exchange/config"
	"campus_exchange/handlers"
	"campus_exchange/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?_busy_timeout=5000", filepath.Join(t.TempDir(), "app.db"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.User{}, &models.Product{}, &models.Order{}))

	cfg := &config.Config{
		JWTSecret:     "test-secret",
		JWTExpiration: time.Hour,
	}

	app := fiber.New()
	handlers.RegisterRoutes(app, db, cfg)
	return &testEnv{app: app, db: db}
}

// request performs a JSON request and decodes the response body into a map.
func (e *testEnv) request(t *testing.T, method, path, token string, body interface{}) (int, map[string]interface{}) {
	t.Helper()

	status, raw := e.rawRequest(t, method, path, token, body)
	if len(raw) == 0 {
		return status, nil
	}
	var parsed map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &parsed), "body: %s", raw)
	return status, parsed
}

// requestList is request for endpoints returning a bare JSON array.
func (e *testEnv) requestList(t *testing.T, method, path, token string) (int, []map[string]interface{}) {
	t.Helper()

	status, raw := e.rawRequest(t, method, path, token, nil)
	var parsed []map[string]interface{}
	require.NoError(t, json.Unmarshal(raw, &parsed), "body: %s", raw)
	return status, parsed
}

func (e *testEnv) rawRequest(t *testing.T, method, path, token string, body interface{}) (int, []byte) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

// register creates an account through the API and returns its token.
func (e *testEnv) register(t *testing.T, name, email, userType string) string {
	t.Helper()

	status, body := e.request(t, http.MethodPost, "/users/register", "", map[string]interface{}{
		"name":     name,
		"email":    email,
		"password": "secret123",
		"userType": userType,
	})
	require.Equal(t, http.StatusCreated, status, "register %s: %v", email, body)
	token, _ := body["token"].(string)
	require.NotEmpty(t, token)
	return token
}

// createProduct lists a product through the API and returns its ID.
func (e *testEnv) createProduct(t *testing.T, token string, price float64) uint {
	t.Helper()

	status, body := e.request(t, http.MethodPost, "/products", token, map[string]interface{}{
		"title":       "Calculus textbook",
		"description": "Barely used",
		"price":       price,
		"category":    models.CategoryTextbooks,
		"condition":   models.ConditionGood,
	})
	require.Equal(t, http.StatusCreated, status, "create product: %v", body)
	product, ok := body["product"].(map[string]interface{})
	require.True(t, ok)
	return uint(product["id"].(float64))
}

func errorCode(t *testing.T, body map[string]interface{}) string {
	t.Helper()

	detail, ok := body["error"].(map[string]interface{})
	require.True(t, ok, "no error envelope in %v", body)
	code, _ := detail["code"].(string)
	return code
}
