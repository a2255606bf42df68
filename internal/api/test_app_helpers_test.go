package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/terraincognita07/circlecare/internal/db"
	"golang.org/x/crypto/bcrypt"
)

const testSecretKey = "test-secret-key-with-at-least-32-characters"

const testPassword = "StrongPass1"

func newTestApp(t *testing.T) (*fiber.App, *Handler) {
	t.Helper()

	database, err := db.OpenSQLite(filepath.Join(t.TempDir(), "circlecare-test.db"))
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := database.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})

	handler, err := NewHandler(database, HandlerOptions{SecretKey: testSecretKey})
	if err != nil {
		t.Fatalf("init handler: %v", err)
	}
	handler.authService = handler.authService.WithBcryptCost(bcrypt.MinCost)

	app := fiber.New()
	RegisterRoutes(app, handler)
	return app, handler
}

type testResponse struct {
	status  int
	body    []byte
	cookies []*http.Cookie
}

func (response testResponse) decode(t *testing.T, target any) {
	t.Helper()
	if err := json.Unmarshal(response.body, target); err != nil {
		t.Fatalf("decode response %q: %v", string(response.body), err)
	}
}

func (response testResponse) errorMessage(t *testing.T) string {
	t.Helper()
	payload := map[string]any{}
	response.decode(t, &payload)
	message, _ := payload["error"].(string)
	return message
}

func doRequest(t *testing.T, app *fiber.App, method string, path string, authCookie string, payload any) testResponse {
	t.Helper()

	var body io.Reader
	if payload != nil {
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("encode payload: %v", err)
		}
		body = bytes.NewReader(encoded)
	}

	request := httptest.NewRequest(method, path, body)
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	if authCookie != "" {
		request.Header.Set("Cookie", authCookie)
	}

	response, err := app.Test(request, -1)
	if err != nil {
		t.Fatalf("%s %s failed: %v", method, path, err)
	}
	defer response.Body.Close()

	raw, err := io.ReadAll(response.Body)
	if err != nil {
		t.Fatalf("%s %s read body failed: %v", method, path, err)
	}
	return testResponse{status: response.StatusCode, body: raw, cookies: response.Cookies()}
}

func expectStatus(t *testing.T, response testResponse, expected int) {
	t.Helper()
	if response.status != expected {
		t.Fatalf("expected status %d, got %d: %s", expected, response.status, string(response.body))
	}
}

func responseCookieValue(cookies []*http.Cookie, name string) string {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie.Value
		}
	}
	return ""
}

// registerTestUser creates an account and returns a Cookie header value for it.
func registerTestUser(t *testing.T, app *fiber.App, username string) string {
	t.Helper()

	response := doRequest(t, app, http.MethodPost, "/api/users", "", map[string]string{
		"username": username,
		"password": testPassword,
	})
	expectStatus(t, response, http.StatusCreated)

	token := responseCookieValue(response.cookies, authCookieName)
	if token == "" {
		t.Fatalf("expected %s cookie after registration", authCookieName)
	}
	return authCookieName + "=" + token
}
