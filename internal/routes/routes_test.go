package routes

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	json "github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"

	"github.com/mobistore/mobistore/internal/config"
	"github.com/mobistore/mobistore/internal/logging"
)

func setupApp(t *testing.T) *fiber.App {
	t.Helper()
	cfg := config.Config{
		AppName:   "mobistore-test",
		AppEnv:    "development",
		LogLevel:  "error",
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
		CacheTTL:  time.Hour,
		PageSize:  4,
	}
	app := fiber.New(fiber.Config{JSONEncoder: json.Marshal, JSONDecoder: json.Unmarshal})
	if err := Setup(app, Deps{Cfg: cfg, Logger: logging.Discard()}); err != nil {
		t.Fatalf("setup routes: %v", err)
	}
	return app
}

func doJSON(t *testing.T, app *fiber.App, method, path, token string, body any) (int, []byte) {
	t.Helper()
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal request: %v", err)
		}
		reader = bytes.NewReader(payload)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != nil {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read response: %v", err)
	}
	return resp.StatusCode, payload
}

func registerAndLogin(t *testing.T, app *fiber.App, name, email string) (userID, token string) {
	t.Helper()
	status, payload := doJSON(t, app, fiber.MethodPost, "/api/user", "", fiber.Map{
		"name": name, "email": email, "password": "s3cret-pass",
	})
	if status != http.StatusCreated {
		t.Fatalf("register %s: expected 201 got %d (%s)", email, status, payload)
	}
	var user struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(payload, &user); err != nil {
		t.Fatalf("decode register response: %v", err)
	}

	status, payload = doJSON(t, app, fiber.MethodPost, "/api/login_check", "", fiber.Map{
		"username": email, "password": "s3cret-pass",
	})
	if status != http.StatusOK {
		t.Fatalf("login %s: expected 200 got %d (%s)", email, status, payload)
	}
	var login struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(payload, &login); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return user.ID, login.Token
}

func TestRegisterNeverExposesPassword(t *testing.T) {
	app := setupApp(t)

	status, payload := doJSON(t, app, fiber.MethodPost, "/api/user", "", fiber.Map{
		"name": "Alice", "email": "alice@example.com", "password": "s3cret-pass",
	})
	if status != http.StatusCreated {
		t.Fatalf("expected 201 got %d", status)
	}
	var fields map[string]any
	if err := json.Unmarshal(payload, &fields); err != nil {
		t.Fatalf("decode: %v", err)
	}
	for key := range fields {
		if key == "password" || key == "password_hash" {
			t.Fatalf("password material leaked in response: %s", payload)
		}
	}
}

func TestRegisterRejectsBadPayload(t *testing.T) {
	app := setupApp(t)

	status, payload := doJSON(t, app, fiber.MethodPost, "/api/user", "", fiber.Map{
		"name": "Alice", "email": "not-an-email", "password": "s3cret-pass",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", status)
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &body); err != nil || body.Message == "" {
		t.Fatalf("expected message body, got %s", payload)
	}
}

func TestLoginRejectsBadCredentials(t *testing.T) {
	app := setupApp(t)
	registerAndLogin(t, app, "Alice", "alice@example.com")

	status, _ := doJSON(t, app, fiber.MethodPost, "/api/login_check", "", fiber.Map{
		"username": "alice@example.com", "password": "wrong",
	})
	if status != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", status)
	}
}

func TestUserDetailIsSelfOnly(t *testing.T) {
	app := setupApp(t)
	aliceID, aliceToken := registerAndLogin(t, app, "Alice", "alice@example.com")
	_, bobToken := registerAndLogin(t, app, "Bob", "bob@example.com")

	if status, _ := doJSON(t, app, fiber.MethodGet, "/api/user/"+aliceID, "", nil); status != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", status)
	}
	if status, _ := doJSON(t, app, fiber.MethodGet, "/api/user/"+aliceID, aliceToken, nil); status != http.StatusOK {
		t.Fatalf("expected 200 for self, got %d", status)
	}
	if status, _ := doJSON(t, app, fiber.MethodGet, "/api/user/"+aliceID, bobToken, nil); status != http.StatusForbidden {
		t.Fatalf("expected 403 for other principal, got %d", status)
	}
}

func TestClientLifecycleEnforcesOwnership(t *testing.T) {
	app := setupApp(t)
	aliceID, aliceToken := registerAndLogin(t, app, "Alice", "alice@example.com")
	_, bobToken := registerAndLogin(t, app, "Bob", "bob@example.com")

	status, payload := doJSON(t, app, fiber.MethodPost, "/api/client", aliceToken, fiber.Map{
		"firstname": "A", "lastname": "B", "email": "a@b.com",
	})
	if status != http.StatusCreated {
		t.Fatalf("create: expected 201 got %d (%s)", status, payload)
	}
	var created struct {
		ID     string `json:"id"`
		UserID string `json:"user_id"`
	}
	if err := json.Unmarshal(payload, &created); err != nil {
		t.Fatalf("decode create response: %v", err)
	}
	if created.UserID != aliceID {
		t.Fatalf("expected owner %s, got %s", aliceID, created.UserID)
	}

	if status, _ := doJSON(t, app, fiber.MethodGet, "/api/clients/"+created.ID, bobToken, nil); status != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner read, got %d", status)
	}

	status, payload = doJSON(t, app, fiber.MethodPut, "/api/clients/"+created.ID, aliceToken, fiber.Map{
		"firstname": "C", "lastname": "B", "email": "a@b.com",
	})
	if status != http.StatusCreated {
		t.Fatalf("update: expected 201 got %d (%s)", status, payload)
	}

	// The update must be visible immediately, i.e. the cached read was evicted.
	status, payload = doJSON(t, app, fiber.MethodGet, "/api/clients/"+created.ID, aliceToken, nil)
	if status != http.StatusOK {
		t.Fatalf("read after update: expected 200 got %d", status)
	}
	var fetched struct {
		Firstname string `json:"firstname"`
		UserID    string `json:"user_id"`
	}
	if err := json.Unmarshal(payload, &fetched); err != nil {
		t.Fatalf("decode read response: %v", err)
	}
	if fetched.Firstname != "C" {
		t.Fatalf("expected updated firstname C, got %s", fetched.Firstname)
	}
	if fetched.UserID != aliceID {
		t.Fatalf("ownership changed on update: %s", fetched.UserID)
	}

	if status, _ := doJSON(t, app, fiber.MethodDelete, "/api/clients/"+created.ID, bobToken, nil); status != http.StatusForbidden {
		t.Fatalf("expected 403 for non-owner delete, got %d", status)
	}
	if status, _ := doJSON(t, app, fiber.MethodDelete, "/api/clients/"+created.ID, aliceToken, nil); status != http.StatusNoContent {
		t.Fatalf("expected 204 for owner delete, got %d", status)
	}
	if status, _ := doJSON(t, app, fiber.MethodGet, "/api/clients/"+created.ID, aliceToken, nil); status != http.StatusNotFound {
		t.Fatalf("expected 404 after delete, got %d", status)
	}
}

func TestClientUpdateValidationLeavesStateUnchanged(t *testing.T) {
	app := setupApp(t)
	_, token := registerAndLogin(t, app, "Alice", "alice@example.com")

	status, payload := doJSON(t, app, fiber.MethodPost, "/api/client", token, fiber.Map{
		"firstname": "A", "lastname": "B", "email": "a@b.com",
	})
	if status != http.StatusCreated {
		t.Fatalf("create: expected 201 got %d", status)
	}
	var created struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(payload, &created); err != nil {
		t.Fatalf("decode: %v", err)
	}

	status, payload = doJSON(t, app, fiber.MethodPut, "/api/clients/"+created.ID, token, fiber.Map{
		"firstname": "", "lastname": "", "email": "",
	})
	if status != http.StatusBadRequest {
		t.Fatalf("expected 400 for invalid update, got %d", status)
	}
	var body struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(payload, &body); err != nil || body.Message != "Data not valid" {
		t.Fatalf("expected validation message, got %s", payload)
	}

	status, payload = doJSON(t, app, fiber.MethodGet, "/api/clients/"+created.ID, token, nil)
	if status != http.StatusOK {
		t.Fatalf("reread: expected 200 got %d", status)
	}
	var fetched struct {
		Firstname string `json:"firstname"`
	}
	if err := json.Unmarshal(payload, &fetched); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if fetched.Firstname != "A" {
		t.Fatalf("state mutated by invalid update: %s", payload)
	}
}

func TestClientListIsPaginatedAndCached(t *testing.T) {
	app := setupApp(t)
	_, token := registerAndLogin(t, app, "Alice", "alice@example.com")

	for i := 0; i < 5; i++ {
		status, _ := doJSON(t, app, fiber.MethodPost, "/api/client", token, fiber.Map{
			"firstname": "A", "lastname": "B", "email": "a@b.com",
		})
		if status != http.StatusCreated {
			t.Fatalf("create %d: expected 201 got %d", i, status)
		}
	}

	status, first := doJSON(t, app, fiber.MethodGet, "/api/clients?page=1", token, nil)
	if status != http.StatusOK {
		t.Fatalf("list: expected 200 got %d", status)
	}
	var page struct {
		Items []json.RawMessage `json:"items"`
		Total int               `json:"total"`
		Pages int               `json:"pages"`
	}
	if err := json.Unmarshal(first, &page); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	if len(page.Items) != 4 || page.Total != 5 || page.Pages != 2 {
		t.Fatalf("unexpected page 1: items=%d total=%d pages=%d", len(page.Items), page.Total, page.Pages)
	}

	// A repeated read within the TTL is a cache hit and byte-identical.
	_, second := doJSON(t, app, fiber.MethodGet, "/api/clients?page=1", token, nil)
	if !bytes.Equal(first, second) {
		t.Fatalf("cache hit payload differs from first read")
	}

	status, payload := doJSON(t, app, fiber.MethodGet, "/api/clients?page=2", token, nil)
	if status != http.StatusOK {
		t.Fatalf("list page 2: expected 200 got %d", status)
	}
	if err := json.Unmarshal(payload, &page); err != nil {
		t.Fatalf("decode page 2: %v", err)
	}
	if len(page.Items) != 1 {
		t.Fatalf("expected 1 item on page 2, got %d", len(page.Items))
	}
}

func TestClientListNeverLeaksAcrossUsers(t *testing.T) {
	app := setupApp(t)
	_, aliceToken := registerAndLogin(t, app, "Alice", "alice@example.com")
	_, bobToken := registerAndLogin(t, app, "Bob", "bob@example.com")

	status, _ := doJSON(t, app, fiber.MethodPost, "/api/client", aliceToken, fiber.Map{
		"firstname": "A", "lastname": "B", "email": "a@b.com",
	})
	if status != http.StatusCreated {
		t.Fatalf("create: expected 201 got %d", status)
	}

	// Prime alice's cached list, then read as bob: the cache key embeds the
	// principal so bob must not observe alice's payload.
	if status, _ := doJSON(t, app, fiber.MethodGet, "/api/clients?page=1", aliceToken, nil); status != http.StatusOK {
		t.Fatalf("alice list: expected 200 got %d", status)
	}
	status, payload := doJSON(t, app, fiber.MethodGet, "/api/clients?page=1", bobToken, nil)
	if status != http.StatusOK {
		t.Fatalf("bob list: expected 200 got %d", status)
	}
	var page struct {
		Items []json.RawMessage `json:"items"`
		Total int               `json:"total"`
	}
	if err := json.Unmarshal(payload, &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(page.Items) != 0 || page.Total != 0 {
		t.Fatalf("bob observed alice's clients: %s", payload)
	}
}

func TestMobilesAreMembershipScoped(t *testing.T) {
	app := setupApp(t)
	_, aliceToken := registerAndLogin(t, app, "Alice", "alice@example.com")

	// The demo user is enrolled on the seeded catalog.
	status, payload := doJSON(t, app, fiber.MethodPost, "/api/login_check", "", fiber.Map{
		"username": DevUserEmail, "password": DevUserPassword,
	})
	if status != http.StatusOK {
		t.Fatalf("demo login: expected 200 got %d", status)
	}
	var login struct {
		Token string `json:"token"`
	}
	if err := json.Unmarshal(payload, &login); err != nil {
		t.Fatalf("decode demo login: %v", err)
	}

	status, payload = doJSON(t, app, fiber.MethodGet, "/api/mobiles?page=1", login.Token, nil)
	if status != http.StatusOK {
		t.Fatalf("demo mobiles list: expected 200 got %d", status)
	}
	var page struct {
		Items []struct {
			ID string `json:"id"`
		} `json:"items"`
		Total int `json:"total"`
	}
	if err := json.Unmarshal(payload, &page); err != nil {
		t.Fatalf("decode mobiles: %v", err)
	}
	if page.Total != 3 || len(page.Items) != 3 {
		t.Fatalf("expected 3 seeded mobiles, got total=%d items=%d", page.Total, len(page.Items))
	}
	mobileID := page.Items[0].ID

	if status, _ = doJSON(t, app, fiber.MethodGet, "/api/mobiles/"+mobileID, login.Token, nil); status != http.StatusOK {
		t.Fatalf("member detail: expected 200 got %d", status)
	}

	// Alice is not enrolled: denied even though the payload is cached.
	if status, _ = doJSON(t, app, fiber.MethodGet, "/api/mobiles/"+mobileID, aliceToken, nil); status != http.StatusForbidden {
		t.Fatalf("expected 403 for non-member, got %d", status)
	}

	status, payload = doJSON(t, app, fiber.MethodGet, "/api/mobiles?page=1", aliceToken, nil)
	if status != http.StatusOK {
		t.Fatalf("alice mobiles list: expected 200 got %d", status)
	}
	if err := json.Unmarshal(payload, &page); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(page.Items) != 0 {
		t.Fatalf("alice observed mobiles she is not enrolled on: %s", payload)
	}
}

func TestHealthzRespondsInMemoryMode(t *testing.T) {
	app := setupApp(t)

	status, _ := doJSON(t, app, fiber.MethodGet, "/healthz", "", nil)
	if status != http.StatusOK {
		t.Fatalf("expected 200 got %d", status)
	}
}
