package bootstrap

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	gorillaWS "github.com/gorilla/websocket"

	"github.com/AlibekovAA/tasktrack/internal/common/config"
	"github.com/AlibekovAA/tasktrack/internal/common/logger"
	"github.com/AlibekovAA/tasktrack/internal/todo/domain"
	"github.com/AlibekovAA/tasktrack/internal/todo/events"
)

type envelope struct {
	Data    json.RawMessage `json:"data"`
	Success bool            `json:"success"`
	Code    string          `json:"code"`
	Error   string          `json:"error"`
}

type session struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	FullName string `json:"fullname"`
	Token    string `json:"token"`
}

func testConfig(t *testing.T) config.APIConfig {
	t.Helper()
	return config.APIConfig{
		HTTPPort:             "0",
		RequestTimeout:       5 * time.Second,
		StoreDriver:          config.StoreDriverSQLite,
		SQLitePath:           filepath.Join(t.TempDir(), "tasks.db"),
		JWTSecret:            "scenario-secret-key-at-least-32-bytes!!",
		BcryptCost:           4,
		LogLevel:             "error",
		CORSAllowedOrigins:   []string{"*"},
		RateLimitRPS:         1000,
		RateLimitBurst:       1000,
		AuthRateLimitRPS:     1000,
		AuthRateLimitBurst:   1000,
		WebSocketWriteWait:   time.Second,
		WebSocketPongWait:    time.Minute,
		WebSocketPingPeriod:  50 * time.Second,
		WebSocketSendBufSize: 16,
	}
}

func startApp(t *testing.T, cfg config.APIConfig) (*App, *httptest.Server) {
	t.Helper()
	log, _ := logger.New("", "test", cfg.LogLevel)
	app, err := NewApp(cfg, log)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	srv := httptest.NewServer(app.Handler)
	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = app.Shutdown(ctx)
		srv.Close()
		app.Close()
	})
	return app, srv
}

func call(t *testing.T, srv *httptest.Server, method, path, body, token string) (int, envelope) {
	t.Helper()
	req, err := http.NewRequest(method, srv.URL+path, bytes.NewBufferString(body))
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := srv.Client().Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		t.Fatalf("decode %s %s: %v", method, path, err)
	}
	return resp.StatusCode, env
}

func signup(t *testing.T, srv *httptest.Server, username, fullName string) session {
	t.Helper()
	body := `{"username":"` + username + `","password":"secret1","fullname":"` + fullName + `"}`
	status, env := call(t, srv, http.MethodPost, "/v1/auth/signup", body, "")
	if status != http.StatusCreated {
		t.Fatalf("signup %s: expected 201, got %d %s", username, status, env.Code)
	}
	var s session
	_ = json.Unmarshal(env.Data, &s)
	if s.Token == "" {
		t.Fatalf("signup %s: no token", username)
	}
	return s
}

func tasksOf(t *testing.T, srv *httptest.Server, token string) []domain.View {
	t.Helper()
	status, env := call(t, srv, http.MethodGet, "/v1/user/todo/my", "", token)
	if status != http.StatusOK {
		t.Fatalf("list: expected 200, got %d %s", status, env.Code)
	}
	var views []domain.View
	_ = json.Unmarshal(env.Data, &views)
	return views
}

func TestScenario_TwoUsersAreIsolated(t *testing.T) {
	_, srv := startApp(t, testConfig(t))

	alice := signup(t, srv, "alice", "Alice A")
	bob := signup(t, srv, "bob", "Bob B")

	status, env := call(t, srv, http.MethodPost, "/v1/user/todo/create",
		`{"title":"Buy milk","dueDate":"2025-01-10"}`, alice.Token)
	if status != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d %s", status, env.Code)
	}
	var created domain.View
	_ = json.Unmarshal(env.Data, &created)
	if created.Owner != alice.ID || created.Urgency != domain.UrgencyNormal || created.Completed {
		t.Errorf("unexpected created task %+v", created)
	}

	if got := tasksOf(t, srv, alice.Token); len(got) != 1 || got[0].ID != created.ID {
		t.Errorf("alice should see her one task, got %+v", got)
	}
	if got := tasksOf(t, srv, bob.Token); len(got) != 0 {
		t.Errorf("bob should see nothing, got %+v", got)
	}

	idBody := `{"id":"` + created.ID + `"}`
	for _, op := range []struct{ method, path, body string }{
		{http.MethodPatch, "/v1/user/todo/toggle", idBody},
		{http.MethodPut, "/v1/user/todo/update", `{"id":"` + created.ID + `","title":"Hijacked","dueDate":"2025-01-10"}`},
		{http.MethodDelete, "/v1/user/todo/delete", idBody},
	} {
		status, env := call(t, srv, op.method, op.path, op.body, bob.Token)
		if status != http.StatusNotFound || env.Code != "NOT_FOUND_OR_FORBIDDEN" {
			t.Errorf("bob %s: expected 404 NOT_FOUND_OR_FORBIDDEN, got %d %s", op.path, status, env.Code)
		}
	}

	status, env = call(t, srv, http.MethodPatch, "/v1/user/todo/toggle", idBody, alice.Token)
	if status != http.StatusOK {
		t.Fatalf("toggle: expected 200, got %d %s", status, env.Code)
	}
	var toggled domain.View
	_ = json.Unmarshal(env.Data, &toggled)
	if !toggled.Completed || toggled.Title != "Buy milk" {
		t.Errorf("bob's attempts must leave the task untouched, got %+v", toggled)
	}

	status, env = call(t, srv, http.MethodDelete, "/v1/user/todo/delete", idBody, alice.Token)
	if status != http.StatusOK || !env.Success {
		t.Fatalf("delete: expected 200 success, got %d %s", status, env.Code)
	}
	if got := tasksOf(t, srv, alice.Token); len(got) != 0 {
		t.Errorf("expected no tasks after delete, got %+v", got)
	}
	status, _ = call(t, srv, http.MethodDelete, "/v1/user/todo/delete", idBody, alice.Token)
	if status != http.StatusNotFound {
		t.Errorf("second delete: expected 404, got %d", status)
	}
}

func TestScenario_Credentials(t *testing.T) {
	_, srv := startApp(t, testConfig(t))
	alice := signup(t, srv, "alice", "Alice A")

	status, env := call(t, srv, http.MethodPost, "/v1/auth/signup",
		`{"username":"ALICE","password":"other12","fullname":"Imposter"}`, "")
	if status != http.StatusConflict || env.Code != "USERNAME_TAKEN" {
		t.Errorf("duplicate signup: expected 409 USERNAME_TAKEN, got %d %s", status, env.Code)
	}

	status, env = call(t, srv, http.MethodPost, "/v1/auth/login", `{"username":"alice","password":"secret1"}`, "")
	if status != http.StatusOK {
		t.Fatalf("login: expected 200, got %d %s", status, env.Code)
	}

	_, wrongPassword := call(t, srv, http.MethodPost, "/v1/auth/login", `{"username":"alice","password":"wrong12"}`, "")
	_, unknownUser := call(t, srv, http.MethodPost, "/v1/auth/login", `{"username":"nobody","password":"wrong12"}`, "")
	if wrongPassword.Code != "INVALID_CREDENTIALS" || wrongPassword.Error != unknownUser.Error || wrongPassword.Code != unknownUser.Code {
		t.Errorf("login failures must look alike, got %+v and %+v", wrongPassword, unknownUser)
	}

	status, env = call(t, srv, http.MethodGet, "/v1/auth/info", "", alice.Token)
	if status != http.StatusOK {
		t.Fatalf("info: expected 200, got %d %s", status, env.Code)
	}
	var profile session
	_ = json.Unmarshal(env.Data, &profile)
	if profile.ID != alice.ID || profile.FullName != "Alice A" || profile.Token != "" {
		t.Errorf("unexpected profile %+v", profile)
	}

	status, env = call(t, srv, http.MethodGet, "/v1/auth/info", "", alice.Token+"x")
	if status != http.StatusUnauthorized || env.Code != "UNAUTHORIZED" {
		t.Errorf("tampered token: expected 401 UNAUTHORIZED, got %d %s", status, env.Code)
	}
}

func TestScenario_HealthAndReadiness(t *testing.T) {
	_, srv := startApp(t, testConfig(t))

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := srv.Client().Get(srv.URL + path)
		if err != nil {
			t.Fatalf("%s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("%s: expected 200, got %d", path, resp.StatusCode)
		}
	}

	resp, err := srv.Client().Get(srv.URL + "/metrics")
	if err != nil {
		t.Fatalf("metrics: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Errorf("metrics: expected 200, got %d", resp.StatusCode)
	}
}

func TestScenario_EventFeed(t *testing.T) {
	app, srv := startApp(t, testConfig(t))
	alice := signup(t, srv, "alice", "Alice A")
	bob := signup(t, srv, "bob", "Bob B")

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/v1/user/todo/events"
	if _, resp, err := gorillaWS.DefaultDialer.Dial(wsURL, nil); err == nil {
		t.Fatal("feed must reject connections without a session")
	} else if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 handshake, got %v", resp)
	}

	connect := func(token string) *gorillaWS.Conn {
		conn, _, err := gorillaWS.DefaultDialer.Dial(wsURL, http.Header{"Authorization": {"Bearer " + token}})
		if err != nil {
			t.Fatalf("dial: %v", err)
		}
		t.Cleanup(func() { _ = conn.Close() })
		return conn
	}
	aliceConn := connect(alice.Token)
	bobConn := connect(bob.Token)

	deadline := time.Now().Add(2 * time.Second)
	for app.Hub.Connections(alice.ID) == 0 || app.Hub.Connections(bob.ID) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("feed clients never registered")
		}
		time.Sleep(5 * time.Millisecond)
	}

	status, env := call(t, srv, http.MethodPost, "/v1/user/todo/create",
		`{"title":"Water plants","urgency":"important","dueDate":"2025-03-01"}`, alice.Token)
	if status != http.StatusCreated {
		t.Fatalf("create: expected 201, got %d %s", status, env.Code)
	}

	_ = aliceConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var ev events.Event
	if err := aliceConn.ReadJSON(&ev); err != nil {
		t.Fatalf("alice read: %v", err)
	}
	if ev.Type != events.TypeCreated || ev.Task == nil || ev.Task.Title != "Water plants" {
		t.Errorf("unexpected event %+v", ev)
	}

	_ = bobConn.SetReadDeadline(time.Now().Add(200 * time.Millisecond))
	if err := bobConn.ReadJSON(&ev); err == nil {
		t.Errorf("bob must not receive alice's events, got %+v", ev)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := app.Shutdown(ctx); err != nil {
		t.Fatalf("shutdown: %v", err)
	}
	_ = aliceConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	if err := aliceConn.ReadJSON(&ev); err != nil {
		t.Fatalf("expected shutdown notice, got %v", err)
	}
	if ev.Type != events.TypeShutdown {
		t.Errorf("expected shutdown event, got %s", ev.Type)
	}
}

func TestOpenStore_UnknownDriver(t *testing.T) {
	cfg := testConfig(t)
	cfg.StoreDriver = "mongo"
	log, _ := logger.New("", "test", "error")
	if _, err := OpenStore(context.Background(), cfg, log); err == nil {
		t.Fatal("expected error for unknown driver")
	}
}
