package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/dakflow/dakflow/internal/app"
	"github.com/dakflow/dakflow/internal/repository"
	"github.com/dakflow/dakflow/internal/routes"
	"github.com/dakflow/dakflow/internal/service"
	"github.com/dakflow/dakflow/internal/storage"
	"github.com/dakflow/dakflow/internal/testhelpers"
	"github.com/stretchr/testify/require"
)

type testAPI struct {
	server   *httptest.Server
	provider *testhelpers.FakeMailProvider
}

func newTestAPI(t *testing.T) *testAPI {
	t.Helper()

	db := testhelpers.NewDB(t)
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	provider := &testhelpers.FakeMailProvider{}

	a := &app.App{
		AuthService: service.NewAuthService(
			repository.NewUserRepository(db),
			repository.NewTokenRepository(db),
			"test-secret",
			time.Hour,
			24*time.Hour,
		),
		FileService: service.NewFileService(
			repository.NewFileRepository(db),
			repository.NewStatusHistoryRepository(db),
			store,
		),
		EmailService: service.NewEmailService(
			repository.NewEmailThreadRepository(db),
			provider,
			"noreply@example.com",
			"DAK <onboarding@example.com>",
			5*time.Second,
		),
		DepartmentService: service.NewDepartmentService(
			repository.NewDepartmentRepository(db),
		),
	}

	server := httptest.NewServer(routes.SetupRoutes(a))
	t.Cleanup(server.Close)

	return &testAPI{server: server, provider: provider}
}

func (api *testAPI) do(t *testing.T, method, path, token string, body any) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequest(method, api.server.URL+path, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	decoded := map[string]any{}
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded))
	}

	return resp.StatusCode, decoded
}

func (api *testAPI) doList(t *testing.T, path, token string) (int, []map[string]any) {
	t.Helper()

	req, err := http.NewRequest(http.MethodGet, api.server.URL+path, nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()

	var decoded []map[string]any
	if resp.StatusCode == http.StatusOK {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&decoded))
	}

	return resp.StatusCode, decoded
}

func (api *testAPI) register(t *testing.T, email string) string {
	t.Helper()

	status, body := api.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
		"email":    email,
		"password": "long-enough-password",
	})
	require.Equal(t, http.StatusOK, status)
	token, _ := body["access"].(string)
	require.NotEmpty(t, token)
	return token
}

func TestAPI_AuthFlow(t *testing.T) {
	api := newTestAPI(t)

	token := api.register(t, "u1@example.com")

	status, body := api.do(t, http.MethodGet, "/api/auth/me", token, nil)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "u1@example.com", body["email"])

	t.Run("duplicate registration conflicts", func(t *testing.T) {
		status, _ := api.do(t, http.MethodPost, "/api/auth/register", "", map[string]string{
			"email":    "u1@example.com",
			"password": "long-enough-password",
		})
		require.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("no token", func(t *testing.T) {
		status, _ := api.do(t, http.MethodGet, "/api/auth/me", "", nil)
		require.Equal(t, http.StatusUnauthorized, status)
	})

	t.Run("garbage token", func(t *testing.T) {
		status, _ := api.do(t, http.MethodGet, "/api/auth/me", "not-a-jwt", nil)
		require.Equal(t, http.StatusUnauthorized, status)
	})
}

func TestAPI_FileLifecycle(t *testing.T) {
	api := newTestAPI(t)
	u1 := api.register(t, "u1@example.com")
	u2 := api.register(t, "u2@example.com")

	status, created := api.do(t, http.MethodPost, "/api/files", u1, map[string]any{
		"file_number": "DAK-2026-100",
		"title":       "Budget approval",
		"type":        "Letter",
		"department":  "Accounts",
		"date":        "2026-08-01",
	})
	require.Equal(t, http.StatusCreated, status)
	fileID, _ := created["id"].(string)
	require.NotEmpty(t, fileID)
	require.Equal(t, "Pending", created["status"])

	status, entry := api.do(t, http.MethodPost, fmt.Sprintf("/api/files/%s/update-status", fileID), u1, map[string]string{
		"status": "Approved",
		"reason": "ok",
	})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "Approved", entry["status"])
	require.Equal(t, "ok", entry["reason"])

	t.Run("history newest first as owner", func(t *testing.T) {
		status, entries := api.doList(t, fmt.Sprintf("/api/files/%s/history", fileID), u1)
		require.Equal(t, http.StatusOK, status)
		require.Len(t, entries, 2)
		require.Equal(t, "Approved", entries[0]["status"])
		require.Equal(t, "Pending", entries[1]["status"])
	})

	t.Run("history as another user is not found", func(t *testing.T) {
		status, _ := api.doList(t, fmt.Sprintf("/api/files/%s/history", fileID), u2)
		require.Equal(t, http.StatusNotFound, status)
	})

	t.Run("missing status is a 400", func(t *testing.T) {
		status, _ := api.do(t, http.MethodPost, fmt.Sprintf("/api/files/%s/update-status", fileID), u1, map[string]string{
			"reason": "no status",
		})
		require.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("listing is owner scoped", func(t *testing.T) {
		status, files := api.doList(t, "/api/files", u2)
		require.Equal(t, http.StatusOK, status)
		require.Empty(t, files)
	})
}

func TestAPI_SendEmail(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "u1@example.com")

	status, body := api.do(t, http.MethodPost, "/api/send-email", token, map[string]string{
		"recipientEmail": "a@b.com",
		"subject":        "S",
		"messageBody":    "B",
	})
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, true, body["success"])

	t.Run("missing recipient is a 400", func(t *testing.T) {
		status, _ := api.do(t, http.MethodPost, "/api/send-email", token, map[string]string{
			"subject":     "S",
			"messageBody": "B",
		})
		require.Equal(t, http.StatusBadRequest, status)
	})

	t.Run("delivery failure reports 500 with a structured body", func(t *testing.T) {
		api.provider.Err = fmt.Errorf("connection refused")

		status, body := api.do(t, http.MethodPost, "/api/send-email", token, map[string]string{
			"recipientEmail": "a@b.com",
			"subject":        "S",
			"messageBody":    "B",
		})
		require.Equal(t, http.StatusInternalServerError, status)
		require.Equal(t, false, body["success"])
		require.Contains(t, body["error"], "connection refused")
	})
}

func TestAPI_Upload(t *testing.T) {
	api := newTestAPI(t)
	token := api.register(t, "u1@example.com")

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", "scan.png")
	require.NoError(t, err)
	// Minimal PNG signature so content sniffing passes
	_, err = part.Write([]byte("\x89PNG\r\n\x1a\noverlaid-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req, err := http.NewRequest(http.MethodPost, api.server.URL+"/api/files/upload", &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer func() { _ = resp.Body.Close() }()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.NotEmpty(t, body["storage_path"])

	t.Run("missing part is a 400", func(t *testing.T) {
		status, _ := api.do(t, http.MethodPost, "/api/files/upload", token, nil)
		require.Equal(t, http.StatusBadRequest, status)
	})
}
