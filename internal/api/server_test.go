package api

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"road-vision/internal/container"
	"road-vision/internal/domain/entity"
	"road-vision/internal/infrastructure/media"
	"road-vision/internal/infrastructure/storage"
)

type fakeBackend struct {
	detections []entity.RawDetection
}

func (b *fakeBackend) Detect(ctx context.Context, imageData []byte) ([]entity.RawDetection, error) {
	return b.detections, nil
}

func (b *fakeBackend) Render(imageData []byte, detections []entity.RawDetection) ([]byte, error) {
	return imageData, nil
}

func newTestServer(t *testing.T, backend *fakeBackend) (*Server, *storage.MemoryStore) {
	t.Helper()

	store := storage.NewMemoryStore()
	users := storage.NewMemoryUserRepository()
	ctx := context.Background()
	require.NoError(t, users.Save(ctx, &entity.User{ID: 1, Username: "resident"}))
	require.NoError(t, users.Save(ctx, &entity.User{ID: 2, Username: "inspector", IsWorker: true}))

	services := container.New(store, store, backend, backend, media.NewMemoryStore(), 0)
	return NewServer(services, users, t.TempDir(), ""), store
}

func doJSON(t *testing.T, server *Server, method, path, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-ID", userID)
	}
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)
	return rec
}

func createOperation(t *testing.T, store *storage.MemoryStore) uint {
	t.Helper()
	op, err := store.CreateOperation(context.Background())
	require.NoError(t, err)
	return op.ID
}

func TestServer_AuthenticationRequired(t *testing.T) {
	server, _ := newTestServer(t, &fakeBackend{})

	rec := doJSON(t, server, http.MethodGet, "/api/v1/reports", "", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestServer_CreateOperation(t *testing.T) {
	backend := &fakeBackend{detections: []entity.RawDetection{{ClassID: 3, Confidence: 0.91, X1: 1, Y1: 1, X2: 9, Y2: 9}}}
	server, _ := newTestServer(t, backend)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("longitude", "30.0"))
	require.NoError(t, writer.WriteField("latitude", "31.0"))
	part, err := writer.CreateFormFile("images", "road.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/operations", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-User-ID", "1")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		ID              uint `json:"id"`
		ProcessedImages int  `json:"processed_images"`
		Images          []struct {
			OriginalURL string  `json:"original_url"`
			OperatedURL *string `json:"operated_url"`
			Findings    []struct {
				DamageType        string `json:"damage_type"`
				DamageDescription string `json:"damage_description"`
			} `json:"findings"`
		} `json:"images"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotZero(t, resp.ID)
	require.Equal(t, 1, resp.ProcessedImages)
	require.Len(t, resp.Images, 1)
	require.True(t, strings.HasPrefix(resp.Images[0].OriginalURL, "http://"))
	require.NotNil(t, resp.Images[0].OperatedURL)
	require.Contains(t, *resp.Images[0].OperatedURL, "_labeled.jpg")
	require.Len(t, resp.Images[0].Findings, 1)
	require.Equal(t, "Pothole (D40)", resp.Images[0].Findings[0].DamageType)
	require.Equal(t, "Confidence: 0.91", resp.Images[0].Findings[0].DamageDescription)
}

func TestServer_CreateOperation_MissingCoordinates(t *testing.T) {
	server, _ := newTestServer(t, &fakeBackend{})

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("images", "road.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/operations", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	req.Header.Set("X-User-ID", "1")
	rec := httptest.NewRecorder()
	server.Handler().ServeHTTP(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestServer_SubmitReport(t *testing.T) {
	server, store := newTestServer(t, &fakeBackend{})
	opID := createOperation(t, store)

	rec := doJSON(t, server, http.MethodPost, "/api/v1/reports", "1",
		map[string]any{"operation_id": opID, "description": "pothole on main street"})
	require.Equal(t, http.StatusCreated, rec.Code)

	var resp struct {
		Status      string `json:"status"`
		OperationID uint   `json:"operation_id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Equal(t, "RECEIVED", resp.Status)
	require.Equal(t, opID, resp.OperationID)

	// Повторное обращение по той же операции отклоняется.
	rec = doJSON(t, server, http.MethodPost, "/api/v1/reports", "1",
		map[string]any{"operation_id": opID})
	require.Equal(t, http.StatusConflict, rec.Code)
}

func TestServer_SubmitReport_WorkerDenied(t *testing.T) {
	server, store := newTestServer(t, &fakeBackend{})
	opID := createOperation(t, store)

	rec := doJSON(t, server, http.MethodPost, "/api/v1/reports", "2",
		map[string]any{"operation_id": opID})
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestServer_UpdateReportStatus(t *testing.T) {
	server, store := newTestServer(t, &fakeBackend{})
	opID := createOperation(t, store)

	rec := doJSON(t, server, http.MethodPost, "/api/v1/reports", "1",
		map[string]any{"operation_id": opID})
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		ID uint `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	// Обычному пользователю смена статуса запрещена.
	rec = doJSON(t, server, http.MethodPatch, "/api/v1/reports/1/status", "1",
		map[string]any{"status": "PENDING"})
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, server, http.MethodPatch, "/api/v1/reports/1/status", "2",
		map[string]any{"status": "COMPLETED"})
	require.Equal(t, http.StatusOK, rec.Code)

	var change struct {
		OldStatus string `json:"old_status"`
		NewStatus string `json:"new_status"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &change))
	require.Equal(t, "RECEIVED", change.OldStatus)
	require.Equal(t, "COMPLETED", change.NewStatus)

	// Некорректный литерал статуса.
	rec = doJSON(t, server, http.MethodPatch, "/api/v1/reports/1/status", "2",
		map[string]any{"status": "DONE"})
	require.Equal(t, http.StatusBadRequest, rec.Code)

	// Неизвестное обращение.
	rec = doJSON(t, server, http.MethodPatch, "/api/v1/reports/404/status", "2",
		map[string]any{"status": "PENDING"})
	require.Equal(t, http.StatusNotFound, rec.Code)
}

func TestServer_DashboardStats(t *testing.T) {
	server, store := newTestServer(t, &fakeBackend{})

	for i := 0; i < 2; i++ {
		opID := createOperation(t, store)
		rec := doJSON(t, server, http.MethodPost, "/api/v1/reports", "1",
			map[string]any{"operation_id": opID})
		require.Equal(t, http.StatusCreated, rec.Code)
	}

	// Сводка доступна только работнику.
	rec := doJSON(t, server, http.MethodGet, "/api/v1/dashboard/stats", "1", nil)
	require.Equal(t, http.StatusForbidden, rec.Code)

	rec = doJSON(t, server, http.MethodGet, "/api/v1/dashboard/stats", "2", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats struct {
		Total    int64 `json:"total"`
		Received int64 `json:"received"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	require.Equal(t, int64(2), stats.Total)
	require.Equal(t, int64(2), stats.Received)
}

func TestServer_ListReportsScope(t *testing.T) {
	server, store := newTestServer(t, &fakeBackend{})

	opID := createOperation(t, store)
	rec := doJSON(t, server, http.MethodPost, "/api/v1/reports", "1",
		map[string]any{"operation_id": opID})
	require.Equal(t, http.StatusCreated, rec.Code)

	// Работник видит все обращения.
	rec = doJSON(t, server, http.MethodGet, "/api/v1/reports", "2", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var all []json.RawMessage
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &all))
	require.Len(t, all, 1)
}
