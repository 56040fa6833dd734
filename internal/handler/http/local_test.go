package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MKhiriev/go-offline-sync/internal/logger"
	"github.com/MKhiriev/go-offline-sync/internal/mock"
	"github.com/MKhiriev/go-offline-sync/internal/service"
	"github.com/MKhiriev/go-offline-sync/internal/store"
	"github.com/MKhiriev/go-offline-sync/models"
)

func newLocalRouter(t *testing.T) (*mock.MockEngine, http.Handler) {
	t.Helper()
	engine := mock.NewMockEngine(gomock.NewController(t))
	return engine, NewLocalHandler(engine, logger.Nop()).InitLocal()
}

func serve(router http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestSaveData(t *testing.T) {
	t.Run("saves with options", func(t *testing.T) {
		engine, router := newLocalRouter(t)
		saved := models.Record{
			Collection: models.CollectionAppData,
			Key:        "k1",
			Payload:    json.RawMessage(`{"a":1}`),
			Offline:    true,
		}
		engine.EXPECT().
			SaveData(gomock.Any(), models.CollectionAppData, gomock.Any(), models.SaveOptions{
				Key:      "k1",
				Category: "profile",
				Priority: models.PriorityHigh,
			}).
			DoAndReturn(func(_, _, payload, _ any) (models.Record, error) {
				assert.JSONEq(t, `{"a":1}`, string(payload.([]byte)))
				return saved, nil
			})

		rec := serve(router, http.MethodPut, "/api/data/app_data",
			`{"key":"k1","category":"profile","priority":2,"payload":{"a":1}}`)

		require.Equal(t, http.StatusOK, rec.Code)
		var got models.Record
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "k1", got.Key)
		assert.True(t, got.Offline)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, router := newLocalRouter(t)

		rec := serve(router, http.MethodPut, "/api/data/app_data", `{"payload":{},"extra":1}`)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("storage full", func(t *testing.T) {
		engine, router := newLocalRouter(t)
		engine.EXPECT().
			SaveData(gomock.Any(), models.CollectionAppData, gomock.Any(), gomock.Any()).
			Return(models.Record{}, fmt.Errorf("%w: %w", store.ErrStorageFailure, store.ErrStorageFull))

		rec := serve(router, http.MethodPut, "/api/data/app_data", `{"payload":{}}`)

		assert.Equal(t, http.StatusInsufficientStorage, rec.Code)
	})
}

func TestLoadData(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		engine, router := newLocalRouter(t)
		engine.EXPECT().
			LoadData(gomock.Any(), models.CollectionSettings, models.Query{Key: "theme", Category: "ui"}).
			Return([]models.Record{{Collection: models.CollectionSettings, Key: "theme", Payload: json.RawMessage(`1`)}}, nil)

		rec := serve(router, http.MethodGet, "/api/data/settings/theme?category=ui", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var got models.Record
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, "theme", got.Key)
	})

	t.Run("empty result", func(t *testing.T) {
		engine, router := newLocalRouter(t)
		engine.EXPECT().LoadData(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, nil)

		rec := serve(router, http.MethodGet, "/api/data/settings/theme", "")

		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("offline without local copy", func(t *testing.T) {
		engine, router := newLocalRouter(t)
		engine.EXPECT().
			LoadData(gomock.Any(), gomock.Any(), gomock.Any()).
			Return(nil, fmt.Errorf("load: %w", service.ErrOffline))

		rec := serve(router, http.MethodGet, "/api/data/settings/theme", "")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestListData(t *testing.T) {
	engine, router := newLocalRouter(t)
	engine.EXPECT().
		LoadData(gomock.Any(), models.CollectionHistory, gomock.Any()).
		DoAndReturn(func(_, _, q any) ([]models.Record, error) {
			query := q.(models.Query)
			assert.Equal(t, 2, query.Limit)
			assert.True(t, query.Descending)
			return nil, nil
		})

	rec := serve(router, http.MethodGet, "/api/data/history?limit=2&order=desc", "")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, rec.Body.String())
}

func TestParseListQuery(t *testing.T) {
	since := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)

	t.Run("all filters", func(t *testing.T) {
		r := httptest.NewRequest(http.MethodGet,
			"/api/data/history?category=calc&since=2026-03-01T00:00:00Z&synced=false&limit=10&order=desc", nil)

		q, err := parseListQuery(r)

		require.NoError(t, err)
		assert.Equal(t, "calc", q.Category)
		require.NotNil(t, q.Since)
		assert.True(t, since.Equal(*q.Since))
		assert.Nil(t, q.Until)
		require.NotNil(t, q.Synced)
		assert.False(t, *q.Synced)
		assert.Equal(t, 10, q.Limit)
		assert.True(t, q.Descending)
	})

	for _, raw := range []string{"since=yesterday", "synced=maybe", "limit=-1", "limit=x"} {
		t.Run(raw, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/api/data/history?"+raw, nil)

			_, err := parseListQuery(r)

			assert.ErrorIs(t, err, ErrInvalidQuery)
		})
	}
}

func TestDeleteData(t *testing.T) {
	engine, router := newLocalRouter(t)
	engine.EXPECT().DeleteData(gomock.Any(), models.CollectionAppData, "k1").Return(nil)

	rec := serve(router, http.MethodDelete, "/api/data/app_data/k1", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestClearOfflineData(t *testing.T) {
	engine, router := newLocalRouter(t)
	engine.EXPECT().ClearOfflineData(gomock.Any()).Return(nil)

	rec := serve(router, http.MethodDelete, "/api/data", "")

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestOfflineStatus(t *testing.T) {
	engine, router := newLocalRouter(t)
	engine.EXPECT().GetOfflineStatus(gomock.Any()).Return(models.OfflineStatus{
		IsOnline:  false,
		QueueSize: 3,
	}, nil)

	rec := serve(router, http.MethodGet, "/api/status", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var got models.OfflineStatus
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
	assert.False(t, got.IsOnline)
	assert.Equal(t, 3, got.QueueSize)
}

func TestForceSync(t *testing.T) {
	t.Run("drained", func(t *testing.T) {
		engine, router := newLocalRouter(t)
		engine.EXPECT().ForceSyncAll(gomock.Any()).Return(models.SyncReport{Attempted: 2, Succeeded: 2}, nil)

		rec := serve(router, http.MethodPost, "/api/sync", "")

		require.Equal(t, http.StatusOK, rec.Code)
		var got models.SyncReport
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
		assert.Equal(t, 2, got.Succeeded)
	})

	t.Run("offline", func(t *testing.T) {
		engine, router := newLocalRouter(t)
		engine.EXPECT().ForceSyncAll(gomock.Any()).Return(models.SyncReport{}, service.ErrOffline)

		rec := serve(router, http.MethodPost, "/api/sync", "")

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}
