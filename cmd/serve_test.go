//go:build !integration

package main

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/starcasualty/popmatch/internal/model"
	"github.com/starcasualty/popmatch/internal/track"
)

func newRouterWithStore(t *testing.T) (http.Handler, track.Store) {
	t.Helper()
	st, err := track.NewSQLite(filepath.Join(t.TempDir(), "track.db"))
	require.NoError(t, err)
	require.NoError(t, st.Migrate(context.Background()))
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	return newStatusRouter(st, nil), st
}

func TestStatusRouter_Health(t *testing.T) {
	router, _ := newRouterWithStore(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Header().Get("Content-Type"), "application/json")

	var body map[string]string
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, "ok", body["status"])
}

func TestStatusRouter_RecordsEmpty(t *testing.T) {
	router, _ := newRouterWithStore(t)

	req := httptest.NewRequest(http.MethodGet, "/records", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "[]\n", rr.Body.String())
}

func TestStatusRouter_RecordsListAndFilter(t *testing.T) {
	router, st := newRouterWithStore(t)
	ctx := context.Background()

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	_, err := st.SetStatus(ctx, "SC001234", date, "/mnt/pop/SC001234.pdf", model.StatusProcessed, "MATCHED: all fields match")
	require.NoError(t, err)
	_, err = st.SetStatus(ctx, "SC005678", date, "/mnt/pop/SC005678.pdf", model.StatusFailed, "stage extract failed")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/records", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var records []model.TrackingRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &records))
	assert.Len(t, records, 2)

	req = httptest.NewRequest(http.MethodGet, "/records?status=FAILED", nil)
	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &records))
	require.Len(t, records, 1)
	assert.Equal(t, "SC005678", records[0].FileID)
}

func TestStatusRouter_RecordsBadStatus(t *testing.T) {
	router, _ := newRouterWithStore(t)

	req := httptest.NewRequest(http.MethodGet, "/records?status=DONE", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "unknown status")
}

func TestStatusRouter_RecordByFileID(t *testing.T) {
	router, st := newRouterWithStore(t)
	ctx := context.Background()

	date := time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)
	_, err := st.SetStatus(ctx, "SC001234", date, "/mnt/pop/SC001234.pdf", model.StatusProcessed, "MATCHED: all fields match")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/records/SC001234", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var record model.TrackingRecord
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &record))
	assert.Equal(t, "SC001234", record.FileID)
	assert.Equal(t, model.StatusProcessed, record.Status)
}

func TestStatusRouter_RecordNotFound(t *testing.T) {
	router, _ := newRouterWithStore(t)

	req := httptest.NewRequest(http.MethodGet, "/records/nope", nil)
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
}
