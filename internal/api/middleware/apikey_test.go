package middleware

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/mira/feedhub/internal/apikeys"
	"github.com/mira/feedhub/internal/database/models"
	"github.com/mira/feedhub/internal/metrics"
	"github.com/mira/feedhub/internal/testutil"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testHMACSecret = "test-hmac-secret"

func newAPIKeyHandler(t *testing.T, db *gorm.DB) http.Handler {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	keys := apikeys.NewService(db, testHMACSecret, nil, logger)
	m := metrics.New(prometheus.NewRegistry())

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		org := GetOrganization(r.Context())
		if org == nil {
			http.Error(w, "no organization in context", http.StatusInternalServerError)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(org.Slug))
	})
	return APIKeyAuth(keys, m)(inner)
}

func seedKey(t *testing.T, db *gorm.DB, org *models.Organization) string {
	t.Helper()

	raw, err := apikeys.GenerateKey()
	require.NoError(t, err)
	testutil.CreateTestAPIKey(t, db, org, apikeys.HashKey([]byte(testHMACSecret), raw), true, nil)
	return raw
}

func TestAPIKeyAuth_MissingHeader(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	handler := newAPIKeyHandler(t, db)

	req := httptest.NewRequest("POST", "/api/identify", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Missing API key", body["error"])
}

func TestAPIKeyAuth_InvalidKey(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	handler := newAPIKeyHandler(t, db)

	unknown, err := apikeys.GenerateKey()
	require.NoError(t, err)

	req := httptest.NewRequest("POST", "/api/identify", nil)
	req.Header.Set("X-API-Key", unknown)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAPIKeyAuth_MalformedKey(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	handler := newAPIKeyHandler(t, db)

	req := httptest.NewRequest("POST", "/api/identify", nil)
	req.Header.Set("X-API-Key", "garbage")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Malformed API key", body["error"])
}

func TestAPIKeyAuth_ValidKeyResolvesOrganization(t *testing.T) {
	db := testutil.SetupTestDB(t)
	defer testutil.CleanupTestDB(t, db)
	handler := newAPIKeyHandler(t, db)

	org := testutil.CreateTestOrg(t, db, "acme")
	raw := seedKey(t, db, org)

	req := httptest.NewRequest("POST", "/api/identify", nil)
	req.Header.Set("X-API-Key", raw)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "acme", rec.Body.String())
}
