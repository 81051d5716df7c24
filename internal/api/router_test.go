package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/nadiaputeri/campuscore/internal/app"
	iauth "github.com/nadiaputeri/campuscore/internal/auth"
	"github.com/nadiaputeri/campuscore/internal/cache"
	"github.com/nadiaputeri/campuscore/internal/database/testutil"
	"github.com/nadiaputeri/campuscore/internal/storage"
)

type routerFixture struct {
	engine *gin.Engine
	token  string
}

func newRouterFixture(t *testing.T) routerFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)

	db := testutil.MustOpenTestDB(t, testutil.WithAutoMigrate())
	store := cache.NewDatabaseStore(db)

	jwtSvc, err := iauth.NewJWTService(iauth.JWTConfig{
		Secret:         "test-secret",
		Issuer:         "campuscore",
		AccessTokenTTL: time.Hour,
	})
	require.NoError(t, err)

	signer, err := storage.NewLocalSigner("https://campus.example/files", "signing-secret")
	require.NoError(t, err)

	cfg := &app.Config{}
	cfg.Monitoring.Prometheus.Enabled = true
	cfg.Monitoring.Prometheus.Endpoint = "/metrics"
	cfg.Storage.Local.Directory = t.TempDir()

	engine, err := NewRouter(db, store, jwtSvc, signer, cfg)
	require.NoError(t, err)

	token, err := jwtSvc.GenerateAccessToken(iauth.AccessTokenInput{
		UserID: "admin-1",
		Role:   "admin",
	})
	require.NoError(t, err)

	return routerFixture{engine: engine, token: token}
}

func (fx routerFixture) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+fx.token)

	w := httptest.NewRecorder()
	fx.engine.ServeHTTP(w, req)
	return w
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, dest any) {
	t.Helper()

	var envelope struct {
		Success bool            `json:"success"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.True(t, envelope.Success, w.Body.String())
	require.NoError(t, json.Unmarshal(envelope.Data, dest))
}

func TestRouterRejectsAnonymousAPIAccess(t *testing.T) {
	fx := newRouterFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/schools", nil)
	w := httptest.NewRecorder()
	fx.engine.ServeHTTP(w, req)
	require.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouterHealthAndMetricsArePublic(t *testing.T) {
	fx := newRouterFixture(t)

	w := httptest.NewRecorder()
	fx.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, w.Code)
	require.Contains(t, w.Body.String(), `"database":"ok"`)

	w = httptest.NewRecorder()
	fx.engine.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, w.Code)
}

func TestRouterEndToEndTimetableFlow(t *testing.T) {
	fx := newRouterFixture(t)

	var school struct {
		ID string `json:"id"`
	}
	w := fx.do(t, http.MethodPost, "/api/schools", gin.H{
		"name": "SMA Negeri 3",
		"slug": "sman-3",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	decodeData(t, w, &school)

	var year struct {
		ID string `json:"id"`
	}
	w = fx.do(t, http.MethodPost, fmt.Sprintf("/api/schools/%s/years", school.ID), gin.H{
		"label":  "2025/2026",
		"active": true,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	decodeData(t, w, &year)

	var teacher struct {
		ID string `json:"id"`
	}
	w = fx.do(t, http.MethodPost, fmt.Sprintf("/api/schools/%s/teachers", school.ID), gin.H{
		"name":  "Pak Budi",
		"email": "budi@example.com",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	decodeData(t, w, &teacher)

	var subject struct {
		ID string `json:"id"`
	}
	w = fx.do(t, http.MethodPost, fmt.Sprintf("/api/schools/%s/subjects", school.ID), gin.H{
		"code": "MAT",
		"name": "Matematika",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	decodeData(t, w, &subject)

	var sectionA, sectionB struct {
		ID string `json:"id"`
	}
	w = fx.do(t, http.MethodPost, fmt.Sprintf("/api/schools/%s/sections", school.ID), gin.H{
		"academic_year_id": year.ID,
		"name":             "7A",
		"grade_level":      7,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	decodeData(t, w, &sectionA)

	w = fx.do(t, http.MethodPost, fmt.Sprintf("/api/schools/%s/sections", school.ID), gin.H{
		"academic_year_id": year.ID,
		"name":             "7B",
		"grade_level":      7,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	decodeData(t, w, &sectionB)

	// Commit 7A's timetable.
	w = fx.do(t, http.MethodPut, fmt.Sprintf("/api/sections/%s/timetable", sectionA.ID), gin.H{
		"academic_year_id": year.ID,
		"assignments": []gin.H{
			{"day_of_week": 1, "slot_id": "p1", "subject_id": subject.ID, "teacher_id": teacher.ID},
		},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	// 7B proposing the same teacher in the same slot is rejected with 409.
	w = fx.do(t, http.MethodPut, fmt.Sprintf("/api/sections/%s/timetable", sectionB.ID), gin.H{
		"academic_year_id": year.ID,
		"assignments": []gin.H{
			{"day_of_week": 1, "slot_id": "p1", "subject_id": subject.ID, "teacher_id": teacher.ID},
		},
	})
	require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	require.Contains(t, w.Body.String(), "7A")

	// The committed timetable reads back through the cached view.
	w = fx.do(t, http.MethodGet, fmt.Sprintf("/api/sections/%s/timetable?year=%s", sectionA.ID, year.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Contains(t, w.Body.String(), "p1")
}

func TestRouterDocumentAccessFlow(t *testing.T) {
	fx := newRouterFixture(t)

	var school struct {
		ID string `json:"id"`
	}
	w := fx.do(t, http.MethodPost, "/api/schools", gin.H{"name": "SMA Negeri 4", "slug": "sman-4"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	decodeData(t, w, &school)

	var doc struct {
		ID string `json:"id"`
	}
	w = fx.do(t, http.MethodPost, fmt.Sprintf("/api/schools/%s/documents", school.ID), gin.H{
		"owner_id":    "student-9",
		"category":    "report_card",
		"storage_key": "docs/report-9.pdf",
		"file_name":   "report-9.pdf",
		"mime_type":   "application/pdf",
		"size_bytes":  1024,
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	decodeData(t, w, &doc)

	var grant struct {
		URL       string `json:"url"`
		ExpiresIn int64  `json:"expires_in"`
	}
	w = fx.do(t, http.MethodPost, fmt.Sprintf("/api/documents/%s/access", doc.ID), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	decodeData(t, w, &grant)
	require.Contains(t, grant.URL, "sig=")
	require.Equal(t, int64(600), grant.ExpiresIn) // admin TTL
}
