package routes

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/PMark-est/catshelp/config"
	"github.com/PMark-est/catshelp/google"
	"github.com/PMark-est/catshelp/models"
	"github.com/PMark-est/catshelp/services"
	"github.com/PMark-est/catshelp/utils"
)

type stubAppender struct{ rows [][]any }

func (s *stubAppender) Append(ctx context.Context, spreadsheetID, rng string, values []any) error {
	s.rows = append(s.rows, values)
	return nil
}

type stubUploader struct{ uploads []string }

func (s *stubUploader) CreateFolder(ctx context.Context, name string) (string, error) {
	return "folder-1", nil
}

func (s *stubUploader) Upload(ctx context.Context, folderID, name, mimeType string, r io.Reader) (string, error) {
	s.uploads = append(s.uploads, name)
	return "file-" + name, nil
}

type stubGrid struct{}

func (stubGrid) Grid(ctx context.Context, spreadsheetID string, ranges []string) (*google.Spreadsheet, error) {
	return &google.Spreadsheet{}, nil
}

type stubMedia struct{}

func (stubMedia) Download(ctx context.Context, fileID string) (io.ReadCloser, error) {
	return io.NopCloser(strings.NewReader("")), nil
}

type routerEnv struct {
	handler  http.Handler
	db       *gorm.DB
	appender *stubAppender
	uploader *stubUploader
}

func newTestRouter(t *testing.T) *routerEnv {
	t.Helper()

	publicDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(publicDir, "index.html"), []byte("<html>catshelp</html>"), 0o644))

	config.SetForTesting(config.AppConfig{
		JWTSecret:          "test-secret",
		BaseURL:            "http://localhost:8080",
		PublicDir:          publicDir,
		AllowedOrigins:     []string{"*"},
		RateLimitPerMinute: 1000,
		AwaitUploads:       true,
		GinMode:            "test",
		GinPath:            filepath.Join(t.TempDir(), "gin.log"),
		LogLevel:           "info",
		LogMaxSizeMB:       1,
		LogMaxBackups:      1,
		LogMaxAgeDays:      1,
	})

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	require.NoError(t, db.AutoMigrate(&models.Animal{}, &models.AnimalRescue{}, &models.AnimalToAnimalRescue{}))

	appender := &stubAppender{}
	uploader := &stubUploader{}
	svc := Services{
		Intake:    services.NewIntakeService(db, appender, "sheet-id", "HOIUKODUDES"),
		Photos:    services.NewPhotoService(uploader, true),
		Dashboard: services.NewDashboardService(stubGrid{}, stubMedia{}, "sheet-id", "HOIUKODUDES", "Mari Oks", publicDir),
	}

	return &routerEnv{handler: SetupRouter(db, svc), db: db, appender: appender, uploader: uploader}
}

func (e *routerEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.handler.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	env := newTestRouter(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
}

func TestIntakeAndProfileFlow(t *testing.T) {
	env := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/animals",
		strings.NewReader(`{"kassi_nimi":"Miisu","leidmis_kp":"2024-12-01"}`))
	req.Header.Set("Content-Type", "application/json")
	w := env.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"id"`)
	assert.Len(t, env.appender.rows, 1)

	w = env.do(httptest.NewRequest(http.MethodGet, "/api/animals/1", nil))
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"animal"`)
	assert.Contains(t, w.Body.String(), `"rescues"`)

	w = env.do(httptest.NewRequest(http.MethodGet, "/api/animals/999", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateAnimalRequiresAuth(t *testing.T) {
	env := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/animals", strings.NewReader(`{"kassi_nimi":"Miisu"}`))
	req.Header.Set("Content-Type", "application/json")
	require.Equal(t, http.StatusOK, env.do(req).Code)

	update := func(auth string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodPut, "/api/animals/1",
			strings.NewReader(`{"name":"Miisu","status":"hoiukodus"}`))
		req.Header.Set("Content-Type", "application/json")
		if auth != "" {
			req.Header.Set("Authorization", auth)
		}
		return env.do(req)
	}

	assert.Equal(t, http.StatusUnauthorized, update("").Code)
	assert.Equal(t, http.StatusUnauthorized, update("Bearer not.a.token").Code)

	token, err := utils.GenerateLoginToken(7, "mari@catshelp.ee", 15*time.Minute)
	require.NoError(t, err)
	w := update("Bearer " + token)
	require.Equal(t, http.StatusOK, w.Code)

	var animal models.Animal
	require.NoError(t, env.db.First(&animal, 1).Error)
	require.NotNil(t, animal.Name)
	assert.Equal(t, "Miisu", *animal.Name)
}

func TestPhotoUploadFlow(t *testing.T) {
	env := newTestRouter(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	part, err := mw.CreateFormFile("images", "pilt.jpg")
	require.NoError(t, err)
	_, err = part.Write([]byte("jpeg-bytes"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/pilt/lisa", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Cat-Name", "Miisu")
	w := env.do(req)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Pildid laeti üles edukalt")
	assert.Equal(t, []string{"pilt.jpg"}, env.uploader.uploads)
}

func TestPhotoUploadRequiresCatName(t *testing.T) {
	env := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/pilt/lisa", nil)
	w := env.do(req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Cat-Name")
}

func TestUnknownAPIRouteIs404(t *testing.T) {
	env := newTestRouter(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/api/nope", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "api route not found")
}

func TestPageRoutesFallBackToSPA(t *testing.T) {
	env := newTestRouter(t)

	w := env.do(httptest.NewRequest(http.MethodGet, "/dashboard", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "catshelp")
}
