package http

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/anglvix/spotify-insight/internal/appcontext"
	"github.com/anglvix/spotify-insight/internal/utils"
)

// newTestContext wires an app context around a sqlmock connection so tests
// can script the exact queries a handler is expected to run.
func newTestContext(t *testing.T) (*appcontext.Context, sqlmock.Sqlmock) {
	t.Helper()

	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB, PreferSimpleProtocol: true}), &gorm.Config{
		Logger:                 logger.Default.LogMode(logger.Silent),
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	return &appcontext.Context{DB: db, Logger: zap.NewNop()}, mock
}

// newTestRouter returns an engine with the real templates loaded, so the
// HTML rendering paths run for real.
func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.LoadHTMLGlob("../../templates/*.html")
	return router
}

// authAs stores claims the way the auth middleware would.
func authAs(userID uuid.UUID) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("claims", &utils.Claims{UserID: userID.String()})
	}
}

func postForm(router *gin.Engine, target string, form url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func doGet(router *gin.Engine, target string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func userRows(id uuid.UUID, email, name, passwordHash, role string) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "name", "password_hash", "profile_picture", "role"}).
		AddRow(id.String(), email, name, passwordHash, "", role)
}

func datasetRows(id uuid.UUID, name, filePath string, trackCount int) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "name", "description", "file_path", "track_count"}).
		AddRow(id.String(), name, "", filePath, trackCount)
}

func idRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id"}).AddRow(uuid.New().String())
}
