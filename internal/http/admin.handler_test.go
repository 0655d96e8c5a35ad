package http

import (
	"bytes"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"os"
	"path/filepath"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/anglvix/spotify-insight/internal/appcontext"
	"github.com/anglvix/spotify-insight/internal/entity"
)

func adminRouter(t *testing.T, ctx *appcontext.Context, actorID uuid.UUID) *gin.Engine {
	t.Helper()
	router := newTestRouter(t)
	admin := router.Group("/admin", authAs(actorID))
	admin.POST("/users", AdminCreateUser(ctx))
	admin.POST("/users/:userID/promote", AdminPromoteUser(ctx))
	admin.POST("/users/:userID/demote", AdminDemoteUser(ctx))
	admin.POST("/users/:userID/delete", AdminDeleteUser(ctx))
	admin.POST("/categories", AdminCreateCategory(ctx))
	admin.POST("/categories/:categoryID/delete", AdminDeleteCategory(ctx))
	admin.POST("/datasets", AdminUploadDataset(ctx))
	return router
}

func TestAdminPromoteUser(t *testing.T) {
	ctx, mock := newTestContext(t)
	actorID := uuid.New()
	targetID := uuid.New()
	router := adminRouter(t, ctx, actorID)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WithArgs(targetID.String(), 1).
		WillReturnRows(userRows(targetID, "bob@example.com", "Bob", "", entity.RoleUser))
	mock.ExpectExec(`UPDATE "users" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "notifications"`).
		WillReturnRows(idRows())
	mock.ExpectQuery(`INSERT INTO "audit_entries"`).
		WillReturnRows(idRows())

	w := postForm(router, "/admin/users/"+targetID.String()+"/promote", nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/admin", w.Header().Get("Location"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminPromoteUserAlreadyAdmin(t *testing.T) {
	ctx, mock := newTestContext(t)
	actorID := uuid.New()
	targetID := uuid.New()
	router := adminRouter(t, ctx, actorID)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(userRows(targetID, "bob@example.com", "Bob", "", entity.RoleAdmin))

	w := postForm(router, "/admin/users/"+targetID.String()+"/promote", nil)

	// Nothing to do, no writes expected.
	assert.Equal(t, http.StatusFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminDemoteUser(t *testing.T) {
	ctx, mock := newTestContext(t)
	actorID := uuid.New()
	targetID := uuid.New()
	router := adminRouter(t, ctx, actorID)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(userRows(targetID, "bob@example.com", "Bob", "", entity.RoleAdmin))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WithArgs(entity.RoleAdmin).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	mock.ExpectExec(`UPDATE "users" SET`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "notifications"`).
		WillReturnRows(idRows())
	mock.ExpectQuery(`INSERT INTO "audit_entries"`).
		WillReturnRows(idRows())

	w := postForm(router, "/admin/users/"+targetID.String()+"/demote", nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminDemoteLastAdmin(t *testing.T) {
	ctx, mock := newTestContext(t)
	actorID := uuid.New()
	router := adminRouter(t, ctx, actorID)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(userRows(actorID, "solo@example.com", "Solo", "", entity.RoleAdmin))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WithArgs(entity.RoleAdmin).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	w := postForm(router, "/admin/users/"+actorID.String()+"/demote", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "last administrator")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminDeleteUser(t *testing.T) {
	ctx, mock := newTestContext(t)
	actorID := uuid.New()
	targetID := uuid.New()
	router := adminRouter(t, ctx, actorID)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(userRows(targetID, "bob@example.com", "Bob", "", entity.RoleUser))
	mock.ExpectExec(`DELETE FROM "favourites" WHERE user_id = \$1`).
		WithArgs(targetID.String()).
		WillReturnResult(sqlmock.NewResult(0, 3))
	mock.ExpectExec(`DELETE FROM "comments" WHERE author_id = \$1`).
		WithArgs(targetID.String()).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "notifications" WHERE recipient_id = \$1`).
		WithArgs(targetID.String()).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM "users" WHERE "users"\."id" = \$1`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectQuery(`INSERT INTO "audit_entries"`).
		WillReturnRows(idRows())

	w := postForm(router, "/admin/users/"+targetID.String()+"/delete", nil)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminDeleteOwnAccount(t *testing.T) {
	ctx, mock := newTestContext(t)
	actorID := uuid.New()
	router := adminRouter(t, ctx, actorID)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(userRows(actorID, "me@example.com", "Me", "", entity.RoleAdmin))

	w := postForm(router, "/admin/users/"+actorID.String()+"/delete", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "your own account")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminDeleteLastAdmin(t *testing.T) {
	ctx, mock := newTestContext(t)
	actorID := uuid.New()
	targetID := uuid.New()
	router := adminRouter(t, ctx, actorID)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(userRows(targetID, "solo@example.com", "Solo", "", entity.RoleAdmin))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "users"`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	w := postForm(router, "/admin/users/"+targetID.String()+"/delete", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "last administrator")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminDeleteUserNotFound(t *testing.T) {
	ctx, mock := newTestContext(t)
	router := adminRouter(t, ctx, uuid.New())

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnError(gorm.ErrRecordNotFound)

	w := postForm(router, "/admin/users/"+uuid.NewString()+"/delete", nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAdminCreateUser(t *testing.T) {
	t.Setenv("SENDGRID_API_KEY", "")

	ctx, mock := newTestContext(t)
	actorID := uuid.New()
	router := adminRouter(t, ctx, actorID)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WillReturnRows(userRows(actorID, "admin@example.com", "Admin", "", entity.RoleAdmin))
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WithArgs("new@example.com", 1).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(idRows())
	mock.ExpectQuery(`INSERT INTO "notifications"`).
		WillReturnRows(idRows())
	mock.ExpectQuery(`INSERT INTO "audit_entries"`).
		WillReturnRows(idRows())

	w := postForm(router, "/admin/users", url.Values{
		"name":     {"New User"},
		"email":    {"new@example.com"},
		"password": {"longenough"},
		"role":     {"user"},
	})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminCreateCategory(t *testing.T) {
	ctx, mock := newTestContext(t)
	router := adminRouter(t, ctx, uuid.New())

	mock.ExpectQuery(`SELECT \* FROM "categories" WHERE name = \$1`).
		WithArgs("Jazz", 1).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectQuery(`INSERT INTO "categories"`).
		WillReturnRows(idRows())
	mock.ExpectQuery(`INSERT INTO "audit_entries"`).
		WillReturnRows(idRows())

	w := postForm(router, "/admin/categories", url.Values{"name": {"Jazz"}})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminDeleteCategoryWithDatasets(t *testing.T) {
	ctx, mock := newTestContext(t)
	router := adminRouter(t, ctx, uuid.New())
	categoryID := uuid.New()

	mock.ExpectQuery(`SELECT \* FROM "categories" WHERE id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description"}).
			AddRow(categoryID.String(), "Jazz", ""))
	mock.ExpectQuery(`SELECT count\(\*\) FROM "datasets"`).
		WithArgs(categoryID.String()).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	w := postForm(router, "/admin/categories/"+categoryID.String()+"/delete", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "still has datasets")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminUploadDatasetRejectsNonCSV(t *testing.T) {
	ctx, mock := newTestContext(t)
	ctx.DatasetsDir = t.TempDir()
	router := adminRouter(t, ctx, uuid.New())

	mock.ExpectQuery(`SELECT \* FROM "datasets" WHERE name = \$1`).
		WillReturnError(gorm.ErrRecordNotFound)

	w := postMultipart(t, router, "/admin/datasets", map[string]string{"name": "History"}, "notes.txt", "not a csv")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "only CSV files")
}

func TestAdminUploadDatasetDuplicateName(t *testing.T) {
	ctx, mock := newTestContext(t)
	ctx.DatasetsDir = t.TempDir()
	router := adminRouter(t, ctx, uuid.New())

	mock.ExpectQuery(`SELECT \* FROM "datasets" WHERE name = \$1`).
		WithArgs("History", 1).
		WillReturnRows(datasetRows(uuid.New(), "History", "datasets/x.csv", 10))

	w := postMultipart(t, router, "/admin/datasets", map[string]string{"name": "History"}, "data.csv", "track_name\na\n")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already exists")
}

func TestAdminUploadDatasetRejectsBrokenCSV(t *testing.T) {
	ctx, mock := newTestContext(t)
	ctx.DatasetsDir = t.TempDir()
	router := adminRouter(t, ctx, uuid.New())

	mock.ExpectQuery(`SELECT \* FROM "datasets" WHERE name = \$1`).
		WillReturnError(gorm.ErrRecordNotFound)

	// A CSV without a track_name column never becomes a dataset.
	w := postMultipart(t, router, "/admin/datasets", map[string]string{"name": "Broken"}, "broken.csv", "artist,album\na,b\n")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "not a valid listening history CSV")

	// The saved file is cleaned up again.
	entries, err := os.ReadDir(ctx.DatasetsDir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func postMultipart(t *testing.T, router *gin.Engine, target string, fields map[string]string, filename, fileContent string) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}

	header := make(map[string][]string)
	header["Content-Disposition"] = []string{`form-data; name="file"; filename="` + filename + `"`}
	if filepath.Ext(filename) == ".csv" {
		header["Content-Type"] = []string{"text/csv"}
	} else {
		header["Content-Type"] = []string{"text/plain"}
	}
	part, err := writer.CreatePart(header)
	require.NoError(t, err)
	_, err = part.Write([]byte(fileContent))
	require.NoError(t, err)
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, target, &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}
