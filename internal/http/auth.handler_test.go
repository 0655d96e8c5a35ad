package http

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
	"gorm.io/gorm"

	"github.com/anglvix/spotify-insight/internal/entity"
	"github.com/anglvix/spotify-insight/internal/utils"
)

func TestLogin(t *testing.T) {
	ctx, mock := newTestContext(t)
	router := newTestRouter(t)
	router.POST("/login", Login(ctx))

	hash, err := utils.HashPassword("hunter2")
	require.NoError(t, err)
	userID := uuid.New()

	// The entered email is trimmed and lowercased before the lookup.
	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WithArgs("ada@example.com", 1).
		WillReturnRows(userRows(userID, "ada@example.com", "Ada", hash, entity.RoleUser))

	w := postForm(router, "/login", url.Values{
		"email":    {" Ada@Example.com "},
		"password": {"hunter2"},
	})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	var token string
	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == "token" {
			token = cookie.Value
		}
	}
	require.NotEmpty(t, token, "expected a session cookie")

	claims, err := utils.ValidateJWT(token)
	require.NoError(t, err)
	assert.Equal(t, userID.String(), claims.UserID)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestLoginWrongPassword(t *testing.T) {
	ctx, mock := newTestContext(t)
	router := newTestRouter(t)
	router.POST("/login", Login(ctx))

	hash, err := utils.HashPassword("hunter2")
	require.NoError(t, err)

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WithArgs("ada@example.com", 1).
		WillReturnRows(userRows(uuid.New(), "ada@example.com", "Ada", hash, entity.RoleUser))

	w := postForm(router, "/login", url.Values{
		"email":    {"ada@example.com"},
		"password": {"wrong"},
	})

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email or password")
	assert.Empty(t, w.Result().Cookies())
}

func TestLoginUnknownEmail(t *testing.T) {
	ctx, mock := newTestContext(t)
	router := newTestRouter(t)
	router.POST("/login", Login(ctx))

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnError(gorm.ErrRecordNotFound)

	w := postForm(router, "/login", url.Values{
		"email":    {"nobody@example.com"},
		"password": {"whatever"},
	})

	// Unknown accounts get the same message as bad passwords.
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid email or password")
}

func TestLoginMissingFields(t *testing.T) {
	ctx, _ := newTestContext(t)
	router := newTestRouter(t)
	router.POST("/login", Login(ctx))

	w := postForm(router, "/login", url.Values{"email": {"ada@example.com"}})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestRegister(t *testing.T) {
	ctx, mock := newTestContext(t)
	router := newTestRouter(t)
	router.POST("/register", Register(ctx))

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WithArgs("grace@example.com", 1).
		WillReturnError(gorm.ErrRecordNotFound)
	mock.ExpectQuery(`INSERT INTO "users"`).
		WillReturnRows(idRows())

	w := postForm(router, "/register", url.Values{
		"name":     {"Grace"},
		"email":    {"grace@example.com"},
		"password": {"longenough"},
	})

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRegisterDuplicateEmail(t *testing.T) {
	ctx, mock := newTestContext(t)
	router := newTestRouter(t)
	router.POST("/register", Register(ctx))

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE email = \$1`).
		WillReturnRows(userRows(uuid.New(), "grace@example.com", "Grace", "x", entity.RoleUser))

	w := postForm(router, "/register", url.Values{
		"name":     {"Grace"},
		"email":    {"grace@example.com"},
		"password": {"longenough"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already registered")
}

func TestRegisterShortPassword(t *testing.T) {
	ctx, _ := newTestContext(t)
	router := newTestRouter(t)
	router.POST("/register", Register(ctx))

	w := postForm(router, "/register", url.Values{
		"name":     {"Grace"},
		"email":    {"grace@example.com"},
		"password": {"short"},
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "at least 6 characters")
}

func TestGetUserInfo(t *testing.T) {
	ctx, mock := newTestContext(t)
	router := newTestRouter(t)
	userID := uuid.New()
	router.GET("/me", authAs(userID), GetUserInfo(ctx))

	mock.ExpectQuery(`SELECT \* FROM "users" WHERE id = \$1`).
		WithArgs(userID.String(), 1).
		WillReturnRows(userRows(userID, "ada@example.com", "Ada", "very-secret-hash", entity.RoleUser))

	w := doGet(router, "/me")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "ada@example.com")
	// The password hash never leaves the server.
	assert.NotContains(t, w.Body.String(), "very-secret-hash")
}

func TestLogout(t *testing.T) {
	ctx, _ := newTestContext(t)
	router := newTestRouter(t)
	router.GET("/logout", Logout(ctx))

	w := doGet(router, "/logout")

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	require.Len(t, w.Result().Cookies(), 1)
	cookie := w.Result().Cookies()[0]
	assert.Equal(t, "token", cookie.Name)
	assert.True(t, cookie.MaxAge < 0, "expected the cookie to be expired")
}

func TestGoogleLoginUnconfigured(t *testing.T) {
	ctx, _ := newTestContext(t)
	ctx.OAuth2Config = &oauth2.Config{}
	router := newTestRouter(t)
	router.GET("/auth/google/login", GoogleLogin(ctx))

	w := doGet(router, "/auth/google/login")

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
