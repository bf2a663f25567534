package handler_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/flashcard/internal/auth"
	"github.com/sakif/flashcard/internal/handler"
	"github.com/sakif/flashcard/internal/model"
)

func credentials(username, password string) map[string]string {
	return map[string]string{"username": username, "password": password}
}

func sessionCookie(rr *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == auth.CookieName {
			return c
		}
	}
	return nil
}

func TestAuthHandler_RegisterLoginMe(t *testing.T) {
	app := newTestApp(t)

	rr := app.do(t, nil, http.MethodPost, "/auth/register", credentials("alice", "correct horse"))
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.NotContains(t, rr.Body.String(), "correct horse")
	assert.NotContains(t, strings.ToLower(rr.Body.String()), "password")

	rr = app.do(t, nil, http.MethodPost, "/auth/login", credentials("alice", "correct horse"))
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Equal(t, "alice", decode[model.CurrentUser](t, rr).Username)

	cookie := sessionCookie(rr)
	require.NotNil(t, cookie)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, 3600, cookie.MaxAge)

	// /auth/me goes through RequireAuth, so send the real cookie.
	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: cookie.Value})
	me := httptest.NewRecorder()
	app.router.ServeHTTP(me, req)

	require.Equal(t, http.StatusOK, me.Code)
	assert.Equal(t, "alice", decode[model.User](t, me).Username)
}

func TestAuthHandler_CookieDrivesAPI(t *testing.T) {
	app := newTestApp(t)
	app.user(t, "alice")

	login := app.do(t, nil, http.MethodPost, "/auth/login", credentials("alice", "correct horse"))
	cookie := sessionCookie(login)
	require.NotNil(t, cookie)

	req := httptest.NewRequest(http.MethodPost, "/api/study-sets",
		strings.NewReader(`{"title":"Spanish 101","description":"basics","level":"beginner"}`))
	req.AddCookie(&http.Cookie{Name: auth.CookieName, Value: cookie.Value})
	rr := httptest.NewRecorder()
	app.router.ServeHTTP(rr, req)

	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	assert.Equal(t, "alice", decode[model.StudySet](t, rr).AuthorUsername)
}

func TestAuthHandler_Errors(t *testing.T) {
	app := newTestApp(t)
	app.user(t, "alice")

	tests := []struct {
		name       string
		path       string
		body       any
		wantStatus int
		wantError  string
	}{
		{name: "duplicate username", path: "/auth/register", body: credentials("alice", "another password"),
			wantStatus: http.StatusConflict, wantError: "conflict"},
		{name: "short password", path: "/auth/register", body: credentials("bob", "short"),
			wantStatus: http.StatusBadRequest, wantError: "validation_error"},
		{name: "password over 72 bytes", path: "/auth/register", body: credentials("carol", strings.Repeat("é", 40)),
			wantStatus: http.StatusBadRequest, wantError: "validation_error"},
		{name: "wrong password", path: "/auth/login", body: credentials("alice", "battery staple"),
			wantStatus: http.StatusUnauthorized, wantError: "unauthorized"},
		{name: "unknown user", path: "/auth/login", body: credentials("mallory", "correct horse"),
			wantStatus: http.StatusUnauthorized, wantError: "unauthorized"},
		{name: "empty login", path: "/auth/login", body: credentials("", ""),
			wantStatus: http.StatusBadRequest, wantError: "validation_error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := app.do(t, nil, http.MethodPost, tt.path, tt.body)

			assert.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantError, decode[handler.ErrorResponse](t, rr).Error)
			assert.Nil(t, sessionCookie(rr))
		})
	}
}

func TestAuthHandler_MeWithoutCookie(t *testing.T) {
	app := newTestApp(t)

	rr := app.do(t, nil, http.MethodGet, "/auth/me", nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestAuthHandler_Logout(t *testing.T) {
	app := newTestApp(t)

	rr := app.do(t, nil, http.MethodPost, "/auth/logout", nil)

	require.Equal(t, http.StatusOK, rr.Code)
	cookie := sessionCookie(rr)
	require.NotNil(t, cookie)
	assert.Empty(t, cookie.Value)
	assert.Less(t, cookie.MaxAge, 0)
}
