package handlers

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/acme-invoices/middleware"
	"github.com/yourusername/acme-invoices/models"
	"golang.org/x/crypto/bcrypt"
)

func TestLogin(t *testing.T) {
	app := setupTestApp(t)
	hash, err := bcrypt.GenerateFromPassword([]byte("123456"), bcrypt.MinCost)
	require.NoError(t, err)
	require.NoError(t, app.db.Create(&models.User{
		ID: uuid.NewString(), Name: "User", Email: "user@nextmail.com", Password: string(hash),
	}).Error)

	tests := []struct {
		name             string
		form             url.Values
		expectedStatus   int
		expectedLocation string
		expectedBody     string
	}{
		{
			name:             "Valid Credentials",
			form:             url.Values{"email": {"user@nextmail.com"}, "password": {"123456"}},
			expectedStatus:   http.StatusSeeOther,
			expectedLocation: "/dashboard",
		},
		{
			name:             "Valid Credentials With Callback",
			form:             url.Values{"email": {"user@nextmail.com"}, "password": {"123456"}, "callbackUrl": {"/dashboard/invoices?page=2"}},
			expectedStatus:   http.StatusSeeOther,
			expectedLocation: "/dashboard/invoices?page=2",
		},
		{
			name:             "Foreign Callback Ignored",
			form:             url.Values{"email": {"user@nextmail.com"}, "password": {"123456"}, "callbackUrl": {"//evil.example"}},
			expectedStatus:   http.StatusSeeOther,
			expectedLocation: "/dashboard",
		},
		{
			name:           "Wrong Password",
			form:           url.Values{"email": {"user@nextmail.com"}, "password": {"654321"}},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Invalid credentials.",
		},
		{
			name:           "Unknown Email",
			form:           url.Values{"email": {"nobody@nextmail.com"}, "password": {"123456"}},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Invalid credentials.",
		},
		{
			name:           "Short Password",
			form:           url.Values{"email": {"user@nextmail.com"}, "password": {"123"}},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   "Invalid credentials.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := app.do(http.MethodPost, "/login", tt.form, false)
			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedLocation != "" {
				assert.Equal(t, tt.expectedLocation, w.Header().Get("Location"))
				cookies := w.Result().Cookies()
				require.Len(t, cookies, 1)
				claims, err := middleware.ParseToken(cookies[0].Value, app.cfg.JWTSecret)
				require.NoError(t, err)
				assert.Equal(t, "user@nextmail.com", claims.Email)
			}
			if tt.expectedBody != "" {
				assert.Contains(t, w.Body.String(), tt.expectedBody)
			}
		})
	}
}

func TestLoginPageRedirectsSignedInUsers(t *testing.T) {
	app := setupTestApp(t)

	w := app.do(http.MethodGet, "/login", nil, true)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/dashboard", w.Header().Get("Location"))

	w = app.do(http.MethodGet, "/login?callbackUrl=%2Fdashboard%2Fcustomers", nil, false)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"callback_url":"/dashboard/customers"}`, w.Body.String())
}

func TestLogout(t *testing.T) {
	app := setupTestApp(t)

	w := app.do(http.MethodPost, "/dashboard/logout", url.Values{}, true)
	assert.Equal(t, http.StatusSeeOther, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))

	cookies := w.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "session", cookies[0].Name)
	assert.Empty(t, cookies[0].Value)
	assert.True(t, cookies[0].MaxAge < 0)
}
