package auth

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authservice/internal/httputil"
	"authservice/internal/user"
)

func TestRequireAuth(t *testing.T) {
	t.Parallel()

	tokens, err := NewJWTService(testJWTSecret, testIssuer, testAudience, time.Hour)
	require.NoError(t, err)
	mw := NewMiddleware(tokens)

	u := testUser(t)
	token, err := tokens.CreateToken(u)
	require.NoError(t, err)

	var gotID, gotEmail, gotRole bool
	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := GetUserIDFromContext(r.Context())
		gotID = ok && id == u.ID
		email, ok := GetUserEmailFromContext(r.Context())
		gotEmail = ok && email == u.Email
		role, ok := GetUserRoleFromContext(r.Context())
		gotRole = ok && role == user.RoleUser
		w.WriteHeader(http.StatusOK)
	}))

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, gotID)
	assert.True(t, gotEmail)
	assert.True(t, gotRole)
}

func TestRequireAuth_Rejections(t *testing.T) {
	t.Parallel()

	tokens, err := NewJWTService(testJWTSecret, testIssuer, testAudience, time.Hour)
	require.NoError(t, err)
	expired, err := NewJWTService(testJWTSecret, testIssuer, testAudience, -time.Minute)
	require.NoError(t, err)
	mw := NewMiddleware(tokens)

	expiredToken, err := expired.CreateToken(testUser(t))
	require.NoError(t, err)

	handler := mw.RequireAuth(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	tests := []struct {
		name        string
		header      string
		wantMessage string
	}{
		{"missing header", "", "missing authentication"},
		{"not bearer", "Basic abc123", "invalid authorization header format"},
		{"missing token", "Bearer", "invalid authorization header format"},
		{"garbage token", "Bearer not.a.token", "invalid token"},
		{"expired token", "Bearer " + expiredToken, "token has expired"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := httptest.NewRequest(http.MethodGet, "/protected", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)

			var body httputil.ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantMessage, body.Message)
			assert.Equal(t, httputil.CodeUnauthorized, body.ErrorCode)
		})
	}
}
