package user

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"authservice/internal/httputil"
	"authservice/internal/logging"
)

// newTestRouter mounts the handler on the real route shapes so URL
// parameters resolve the same way they do in production
func newTestRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/users", h.GetAllUsers)
	r.Get("/users/{id}", h.GetUserByID)
	r.Get("/users/username/{username}", h.GetUserByUserName)
	r.Get("/users/email/{email}", h.GetUserByEmail)
	r.Put("/profile", h.UpdateProfile)
	r.Delete("/{id}", h.DeleteUser)
	return r
}

func newUserHandlerFixture(t *testing.T) (*chi.Mux, *memoryStore) {
	t.Helper()

	store := newMemoryStore()
	handler := NewHandler(NewService(store, logging.NewLogger(true)), logging.NewLogger(true))
	return newTestRouter(handler), store
}

func TestHandler_GetAllUsers(t *testing.T) {
	t.Parallel()

	router, store := newUserHandlerFixture(t)
	seedUser(t, store, "alice", "alice@example.com")
	seedUser(t, store, "bob", "bob@example.com")

	req := httptest.NewRequest(http.MethodGet, "/users", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var profiles []*Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profiles))
	assert.Len(t, profiles, 2)
}

func TestHandler_GetUserByID(t *testing.T) {
	t.Parallel()

	router, store := newUserHandlerFixture(t)
	u := seedUser(t, store, "alice", "alice@example.com")

	req := httptest.NewRequest(http.MethodGet, "/users/"+u.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var profile Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, u.ID, profile.ID)
	assert.Equal(t, "alice", profile.UserName)
}

func TestHandler_GetUserByID_BadID(t *testing.T) {
	t.Parallel()

	router, _ := newUserHandlerFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/users/not-a-uuid", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_GetUserByUserName(t *testing.T) {
	t.Parallel()

	router, store := newUserHandlerFixture(t)
	seedUser(t, store, "alice", "alice@example.com")

	req := httptest.NewRequest(http.MethodGet, "/users/username/alice", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodGet, "/users/username/nobody", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)

	var body httputil.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, httputil.CodeNotFound, body.ErrorCode)
}

func TestHandler_GetUserByEmail(t *testing.T) {
	t.Parallel()

	router, store := newUserHandlerFixture(t)
	seedUser(t, store, "alice", "alice@example.com")

	req := httptest.NewRequest(http.MethodGet, "/users/email/alice@example.com", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var profile Profile
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &profile))
	assert.Equal(t, "alice@example.com", profile.Email)
}

func TestHandler_UpdateProfile(t *testing.T) {
	t.Parallel()

	router, store := newUserHandlerFixture(t)
	u := seedUser(t, store, "alice", "alice@example.com")

	first := "Alice"
	body, err := json.Marshal(UpdateProfileRequest{
		ID:        u.ID,
		UserName:  "alice-smith",
		FirstName: &first,
	})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/profile", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)

	stored, err := store.GetByID(req.Context(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice-smith", stored.UserName)
}

func TestHandler_UpdateProfile_Validation(t *testing.T) {
	t.Parallel()

	router, store := newUserHandlerFixture(t)
	u := seedUser(t, store, "alice", "alice@example.com")

	body, err := json.Marshal(UpdateProfileRequest{ID: u.ID, UserName: ""})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodPut, "/profile", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestHandler_DeleteUser(t *testing.T) {
	t.Parallel()

	router, store := newUserHandlerFixture(t)
	u := seedUser(t, store, "alice", "alice@example.com")

	req := httptest.NewRequest(http.MethodDelete, "/"+u.ID.String(), nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusNoContent, rec.Code)

	// Deleting again is a 404
	req = httptest.NewRequest(http.MethodDelete, "/"+u.ID.String(), nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}
