package user

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andydlo/neighborhood-connect/internal/store"
	"github.com/andydlo/neighborhood-connect/pkg/middleware"
	"github.com/andydlo/neighborhood-connect/pkg/response"
)

const testSecret = "test-secret"

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	st := store.NewMemory()
	t.Cleanup(func() { st.Close() })

	handler := NewHandler(NewService(NewRepository(st)), testSecret, time.Hour)

	r := chi.NewRouter()
	r.Mount("/auth", handler.AuthRoutes())
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(testSecret))
		r.Mount("/profile", handler.ProfileRoutes())
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func postJSON(t *testing.T, url string, body interface{}) (*http.Response, *response.APIResponse) {
	t.Helper()

	var buf bytes.Buffer
	require.NoError(t, json.NewEncoder(&buf).Encode(body))
	resp, err := http.Post(url, "application/json", &buf)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var envelope response.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, &envelope
}

func decodeAuth(t *testing.T, envelope *response.APIResponse) *AuthResponse {
	t.Helper()
	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	var auth AuthResponse
	require.NoError(t, json.Unmarshal(raw, &auth))
	return &auth
}

func TestSignupLoginProfileHTTP(t *testing.T) {
	srv := newTestServer(t)

	resp, envelope := postJSON(t, srv.URL+"/auth/signup", &SignupRequest{
		Email:    "alice@example.com",
		Password: "correct horse battery",
		Zip:      "94110",
		Username: "alice",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	auth := decodeAuth(t, envelope)
	assert.NotEmpty(t, auth.Token)
	require.NotNil(t, auth.Profile)
	assert.Equal(t, "alice@example.com", auth.Profile.Email)

	resp, envelope = postJSON(t, srv.URL+"/auth/login", &LoginRequest{
		Email:    "alice@example.com",
		Password: "correct horse battery",
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	auth = decodeAuth(t, envelope)

	// The issued token grants access to the profile endpoint.
	req, err := http.NewRequest(http.MethodGet, srv.URL+"/profile", nil)
	require.NoError(t, err)
	req.Header.Set("Authorization", "Bearer "+auth.Token)
	profileResp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer profileResp.Body.Close()
	require.Equal(t, http.StatusOK, profileResp.StatusCode)

	var profileEnvelope response.APIResponse
	require.NoError(t, json.NewDecoder(profileResp.Body).Decode(&profileEnvelope))
	raw, err := json.Marshal(profileEnvelope.Data)
	require.NoError(t, err)
	var profile ProfileResponse
	require.NoError(t, json.Unmarshal(raw, &profile))
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, "94110", profile.Zip)
}

func TestSignupDuplicateEmailHTTP(t *testing.T) {
	srv := newTestServer(t)

	req := &SignupRequest{
		Email:    "alice@example.com",
		Password: "correct horse battery",
		Zip:      "94110",
		Username: "alice",
	}
	resp, _ := postJSON(t, srv.URL+"/auth/signup", req)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, envelope := postJSON(t, srv.URL+"/auth/signup", req)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "CONFLICT", envelope.Error.Code)
}

func TestSignupValidationHTTP(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := postJSON(t, srv.URL+"/auth/signup", &SignupRequest{
		Email:    "not-an-email",
		Password: "short",
		Zip:      "94110",
		Username: "alice",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestLoginBadCredentialsHTTP(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := postJSON(t, srv.URL+"/auth/signup", &SignupRequest{
		Email:    "alice@example.com",
		Password: "correct horse battery",
		Zip:      "94110",
		Username: "alice",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, _ = postJSON(t, srv.URL+"/auth/login", &LoginRequest{
		Email:    "alice@example.com",
		Password: "wrong password",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestProfileRequiresToken(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/profile")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
