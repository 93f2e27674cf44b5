package event

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

	handler := NewHandler(NewService(NewRepository(st)))

	r := chi.NewRouter()
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(testSecret))
		r.Mount("/events", handler.Routes())
	})

	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func doJSON(t *testing.T, method, url, email string, body interface{}) (*http.Response, *response.APIResponse) {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if email != "" {
		token, err := middleware.SignToken(testSecret, email, "uid-"+email, time.Hour)
		require.NoError(t, err)
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { resp.Body.Close() })

	var envelope response.APIResponse
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&envelope))
	return resp, &envelope
}

func decodeData(t *testing.T, envelope *response.APIResponse, out interface{}) {
	t.Helper()
	raw, err := json.Marshal(envelope.Data)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out))
}

func TestEventLifecycleHTTP(t *testing.T) {
	srv := newTestServer(t)

	resp, envelope := doJSON(t, http.MethodPost, srv.URL+"/events", "alice@example.com", &CreateEventRequest{
		Name:        "Block Party",
		Type:        "Gathering",
		Description: "Monthly block party",
		Address:     "123 Oak St",
		Date:        time.Date(2026, 9, 12, 18, 0, 0, 0, time.UTC),
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created EventResponse
	decodeData(t, envelope, &created)
	assert.True(t, created.SignedUp)
	assert.Equal(t, 1, created.AttendeeCount)

	// Bob sees the event but is not signed up.
	resp, envelope = doJSON(t, http.MethodGet, srv.URL+"/events", "bob@example.com", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var listed []EventResponse
	decodeData(t, envelope, &listed)
	require.Len(t, listed, 1)
	assert.False(t, listed[0].SignedUp)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/events/"+created.ID+"/signup", "bob@example.com", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/events/"+created.ID+"/signup", "bob@example.com", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp, envelope = doJSON(t, http.MethodGet, srv.URL+"/events/mine", "bob@example.com", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var mine []EventResponse
	decodeData(t, envelope, &mine)
	require.Len(t, mine, 1)
	assert.True(t, mine[0].SignedUp)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/events/"+created.ID+"/unsubscribe", "bob@example.com", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = doJSON(t, http.MethodPost, srv.URL+"/events/"+created.ID+"/unsubscribe", "bob@example.com", nil)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestEventNotFoundHTTP(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/events/missing/signup", "alice@example.com", nil)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestEventTypesHTTP(t *testing.T) {
	srv := newTestServer(t)

	resp, envelope := doJSON(t, http.MethodGet, srv.URL+"/events/types", "alice@example.com", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var types []string
	decodeData(t, envelope, &types)
	assert.Equal(t, DefaultTypes, types)
}

func TestCreateEventValidation(t *testing.T) {
	srv := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, srv.URL+"/events", "alice@example.com", &CreateEventRequest{
		Name: "Missing everything else",
	})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
