package api

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(srv.URL, 5*time.Second)
}

func TestLogin_ReturnsToken(t *testing.T) {
	var gotPath string
	var gotBody map[string]string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))
		json.NewEncoder(w).Encode(map[string]any{"success": true, "token": "tok-123"})
	})

	tok, err := c.Login(context.Background(), "jane@example.com", "pw")
	require.NoError(t, err)

	assert.Equal(t, "tok-123", tok)
	assert.Equal(t, "/api/auth/login", gotPath)
	assert.Equal(t, "jane@example.com", gotBody["email"])
}

func TestLogin_SurfacesServerMessageVerbatim(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": "invalid email or password"})
	})

	_, err := c.Login(context.Background(), "jane@example.com", "wrong")
	require.Error(t, err)

	var apiErr *Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.StatusCode)
	assert.Equal(t, "invalid email or password", apiErr.Error())
}

func TestFederatedCallback_EscapesCode(t *testing.T) {
	var gotCode string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotCode = r.URL.Query().Get("code")
		json.NewEncoder(w).Encode(map[string]any{"success": true, "token": "tok"})
	})

	_, err := c.FederatedCallback(context.Background(), "a b&c")
	require.NoError(t, err)
	assert.Equal(t, "a b&c", gotCode)
}

func TestMe_SendsBearerAndDecodesProfile(t *testing.T) {
	var gotAuth string

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"data":    map[string]string{"id": "u1", "name": "Jane", "email": "jane@example.com"},
		})
	})

	p, err := c.Me(context.Background(), "tok-123")
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok-123", gotAuth)
	assert.Equal(t, "u1", p.ID)
	assert.Equal(t, "Jane", p.Name)
}

func TestRequestOTP_ReturnsServerMessage(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"success": true,
			"message": "if the email is registered, a code has been sent",
		})
	})

	msg, err := c.RequestOTP(context.Background(), "anyone@example.com")
	require.NoError(t, err)
	assert.Equal(t, "if the email is registered, a code has been sent", msg)
}

func TestDo_MalformedReplyIsAnError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("<html>gateway error</html>"))
	})

	_, err := c.Login(context.Background(), "jane@example.com", "pw")
	require.ErrorContains(t, err, "failed to decode server reply")
}
