package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/docugrade/docugrade/internal/models"
	"github.com/docugrade/docugrade/internal/tokens"
)

type fakeUsers struct {
	byEmail map[string]*models.User
}

func (f *fakeUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return f.byEmail[email], nil
}

func newAuthRig(t *testing.T) (*gin.Engine, *tokens.Issuer, *fakeUsers) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	iss := tokens.NewIssuer("mw-test-secret-32-bytes-xxxxxxxxxxx", tokens.DefaultTTL)
	users := &fakeUsers{byEmail: map[string]*models.User{
		"alice@example.com": {ID: 1, Email: "alice@example.com"},
	}}
	g := gin.New()
	g.GET("/", Authenticated(iss, users), func(c *gin.Context) {
		u, ok := CurrentUser(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"id": u.ID, "email": u.Email})
	})
	return g, iss, users
}

func do(g *gin.Engine, auth string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	if auth != "" {
		req.Header.Set("Authorization", auth)
	}
	rw := httptest.NewRecorder()
	g.ServeHTTP(rw, req)
	return rw
}

func TestAuthenticated_NoHeader(t *testing.T) {
	g, _, _ := newAuthRig(t)
	require.Equal(t, http.StatusUnauthorized, do(g, "").Code)
}

func TestAuthenticated_MalformedHeader(t *testing.T) {
	g, _, _ := newAuthRig(t)
	require.Equal(t, http.StatusUnauthorized, do(g, "BadHeader").Code)
}

func TestAuthenticated_BadToken(t *testing.T) {
	g, _, _ := newAuthRig(t)
	require.Equal(t, http.StatusUnauthorized, do(g, "Bearer not.a.jwt").Code)
}

func TestAuthenticated_ExpiredToken(t *testing.T) {
	g, iss, _ := newAuthRig(t)
	tok, err := iss.Issue("alice@example.com", -time.Minute)
	require.NoError(t, err)
	require.Equal(t, http.StatusUnauthorized, do(g, "Bearer "+tok).Code)
}

// A valid token whose subject no longer resolves to an account must fail
// exactly like an invalid token.
func TestAuthenticated_DeletedUserIndistinguishable(t *testing.T) {
	g, iss, _ := newAuthRig(t)
	tok, err := iss.Issue("ghost@example.com", time.Minute)
	require.NoError(t, err)

	deleted := do(g, "Bearer "+tok)
	invalid := do(g, "Bearer garbage")
	require.Equal(t, http.StatusUnauthorized, deleted.Code)
	require.Equal(t, http.StatusUnauthorized, invalid.Code)
	require.JSONEq(t, invalid.Body.String(), deleted.Body.String())
}

func TestAuthenticated_ValidToken(t *testing.T) {
	g, iss, _ := newAuthRig(t)
	tok, err := iss.Issue("alice@example.com", time.Minute)
	require.NoError(t, err)

	rw := do(g, "Bearer "+tok)
	require.Equal(t, http.StatusOK, rw.Code)
	require.Contains(t, rw.Body.String(), "alice@example.com")
}
