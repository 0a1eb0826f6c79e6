package handlers

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	docrepo "github.com/docugrade/docugrade/internal/document/repository"
	docservice "github.com/docugrade/docugrade/internal/document/service"
	"github.com/docugrade/docugrade/internal/rag"
	"github.com/docugrade/docugrade/internal/tokens"
	"github.com/docugrade/docugrade/internal/users"
	"github.com/docugrade/docugrade/pkg/middleware"
)

// testRig wires the full API surface against in-memory repositories and a
// temporary storage root, mirroring the wiring in main.go.
type testRig struct {
	router *gin.Engine
	repo   *docrepo.MemoryRepo
	docs   *docservice.Service
}

func newTestRig(t *testing.T) *testRig {
	t.Helper()
	gin.SetMode(gin.TestMode)

	issuer := tokens.NewIssuer("handlers-test-secret-32-bytes-xxxxx", tokens.DefaultTTL)
	userSvc := users.NewService(users.NewMemoryRepository(), issuer)
	repo := docrepo.NewMemoryRepo()
	docSvc := docservice.New(repo, t.TempDir(), nil)
	ragSvc := rag.New(docSvc.UserDir)

	g := gin.New()
	api := g.Group("/api")
	NewAuthHandler(userSvc).Register(api)
	authed := middleware.Authenticated(issuer, userSvc)
	NewFilesHandler(docSvc).Register(api, authed)
	NewRAGHandler(ragSvc).Register(api, authed)
	RegisterSample(api)
	RegisterSwagger(g)

	return &testRig{router: g, repo: repo, docs: docSvc}
}

func (r *testRig) postJSON(t *testing.T, path string, body any, token string) *httptest.ResponseRecorder {
	t.Helper()
	b, err := json.Marshal(body)
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(b))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.router.ServeHTTP(w, req)
	return w
}

func (r *testRig) get(t *testing.T, path, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.router.ServeHTTP(w, req)
	return w
}

// upload sends a multipart batch under the "files" field.
func (r *testRig) upload(t *testing.T, token string, files map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, content := range files {
		part, err := mw.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/files/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.router.ServeHTTP(w, req)
	return w
}

// registerAndLogin creates an account and returns its bearer token.
func (r *testRig) registerAndLogin(t *testing.T, email, password string) string {
	t.Helper()
	w := r.postJSON(t, "/api/auth/register", gin.H{"email": email, "password": password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = r.postJSON(t, "/api/auth/login", gin.H{"email": email, "password": password}, "")
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp struct {
		AccessToken string `json:"access_token"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.AccessToken)
	return resp.AccessToken
}

func decodeList(t *testing.T, w *httptest.ResponseRecorder) []docservice.Summary {
	t.Helper()
	var out []docservice.Summary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &out))
	return out
}
