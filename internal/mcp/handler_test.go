package mcp

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docstore/internal/documents"
)

func newTestRouter(t *testing.T, publicBase string) (*gin.Engine, *documents.MemoryRepo) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	repo := documents.NewMemoryRepo()
	r := gin.New()
	NewHandler(NewService(repo), publicBase).RegisterRoutes(r)
	return r, repo
}

func TestManifestEndpointUsesRequestHost(t *testing.T) {
	r, repo := newTestRouter(t, "")
	_, err := repo.Create(context.Background(), documents.Document{Title: "a", UploadedAt: time.Now().UTC()})
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/mcp/manifest/", nil)
	req.Host = "docs.example:8000"
	req.Header.Set("X-Forwarded-Proto", "https")
	resp := httptest.NewRecorder()
	r.ServeHTTP(resp, req)

	require.Equal(t, http.StatusOK, resp.Code)
	var m Manifest
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &m))
	require.Len(t, m.Resources, 1)
	assert.Equal(t, "https://docs.example:8000/mcp/document/1/", m.Resources[0].MCPDocumentURL)
}

func TestDocumentEndpoint(t *testing.T) {
	r, repo := newTestRouter(t, "https://public.example")
	_, err := repo.Create(context.Background(), documents.Document{
		Title:      "a",
		StorageKey: "documents/x_a.txt",
		UploadedAt: time.Now().UTC(),
	})
	require.NoError(t, err)

	tests := []struct {
		name   string
		path   string
		status int
		code   string
	}{
		{name: "found", path: "/mcp/document/1/", status: http.StatusOK},
		{name: "unknown id", path: "/mcp/document/42/", status: http.StatusNotFound, code: "not_found"},
		{name: "non-integer id", path: "/mcp/document/abc/", status: http.StatusBadRequest, code: "validation_error"},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			resp := httptest.NewRecorder()
			r.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, tt.path, nil))
			require.Equal(t, tt.status, resp.Code)

			if tt.code == "" {
				var res Resource
				require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &res))
				assert.Equal(t, "1", res.ID)
				assert.Equal(t, "https://public.example/media/documents/x_a.txt", res.DownloadURL)
				return
			}
			var body struct {
				Error struct {
					Code string `json:"code"`
				} `json:"error"`
			}
			require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body))
			assert.Equal(t, tt.code, body.Error.Code)
			assert.NotContains(t, resp.Body.String(), "extracted_text")
		})
	}
}
