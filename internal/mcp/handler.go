package mcp

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"docstore/internal/documents"
	"docstore/internal/shared/baseurl"
	"docstore/internal/shared/server/respond"
)

// Handler exposes the manifest and resource endpoints.
type Handler struct {
	Svc *Service
	// PublicBaseURL overrides the request-derived origin in locators.
	PublicBaseURL string
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, publicBaseURL string) *Handler {
	return &Handler{Svc: svc, PublicBaseURL: publicBaseURL}
}

// RegisterRoutes attaches MCP routes to the router.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET(ManifestPath, h.manifest)
	r.GET(documentPathPrefix+":id/", h.document)
}

func (h *Handler) manifest(c *gin.Context) {
	m, err := h.Svc.Manifest(c.Request.Context(), baseurl.Resolve(c.Request, h.PublicBaseURL))
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to build manifest", nil)
		return
	}
	respond.OK(c, m)
}

func (h *Handler) document(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "document id must be an integer", nil)
		return
	}
	c.Set("documentId", id)

	res, err := h.Svc.Resource(c.Request.Context(), id, baseurl.Resolve(c.Request, h.PublicBaseURL))
	if err != nil {
		switch {
		case errors.Is(err, documents.ErrNotFound):
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "Document not found.", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to load document", nil)
		}
		return
	}
	respond.OK(c, res)
}
