package documents

import (
	"errors"
	"html/template"
	"io/fs"
	"mime"
	"net/http"
	"path"
	"strings"

	"github.com/gin-gonic/gin"

	"docstore/internal/shared/server/respond"
	"docstore/internal/shared/storage/object"
	"docstore/internal/shared/util"
)

const defaultMaxUploadSize = 20 << 20 // 20MB

// MediaPrefix is the route prefix under which stored blobs are served.
const MediaPrefix = "/media/"

// IndexTemplateName is the name the index page is registered under.
const IndexTemplateName = "index.html"

// IndexTemplate renders the document list with an upload form.
var IndexTemplate = template.Must(template.New(IndexTemplateName).Parse(`<!doctype html>
<html>
<head><meta charset="utf-8"><title>Documents</title></head>
<body>
<h1>Documents</h1>
<form action="/upload/" method="post" enctype="multipart/form-data">
  <input type="text" name="title" placeholder="Title (optional)">
  <input type="file" name="file" required>
  <button type="submit">Upload</button>
</form>
<ul>
{{- range .docs}}
  <li data-id="{{.ID}}"><a href="/mcp/document/{{.ID}}/">{{.Title}}</a> <small>{{.UploadedAt.Format "2006-01-02 15:04"}}</small></li>
{{- else}}
  <li>No documents yet.</li>
{{- end}}
</ul>
</body>
</html>
`))

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc            *Service
	MaxUploadBytes int64
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, maxUploadBytes int64) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadSize
	}
	return &Handler{Svc: svc, MaxUploadBytes: maxUploadBytes}
}

// RegisterRoutes attaches document routes to the router. The engine must have
// IndexTemplate installed via SetHTMLTemplate.
func (h *Handler) RegisterRoutes(r gin.IRouter) {
	r.GET("/", h.index)
	r.POST("/upload/", h.upload)
	r.GET(MediaPrefix+"*key", h.download)
}

func (h *Handler) index(c *gin.Context) {
	docs, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to list documents", nil)
		return
	}
	c.HTML(http.StatusOK, IndexTemplateName, gin.H{"docs": docs})
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, respond.CodeValidation, "file too large", gin.H{"limitBytes": tooLarge.Limit})
			return
		}
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "No file uploaded.", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "unable to read file", nil)
		return
	}
	defer file.Close()

	doc, err := h.Svc.Upload(c.Request.Context(), fileHeader.Filename, c.PostForm("title"), file)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, err.Error(), nil)
		case errors.Is(err, util.ErrInvalidFileName):
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "invalid file name", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to upload document", err.Error())
		}
		return
	}

	c.Set("documentId", doc.ID)
	c.Redirect(http.StatusFound, "/")
}

func (h *Handler) download(c *gin.Context) {
	key := strings.TrimPrefix(c.Param("key"), "/")

	body, err := h.Svc.Open(c.Request.Context(), key)
	if err != nil {
		switch {
		case errors.Is(err, object.ErrInvalidKey), errors.Is(err, fs.ErrNotExist):
			respond.Error(c, http.StatusNotFound, respond.CodeNotFound, "file not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to open file", nil)
		}
		return
	}
	defer body.Close()

	contentType := mime.TypeByExtension(path.Ext(key))
	if contentType == "" {
		contentType = "application/octet-stream"
	}
	c.DataFromReader(http.StatusOK, -1, contentType, body, map[string]string{
		"Content-Disposition": mime.FormatMediaType("inline", map[string]string{"filename": path.Base(key)}),
	})
}
