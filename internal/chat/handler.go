package chat

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"docstore/internal/shared/baseurl"
	"docstore/internal/shared/server/respond"
)

// SendPath is the chat endpoint route.
const SendPath = "/chat/send/"

// SendRequest is the body accepted by the chat endpoint.
type SendRequest struct {
	Message       string `json:"message"`
	IncludeDocIDs DocIDs `json:"include_doc_ids"`
}

// DocIDs accepts document ids as JSON numbers or numeric strings.
type DocIDs []int64

// UnmarshalJSON implements json.Unmarshaler.
func (d *DocIDs) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*d = nil
		return nil
	}
	var raw []json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	ids := make([]int64, 0, len(raw))
	for _, r := range raw {
		text := strings.TrimSpace(strings.Trim(string(bytes.TrimSpace(r)), `"`))
		id, err := strconv.ParseInt(text, 10, 64)
		if err != nil {
			return fmt.Errorf("invalid document id %s", r)
		}
		ids = append(ids, id)
	}
	*d = ids
	return nil
}

// Handler exposes the chat endpoint.
type Handler struct {
	Svc           *Service
	PublicBaseURL string
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service, publicBaseURL string) *Handler {
	return &Handler{Svc: svc, PublicBaseURL: publicBaseURL}
}

// RegisterRoutes attaches chat routes. Extra middleware, such as rate
// limiting, runs before the handler.
func (h *Handler) RegisterRoutes(r gin.IRouter, middleware ...gin.HandlerFunc) {
	handlers := append(append([]gin.HandlerFunc{}, middleware...), h.send)
	r.POST(SendPath, handlers...)
}

func (h *Handler) send(c *gin.Context) {
	var req SendRequest
	if err := json.NewDecoder(c.Request.Body).Decode(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "Invalid JSON", nil)
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "Empty message", nil)
		return
	}

	reply, err := h.Svc.Send(c.Request.Context(), req.Message, req.IncludeDocIDs, baseurl.Resolve(c.Request, h.PublicBaseURL))
	if err != nil {
		var upstream *UpstreamError
		switch {
		case errors.Is(err, ErrInvalidRequest):
			respond.Error(c, http.StatusBadRequest, respond.CodeValidation, "Empty message", nil)
		case errors.Is(err, ErrMisconfigured):
			respond.Error(c, http.StatusInternalServerError, respond.CodeAgentNotConfigured,
				"AI agent URL not configured. Set AI_AGENT_API_URL.", nil)
		case errors.As(err, &upstream):
			respond.Error(c, http.StatusBadGateway, respond.CodeUpstreamUnavailable, "failed to contact agent", upstream.Err.Error())
		default:
			respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "failed to assemble context", nil)
		}
		return
	}

	switch r := reply.(type) {
	case StructuredReply:
		respond.OK(c, r)
	case RawReply:
		respond.Raw(c, r.StatusCode, r.ContentType, r.Body)
	default:
		respond.Error(c, http.StatusInternalServerError, respond.CodeInternal, "unexpected agent reply", nil)
	}
}
