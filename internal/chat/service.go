package chat

import (
	"context"
	"strings"

	"docstore/internal/mcp"
)

// Service assembles context for a message and forwards both to the agent.
type Service struct {
	Assembler *Assembler
	Forwarder *Forwarder
}

// NewService constructs a Service.
func NewService(assembler *Assembler, forwarder *Forwarder) *Service {
	return &Service{Assembler: assembler, Forwarder: forwarder}
}

// Send validates the message, resolves its context documents and relays the
// result to the agent.
func (s *Service) Send(ctx context.Context, message string, ids []int64, baseURL string) (Reply, error) {
	if strings.TrimSpace(message) == "" {
		return nil, ErrInvalidRequest
	}
	items, err := s.Assembler.Assemble(ctx, ids, baseURL)
	if err != nil {
		return nil, err
	}
	return s.Forwarder.Forward(ctx, Request{
		Message:   message,
		Items:     items,
		SourceURL: mcp.ManifestURL(baseURL),
	})
}
