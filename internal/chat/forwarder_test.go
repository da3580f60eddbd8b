package chat

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docstore/internal/shared/config"
)

type capturedCall struct {
	method  string
	auth    string
	ctype   string
	payload ForwardPayload
}

func newAgent(t *testing.T, status int, contentType, body string) (*httptest.Server, *capturedCall, *int32) {
	t.Helper()
	var calls int32
	captured := &capturedCall{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		captured.method = r.Method
		captured.auth = r.Header.Get("Authorization")
		captured.ctype = r.Header.Get("Content-Type")
		raw, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(raw, &captured.payload)
		if contentType != "" {
			w.Header().Set("Content-Type", contentType)
		}
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv, captured, &calls
}

func TestForwardStructuredReply(t *testing.T) {
	srv, captured, calls := newAgent(t, http.StatusOK, "application/json", `{"answer":"42"}`)
	f := NewForwarder(config.AgentConfig{URL: srv.URL, Auth: "ApiKey s3cret"})

	items := []ContextItem{
		{ID: "2", Title: "b", Text: "text b", MCPURL: "http://docs.test/mcp/document/2/"},
		{ID: "1", Title: "a", Text: "", MCPURL: "http://docs.test/mcp/document/1/"},
	}
	reply, err := f.Forward(context.Background(), Request{
		Message:   "  what is the answer?  ",
		Items:     items,
		SourceURL: "http://docs.test/mcp/manifest/",
	})
	require.NoError(t, err)
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))

	assert.Equal(t, http.MethodPost, captured.method)
	assert.Equal(t, "ApiKey s3cret", captured.auth)
	assert.Equal(t, "application/json", captured.ctype)
	assert.Equal(t, "what is the answer?", captured.payload.Input)
	assert.Equal(t, "http://docs.test/mcp/manifest/", captured.payload.MCPContext.Source)
	assert.Equal(t, items, captured.payload.MCPContext.Documents)
	assert.Equal(t, ForwardVia, captured.payload.Metadata.Via)

	structured, ok := reply.(StructuredReply)
	require.True(t, ok, "expected StructuredReply, got %T", reply)
	assert.JSONEq(t, `{"answer":"42"}`, string(structured.AgentResponse))
	assert.Equal(t, captured.payload, structured.Sent)
}

func TestForwardOmitsEmptyAuth(t *testing.T) {
	srv, captured, _ := newAgent(t, http.StatusOK, "application/json", `[]`)

	_, err := NewForwarder(config.AgentConfig{URL: srv.URL}).Forward(context.Background(), Request{Message: "hi"})
	require.NoError(t, err)
	assert.Empty(t, captured.auth)
	assert.NotNil(t, captured.payload.MCPContext.Documents)
}

func TestForwardRawReplyPassthrough(t *testing.T) {
	srv, _, _ := newAgent(t, http.StatusAccepted, "text/event-stream", "data: hello\n\n")

	reply, err := NewForwarder(config.AgentConfig{URL: srv.URL}).Forward(context.Background(), Request{Message: "hi"})
	require.NoError(t, err)

	raw, ok := reply.(RawReply)
	require.True(t, ok, "expected RawReply, got %T", reply)
	assert.Equal(t, http.StatusAccepted, raw.StatusCode)
	assert.Equal(t, "text/event-stream", raw.ContentType)
	assert.Equal(t, "data: hello\n\n", string(raw.Body))
}

func TestForwardRawReplyDefaultsContentType(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header()["Content-Type"] = nil
		w.WriteHeader(http.StatusInternalServerError)
	}))
	t.Cleanup(srv.Close)

	reply, err := NewForwarder(config.AgentConfig{URL: srv.URL}).Forward(context.Background(), Request{Message: "hi"})
	require.NoError(t, err)
	raw, ok := reply.(RawReply)
	require.True(t, ok, "expected RawReply, got %T", reply)
	assert.Equal(t, http.StatusInternalServerError, raw.StatusCode)
	assert.Equal(t, "text/plain", raw.ContentType)
	assert.Empty(t, raw.Body)
}

func TestForwardValidatesBeforeNetwork(t *testing.T) {
	srv, _, calls := newAgent(t, http.StatusOK, "application/json", `{}`)

	_, err := NewForwarder(config.AgentConfig{URL: srv.URL}).Forward(context.Background(), Request{Message: " \t\n"})
	assert.ErrorIs(t, err, ErrInvalidRequest)

	_, err = NewForwarder(config.AgentConfig{}).Forward(context.Background(), Request{Message: "hi"})
	assert.ErrorIs(t, err, ErrMisconfigured)

	assert.EqualValues(t, 0, atomic.LoadInt32(calls))
}

func TestForwardUnreachableIsUpstreamError(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().String()
	require.NoError(t, ln.Close())

	_, err = NewForwarder(config.AgentConfig{URL: "http://" + addr}).Forward(context.Background(), Request{Message: "hi"})
	require.Error(t, err)

	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream), "expected UpstreamError, got %v", err)
	assert.False(t, errors.Is(err, ErrMisconfigured))
	assert.NotEmpty(t, upstream.Err.Error())
}

func TestForwardTimeoutIsUpstreamError(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	t.Cleanup(func() {
		close(release)
		srv.Close()
	})

	f := NewForwarder(config.AgentConfig{URL: srv.URL, Timeout: 50 * time.Millisecond})
	_, err := f.Forward(context.Background(), Request{Message: "hi"})

	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream), "expected UpstreamError, got %v", err)
}

func TestForwardOversizedReplyIsUpstreamError(t *testing.T) {
	srv, _, calls := newAgent(t, http.StatusOK, "application/json", `{"answer":"far too long"}`)
	f := NewForwarder(config.AgentConfig{URL: srv.URL})
	f.MaxReplyBytes = 10

	reply, err := f.Forward(context.Background(), Request{Message: "hi"})
	assert.Nil(t, reply)
	var upstream *UpstreamError
	require.True(t, errors.As(err, &upstream), "expected UpstreamError, got %v", err)
	assert.Contains(t, upstream.Err.Error(), "exceeds 10 bytes")
	assert.EqualValues(t, 1, atomic.LoadInt32(calls))

	f.MaxReplyBytes = int64(len(`{"answer":"far too long"}`))
	reply, err = f.Forward(context.Background(), Request{Message: "hi"})
	require.NoError(t, err)
	assert.IsType(t, StructuredReply{}, reply)
}

func TestNewForwarderDefaultsTimeout(t *testing.T) {
	f := NewForwarder(config.AgentConfig{URL: "http://agent"})
	assert.Equal(t, 30*time.Second, f.Client.Timeout)
}
