package chat

import "encoding/json"

// ForwardVia tags every payload sent to the agent.
const ForwardVia = "mcp_chat_app"

// ContextItem is the projection of a document handed to the agent.
type ContextItem struct {
	ID     string `json:"id"`
	Title  string `json:"title"`
	Text   string `json:"text"`
	MCPURL string `json:"mcp_url"`
}

// MCPContext tells the agent where the documents came from.
type MCPContext struct {
	Source    string        `json:"source"`
	Documents []ContextItem `json:"documents"`
}

// Metadata is attached to every forward payload.
type Metadata struct {
	Via string `json:"via"`
}

// ForwardPayload is the JSON body POSTed to the agent.
type ForwardPayload struct {
	Input      string     `json:"input"`
	MCPContext MCPContext `json:"mcp_context"`
	Metadata   Metadata   `json:"metadata"`
}

// Request is one user message plus its assembled context.
type Request struct {
	Message   string
	Items     []ContextItem
	SourceURL string
}

// Reply is the outcome of a successful forward: either a StructuredReply or
// a RawReply.
type Reply interface {
	isReply()
}

// StructuredReply carries an agent response that parsed as JSON.
type StructuredReply struct {
	AgentResponse json.RawMessage `json:"agent_response"`
	Sent          ForwardPayload  `json:"mcp_sent"`
}

// RawReply carries a non-JSON agent response to be relayed verbatim.
type RawReply struct {
	StatusCode  int
	ContentType string
	Body        []byte
}

func (StructuredReply) isReply() {}
func (RawReply) isReply()        {}
