package api

import (
	"context"
	"fmt"
	"io"
	"net/http"
)

// RoutingDecision is the backend-computed routing block attached to chat
// responses: which agent handled the message and why.
type RoutingDecision struct {
	Agent  string `json:"agent"`
	Reason string `json:"reason"`
}

// ChatResult is the POST /chat response.
type ChatResult struct {
	Response       string           `json:"response"`
	ConversationID string           `json:"conversation_id"`
	Routing        *RoutingDecision `json:"routing,omitempty"`
}

type chatRequest struct {
	Message        string `json:"message"`
	ConversationID string `json:"conversation_id,omitempty"`
}

// SearchResult is one hit of a web search.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

type searchRequest struct {
	Query string `json:"query"`
}

type searchResponse struct {
	Results []SearchResult `json:"results"`
}

type ocrResponse struct {
	Text string `json:"text"`
}

// PulseTask is a scheduled agent task. The client only constructs and lists
// these; persistence and the actual cron run belong to the backend.
type PulseTask struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Prompt   string `json:"prompt"`
	Schedule string `json:"schedule"`
}

type pulseTasksResponse struct {
	Tasks []PulseTask `json:"tasks"`
}

// Chat sends one chat message. conversationID may be empty to start a new
// conversation; the returned ConversationID threads follow-ups.
func (c *Client) Chat(ctx context.Context, message, conversationID string) (*ChatResult, error) {
	var res ChatResult
	req := chatRequest{Message: message, ConversationID: conversationID}
	if err := c.doJSON(ctx, http.MethodPost, "/chat", req, &res, true); err != nil {
		return nil, fmt.Errorf("chat: %w", err)
	}
	return &res, nil
}

// ExtractText uploads a document and returns the text the backend extracted.
func (c *Client) ExtractText(ctx context.Context, filename string, content io.Reader) (string, error) {
	var res ocrResponse
	if err := c.doMultipart(ctx, "/ocr/extract", "file", filename, content, &res); err != nil {
		return "", fmt.Errorf("ocr extract: %w", err)
	}
	return res.Text, nil
}

// Search runs a backend web search.
func (c *Client) Search(ctx context.Context, query string) ([]SearchResult, error) {
	var res searchResponse
	if err := c.doJSON(ctx, http.MethodPost, "/search", searchRequest{Query: query}, &res, true); err != nil {
		return nil, fmt.Errorf("search: %w", err)
	}
	return res.Results, nil
}

// CreateTask persists a scheduled task on the backend.
func (c *Client) CreateTask(ctx context.Context, task PulseTask) error {
	if err := c.doJSON(ctx, http.MethodPost, "/pulse/tasks", task, nil, true); err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

// ListTasks returns the caller's scheduled tasks.
func (c *Client) ListTasks(ctx context.Context) ([]PulseTask, error) {
	var res pulseTasksResponse
	if err := c.doJSON(ctx, http.MethodGet, "/pulse/tasks", nil, &res, true); err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	return res.Tasks, nil
}

// DeleteTask removes a scheduled task by id.
func (c *Client) DeleteTask(ctx context.Context, id string) error {
	if err := c.doJSON(ctx, http.MethodDelete, "/pulse/tasks/"+id, nil, nil, true); err != nil {
		return fmt.Errorf("delete task %s: %w", id, err)
	}
	return nil
}
