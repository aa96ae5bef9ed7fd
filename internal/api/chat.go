package api

import (
	"context"
	"net/url"
)

// Message is one turn of a conversation.
type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// QueryRequest asks a question within an optional conversation.
type QueryRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id"`
}

// QueryResponse is the backend's answer with its conversation state.
type QueryResponse struct {
	Answer    string    `json:"answer"`
	Sources   string    `json:"sources"`
	SessionID string    `json:"session_id"`
	History   []Message `json:"history"`
}

// Query sends a question to the retrieval-augmented chat endpoint.
func (c *Client) Query(ctx context.Context, req QueryRequest) (QueryResponse, error) {
	resp, err := c.postJSON(ctx, "/api/query", req)
	if err != nil {
		return QueryResponse{}, err
	}
	if !resp.ok() {
		return QueryResponse{}, decodeHTTPError(resp, "query failed")
	}
	var out QueryResponse
	if err := decodeBody(resp, &out); err != nil {
		return QueryResponse{}, err
	}
	return out, nil
}

type conversationResponse struct {
	History []Message `json:"history"`
}

// Conversation loads the history of a stored session. Any non-2xx response yields
// ErrSessionExpired.
func (c *Client) Conversation(ctx context.Context, sessionID string) ([]Message, error) {
	if sessionID == "" {
		return nil, ErrSessionExpired
	}
	resp, err := c.getJSON(ctx, "/api/conversations/"+url.PathEscape(sessionID))
	if err != nil {
		return nil, err
	}
	if !resp.ok() {
		return nil, ErrSessionExpired
	}
	var out conversationResponse
	if err := decodeBody(resp, &out); err != nil {
		return nil, err
	}
	return out.History, nil
}
