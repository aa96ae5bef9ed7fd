package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ragclass/internal/api"
)

// Ask sends a question within the stored conversation and persists the returned id.
func (a *Assistant) Ask(ctx context.Context, question string) (api.QueryResponse, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return api.QueryResponse{}, ErrEmptyQuestion
	}
	sessionID, err := a.store.SessionID()
	if err != nil {
		return api.QueryResponse{}, fmt.Errorf("load session: %w", err)
	}
	resp, err := a.backend.Query(ctx, api.QueryRequest{Question: question, SessionID: sessionID})
	if err != nil {
		return api.QueryResponse{}, fmt.Errorf("ask: %w", err)
	}
	if resp.SessionID != "" && resp.SessionID != sessionID {
		if err := a.store.SetSessionID(resp.SessionID); err != nil {
			return resp, fmt.Errorf("save session: %w", err)
		}
		a.logger.Printf("chat: conversation %s", resp.SessionID)
	}
	return resp, nil
}

// History loads the stored conversation. With no stored conversation it returns nil.
// An expired conversation is forgotten and reported as api.ErrSessionExpired.
func (a *Assistant) History(ctx context.Context) ([]api.Message, error) {
	sessionID, err := a.store.SessionID()
	if err != nil {
		return nil, fmt.Errorf("load session: %w", err)
	}
	if sessionID == "" {
		return nil, nil
	}
	history, err := a.backend.Conversation(ctx, sessionID)
	if err != nil {
		if errors.Is(err, api.ErrSessionExpired) {
			a.logger.Printf("chat: conversation %s expired", sessionID)
			if clearErr := a.store.Clear(); clearErr != nil {
				return nil, fmt.Errorf("clear expired session: %w", clearErr)
			}
		}
		return nil, err
	}
	return history, nil
}

// ClearChat forgets the stored conversation.
func (a *Assistant) ClearChat() error {
	return a.store.Clear()
}
