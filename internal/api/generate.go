package api

import (
	"context"
	"fmt"
	"net/http"

	"ragclass/internal/quiz"
)

// DefaultLanguage is the language requested for generated questions.
const DefaultLanguage = "zh-TW"

// GenerateRequest asks the backend to write questions about content.
type GenerateRequest struct {
	NumQuestions int    `json:"num_questions"`
	Content      string `json:"content"`
	Language     string `json:"language"`
}

// GenerateQuestions requests a question batch. A payload carrying an error field is
// returned as a BackendError.
func (c *Client) GenerateQuestions(ctx context.Context, req GenerateRequest) (quiz.Payload, error) {
	if req.Language == "" {
		req.Language = DefaultLanguage
	}
	resp, err := c.postJSON(ctx, "/generate_questions", req)
	if err != nil {
		return quiz.Payload{}, err
	}
	if !resp.ok() {
		return quiz.Payload{}, decodeHTTPError(resp, fmt.Sprintf("question generation failed (%s)", http.StatusText(resp.status)))
	}
	payload, err := quiz.DecodePayload(resp.body)
	if err != nil {
		return quiz.Payload{}, err
	}
	if payload.Error != "" {
		return quiz.Payload{}, &BackendError{Status: resp.status, Message: payload.Error}
	}
	return payload, nil
}
