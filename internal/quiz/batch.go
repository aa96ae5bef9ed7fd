package quiz

import (
	"encoding/json"
	"errors"
	"fmt"
)

// ErrMalformedPayload is returned when a generate response is not a JSON object.
var ErrMalformedPayload = errors.New("malformed question payload")

// Payload is a question generation response before normalization.
type Payload struct {
	Questions    []RawQuestion
	Answers      []RawAnswer
	Explanations []Value
	// Error is the backend-reported failure, if any.
	Error string
}

// DecodePayload decodes a generate response. Fields that are not arrays are treated as empty.
func DecodePayload(data []byte) (Payload, error) {
	var root Value
	if err := json.Unmarshal(data, &root); err != nil {
		return Payload{}, fmt.Errorf("%w: %v", ErrMalformedPayload, err)
	}
	if root.Kind != KindRecord {
		return Payload{}, fmt.Errorf("%w: top-level %s", ErrMalformedPayload, root.Kind)
	}
	var payload Payload
	if value, ok := root.Get("questions"); ok && value.IsArray() {
		payload.Questions = value.Items
	}
	if value, ok := root.Get("answers"); ok && value.IsArray() {
		payload.Answers = value.Items
	}
	if value, ok := root.Get("explanations"); ok && value.IsArray() {
		payload.Explanations = value.Items
	}
	if value, ok := root.Get("error"); ok && value.Truthy() {
		payload.Error = value.String()
	}
	return payload, nil
}

// Batch normalizes a payload into at most requested questions with index-aligned
// answers and explanations. Answer ids follow the ids of the questions they belong to.
func (n *Normalizer) Batch(payload Payload, requested int) Batch {
	var batch Batch
	batch.Diagnostics = n.each(payload.Questions, requested, func(source int, question Question) {
		var raw RawAnswer
		if source < len(payload.Answers) {
			raw = payload.Answers[source]
		}
		answer := NormalizeAnswer(raw, source)
		// A record's own id is replaced: skipped items shift question ids, and grading
		// pairs answers with questions by id.
		answer.ID = question.ID

		explanation := ""
		if source < len(payload.Explanations) {
			explanation = explanationText(payload.Explanations[source])
		}

		batch.Questions = append(batch.Questions, question)
		batch.Answers = append(batch.Answers, answer)
		batch.Explanations = append(batch.Explanations, explanation)
	})
	if len(batch.Questions) != len(payload.Answers) && len(payload.Answers) > 0 {
		n.Logger.Printf("normalize: %d questions but %d answers", len(batch.Questions), len(payload.Answers))
	}
	return batch
}

func explanationText(value Value) string {
	switch value.Kind {
	case KindText:
		return value.Text
	case KindOther:
		if value.Items == nil {
			return value.Literal
		}
	}
	return ""
}
