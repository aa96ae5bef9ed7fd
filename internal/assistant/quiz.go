package assistant

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"ragclass/internal/api"
	"ragclass/internal/quiz"
)

// Quiz generation limits.
const (
	DefaultQuestionCount   = 3
	MaxQuestionCount       = 20
	DefaultMaxContentChars = 2000
)

// GeneratedQuiz is a normalized batch tagged with the request that produced it.
type GeneratedQuiz struct {
	Token     quiz.Token
	Requested int
	Batch     quiz.Batch
}

// ClampCount bounds a requested question count to 1..MaxQuestionCount. Zero selects
// fallback.
func ClampCount(count, fallback int) int {
	if count == 0 {
		count = fallback
	}
	if count < 1 {
		return 1
	}
	if count > MaxQuestionCount {
		return MaxQuestionCount
	}
	return count
}

// GenerateQuiz requests count questions about the uploaded content and normalizes them.
// The result must be installed with Apply, which drops it if a newer request was made.
func (a *Assistant) GenerateQuiz(ctx context.Context, count int) (GeneratedQuiz, error) {
	count = ClampCount(count, a.defaultCount)
	token := a.fence.Begin()

	content, err := a.backend.FileContent(ctx)
	if err != nil {
		if errors.Is(err, api.ErrNoContent) {
			return GeneratedQuiz{}, ErrNoCourseContent
		}
		return GeneratedQuiz{}, fmt.Errorf("load content: %w", err)
	}
	combined := truncateRunes(strings.Join(content.CourseData, "\n\n"), a.maxContentChars)
	a.logger.Printf("quiz: requesting %d question(s) from %d segment(s), %d chars", count, len(content.CourseData), len([]rune(combined)))

	payload, err := a.backend.GenerateQuestions(ctx, api.GenerateRequest{
		NumQuestions: count,
		Content:      combined,
		Language:     a.language,
	})
	if err != nil {
		return GeneratedQuiz{}, fmt.Errorf("generate questions: %w", err)
	}
	batch := a.normalizer.Batch(payload, count)
	if len(batch.Questions) == 0 {
		return GeneratedQuiz{}, ErrNoQuestions
	}
	if len(batch.Questions) < count {
		a.logger.Printf("quiz: requested %d question(s), received %d", count, len(batch.Questions))
	}
	return GeneratedQuiz{Token: token, Requested: count, Batch: batch}, nil
}

// Apply installs a generated quiz into session unless a newer request superseded it.
func (a *Assistant) Apply(session *quiz.Session, generated GeneratedQuiz) error {
	if !a.fence.Current(generated.Token) {
		a.logger.Printf("quiz: dropped stale batch (request %d)", generated.Token)
		return ErrStaleQuiz
	}
	session.LoadBatch(generated.Batch)
	return nil
}

func truncateRunes(text string, limit int) string {
	if limit <= 0 {
		return text
	}
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit])
}
