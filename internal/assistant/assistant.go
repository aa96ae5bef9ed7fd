package assistant

import (
	"context"
	"errors"

	"ragclass/internal/api"
	"ragclass/internal/quiz"
	"ragclass/internal/verbose"
)

// Backend is the subset of the backend client used by the workflows.
type Backend interface {
	Upload(ctx context.Context, files []api.UploadFile) (api.UploadResult, error)
	FileContent(ctx context.Context) (api.Content, error)
	Query(ctx context.Context, req api.QueryRequest) (api.QueryResponse, error)
	Conversation(ctx context.Context, sessionID string) ([]api.Message, error)
	GenerateQuestions(ctx context.Context, req api.GenerateRequest) (quiz.Payload, error)
}

// SessionStore persists the current conversation id.
type SessionStore interface {
	SessionID() (string, error)
	SetSessionID(id string) error
	Clear() error
}

var (
	// ErrEmptyQuestion is returned when asking a blank question.
	ErrEmptyQuestion = errors.New("question is empty")
	// ErrNoCourseContent is returned when generating a quiz before any upload.
	ErrNoCourseContent = errors.New("no course content, upload course files first")
	// ErrNoQuestions is returned when the backend produced no usable questions.
	ErrNoQuestions = errors.New("no questions were generated, try again")
	// ErrStaleQuiz is returned when applying a batch superseded by a newer request.
	ErrStaleQuiz = errors.New("quiz superseded by a newer request")
)

// Options configures an Assistant.
type Options struct {
	Backend         Backend
	Store           SessionStore
	Logger          *verbose.Logger
	DefaultCount    int
	MaxContentChars int
	Language        string
}

// Assistant runs the upload, content, chat and quiz workflows.
type Assistant struct {
	backend         Backend
	store           SessionStore
	logger          *verbose.Logger
	normalizer      *quiz.Normalizer
	fence           quiz.Fence
	defaultCount    int
	maxContentChars int
	language        string
}

// New constructs an Assistant.
func New(opts Options) *Assistant {
	defaultCount := opts.DefaultCount
	if defaultCount <= 0 {
		defaultCount = DefaultQuestionCount
	}
	maxContent := opts.MaxContentChars
	if maxContent <= 0 {
		maxContent = DefaultMaxContentChars
	}
	language := opts.Language
	if language == "" {
		language = api.DefaultLanguage
	}
	return &Assistant{
		backend:         opts.Backend,
		store:           opts.Store,
		logger:          opts.Logger,
		normalizer:      quiz.NewNormalizer(opts.Logger),
		defaultCount:    defaultCount,
		maxContentChars: maxContent,
		language:        language,
	}
}
