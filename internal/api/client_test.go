package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"ragclass/internal/testutil"
	"ragclass/internal/verbose"
)

func newTestClient(t *testing.T, baseURL string) *Client {
	t.Helper()
	client, err := New(Options{BaseURL: baseURL + "/", Timeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return client
}

// TestNewValidatesBaseURL verifies malformed base URLs are rejected.
func TestNewValidatesBaseURL(t *testing.T) {
	if _, err := New(Options{}); err == nil {
		t.Fatalf("expected missing base url error")
	}
	if _, err := New(Options{BaseURL: "localhost:8000"}); err == nil {
		t.Fatalf("expected scheme error")
	}
	client, err := New(Options{BaseURL: "http://localhost:8000//"})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if client.BaseURL() != "http://localhost:8000" {
		t.Fatalf("unexpected base url %q", client.BaseURL())
	}
}

// TestUploadReportsParagraphs verifies multipart upload and paragraph parsing.
func TestUploadReportsParagraphs(t *testing.T) {
	backend := testutil.StartFakeBackend(t)
	client := newTestClient(t, backend.URL)
	ctx := testutil.Context(t, 0)

	result, err := client.Upload(ctx, []UploadFile{
		{Name: "week1.txt", Data: []byte("one\n\ntwo")},
		{Name: "week2.txt", Data: []byte("three")},
	})
	if err != nil {
		t.Fatalf("upload: %v", err)
	}
	if result.Paragraphs != 3 {
		t.Fatalf("expected 3 paragraphs, got %d (%q)", result.Paragraphs, result.Message)
	}
	if names := backend.UploadNames(); len(names) != 2 || names[0] != "week1.txt" {
		t.Fatalf("unexpected upload names %v", names)
	}
}

// TestUploadEdgeCases verifies empty files upload and an empty file list is rejected.
func TestUploadEdgeCases(t *testing.T) {
	backend := testutil.StartFakeBackend(t)
	client := newTestClient(t, backend.URL)
	_, err := client.Upload(testutil.Context(t, 0), []UploadFile{{Name: "empty.txt"}})
	if err != nil {
		t.Fatalf("empty file should still upload: %v", err)
	}
	if _, err := client.Upload(testutil.Context(t, 0), nil); err == nil {
		t.Fatalf("expected error for no files")
	}
}

// TestParagraphCount covers message parsing.
func TestParagraphCount(t *testing.T) {
	cases := []struct {
		message string
		want    int
	}{
		{message: "成功處理 1 個文件，共 12 個段落", want: 12},
		{message: "共3個段落", want: 3},
		{message: "done", want: 0},
		{message: "", want: 0},
	}
	for _, tc := range cases {
		if got := ParagraphCount(tc.message); got != tc.want {
			t.Fatalf("ParagraphCount(%q) = %d, want %d", tc.message, got, tc.want)
		}
	}
}

// TestFileContent verifies content retrieval and the missing-content sentinel.
func TestFileContent(t *testing.T) {
	backend := testutil.StartFakeBackend(t)
	client := newTestClient(t, backend.URL)
	ctx := testutil.Context(t, 0)

	if _, err := client.FileContent(ctx); !errors.Is(err, ErrNoContent) {
		t.Fatalf("expected ErrNoContent, got %v", err)
	}
	backend.SetSegments("alpha", "beta")
	content, err := client.FileContent(ctx)
	if err != nil {
		t.Fatalf("file content: %v", err)
	}
	if content.Text() != "alpha\n\n---\n\nbeta" {
		t.Fatalf("unexpected text view %q", content.Text())
	}
	pretty, err := content.PrettyJSON()
	if err != nil {
		t.Fatalf("pretty json: %v", err)
	}
	if !strings.Contains(pretty, "\n  \"course_data\"") {
		t.Fatalf("expected indented json, got %s", pretty)
	}
}

// TestQueryAndConversation verifies session ids round-trip through chat and history.
func TestQueryAndConversation(t *testing.T) {
	backend := testutil.StartFakeBackend(t)
	client := newTestClient(t, backend.URL)
	ctx := testutil.Context(t, 0)

	first, err := client.Query(ctx, QueryRequest{Question: "What is RAG?"})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if first.SessionID == "" || first.Answer != "Echo: What is RAG?" {
		t.Fatalf("unexpected response %+v", first)
	}
	second, err := client.Query(ctx, QueryRequest{Question: "And retrieval?", SessionID: first.SessionID})
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if second.SessionID != first.SessionID || len(second.History) != 4 {
		t.Fatalf("expected continued session, got %+v", second)
	}
	history, err := client.Conversation(ctx, first.SessionID)
	if err != nil {
		t.Fatalf("conversation: %v", err)
	}
	if len(history) != 4 || history[0].Role != "user" || history[3].Role != "assistant" {
		t.Fatalf("unexpected history %+v", history)
	}
	if _, err := client.Conversation(ctx, "missing"); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired, got %v", err)
	}
	if _, err := client.Conversation(ctx, ""); !errors.Is(err, ErrSessionExpired) {
		t.Fatalf("expected ErrSessionExpired for empty id, got %v", err)
	}
}

// TestGenerateQuestions verifies the request body and payload decoding.
func TestGenerateQuestions(t *testing.T) {
	backend := testutil.StartFakeBackend(t)
	client := newTestClient(t, backend.URL)

	payload, err := client.GenerateQuestions(testutil.Context(t, 0), GenerateRequest{NumQuestions: 2, Content: "course"})
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if len(payload.Questions) != 2 || len(payload.Answers) != 2 {
		t.Fatalf("unexpected payload %+v", payload)
	}
	calls := backend.GenerateCalls()
	if len(calls) != 1 || calls[0].Language != "zh-TW" || calls[0].Content != "course" || calls[0].NumQuestions != 2 {
		t.Fatalf("unexpected generate calls %+v", calls)
	}
}

// TestGenerateQuestionsErrors verifies error payloads and statuses become BackendErrors.
func TestGenerateQuestionsErrors(t *testing.T) {
	backend := testutil.StartFakeBackend(t)
	client := newTestClient(t, backend.URL)
	ctx := testutil.Context(t, 0)

	backend.SetGenerateResponse(http.StatusOK, `{"error":"無法生成題目"}`)
	_, err := client.GenerateQuestions(ctx, GenerateRequest{NumQuestions: 1})
	var backendErr *BackendError
	if !errors.As(err, &backendErr) || backendErr.Message != "無法生成題目" {
		t.Fatalf("expected backend error payload, got %v", err)
	}

	backend.SetGenerateResponse(http.StatusInternalServerError, `oops`)
	_, err = client.GenerateQuestions(ctx, GenerateRequest{NumQuestions: 1})
	if !errors.As(err, &backendErr) || backendErr.Status != http.StatusInternalServerError {
		t.Fatalf("expected http 500 backend error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Internal Server Error") {
		t.Fatalf("expected fallback message, got %q", err.Error())
	}

	backend.SetGenerateResponse(http.StatusBadRequest, `{"detail":[{"loc":["body"],"msg":"field required"}]}`)
	_, err = client.GenerateQuestions(ctx, GenerateRequest{NumQuestions: 1})
	if !errors.As(err, &backendErr) || !strings.Contains(backendErr.Message, "field required") {
		t.Fatalf("expected structured detail, got %v", err)
	}
}

// TestRequestIDsAreUnique verifies each request carries its own correlation id.
func TestRequestIDsAreUnique(t *testing.T) {
	backend := testutil.StartFakeBackend(t)
	client := newTestClient(t, backend.URL)
	ctx := testutil.Context(t, 0)
	for i := 0; i < 3; i++ {
		_, _ = client.FileContent(ctx)
	}
	ids := backend.RequestIDs()
	if len(ids) != 3 {
		t.Fatalf("expected 3 request ids, got %v", ids)
	}
	seen := map[string]bool{}
	for _, id := range ids {
		if id == "" || seen[id] {
			t.Fatalf("unexpected request ids %v", ids)
		}
		seen[id] = true
	}
}

// TestTimeoutIsConnectionError verifies a slow backend surfaces as a connection failure.
func TestTimeoutIsConnectionError(t *testing.T) {
	backend := testutil.StartFakeBackend(t)
	backend.SetDelay(time.Second)
	var logs bytes.Buffer
	client, err := New(Options{BaseURL: backend.URL, Timeout: 50 * time.Millisecond, Logger: verbose.New(&logs, true, true)})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = client.FileContent(testutil.Context(t, 0))
	if !errors.Is(err, ErrServerConnection) {
		t.Fatalf("expected ErrServerConnection, got %v", err)
	}
	if !strings.Contains(logs.String(), "[verbose] api: GET /api/file-content") {
		t.Fatalf("expected request trace, got %q", logs.String())
	}
}

// TestUnreachableBackend verifies transport failures wrap ErrServerConnection.
func TestUnreachableBackend(t *testing.T) {
	client := newTestClient(t, "http://127.0.0.1:1")
	_, err := client.Query(context.Background(), QueryRequest{Question: "hi"})
	if !errors.Is(err, ErrServerConnection) {
		t.Fatalf("expected ErrServerConnection, got %v", err)
	}
}
