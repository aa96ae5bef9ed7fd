package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
)

// BackendMessage is one conversation turn stored by the fake backend.
type BackendMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// GenerateCall records a question generation request received by the fake backend.
type GenerateCall struct {
	NumQuestions int    `json:"num_questions"`
	Content      string `json:"content"`
	Language     string `json:"language"`
}

// FakeBackend is an in-memory course assistant backend for tests.
type FakeBackend struct {
	URL string

	mu            sync.Mutex
	segments      []string
	conversations map[string][]BackendMessage
	nextSession   int
	generateBody  string
	generateCode  int
	delay         time.Duration
	requestIDs    []string
	generateCalls []GenerateCall
	uploadNames   []string
}

// StartFakeBackend launches a FakeBackend on an httptest server closed at test cleanup.
func StartFakeBackend(t testing.TB) *FakeBackend {
	t.Helper()
	backend := &FakeBackend{conversations: map[string][]BackendMessage{}, generateCode: http.StatusOK}
	server := httptest.NewServer(backend.router())
	t.Cleanup(server.Close)
	backend.URL = server.URL
	return backend
}

// SetSegments replaces the indexed course content.
func (b *FakeBackend) SetSegments(segments ...string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.segments = append([]string(nil), segments...)
}

// SetGenerateResponse fixes the status and raw body returned by /generate_questions.
func (b *FakeBackend) SetGenerateResponse(status int, body string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.generateCode = status
	b.generateBody = body
}

// SetDelay makes every handler wait before responding.
func (b *FakeBackend) SetDelay(delay time.Duration) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.delay = delay
}

// AddConversation seeds a stored conversation.
func (b *FakeBackend) AddConversation(id string, history ...BackendMessage) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.conversations[id] = append([]BackendMessage(nil), history...)
}

// RequestIDs returns the X-Request-ID values seen so far.
func (b *FakeBackend) RequestIDs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requestIDs...)
}

// GenerateCalls returns the generation requests seen so far.
func (b *FakeBackend) GenerateCalls() []GenerateCall {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]GenerateCall(nil), b.generateCalls...)
}

// UploadNames returns the file names received by /api/upload.
func (b *FakeBackend) UploadNames() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.uploadNames...)
}

func (b *FakeBackend) router() http.Handler {
	r := mux.NewRouter()
	r.Use(b.middleware)
	r.HandleFunc("/api/upload", b.handleUpload).Methods(http.MethodPost)
	r.HandleFunc("/api/file-content", b.handleFileContent).Methods(http.MethodGet)
	r.HandleFunc("/api/query", b.handleQuery).Methods(http.MethodPost)
	r.HandleFunc("/api/conversations/{sessionId}", b.handleConversation).Methods(http.MethodGet)
	r.HandleFunc("/generate_questions", b.handleGenerate).Methods(http.MethodPost)
	return r
}

func (b *FakeBackend) middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requestIDs = append(b.requestIDs, r.Header.Get("X-Request-ID"))
		delay := b.delay
		b.mu.Unlock()
		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}
		next.ServeHTTP(w, r)
	})
}

func (b *FakeBackend) handleUpload(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(10 << 20); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "請選擇要上傳的文件"})
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeJSON(w, http.StatusBadRequest, map[string]string{"detail": "請選擇要上傳的文件"})
		return
	}
	var added []string
	var names []string
	for _, header := range files {
		file, err := header.Open()
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "讀取文件時發生錯誤：" + err.Error()})
			return
		}
		data, err := io.ReadAll(file)
		_ = file.Close()
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"detail": "讀取文件時發生錯誤：" + err.Error()})
			return
		}
		names = append(names, header.Filename)
		for _, paragraph := range strings.Split(string(data), "\n\n") {
			if strings.TrimSpace(paragraph) != "" {
				added = append(added, strings.TrimSpace(paragraph))
			}
		}
	}
	b.mu.Lock()
	b.segments = append(b.segments, added...)
	b.uploadNames = append(b.uploadNames, names...)
	b.mu.Unlock()
	message := fmt.Sprintf("成功處理 %d 個文件，共 %d 個段落", len(files), len(added))
	writeJSON(w, http.StatusOK, map[string]string{"message": message})
}

func (b *FakeBackend) handleFileContent(w http.ResponseWriter, _ *http.Request) {
	b.mu.Lock()
	segments := append([]string(nil), b.segments...)
	b.mu.Unlock()
	if len(segments) == 0 {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "尚未上傳課程資料"})
		return
	}
	writeJSON(w, http.StatusOK, map[string][]string{"course_data": segments})
}

type queryRequest struct {
	Question  string `json:"question"`
	SessionID string `json:"session_id"`
}

type queryResponse struct {
	Answer    string           `json:"answer"`
	Sources   string           `json:"sources"`
	SessionID string           `json:"session_id"`
	History   []BackendMessage `json:"history"`
}

func (b *FakeBackend) handleQuery(w http.ResponseWriter, r *http.Request) {
	var req queryRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid request"})
		return
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	sessionID := req.SessionID
	if _, ok := b.conversations[sessionID]; !ok || sessionID == "" {
		b.nextSession++
		sessionID = fmt.Sprintf("session-%d", b.nextSession)
	}
	answer := "Echo: " + req.Question
	history := append(b.conversations[sessionID],
		BackendMessage{Role: "user", Content: req.Question},
		BackendMessage{Role: "assistant", Content: answer},
	)
	b.conversations[sessionID] = history
	writeJSON(w, http.StatusOK, queryResponse{
		Answer:    answer,
		Sources:   "segment 1",
		SessionID: sessionID,
		History:   append([]BackendMessage(nil), history...),
	})
}

func (b *FakeBackend) handleConversation(w http.ResponseWriter, r *http.Request) {
	sessionID := mux.Vars(r)["sessionId"]
	b.mu.Lock()
	history, ok := b.conversations[sessionID]
	history = append([]BackendMessage(nil), history...)
	b.mu.Unlock()
	if !ok {
		writeJSON(w, http.StatusNotFound, map[string]string{"detail": "找不到對話"})
		return
	}
	writeJSON(w, http.StatusOK, map[string][]BackendMessage{"history": history})
}

func (b *FakeBackend) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var call GenerateCall
	if err := json.NewDecoder(r.Body).Decode(&call); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]string{"detail": "invalid request"})
		return
	}
	b.mu.Lock()
	b.generateCalls = append(b.generateCalls, call)
	status, body := b.generateCode, b.generateBody
	b.mu.Unlock()
	if body == "" {
		body = defaultGenerateBody(call.NumQuestions)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, body)
}

// defaultGenerateBody builds n plain-text questions whose answers cycle through A-D.
func defaultGenerateBody(n int) string {
	type payload struct {
		Questions    []string `json:"questions"`
		Answers      []string `json:"answers"`
		Explanations []string `json:"explanations"`
	}
	var p payload
	letters := []string{"A", "B", "C", "D"}
	for i := 0; i < n; i++ {
		p.Questions = append(p.Questions, fmt.Sprintf("Question %d?\nA. one\nB. two\nC. three\nD. four", i+1))
		p.Answers = append(p.Answers, letters[i%len(letters)])
		p.Explanations = append(p.Explanations, fmt.Sprintf("Explanation %d", i+1))
	}
	data, _ := json.Marshal(p)
	return string(data)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	data, _ := json.Marshal(payload)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
