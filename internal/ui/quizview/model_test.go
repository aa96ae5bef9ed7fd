package quizview

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"ragclass/internal/assistant"
	"ragclass/internal/quiz"
)

type stubGenerator struct {
	batch quiz.Batch
	err   error
	stale bool
	calls int
}

func (g *stubGenerator) GenerateQuiz(_ context.Context, count int) (assistant.GeneratedQuiz, error) {
	g.calls++
	if g.err != nil {
		return assistant.GeneratedQuiz{}, g.err
	}
	return assistant.GeneratedQuiz{Requested: count, Batch: g.batch}, nil
}

func (g *stubGenerator) Apply(session *quiz.Session, generated assistant.GeneratedQuiz) error {
	if g.stale {
		return assistant.ErrStaleQuiz
	}
	session.LoadBatch(generated.Batch)
	return nil
}

func sampleBatch() quiz.Batch {
	return quiz.Batch{
		Questions: []quiz.Question{
			{ID: 1, Text: "What is 2+2?", Options: []quiz.Option{{Letter: "A", Text: "3"}, {Letter: "B", Text: "4"}}},
			{ID: 2, Text: "Pick A", Options: []quiz.Option{{Letter: "A", Text: "yes"}, {Letter: "B", Text: "no"}}},
		},
		Answers:      []quiz.Answer{{ID: 1, Letter: "B"}, {ID: 2, Letter: "A"}},
		Explanations: []string{"Arithmetic.", ""},
	}
}

func loadedModel(t *testing.T) Model {
	t.Helper()
	session := quiz.NewSession()
	session.LoadBatch(sampleBatch())
	return New(session, &stubGenerator{batch: sampleBatch()}, Options{NoColor: true})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	updated, _ := m.Update(msg)
	model, ok := updated.(Model)
	if !ok {
		t.Fatalf("unexpected model type %T", updated)
	}
	return model
}

func runes(text string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)}
}

// TestInitGeneratesWhenEmpty verifies an empty session triggers generation.
func TestInitGeneratesWhenEmpty(t *testing.T) {
	generator := &stubGenerator{batch: sampleBatch()}
	m := New(nil, generator, Options{Count: 2, NoColor: true})
	cmd := m.Init()
	if cmd == nil {
		t.Fatalf("expected a generation command")
	}
	if !strings.Contains(m.View(), "generating...") {
		t.Fatalf("expected busy header, got %q", m.View())
	}
	m = update(t, m, cmd())
	if generator.calls != 1 {
		t.Fatalf("expected one generation call, got %d", generator.calls)
	}
	view := m.View()
	if !strings.Contains(view, "Question 1") || !strings.Contains(view, "Question 2") {
		t.Fatalf("expected both question blocks, got %q", view)
	}
	if !strings.Contains(view, "( ) B. 4") {
		t.Fatalf("expected unselected option line, got %q", view)
	}
}

// TestInitSkipsGenerationWhenLoaded verifies a preloaded session is shown as is.
func TestInitSkipsGenerationWhenLoaded(t *testing.T) {
	m := loadedModel(t)
	if cmd := m.Init(); cmd != nil {
		t.Fatalf("expected no initial command")
	}
}

// TestSelectAndSubmit covers a partially answered quiz.
func TestSelectAndSubmit(t *testing.T) {
	m := loadedModel(t)
	m = update(t, m, runes("b"))
	if letter, _ := m.Session().UserAnswer(1); letter != "B" {
		t.Fatalf("expected B selected, got %q", letter)
	}
	if !strings.Contains(m.View(), "(•) B. 4") {
		t.Fatalf("expected selected marker, got %q", m.View())
	}
	m = update(t, m, runes("s"))
	result, ok := m.Result()
	if !ok {
		t.Fatalf("expected graded result")
	}
	if result.Correct != 1 || result.Total != 2 || result.Percent != 50 {
		t.Fatalf("unexpected result %+v", result)
	}
	view := m.View()
	for _, want := range []string{"Score: 1/2 (50%)", "B. 4  ✓", "Unanswered", "Explanation: Arithmetic.", "No explanation provided."} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view %q", want, view)
		}
	}
	m = update(t, m, runes("a"))
	if letter, _ := m.Session().UserAnswer(1); letter != "B" {
		t.Fatalf("selection must be locked after submit, got %q", letter)
	}
}

// TestSubmitWithoutAnswers verifies the precondition message.
func TestSubmitWithoutAnswers(t *testing.T) {
	m := update(t, loadedModel(t), runes("s"))
	if _, ok := m.Result(); ok {
		t.Fatalf("expected no result")
	}
	if !strings.Contains(m.View(), "Select at least one answer before submitting.") {
		t.Fatalf("expected precondition message, got %q", m.View())
	}
}

// TestCursorNavigation verifies arrow keys move between options and questions.
func TestCursorNavigation(t *testing.T) {
	m := loadedModel(t)
	m = update(t, m, tea.KeyMsg{Type: tea.KeyTab})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if letter, _ := m.Session().UserAnswer(2); letter != "B" {
		t.Fatalf("expected B on question 2, got %q", letter)
	}
	if _, ok := m.Session().UserAnswer(1); ok {
		t.Fatalf("question 1 should be unanswered")
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if letter, _ := m.Session().UserAnswer(2); letter != "B" {
		t.Fatalf("cursor must stop at the last option, got %q", letter)
	}
	m = update(t, m, tea.KeyMsg{Type: tea.KeyShiftTab})
	m = update(t, m, runes("c"))
	if !strings.Contains(m.View(), "Question 1 has no option C.") {
		t.Fatalf("expected unknown option message, got %q", m.View())
	}
}

// TestRegenerateWhileBusy verifies a second request is refused while one is in flight.
func TestRegenerateWhileBusy(t *testing.T) {
	generator := &stubGenerator{batch: sampleBatch()}
	m := New(nil, generator, Options{NoColor: true})
	updated, cmd := m.Update(runes("r"))
	m = updated.(Model)
	if cmd != nil {
		t.Fatalf("expected no command while busy")
	}
	if !strings.Contains(m.View(), "Generation already in progress.") {
		t.Fatalf("expected busy message, got %q", m.View())
	}
}

// TestRegenerateResetsQuiz verifies a new batch clears the graded state.
func TestRegenerateResetsQuiz(t *testing.T) {
	m := loadedModel(t)
	m = update(t, m, runes("b"))
	m = update(t, m, runes("s"))
	updated, cmd := m.Update(runes("r"))
	m = updated.(Model)
	if cmd == nil {
		t.Fatalf("expected generation command")
	}
	m = update(t, m, cmd())
	if _, ok := m.Result(); ok {
		t.Fatalf("expected graded state to be cleared")
	}
	if m.Session().Answered() != 0 {
		t.Fatalf("expected selections to be cleared")
	}
}

// TestGenerationErrors verifies failures are shown and stale batches ignored.
func TestGenerationErrors(t *testing.T) {
	failing := &stubGenerator{err: errors.New("server connection error")}
	m := New(nil, failing, Options{NoColor: true})
	m = update(t, m, m.Init()())
	if !strings.Contains(m.View(), "Failed to generate questions: server connection error") {
		t.Fatalf("expected failure message, got %q", m.View())
	}

	stale := &stubGenerator{batch: sampleBatch(), stale: true}
	m = New(nil, stale, Options{NoColor: true})
	m = update(t, m, m.Init()())
	if len(m.Session().Questions()) != 0 {
		t.Fatalf("stale batch must not be loaded")
	}
}

// TestQuitKey verifies q quits.
func TestQuitKey(t *testing.T) {
	_, cmd := loadedModel(t).Update(runes("q"))
	if cmd == nil {
		t.Fatalf("expected quit command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected QuitMsg")
	}
}
