package quizview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"

	"ragclass/internal/assistant"
	"ragclass/internal/quiz"
)

// Generator produces and installs quiz batches.
type Generator interface {
	GenerateQuiz(ctx context.Context, count int) (assistant.GeneratedQuiz, error)
	Apply(session *quiz.Session, generated assistant.GeneratedQuiz) error
}

// Options configures the quiz model.
type Options struct {
	Count   int
	Timeout time.Duration
	NoColor bool
}

type phase int

const (
	phaseLoading phase = iota
	phaseAnswering
	phaseGraded
)

// Model is the interactive quiz renderer.
type Model struct {
	session   *quiz.Session
	generator Generator
	count     int
	timeout   time.Duration
	noColor   bool

	keys  keyMap
	help  help.Model
	table table.Model

	phase     phase
	busy      bool
	focus     int
	cursor    int
	result    quiz.Result
	status    string
	statusErr bool
}

// generatedMsg carries the outcome of a generation request.
type generatedMsg struct {
	quiz assistant.GeneratedQuiz
	err  error
}

// New builds a quiz model. When session holds no questions the model starts by
// generating a batch.
func New(session *quiz.Session, generator Generator, opts Options) Model {
	if session == nil {
		session = quiz.NewSession()
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 120 * time.Second
	}
	t := table.New(
		table.WithColumns(resultColumns()),
		table.WithRows([]table.Row{}),
		table.WithFocused(false),
	)
	t.SetStyles(tableStyles(opts.NoColor))
	m := Model{
		session:   session,
		generator: generator,
		count:     opts.Count,
		timeout:   timeout,
		noColor:   opts.NoColor,
		keys:      defaultKeyMap(),
		help:      help.New(),
		table:     t,
		phase:     phaseAnswering,
	}
	if len(session.Questions()) == 0 {
		m.phase = phaseLoading
		if generator != nil {
			m.busy = true
			m.status = "Generating questions..."
		}
	}
	return m
}

// Init starts generation when no quiz is loaded.
func (m Model) Init() tea.Cmd {
	if m.busy {
		return m.generate()
	}
	return nil
}

func (m Model) generate() tea.Cmd {
	generator, count, timeout := m.generator, m.count, m.timeout
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		generated, err := generator.GenerateQuiz(ctx, count)
		return generatedMsg{quiz: generated, err: err}
	}
}

// Update handles key presses and generation results.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = typed.Width
		m.table.SetWidth(min(typed.Width, 40))
		return m, nil
	case generatedMsg:
		return m.applyGenerated(typed), nil
	case tea.KeyMsg:
		return m.handleKey(typed)
	}
	return m, nil
}

func (m Model) applyGenerated(msg generatedMsg) Model {
	if msg.err == nil {
		if err := m.generator.Apply(m.session, msg.quiz); err != nil {
			if errors.Is(err, assistant.ErrStaleQuiz) {
				return m
			}
			msg.err = err
		}
	}
	m.busy = false
	if msg.err != nil {
		m.setError("Failed to generate questions: " + msg.err.Error())
		return m
	}
	m.phase = phaseAnswering
	m.focus = 0
	m.cursor = 0
	m.result = quiz.Result{}
	m.table.SetRows([]table.Row{})
	m.setInfo(fmt.Sprintf("Loaded %d question(s).", len(m.session.Questions())))
	return m
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Regenerate):
		if m.generator == nil {
			return m, nil
		}
		if m.busy {
			m.setInfo("Generation already in progress.")
			return m, nil
		}
		m.busy = true
		m.setInfo("Generating questions...")
		return m, m.generate()
	}

	questions := m.session.Questions()
	if m.phase == phaseLoading || len(questions) == 0 {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Next):
		m.moveFocus(1)
	case key.Matches(msg, m.keys.Prev):
		m.moveFocus(-1)
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(questions[m.focus].Options)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Select):
		q := questions[m.focus]
		m.choose(q, q.Options[m.cursor].Letter)
	case key.Matches(msg, m.keys.Letter):
		m.choose(questions[m.focus], strings.ToUpper(msg.String()))
	case key.Matches(msg, m.keys.Submit):
		m.submit()
	}
	return m, nil
}

func (m *Model) moveFocus(delta int) {
	questions := m.session.Questions()
	next := m.focus + delta
	if next < 0 || next >= len(questions) {
		return
	}
	m.focus = next
	m.cursor = 0
	if letter, ok := m.session.UserAnswer(questions[next].ID); ok {
		for i, option := range questions[next].Options {
			if option.Letter == letter {
				m.cursor = i
			}
		}
	}
}

func (m *Model) choose(q quiz.Question, letter string) {
	if m.phase == phaseGraded {
		m.setInfo("Quiz already submitted; press r for a new quiz.")
		return
	}
	if err := m.session.Select(q.ID, letter); err != nil {
		m.setError(fmt.Sprintf("Question %d has no option %s.", q.ID, letter))
		return
	}
	for i, option := range q.Options {
		if option.Letter == letter {
			m.cursor = i
		}
	}
	m.setInfo(fmt.Sprintf("Answered %d of %d.", m.session.Answered(), len(m.session.Questions())))
}

func (m *Model) submit() {
	if m.phase == phaseGraded {
		return
	}
	result, err := quiz.Grade(m.session)
	switch {
	case errors.Is(err, quiz.ErrNoStandardAnswers):
		m.setError("No standard answers available; generate a quiz first.")
		return
	case errors.Is(err, quiz.ErrNoUserAnswers):
		m.setError("Select at least one answer before submitting.")
		return
	case err != nil:
		m.setError(err.Error())
		return
	}
	m.result = result
	m.phase = phaseGraded
	m.table.SetRows(resultRows(result))
	m.setInfo(fmt.Sprintf("Submitted: %d of %d correct.", result.Correct, result.Total))
}

func (m *Model) setInfo(text string) {
	m.status = text
	m.statusErr = false
}

func (m *Model) setError(text string) {
	m.status = text
	m.statusErr = true
}

// Result returns the graded result once the quiz was submitted.
func (m Model) Result() (quiz.Result, bool) {
	return m.result, m.phase == phaseGraded
}

// Session returns the session the model renders.
func (m Model) Session() *quiz.Session {
	return m.session
}

// View renders the quiz.
func (m Model) View() string {
	sections := []string{m.header()}
	questions := m.session.Questions()
	if m.phase == phaseLoading || len(questions) == 0 {
		if !m.busy && m.status == "" {
			sections = append(sections, stylize("No quiz loaded. Press r to generate one.", m.noColor, colorMuted))
		}
	} else {
		for i, q := range questions {
			selected, _ := m.session.UserAnswer(q.ID)
			opts := BlockOptions{Selected: selected, Focused: i == m.focus, Cursor: m.cursor, NoColor: m.noColor}
			if m.phase == phaseGraded && i < len(m.result.Questions) {
				graded := m.result.Questions[i]
				opts.Graded = &graded
			}
			sections = append(sections, QuestionBlock(q, opts))
		}
		if m.phase == phaseGraded {
			sections = append(sections, ScoreLine(m.result, m.noColor), m.table.View())
		}
	}
	if m.status != "" {
		color := colorMuted
		if m.statusErr {
			color = colorWrong
		}
		sections = append(sections, stylize(m.status, m.noColor, color))
	}
	sections = append(sections, m.help.View(m.keys))
	return strings.Join(sections, "\n\n")
}

func (m Model) header() string {
	total := len(m.session.Questions())
	line := "Course Quiz"
	if total > 0 {
		line += fmt.Sprintf(" | %d question(s) | answered %d/%d", total, m.session.Answered(), total)
	}
	if m.busy {
		line += " | generating..."
	}
	return stylizeBold(line, m.noColor, colorTitle)
}
