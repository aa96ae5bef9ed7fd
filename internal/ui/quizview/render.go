package quizview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"ragclass/internal/quiz"
)

var (
	colorTitle   = lipgloss.Color("33")
	colorMuted   = lipgloss.Color("242")
	colorFocus   = lipgloss.Color("212")
	colorCorrect = lipgloss.Color("42")
	colorWrong   = lipgloss.Color("196")
	colorNotice  = lipgloss.Color("214")
)

// BlockOptions controls how a question block is drawn.
type BlockOptions struct {
	// Selected is the user's letter, or "".
	Selected string
	Focused  bool
	// Cursor is the highlighted option index, or -1 for none.
	Cursor int
	// Graded, when set, annotates options and shows the explanation.
	Graded  *quiz.GradedQuestion
	NoColor bool
}

// QuestionBlock renders one question: a "Question N" title, the text, and its options.
func QuestionBlock(q quiz.Question, opts BlockOptions) string {
	var b strings.Builder
	title := fmt.Sprintf("Question %d", q.ID)
	if opts.Focused {
		b.WriteString(stylizeBold("▌ "+title, opts.NoColor, colorFocus))
	} else {
		b.WriteString(stylizeBold("  "+title, opts.NoColor, colorTitle))
	}
	b.WriteString("\n  ")
	b.WriteString(q.Text)
	b.WriteString("\n")

	for i, option := range q.Options {
		b.WriteString(optionLine(option, i, opts))
		b.WriteString("\n")
	}

	if opts.Graded != nil {
		b.WriteString(gradedFooter(*opts.Graded, opts.NoColor))
	}
	return strings.TrimRight(b.String(), "\n")
}

func optionLine(option quiz.Option, index int, opts BlockOptions) string {
	pointer := "  "
	if opts.Focused && opts.Cursor == index {
		pointer = "> "
	}
	radio := "( )"
	if option.Letter == opts.Selected {
		radio = "(•)"
	}
	line := fmt.Sprintf("  %s%s %s. %s", pointer, radio, option.Letter, option.Text)

	if opts.Graded == nil {
		if opts.Focused && opts.Cursor == index {
			return stylize(line, opts.NoColor, colorFocus)
		}
		return line
	}
	switch markFor(*opts.Graded, option.Letter) {
	case quiz.MarkCorrect:
		return stylize(line+"  ✓", opts.NoColor, colorCorrect)
	case quiz.MarkWrong:
		return stylize(line+"  ✗", opts.NoColor, colorWrong)
	default:
		return line
	}
}

func markFor(graded quiz.GradedQuestion, letter string) quiz.Mark {
	for _, option := range graded.Options {
		if option.Letter == letter {
			return option.Mark
		}
	}
	return quiz.MarkNone
}

func gradedFooter(graded quiz.GradedQuestion, noColor bool) string {
	var b strings.Builder
	verdict := StatusLabel(graded.Status)
	color := colorWrong
	switch graded.Status {
	case quiz.StatusCorrect:
		color = colorCorrect
	case quiz.StatusUnanswered:
		color = colorNotice
	}
	b.WriteString("  ")
	b.WriteString(stylizeBold(verdict, noColor, color))
	b.WriteString(stylize(fmt.Sprintf("  Answer: %s", graded.Standard), noColor, colorMuted))
	b.WriteString("\n  ")
	explanation := graded.Explanation
	if strings.TrimSpace(explanation) == "" {
		explanation = "No explanation provided."
	}
	b.WriteString(stylize("Explanation: "+explanation, noColor, colorMuted))
	return b.String()
}

// StatusLabel returns the display label for a grading status.
func StatusLabel(status quiz.Status) string {
	switch status {
	case quiz.StatusCorrect:
		return "Correct"
	case quiz.StatusWrong:
		return "Wrong"
	default:
		return "Unanswered"
	}
}

// ScoreLine renders the overall score.
func ScoreLine(result quiz.Result, noColor bool) string {
	line := fmt.Sprintf("Score: %d/%d (%d%%)", result.Correct, result.Total, result.Percent)
	color := colorWrong
	switch {
	case result.Percent >= 80:
		color = colorCorrect
	case result.Percent >= 50:
		color = colorNotice
	}
	return stylizeBold(line, noColor, color)
}

// RenderQuestions renders every question of a session for plain output.
func RenderQuestions(session *quiz.Session, noColor bool) string {
	blocks := make([]string, 0, len(session.Questions()))
	for _, q := range session.Questions() {
		selected, _ := session.UserAnswer(q.ID)
		blocks = append(blocks, QuestionBlock(q, BlockOptions{Selected: selected, Cursor: -1, NoColor: noColor}))
	}
	return strings.Join(blocks, "\n\n")
}

// RenderResult renders graded questions followed by the score for plain output.
func RenderResult(session *quiz.Session, result quiz.Result, noColor bool) string {
	blocks := make([]string, 0, len(result.Questions)+1)
	for i := range result.Questions {
		graded := result.Questions[i]
		q, ok := session.Question(graded.ID)
		if !ok {
			continue
		}
		blocks = append(blocks, QuestionBlock(q, BlockOptions{Selected: graded.User, Cursor: -1, Graded: &graded, NoColor: noColor}))
	}
	blocks = append(blocks, ScoreLine(result, noColor))
	return strings.Join(blocks, "\n\n")
}

// stylize applies optional color styling.
func stylize(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Foreground(color).Render(text)
}

func stylizeBold(text string, noColor bool, color lipgloss.Color) string {
	if noColor {
		return text
	}
	return lipgloss.NewStyle().Bold(true).Foreground(color).Render(text)
}
