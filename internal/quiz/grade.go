package quiz

import (
	"errors"
	"math"
	"strings"
)

var (
	// ErrNoStandardAnswers is returned when grading a session without standard answers.
	ErrNoStandardAnswers = errors.New("no standard answers")
	// ErrNoUserAnswers is returned when grading a session where nothing was selected.
	ErrNoUserAnswers = errors.New("no user answers")
)

// Status is the per-question grading outcome.
type Status string

const (
	StatusCorrect    Status = "correct"
	StatusWrong      Status = "wrong"
	StatusUnanswered Status = "unanswered"
)

// Mark annotates a rendered option after grading.
type Mark string

const (
	MarkNone    Mark = ""
	MarkCorrect Mark = "correct"
	MarkWrong   Mark = "wrong"
)

// GradedOption is an option with its post-grading annotation.
type GradedOption struct {
	Option
	Selected bool
	Mark     Mark
}

// GradedQuestion is the grading outcome for one question.
type GradedQuestion struct {
	ID          int
	Text        string
	Standard    string
	User        string
	Status      Status
	Explanation string
	Options     []GradedOption
}

// Result is the outcome of grading a session.
type Result struct {
	Correct   int
	Total     int
	Percent   int
	Questions []GradedQuestion
}

// Grade compares the session's selections against its standard answers. The session is
// only read. Standard answers are checked before user answers.
func Grade(session *Session) (Result, error) {
	if session == nil || session.standard.len() == 0 {
		return Result{}, ErrNoStandardAnswers
	}
	if session.user.len() == 0 {
		return Result{}, ErrNoUserAnswers
	}

	result := Result{Total: session.standard.len()}
	for _, id := range session.StandardIDs() {
		raw, _ := session.StandardAnswer(id)
		standard, _ := ResolveStandardAnswer(raw)
		user, answered := session.UserAnswer(id)

		graded := GradedQuestion{
			ID:       id,
			Standard: standard,
			User:     user,
			Status:   StatusUnanswered,
		}
		if answered {
			graded.Status = StatusWrong
			if standard != "" && strings.EqualFold(standard, user) {
				graded.Status = StatusCorrect
				result.Correct++
			}
		}
		if explanation, ok := session.Explanation(id); ok {
			graded.Explanation = explanation
		}
		if question, ok := session.Question(id); ok {
			graded.Text = question.Text
			graded.Options = markOptions(question.Options, standard, user)
		}
		result.Questions = append(result.Questions, graded)
	}
	result.Percent = Percent(result.Correct, result.Total)
	return result, nil
}

// Percent returns round(100*correct/total), or 0 when total is 0.
func Percent(correct, total int) int {
	if total <= 0 {
		return 0
	}
	return int(math.Round(float64(correct) / float64(total) * 100))
}

func markOptions(options []Option, standard, user string) []GradedOption {
	out := make([]GradedOption, 0, len(options))
	for _, option := range options {
		graded := GradedOption{Option: option, Selected: user != "" && option.Letter == user}
		switch {
		case standard != "" && strings.EqualFold(option.Letter, standard):
			graded.Mark = MarkCorrect
		case graded.Selected:
			graded.Mark = MarkWrong
		}
		out = append(out, graded)
	}
	return out
}
