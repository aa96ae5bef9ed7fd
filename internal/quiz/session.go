package quiz

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownQuestion is returned when selecting an option for an id outside the batch.
	ErrUnknownQuestion = errors.New("unknown question")
	// ErrUnknownOption is returned when selecting a letter the question does not offer.
	ErrUnknownOption = errors.New("unknown option")
)

// Session holds the state of one displayed quiz batch: the questions, their standard
// answers and explanations, and the user's selections. It is owned by a single UI loop
// and is not safe for concurrent use.
type Session struct {
	questions    []Question
	positions    map[int]int
	standard     orderedMap[RawAnswer]
	user         orderedMap[string]
	explanations orderedMap[string]
}

// NewSession returns an empty session.
func NewSession() *Session {
	s := &Session{}
	s.Reset()
	return s
}

// Reset clears all batch state.
func (s *Session) Reset() {
	s.questions = nil
	s.positions = map[int]int{}
	s.standard.reset()
	s.user.reset()
	s.explanations.reset()
}

// Load resets the session and installs a new batch. Answers and explanations are
// index-aligned with questions; a missing answer defaults to "A".
func (s *Session) Load(questions []Question, answers []Answer, explanations []string) {
	s.Reset()
	s.questions = append([]Question(nil), questions...)
	for i, question := range s.questions {
		s.positions[question.ID] = i
		letter := DefaultAnswer
		if i < len(answers) && answers[i].Letter != "" {
			letter = answers[i].Letter
		}
		s.standard.set(question.ID, TextValue(letter))
		if i < len(explanations) && strings.TrimSpace(explanations[i]) != "" {
			s.explanations.set(question.ID, explanations[i])
		}
	}
}

// LoadBatch installs a processed batch.
func (s *Session) LoadBatch(batch Batch) {
	s.Load(batch.Questions, batch.Answers, batch.Explanations)
}

// SetStandardAnswer stores a standard answer in raw form, as received from the backend.
func (s *Session) SetStandardAnswer(id int, raw RawAnswer) {
	s.standard.set(id, raw)
}

// Select records the user's choice for a question, replacing any earlier choice.
func (s *Session) Select(id int, letter string) error {
	question, ok := s.Question(id)
	if !ok {
		return fmt.Errorf("%w: %d", ErrUnknownQuestion, id)
	}
	letter = strings.ToUpper(strings.TrimSpace(letter))
	for _, option := range question.Options {
		if option.Letter == letter {
			s.user.set(id, letter)
			return nil
		}
	}
	return fmt.Errorf("%w: question %d has no option %q", ErrUnknownOption, id, letter)
}

// Questions returns the batch questions in display order.
func (s *Session) Questions() []Question {
	return s.questions
}

// Question looks up a question by id.
func (s *Session) Question(id int) (Question, bool) {
	pos, ok := s.positions[id]
	if !ok {
		return Question{}, false
	}
	return s.questions[pos], true
}

// UserAnswer returns the selected letter for a question.
func (s *Session) UserAnswer(id int) (string, bool) {
	return s.user.get(id)
}

// StandardAnswer returns the stored standard answer for a question.
func (s *Session) StandardAnswer(id int) (RawAnswer, bool) {
	return s.standard.get(id)
}

// StandardIDs lists question ids with a standard answer, in question order.
func (s *Session) StandardIDs() []int {
	return s.standard.ids()
}

// Explanation returns the explanation text for a question.
func (s *Session) Explanation(id int) (string, bool) {
	return s.explanations.get(id)
}

// Answered returns how many questions have a selection.
func (s *Session) Answered() int {
	return s.user.len()
}
