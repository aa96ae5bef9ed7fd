package quiz

// Letters lists the option letters in display order.
var Letters = []string{"A", "B", "C", "D"}

const (
	// MinOptions is the smallest option count a normalized question carries.
	MinOptions = 2
	// MaxOptions is the largest option count a normalized question carries.
	MaxOptions = 4
	// DefaultAnswer is used when an answer payload cannot be resolved.
	DefaultAnswer = "A"
)

// Option is a single lettered choice.
type Option struct {
	Letter string `json:"letter"`
	Text   string `json:"text"`
}

// Question is a normalized multiple-choice question.
type Question struct {
	ID      int      `json:"id"`
	Text    string   `json:"question"`
	Options []Option `json:"options"`
}

// Answer is a normalized standard answer.
type Answer struct {
	ID     int    `json:"id"`
	Letter string `json:"answer"`
}

// Diagnostic records a payload item that was skipped during normalization.
type Diagnostic struct {
	Index  int
	Reason string
}

// Batch is one generated set of questions, answers and explanations sharing an id space.
type Batch struct {
	Questions    []Question
	Answers      []Answer
	Explanations []string
	Diagnostics  []Diagnostic
}
