package quiz

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"ragclass/internal/verbose"
)

var (
	// ErrUnsupportedShape marks payload items that are neither strings nor records.
	ErrUnsupportedShape = errors.New("unsupported question shape")
	// ErrNoQuestionText marks payload items without a usable question string.
	ErrNoQuestionText = errors.New("no question text")
)

// questionFields lists record fields that may carry the question, in priority order.
var questionFields = []string{"question", "text", "content", "questionText", "stem"}

var (
	optionLinePattern   = regexp.MustCompile(`^[A-D][.、:]`)
	optionPrefixPattern = regexp.MustCompile(`^([A-D])[.。、:\s]+(.*)`)
)

// Normalizer converts raw question payloads into Questions.
type Normalizer struct {
	Sanitizer *Sanitizer
	Logger    *verbose.Logger
}

// NewNormalizer returns a normalizer using the default sanitizer catalog.
func NewNormalizer(logger *verbose.Logger) *Normalizer {
	return &Normalizer{Sanitizer: NewSanitizer(logger), Logger: logger}
}

// Questions normalizes up to max items. Items that cannot yield a question are skipped
// and reported as diagnostics; they do not count toward max. A max <= 0 means no limit.
func (n *Normalizer) Questions(raw []RawQuestion, max int) ([]Question, []Diagnostic) {
	var questions []Question
	diagnostics := n.each(raw, max, func(_ int, question Question) {
		questions = append(questions, question)
	})
	return questions, diagnostics
}

// each feeds accepted questions, with their source index, to fn.
func (n *Normalizer) each(raw []RawQuestion, max int, fn func(source int, question Question)) []Diagnostic {
	var diagnostics []Diagnostic
	accepted := 0
	for i, item := range raw {
		if max > 0 && accepted >= max {
			break
		}
		question, err := n.Question(item, accepted+1)
		if err != nil {
			diagnostic := Diagnostic{Index: i, Reason: err.Error()}
			diagnostics = append(diagnostics, diagnostic)
			n.Logger.Printf("normalize: skipped question #%d: %s", i+1, diagnostic.Reason)
			continue
		}
		accepted++
		fn(i, question)
	}
	return diagnostics
}

// Question normalizes a single raw question and assigns it the given id.
func (n *Normalizer) Question(raw RawQuestion, id int) (Question, error) {
	var (
		text    string
		options []RawOption
	)
	switch raw.Kind {
	case KindRecord:
		var ok bool
		text, options, ok = recordQuestion(raw)
		if !ok {
			return Question{}, fmt.Errorf("%w: record has none of %s", ErrNoQuestionText, strings.Join(questionFields, ", "))
		}
	case KindText:
		var ok bool
		text, options, ok = n.textQuestion(raw.Text)
		if !ok {
			return Question{}, ErrNoQuestionText
		}
	default:
		return Question{}, fmt.Errorf("%w: %s", ErrUnsupportedShape, raw.Kind)
	}

	if len(options) == 0 {
		text, options = splitEmbeddedOptions(text)
	}

	return Question{
		ID:      id,
		Text:    strings.TrimSpace(text),
		Options: normalizeOptions(options),
	}, nil
}

// recordQuestion extracts question text and options from a structured record.
func recordQuestion(raw RawQuestion) (string, []RawOption, bool) {
	text := ""
	for _, name := range questionFields {
		value, found := raw.Get(name)
		if found && value.Kind == KindText && strings.TrimSpace(value.Text) != "" {
			text = value.Text
			break
		}
	}
	if text == "" {
		return "", nil, false
	}
	var options []RawOption
	if value, found := raw.Get("options"); found && value.IsArray() {
		options = value.Items
	}
	return text, options, true
}

// textQuestion sanitizes a plain string and splits it into question and option lines.
func (n *Normalizer) textQuestion(raw string) (string, []RawOption, bool) {
	cleaned := raw
	if n.Sanitizer != nil {
		cleaned = n.Sanitizer.Sanitize(raw)
	}
	lines := splitLines(cleaned)
	start := -1
	for i, line := range lines {
		if strings.TrimSpace(line) != "" {
			start = i
			break
		}
	}
	if start == -1 {
		return "", nil, false
	}
	return strings.TrimSpace(lines[start]), optionLines(lines[start+1:]), true
}

// splitEmbeddedOptions pulls option lines out of a multi-line question text.
func splitEmbeddedOptions(text string) (string, []RawOption) {
	lines := splitLines(text)
	if len(lines) < 2 {
		return text, nil
	}
	options := optionLines(lines[1:])
	if len(options) == 0 {
		return text, nil
	}
	return lines[0], options
}

func optionLines(lines []string) []RawOption {
	var options []RawOption
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)
		if optionLinePattern.MatchString(trimmed) {
			options = append(options, TextValue(trimmed))
		}
	}
	return options
}

func splitLines(text string) []string {
	return strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")
}

// normalizeOptions clamps options to MinOptions..MaxOptions and letters them A, B, C, D.
func normalizeOptions(raw []RawOption) []Option {
	if len(raw) > MaxOptions {
		raw = raw[:MaxOptions]
	}
	options := make([]Option, 0, MaxOptions)
	for i, item := range raw {
		letter := Letters[i]
		options = append(options, Option{Letter: letter, Text: optionText(item, letter)})
	}
	for len(options) < MinOptions {
		letter := Letters[len(options)]
		options = append(options, Option{Letter: letter, Text: placeholderOption(letter)})
	}
	return options
}

// optionText strips a leading "A." style prefix or reads a {letter, text} record.
func optionText(raw RawOption, letter string) string {
	switch raw.Kind {
	case KindText:
		if match := optionPrefixPattern.FindStringSubmatch(strings.TrimSpace(raw.Text)); match != nil {
			if text := strings.TrimSpace(match[2]); text != "" {
				return text
			}
			return placeholderOption(letter)
		}
		if text := strings.TrimSpace(raw.Text); text != "" {
			return text
		}
	case KindRecord:
		if value, ok := raw.Get("text"); ok && strings.TrimSpace(value.String()) != "" {
			return strings.TrimSpace(value.String())
		}
	default:
		if text := strings.TrimSpace(raw.String()); text != "" {
			return text
		}
	}
	return placeholderOption(letter)
}

func placeholderOption(letter string) string {
	return "Option " + letter
}
