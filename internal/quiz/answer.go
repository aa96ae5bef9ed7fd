package quiz

import (
	"regexp"
	"strings"
)

var letterPattern = regexp.MustCompile(`(?i)[A-D]`)

// NormalizeAnswer converts a raw answer at 0-based position index into an Answer.
// It never fails: anything unresolvable becomes {index+1, "A"}.
func NormalizeAnswer(raw RawAnswer, index int) Answer {
	fallback := Answer{ID: index + 1, Letter: DefaultAnswer}
	if !raw.Truthy() {
		return fallback
	}
	switch raw.Kind {
	case KindRecord:
		value, ok := recordAnswerValue(raw)
		if !ok {
			return fallback
		}
		letter, ok := ExtractLetter(value.String())
		if !ok {
			return fallback
		}
		id := index + 1
		if rawID, found := raw.Get("id"); found {
			if n, ok := rawID.PositiveInt(); ok {
				id = n
			}
		}
		return Answer{ID: id, Letter: letter}
	case KindText:
		if letter, ok := ExtractLetter(raw.Text); ok {
			return Answer{ID: index + 1, Letter: letter}
		}
	}
	return fallback
}

// ExtractLetter returns the first A-D letter in text, upper-cased. Letters inside words
// count, so "The answer is B" yields A.
func ExtractLetter(text string) (string, bool) {
	match := letterPattern.FindString(text)
	if match == "" {
		return "", false
	}
	return strings.ToUpper(match), true
}

// ResolveStandardAnswer reads a stored standard answer that may be a normalized letter,
// a raw answer string or a record carrying an answer-like field, and extracts its letter.
// Unlike NormalizeAnswer it does not fall back to A.
func ResolveStandardAnswer(raw RawAnswer) (string, bool) {
	switch raw.Kind {
	case KindText:
		return ExtractLetter(raw.Text)
	case KindRecord:
		value, ok := recordAnswerValue(raw)
		if !ok {
			return "", false
		}
		return ExtractLetter(value.String())
	default:
		return "", false
	}
}

// recordAnswerValue prefers a truthy "answer" field, then the first field whose
// lowercased name contains "answer".
func recordAnswerValue(raw RawAnswer) (Value, bool) {
	if value, ok := raw.Get("answer"); ok && value.Truthy() {
		return value, true
	}
	for _, field := range raw.Fields {
		if strings.Contains(strings.ToLower(field.Name), "answer") {
			return field.Value, true
		}
	}
	return Value{}, false
}
