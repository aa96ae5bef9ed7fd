package quiz

import (
	"regexp"

	"ragclass/internal/verbose"
)

// Rule is one entry in the sanitizer catalog.
type Rule struct {
	Name        string
	Pattern     *regexp.Regexp
	Replacement string
}

// Sanitizer strips generator boilerplate and leaked answers from question text.
type Sanitizer struct {
	// IntroRules are tried in order; only the first rule matching at offset 0 is applied.
	IntroRules []Rule
	// LeakRules are applied in order, replacing every match, until nothing changes.
	LeakRules []Rule
	Logger    *verbose.Logger
}

func rule(name, pattern string) Rule {
	return Rule{Name: name, Pattern: regexp.MustCompile(pattern)}
}

// DefaultIntroRules returns the introductory-phrase catalog in priority order.
func DefaultIntroRules() []Rule {
	return []Rule{
		rule("en-here-are", `(?i)^Here (?:are|is)(?: the)? (?:three|[0-9]+) (?:multiple[- ]choice )?questions?(?: based on(?: the)? (?:provided )?content)?:?\s*`),
		rule("en-based-on", `(?i)^Based on the (?:provided )?(?:content|text|information|material), (?:here (?:are|is)|I['’]ll provide) (?:three|[0-9]+) (?:multiple[- ]choice )?questions?:?\s*`),
		rule("en-ill-create", `(?i)^I['’]ll create (?:three|[0-9]+) (?:multiple[- ]choice )?questions? (?:based on|from)(?: the)? (?:provided )?content:?\s*`),
		rule("en-following-are", `(?i)^Following are (?:three|[0-9]+) (?:multiple[- ]choice )?questions? (?:based on|from)(?: the)? (?:provided )?content:?\s*`),
		rule("en-let-me-create", `(?i)^Let me create (?:three|[0-9]+) (?:multiple[- ]choice )?questions? (?:based on|from)(?: the)? (?:provided )?(?:content|material):?\s*`),
		rule("zh-yixia-shi", `(?i)^以下是(?:基於|根據)(?:提供的|上述的|課程的)?(?:內容|文本)的(?:三|[0-9]+)(?:個|道)(?:選擇題|多選題|問題)[:：]?\s*`),
		rule("zh-xiamian-shi", `(?i)^(?:下面|以下)(?:是|為)(?:三|[0-9]+)(?:個|道)(?:基於|根據)(?:提供的|上述的|課程的)?(?:內容|文本)的(?:選擇題|多選題|問題)[:：]?\s*`),
		rule("zh-genju", `(?i)^根據(?:提供的|上述的|課程的)?(?:內容|文本)，(?:以下|下面)是(?:三|[0-9]+)(?:個|道)(?:選擇題|多選題|問題)[:：]?\s*`),
	}
}

// DefaultLeakRules returns the leaked-answer catalog. Longer phrasings come first so
// that "正確答案為B" is removed whole instead of leaving "正確" behind.
func DefaultLeakRules() []Rule {
	return []Rule{
		rule("zh-zhengque-daan", `正確答案[是為][A-D]`),
		rule("zh-daan-wei", `答案為[A-D]`),
		rule("zh-daan-shi", `答案是[A-D]`),
		rule("en-correct-answer-is", `(?i)correct answer is [A-D]`),
		rule("en-the-answer-is", `(?i)the answer is [A-D]`),
		rule("en-answer-colon", `(?i)answer[：:\s]+[A-D]`),
		rule("zh-daan-colon", `答案[：:\s]+[A-D]`),
	}
}

// NewSanitizer returns a sanitizer with the default catalogs.
func NewSanitizer(logger *verbose.Logger) *Sanitizer {
	return &Sanitizer{
		IntroRules: DefaultIntroRules(),
		LeakRules:  DefaultLeakRules(),
		Logger:     logger,
	}
}

// Sanitize removes leaked answers and then at most one introductory phrase.
func (s *Sanitizer) Sanitize(text string) string {
	return s.StripIntro(s.StripLeaks(text))
}

// StripIntro removes the first introductory phrase that matches at the start of text.
func (s *Sanitizer) StripIntro(text string) string {
	for _, r := range s.IntroRules {
		loc := r.Pattern.FindStringIndex(text)
		if loc == nil || loc[0] != 0 {
			continue
		}
		s.Logger.Printf("sanitize: removed intro (%s): %q", r.Name, text[:loc[1]])
		return r.Replacement + text[loc[1]:]
	}
	return text
}

// maxLeakPasses bounds StripLeaks. A removal can join the text around it into a new
// leak, as in "答案為答案為AB".
const maxLeakPasses = 8

// StripLeaks removes every leaked-answer match and repeats until the text is stable.
func (s *Sanitizer) StripLeaks(text string) string {
	original := text
	for pass := 0; pass < maxLeakPasses; pass++ {
		before := text
		for _, r := range s.LeakRules {
			text = r.Pattern.ReplaceAllLiteralString(text, r.Replacement)
		}
		if text == before {
			break
		}
	}
	if text != original {
		s.Logger.Printf("sanitize: filtered answer text %q -> %q", verbose.Truncate(original, 30), verbose.Truncate(text, 30))
	}
	return text
}
