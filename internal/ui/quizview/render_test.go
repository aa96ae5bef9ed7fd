package quizview

import (
	"strings"
	"testing"

	"ragclass/internal/quiz"
)

// TestRenderQuestionsPlain verifies plain blocks list every option.
func TestRenderQuestionsPlain(t *testing.T) {
	session := quiz.NewSession()
	session.LoadBatch(sampleBatch())
	if err := session.Select(2, "A"); err != nil {
		t.Fatalf("select: %v", err)
	}
	out := RenderQuestions(session, true)
	want := "  Question 1\n  What is 2+2?\n    ( ) A. 3\n    ( ) B. 4\n\n  Question 2\n  Pick A\n    (•) A. yes\n    ( ) B. no"
	if out != want {
		t.Fatalf("unexpected plain rendering:\n%s", out)
	}
}

// TestRenderResultMarksOptions verifies wrong picks and correct answers are annotated.
func TestRenderResultMarksOptions(t *testing.T) {
	session := quiz.NewSession()
	session.LoadBatch(sampleBatch())
	if err := session.Select(1, "A"); err != nil {
		t.Fatalf("select: %v", err)
	}
	result, err := quiz.Grade(session)
	if err != nil {
		t.Fatalf("grade: %v", err)
	}
	out := RenderResult(session, result, true)
	for _, want := range []string{"(•) A. 3  ✗", "( ) B. 4  ✓", "Wrong  Answer: B", "Score: 0/2 (0%)"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in %q", want, out)
		}
	}
}

// TestScoreLineColorless verifies the score text without styling.
func TestScoreLineColorless(t *testing.T) {
	if got := ScoreLine(quiz.Result{Correct: 2, Total: 3, Percent: 67}, true); got != "Score: 2/3 (67%)" {
		t.Fatalf("unexpected score line %q", got)
	}
}
