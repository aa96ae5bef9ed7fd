package history

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/google/uuid"

	"ragclass/internal/quiz"
)

// Store records graded quiz attempts in a DuckDB file.
type Store struct {
	db    *sql.DB
	now   func() time.Time
	newID func() string
}

// Attempt is one graded quiz.
type Attempt struct {
	ID        string
	TakenAt   time.Time
	Correct   int
	Total     int
	Percent   int
	Questions []AttemptQuestion
}

// AttemptQuestion is the stored outcome of one question in an attempt.
type AttemptQuestion struct {
	ID       int
	Text     string
	Standard string
	User     string
	Status   quiz.Status
}

// Stats summarizes all recorded attempts.
type Stats struct {
	Attempts    int
	Questions   int
	Correct     int
	Accuracy    int
	BestPercent int
	LastTakenAt time.Time
}

// Missed is a question that was answered wrong or left unanswered.
type Missed struct {
	Text  string
	Count int
}

// Open opens (creating if needed) the history database at path and applies the schema.
func Open(ctx context.Context, path string) (*Store, error) {
	if path == "" {
		return nil, errors.New("history: path is required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history dir: %w", err)
	}
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open history: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping history: %w", err)
	}
	if err := EnsureSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply history schema: %w", err)
	}
	return &Store{db: db, now: time.Now, newID: uuid.NewString}, nil
}

// Close releases the database.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record stores a graded result as a new attempt.
func (s *Store) Record(ctx context.Context, result quiz.Result) (Attempt, error) {
	attempt := Attempt{
		ID:      s.newID(),
		TakenAt: s.now().UTC(),
		Correct: result.Correct,
		Total:   result.Total,
		Percent: result.Percent,
	}
	for _, question := range result.Questions {
		attempt.Questions = append(attempt.Questions, AttemptQuestion{
			ID:       question.ID,
			Text:     question.Text,
			Standard: question.Standard,
			User:     question.User,
			Status:   question.Status,
		})
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return Attempt{}, fmt.Errorf("begin attempt: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx,
		`INSERT INTO attempts (attempt_id, taken_at, correct, total, percent) VALUES (?, ?, ?, ?, ?)`,
		attempt.ID, attempt.TakenAt, attempt.Correct, attempt.Total, attempt.Percent,
	); err != nil {
		return Attempt{}, fmt.Errorf("insert attempt: %w", err)
	}
	for _, question := range attempt.Questions {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO attempt_questions (attempt_id, question_id, question_text, standard_answer, user_answer, status)
			 VALUES (?, ?, ?, ?, ?, ?)`,
			attempt.ID, question.ID, question.Text, question.Standard, question.User, string(question.Status),
		); err != nil {
			return Attempt{}, fmt.Errorf("insert attempt question %d: %w", question.ID, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return Attempt{}, fmt.Errorf("commit attempt: %w", err)
	}
	return attempt, nil
}

// Recent returns up to limit attempts, newest first, without their questions.
func (s *Store) Recent(ctx context.Context, limit int) ([]Attempt, error) {
	if limit <= 0 {
		limit = 10
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT attempt_id, taken_at, correct, total, percent
		 FROM attempts ORDER BY taken_at DESC, attempt_id LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()
	var attempts []Attempt
	for rows.Next() {
		var attempt Attempt
		if err := rows.Scan(&attempt.ID, &attempt.TakenAt, &attempt.Correct, &attempt.Total, &attempt.Percent); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		attempts = append(attempts, attempt)
	}
	return attempts, rows.Err()
}

// Questions returns the stored questions of one attempt in question order.
func (s *Store) Questions(ctx context.Context, attemptID string) ([]AttemptQuestion, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT question_id, question_text, standard_answer, user_answer, status
		 FROM attempt_questions WHERE attempt_id = ? ORDER BY question_id`, attemptID)
	if err != nil {
		return nil, fmt.Errorf("query attempt questions: %w", err)
	}
	defer rows.Close()
	var questions []AttemptQuestion
	for rows.Next() {
		var question AttemptQuestion
		var status string
		if err := rows.Scan(&question.ID, &question.Text, &question.Standard, &question.User, &status); err != nil {
			return nil, fmt.Errorf("scan attempt question: %w", err)
		}
		question.Status = quiz.Status(status)
		questions = append(questions, question)
	}
	return questions, rows.Err()
}

// Stats aggregates all recorded attempts.
func (s *Store) Stats(ctx context.Context) (Stats, error) {
	var (
		stats   Stats
		lastAt  sql.NullTime
		correct int64
		total   int64
	)
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*),
		        CAST(COALESCE(SUM(correct), 0) AS BIGINT),
		        CAST(COALESCE(SUM(total), 0) AS BIGINT),
		        COALESCE(MAX(percent), 0),
		        MAX(taken_at)
		 FROM attempts`,
	).Scan(&stats.Attempts, &correct, &total, &stats.BestPercent, &lastAt)
	if err != nil {
		return Stats{}, fmt.Errorf("query stats: %w", err)
	}
	stats.Correct = int(correct)
	stats.Questions = int(total)
	stats.Accuracy = quiz.Percent(stats.Correct, stats.Questions)
	if lastAt.Valid {
		stats.LastTakenAt = lastAt.Time
	}
	return stats, nil
}

// MostMissed returns the questions most often answered wrong or skipped.
func (s *Store) MostMissed(ctx context.Context, limit int) ([]Missed, error) {
	if limit <= 0 {
		limit = 5
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT question_text, CAST(COUNT(*) AS BIGINT) AS misses
		 FROM attempt_questions
		 WHERE status <> ?
		 GROUP BY question_text
		 ORDER BY misses DESC, question_text
		 LIMIT ?`, string(quiz.StatusCorrect), limit)
	if err != nil {
		return nil, fmt.Errorf("query missed questions: %w", err)
	}
	defer rows.Close()
	var missed []Missed
	for rows.Next() {
		var item Missed
		if err := rows.Scan(&item.Text, &item.Count); err != nil {
			return nil, fmt.Errorf("scan missed question: %w", err)
		}
		missed = append(missed, item)
	}
	return missed, rows.Err()
}
