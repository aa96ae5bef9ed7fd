package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"ragclass/internal/quiz"
)

// SheetName is the worksheet graded results are appended to.
const SheetName = "Results"

var header = []any{"taken_at", "attempt", "question_id", "question", "your_answer", "correct_answer", "status", "explanation"}

// AppendResult appends one row per graded question to the workbook at path, creating
// the workbook with a header row when it does not exist.
func AppendResult(path, attemptID string, takenAt time.Time, result quiz.Result) error {
	if path == "" {
		return fmt.Errorf("export path is required")
	}
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create export dir: %w", err)
		}
	}

	f, err := openWorkbook(path)
	if err != nil {
		return err
	}
	defer func() { _ = f.Close() }()

	rows, err := f.GetRows(SheetName)
	if err != nil {
		return fmt.Errorf("read %s: %w", SheetName, err)
	}
	next := len(rows) + 1
	stamp := takenAt.UTC().Format(time.RFC3339)
	for _, question := range result.Questions {
		row := []any{stamp, attemptID, question.ID, question.Text, question.User, question.Standard, string(question.Status), question.Explanation}
		cell, err := excelize.CoordinatesToCellName(1, next)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetName, cell, &row); err != nil {
			return fmt.Errorf("write row %d: %w", next, err)
		}
		next++
	}
	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

func openWorkbook(path string) (*excelize.File, error) {
	if _, err := os.Stat(path); err == nil {
		f, err := excelize.OpenFile(path)
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		if index, err := f.GetSheetIndex(SheetName); err != nil || index == -1 {
			_ = f.Close()
			return nil, fmt.Errorf("%s has no %s sheet", path, SheetName)
		}
		return f, nil
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}

	f := excelize.NewFile()
	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		_ = f.Close()
		return nil, err
	}
	if err := f.SetSheetRow(SheetName, "A1", &header); err != nil {
		_ = f.Close()
		return nil, err
	}
	return f, nil
}
