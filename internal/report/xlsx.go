// Package report exports a learner's course progress as an Excel workbook
// for teacher review.
package report

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/p-n-ai/pai-learn/internal/course"
	"github.com/p-n-ai/pai-learn/internal/progress"
)

const (
	summarySheet = "Summary"
	lessonsSheet = "Lessons"
)

// Build renders the outline and ledger into a two-sheet workbook: a summary
// of points/level/percentage and a per-lesson completion table with quiz
// scores. The caller owns closing the returned file.
func Build(o *course.Outline, ledger *progress.Ledger) (*excelize.File, error) {
	f := excelize.NewFile()

	f.SetSheetName("Sheet1", summarySheet)
	if _, err := f.NewSheet(lessonsSheet); err != nil {
		f.Close()
		return nil, fmt.Errorf("creating lessons sheet: %w", err)
	}

	learnerID := ledger.LearnerID()

	summary := [][]any{
		{"Course", o.Title},
		{"Learner", learnerID},
		{"Points", ledger.Points()},
		{"Level", ledger.Level()},
		{"Progress %", ledger.ProgressPercentage(o.CourseID)},
		{"Lessons completed", fmt.Sprintf("%d / %d", o.CompletedCount(learnerID), o.LessonCount())},
		{"Total duration (min)", o.TotalDurationMinutes()},
	}
	for i, row := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			f.Close()
			return nil, err
		}
		if err := f.SetSheetRow(summarySheet, cell, &row); err != nil {
			f.Close()
			return nil, fmt.Errorf("writing summary row: %w", err)
		}
	}

	header := []any{"Unit", "Lesson", "Duration (min)", "Completed", "Completed at", "Quiz score %"}
	if err := f.SetSheetRow(lessonsSheet, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("writing header: %w", err)
	}

	rowNum := 2
	for _, u := range o.Units {
		for _, l := range u.Lessons {
			completed := "no"
			completedAt := ""
			if t, ok := l.CompletedAt(learnerID); ok {
				completed = "yes"
				completedAt = t.Format("2006-01-02 15:04")
			}
			score := ""
			if s, ok := ledger.QuizScore(l.ID); ok {
				score = fmt.Sprintf("%.1f", s)
			}

			row := []any{u.Title, l.Title, l.DurationMinutes, completed, completedAt, score}
			cell, err := excelize.CoordinatesToCellName(1, rowNum)
			if err != nil {
				f.Close()
				return nil, err
			}
			if err := f.SetSheetRow(lessonsSheet, cell, &row); err != nil {
				f.Close()
				return nil, fmt.Errorf("writing lesson row: %w", err)
			}
			rowNum++
		}
	}

	return f, nil
}

// Write builds the workbook and saves it to path.
func Write(path string, o *course.Outline, ledger *progress.Ledger) error {
	f, err := Build(o, ledger)
	if err != nil {
		return err
	}
	defer f.Close()

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("saving report: %w", err)
	}
	return nil
}
