// Package report exports training reports as spreadsheets.
package report

import (
	"fmt"
	"io"
	"math"

	"github.com/xuri/excelize/v2"

	"AgriPull/internal/domain/models"
)

const (
	scoresSheet = "Scores"
	vocabSheet  = "Vocabulary"
)

var scoreHeaders = []string{"Column", "Samples", "Holdout", "MAE", "RMSE", "R2", "Skipped"}

// WriteTrainingXLSX writes one sheet of per-column accuracy and one sheet
// of the category vocabulary with its codes.
func WriteTrainingXLSX(w io.Writer, rep models.TrainingReport) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", scoresSheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	for i, h := range scoreHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		f.SetCellValue(scoresSheet, cell, h)
	}
	f.SetColWidth(scoresSheet, "A", "A", 22)
	f.SetColWidth(scoresSheet, "B", "G", 12)

	for i, sc := range rep.Scores {
		row := i + 2
		f.SetCellValue(scoresSheet, fmt.Sprintf("A%d", row), string(sc.Column))
		f.SetCellValue(scoresSheet, fmt.Sprintf("B%d", row), sc.Samples)
		f.SetCellValue(scoresSheet, fmt.Sprintf("C%d", row), sc.Holdout)
		if sc.Skipped {
			f.SetCellValue(scoresSheet, fmt.Sprintf("G%d", row), sc.SkipNote)
			continue
		}
		f.SetCellValue(scoresSheet, fmt.Sprintf("D%d", row), round4(sc.MAE))
		f.SetCellValue(scoresSheet, fmt.Sprintf("E%d", row), round4(sc.RMSE))
		f.SetCellValue(scoresSheet, fmt.Sprintf("F%d", row), round4(sc.R2))
	}
	summary := len(rep.Scores) + 3
	f.SetCellValue(scoresSheet, fmt.Sprintf("A%d", summary), "Trained at")
	f.SetCellValue(scoresSheet, fmt.Sprintf("B%d", summary), rep.TrainedAt.Format("2006-01-02 15:04:05"))
	f.SetCellValue(scoresSheet, fmt.Sprintf("A%d", summary+1), "Rows")
	f.SetCellValue(scoresSheet, fmt.Sprintf("B%d", summary+1), rep.Rows)

	if _, err := f.NewSheet(vocabSheet); err != nil {
		return fmt.Errorf("new sheet: %w", err)
	}
	f.SetCellValue(vocabSheet, "A1", "Code")
	f.SetCellValue(vocabSheet, "B1", "Vegetable")
	f.SetColWidth(vocabSheet, "B", "B", 24)
	for i, name := range rep.Vocabulary {
		f.SetCellValue(vocabSheet, fmt.Sprintf("A%d", i+2), i)
		f.SetCellValue(vocabSheet, fmt.Sprintf("B%d", i+2), name)
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("write xlsx: %w", err)
	}
	return nil
}

func round4(v float64) float64 { return math.Round(v*1e4) / 1e4 }
