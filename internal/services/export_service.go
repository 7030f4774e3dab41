package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"
)

// ExportService renders grading results as downloadable workbooks
type ExportService interface {
	ExportResultsToExcel(ctx context.Context, records []GradeRecord) ([]byte, error)
}

type exportService struct {
	logger *slog.Logger
}

func NewExportService(logger *slog.Logger) ExportService {
	return &exportService{logger: logger}
}

func (s *exportService) ExportResultsToExcel(ctx context.Context, records []GradeRecord) ([]byte, error) {
	f := excelize.NewFile()
	sheetName := "Results"

	index, err := f.NewSheet(sheetName)
	if err != nil {
		return nil, fmt.Errorf("failed to create Excel sheet: %w", err)
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{
		"Session", "Graded At", "Correct", "Incorrect", "Unanswered", "Total", "Score (%)",
	}

	for i, header := range headers {
		cell := fmt.Sprintf("%c1", 'A'+i)
		f.SetCellValue(sheetName, cell, header)
	}

	for rowIndex, record := range records {
		score := 0.0
		if record.Summary.Total > 0 {
			score = float64(record.Summary.Correct) / float64(record.Summary.Total) * 100
		}

		row := []interface{}{
			record.SessionName,
			record.GradedAt.Format("2006-01-02 15:04:05"),
			record.Summary.Correct,
			record.Summary.Incorrect,
			record.Summary.Unanswered,
			record.Summary.Total,
			score,
		}

		for colIndex, value := range row {
			cell := fmt.Sprintf("%c%d", 'A'+colIndex, rowIndex+2)
			f.SetCellValue(sheetName, cell, value)
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to write Excel file: %w", err)
	}

	return buf.Bytes(), nil
}
