package export

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/jobtrawl/jobtrawl/internal/core"
	"github.com/xuri/excelize/v2"
)

// ExportToExcel writes applications to an xlsx workbook with one sheet of
// applications sorted as given
func ExportToExcel(apps []*core.Application, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	if !strings.HasSuffix(strings.ToLower(outputPath), ".xlsx") {
		outputPath = outputPath + ".xlsx"
	}
	outputPath = filepath.Clean(outputPath)

	sheet := "Applications"
	f.SetSheetName("Sheet1", sheet)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for col, header := range csvHeaders {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	if err := f.SetRowStyle(sheet, 1, 1, headerStyle); err != nil {
		return fmt.Errorf("failed to style header row: %w", err)
	}

	f.SetColWidth(sheet, "A", "B", 30)
	f.SetColWidth(sheet, "C", "H", 16)
	f.SetColWidth(sheet, "I", "K", 40)

	for i, app := range apps {
		remotePolicy := ""
		if app.RemotePolicy != nil {
			remotePolicy = *app.RemotePolicy
		}

		row := []interface{}{
			app.Company,
			app.Role,
			string(app.Status),
			app.Location,
			remotePolicy,
			app.DateApplied,
			app.LastUpdate,
			app.ConfidenceScore,
			app.Source,
			app.EmailID,
			app.Notes,
		}

		startCell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetSheetRow(sheet, startCell, &row); err != nil {
			return fmt.Errorf("failed to write row: %w", err)
		}
	}

	if err := f.SaveAs(outputPath); err != nil {
		return fmt.Errorf("failed to save Excel file: %w", err)
	}

	return nil
}
