package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/jobtrawl/jobtrawl/internal/core"
)

var csvHeaders = []string{
	"Company",
	"Role",
	"Status",
	"Location",
	"Remote Policy",
	"Date Applied",
	"Last Update",
	"Confidence",
	"Source",
	"Email ID",
	"Notes",
}

// CSVExporter writes applications to a CSV file
type CSVExporter struct {
	filename string
}

// NewCSVExporter creates a CSV exporter targeting filename
func NewCSVExporter(filename string) *CSVExporter {
	return &CSVExporter{
		filename: filename,
	}
}

// Export writes the applications to the target file
func (e *CSVExporter) Export(apps []*core.Application) error {
	file, err := os.Create(e.filename)
	if err != nil {
		return fmt.Errorf("create CSV file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(csvHeaders); err != nil {
		return fmt.Errorf("write CSV headers: %w", err)
	}

	for _, app := range apps {
		remotePolicy := ""
		if app.RemotePolicy != nil {
			remotePolicy = *app.RemotePolicy
		}

		record := []string{
			app.Company,
			app.Role,
			string(app.Status),
			app.Location,
			remotePolicy,
			app.DateApplied,
			app.LastUpdate,
			strconv.Itoa(app.ConfidenceScore),
			app.Source,
			app.EmailID,
			app.Notes,
		}

		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("flush CSV: %w", err)
	}
	return nil
}
