package export

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/SangulugariMadhuGoud/Superbloom/internal/model"
)

const (
	// TimeLayout is the timestamp format used in every export sink.
	TimeLayout = "2006-01-02 15:04:05"

	SheetName = "Registrations"

	CSVContentType  = "text/csv"
	XLSXContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
)

// Header fixes the column order shared by all sinks.
var Header = []string{"Workshop", "Name", "Email", "WhatsApp", "Organization", "Status", "Admin Notes", "Created At"}

type Row struct {
	Workshop     string
	Name         string
	Email        string
	WhatsApp     string
	Organization string
	Status       string
	AdminNotes   string
	CreatedAt    string
}

func (r Row) values() []string {
	return []string{r.Workshop, r.Name, r.Email, r.WhatsApp, r.Organization, r.Status, r.AdminNotes, r.CreatedAt}
}

func FromRegistrations(regs []model.WorkshopRegistration) []Row {
	rows := make([]Row, 0, len(regs))
	for _, reg := range regs {
		rows = append(rows, Row{
			Workshop:     reg.WorkshopTitle,
			Name:         reg.Name,
			Email:        reg.Email,
			WhatsApp:     reg.WhatsApp,
			Organization: reg.Organization,
			Status:       reg.Status,
			AdminNotes:   reg.AdminNotes,
			CreatedAt:    reg.CreatedAt.Format(TimeLayout),
		})
	}
	return rows
}

// WriteCSV streams the header and one line per row. An empty selection
// still produces the header line.
func WriteCSV(w io.Writer, rows []Row) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, row := range rows {
		if err := cw.Write(row.values()); err != nil {
			return fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteXLSX builds a single-sheet workbook named "Registrations" with
// the header row followed by the data rows.
func WriteXLSX(w io.Writer, rows []Row) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	writeRow := func(n int, values []string) error {
		cell, err := excelize.CoordinatesToCellName(1, n)
		if err != nil {
			return err
		}
		cells := make([]any, len(values))
		for i, v := range values {
			cells[i] = v
		}
		return f.SetSheetRow(SheetName, cell, &cells)
	}

	if err := writeRow(1, Header); err != nil {
		return fmt.Errorf("failed to write xlsx header: %w", err)
	}
	for i, row := range rows {
		if err := writeRow(i+2, row.values()); err != nil {
			return fmt.Errorf("failed to write xlsx row: %w", err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

// SheetsSink is the remote-spreadsheet capability the admin export calls
// through. A nil sink means the integration is not configured.
type SheetsSink interface {
	AppendRegistrations(ctx context.Context, rows []Row) error
}
