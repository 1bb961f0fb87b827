package sheets

import (
	"context"
	"fmt"
	"os"

	"google.golang.org/api/option"
	sheetsv4 "google.golang.org/api/sheets/v4"

	"github.com/SangulugariMadhuGoud/Superbloom/internal/export"
)

// Client appends registration exports to a configured spreadsheet using
// a service-account credential file. It implements export.SheetsSink.
type Client struct {
	srv           *sheetsv4.Service
	spreadsheetID string
}

func New(serviceAccountJSONPath, spreadsheetID string) (*Client, error) {
	if _, err := os.Stat(serviceAccountJSONPath); err != nil {
		return nil, fmt.Errorf("service account json: %w", err)
	}
	ctx := context.Background()
	srv, err := sheetsv4.NewService(ctx,
		option.WithCredentialsFile(serviceAccountJSONPath),
		option.WithScopes(sheetsv4.SpreadsheetsScope),
	)
	if err != nil {
		return nil, err
	}
	return &Client{srv: srv, spreadsheetID: spreadsheetID}, nil
}

func (c *Client) SpreadsheetID() string { return c.spreadsheetID }

// ensureWorksheet makes sure the target worksheet exists, creating it
// when the spreadsheet has no sheet with that title yet.
func (c *Client) ensureWorksheet(ctx context.Context, title string) error {
	sp, err := c.srv.Spreadsheets.Get(c.spreadsheetID).Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("get spreadsheet: %w", err)
	}
	for _, sheet := range sp.Sheets {
		if sheet.Properties != nil && sheet.Properties.Title == title {
			return nil
		}
	}

	req := &sheetsv4.BatchUpdateSpreadsheetRequest{
		Requests: []*sheetsv4.Request{{
			AddSheet: &sheetsv4.AddSheetRequest{
				Properties: &sheetsv4.SheetProperties{Title: title},
			},
		}},
	}
	if _, err := c.srv.Spreadsheets.BatchUpdate(c.spreadsheetID, req).Context(ctx).Do(); err != nil {
		return fmt.Errorf("add worksheet %q: %w", title, err)
	}
	return nil
}

func (c *Client) appendRows(ctx context.Context, sheet string, values [][]interface{}) error {
	vr := &sheetsv4.ValueRange{Values: values}
	_, err := c.srv.Spreadsheets.Values.Append(c.spreadsheetID, sheet+"!A:Z", vr).
		ValueInputOption("USER_ENTERED").
		InsertDataOption("INSERT_ROWS").
		Context(ctx).
		Do()
	return err
}

// AppendRegistrations appends one row per registration to the
// "Registrations" worksheet, writing the header first when the
// worksheet is still empty.
func (c *Client) AppendRegistrations(ctx context.Context, rows []export.Row) error {
	if err := c.ensureWorksheet(ctx, export.SheetName); err != nil {
		return err
	}

	existing, err := c.srv.Spreadsheets.Values.Get(c.spreadsheetID, export.SheetName+"!A:Z").Context(ctx).Do()
	if err != nil {
		return fmt.Errorf("read worksheet: %w", err)
	}

	var values [][]interface{}
	if len(existing.Values) == 0 {
		header := make([]interface{}, len(export.Header))
		for i, h := range export.Header {
			header[i] = h
		}
		values = append(values, header)
	}
	for _, row := range rows {
		values = append(values, []interface{}{
			row.Workshop, row.Name, row.Email, row.WhatsApp,
			row.Organization, row.Status, row.AdminNotes, row.CreatedAt,
		})
	}
	if len(values) == 0 {
		return nil
	}

	return c.appendRows(ctx, export.SheetName, values)
}
