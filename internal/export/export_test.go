package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/SangulugariMadhuGoud/Superbloom/internal/model"
)

func sampleRegistrations() []model.WorkshopRegistration {
	created := time.Date(2025, 3, 14, 9, 26, 53, 0, time.UTC)
	return []model.WorkshopRegistration{
		{
			WorkshopTitle: "Floral Design 101",
			Name:          "Asha",
			Email:         "asha@example.com",
			WhatsApp:      "+911234567890",
			Organization:  "Bloom Co",
			Status:        model.RegistrationVerified,
			AdminNotes:    "paid cash",
			CreatedAt:     created,
		},
		{
			WorkshopTitle: "Floral Design 101",
			Name:          "Ravi",
			Email:         "ravi@example.com",
			Status:        model.RegistrationPending,
			CreatedAt:     created.Add(time.Minute),
		},
	}
}

func TestFromRegistrations(t *testing.T) {
	rows := FromRegistrations(sampleRegistrations())
	require.Len(t, rows, 2)

	require.Equal(t, "Floral Design 101", rows[0].Workshop)
	require.Equal(t, "2025-03-14 09:26:53", rows[0].CreatedAt)
	require.Equal(t, "paid cash", rows[0].AdminNotes)

	// Unset notes stay an empty string, not a hole in the row.
	require.Equal(t, "", rows[1].AdminNotes)
	require.Equal(t, "2025-03-14 09:27:53", rows[1].CreatedAt)
}

func TestWriteCSVEmptySelection(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, nil))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, Header, records[0])
}

func TestWriteCSVRowCountAndColumnOrder(t *testing.T) {
	rows := FromRegistrations(sampleRegistrations())

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, rows))

	records, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(rows)+1)

	require.Equal(t, []string{"Workshop", "Name", "Email", "WhatsApp", "Organization", "Status", "Admin Notes", "Created At"}, records[0])
	require.Equal(t, []string{
		"Floral Design 101", "Asha", "asha@example.com", "+911234567890",
		"Bloom Co", "verified", "paid cash", "2025-03-14 09:26:53",
	}, records[1])
}

func TestWriteXLSX(t *testing.T) {
	rows := FromRegistrations(sampleRegistrations())

	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, rows))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	require.Equal(t, []string{SheetName}, f.GetSheetList())

	got, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, got, len(rows)+1)
	require.Equal(t, Header, got[0])
	require.Equal(t, "ravi@example.com", got[2][2])
}

func TestWriteXLSXEmptySelection(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, nil))

	f, err := excelize.OpenReader(bytes.NewReader(buf.Bytes()))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(SheetName)
	require.NoError(t, err)
	require.Len(t, got, 1)
	require.Equal(t, Header, got[0])
}
