package export

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"londonpark/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// Exporter writes admin snapshots to Excel files under the configured
// exports directory.
type Exporter struct {
	path   string
	logger *zerolog.Logger
}

func New(path string, logger *zerolog.Logger) *Exporter {
	return &Exporter{path: path, logger: logger}
}

// ExportBookings writes the bookings snapshot to an Excel file and returns
// its path. Tentative rows are skipped; only confirmed bookings belong in
// an export.
func (e *Exporter) ExportBookings(bookings []models.Booking) (string, error) {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Bookings"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"ID", "User", "Event", "Quantity", "Seat type", "Booked at"}
	writeHeaderRow(f, sheetName, headers)

	row := 2
	for _, booking := range bookings {
		if booking.Tentative() {
			continue
		}
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), booking.ID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), displayName(booking.UserName, booking.UserID))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), displayName(booking.EventName, booking.EventID))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), booking.Quantity)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), booking.SeatType)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), booking.BookedAt)
		row++
	}

	_ = f.SetColWidth(sheetName, "A", "A", 10)
	_ = f.SetColWidth(sheetName, "B", "C", 25)
	_ = f.SetColWidth(sheetName, "D", "E", 15)
	_ = f.SetColWidth(sheetName, "F", "F", 20)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("bookings_export_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(e.path, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Msg("bookings export created")
	return filePath, nil
}

// ExportUsers writes the users snapshot to an Excel file and returns its
// path. Passwords never appear in exports.
func (e *Exporter) ExportUsers(users []models.User) (string, error) {
	if err := os.MkdirAll(e.path, 0o755); err != nil {
		return "", fmt.Errorf("error creating export directory: %v", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Users"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("error creating sheet: %v", err)
	}
	f.SetActiveSheet(index)

	headers := []string{"ID", "Name", "Email", "Registered"}
	writeHeaderRow(f, sheetName, headers)

	for i, user := range users {
		row := i + 2
		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), user.ID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), user.Name)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), user.Email)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), user.CreatedAt)
	}

	_ = f.SetColWidth(sheetName, "A", "A", 10)
	_ = f.SetColWidth(sheetName, "B", "C", 25)
	_ = f.SetColWidth(sheetName, "D", "D", 20)

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("users_export_%s.xlsx", time.Now().Format("2006-01-02_15-04-05"))
	filePath := filepath.Join(e.path, fileName)
	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("error saving file: %v", err)
	}

	e.logger.Info().Str("file_path", filePath).Msg("users export created")
	return filePath, nil
}

func writeHeaderRow(f *excelize.File, sheetName string, headers []string) {
	style, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, style)
	}
}

func displayName(name string, id int64) string {
	if name != "" {
		return name
	}
	return fmt.Sprintf("#%d", id)
}
