package export

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"descanso/internal/domain"
	"descanso/internal/models"

	"github.com/rs/zerolog"
	"github.com/xuri/excelize/v2"
)

// Reporter renders management reports to Excel files under the
// configured exports directory.
type Reporter struct {
	store  domain.Store
	path   string
	logger *zerolog.Logger
}

func NewReporter(st domain.Store, path string, logger *zerolog.Logger) *Reporter {
	return &Reporter{store: st, path: path, logger: logger}
}

// OccupancyReport writes a room-by-day occupancy grid plus a revenue
// sheet for the given period and returns the file path.
func (r *Reporter) OccupancyReport(ctx context.Context, startDate, endDate time.Time) (string, error) {
	if err := os.MkdirAll(r.path, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	rooms, err := r.store.ListRooms(ctx)
	if err != nil {
		return "", fmt.Errorf("list rooms: %w", err)
	}
	stays, err := r.store.ListStays(ctx)
	if err != nil {
		return "", fmt.Errorf("list stays: %w", err)
	}
	clients, err := r.store.ListClients(ctx)
	if err != nil {
		return "", fmt.Errorf("list clients: %w", err)
	}

	clientNames := make(map[string]string, len(clients))
	for _, c := range clients {
		clientNames[c.ID] = c.Name
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheetName = "Occupancy"
	index, err := f.NewSheet(sheetName)
	if err != nil {
		return "", fmt.Errorf("create sheet: %w", err)
	}
	f.SetActiveSheet(index)

	_ = f.SetCellValue(sheetName, "A1", fmt.Sprintf("Period: %s - %s",
		startDate.Format("2006-01-02"), endDate.Format("2006-01-02")))

	dateCols := r.writeDateHeaders(f, sheetName, startDate, endDate)
	r.writeRoomHeaders(f, sheetName, rooms)
	r.writeOccupancy(f, sheetName, rooms, stays, clientNames, startDate, endDate, dateCols)

	_ = f.SetColWidth(sheetName, "A", "A", 18)
	for i := 'B'; i <= 'Z'; i++ {
		_ = f.SetColWidth(sheetName, string(i), string(i), 16)
	}

	lastCol, _ := excelize.ColumnNumberToName(len(dateCols) + 1)
	_ = f.MergeCell(sheetName, "A1", lastCol+"1")
	titleStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 14},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetCellStyle(sheetName, "A1", "A1", titleStyle)

	if err := r.writeRevenueSheet(f, stays, clientNames, startDate, endDate); err != nil {
		return "", err
	}

	_ = f.DeleteSheet("Sheet1")

	fileName := fmt.Sprintf("occupancy_%s_to_%s.xlsx",
		startDate.Format("2006-01-02"), endDate.Format("2006-01-02"))
	filePath := filepath.Join(r.path, fileName)

	if err := f.SaveAs(filePath); err != nil {
		return "", fmt.Errorf("save report: %w", err)
	}

	r.logger.Info().Str("file_path", filePath).Msg("occupancy report created")
	return filePath, nil
}

func (r *Reporter) writeDateHeaders(f *excelize.File, sheetName string, startDate, endDate time.Time) map[string]int {
	col := 2
	current := startDate
	dateCols := make(map[string]int)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})

	for !current.After(endDate) {
		cell, _ := excelize.CoordinatesToCellName(col, 2)
		_ = f.SetCellValue(sheetName, cell, current.Format("01-02"))
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
		dateCols[current.Format("2006-01-02")] = col

		col++
		current = current.AddDate(0, 0, 1)
	}
	return dateCols
}

func (r *Reporter) writeRoomHeaders(f *excelize.File, sheetName string, rooms []models.Room) {
	style, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#E2EFDA"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})

	row := 3
	for _, room := range rooms {
		cell, _ := excelize.CoordinatesToCellName(1, row)
		_ = f.SetCellValue(sheetName, cell, fmt.Sprintf("%s (%s)", room.Number, room.Category))
		_ = f.SetCellStyle(sheetName, cell, cell, style)
		row++
	}
}

func (r *Reporter) writeOccupancy(
	f *excelize.File, sheetName string,
	rooms []models.Room, stays []models.Stay,
	clientNames map[string]string,
	startDate, endDate time.Time,
	dateCols map[string]int,
) {
	occupiedStyle, _ := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#FFC7CE"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "left", Vertical: "top", WrapText: true},
	})

	staysByRoom := make(map[string][]models.Stay)
	for _, st := range stays {
		staysByRoom[st.RoomNumber] = append(staysByRoom[st.RoomNumber], st)
	}

	row := 3
	for _, room := range rooms {
		for day := startDate; !day.After(endDate); day = day.AddDate(0, 0, 1) {
			col, ok := dateCols[day.Format("2006-01-02")]
			if !ok {
				continue
			}
			cell, _ := excelize.CoordinatesToCellName(col, row)

			// A stay covers the night of `day` when day is inside the
			// half-open [check-in, check-out) interval.
			for _, st := range staysByRoom[room.Number] {
				if day.Before(st.CheckIn) || !day.Before(st.CheckOut) {
					continue
				}
				name := clientNames[st.ClientID]
				if name == "" {
					name = st.ClientID
				}
				_ = f.SetCellValue(sheetName, cell, name)
				_ = f.SetCellStyle(sheetName, cell, cell, occupiedStyle)
				break
			}
		}
		row++
	}
}

func (r *Reporter) writeRevenueSheet(f *excelize.File, stays []models.Stay, clientNames map[string]string, startDate, endDate time.Time) error {
	const sheetName = "Revenue"
	if _, err := f.NewSheet(sheetName); err != nil {
		return fmt.Errorf("create revenue sheet: %w", err)
	}

	headers := []string{"Stay ID", "Room", "Client", "Check-in", "Check-out", "Days", "Charges", "Final cost"}
	headerStyle, _ := f.NewStyle(&excelize.Style{
		Fill: excelize.Fill{Type: "pattern", Color: []string{"#DDEBF7"}, Pattern: 1},
		Font: &excelize.Font{Bold: true},
	})
	for i, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		_ = f.SetCellValue(sheetName, cell, header)
		_ = f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}

	row := 2
	var total float64
	for _, st := range stays {
		if st.Status != models.StayCompleted {
			continue
		}
		if st.CheckOut.Before(startDate) || st.CheckIn.After(endDate) {
			continue
		}

		name := clientNames[st.ClientID]
		if name == "" {
			name = st.ClientID
		}

		_ = f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), st.ID)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), st.RoomNumber)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("C%d", row), name)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("D%d", row), st.CheckIn.Format("2006-01-02"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("E%d", row), st.CheckOut.Format("2006-01-02"))
		_ = f.SetCellValue(sheetName, fmt.Sprintf("F%d", row), st.TotalDays)
		_ = f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), st.ChargesTotal())
		_ = f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), st.FinalCost)

		total += st.FinalCost
		row++
	}

	totalStyle, _ := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	_ = f.SetCellValue(sheetName, fmt.Sprintf("G%d", row), "Total")
	_ = f.SetCellValue(sheetName, fmt.Sprintf("H%d", row), total)
	_ = f.SetCellStyle(sheetName, fmt.Sprintf("G%d", row), fmt.Sprintf("H%d", row), totalStyle)

	_ = f.SetColWidth(sheetName, "A", "A", 38)
	_ = f.SetColWidth(sheetName, "B", "H", 14)
	return nil
}
