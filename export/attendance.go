// Package export renders attendance grids as XLSX workbooks.
package export

import (
	"bytes"
	"fmt"
	"time"

	"fieldwork.com/console/core"
	"fieldwork.com/console/utils"
	"github.com/xuri/excelize/v2"
)

const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const sheetName = "Attendance"

// FileName names the workbook of one attendance view on one day.
func FileName(view string, today time.Time) string {
	return fmt.Sprintf("attendance-%s-%s.xlsx", view, today.Format(utils.DateLayout))
}

// AttendanceWorkbook lays out one row per employee: identity columns,
// one status column per window date, then the present count and salary.
func AttendanceWorkbook(window core.Window, rows []core.AttendanceRow) (*excelize.File, error) {
	f := excelize.NewFile()
	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		f.Close()
		return nil, fmt.Errorf("rename sheet: %w", err)
	}

	header := []any{"Employee", "Tag", "Department"}
	for _, d := range window.Dates() {
		header = append(header, d.Format(utils.DateLayout))
	}
	header = append(header, "Days present", "Total salary")

	if err := f.SetSheetRow(sheetName, "A1", &header); err != nil {
		f.Close()
		return nil, fmt.Errorf("write header: %w", err)
	}

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		last, _ := excelize.CoordinatesToCellName(len(header), 1)
		_ = f.SetCellStyle(sheetName, "A1", last, bold)
	}

	for i, row := range rows {
		values := []any{row.EmployeeName, row.TagID, row.DepartmentName}
		for _, cell := range row.Cells {
			values = append(values, string(cell.Status))
		}
		values = append(values, row.DaysPresent, row.TotalDaySalary)

		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			f.Close()
			return nil, fmt.Errorf("write row %d: %w", i+2, err)
		}
	}

	_ = f.SetColWidth(sheetName, "A", "A", 28)
	return f, nil
}

// AttendanceBytes renders the workbook into memory.
func AttendanceBytes(window core.Window, rows []core.AttendanceRow) ([]byte, error) {
	f, err := AttendanceWorkbook(window, rows)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write workbook: %w", err)
	}
	return buf.Bytes(), nil
}
