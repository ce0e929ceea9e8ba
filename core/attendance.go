package core

import (
	"time"

	v1 "fieldwork.com/console/api/v1"
	"fieldwork.com/console/api/v1/common"
	"fieldwork.com/console/utils"
)

type AttendanceStatus string

const (
	StatusPresent AttendanceStatus = "Present"
	StatusAbsent  AttendanceStatus = "Absent"
	StatusFuture  AttendanceStatus = "Future"
)

// Window is a run of consecutive calendar days shown as grid columns.
type Window struct {
	Start time.Time
	Days  int
}

func NewWindow(start time.Time, days int) Window {
	return Window{Start: utils.StartOfDay(start), Days: days}
}

// FiveDayWindow centres five columns on today.
func FiveDayWindow(today time.Time) Window {
	return NewWindow(today.AddDate(0, 0, -2), 5)
}

// SevenDayWindow ends on today.
func SevenDayWindow(today time.Time) Window {
	return NewWindow(today.AddDate(0, 0, -6), 7)
}

func (w Window) Dates() []time.Time {
	dates := make([]time.Time, w.Days)
	for i := range dates {
		dates[i] = w.Start.AddDate(0, 0, i)
	}
	return dates
}

func (w Window) End() time.Time {
	return w.Start.AddDate(0, 0, w.Days-1)
}

// SalaryScope selects which records feed an employee's salary total.
type SalaryScope int

const (
	// SalaryToday sums only records dated today.
	SalaryToday SalaryScope = iota
	// SalaryAllFetched sums every record fetched for the employee.
	SalaryAllFetched
)

func (s SalaryScope) String() string {
	if s == SalaryAllFetched {
		return "all"
	}
	return "today"
}

// AttendanceView configures one attendance screen.
type AttendanceView struct {
	Name   string
	Window func(today time.Time) Window
	Scope  SalaryScope
}

var (
	DailyAttendance  = AttendanceView{Name: "daily", Window: FiveDayWindow, Scope: SalaryToday}
	WeeklyAttendance = AttendanceView{Name: "weekly", Window: SevenDayWindow, Scope: SalaryAllFetched}
)

func AttendanceViewByName(name string) (AttendanceView, bool) {
	switch name {
	case DailyAttendance.Name:
		return DailyAttendance, true
	case WeeklyAttendance.Name:
		return WeeklyAttendance, true
	}
	return AttendanceView{}, false
}

type AttendanceCell struct {
	Date   string           `json:"date"`
	Status AttendanceStatus `json:"status"`
	Salary float64          `json:"salary"`
}

type AttendanceRow struct {
	EmployeeID     int              `json:"employee_id"`
	EmployeeName   string           `json:"employee_name"`
	TagID          string           `json:"tag_id"`
	DepartmentName string           `json:"department_name"`
	Cells          []AttendanceCell `json:"cells"`
	DaysPresent    int              `json:"days_present"`
	TotalDaySalary float64          `json:"total_day_salary"`
}

// calendarDate maps a record time onto a calendar day in loc. Values
// without a zone (bare dates, naive timestamps) keep their wall-clock day;
// zoned timestamps are converted first.
func calendarDate(ts common.Timestamp, loc *time.Location) time.Time {
	if ts.Floating {
		return time.Date(ts.Year(), ts.Month(), ts.Day(), 0, 0, 0, 0, loc)
	}
	return utils.StartOfDay(ts.In(loc))
}

// Aggregate folds flat attendance records into one row per employee, in
// the order employees first appear. Each window column is Present when an
// attended record falls on that calendar day, Future when the day is after
// today, Absent otherwise. Several records on one day count once for the
// cell but all of their salaries are summed.
func Aggregate(records []v1.AttendanceDTO, window Window, today time.Time, scope SalaryScope) []AttendanceRow {
	loc := today.Location()
	todayKey := today.Format(utils.DateLayout)
	dates := window.Dates()

	byEmployee := utils.GroupBy(records, func(r v1.AttendanceDTO) int { return r.Employee.ID })
	order := utils.OrderedKeys(records, func(r v1.AttendanceDTO) int { return r.Employee.ID })

	rows := make([]AttendanceRow, 0, len(order))
	for _, id := range order {
		recs := byEmployee[id]
		first := recs[0]
		row := AttendanceRow{
			EmployeeID:     id,
			EmployeeName:   first.Employee.Name,
			TagID:          first.Employee.TagID,
			DepartmentName: first.DepartmentName,
			Cells:          make([]AttendanceCell, 0, len(dates)),
		}

		salaryByDay := make(map[string]float64)
		for _, r := range recs {
			if !r.Attended {
				continue
			}
			day := calendarDate(r.Date, loc).Format(utils.DateLayout)
			salaryByDay[day] += r.DaySalary.Float64()

			if scope == SalaryAllFetched || day == todayKey {
				row.TotalDaySalary += r.DaySalary.Float64()
			}
		}

		for _, d := range dates {
			// YYYY-MM-DD keys order the same way as the dates they encode
			key := d.Format(utils.DateLayout)
			cell := AttendanceCell{Date: key}
			if salary, ok := salaryByDay[key]; ok {
				cell.Status = StatusPresent
				cell.Salary = salary
				row.DaysPresent++
			} else if key > todayKey {
				cell.Status = StatusFuture
			} else {
				cell.Status = StatusAbsent
			}
			row.Cells = append(row.Cells, cell)
		}

		rows = append(rows, row)
	}
	return rows
}
