package core

import (
	"encoding/json"
	"testing"
	"time"

	v1 "fieldwork.com/console/api/v1"
	"fieldwork.com/console/api/v1/common"
	"fieldwork.com/console/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func record(id, employee int, name string, date time.Time, attended bool, salary float64) v1.AttendanceDTO {
	return v1.AttendanceDTO{
		ID:             id,
		Employee:       v1.AttendanceEmployeeDTO{ID: employee, TagID: "T" + name, Name: name},
		DepartmentName: "Harvest",
		Date:           common.Timestamp{Time: date},
		Attended:       attended,
		DaySalary:      common.Decimal(salary),
	}
}

func statuses(row AttendanceRow) []AttendanceStatus {
	return utils.Map(row.Cells, func(c AttendanceCell) AttendanceStatus { return c.Status })
}

func TestWindows(t *testing.T) {
	today := time.Date(2024, 5, 10, 15, 30, 0, 0, utils.KigaliTZ)

	five := FiveDayWindow(today)
	assert.Equal(t, "2024-05-08", five.Start.Format(utils.DateLayout))
	assert.Equal(t, "2024-05-12", five.End().Format(utils.DateLayout))
	assert.Len(t, five.Dates(), 5)

	seven := SevenDayWindow(today)
	assert.Equal(t, "2024-05-04", seven.Start.Format(utils.DateLayout))
	assert.Equal(t, "2024-05-10", seven.End().Format(utils.DateLayout))
	assert.Len(t, seven.Dates(), 7)
}

func TestAggregateDailyView(t *testing.T) {
	today := time.Date(2024, 5, 10, 0, 0, 0, 0, utils.KigaliTZ)
	day := func(offset int) time.Time {
		d := today.AddDate(0, 0, offset)
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	}

	records := []v1.AttendanceDTO{
		record(1, 7, "Alice", day(0), true, 5000),
		record(2, 9, "Bob", day(-1), true, 4000),
		record(3, 7, "Alice", day(-2), true, 5000),
		record(4, 9, "Bob", day(0), false, 4000),
	}

	rows := Aggregate(records, FiveDayWindow(today), today, SalaryToday)
	require.Len(t, rows, 2)

	alice, bob := rows[0], rows[1]
	assert.Equal(t, "Alice", alice.EmployeeName)
	assert.Equal(t, []AttendanceStatus{StatusPresent, StatusAbsent, StatusPresent, StatusFuture, StatusFuture}, statuses(alice))
	assert.Equal(t, 2, alice.DaysPresent)
	assert.Equal(t, 5000.0, alice.TotalDaySalary)

	assert.Equal(t, "Bob", bob.EmployeeName)
	assert.Equal(t, []AttendanceStatus{StatusAbsent, StatusPresent, StatusAbsent, StatusFuture, StatusFuture}, statuses(bob))
	assert.Equal(t, 0.0, bob.TotalDaySalary)
}

func TestAggregateWeeklySumsEverything(t *testing.T) {
	today := time.Date(2024, 5, 10, 0, 0, 0, 0, utils.KigaliTZ)
	records := []v1.AttendanceDTO{
		record(1, 7, "Alice", time.Date(2024, 5, 4, 0, 0, 0, 0, time.UTC), true, 5000),
		record(2, 7, "Alice", time.Date(2024, 5, 7, 0, 0, 0, 0, time.UTC), true, 5000),
		record(3, 7, "Alice", time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), true, 5000),
	}

	rows := Aggregate(records, SevenDayWindow(today), today, SalaryAllFetched)
	require.Len(t, rows, 1)
	assert.Equal(t, 3, rows[0].DaysPresent)
	assert.Equal(t, 15000.0, rows[0].TotalDaySalary)
	assert.NotContains(t, statuses(rows[0]), StatusFuture)
}

func TestAggregateDuplicatesOnOneDay(t *testing.T) {
	today := time.Date(2024, 5, 10, 0, 0, 0, 0, utils.KigaliTZ)
	records := []v1.AttendanceDTO{
		record(1, 7, "Alice", time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), true, 5000),
		record(2, 7, "Alice", time.Date(2024, 5, 10, 0, 0, 0, 0, time.UTC), true, 5000),
	}

	rows := Aggregate(records, FiveDayWindow(today), today, SalaryToday)
	require.Len(t, rows, 1)
	assert.Equal(t, 1, rows[0].DaysPresent)
	assert.Equal(t, 10000.0, rows[0].TotalDaySalary)
	assert.Equal(t, 10000.0, rows[0].Cells[2].Salary)
}

func TestAggregateMatchesCalendarDate(t *testing.T) {
	today := time.Date(2024, 5, 10, 0, 0, 0, 0, utils.KigaliTZ)
	// 23:30 UTC on the 9th is already the 10th in Kigali
	late := time.Date(2024, 5, 9, 23, 30, 0, 0, time.UTC)

	rows := Aggregate([]v1.AttendanceDTO{record(1, 7, "Alice", late, true, 5000)}, FiveDayWindow(today), today, SalaryToday)
	require.Len(t, rows, 1)
	assert.Equal(t, StatusPresent, rows[0].Cells[2].Status)
	assert.Equal(t, StatusAbsent, rows[0].Cells[1].Status)
	assert.Equal(t, 5000.0, rows[0].TotalDaySalary)
}

func TestAggregateKeepsWallClockDayWithoutOffset(t *testing.T) {
	today := time.Date(2024, 5, 10, 0, 0, 0, 0, utils.KigaliTZ)

	var rec v1.AttendanceDTO
	require.NoError(t, json.Unmarshal([]byte(`{"id":1,"employee":{"id":7,"tag_id":"T7","name":"Alice"},"date":"2024-05-09T23:30:00","attended":true,"day_salary":"5000"}`), &rec))
	require.True(t, rec.Date.Floating)

	rows := Aggregate([]v1.AttendanceDTO{rec}, FiveDayWindow(today), today, SalaryToday)
	require.Len(t, rows, 1)
	assert.Equal(t, StatusPresent, rows[0].Cells[1].Status)
	assert.Equal(t, StatusAbsent, rows[0].Cells[2].Status)
	assert.Equal(t, 0.0, rows[0].TotalDaySalary)
}

func TestAggregateFutureVersusAbsent(t *testing.T) {
	today := time.Date(2024, 5, 10, 0, 0, 0, 0, utils.KigaliTZ)
	window := NewWindow(today.AddDate(0, 0, -1), 5)

	rows := Aggregate([]v1.AttendanceDTO{record(1, 7, "Alice", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), true, 5000)}, window, today, SalaryToday)
	require.Len(t, rows, 1)
	assert.Equal(t, []AttendanceStatus{StatusAbsent, StatusAbsent, StatusFuture, StatusFuture, StatusFuture}, statuses(rows[0]))
}

func TestAggregateEmpty(t *testing.T) {
	today := time.Date(2024, 5, 10, 0, 0, 0, 0, utils.KigaliTZ)
	assert.Empty(t, Aggregate(nil, FiveDayWindow(today), today, SalaryToday))
}

func TestAttendanceViewByName(t *testing.T) {
	view, ok := AttendanceViewByName("weekly")
	require.True(t, ok)
	assert.Equal(t, SalaryAllFetched, view.Scope)

	_, ok = AttendanceViewByName("monthly")
	assert.False(t, ok)
}
