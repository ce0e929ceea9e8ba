package core

import (
	"strconv"
	"strings"

	v1 "fieldwork.com/console/api/v1"
	"fieldwork.com/console/api/v1/common"
)

var UserList = ListSpec[v1.UserDTO]{
	Name: "User",
	ID:   func(u v1.UserDTO) int { return u.ID },
	Search: func(u v1.UserDTO) []string {
		return []string{u.Name, u.Email, u.PhoneNumber}
	},
	Filters: map[string]func(v1.UserDTO, string) bool{
		"role": func(u v1.UserDTO, role string) bool { return strings.EqualFold(u.Role, role) },
	},
	SortKey: func(u v1.UserDTO) int64 { return int64(u.ID) },
}

var EmployeeList = ListSpec[v1.EmployeeDTO]{
	Name: "Employee",
	ID:   func(e v1.EmployeeDTO) int { return e.ID },
	Search: func(e v1.EmployeeDTO) []string {
		return []string{e.Name, e.Email, e.PhoneNumber, e.TagID, e.NID}
	},
	SortKey: func(e v1.EmployeeDTO) int64 { return int64(e.ID) },
}

var FieldList = ListSpec[v1.FieldDTO]{
	Name: "Field",
	ID:   func(f v1.FieldDTO) int { return f.ID },
	Search: func(f v1.FieldDTO) []string {
		return []string{f.Name, f.Address}
	},
	SortKey: func(f v1.FieldDTO) int64 { return int64(f.ID) },
}

var DepartmentList = ListSpec[v1.DepartmentDTO]{
	Name: "Department",
	ID:   func(d v1.DepartmentDTO) int { return d.ID },
	Search: func(d v1.DepartmentDTO) []string {
		return []string{d.Name}
	},
	SortKey: func(d v1.DepartmentDTO) int64 { return int64(d.ID) },
}

var AssignmentList = ListSpec[v1.AssignmentDTO]{
	Name: "Assignment",
	ID:   func(a v1.AssignmentDTO) int { return a.ID },
	Search: func(a v1.AssignmentDTO) []string {
		return []string{a.Name, a.Field.Name, a.Department.Name, a.Supervisor.Name}
	},
	Filters: map[string]func(v1.AssignmentDTO, string) bool{
		"field":      func(a v1.AssignmentDTO, v string) bool { return refMatches(a.Field, v) },
		"department": func(a v1.AssignmentDTO, v string) bool { return refMatches(a.Department, v) },
	},
	SortKey: func(a v1.AssignmentDTO) int64 {
		if a.CreatedDate.IsZero() {
			return int64(a.ID)
		}
		return a.CreatedDate.Unix()
	},
}

// AttendanceRecordList backs the cached attendance records; the grid
// itself is paged through AttendanceRowList.
var AttendanceRecordList = ListSpec[v1.AttendanceDTO]{
	Name: "Attendance",
	ID:   func(a v1.AttendanceDTO) int { return a.ID },
	Search: func(a v1.AttendanceDTO) []string {
		return []string{a.Employee.Name, a.Employee.TagID}
	},
	Filters: map[string]func(v1.AttendanceDTO, string) bool{
		"department": func(a v1.AttendanceDTO, v string) bool { return strings.EqualFold(a.DepartmentName, v) },
	},
	SortKey: func(a v1.AttendanceDTO) int64 { return a.Date.Unix() },
}

var AttendanceRowList = ListSpec[AttendanceRow]{
	Name: "Attendance",
	ID:   func(r AttendanceRow) int { return r.EmployeeID },
	Search: func(r AttendanceRow) []string {
		return []string{r.EmployeeName, r.TagID}
	},
	Filters: map[string]func(AttendanceRow, string) bool{
		"department": func(r AttendanceRow, v string) bool { return strings.EqualFold(r.DepartmentName, v) },
	},
}

// refMatches accepts either the referenced id or its name.
func refMatches(ref common.IdNameDTO, value string) bool {
	if id, err := strconv.Atoi(value); err == nil {
		return ref.ID == id
	}
	return strings.EqualFold(ref.Name, value)
}
