package mockapi

import (
	"encoding/json"
	"strings"
	"time"

	v1 "fieldwork.com/console/api/v1"
	"fieldwork.com/console/api/v1/common"
	"fieldwork.com/console/utils"
	"gorm.io/datatypes"
)

type User struct {
	ID           int    `gorm:"primaryKey;autoIncrement"`
	Name         string `gorm:"size:120"`
	Email        string `gorm:"size:190;uniqueIndex"`
	PhoneNumber  string `gorm:"size:20"`
	Role         string `gorm:"size:30"`
	PasswordHash string `gorm:"size:100"`
}

type Employee struct {
	ID          int    `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"size:120"`
	Email       string `gorm:"size:190"`
	PhoneNumber string `gorm:"size:20"`
	Address     string
	TagID       string `gorm:"size:60;uniqueIndex"`
	NID         string `gorm:"size:30"`
	RSSBNumber  string `gorm:"size:30"`
}

type Field struct {
	ID      int    `gorm:"primaryKey;autoIncrement"`
	Name    string `gorm:"size:120"`
	Address string
}

type Department struct {
	ID        int     `gorm:"primaryKey;autoIncrement"`
	Name      string  `gorm:"size:120"`
	DaySalary float64 `gorm:"type:decimal(13,2);default:0"`
}

type Assignment struct {
	ID           int `gorm:"primaryKey;autoIncrement"`
	Name         string
	FieldID      int
	Field        Field
	DepartmentID int
	Department   Department
	SupervisorID int
	Supervisor   Employee
	// EmployeeIDs is a JSON array of member ids, supervisor included.
	EmployeeIDs datatypes.JSON
	CreatedDate datatypes.Date
	EndDate     *datatypes.Date
	Notes       string
}

type Attendance struct {
	ID             int `gorm:"primaryKey;autoIncrement"`
	EmployeeID     int `gorm:"uniqueIndex:idx_employee_date"`
	Employee       Employee
	DepartmentName string
	Date           datatypes.Date `gorm:"uniqueIndex:idx_employee_date"`
	Attended       bool
	DaySalary      float64 `gorm:"type:decimal(13,2);default:0"`
}

func (Attendance) TableName() string {
	return "attendance"
}

func (a *Assignment) Members() []int {
	var ids []int
	if len(a.EmployeeIDs) > 0 {
		_ = json.Unmarshal(a.EmployeeIDs, &ids)
	}
	return ids
}

func (a *Assignment) SetMembers(ids []int) {
	b, _ := json.Marshal(utils.Unique(ids))
	a.EmployeeIDs = datatypes.JSON(b)
}

// Covers reports whether the assignment is running on day.
func (a *Assignment) Covers(day time.Time) bool {
	start := time.Time(a.CreatedDate)
	if day.Before(start) {
		return false
	}
	return a.EndDate == nil || !day.After(time.Time(*a.EndDate))
}

func userDTO(u User) v1.UserDTO {
	return v1.UserDTO{ID: u.ID, Name: u.Name, Email: u.Email, PhoneNumber: u.PhoneNumber, Role: u.Role}
}

func profileDTO(u User) v1.ProfileDTO {
	return v1.ProfileDTO{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		PhoneNumber: u.PhoneNumber,
		Role:        u.Role,
		Permissions: PermissionsFor(u.Role),
	}
}

func employeeDTO(e Employee) v1.EmployeeDTO {
	return v1.EmployeeDTO{
		ID:          e.ID,
		Name:        e.Name,
		Email:       e.Email,
		PhoneNumber: e.PhoneNumber,
		Address:     e.Address,
		TagID:       e.TagID,
		NID:         e.NID,
		RSSBNumber:  e.RSSBNumber,
	}
}

func fieldDTO(f Field) v1.FieldDTO {
	return v1.FieldDTO{ID: f.ID, Name: f.Name, Address: f.Address}
}

func departmentDTO(d Department) v1.DepartmentDTO {
	return v1.DepartmentDTO{ID: d.ID, Name: d.Name, DaySalary: common.Decimal(d.DaySalary)}
}

func assignmentDTO(a Assignment, names map[int]string) v1.AssignmentDTO {
	dto := v1.AssignmentDTO{
		ID:          a.ID,
		Name:        a.Name,
		Field:       common.IdNameDTO{ID: a.FieldID, Name: a.Field.Name},
		Department:  common.IdNameDTO{ID: a.DepartmentID, Name: a.Department.Name},
		Supervisor:  common.IdNameDTO{ID: a.SupervisorID, Name: a.Supervisor.Name},
		Employees:   []common.IdNameDTO{},
		CreatedDate: common.NewDateOnly(time.Time(a.CreatedDate)),
		Notes:       a.Notes,
	}
	if a.EndDate != nil {
		dto.EndDate = utils.Ptr(common.NewDateOnly(time.Time(*a.EndDate)))
	}
	for _, id := range a.Members() {
		dto.Employees = append(dto.Employees, common.IdNameDTO{ID: id, Name: names[id]})
	}
	return dto
}

func attendanceDTO(a Attendance) v1.AttendanceDTO {
	return v1.AttendanceDTO{
		ID:             a.ID,
		Employee:       v1.AttendanceEmployeeDTO{ID: a.EmployeeID, TagID: a.Employee.TagID, Name: a.Employee.Name},
		DepartmentName: a.DepartmentName,
		Date:           common.Timestamp{Time: time.Time(a.Date), Floating: true},
		Attended:       a.Attended,
		DaySalary:      common.Decimal(a.DaySalary),
	}
}

// PermissionsFor lists what a role may see in the console.
func PermissionsFor(role string) []string {
	switch strings.ToLower(role) {
	case "admin":
		return []string{"view_user", "view_employee", "view_field", "view_department", "view_assignment", "view_attendance"}
	case "manager":
		return []string{"view_employee", "view_field", "view_department", "view_assignment", "view_attendance"}
	case "supervisor":
		return []string{"view_employee", "view_attendance"}
	}
	return []string{}
}
