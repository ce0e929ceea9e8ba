package v1

import "fieldwork.com/console/api/v1/common"

type UserDTO struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Role        string `json:"role"`
}

// UserInput is the write shape for users; Password is write-only.
type UserInput struct {
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Role        string `json:"role,omitempty"`
	Password    string `json:"password,omitempty"`
}

type EmployeeDTO struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Email       string `json:"email"`
	PhoneNumber string `json:"phone_number"`
	Address     string `json:"address"`
	TagID       string `json:"tag_id"`
	NID         string `json:"nid"`
	RSSBNumber  string `json:"rssb_number"`
}

type EmployeeInput struct {
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Address     string `json:"address,omitempty"`
	TagID       string `json:"tag_id,omitempty"`
	NID         string `json:"nid,omitempty"`
	RSSBNumber  string `json:"rssb_number,omitempty"`
}

type FieldDTO struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
}

type FieldInput struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
}

type DepartmentDTO struct {
	ID        int            `json:"id"`
	Name      string         `json:"name"`
	DaySalary common.Decimal `json:"day_salary"`
}

type DepartmentInput struct {
	Name      string   `json:"name,omitempty"`
	DaySalary *float64 `json:"day_salary,omitempty"`
}

type AssignmentDTO struct {
	ID          int                `json:"id"`
	Name        string             `json:"name"`
	Field       common.IdNameDTO   `json:"field"`
	Department  common.IdNameDTO   `json:"department"`
	Supervisor  common.IdNameDTO   `json:"supervisor"`
	Employees   []common.IdNameDTO `json:"employees"`
	CreatedDate common.DateOnly    `json:"created_date"`
	EndDate     *common.DateOnly   `json:"end_date"`
	Notes       string             `json:"notes"`
}

// AssignmentInput references related rows by id.
type AssignmentInput struct {
	Name        string  `json:"name,omitempty"`
	Field       int     `json:"field,omitempty"`
	Department  int     `json:"department,omitempty"`
	Supervisor  int     `json:"supervisor,omitempty"`
	Employees   []int   `json:"employees,omitempty"`
	CreatedDate string  `json:"created_date,omitempty"`
	EndDate     *string `json:"end_date,omitempty"`
	Notes       string  `json:"notes,omitempty"`
}

type AttendanceEmployeeDTO struct {
	ID    int    `json:"id"`
	TagID string `json:"tag_id"`
	Name  string `json:"name"`
}

type AttendanceDTO struct {
	ID             int                   `json:"id"`
	Employee       AttendanceEmployeeDTO `json:"employee"`
	DepartmentName string                `json:"department_name"`
	Date           common.Timestamp      `json:"date"`
	Attended       bool                  `json:"attended"`
	DaySalary      common.Decimal        `json:"day_salary"`
}

type AttendanceInput struct {
	Employee int    `json:"employee,omitempty"`
	Date     string `json:"date,omitempty"`
	Attended *bool  `json:"attended,omitempty"`
}

type ProfileDTO struct {
	ID          int      `json:"id"`
	Name        string   `json:"name"`
	Email       string   `json:"email"`
	PhoneNumber string   `json:"phone_number"`
	Role        string   `json:"role"`
	Permissions []string `json:"permissions"`
}

type ProfileInput struct {
	Name        string `json:"name,omitempty"`
	Email       string `json:"email,omitempty"`
	PhoneNumber string `json:"phone_number,omitempty"`
	Password    string `json:"password,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string     `json:"token"`
	User  ProfileDTO `json:"user"`
}
