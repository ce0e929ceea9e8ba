package v1

import "net/http"

type Client struct {
	Transport   *Transport
	Auth        *AuthEndpoint
	Users       *Resource[UserDTO, UserInput]
	Employees   *Resource[EmployeeDTO, EmployeeInput]
	Fields      *Resource[FieldDTO, FieldInput]
	Departments *Resource[DepartmentDTO, DepartmentInput]
	Assignments *Resource[AssignmentDTO, AssignmentInput]
	Attendance  *Resource[AttendanceDTO, AttendanceInput]
}

// NewClient initializes the API client. The employee and field detail
// endpoints wrap their record in a keyed envelope; the rest return it bare.
func NewClient(baseURL string, tokens TokenSource, httpClient *http.Client) *Client {
	t := NewTransport(baseURL, tokens, httpClient)
	return &Client{
		Transport:   t,
		Auth:        &AuthEndpoint{transport: t},
		Users:       NewResource[UserDTO, UserInput](t, "/users", "", ""),
		Employees:   NewResource[EmployeeDTO, EmployeeInput](t, "/employees", "employee", ""),
		Fields:      NewResource[FieldDTO, FieldInput](t, "/fields", "field", ""),
		Departments: NewResource[DepartmentDTO, DepartmentInput](t, "/departments", "", ""),
		Assignments: NewResource[AssignmentDTO, AssignmentInput](t, "/assignments", "", ""),
		Attendance:  NewResource[AttendanceDTO, AttendanceInput](t, "/attendance", "", ""),
	}
}
