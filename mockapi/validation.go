package mockapi

import (
	"regexp"
	"slices"
	"sort"
	"strings"
	"time"

	v1 "fieldwork.com/console/api/v1"
	"fieldwork.com/console/utils"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
)

// FieldErrors is the {"field": ["message"]} body the API answers 400 with.
type FieldErrors map[string][]string

func (e FieldErrors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+strings.Join(e[k], " "))
	}
	return strings.Join(parts, "; ")
}

func (e FieldErrors) add(field, message string) {
	e[field] = append(e[field], message)
}

func (e FieldErrors) orNil() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

const requiredMessage = "This field is required."

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// set copies value into dst when it is non-empty; on create an empty
// value is reported as missing.
func set(errs FieldErrors, field string, dst *string, value string, required bool) {
	value = strings.TrimSpace(value)
	if value != "" {
		*dst = value
		return
	}
	if required {
		errs.add(field, requiredMessage)
	}
}

func hashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func applyUser(u *User, in v1.UserInput, creating bool) error {
	errs := FieldErrors{}
	set(errs, "name", &u.Name, in.Name, creating)
	set(errs, "email", &u.Email, in.Email, creating)
	set(errs, "phone_number", &u.PhoneNumber, in.PhoneNumber, false)
	set(errs, "role", &u.Role, in.Role, creating)
	if in.Email != "" && !emailPattern.MatchString(in.Email) {
		errs.add("email", "Enter a valid email address.")
	}

	switch {
	case in.Password != "" && len(in.Password) < 6:
		errs.add("password", "Ensure this field has at least 6 characters.")
	case in.Password != "":
		hash, err := hashPassword(in.Password)
		if err != nil {
			return err
		}
		u.PasswordHash = hash
	case creating:
		errs.add("password", requiredMessage)
	}
	return errs.orNil()
}

func applyProfile(u *User, in v1.ProfileInput) error {
	return applyUser(u, v1.UserInput{Name: in.Name, Email: in.Email, PhoneNumber: in.PhoneNumber, Password: in.Password}, false)
}

func applyEmployee(e *Employee, in v1.EmployeeInput, creating bool) error {
	errs := FieldErrors{}
	set(errs, "name", &e.Name, in.Name, creating)
	set(errs, "email", &e.Email, in.Email, false)
	set(errs, "phone_number", &e.PhoneNumber, in.PhoneNumber, creating)
	set(errs, "address", &e.Address, in.Address, false)
	set(errs, "tag_id", &e.TagID, in.TagID, creating)
	set(errs, "nid", &e.NID, in.NID, false)
	set(errs, "rssb_number", &e.RSSBNumber, in.RSSBNumber, false)
	return errs.orNil()
}

func applyField(f *Field, in v1.FieldInput, creating bool) error {
	errs := FieldErrors{}
	set(errs, "name", &f.Name, in.Name, creating)
	set(errs, "address", &f.Address, in.Address, creating)
	return errs.orNil()
}

func applyDepartment(d *Department, in v1.DepartmentInput, creating bool) error {
	errs := FieldErrors{}
	set(errs, "name", &d.Name, in.Name, creating)
	switch {
	case in.DaySalary == nil && creating:
		errs.add("day_salary", requiredMessage)
	case in.DaySalary != nil && *in.DaySalary <= 0:
		errs.add("day_salary", "Ensure this value is greater than 0.")
	case in.DaySalary != nil:
		d.DaySalary = *in.DaySalary
	}
	return errs.orNil()
}

func parseDate(errs FieldErrors, field, value string) *datatypes.Date {
	t, err := time.Parse(utils.DateLayout, value)
	if err != nil {
		errs.add(field, "Date has wrong format. Use YYYY-MM-DD.")
		return nil
	}
	d := datatypes.Date(t)
	return &d
}

// applyAssignment keeps the supervisor inside the member set.
func applyAssignment(a *Assignment, in v1.AssignmentInput, creating bool) error {
	errs := FieldErrors{}
	set(errs, "name", &a.Name, in.Name, creating)
	set(errs, "notes", &a.Notes, in.Notes, false)

	ids := map[string]*int{"field": &a.FieldID, "department": &a.DepartmentID, "supervisor": &a.SupervisorID}
	values := map[string]int{"field": in.Field, "department": in.Department, "supervisor": in.Supervisor}
	for key, dst := range ids {
		if values[key] > 0 {
			*dst = values[key]
		} else if creating {
			errs.add(key, requiredMessage)
		}
	}

	if in.CreatedDate != "" {
		if d := parseDate(errs, "created_date", in.CreatedDate); d != nil {
			a.CreatedDate = *d
		}
	} else if creating {
		errs.add("created_date", requiredMessage)
	}
	if in.EndDate != nil {
		if *in.EndDate == "" {
			a.EndDate = nil
		} else if d := parseDate(errs, "end_date", *in.EndDate); d != nil {
			a.EndDate = d
		}
	}
	if a.EndDate != nil && time.Time(*a.EndDate).Before(time.Time(a.CreatedDate)) {
		errs.add("end_date", "End date cannot be before the start date.")
	}

	if in.Employees != nil {
		a.SetMembers(in.Employees)
	}
	if a.SupervisorID > 0 && !slices.Contains(a.Members(), a.SupervisorID) {
		errs.add("employees", "Supervisor must be one of the assignment's employees.")
	}
	return errs.orNil()
}

func applyAttendance(a *Attendance, in v1.AttendanceInput, creating bool) error {
	errs := FieldErrors{}
	if in.Employee > 0 {
		a.EmployeeID = in.Employee
	} else if creating {
		errs.add("employee", requiredMessage)
	}
	if in.Date != "" {
		if d := parseDate(errs, "date", in.Date); d != nil {
			a.Date = *d
		}
	} else if creating {
		errs.add("date", requiredMessage)
	}
	if in.Attended != nil {
		a.Attended = *in.Attended
	}
	return errs.orNil()
}
