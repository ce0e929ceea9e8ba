package core

import (
	"context"
	"strings"
	"time"

	v1 "fieldwork.com/console/api/v1"
	"fieldwork.com/console/utils"
)

// Form is a screen's local input state.
type Form[In any] interface {
	Validate() error
	Input() In
}

type Creator[T any, In any] interface {
	Create(ctx context.Context, in In) (*T, error)
}

type Updater[T any, In any] interface {
	Update(ctx context.Context, id int, in In) (*T, error)
}

// Create validates form and, only if it passes, posts it. Server
// rejections come back as an error toast built from the response body.
func Create[T any, In any](ctx context.Context, form Form[In], c Creator[T, In], entity string) (*T, Toast, error) {
	if err := form.Validate(); err != nil {
		return nil, FromError(err), err
	}
	created, err := c.Create(ctx, form.Input())
	if err != nil {
		return nil, FromError(err), err
	}
	return created, Success(entity + " created successfully"), nil
}

// Update validates form and patches record id.
func Update[T any, In any](ctx context.Context, id int, form Form[In], u Updater[T, In], entity string) (*T, Toast, error) {
	if err := form.Validate(); err != nil {
		return nil, FromError(err), err
	}
	updated, err := u.Update(ctx, id, form.Input())
	if err != nil {
		return nil, FromError(err), err
	}
	return updated, Success(entity + " updated successfully"), nil
}

func checkPasswords(password, confirm string) error {
	if password != confirm {
		return invalid("Passwords do not match")
	}
	return nil
}

type LoginForm struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

func (f LoginForm) Validate() error {
	return ValidateStruct(f)
}

type UserForm struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	PhoneNumber     string `json:"phone_number" validate:"required,phone"`
	Role            string `json:"role" validate:"required"`
	Password        string `json:"password" validate:"required,min=6"`
	ConfirmPassword string `json:"confirmPassword" validate:"required"`
}

func (f UserForm) Validate() error {
	if err := checkPasswords(f.Password, f.ConfirmPassword); err != nil {
		return err
	}
	return ValidateStruct(f)
}

func (f UserForm) Input() v1.UserInput {
	return v1.UserInput{
		Name:        strings.TrimSpace(f.Name),
		Email:       strings.TrimSpace(f.Email),
		PhoneNumber: strings.TrimSpace(f.PhoneNumber),
		Role:        f.Role,
		Password:    f.Password,
	}
}

// UserEditForm leaves the password untouched unless one is given.
type UserEditForm struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	PhoneNumber     string `json:"phone_number" validate:"required,phone"`
	Role            string `json:"role" validate:"required"`
	Password        string `json:"password" validate:"omitempty,min=6"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (f UserEditForm) Validate() error {
	if err := checkPasswords(f.Password, f.ConfirmPassword); err != nil {
		return err
	}
	return ValidateStruct(f)
}

func (f UserEditForm) Input() v1.UserInput {
	return v1.UserInput{
		Name:        strings.TrimSpace(f.Name),
		Email:       strings.TrimSpace(f.Email),
		PhoneNumber: strings.TrimSpace(f.PhoneNumber),
		Role:        f.Role,
		Password:    f.Password,
	}
}

type ProfileForm struct {
	Name            string `json:"name" validate:"required"`
	Email           string `json:"email" validate:"required,email"`
	PhoneNumber     string `json:"phone_number" validate:"omitempty,phone"`
	Password        string `json:"password" validate:"omitempty,min=6"`
	ConfirmPassword string `json:"confirmPassword"`
}

func (f ProfileForm) Validate() error {
	if err := checkPasswords(f.Password, f.ConfirmPassword); err != nil {
		return err
	}
	return ValidateStruct(f)
}

func (f ProfileForm) Input() v1.ProfileInput {
	return v1.ProfileInput{
		Name:        strings.TrimSpace(f.Name),
		Email:       strings.TrimSpace(f.Email),
		PhoneNumber: strings.TrimSpace(f.PhoneNumber),
		Password:    f.Password,
	}
}

type EmployeeForm struct {
	Name        string `json:"name" validate:"required"`
	Email       string `json:"email" validate:"omitempty,email"`
	PhoneNumber string `json:"phone_number" validate:"required,phone"`
	Address     string `json:"address"`
	TagID       string `json:"tag_id" validate:"required"`
	NID         string `json:"nid" validate:"omitempty,numeric"`
	RSSBNumber  string `json:"rssb_number"`
}

func (f EmployeeForm) Validate() error {
	return ValidateStruct(f)
}

func (f EmployeeForm) Input() v1.EmployeeInput {
	return v1.EmployeeInput{
		Name:        strings.TrimSpace(f.Name),
		Email:       strings.TrimSpace(f.Email),
		PhoneNumber: strings.TrimSpace(f.PhoneNumber),
		Address:     strings.TrimSpace(f.Address),
		TagID:       strings.TrimSpace(f.TagID),
		NID:         strings.TrimSpace(f.NID),
		RSSBNumber:  strings.TrimSpace(f.RSSBNumber),
	}
}

type FieldForm struct {
	Name    string `json:"name" validate:"required"`
	Address string `json:"address" validate:"required"`
}

func (f FieldForm) Validate() error {
	return ValidateStruct(f)
}

func (f FieldForm) Input() v1.FieldInput {
	return v1.FieldInput{Name: strings.TrimSpace(f.Name), Address: strings.TrimSpace(f.Address)}
}

type DepartmentForm struct {
	Name      string  `json:"name" validate:"required"`
	DaySalary float64 `json:"day_salary" validate:"gt=0"`
}

func (f DepartmentForm) Validate() error {
	return ValidateStruct(f)
}

func (f DepartmentForm) Input() v1.DepartmentInput {
	return v1.DepartmentInput{Name: strings.TrimSpace(f.Name), DaySalary: utils.Ptr(f.DaySalary)}
}

type AssignmentForm struct {
	Name        string `json:"name" validate:"required"`
	Field       int    `json:"field" validate:"required,gt=0"`
	Department  int    `json:"department" validate:"required,gt=0"`
	Supervisor  int    `json:"supervisor" validate:"required,gt=0"`
	Employees   []int  `json:"employees" validate:"dive,gt=0"`
	CreatedDate string `json:"created_date" validate:"required,datetime=2006-01-02"`
	EndDate     string `json:"end_date" validate:"omitempty,datetime=2006-01-02"`
	Notes       string `json:"notes"`
}

func (f AssignmentForm) Validate() error {
	if err := ValidateStruct(f); err != nil {
		return err
	}
	if f.EndDate != "" {
		start, _ := time.Parse(utils.DateLayout, f.CreatedDate)
		end, _ := time.Parse(utils.DateLayout, f.EndDate)
		if end.Before(start) {
			return invalid("End date cannot be before the start date")
		}
	}
	return nil
}

func (f AssignmentForm) Input() v1.AssignmentInput {
	in := v1.AssignmentInput{
		Name:        strings.TrimSpace(f.Name),
		Field:       f.Field,
		Department:  f.Department,
		Supervisor:  f.Supervisor,
		Employees:   MembersWithSupervisor(f.Supervisor, f.Employees),
		CreatedDate: f.CreatedDate,
		Notes:       strings.TrimSpace(f.Notes),
	}
	if f.EndDate != "" {
		in.EndDate = utils.Ptr(f.EndDate)
	}
	return in
}
