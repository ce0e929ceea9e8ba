package core

import (
	"context"

	v1 "fieldwork.com/console/api/v1"
	"fieldwork.com/console/utils"
	"golang.org/x/sync/errgroup"
)

// MembersWithSupervisor returns the employees payload for an assignment:
// the supervisor first, then the remaining members without repeats.
func MembersWithSupervisor(supervisor int, employees []int) []int {
	members := make([]int, 0, len(employees)+1)
	if supervisor > 0 {
		members = append(members, supervisor)
	}
	members = append(members, employees...)
	return utils.Unique(members)
}

type Lister[T any] interface {
	List(ctx context.Context) ([]T, error)
}

// AssignmentOptions feeds the field, department and employee pickers of
// the assignment form.
type AssignmentOptions struct {
	Fields      []v1.FieldDTO      `json:"fields"`
	Departments []v1.DepartmentDTO `json:"departments"`
	Employees   []v1.EmployeeDTO   `json:"employees"`
}

// LoadAssignmentOptions fetches the three collections concurrently. The
// first failure cancels the others.
func LoadAssignmentOptions(
	ctx context.Context,
	fields Lister[v1.FieldDTO],
	departments Lister[v1.DepartmentDTO],
	employees Lister[v1.EmployeeDTO],
) (*AssignmentOptions, error) {
	var opts AssignmentOptions
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		opts.Fields, err = fields.List(ctx)
		return err
	})
	g.Go(func() (err error) {
		opts.Departments, err = departments.List(ctx)
		return err
	})
	g.Go(func() (err error) {
		opts.Employees, err = employees.List(ctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &opts, nil
}

type DashboardCounts struct {
	Users       int `json:"users"`
	Employees   int `json:"employees"`
	Fields      int `json:"fields"`
	Departments int `json:"departments"`
	Assignments int `json:"assignments"`
}

// LoadDashboard counts every collection with one request each, in parallel.
func LoadDashboard(ctx context.Context, c *v1.Client) (*DashboardCounts, error) {
	var counts DashboardCounts
	g, ctx := errgroup.WithContext(ctx)
	count := func(dst *int, list func(context.Context) (int, error)) {
		g.Go(func() error {
			n, err := list(ctx)
			*dst = n
			return err
		})
	}
	count(&counts.Users, lenOf[v1.UserDTO](c.Users))
	count(&counts.Employees, lenOf[v1.EmployeeDTO](c.Employees))
	count(&counts.Fields, lenOf[v1.FieldDTO](c.Fields))
	count(&counts.Departments, lenOf[v1.DepartmentDTO](c.Departments))
	count(&counts.Assignments, lenOf[v1.AssignmentDTO](c.Assignments))
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return &counts, nil
}

func lenOf[T any](l Lister[T]) func(context.Context) (int, error) {
	return func(ctx context.Context) (int, error) {
		items, err := l.List(ctx)
		return len(items), err
	}
}
