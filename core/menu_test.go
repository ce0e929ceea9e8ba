package core

import (
	"slices"
	"testing"

	"fieldwork.com/console/utils"
	"github.com/stretchr/testify/assert"
)

func TestMenu(t *testing.T) {
	labels := func(items []MenuItem) []string {
		return utils.Map(items, func(i MenuItem) string { return i.Label })
	}

	assert.Equal(t, []string{"Dashboard", "Profile"}, labels(Menu(nil)))

	perms := []string{"view_employee", "view_attendance"}
	got := labels(Menu(func(p string) bool { return slices.Contains(perms, p) }))
	assert.Equal(t, []string{"Dashboard", "Employees", "Daily attendance", "Weekly attendance", "Profile"}, got)
}
