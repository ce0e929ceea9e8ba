package core

// MenuItem is one sidebar entry. An empty Permission is always shown.
type MenuItem struct {
	Label      string `json:"label"`
	Path       string `json:"path"`
	Permission string `json:"-"`
}

var menu = []MenuItem{
	{Label: "Dashboard", Path: "/console/dashboard"},
	{Label: "Users", Path: "/console/users", Permission: "view_user"},
	{Label: "Employees", Path: "/console/employees", Permission: "view_employee"},
	{Label: "Fields", Path: "/console/fields", Permission: "view_field"},
	{Label: "Departments", Path: "/console/departments", Permission: "view_department"},
	{Label: "Assignments", Path: "/console/assignments", Permission: "view_assignment"},
	{Label: "Daily attendance", Path: "/console/attendance/daily", Permission: "view_attendance"},
	{Label: "Weekly attendance", Path: "/console/attendance/weekly", Permission: "view_attendance"},
	{Label: "Profile", Path: "/console/profile"},
}

// Menu returns the entries the operator may see, in display order.
func Menu(has func(permission string) bool) []MenuItem {
	items := make([]MenuItem, 0, len(menu))
	for _, item := range menu {
		if item.Permission == "" || (has != nil && has(item.Permission)) {
			items = append(items, item)
		}
	}
	return items
}
