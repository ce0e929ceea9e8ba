package mockapi

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	v1 "fieldwork.com/console/api/v1"
	"fieldwork.com/console/security"
	"fieldwork.com/console/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const userIDKey = "user_id"

type Server struct {
	dm        *DatabaseManager
	secret    string
	expiresIn time.Duration
}

// NewServer serves the API under /api. secret is the base64 HS256 key
// tokens are signed with.
func NewServer(dm *DatabaseManager, secret string, expiresIn time.Duration) *Server {
	return &Server{dm: dm, secret: secret, expiresIn: expiresIn}
}

func (s *Server) Register(r *gin.Engine) {
	api := r.Group("/api")
	api.POST("/auth/login/", s.Login)

	protected := api.Group("")
	protected.Use(Authentication(s.secret))
	{
		protected.POST("/auth/logout/", s.Logout)
		protected.PATCH("/auth/profile/update/", s.UpdateProfile)

		users.register(protected, s.dm)
		employees.register(protected, s.dm)
		fields.register(protected, s.dm)
		departments.register(protected, s.dm)
		assignments.register(protected, s.dm)
		attendance.register(protected, s.dm)
	}
}

// Authentication accepts "Authorization: Token <jwt>" signed with secret.
func Authentication(base64Secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		parts := strings.SplitN(c.GetHeader("Authorization"), " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Token") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Authentication credentials were not provided."})
			return
		}

		secret, err := decodeSecret(base64Secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
			return
		}
		claims, err := security.VerifyToken(parts[1], secret)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Invalid token."})
			return
		}

		c.Set(userIDKey, claims.UserID)
		c.Next()
	}
}

func decodeSecret(base64Secret string) ([]byte, error) {
	secret, err := base64.StdEncoding.DecodeString(base64Secret)
	if err != nil {
		return nil, fmt.Errorf("decode signing secret: %w", err)
	}
	return secret, nil
}

func (s *Server) Login(c *gin.Context) {
	var req v1.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	var u User
	err := s.dm.DB.WithContext(c.Request.Context()).Where("email = ?", strings.TrimSpace(req.Email)).First(&u).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		fail(c, err)
		return
	}
	if err != nil || !checkPassword(u.PasswordHash, req.Password) {
		c.JSON(http.StatusBadRequest, FieldErrors{"non_field_errors": {"Unable to log in with provided credentials."}})
		return
	}

	token, err := security.CreateIdentityToken(security.Identity{UserID: u.ID, Email: u.Email, Role: u.Role}, s.secret, s.expiresIn)
	if err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, v1.LoginResponse{Token: token, User: profileDTO(u)})
}

// Logout has nothing to revoke; tokens simply expire.
func (s *Server) Logout(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

func (s *Server) UpdateProfile(c *gin.Context) {
	var in v1.ProfileInput
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	db := s.dm.DB.WithContext(c.Request.Context())
	var u User
	if err := db.First(&u, c.GetInt(userIDKey)).Error; err != nil {
		fail(c, err)
		return
	}
	if err := applyProfile(&u, in); err != nil {
		fail(c, err)
		return
	}
	if err := db.Save(&u).Error; err != nil {
		fail(c, err)
		return
	}
	c.JSON(http.StatusOK, profileDTO(u))
}

func mapAll[M any, DTO any](fn func(M) DTO) func(*gorm.DB, []M) ([]DTO, error) {
	return func(_ *gorm.DB, items []M) ([]DTO, error) {
		return utils.Map(items, fn), nil
	}
}

var users = &entity[User, v1.UserInput, v1.UserDTO]{
	path:   "/users",
	id:     func(u *User) int { return u.ID },
	order:  "id",
	apply:  applyUser,
	toDTOs: mapAll(userDTO),
}

var employees = &entity[Employee, v1.EmployeeInput, v1.EmployeeDTO]{
	path:    "/employees",
	itemKey: "employee",
	id:      func(e *Employee) int { return e.ID },
	order:   "id",
	apply:   applyEmployee,
	protect: func(db *gorm.DB, id int) error {
		return refuseIfUsed(db, &Attendance{}, "employee_id = ?", id, "Employee has attendance records")
	},
	toDTOs: mapAll(employeeDTO),
}

var fields = &entity[Field, v1.FieldInput, v1.FieldDTO]{
	path:    "/fields",
	itemKey: "field",
	id:      func(f *Field) int { return f.ID },
	order:   "id",
	apply:   applyField,
	protect: func(db *gorm.DB, id int) error {
		return refuseIfUsed(db, &Assignment{}, "field_id = ?", id, "Field is used by an assignment")
	},
	toDTOs: mapAll(fieldDTO),
}

var departments = &entity[Department, v1.DepartmentInput, v1.DepartmentDTO]{
	path:  "/departments",
	id:    func(d *Department) int { return d.ID },
	order: "id",
	apply: applyDepartment,
	protect: func(db *gorm.DB, id int) error {
		return refuseIfUsed(db, &Assignment{}, "department_id = ?", id, "Department is used by an assignment")
	},
	toDTOs: mapAll(departmentDTO),
}

var assignments = &entity[Assignment, v1.AssignmentInput, v1.AssignmentDTO]{
	path:    "/assignments",
	id:      func(a *Assignment) int { return a.ID },
	preload: []string{"Field", "Department", "Supervisor"},
	order:   "created_date DESC",
	apply:   applyAssignment,
	protect: func(db *gorm.DB, id int) error {
		var a Assignment
		if err := db.First(&a, id).Error; err != nil {
			return err
		}
		members := a.Members()
		if len(members) == 0 {
			return nil
		}
		q := db.Model(&Attendance{}).Where("employee_id IN ? AND date >= ?", members, a.CreatedDate)
		if a.EndDate != nil {
			q = q.Where("date <= ?", *a.EndDate)
		}
		var n int64
		if err := q.Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return errProtected{reason: "Assignment has attendance records"}
		}
		return nil
	},
	toDTOs: func(db *gorm.DB, items []Assignment) ([]v1.AssignmentDTO, error) {
		var ids []int
		for i := range items {
			ids = append(ids, items[i].Members()...)
		}
		names := map[int]string{}
		if len(ids) > 0 {
			var members []Employee
			if err := db.Where("id IN ?", utils.Unique(ids)).Find(&members).Error; err != nil {
				return nil, err
			}
			for _, e := range members {
				names[e.ID] = e.Name
			}
		}
		return utils.Map(items, func(a Assignment) v1.AssignmentDTO { return assignmentDTO(a, names) }), nil
	},
}

var attendance = &entity[Attendance, v1.AttendanceInput, v1.AttendanceDTO]{
	path:    "/attendance",
	id:      func(a *Attendance) int { return a.ID },
	preload: []string{"Employee"},
	order:   "date DESC, id",
	apply:   applyAttendance,
	prepare: priceAttendance,
	toDTOs:  mapAll(attendanceDTO),
}

// priceAttendance stamps the department and day salary of the assignment
// covering the employee on that date.
func priceAttendance(db *gorm.DB, a *Attendance) error {
	var candidates []Assignment
	if err := db.Preload("Department").Find(&candidates).Error; err != nil {
		return err
	}
	day := time.Time(a.Date)
	for _, asg := range candidates {
		if asg.Covers(day) && utils.Find(asg.Members(), func(id int) bool { return id == a.EmployeeID }) != nil {
			a.DepartmentName = asg.Department.Name
			a.DaySalary = asg.Department.DaySalary
			return nil
		}
	}
	return FieldErrors{"employee": {"Employee has no assignment on this date."}}
}

func refuseIfUsed(db *gorm.DB, model any, where string, id int, reason string) error {
	var n int64
	if err := db.Model(model).Where(where, id).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return errProtected{reason: reason}
	}
	return nil
}
