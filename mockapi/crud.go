package mockapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// entity describes one REST collection over a gorm model.
type entity[M any, In any, DTO any] struct {
	path    string
	itemKey string
	id      func(m *M) int
	preload []string
	order   string
	apply   func(m *M, in In, creating bool) error
	// prepare runs inside the write transaction after apply.
	prepare func(db *gorm.DB, m *M) error
	// protect vetoes a delete with a user-facing reason.
	protect func(db *gorm.DB, id int) error
	toDTOs  func(db *gorm.DB, items []M) ([]DTO, error)
}

// errProtected carries a delete veto to the client as {"detail": ...}.
type errProtected struct{ reason string }

func (e errProtected) Error() string { return e.reason }

func (e *entity[M, In, DTO]) register(r gin.IRoutes, dm *DatabaseManager) {
	r.GET(e.path+"/", e.list(dm))
	r.POST(e.path+"/add/", e.create(dm))
	r.GET(e.path+"/:id/", e.get(dm))
	r.PATCH(e.path+"/:id/update/", e.update(dm))
	r.DELETE(e.path+"/:id/delete/", e.remove(dm))
}

func (e *entity[M, In, DTO]) query(db *gorm.DB) *gorm.DB {
	for _, p := range e.preload {
		db = db.Preload(p)
	}
	return db
}

func (e *entity[M, In, DTO]) respond(c *gin.Context, db *gorm.DB, status int, m M) {
	dtos, err := e.toDTOs(db, []M{m})
	if err != nil {
		fail(c, err)
		return
	}
	if e.itemKey != "" {
		c.JSON(status, gin.H{e.itemKey: dtos[0]})
		return
	}
	c.JSON(status, dtos[0])
}

func (e *entity[M, In, DTO]) list(dm *DatabaseManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		db := dm.DB.WithContext(c.Request.Context())
		var items []M
		q := e.query(db)
		if e.order != "" {
			q = q.Order(e.order)
		}
		if err := q.Find(&items).Error; err != nil {
			fail(c, err)
			return
		}
		dtos, err := e.toDTOs(db, items)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, dtos)
	}
}

func (e *entity[M, In, DTO]) load(db *gorm.DB, c *gin.Context) (*M, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
		return nil, false
	}
	var m M
	if err := e.query(db).First(&m, id).Error; err != nil {
		fail(c, err)
		return nil, false
	}
	return &m, true
}

func (e *entity[M, In, DTO]) get(dm *DatabaseManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		db := dm.DB.WithContext(c.Request.Context())
		m, ok := e.load(db, c)
		if !ok {
			return
		}
		e.respond(c, db, http.StatusOK, *m)
	}
}

func (e *entity[M, In, DTO]) save(c *gin.Context, db *gorm.DB, m *M, creating bool) bool {
	var in In
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return false
	}
	if err := e.apply(m, in, creating); err != nil {
		fail(c, err)
		return false
	}

	err := db.Transaction(func(tx *gorm.DB) error {
		if e.prepare != nil {
			if err := e.prepare(tx, m); err != nil {
				return err
			}
		}
		return tx.Omit(e.preload...).Save(m).Error
	})
	if err != nil {
		fail(c, err)
		return false
	}
	return true
}

func (e *entity[M, In, DTO]) create(dm *DatabaseManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		db := dm.DB.WithContext(c.Request.Context())
		var m M
		if !e.save(c, db, &m, true) {
			return
		}
		e.reloadAndRespond(c, db, http.StatusCreated, &m)
	}
}

func (e *entity[M, In, DTO]) update(dm *DatabaseManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		db := dm.DB.WithContext(c.Request.Context())
		m, ok := e.load(db, c)
		if !ok {
			return
		}
		if !e.save(c, db, m, false) {
			return
		}
		e.reloadAndRespond(c, db, http.StatusOK, m)
	}
}

// reloadAndRespond re-reads m so preloaded relations reflect new ids.
func (e *entity[M, In, DTO]) reloadAndRespond(c *gin.Context, db *gorm.DB, status int, m *M) {
	var fresh M
	if err := e.query(db).First(&fresh, e.id(m)).Error; err != nil {
		fail(c, err)
		return
	}
	e.respond(c, db, status, fresh)
}

func (e *entity[M, In, DTO]) remove(dm *DatabaseManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		db := dm.DB.WithContext(c.Request.Context())
		m, ok := e.load(db, c)
		if !ok {
			return
		}
		if e.protect != nil {
			if err := e.protect(db, e.id(m)); err != nil {
				fail(c, err)
				return
			}
		}
		if err := db.Delete(m).Error; err != nil {
			fail(c, err)
			return
		}
		c.Status(http.StatusNoContent)
	}
}

// fail maps an error onto the API's error bodies.
func fail(c *gin.Context, err error) {
	var fieldErrs FieldErrors
	var protected errProtected
	switch {
	case errors.As(err, &fieldErrs):
		c.JSON(http.StatusBadRequest, fieldErrs)
	case errors.As(err, &protected):
		c.JSON(http.StatusBadRequest, gin.H{"detail": protected.reason})
	case errors.Is(err, gorm.ErrRecordNotFound):
		c.JSON(http.StatusNotFound, gin.H{"detail": "Not found."})
	case errors.Is(err, gorm.ErrDuplicatedKey):
		c.JSON(http.StatusBadRequest, gin.H{"detail": "A record with these values already exists."})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"detail": err.Error()})
	}
}
