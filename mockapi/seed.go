package mockapi

import (
	"context"
	"errors"
	"log"

	v1 "fieldwork.com/console/api/v1"
	"gorm.io/gorm"
)

// SeedAdmin creates the first admin account when the users table is empty.
func (dm *DatabaseManager) SeedAdmin(ctx context.Context, email, password string) error {
	return dm.Exec(ctx, func(db *gorm.DB) error {
		var n int64
		if err := db.Model(&User{}).Count(&n).Error; err != nil {
			return err
		}
		if n > 0 {
			return nil
		}
		if email == "" || password == "" {
			return errors.New("an admin email and password are required to seed an empty database")
		}

		var u User
		if err := applyUser(&u, v1.UserInput{Name: "Administrator", Email: email, Password: password, Role: "admin"}, true); err != nil {
			return err
		}
		log.Printf("[INFO] seeding admin user %s", email)
		return db.Create(&u).Error
	})
}
