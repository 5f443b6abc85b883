package database

import (
	"bus_ticketing/config"
	"bus_ticketing/constants"
	"bus_ticketing/logger"
	"bus_ticketing/model"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// SeedData creates the configured admin account if it does not exist yet.
func SeedData(db *gorm.DB, admin config.Admin) {
	if admin.Email == "" || admin.Password == "" {
		logger.Log.Warn("ADMIN_EMAIL or ADMIN_PASSWORD not set, skipping admin seed")
		return
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(admin.Password), 10)
	if err != nil {
		logger.Log.Error("failed to hash admin password", "error", err)
		return
	}

	account := model.User{
		Username: admin.Username,
		Email:    admin.Email,
		Password: string(bytes),
		Role:     constants.ROLE_ADMIN,
	}
	if err := db.Where(model.User{Username: account.Username}).FirstOrCreate(&account).Error; err != nil {
		logger.Log.Error("failed to seed admin", "username", account.Username, "error", err)
	}
}
