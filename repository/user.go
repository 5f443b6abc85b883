package repository

import (
	"bus_ticketing/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	Store[model.User]
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{Store: NewStore[model.User](db)}
}
