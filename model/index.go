package model

import (
	"bus_ticketing/constants"
	"time"
)

type TokenClaim struct {
	UserId uint   `json:"userId"`
	Role   string `json:"role"`
}

// Principal is the authenticated caller of a request.
type Principal struct {
	UserID uint
	Role   string
}

func (p Principal) IsAdmin() bool {
	return p.Role == constants.ROLE_ADMIN
}

type DTO struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ResponseCustom struct {
	Rows       any   `json:"rows"`
	Limit      *int  `json:"limit"`
	Page       *int  `json:"page"`
	TotalCount int64 `json:"totalCount"`
}

type ArrayId struct {
	IDs []uint `json:"ids" validate:"required,min=1,dive,gt=0"`
}

type Pagination struct {
	Limit *int `query:"limit" json:"limit"`
	Page  *int `query:"page" json:"page"`
}

// Offset converts page/limit into skip/limit. Missing values mean page 1 of 10.
func (p Pagination) Offset() (skip, limit int) {
	limit = 10
	if p.Limit != nil && *p.Limit > 0 {
		limit = *p.Limit
	}
	page := 1
	if p.Page != nil && *p.Page > 1 {
		page = *p.Page
	}
	return (page - 1) * limit, limit
}
