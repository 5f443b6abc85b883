package model

type User struct {
	DTO
	Username string `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Email    string `gorm:"size:120;uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"`
	Phone    string `gorm:"size:30" json:"phone"`
	Role     string `gorm:"size:20;not null;default:'user'" json:"role"`
}

type CreateUserInput struct {
	Username string `json:"username" validate:"required,min=3,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6,max=72"`
	Phone    string `json:"phone" validate:"required"`
	Role     string `json:"role" validate:"omitempty,oneof=admin user"`
}

type UpdateProfileInput struct {
	Username *string `json:"username" validate:"omitempty,min=3,max=50"`
	Email    *string `json:"email" validate:"omitempty,email"`
	Phone    *string `json:"phone" validate:"omitempty"`
}

type UserFilter struct {
	Pagination
	Role string `query:"role"`
}
