package domain

import "time"

type UserRole string

const (
	RoleCustomer UserRole = "customer"
	RoleStaff    UserRole = "staff"
)

type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"uniqueIndex;size:255;not null"`
	PasswordHash string    `json:"-" gorm:"size:255;not null"`
	Name         string    `json:"name" gorm:"size:120"`
	Phone        string    `json:"phone" gorm:"size:40"`
	Role         UserRole  `json:"role" gorm:"size:20;default:customer"`
	CreatedAt    time.Time `json:"created_at"`
}

func (User) TableName() string { return "users" }
