package model

import (
	"time"
)

type User struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	Name        string     `gorm:"type:varchar(128);not null" json:"name"`
	Email       string     `gorm:"type:varchar(128);uniqueIndex:idx_user_email;not null" json:"email"`
	Password    string     `gorm:"type:varchar(128);not null" json:"-"`
	Phone       string     `gorm:"type:varchar(32)" json:"phone"`
	Role        string     `gorm:"type:varchar(32);not null;default:focal_person;index:idx_user_role" json:"role"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
	LastLoginAt *time.Time `json:"last_login_at"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

func (User) TableName() string { return "users" }

type UserBrief struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
}

func (u *User) Brief() UserBrief {
	return UserBrief{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
		Role:  u.Role,
	}
}
