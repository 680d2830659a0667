package models

import "time"

type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Username string `gorm:"size:30;uniqueIndex;not null" json:"username"`
	Email    string `gorm:"size:100;uniqueIndex;not null" json:"email"`

	PasswordHash     string `gorm:"size:255;not null" json:"-"`
	RefreshTokenHash string `gorm:"size:64" json:"-"`

	Role string `gorm:"size:20;default:'user';not null" json:"role"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
