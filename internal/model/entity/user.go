package entity

import (
	"time"
)

// User is an authenticated account. Password auth only; the hash never
// leaves the server.
type User struct {
	ID           string    `json:"id" gorm:"primaryKey;size:32"`
	Username     string    `json:"username" gorm:"size:64;not null;uniqueIndex"`
	Name         string    `json:"name" gorm:"size:128"`
	PasswordHash string    `json:"-" gorm:"size:128;not null"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (User) TableName() string {
	return "users"
}
