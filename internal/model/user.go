package model

import "time"

// User represents a customer or administrator of the shop.
type User struct {
	ID              uint       `json:"id" gorm:"primaryKey"`
	Name            string     `json:"name" gorm:"size:255;not null;index"`
	PasswordHash    string     `json:"-" gorm:"size:255;not null"` // Never expose in JSON
	LastLogin       *time.Time `json:"last_login,omitempty"`
	SessionActivity *time.Time `json:"-"` // NULL means no live session
	IsActive        bool       `json:"is_active" gorm:"not null;default:true"`
	IsAdmin         bool       `json:"is_admin" gorm:"not null;default:false"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}
