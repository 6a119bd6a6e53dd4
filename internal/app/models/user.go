package models

import (
	"time"
)

// User is an identity record in the 'users' table
type User struct {
	ID        int64     `json:"id" db:"id" example:"1"`
	FullName  string    `json:"fullName" db:"full_name" example:"Asha Rao"`
	Email     string    `json:"email" db:"email" example:"asha@example.com"`
	Mobile    string    `json:"mobile" db:"mobile" example:"9876543210"`
	Password  string    `json:"-" db:"password"` // bcrypt hash, never serialized
	Role      Role      `json:"role" db:"role" example:"student"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}
