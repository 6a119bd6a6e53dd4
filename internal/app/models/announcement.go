package models

import "time"

// Announcement is a standalone broadcast. It is never updated in place.
type Announcement struct {
	ID        int64     `json:"id" db:"id"`
	Title     string    `json:"title" db:"title" example:"Holiday notice"`
	Message   string    `json:"message" db:"message"`
	Date      string    `json:"date" db:"date" example:"2024-08-15"`
	Time      *string   `json:"time" db:"time" example:"10:00"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}
