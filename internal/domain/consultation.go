package domain

import "time"

// Consultation is a catalog service definition: a treatment the clinic offers.
// Bookings reference it and the assistant describes the active set.
type Consultation struct {
	ID              string    `json:"id" gorm:"primaryKey"`
	Name            string    `json:"name"`
	Category        string    `json:"category" gorm:"index"`
	Description     string    `json:"description,omitempty"`
	Price           float64   `json:"price"`
	DurationMinutes int       `json:"duration_minutes"`
	Popular         bool      `json:"popular"`
	Active          bool      `json:"active" gorm:"index"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
