package domain

import (
	"strings"
	"time"
)

// BookingStatus represents the lifecycle of a clinic appointment
type BookingStatus string

const (
	BookingStatusAwaitingConfirmation BookingStatus = "awaiting_confirmation"
	BookingStatusConfirmed            BookingStatus = "confirmed"
	BookingStatusRescheduled          BookingStatus = "rescheduled"
	BookingStatusCompleted            BookingStatus = "completed"
	BookingStatusCancelled            BookingStatus = "cancelled"
	BookingStatusNoShow               BookingStatus = "no_show"
)

// Branch is a clinic location.
type Branch struct {
	ID      string `json:"id" gorm:"primaryKey"`
	Name    string `json:"name"`
	City    string `json:"city"`
	Address string `json:"address"`
}

// Booking is an appointment for a consultation at a branch.
type Booking struct {
	ID             string        `json:"id" gorm:"primaryKey"`
	Reference      string        `json:"reference" gorm:"uniqueIndex"`
	UserID         string        `json:"user_id" gorm:"index"`
	ConsultationID string        `json:"consultation_id" gorm:"index"`
	BranchID       string        `json:"branch_id" gorm:"index"`
	ScheduledAt    time.Time     `json:"scheduled_at" gorm:"index"`
	TimeSlots      []string      `json:"time_slots" gorm:"serializer:json"`
	Status         BookingStatus `json:"status" gorm:"index"`
	Notes          string        `json:"notes,omitempty"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`

	// Relations (joined summaries)
	Consultation *Consultation `json:"consultation,omitempty" gorm:"foreignKey:ConsultationID"`
	Branch       *Branch       `json:"branch,omitempty" gorm:"foreignKey:BranchID"`
}

func (b *Booking) statusIs(status BookingStatus) bool {
	return strings.EqualFold(string(b.Status), string(status))
}

// IsPendingVisit is true for bookings that are still expected to happen.
func (b *Booking) IsPendingVisit() bool {
	return b.statusIs(BookingStatusAwaitingConfirmation) ||
		b.statusIs(BookingStatusConfirmed) ||
		b.statusIs(BookingStatusRescheduled)
}

func (b *Booking) IsConfirmed() bool {
	return b.statusIs(BookingStatusConfirmed)
}

func (b *Booking) IsCompleted() bool {
	return b.statusIs(BookingStatusCompleted)
}

func (b *Booking) IsCancelled() bool {
	return b.statusIs(BookingStatusCancelled)
}

// TreatmentName falls back to a generic noun when the join is missing.
func (b *Booking) TreatmentName() string {
	if b.Consultation == nil || b.Consultation.Name == "" {
		return "consultation"
	}
	return b.Consultation.Name
}

func (b *Booking) BranchName() string {
	if b.Branch == nil || b.Branch.Name == "" {
		return ""
	}
	return b.Branch.Name
}
