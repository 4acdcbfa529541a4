package domain

import (
	"strings"
	"time"
)

type MembershipTier string

const (
	MembershipPremium  MembershipTier = "premium"
	MembershipStandard MembershipTier = "standard"
)

// User is the customer profile the assistant speaks about.
type User struct {
	ID             string         `json:"id" gorm:"primaryKey"`
	Name           string         `json:"name"`
	Email          string         `json:"email" gorm:"uniqueIndex"`
	Phone          string         `json:"phone,omitempty" gorm:"index"`
	MembershipTier MembershipTier `json:"membership_tier" gorm:"default:standard"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// IsPremium matches the tier case-insensitively since older rows store "Premium".
func (u *User) IsPremium() bool {
	return strings.EqualFold(string(u.MembershipTier), string(MembershipPremium))
}

// FirstName returns the first word of the profile name.
func (u *User) FirstName() string {
	fields := strings.Fields(u.Name)
	if len(fields) == 0 {
		return ""
	}
	return fields[0]
}
