package domain

import (
	"sort"
	"time"
)

// ContextSlice names one independently fetched part of a ContextBundle.
type ContextSlice string

const (
	SliceProfile  ContextSlice = "profile"
	SliceBookings ContextSlice = "bookings"
	SliceOrders   ContextSlice = "orders"
	SliceServices ContextSlice = "services"
)

// ContextSlices lists every slice the aggregator fetches.
var ContextSlices = []ContextSlice{SliceProfile, SliceBookings, SliceOrders, SliceServices}

// ContextBundle is the read-only snapshot of one user's data for a single
// request. It is built once by NewContextBundle and must not be mutated.
type ContextBundle struct {
	UserID   string
	Now      time.Time
	Profile  *User
	Bookings []Booking      // newest first
	Orders   []Order        // newest first
	Services []Consultation // active catalog

	// Derived views, computed against Now at construction.
	UpcomingBookings []Booking // nearest first
	ActiveOrders     []Order   // newest first

	// Failed records which slices could not be fetched.
	Failed map[ContextSlice]bool
	// Unavailable is true only when every slice failed.
	Unavailable bool
}

// NewContextBundle assembles a bundle and computes its derived views using now.
func NewContextBundle(userID string, now time.Time, profile *User, bookings []Booking, orders []Order, services []Consultation, failed map[ContextSlice]bool) *ContextBundle {
	if failed == nil {
		failed = make(map[ContextSlice]bool)
	}

	b := &ContextBundle{
		UserID:   userID,
		Now:      now,
		Profile:  profile,
		Bookings: bookings,
		Orders:   orders,
		Services: services,
		Failed:   failed,
	}

	b.UpcomingBookings = upcomingBookings(bookings, now)
	b.ActiveOrders = activeOrders(orders)

	b.Unavailable = true
	for _, slice := range ContextSlices {
		if !failed[slice] {
			b.Unavailable = false
			break
		}
	}

	return b
}

func upcomingBookings(bookings []Booking, now time.Time) []Booking {
	var upcoming []Booking
	for _, bk := range bookings {
		if bk.ScheduledAt.After(now) && bk.IsPendingVisit() {
			upcoming = append(upcoming, bk)
		}
	}
	sort.SliceStable(upcoming, func(i, j int) bool {
		return upcoming[i].ScheduledAt.Before(upcoming[j].ScheduledAt)
	})
	return upcoming
}

func activeOrders(orders []Order) []Order {
	var active []Order
	for _, o := range orders {
		if !o.IsTerminal() {
			active = append(active, o)
		}
	}
	return active
}

// LatestOrder returns the newest order or nil.
func (b *ContextBundle) LatestOrder() *Order {
	if len(b.Orders) == 0 {
		return nil
	}
	return &b.Orders[0]
}

// LastPastBooking returns the newest booking scheduled at or before Now, or
// nil when every booking lies in the future.
func (b *ContextBundle) LastPastBooking() *Booking {
	for i := range b.Bookings {
		if !b.Bookings[i].ScheduledAt.After(b.Now) {
			return &b.Bookings[i]
		}
	}
	return nil
}
