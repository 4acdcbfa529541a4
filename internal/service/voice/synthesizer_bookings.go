package voice

import (
	"fmt"
	"strings"

	"github.com/seu-repo/clinic-assistant/internal/domain"
)

var (
	cancelWords     = wordSet("cancel", "cancels", "cancelling", "canceling", "cancellation", "cancelled", "canceled")
	rescheduleWords = wordSet("reschedule", "rescheduling", "rescheduled", "move my", "change the date", "change the time")
	howToBookWords  = wordSet("how do i book", "how can i book", "how to book", "make a booking", "make an appointment")
	feeWords        = wordSet("cost", "costs", "price", "prices", "pricing", "fee", "fees", "how much", "charge", "charges")
)

func (s *synthesizer) upcomingBookings(b *domain.ContextBundle) string {
	if len(b.UpcomingBookings) == 0 {
		return "You have no upcoming appointments. Would you like me to help you book one?"
	}

	next := b.UpcomingBookings[0]
	var sb strings.Builder

	if q := dayQualifier(dayOffset(b.Now, next.ScheduledAt, s.loc)); q != "" {
		fmt.Fprintf(&sb, "Your next appointment is %s, that's %s.", q, s.date(next.ScheduledAt))
	} else {
		fmt.Fprintf(&sb, "Your next appointment is on %s.", s.date(next.ScheduledAt))
	}

	if branch := next.BranchName(); branch != "" {
		fmt.Fprintf(&sb, " It's for %s at our %s branch.", next.TreatmentName(), branch)
	} else {
		fmt.Fprintf(&sb, " It's for %s.", next.TreatmentName())
	}

	switch len(next.TimeSlots) {
	case 0:
	case 1:
		fmt.Fprintf(&sb, " Your time slot is %s.", next.TimeSlots[0])
	default:
		fmt.Fprintf(&sb, " Your preferred time slots are %s.", joinOr(next.TimeSlots))
	}

	if next.Reference != "" {
		fmt.Fprintf(&sb, " Your booking reference is %s.", next.Reference)
	}

	if next.IsConfirmed() {
		sb.WriteString(" This appointment is confirmed.")
	} else {
		sb.WriteString(" We'll confirm your time slot shortly.")
	}

	if n := len(b.UpcomingBookings); n > 1 {
		fmt.Fprintf(&sb, " You have %d upcoming appointments in total. Would you like me to list the others?", n)
	}
	return sb.String()
}

func (s *synthesizer) bookingHistory(b *domain.ContextBundle) string {
	if len(b.Bookings) == 0 {
		return "You haven't booked any appointments with us yet. Would you like to book your first one?"
	}

	var completed, cancelled int
	for i := range b.Bookings {
		switch {
		case b.Bookings[i].IsCompleted():
			completed++
		case b.Bookings[i].IsCancelled():
			cancelled++
		}
	}

	summary := fmt.Sprintf("You've made %s with us: %d completed and %d cancelled.",
		countNoun(len(b.Bookings), "booking", "bookings"), completed, cancelled)
	if past := b.LastPastBooking(); past != nil {
		return fmt.Sprintf("%s Your most recent booking was for %s on %s.",
			summary, past.TreatmentName(), s.date(past.ScheduledAt))
	}
	// all bookings are still ahead; the oldest of them is the next one
	next := b.Bookings[len(b.Bookings)-1]
	return fmt.Sprintf("%s Nothing has taken place yet; your first visit is for %s on %s.",
		summary, next.TreatmentName(), s.date(next.ScheduledAt))
}

func (s *synthesizer) bookingInfo(text string, b *domain.ContextBundle) string {
	switch {
	case cancelWords.MatchString(text):
		if len(b.UpcomingBookings) == 0 {
			return "You don't have any upcoming appointments to cancel."
		}
		next := b.UpcomingBookings[0]
		msg := fmt.Sprintf("To cancel your %s on %s, open My Bookings in the app and choose Cancel, or call your branch",
			next.TreatmentName(), s.date(next.ScheduledAt))
		if next.Reference != "" {
			msg += " and quote reference " + next.Reference
		}
		return msg + "."

	case rescheduleWords.MatchString(text):
		if len(b.UpcomingBookings) == 0 {
			return "You don't have any upcoming appointments to reschedule."
		}
		next := b.UpcomingBookings[0]
		msg := fmt.Sprintf("To reschedule your %s on %s, open My Bookings in the app and pick new time slots.",
			next.TreatmentName(), s.date(next.ScheduledAt))
		if next.Reference != "" {
			msg += " Your reference is " + next.Reference + "."
		}
		return msg

	case howToBookWords.MatchString(text):
		return "You can book in the app under Book a Consultation. Choose a treatment and a branch, pick the time slots that suit you, and we'll confirm one of them."

	case feeWords.MatchString(text):
		return s.consultationFees(b.Services)
	}

	if len(b.UpcomingBookings) > 0 {
		next := b.UpcomingBookings[0]
		return fmt.Sprintf("Your next appointment is for %s on %s. You have %s with us in total.",
			next.TreatmentName(), s.date(next.ScheduledAt), countNoun(len(b.Bookings), "booking", "bookings"))
	}
	if len(b.Bookings) > 0 {
		return fmt.Sprintf("You have %s on record and nothing coming up. Would you like to book another?",
			countNoun(len(b.Bookings), "booking", "bookings"))
	}
	return "You don't have any bookings yet. Would you like to make one?"
}

// consultationFees quotes consultation-type services first and falls back to
// the overall price range of the catalogue.
func (s *synthesizer) consultationFees(services []domain.Consultation) string {
	if len(services) == 0 {
		return "I'm sorry, I couldn't load our prices right now. Please check the app for current fees."
	}

	var quotes []string
	for _, c := range services {
		if isConsultation(c) {
			quotes = append(quotes, fmt.Sprintf("%s is %s", c.Name, s.money(c.Price)))
		}
	}
	if len(quotes) > 0 {
		return fmt.Sprintf("%s. You can see the full price list under Book a Consultation in the app.",
			capitalize(joinAnd(firstN(quotes, catalogHighlights))))
	}

	lo, hi := services[0].Price, services[0].Price
	for _, c := range services[1:] {
		lo = min(lo, c.Price)
		hi = max(hi, c.Price)
	}
	if lo == hi {
		return fmt.Sprintf("Our treatments cost %s. The exact fee is shown when you book in the app.", s.money(lo))
	}
	return fmt.Sprintf("Our treatments cost between %s and %s, depending on what you choose. The exact fee is shown when you book in the app.",
		s.money(lo), s.money(hi))
}

func isConsultation(c domain.Consultation) bool {
	return strings.Contains(strings.ToLower(c.Name), "consultation") ||
		strings.Contains(strings.ToLower(c.Category), "consultation")
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
