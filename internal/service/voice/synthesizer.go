package voice

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/seu-repo/clinic-assistant/internal/domain"
	"github.com/seu-repo/clinic-assistant/internal/ports"
)

// Chooser picks an index in [0, n). *rand.Rand satisfies it.
type Chooser interface {
	Intn(n int) int
}

// ChooserFunc adapts a function to Chooser.
type ChooserFunc func(n int) int

func (f ChooserFunc) Intn(n int) int { return f(n) }

// Greetings open GENERAL responses.
var Greetings = []string{
	"Hello!",
	"Hi there!",
	"Hey!",
	"Good to hear from you!",
}

const (
	helpText = "I can help you track your orders, check your upcoming appointments, " +
		"look back at your booking history, tell you about our services and prices, " +
		"and go over your account details. What would you like to know?"
	capabilityText = "I can help with your orders, your appointments, our services and your account. " +
		"What would you like to know?"
)

// SynthesizerOptions controls rendering. Zero values fall back to UTC, "$"
// and the package-level math/rand source.
type SynthesizerOptions struct {
	Location       *time.Location
	CurrencySymbol string
	Chooser        Chooser
}

type synthesizer struct {
	loc      *time.Location
	currency string
	chooser  Chooser
}

func NewSynthesizer(opts SynthesizerOptions) ports.ResponseSynthesizer {
	s := &synthesizer{
		loc:      opts.Location,
		currency: opts.CurrencySymbol,
		chooser:  opts.Chooser,
	}
	if s.loc == nil {
		s.loc = time.UTC
	}
	if s.currency == "" {
		s.currency = "$"
	}
	if s.chooser == nil {
		s.chooser = ChooserFunc(rand.Intn)
	}
	return s
}

// Synthesize selects the template family by intent, then refines it with a
// keyword scan over the utterance. It always returns non-empty text.
func (s *synthesizer) Synthesize(intent domain.Intent, utterance string, bundle *domain.ContextBundle) string {
	if bundle == nil {
		bundle = domain.NewContextBundle("", time.Now(), nil, nil, nil, nil, nil)
	}
	text := Normalize(utterance)

	switch intent {
	case domain.IntentOrderStatus:
		return s.orderStatus(text, bundle)
	case domain.IntentUpcomingOrders:
		return s.upcomingOrders(text, bundle)
	case domain.IntentOrderInfo:
		return s.orderInfo(text, bundle)
	case domain.IntentUpcomingBookings:
		return s.upcomingBookings(bundle)
	case domain.IntentBookingHistory:
		return s.bookingHistory(bundle)
	case domain.IntentBookingInfo:
		return s.bookingInfo(text, bundle)
	case domain.IntentServicesInfo:
		return s.servicesInfo(text, bundle)
	case domain.IntentAccountInfo:
		return s.accountInfo(bundle)
	case domain.IntentHelp:
		return helpText
	default:
		return s.general()
	}
}

func (s *synthesizer) general() string {
	greeting := Greetings[s.chooser.Intn(len(Greetings))]
	return greeting + " " + capabilityText
}

func (s *synthesizer) money(amount float64) string {
	return fmt.Sprintf("%s%.2f", s.currency, amount)
}

func (s *synthesizer) date(t time.Time) string {
	return formatDate(t, s.loc)
}

func (s *synthesizer) accountInfo(b *domain.ContextBundle) string {
	if b.Profile == nil || strings.TrimSpace(b.Profile.Name) == "" {
		return "I'm sorry, I couldn't find your account details."
	}
	p := b.Profile

	var sb strings.Builder
	if p.IsPremium() {
		fmt.Fprintf(&sb, "Hi %s, you're a Premium member, so you get priority booking and member pricing.", p.FirstName())
	} else {
		fmt.Fprintf(&sb, "Hi %s, you're on our Standard membership.", p.FirstName())
	}
	if p.Email != "" {
		fmt.Fprintf(&sb, " Your registered email is %s.", p.Email)
	}
	if p.Phone != "" {
		fmt.Fprintf(&sb, " The phone number on file is %s.", p.Phone)
	}
	return sb.String()
}
