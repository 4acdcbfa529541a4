package domain

// Intent is the closed set of things a user can ask the assistant about.
type Intent string

const (
	IntentOrderStatus      Intent = "ORDER_STATUS"
	IntentUpcomingOrders   Intent = "UPCOMING_ORDERS"
	IntentOrderInfo        Intent = "ORDER_INFO"
	IntentUpcomingBookings Intent = "UPCOMING_BOOKINGS"
	IntentBookingHistory   Intent = "BOOKING_HISTORY"
	IntentBookingInfo      Intent = "BOOKING_INFO"
	IntentServicesInfo     Intent = "SERVICES_INFO"
	IntentAccountInfo      Intent = "ACCOUNT_INFO"
	IntentHelp             Intent = "HELP"
	IntentGeneral          Intent = "GENERAL"
)

// Intents lists every intent in classification priority order.
// GENERAL is last because it is the fallback.
var Intents = []Intent{
	IntentOrderStatus,
	IntentUpcomingBookings,
	IntentBookingHistory,
	IntentBookingInfo,
	IntentUpcomingOrders,
	IntentOrderInfo,
	IntentServicesInfo,
	IntentAccountInfo,
	IntentHelp,
	IntentGeneral,
}

func (i Intent) String() string {
	return string(i)
}

// Valid reports whether i belongs to the enumeration.
func (i Intent) Valid() bool {
	for _, known := range Intents {
		if i == known {
			return true
		}
	}
	return false
}
