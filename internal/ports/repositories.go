package ports

import (
	"context"

	"github.com/seu-repo/clinic-assistant/internal/domain"
)

// UserRepository reads customer profiles. FindByID returns (nil, nil) when
// the user does not exist.
type UserRepository interface {
	FindByID(ctx context.Context, id string) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)
}

// BookingRepository returns bookings newest first with consultation and
// branch summaries joined.
type BookingRepository interface {
	FindRecentByUserID(ctx context.Context, userID string, limit int) ([]domain.Booking, error)
}

// OrderRepository returns orders newest first with items and products joined.
type OrderRepository interface {
	FindRecentByUserID(ctx context.Context, userID string, limit int) ([]domain.Order, error)
}

// ConsultationRepository reads the catalog of service definitions.
type ConsultationRepository interface {
	FindActive(ctx context.Context) ([]domain.Consultation, error)
}
