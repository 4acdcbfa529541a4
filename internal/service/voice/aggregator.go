package voice

import (
	"context"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/seu-repo/clinic-assistant/internal/domain"
	"github.com/seu-repo/clinic-assistant/internal/observability/telemetry"
	"github.com/seu-repo/clinic-assistant/internal/ports"
)

// DefaultRecentLimit bounds how many bookings and orders are fetched per request.
const DefaultRecentLimit = 10

// Clock returns the current time. Tests pin it.
type Clock func() time.Time

type aggregator struct {
	users         ports.UserRepository
	bookings      ports.BookingRepository
	orders        ports.OrderRepository
	consultations ports.ConsultationRepository
	limit         int
	now           Clock
	logger        *zap.Logger
}

// NewAggregator wires the four repositories behind a best-effort fan-out.
// A zero or negative limit falls back to DefaultRecentLimit and a nil clock
// to time.Now.
func NewAggregator(
	users ports.UserRepository,
	bookings ports.BookingRepository,
	orders ports.OrderRepository,
	consultations ports.ConsultationRepository,
	limit int,
	now Clock,
	logger *zap.Logger,
) ports.ContextAggregator {
	if limit <= 0 {
		limit = DefaultRecentLimit
	}
	if now == nil {
		now = time.Now
	}
	return &aggregator{
		users:         users,
		bookings:      bookings,
		orders:        orders,
		consultations: consultations,
		limit:         limit,
		now:           now,
		logger:        logger,
	}
}

// Aggregate never returns an error. Each slice that fails is logged, counted
// and left empty; the bundle is marked unavailable only if all of them fail.
func (a *aggregator) Aggregate(ctx context.Context, userID string) *domain.ContextBundle {
	now := a.now()

	var (
		profile  *domain.User
		bookings []domain.Booking
		orders   []domain.Order
		services []domain.Consultation
	)
	// Each goroutine owns exactly one entry, written before g.Wait returns.
	failures := make([]bool, len(domain.ContextSlices))

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		u, err := a.users.FindByID(gctx, userID)
		if err != nil {
			a.sliceFailed(domain.SliceProfile, userID, err)
			failures[0] = true
			return nil
		}
		profile = u
		return nil
	})

	g.Go(func() error {
		list, err := a.bookings.FindRecentByUserID(gctx, userID, a.limit)
		if err != nil {
			a.sliceFailed(domain.SliceBookings, userID, err)
			failures[1] = true
			return nil
		}
		bookings = list
		return nil
	})

	g.Go(func() error {
		list, err := a.orders.FindRecentByUserID(gctx, userID, a.limit)
		if err != nil {
			a.sliceFailed(domain.SliceOrders, userID, err)
			failures[2] = true
			return nil
		}
		orders = list
		return nil
	})

	g.Go(func() error {
		list, err := a.consultations.FindActive(gctx)
		if err != nil {
			a.sliceFailed(domain.SliceServices, userID, err)
			failures[3] = true
			return nil
		}
		services = list
		return nil
	})

	// Nothing returns an error, Wait only synchronizes.
	_ = g.Wait()

	failed := make(map[domain.ContextSlice]bool)
	for i, slice := range domain.ContextSlices {
		if failures[i] {
			failed[slice] = true
		}
	}

	return domain.NewContextBundle(userID, now, profile, bookings, orders, services, failed)
}

func (a *aggregator) sliceFailed(slice domain.ContextSlice, userID string, err error) {
	telemetry.ContextFetchFailures.WithLabelValues(string(slice)).Inc()
	a.logger.Warn("Context slice unavailable",
		zap.String("slice", string(slice)),
		zap.String("user_id", userID),
		zap.Error(err),
	)
}
