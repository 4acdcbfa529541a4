package voice

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seu-repo/clinic-assistant/internal/domain"
	"github.com/seu-repo/clinic-assistant/internal/mocks"
)

var fixedNow = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return fixedNow }

type repoSet struct {
	users         *mocks.MockUserRepository
	bookings      *mocks.MockBookingRepository
	orders        *mocks.MockOrderRepository
	consultations *mocks.MockConsultationRepository
}

func newRepoSet() *repoSet {
	return &repoSet{
		users: &mocks.MockUserRepository{
			FindByIDFunc: func(ctx context.Context, id string) (*domain.User, error) {
				return &domain.User{ID: id, Name: "Ana Souza", Email: "ana@example.com"}, nil
			},
		},
		bookings:      &mocks.MockBookingRepository{},
		orders:        &mocks.MockOrderRepository{},
		consultations: &mocks.MockConsultationRepository{},
	}
}

func (r *repoSet) aggregator(limit int) *aggregator {
	return NewAggregator(r.users, r.bookings, r.orders, r.consultations, limit, fixedClock, newTestLogger()).(*aggregator)
}

func TestAggregator_Aggregate_AllSlices(t *testing.T) {
	// Arrange
	repos := newRepoSet()
	repos.bookings.FindRecentByUserIDFunc = func(ctx context.Context, userID string, limit int) ([]domain.Booking, error) {
		return []domain.Booking{
			{ID: "b2", Status: domain.BookingStatusConfirmed, ScheduledAt: fixedNow.Add(72 * time.Hour)},
			{ID: "b1", Status: domain.BookingStatusConfirmed, ScheduledAt: fixedNow.Add(24 * time.Hour)},
			{ID: "b0", Status: domain.BookingStatusCompleted, ScheduledAt: fixedNow.Add(-24 * time.Hour)},
		}, nil
	}
	repos.orders.FindRecentByUserIDFunc = func(ctx context.Context, userID string, limit int) ([]domain.Order, error) {
		return []domain.Order{
			{ID: "o2", Status: domain.OrderStatusShipped},
			{ID: "o1", Status: domain.OrderStatusDelivered},
		}, nil
	}
	repos.consultations.FindActiveFunc = func(ctx context.Context) ([]domain.Consultation, error) {
		return []domain.Consultation{{ID: "c1", Name: "Hydrafacial"}}, nil
	}

	// Act
	bundle := repos.aggregator(0).Aggregate(context.Background(), "user-123")

	// Assert
	require.NotNil(t, bundle)
	assert.False(t, bundle.Unavailable)
	assert.Empty(t, bundle.Failed)
	assert.Equal(t, "user-123", bundle.UserID)
	assert.Equal(t, fixedNow, bundle.Now)
	require.NotNil(t, bundle.Profile)
	assert.Equal(t, "Ana Souza", bundle.Profile.Name)
	assert.Len(t, bundle.Bookings, 3)
	assert.Len(t, bundle.Orders, 2)
	assert.Len(t, bundle.Services, 1)

	require.Len(t, bundle.UpcomingBookings, 2)
	assert.Equal(t, "b1", bundle.UpcomingBookings[0].ID, "upcoming bookings are nearest first")
	require.Len(t, bundle.ActiveOrders, 1)
	assert.Equal(t, "o2", bundle.ActiveOrders[0].ID)
}

func TestAggregator_Aggregate_PassesLimit(t *testing.T) {
	repos := newRepoSet()
	var bookingLimit, orderLimit int
	repos.bookings.FindRecentByUserIDFunc = func(ctx context.Context, userID string, limit int) ([]domain.Booking, error) {
		bookingLimit = limit
		return nil, nil
	}
	repos.orders.FindRecentByUserIDFunc = func(ctx context.Context, userID string, limit int) ([]domain.Order, error) {
		orderLimit = limit
		return nil, nil
	}

	repos.aggregator(5).Aggregate(context.Background(), "user-123")
	assert.Equal(t, 5, bookingLimit)
	assert.Equal(t, 5, orderLimit)

	repos.aggregator(0).Aggregate(context.Background(), "user-123")
	assert.Equal(t, DefaultRecentLimit, bookingLimit)
	assert.Equal(t, DefaultRecentLimit, orderLimit)
}

func TestAggregator_Aggregate_PartialFailure(t *testing.T) {
	// Arrange
	repos := newRepoSet()
	repos.orders.FindRecentByUserIDFunc = func(ctx context.Context, userID string, limit int) ([]domain.Order, error) {
		return nil, errors.New("orders table locked")
	}
	repos.bookings.FindRecentByUserIDFunc = func(ctx context.Context, userID string, limit int) ([]domain.Booking, error) {
		return []domain.Booking{{ID: "b1", Status: domain.BookingStatusConfirmed, ScheduledAt: fixedNow.Add(time.Hour)}}, nil
	}

	// Act
	bundle := repos.aggregator(0).Aggregate(context.Background(), "user-123")

	// Assert
	assert.False(t, bundle.Unavailable)
	assert.True(t, bundle.Failed[domain.SliceOrders])
	assert.False(t, bundle.Failed[domain.SliceBookings])
	assert.Empty(t, bundle.Orders)
	assert.Empty(t, bundle.ActiveOrders)
	assert.Len(t, bundle.Bookings, 1)
	assert.NotNil(t, bundle.Profile)
}

func TestAggregator_Aggregate_ProfileFailureLeavesNilProfile(t *testing.T) {
	repos := newRepoSet()
	repos.users.FindByIDFunc = func(ctx context.Context, id string) (*domain.User, error) {
		return nil, errors.New("connection reset")
	}

	bundle := repos.aggregator(0).Aggregate(context.Background(), "user-123")

	assert.Nil(t, bundle.Profile)
	assert.True(t, bundle.Failed[domain.SliceProfile])
	assert.False(t, bundle.Unavailable)
}

func TestAggregator_Aggregate_TotalFailure(t *testing.T) {
	// Arrange
	repos := newRepoSet()
	dbDown := errors.New("database unreachable")
	repos.users.FindByIDFunc = func(ctx context.Context, id string) (*domain.User, error) { return nil, dbDown }
	repos.bookings.FindRecentByUserIDFunc = func(ctx context.Context, userID string, limit int) ([]domain.Booking, error) {
		return nil, dbDown
	}
	repos.orders.FindRecentByUserIDFunc = func(ctx context.Context, userID string, limit int) ([]domain.Order, error) {
		return nil, dbDown
	}
	repos.consultations.FindActiveFunc = func(ctx context.Context) ([]domain.Consultation, error) { return nil, dbDown }

	// Act
	bundle := repos.aggregator(0).Aggregate(context.Background(), "user-123")

	// Assert
	assert.True(t, bundle.Unavailable)
	for _, slice := range domain.ContextSlices {
		assert.True(t, bundle.Failed[slice], "slice %s", slice)
	}
}

func TestAggregator_Aggregate_MissingUserIsNotAFailure(t *testing.T) {
	repos := newRepoSet()
	repos.users.FindByIDFunc = func(ctx context.Context, id string) (*domain.User, error) { return nil, nil }

	bundle := repos.aggregator(0).Aggregate(context.Background(), "ghost")

	assert.Nil(t, bundle.Profile)
	assert.False(t, bundle.Failed[domain.SliceProfile])
}

// Every sub-fetch must be in flight before any of them completes.
func TestAggregator_Aggregate_RunsSlicesConcurrently(t *testing.T) {
	// Arrange
	var started sync.WaitGroup
	started.Add(4)
	allStarted := make(chan struct{})
	go func() {
		started.Wait()
		close(allStarted)
	}()

	barrier := func(ctx context.Context) error {
		started.Done()
		select {
		case <-allStarted:
			return nil
		case <-time.After(2 * time.Second):
			return errors.New("sub-fetches ran sequentially")
		}
	}

	repos := newRepoSet()
	repos.users.FindByIDFunc = func(ctx context.Context, id string) (*domain.User, error) {
		if err := barrier(ctx); err != nil {
			return nil, err
		}
		return &domain.User{ID: id, Name: "Ana"}, nil
	}
	repos.bookings.FindRecentByUserIDFunc = func(ctx context.Context, userID string, limit int) ([]domain.Booking, error) {
		return nil, barrier(ctx)
	}
	repos.orders.FindRecentByUserIDFunc = func(ctx context.Context, userID string, limit int) ([]domain.Order, error) {
		return nil, barrier(ctx)
	}
	repos.consultations.FindActiveFunc = func(ctx context.Context) ([]domain.Consultation, error) {
		return nil, barrier(ctx)
	}

	// Act
	bundle := repos.aggregator(0).Aggregate(context.Background(), "user-123")

	// Assert
	assert.Empty(t, bundle.Failed)
}

func TestAggregator_Aggregate_UsesSingleNow(t *testing.T) {
	// Arrange
	calls := 0
	clock := func() time.Time {
		calls++
		return fixedNow.Add(time.Duration(calls) * time.Hour)
	}
	repos := newRepoSet()
	agg := NewAggregator(repos.users, repos.bookings, repos.orders, repos.consultations, 0, clock, newTestLogger())

	// Act
	bundle := agg.Aggregate(context.Background(), "user-123")

	// Assert
	assert.Equal(t, 1, calls)
	assert.Equal(t, fixedNow.Add(time.Hour), bundle.Now)
}
