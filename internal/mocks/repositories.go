package mocks

import (
	"context"

	"github.com/seu-repo/clinic-assistant/internal/domain"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	FindByIDFunc    func(ctx context.Context, id string) (*domain.User, error)
	FindByEmailFunc func(ctx context.Context, email string) (*domain.User, error)
}

func (m *MockUserRepository) FindByID(ctx context.Context, id string) (*domain.User, error) {
	if m.FindByIDFunc != nil {
		return m.FindByIDFunc(ctx, id)
	}
	return nil, nil
}

func (m *MockUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	if m.FindByEmailFunc != nil {
		return m.FindByEmailFunc(ctx, email)
	}
	return nil, nil
}

// MockBookingRepository is a mock implementation of BookingRepository
type MockBookingRepository struct {
	FindRecentByUserIDFunc func(ctx context.Context, userID string, limit int) ([]domain.Booking, error)
}

func (m *MockBookingRepository) FindRecentByUserID(ctx context.Context, userID string, limit int) ([]domain.Booking, error) {
	if m.FindRecentByUserIDFunc != nil {
		return m.FindRecentByUserIDFunc(ctx, userID, limit)
	}
	return []domain.Booking{}, nil
}

// MockOrderRepository is a mock implementation of OrderRepository
type MockOrderRepository struct {
	FindRecentByUserIDFunc func(ctx context.Context, userID string, limit int) ([]domain.Order, error)
}

func (m *MockOrderRepository) FindRecentByUserID(ctx context.Context, userID string, limit int) ([]domain.Order, error) {
	if m.FindRecentByUserIDFunc != nil {
		return m.FindRecentByUserIDFunc(ctx, userID, limit)
	}
	return []domain.Order{}, nil
}

// MockConsultationRepository is a mock implementation of ConsultationRepository
type MockConsultationRepository struct {
	FindActiveFunc func(ctx context.Context) ([]domain.Consultation, error)
}

func (m *MockConsultationRepository) FindActive(ctx context.Context) ([]domain.Consultation, error) {
	if m.FindActiveFunc != nil {
		return m.FindActiveFunc(ctx)
	}
	return []domain.Consultation{}, nil
}
