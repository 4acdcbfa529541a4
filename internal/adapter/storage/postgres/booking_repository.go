package postgres

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/seu-repo/clinic-assistant/internal/domain"
	"github.com/seu-repo/clinic-assistant/internal/ports"
)

type BookingRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewBookingRepository(db *gorm.DB, log *zap.Logger) ports.BookingRepository {
	return &BookingRepository{
		db:  db,
		log: log,
	}
}

func (r *BookingRepository) FindRecentByUserID(ctx context.Context, userID string, limit int) ([]domain.Booking, error) {
	defer observe("bookings", time.Now())

	var bookings []domain.Booking
	err := r.db.WithContext(ctx).
		Preload("Consultation").
		Preload("Branch").
		Where("user_id = ?", userID).
		Order("scheduled_at DESC").
		Limit(limit).
		Find(&bookings).Error
	if err != nil {
		return nil, fmt.Errorf("find bookings for user %s: %w", userID, err)
	}
	return bookings, nil
}
