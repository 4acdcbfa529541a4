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

type ConsultationRepository struct {
	db  *gorm.DB
	log *zap.Logger
}

func NewConsultationRepository(db *gorm.DB, log *zap.Logger) ports.ConsultationRepository {
	return &ConsultationRepository{
		db:  db,
		log: log,
	}
}

// FindActive lists popular services first, then by name.
func (r *ConsultationRepository) FindActive(ctx context.Context) ([]domain.Consultation, error) {
	defer observe("consultations", time.Now())

	var services []domain.Consultation
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("popular DESC").
		Order("name ASC").
		Find(&services).Error
	if err != nil {
		return nil, fmt.Errorf("find active consultations: %w", err)
	}
	return services, nil
}
