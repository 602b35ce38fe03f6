package persistence

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/mcp2everything/PID-agent/internal/domain/device"
	"github.com/mcp2everything/PID-agent/internal/infrastructure/persistence/models"
	"github.com/mcp2everything/PID-agent/internal/pkg/logger"
)

type gormTelemetryRepository struct {
	db     *gorm.DB
	logger logger.Logger
}

// NewGormTelemetryRepository creates a new GORM-based TelemetryRepository implementation
func NewGormTelemetryRepository(db *gorm.DB, logger logger.Logger) (device.TelemetryRepository, error) {
	return &gormTelemetryRepository{
		db:     db,
		logger: logger,
	}, nil
}

func (r *gormTelemetryRepository) Record(ctx context.Context, samples []*device.TelemetrySample) error {
	if len(samples) == 0 {
		return nil
	}

	modelList := make([]*models.ChannelLogModel, len(samples))
	for i, s := range samples {
		model := &models.ChannelLogModel{}
		model.FromDomain(s)
		modelList[i] = model
	}

	if err := r.db.WithContext(ctx).Create(modelList).Error; err != nil {
		return fmt.Errorf("failed to record telemetry samples: %w", err)
	}
	return nil
}

func (r *gormTelemetryRepository) List(ctx context.Context, query *device.TelemetryQuery) ([]*device.TelemetrySample, error) {
	if err := query.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query parameters: %w", err)
	}

	var modelList []*models.ChannelLogModel
	dbQuery := r.db.WithContext(ctx).Model(&models.ChannelLogModel{})

	if query.ChannelID != nil {
		dbQuery = dbQuery.Where("channel_id = ?", *query.ChannelID)
	}
	if query.Hours > 0 {
		cutoff := time.Now().Add(-time.Duration(query.Hours * float64(time.Hour)))
		dbQuery = dbQuery.Where("timestamp >= ?", cutoff)
	}

	if query.SortBy != "" {
		order := query.SortOrder
		if order == "" {
			order = "asc"
		}
		dbQuery = dbQuery.Order(fmt.Sprintf("%s %s", query.SortBy, order))
	}

	if query.Limit > 0 {
		dbQuery = dbQuery.Limit(query.Limit)
	}
	if query.Offset > 0 {
		dbQuery = dbQuery.Offset(query.Offset)
	}

	if err := dbQuery.Find(&modelList).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch telemetry samples: %w", err)
	}

	domainList := make([]*device.TelemetrySample, len(modelList))
	for i, model := range modelList {
		domainList[i] = model.ToDomain()
	}

	return domainList, nil
}

func (r *gormTelemetryRepository) DeleteByChannel(ctx context.Context, channel int) error {
	if err := r.db.WithContext(ctx).Where("channel_id = ?", channel).Delete(&models.ChannelLogModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete telemetry for channel %d: %w", channel, err)
	}

	r.logger.Info("Deleted telemetry for channel ", channel)
	return nil
}

func (r *gormTelemetryRepository) DeleteAll(ctx context.Context) error {
	if err := r.db.WithContext(ctx).Where("1 = 1").Delete(&models.ChannelLogModel{}).Error; err != nil {
		return fmt.Errorf("failed to delete telemetry: %w", err)
	}

	r.logger.Info("Deleted all telemetry")
	return nil
}
