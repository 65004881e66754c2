package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"cablestock-service/internal/models"
)

type AlertRepository struct {
	db *gorm.DB
}

func NewAlertRepository(db *gorm.DB) *AlertRepository {
	return &AlertRepository{db: db}
}

// AlertFilter narrows alert listing.
type AlertFilter struct {
	IsActive     *bool
	AlertType    *models.AlertKind
	Color        *string
	MultiCableID *int
	From         *time.Time
	To           *time.Time
	Page         int
	PageSize     int
}

// List returns alerts matching the filter, newest first with AlertID as
// tiebreaker.
func (r *AlertRepository) List(ctx context.Context, filter *AlertFilter) ([]models.Alert, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.Alert{})

	if filter.IsActive != nil {
		query = query.Where("is_active = ?", *filter.IsActive)
	}
	if filter.AlertType != nil {
		query = query.Where("alert_type = ?", *filter.AlertType)
	}
	if filter.Color != nil {
		query = query.Where("color = ?", *filter.Color)
	}
	if filter.MultiCableID != nil {
		query = query.Where("multi_cable_id = ?", *filter.MultiCableID)
	}
	if filter.From != nil {
		query = query.Where("alert_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("alert_date <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var alerts []models.Alert
	offset := (filter.Page - 1) * filter.PageSize
	err := query.Order("alert_date DESC, alert_id ASC").
		Offset(offset).
		Limit(filter.PageSize).
		Find(&alerts).Error

	return alerts, total, err
}

// GetByID returns one alert or nil when it does not exist.
func (r *AlertRepository) GetByID(ctx context.Context, alertID int) (*models.Alert, error) {
	var alert models.Alert
	err := r.db.WithContext(ctx).Where("alert_id = ?", alertID).First(&alert).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &alert, nil
}

// FindActive returns the active alert for a (kind, key) pair, or nil.
func (r *AlertRepository) FindActive(ctx context.Context, kind models.AlertKind, color *string, multiCableID *int) (*models.Alert, error) {
	query := r.db.WithContext(ctx).
		Where("is_active = ? AND alert_type = ?", true, kind)
	if kind == models.AlertKindColor {
		query = query.Where("color = ?", *color)
	} else {
		query = query.Where("multi_cable_id = ?", *multiCableID)
	}

	var alert models.Alert
	err := query.First(&alert).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &alert, nil
}

// HasActiveForColor reports whether a color alert is currently open.
func (r *AlertRepository) HasActiveForColor(ctx context.Context, color string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Alert{}).
		Where("is_active = ? AND alert_type = ? AND color = ?", true, models.AlertKindColor, color).
		Count(&count).Error
	return count > 0, err
}

// HasActiveForMulti reports whether a multi-cable alert is currently open.
func (r *AlertRepository) HasActiveForMulti(ctx context.Context, multiCableID int) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.Alert{}).
		Where("is_active = ? AND alert_type = ? AND multi_cable_id = ?", true, models.AlertKindMulti, multiCableID).
		Count(&count).Error
	return count > 0, err
}

// Create inserts a new alert row.
func (r *AlertRepository) Create(ctx context.Context, alert *models.Alert) error {
	return r.db.WithContext(ctx).Create(alert).Error
}

// Update persists the mutable fields of an alert.
func (r *AlertRepository) Update(ctx context.Context, alert *models.Alert) error {
	return r.db.WithContext(ctx).Model(&models.Alert{}).
		Where("alert_id = ?", alert.AlertID).
		Updates(map[string]interface{}{
			"is_active":   alert.IsActive,
			"description": alert.Description,
		}).Error
}
