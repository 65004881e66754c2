package repository

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cablestock-service/internal/models"
)

// ThresholdCacheTTL bounds staleness of cached minimums. Thresholds change
// rarely and are read on every movement.
const ThresholdCacheTTL = 5 * time.Minute

type ThresholdRepository struct {
	db    *gorm.DB
	redis *redis.Client
}

func NewThresholdRepository(db *gorm.DB, redisClient *redis.Client) *ThresholdRepository {
	return &ThresholdRepository{db: db, redis: redisClient}
}

func colorThresholdCacheKey(color string) string {
	return fmt.Sprintf("cablestock:threshold:color:%s", color)
}

func cableThresholdCacheKey(multiCableID int) string {
	return fmt.Sprintf("cablestock:threshold:multi:%d", multiCableID)
}

// MinForColor returns the configured minimum for a color. An unset
// threshold reads as zero, which can never trip an alert.
func (r *ThresholdRepository) MinForColor(ctx context.Context, color string) (int, error) {
	if r.redis != nil {
		if cached, err := r.redis.Get(ctx, colorThresholdCacheKey(color)).Result(); err == nil {
			if min, convErr := strconv.Atoi(cached); convErr == nil {
				return min, nil
			}
		}
	}

	var threshold models.ColorThreshold
	err := r.db.WithContext(ctx).Where("color = ?", color).First(&threshold).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}

	if r.redis != nil {
		r.redis.Set(ctx, colorThresholdCacheKey(color), strconv.Itoa(threshold.MinQuantity), ThresholdCacheTTL)
	}
	return threshold.MinQuantity, nil
}

// MinForMulti returns the configured minimum for a multi cable, zero when
// unset.
func (r *ThresholdRepository) MinForMulti(ctx context.Context, multiCableID int) (int, error) {
	if r.redis != nil {
		if cached, err := r.redis.Get(ctx, cableThresholdCacheKey(multiCableID)).Result(); err == nil {
			if min, convErr := strconv.Atoi(cached); convErr == nil {
				return min, nil
			}
		}
	}

	var threshold models.CableThreshold
	err := r.db.WithContext(ctx).Where("multi_cable_id = ?", multiCableID).First(&threshold).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, nil
		}
		return 0, err
	}

	if r.redis != nil {
		r.redis.Set(ctx, cableThresholdCacheKey(multiCableID), strconv.Itoa(threshold.MinQuantity), ThresholdCacheTTL)
	}
	return threshold.MinQuantity, nil
}

// SetForColor upserts the color minimum and invalidates its cache entry.
func (r *ThresholdRepository) SetForColor(ctx context.Context, color string, minQuantity int) error {
	threshold := models.ColorThreshold{Color: color, MinQuantity: minQuantity}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "color"}},
		DoUpdates: clause.AssignmentColumns([]string{"min_quantity"}),
	}).Create(&threshold).Error
	if err != nil {
		return err
	}

	if r.redis != nil {
		r.redis.Del(ctx, colorThresholdCacheKey(color))
	}
	return nil
}

// SetForMulti upserts the multi cable minimum and invalidates its cache entry.
func (r *ThresholdRepository) SetForMulti(ctx context.Context, multiCableID, minQuantity int) error {
	threshold := models.CableThreshold{MultiCableID: multiCableID, MinQuantity: minQuantity}
	err := r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "multi_cable_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"min_quantity"}),
	}).Create(&threshold).Error
	if err != nil {
		return err
	}

	if r.redis != nil {
		r.redis.Del(ctx, cableThresholdCacheKey(multiCableID))
	}
	return nil
}

// ListColorThresholds returns all configured color minimums.
func (r *ThresholdRepository) ListColorThresholds(ctx context.Context) ([]models.ColorThreshold, error) {
	var thresholds []models.ColorThreshold
	err := r.db.WithContext(ctx).Order("color ASC").Find(&thresholds).Error
	return thresholds, err
}

// ListCableThresholds returns all configured multi cable minimums.
func (r *ThresholdRepository) ListCableThresholds(ctx context.Context) ([]models.CableThreshold, error) {
	var thresholds []models.CableThreshold
	err := r.db.WithContext(ctx).Order("multi_cable_id ASC").Find(&thresholds).Error
	return thresholds, err
}

// RedisEnabled reports whether the threshold cache is configured.
func (r *ThresholdRepository) RedisEnabled() bool {
	return r.redis != nil
}

// RedisHealth reports the cache connection state.
func (r *ThresholdRepository) RedisHealth(ctx context.Context) error {
	if r.redis == nil {
		return fmt.Errorf("redis not configured")
	}
	return r.redis.Ping(ctx).Err()
}
