package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"cablestock-service/internal/apperrors"
	"cablestock-service/internal/models"
)

type StockRepository struct {
	db *gorm.DB
}

func NewStockRepository(db *gorm.DB) *StockRepository {
	return &StockRepository{db: db}
}

// ApplyMovement runs one movement against the inventory and appends its
// ledger row in a single transaction. Single inflows insert quantity new
// active unit rows; single outflows deactivate the oldest active units of
// the color; multi movements adjust the aggregate counter. The ledger row
// is written last, inside the same transaction.
func (r *StockRepository) ApplyMovement(ctx context.Context, req *models.CreateMovementRequest, userID int64) (*models.StockMovement, error) {
	movement := &models.StockMovement{
		CableID:      req.CableID,
		TableName:    req.TableName,
		Quantity:     req.Quantity,
		MovementType: req.MovementType,
		UserID:       userID,
		MovementDate: time.Now(),
	}
	if req.TableName == models.TargetSingle {
		movement.Color = req.Color
	}

	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		switch req.TableName {
		case models.TargetSingle:
			if err := r.applySingleTx(tx, req); err != nil {
				return err
			}
		case models.TargetMulti:
			if err := r.applyMultiTx(tx, req); err != nil {
				return err
			}
		}
		return tx.Create(movement).Error
	})
	if err != nil {
		return nil, err
	}
	return movement, nil
}

func (r *StockRepository) applySingleTx(tx *gorm.DB, req *models.CreateMovementRequest) error {
	color := *req.Color

	if req.MovementType == models.MovementInflow {
		cables := make([]models.SingleCable, req.Quantity)
		for i := range cables {
			cables[i] = models.SingleCable{Color: color, IsActive: true}
		}
		return tx.Create(&cables).Error
	}

	// Outflow deactivates the oldest active units first. The row lock holds
	// the selection stable until the transaction commits.
	var units []models.SingleCable
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("color = ? AND is_active = ?", color, true).
		Order("cable_id ASC").
		Limit(req.Quantity).
		Find(&units).Error; err != nil {
		return err
	}

	if len(units) < req.Quantity {
		return apperrors.NewConflict("insufficient active single stock for color %q: have %d, requested %d",
			color, len(units), req.Quantity)
	}

	ids := make([]int, len(units))
	for i, u := range units {
		ids[i] = u.CableID
	}
	return tx.Model(&models.SingleCable{}).
		Where("cable_id IN ?", ids).
		Update("is_active", false).Error
}

func (r *StockRepository) applyMultiTx(tx *gorm.DB, req *models.CreateMovementRequest) error {
	var multi models.MultiCable
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("multi_cable_id = ? AND is_active = ?", req.CableID, true).
		First(&multi).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apperrors.NewNotFound("multi cable %d not found or inactive", req.CableID)
		}
		return err
	}

	if req.MovementType == models.MovementInflow {
		multi.Quantity += req.Quantity
	} else {
		if multi.Quantity < req.Quantity {
			return apperrors.NewConflict("insufficient multi stock for cable %d: have %d, requested %d",
				multi.MultiCableID, multi.Quantity, req.Quantity)
		}
		multi.Quantity -= req.Quantity
	}

	return tx.Model(&models.MultiCable{}).
		Where("multi_cable_id = ?", multi.MultiCableID).
		Update("quantity", multi.Quantity).Error
}

// CurrentColorStock counts the active single units of a color.
func (r *StockRepository) CurrentColorStock(ctx context.Context, color string) (int, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&models.SingleCable{}).
		Where("color = ? AND is_active = ?", color, true).
		Count(&count).Error
	return int(count), err
}

// CurrentMultiStock returns the aggregate quantity of an active multi
// cable. Inactive counters read the same as missing ones, matching the
// movement path.
func (r *StockRepository) CurrentMultiStock(ctx context.Context, multiCableID int) (int, error) {
	var multi models.MultiCable
	err := r.db.WithContext(ctx).
		Where("multi_cable_id = ? AND is_active = ?", multiCableID, true).
		First(&multi).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return 0, apperrors.NewNotFound("multi cable %d not found or inactive", multiCableID)
		}
		return 0, err
	}
	return multi.Quantity, nil
}

// History returns ledger rows matching the filter, newest first.
func (r *StockRepository) History(ctx context.Context, filter *models.MovementFilter) ([]models.StockMovement, int64, error) {
	query := r.db.WithContext(ctx).Model(&models.StockMovement{})

	if filter.TableName != nil {
		query = query.Where("table_name = ?", *filter.TableName)
	}
	if filter.MovementType != nil {
		query = query.Where("movement_type = ?", *filter.MovementType)
	}
	if filter.CableID != nil {
		query = query.Where("cable_id = ?", *filter.CableID)
	}
	if filter.Color != nil {
		query = query.Where("color = ?", *filter.Color)
	}
	if filter.From != nil {
		query = query.Where("movement_date >= ?", *filter.From)
	}
	if filter.To != nil {
		query = query.Where("movement_date <= ?", *filter.To)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var movements []models.StockMovement
	offset := (filter.Page - 1) * filter.PageSize
	err := query.Order("movement_date DESC, movement_id DESC").
		Offset(offset).
		Limit(filter.PageSize).
		Find(&movements).Error

	return movements, total, err
}

// CreateMultiCable registers a new multi cable type with zero stock.
func (r *StockRepository) CreateMultiCable(ctx context.Context, name string) (*models.MultiCable, error) {
	multi := &models.MultiCable{CableName: name, Quantity: 0, IsActive: true}
	if err := r.db.WithContext(ctx).Create(multi).Error; err != nil {
		return nil, err
	}
	return multi, nil
}

// ListMultiCables returns all active multi cable types.
func (r *StockRepository) ListMultiCables(ctx context.Context) ([]models.MultiCable, error) {
	var cables []models.MultiCable
	err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("multi_cable_id ASC").
		Find(&cables).Error
	return cables, err
}

// ActiveColorCounts aggregates active single units per color.
func (r *StockRepository) ActiveColorCounts(ctx context.Context) (map[string]int, error) {
	type row struct {
		Color string
		Count int
	}
	var rows []row
	err := r.db.WithContext(ctx).Model(&models.SingleCable{}).
		Select("color, COUNT(*) as count").
		Where("is_active = ?", true).
		Group("color").
		Order("color ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(rows))
	for _, r := range rows {
		counts[r.Color] = r.Count
	}
	return counts, nil
}
