package service

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"cablestock-service/internal/apperrors"
	"cablestock-service/internal/models"
)

// MovementService validates and records stock movements, then runs the
// threshold evaluation for the touched stock key.
type MovementService struct {
	stock      MovementStore
	thresholds ThresholdStore
	users      UserStore
	alerts     *AlertService
	events     EventPublisher
	logger     *logrus.Logger
}

func NewMovementService(stock MovementStore, thresholds ThresholdStore, users UserStore, alerts *AlertService, events EventPublisher, logger *logrus.Logger) *MovementService {
	return &MovementService{
		stock:      stock,
		thresholds: thresholds,
		users:      users,
		alerts:     alerts,
		events:     events,
		logger:     logger,
	}
}

// Record processes one movement. The inventory change and the ledger row
// commit atomically; threshold evaluation runs afterwards against the
// committed stock level and never fails the movement.
func (s *MovementService) Record(ctx context.Context, req *models.CreateMovementRequest, userID int64) (*models.StockMovement, *ThresholdEvaluation, error) {
	if err := s.validate(ctx, req, userID); err != nil {
		return nil, nil, err
	}

	movement, err := s.stock.ApplyMovement(ctx, req, userID)
	if err != nil {
		return nil, nil, err
	}

	if s.events != nil {
		if pubErr := s.events.PublishMovementRecorded(movement); pubErr != nil {
			s.logger.WithField("movementId", movement.MovementID).
				WithError(pubErr).Warn("Failed to publish movement event")
		}
	}

	evaluation := s.evaluateAfterCommit(ctx, req)
	return movement, evaluation, nil
}

func (s *MovementService) validate(ctx context.Context, req *models.CreateMovementRequest, userID int64) error {
	if req.MovementType != models.MovementInflow && req.MovementType != models.MovementOutflow {
		return apperrors.NewValidation("invalid movement type %q: must be %q or %q",
			req.MovementType, models.MovementInflow, models.MovementOutflow)
	}
	if req.TableName != models.TargetSingle && req.TableName != models.TargetMulti {
		return apperrors.NewValidation("invalid table name %q: must be %q or %q",
			req.TableName, models.TargetSingle, models.TargetMulti)
	}
	if req.Quantity <= 0 {
		return apperrors.NewValidation("quantity must be positive, got %d", req.Quantity)
	}
	if req.TableName == models.TargetSingle && (req.Color == nil || strings.TrimSpace(*req.Color) == "") {
		return apperrors.NewValidation("color is required for single cable movements")
	}

	user, err := s.users.GetActiveByID(ctx, userID)
	if err != nil {
		return apperrors.NewInternal("failed to resolve user", err)
	}
	if user == nil {
		return apperrors.NewNotFound("user %d not found or inactive", userID)
	}
	return nil
}

// evaluateAfterCommit re-reads the committed stock level and hands it to
// the alert engine. Failures here are logged only.
func (s *MovementService) evaluateAfterCommit(ctx context.Context, req *models.CreateMovementRequest) *ThresholdEvaluation {
	var (
		evaluation *ThresholdEvaluation
		err        error
	)

	if req.TableName == models.TargetSingle {
		color := *req.Color
		var currentQty, min int
		if currentQty, err = s.stock.CurrentColorStock(ctx, color); err == nil {
			if min, err = s.thresholds.MinForColor(ctx, color); err == nil {
				evaluation, err = s.alerts.EvaluateColorThreshold(ctx, color, currentQty, min)
			}
		}
	} else {
		var currentQty, min int
		if currentQty, err = s.stock.CurrentMultiStock(ctx, req.CableID); err == nil {
			if min, err = s.thresholds.MinForMulti(ctx, req.CableID); err == nil {
				evaluation, err = s.alerts.EvaluateMultiThreshold(ctx, req.CableID, currentQty, min)
			}
		}
	}

	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"tableName": req.TableName,
			"cableId":   req.CableID,
		}).WithError(err).Error("Threshold evaluation failed after movement")
		return nil
	}
	return evaluation
}

// History returns ledger rows for the filter with defaults applied by the
// handler layer.
func (s *MovementService) History(ctx context.Context, filter *models.MovementFilter) ([]models.StockMovement, int64, error) {
	return s.stock.History(ctx, filter)
}

// CreateMultiCable registers a new multi cable type.
func (s *MovementService) CreateMultiCable(ctx context.Context, name string) (*models.MultiCable, error) {
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.NewValidation("cable name is required")
	}
	return s.stock.CreateMultiCable(ctx, name)
}

// ListMultiCables returns the active multi cable types.
func (s *MovementService) ListMultiCables(ctx context.Context) ([]models.MultiCable, error) {
	return s.stock.ListMultiCables(ctx)
}

// CurrentColorStock exposes the active unit count for a color.
func (s *MovementService) CurrentColorStock(ctx context.Context, color string) (int, error) {
	return s.stock.CurrentColorStock(ctx, color)
}

// CurrentMultiStock exposes the aggregate quantity of a multi cable.
func (s *MovementService) CurrentMultiStock(ctx context.Context, multiCableID int) (int, error) {
	return s.stock.CurrentMultiStock(ctx, multiCableID)
}

// StockSummary builds the combined report over both inventory
// representations, flagging lines below their configured minimum.
func (s *MovementService) StockSummary(ctx context.Context) (*models.StockSummary, error) {
	colorCounts, err := s.stock.ActiveColorCounts(ctx)
	if err != nil {
		return nil, err
	}
	colorThresholds, err := s.thresholds.ListColorThresholds(ctx)
	if err != nil {
		return nil, err
	}
	cableThresholds, err := s.thresholds.ListCableThresholds(ctx)
	if err != nil {
		return nil, err
	}
	multiCables, err := s.stock.ListMultiCables(ctx)
	if err != nil {
		return nil, err
	}

	minByColor := make(map[string]int, len(colorThresholds))
	for _, t := range colorThresholds {
		minByColor[t.Color] = t.MinQuantity
	}
	minByCable := make(map[int]int, len(cableThresholds))
	for _, t := range cableThresholds {
		minByCable[t.MultiCableID] = t.MinQuantity
	}

	summary := &models.StockSummary{GeneratedAt: time.Now()}

	// Colors with a threshold but no active stock still show up at zero.
	seen := make(map[string]bool, len(colorCounts))
	for color, count := range colorCounts {
		line := models.ColorStock{Color: color, Quantity: count}
		if min, ok := minByColor[color]; ok {
			line.MinQuantity = &min
			line.BelowMin = count < min
		}
		summary.Colors = append(summary.Colors, line)
		seen[color] = true
	}
	for _, t := range colorThresholds {
		if !seen[t.Color] {
			min := t.MinQuantity
			summary.Colors = append(summary.Colors, models.ColorStock{
				Color:       t.Color,
				Quantity:    0,
				MinQuantity: &min,
				BelowMin:    0 < min,
			})
		}
	}
	sort.Slice(summary.Colors, func(i, j int) bool {
		return summary.Colors[i].Color < summary.Colors[j].Color
	})

	for _, mc := range multiCables {
		line := models.MultiStock{
			MultiCableID: mc.MultiCableID,
			CableName:    mc.CableName,
			Quantity:     mc.Quantity,
		}
		if min, ok := minByCable[mc.MultiCableID]; ok {
			minCopy := min
			line.MinQuantity = &minCopy
			line.BelowMin = mc.Quantity < min
		}
		summary.MultiCables = append(summary.MultiCables, line)
	}

	return summary, nil
}
