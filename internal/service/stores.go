package service

import (
	"context"

	"cablestock-service/internal/models"
	"cablestock-service/internal/repository"
)

// MovementStore is the persistence surface of the movement processor.
type MovementStore interface {
	ApplyMovement(ctx context.Context, req *models.CreateMovementRequest, userID int64) (*models.StockMovement, error)
	CurrentColorStock(ctx context.Context, color string) (int, error)
	CurrentMultiStock(ctx context.Context, multiCableID int) (int, error)
	History(ctx context.Context, filter *models.MovementFilter) ([]models.StockMovement, int64, error)
	CreateMultiCable(ctx context.Context, name string) (*models.MultiCable, error)
	ListMultiCables(ctx context.Context) ([]models.MultiCable, error)
	ActiveColorCounts(ctx context.Context) (map[string]int, error)
}

// AlertStore is the persistence surface of the alert engine.
type AlertStore interface {
	List(ctx context.Context, filter *repository.AlertFilter) ([]models.Alert, int64, error)
	GetByID(ctx context.Context, alertID int) (*models.Alert, error)
	FindActive(ctx context.Context, kind models.AlertKind, color *string, multiCableID *int) (*models.Alert, error)
	HasActiveForColor(ctx context.Context, color string) (bool, error)
	HasActiveForMulti(ctx context.Context, multiCableID int) (bool, error)
	Create(ctx context.Context, alert *models.Alert) error
	Update(ctx context.Context, alert *models.Alert) error
}

// ThresholdStore resolves and maintains configured minimums.
type ThresholdStore interface {
	MinForColor(ctx context.Context, color string) (int, error)
	MinForMulti(ctx context.Context, multiCableID int) (int, error)
	SetForColor(ctx context.Context, color string, minQuantity int) error
	SetForMulti(ctx context.Context, multiCableID, minQuantity int) error
	ListColorThresholds(ctx context.Context) ([]models.ColorThreshold, error)
	ListCableThresholds(ctx context.Context) ([]models.CableThreshold, error)
}

// UserStore resolves acting users and notification recipients.
type UserStore interface {
	GetActiveByID(ctx context.Context, userID int64) (*models.User, error)
	AdminEmails(ctx context.Context) ([]string, error)
}

// MailSender delivers one message to a primary recipient with the rest
// blind-copied.
type MailSender interface {
	Send(to string, bcc []string, subject, htmlBody, textBody string) error
}

// EventPublisher pushes domain events to the message bus. Implementations
// are optional; callers treat publish failures as non-fatal.
type EventPublisher interface {
	PublishMovementRecorded(movement *models.StockMovement) error
	PublishAlertRaised(alert *models.Alert, currentQty, minThreshold int) error
	PublishAlertResolved(alert *models.Alert, currentQty, minThreshold int) error
}
