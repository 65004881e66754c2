// Package events publishes stock and alert events to NATS
package events

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
	"github.com/sirupsen/logrus"

	"cablestock-service/internal/models"
)

// Subjects
const (
	SubjectMovementRecorded = "stock.movement.recorded"
	SubjectAlertRaised      = "stock.alert.raised"
	SubjectAlertResolved    = "stock.alert.resolved"
)

// StockEventPublisher publishes stock-related events to NATS
type StockEventPublisher struct {
	conn   *nats.Conn
	logger *logrus.Entry
}

// NewStockEventPublisher connects to NATS and returns a publisher
func NewStockEventPublisher(natsURL string, logger *logrus.Logger) (*StockEventPublisher, error) {
	if natsURL == "" {
		return nil, fmt.Errorf("NATS URL is required")
	}

	log := logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	conn, err := nats.Connect(natsURL,
		nats.Name("cablestock-service-publisher"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2*time.Second),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}

	return &StockEventPublisher{
		conn:   conn,
		logger: log.WithField("component", "stock-events"),
	}, nil
}

// MovementEvent is the payload of stock.movement.recorded
type MovementEvent struct {
	MovementID   int                 `json:"movementId"`
	TableName    models.TargetKind   `json:"tableName"`
	MovementType models.MovementType `json:"movementType"`
	CableID      int                 `json:"cableId"`
	Quantity     int                 `json:"quantity"`
	Color        *string             `json:"color,omitempty"`
	UserID       int64               `json:"userId"`
	OccurredAt   time.Time           `json:"occurredAt"`
}

// AlertEvent is the payload of the alert subjects
type AlertEvent struct {
	AlertID      int              `json:"alertId"`
	AlertType    models.AlertKind `json:"alertType"`
	Color        *string          `json:"color,omitempty"`
	MultiCableID *int             `json:"multiCableId,omitempty"`
	CurrentQty   int              `json:"currentQty"`
	MinThreshold int              `json:"minThreshold"`
	OccurredAt   time.Time        `json:"occurredAt"`
}

// PublishMovementRecorded publishes stock.movement.recorded
func (p *StockEventPublisher) PublishMovementRecorded(movement *models.StockMovement) error {
	event := MovementEvent{
		MovementID:   movement.MovementID,
		TableName:    movement.TableName,
		MovementType: movement.MovementType,
		CableID:      movement.CableID,
		Quantity:     movement.Quantity,
		Color:        movement.Color,
		UserID:       movement.UserID,
		OccurredAt:   movement.MovementDate,
	}

	if err := p.publish(SubjectMovementRecorded, event); err != nil {
		p.logger.WithField("movementId", movement.MovementID).
			WithError(err).Error("Failed to publish stock.movement.recorded event")
		return err
	}

	p.logger.WithFields(logrus.Fields{
		"movementId":   movement.MovementID,
		"tableName":    movement.TableName,
		"movementType": movement.MovementType,
	}).Info("Published stock.movement.recorded event")
	return nil
}

// PublishAlertRaised publishes stock.alert.raised
func (p *StockEventPublisher) PublishAlertRaised(alert *models.Alert, currentQty, minThreshold int) error {
	return p.publishAlert(SubjectAlertRaised, alert, currentQty, minThreshold)
}

// PublishAlertResolved publishes stock.alert.resolved
func (p *StockEventPublisher) PublishAlertResolved(alert *models.Alert, currentQty, minThreshold int) error {
	return p.publishAlert(SubjectAlertResolved, alert, currentQty, minThreshold)
}

func (p *StockEventPublisher) publishAlert(subject string, alert *models.Alert, currentQty, minThreshold int) error {
	event := AlertEvent{
		AlertID:      alert.AlertID,
		AlertType:    alert.AlertType,
		Color:        alert.Color,
		MultiCableID: alert.MultiCableID,
		CurrentQty:   currentQty,
		MinThreshold: minThreshold,
		OccurredAt:   time.Now(),
	}

	if err := p.publish(subject, event); err != nil {
		p.logger.WithFields(logrus.Fields{
			"alertId": alert.AlertID,
			"subject": subject,
		}).WithError(err).Error("Failed to publish alert event")
		return err
	}

	p.logger.WithFields(logrus.Fields{
		"alertId":   alert.AlertID,
		"alertType": alert.AlertType,
		"subject":   subject,
	}).Info("Published alert event")
	return nil
}

func (p *StockEventPublisher) publish(subject string, payload interface{}) error {
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}
	return p.conn.Publish(subject, data)
}

// IsConnected returns true if connected to NATS
func (p *StockEventPublisher) IsConnected() bool {
	return p.conn != nil && p.conn.IsConnected()
}

// Close drains and closes the NATS connection
func (p *StockEventPublisher) Close() {
	if p.conn != nil {
		p.conn.Close()
	}
}
