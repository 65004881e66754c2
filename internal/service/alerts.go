package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"cablestock-service/internal/apperrors"
	"cablestock-service/internal/models"
	"cablestock-service/internal/repository"
)

// Audit timestamp layout used in description suffixes.
const auditTimeLayout = "2006-01-02 15:04"

// ThresholdEvaluation is the outcome of one threshold check.
type ThresholdEvaluation struct {
	AlertCreatedAndNotified bool              `json:"alertCreatedAndNotified"`
	AlertResolved           bool              `json:"alertResolved"`
	WasAlreadyActive        bool              `json:"wasAlreadyActive"`
	RecipientCount          int               `json:"recipientCount"`
	CurrentQty              int               `json:"currentQty"`
	MinThreshold            int               `json:"minThreshold"`
	Kind                    models.TargetKind `json:"kind"`
	Key                     string            `json:"key"`
}

// AlertService owns the alert lifecycle: threshold evaluation, state
// transitions with audit suffixes, and admin notification.
type AlertService struct {
	alerts AlertStore
	users  UserStore
	mail   MailSender
	events EventPublisher
	logger *logrus.Logger
}

func NewAlertService(alerts AlertStore, users UserStore, mail MailSender, events EventPublisher, logger *logrus.Logger) *AlertService {
	return &AlertService{
		alerts: alerts,
		users:  users,
		mail:   mail,
		events: events,
		logger: logger,
	}
}

// List returns alerts matching the filter.
func (s *AlertService) List(ctx context.Context, filter *repository.AlertFilter) ([]models.Alert, int64, error) {
	return s.alerts.List(ctx, filter)
}

// GetByID returns one alert.
func (s *AlertService) GetByID(ctx context.Context, alertID int) (*models.Alert, error) {
	alert, err := s.alerts.GetByID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, apperrors.NewNotFound("alert %d not found", alertID)
	}
	return alert, nil
}

// HasActiveForColor reports whether a color alert is open.
func (s *AlertService) HasActiveForColor(ctx context.Context, color string) (bool, error) {
	return s.alerts.HasActiveForColor(ctx, color)
}

// HasActiveForMulti reports whether a multi-cable alert is open.
func (s *AlertService) HasActiveForMulti(ctx context.Context, multiCableID int) (bool, error) {
	return s.alerts.HasActiveForMulti(ctx, multiCableID)
}

// Resolve closes an alert. A non-empty note is appended as an audit
// suffix with the close time. Closing an already closed alert leaves the
// flag untouched but still records the note.
func (s *AlertService) Resolve(ctx context.Context, alertID int, note string) (*models.Alert, error) {
	alert, err := s.alerts.GetByID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, apperrors.NewNotFound("alert %d not found", alertID)
	}

	changed := alert.IsActive
	alert.IsActive = false
	if strings.TrimSpace(note) != "" {
		suffix := fmt.Sprintf(" [KAPATILDI: %s; Not: %s]", time.Now().Format(auditTimeLayout), note)
		alert.Description = models.TruncateDescription(alert.Description + suffix)
		changed = true
	}
	if !changed {
		return alert, nil
	}
	if err := s.alerts.Update(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

// Reactivate re-opens a closed alert. A non-empty reason is appended as an
// audit suffix. Reactivating an already open alert leaves the flag
// untouched but still records the reason.
func (s *AlertService) Reactivate(ctx context.Context, alertID int, reason string) (*models.Alert, error) {
	alert, err := s.alerts.GetByID(ctx, alertID)
	if err != nil {
		return nil, err
	}
	if alert == nil {
		return nil, apperrors.NewNotFound("alert %d not found", alertID)
	}

	changed := !alert.IsActive
	alert.IsActive = true
	if strings.TrimSpace(reason) != "" {
		suffix := fmt.Sprintf(" [TEKRAR AKTİF: %s; Sebep: %s]", time.Now().Format(auditTimeLayout), reason)
		alert.Description = models.TruncateDescription(alert.Description + suffix)
		changed = true
	}
	if !changed {
		return alert, nil
	}
	if err := s.alerts.Update(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

// EvaluateColorThreshold compares the active unit count of a color against
// its minimum and transitions the alert state. A new alert notifies the
// administrators; an existing active alert suppresses duplicates; crossing
// back above the minimum closes the alert.
func (s *AlertService) EvaluateColorThreshold(ctx context.Context, color string, currentQty, minThreshold int) (*ThresholdEvaluation, error) {
	result := &ThresholdEvaluation{
		CurrentQty:   currentQty,
		MinThreshold: minThreshold,
		Kind:         models.TargetSingle,
		Key:          color,
	}

	active, err := s.alerts.FindActive(ctx, models.AlertKindColor, &color, nil)
	if err != nil {
		return nil, err
	}

	if currentQty < minThreshold {
		if active != nil {
			result.WasAlreadyActive = true
			return result, nil
		}

		alert := &models.Alert{
			AlertType:   models.AlertKindColor,
			Color:       &color,
			AlertDate:   time.Now(),
			MinQuantity: minThreshold,
			Description: models.TruncateDescription(fmt.Sprintf("Renk=%s, Qty=%d, Min=%d", color, currentQty, minThreshold)),
			IsActive:    true,
		}
		if err := s.alerts.Create(ctx, alert); err != nil {
			return nil, err
		}
		s.publishRaised(alert, currentQty, minThreshold)

		subject, html, text := buildColorLowStockMail(color, currentQty, &minThreshold)
		result.RecipientCount = s.notifyAdmins(ctx, subject, html, text)
		result.AlertCreatedAndNotified = result.RecipientCount > 0
		return result, nil
	}

	if active != nil {
		active.IsActive = false
		if err := s.alerts.Update(ctx, active); err != nil {
			return nil, err
		}
		s.publishResolved(active, currentQty, minThreshold)
		result.AlertResolved = true
		result.WasAlreadyActive = true
	}
	return result, nil
}

// EvaluateMultiThreshold is the aggregate-counter counterpart of
// EvaluateColorThreshold.
func (s *AlertService) EvaluateMultiThreshold(ctx context.Context, multiCableID, currentQty, minThreshold int) (*ThresholdEvaluation, error) {
	result := &ThresholdEvaluation{
		CurrentQty:   currentQty,
		MinThreshold: minThreshold,
		Kind:         models.TargetMulti,
		Key:          fmt.Sprintf("%d", multiCableID),
	}

	active, err := s.alerts.FindActive(ctx, models.AlertKindMulti, nil, &multiCableID)
	if err != nil {
		return nil, err
	}

	if currentQty < minThreshold {
		if active != nil {
			result.WasAlreadyActive = true
			return result, nil
		}

		alert := &models.Alert{
			AlertType:    models.AlertKindMulti,
			MultiCableID: &multiCableID,
			AlertDate:    time.Now(),
			MinQuantity:  minThreshold,
			Description:  models.TruncateDescription(fmt.Sprintf("MultiCableID=%d, Qty=%d, Min=%d", multiCableID, currentQty, minThreshold)),
			IsActive:     true,
		}
		if err := s.alerts.Create(ctx, alert); err != nil {
			return nil, err
		}
		s.publishRaised(alert, currentQty, minThreshold)

		subject, html, text := buildMultiLowStockMail(multiCableID, currentQty, minThreshold)
		result.RecipientCount = s.notifyAdmins(ctx, subject, html, text)
		result.AlertCreatedAndNotified = result.RecipientCount > 0
		return result, nil
	}

	if active != nil {
		active.IsActive = false
		if err := s.alerts.Update(ctx, active); err != nil {
			return nil, err
		}
		s.publishResolved(active, currentQty, minThreshold)
		result.AlertResolved = true
		result.WasAlreadyActive = true
	}
	return result, nil
}

// NotifyAdminsForAlert re-sends the notification mail for an existing
// alert. Returns false when no recipient is configured.
func (s *AlertService) NotifyAdminsForAlert(ctx context.Context, alertID int) (bool, error) {
	alert, err := s.alerts.GetByID(ctx, alertID)
	if err != nil {
		return false, err
	}
	if alert == nil {
		return false, apperrors.NewNotFound("alert %d not found", alertID)
	}

	emails, err := s.users.AdminEmails(ctx)
	if err != nil {
		return false, err
	}
	if len(emails) == 0 {
		return false, nil
	}

	subject, html, text := buildAlertMail(alert)
	if err := s.mail.Send(emails[0], emails[1:], subject, html, text); err != nil {
		return false, err
	}
	return true, nil
}

// NotifyAdminsForLowStock sends an ad-hoc low stock mail for a color without
// creating an alert row. Returns false when no recipient is configured.
func (s *AlertService) NotifyAdminsForLowStock(ctx context.Context, color string, qty int) (bool, error) {
	emails, err := s.users.AdminEmails(ctx)
	if err != nil {
		return false, err
	}
	if len(emails) == 0 {
		return false, nil
	}

	subject, html, text := buildColorLowStockMail(color, qty, nil)
	if err := s.mail.Send(emails[0], emails[1:], subject, html, text); err != nil {
		return false, err
	}
	return true, nil
}

// notifyAdmins sends a low-stock mail to the admin recipients and returns
// how many were addressed. Delivery failures are logged, not propagated;
// the alert row already exists at this point.
func (s *AlertService) notifyAdmins(ctx context.Context, subject, html, text string) int {
	emails, err := s.users.AdminEmails(ctx)
	if err != nil {
		s.logger.WithError(err).Error("Failed to resolve admin recipients")
		return 0
	}
	if len(emails) == 0 {
		s.logger.Warn("No admin recipients configured, skipping low stock mail")
		return 0
	}

	if err := s.mail.Send(emails[0], emails[1:], subject, html, text); err != nil {
		s.logger.WithField("subject", subject).WithError(err).Error("Failed to send low stock mail")
		return 0
	}
	return len(emails)
}

func (s *AlertService) publishRaised(alert *models.Alert, currentQty, minThreshold int) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishAlertRaised(alert, currentQty, minThreshold); err != nil {
		s.logger.WithField("alertId", alert.AlertID).WithError(err).Warn("Failed to publish alert raised event")
	}
}

func (s *AlertService) publishResolved(alert *models.Alert, currentQty, minThreshold int) {
	if s.events == nil {
		return
	}
	if err := s.events.PublishAlertResolved(alert, currentQty, minThreshold); err != nil {
		s.logger.WithField("alertId", alert.AlertID).WithError(err).Warn("Failed to publish alert resolved event")
	}
}

func buildColorLowStockMail(color string, qty int, min *int) (subject, html, text string) {
	minInfo := ""
	if min != nil {
		minInfo = fmt.Sprintf(" (Min: %d)", *min)
	}
	subject = fmt.Sprintf("Stok Uyarısı • %s kablosu kritik seviyede", color)
	html = fmt.Sprintf(`<h3>Stok Uyarısı</h3>
<p><b>%s</b> renkli kablonun stoğu <b>%d</b>%s.</p>
<p>Lütfen gerekli giriş işlemlerini başlatın.</p>`, color, qty, minInfo)
	text = fmt.Sprintf("Stok Uyarısı: %s kablosunun stoğu %d%s.", color, qty, minInfo)
	return subject, html, text
}

func buildMultiLowStockMail(multiCableID, qty, min int) (subject, html, text string) {
	subject = fmt.Sprintf("Stok Uyarısı • MultiCable #%d kritik seviyede", multiCableID)
	html = fmt.Sprintf(`<h3>Stok Uyarısı</h3>
<p><b>MultiCableID: %d</b> stoğu <b>%d</b> (Min: %d).</p>
<p>Lütfen gerekli giriş işlemlerini başlatın.</p>`, multiCableID, qty, min)
	text = fmt.Sprintf("Stok Uyarısı: MultiCable #%d stoğu %d (Min: %d).", multiCableID, qty, min)
	return subject, html, text
}

func buildAlertMail(alert *models.Alert) (subject, html, text string) {
	switch alert.AlertType {
	case models.AlertKindColor:
		subject = fmt.Sprintf("Stok Uyarısı • %s rengi", deref(alert.Color))
	case models.AlertKindMulti:
		subject = fmt.Sprintf("Stok Uyarısı • MultiCable #%d", derefInt(alert.MultiCableID))
	default:
		subject = "Stok Uyarısı"
	}

	status := "Kapalı"
	if alert.IsActive {
		status = "Aktif"
	}

	var items []string
	items = append(items, fmt.Sprintf("<li><b>Tür:</b> %s</li>", alert.AlertType))
	if alert.Color != nil && *alert.Color != "" {
		items = append(items, fmt.Sprintf("<li><b>Renk:</b> %s</li>", *alert.Color))
	}
	if alert.MultiCableID != nil {
		items = append(items, fmt.Sprintf("<li><b>MultiCableID:</b> %d</li>", *alert.MultiCableID))
	}
	items = append(items, fmt.Sprintf("<li><b>Tarih:</b> %s</li>", alert.AlertDate.Format(auditTimeLayout)))
	if alert.Description != "" {
		items = append(items, fmt.Sprintf("<li><b>Açıklama:</b> %s</li>", alert.Description))
	}
	items = append(items, fmt.Sprintf("<li><b>Durum:</b> %s</li>", status))

	html = fmt.Sprintf("<h3>Stok Uyarısı</h3>\n<ul>\n%s\n</ul>", strings.Join(items, "\n"))

	var lines []string
	lines = append(lines, "Stok Uyarısı", fmt.Sprintf("Tür: %s", alert.AlertType))
	if alert.Color != nil && *alert.Color != "" {
		lines = append(lines, fmt.Sprintf("Renk: %s", *alert.Color))
	}
	if alert.MultiCableID != nil {
		lines = append(lines, fmt.Sprintf("MultiCableID: %d", *alert.MultiCableID))
	}
	lines = append(lines, fmt.Sprintf("Tarih: %s", alert.AlertDate.Format(auditTimeLayout)))
	if alert.Description != "" {
		lines = append(lines, fmt.Sprintf("Açıklama: %s", alert.Description))
	}
	lines = append(lines, fmt.Sprintf("Durum: %s", status))
	text = strings.Join(lines, "\n")

	return subject, html, text
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt(i *int) int {
	if i == nil {
		return 0
	}
	return *i
}
