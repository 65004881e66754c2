package service_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"cablestock-service/internal/apperrors"
	"cablestock-service/internal/models"
	"cablestock-service/internal/service"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newAlertService(alerts *MockAlertStore, users *MockUserStore, mail *MockMailSender) *service.AlertService {
	return service.NewAlertService(alerts, users, mail, nil, testLogger())
}

func TestEvaluateColorThreshold_CreatesAlertAndNotifies(t *testing.T) {
	alerts := new(MockAlertStore)
	users := new(MockUserStore)
	mail := new(MockMailSender)
	svc := newAlertService(alerts, users, mail)

	alerts.On("FindActive", mock.Anything, models.AlertKindColor, mock.Anything, mock.Anything).Return(nil, nil)
	alerts.On("Create", mock.Anything, mock.MatchedBy(func(a *models.Alert) bool {
		return a.AlertType == models.AlertKindColor &&
			a.Color != nil && *a.Color == "Kırmızı" &&
			a.IsActive &&
			a.MinQuantity == 10 &&
			a.Description == "Renk=Kırmızı, Qty=4, Min=10"
	})).Return(nil)
	users.On("AdminEmails", mock.Anything).Return([]string{"a@x.com", "b@x.com", "c@x.com"}, nil)
	mail.On("Send", "a@x.com", []string{"b@x.com", "c@x.com"}, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	result, err := svc.EvaluateColorThreshold(context.Background(), "Kırmızı", 4, 10)

	assert.NoError(t, err)
	assert.True(t, result.AlertCreatedAndNotified)
	assert.False(t, result.AlertResolved)
	assert.False(t, result.WasAlreadyActive)
	assert.Equal(t, 3, result.RecipientCount)
	assert.Equal(t, 4, result.CurrentQty)
	assert.Equal(t, 10, result.MinThreshold)
	assert.Equal(t, models.TargetSingle, result.Kind)
	assert.Equal(t, "Kırmızı", result.Key)
	alerts.AssertExpectations(t)
	mail.AssertExpectations(t)
}

func TestEvaluateColorThreshold_SuppressesDuplicate(t *testing.T) {
	alerts := new(MockAlertStore)
	users := new(MockUserStore)
	mail := new(MockMailSender)
	svc := newAlertService(alerts, users, mail)

	color := "Mavi"
	active := &models.Alert{AlertID: 7, AlertType: models.AlertKindColor, Color: &color, IsActive: true}
	alerts.On("FindActive", mock.Anything, models.AlertKindColor, mock.Anything, mock.Anything).Return(active, nil)

	result, err := svc.EvaluateColorThreshold(context.Background(), color, 2, 5)

	assert.NoError(t, err)
	assert.True(t, result.WasAlreadyActive)
	assert.False(t, result.AlertCreatedAndNotified)
	assert.Zero(t, result.RecipientCount)
	alerts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	mail.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEvaluateColorThreshold_ResolvesWhenRecovered(t *testing.T) {
	alerts := new(MockAlertStore)
	users := new(MockUserStore)
	mail := new(MockMailSender)
	svc := newAlertService(alerts, users, mail)

	color := "Mavi"
	active := &models.Alert{AlertID: 7, AlertType: models.AlertKindColor, Color: &color, IsActive: true}
	alerts.On("FindActive", mock.Anything, models.AlertKindColor, mock.Anything, mock.Anything).Return(active, nil)
	alerts.On("Update", mock.Anything, mock.MatchedBy(func(a *models.Alert) bool {
		return a.AlertID == 7 && !a.IsActive
	})).Return(nil)

	result, err := svc.EvaluateColorThreshold(context.Background(), color, 8, 5)

	assert.NoError(t, err)
	assert.True(t, result.AlertResolved)
	assert.True(t, result.WasAlreadyActive)
	assert.False(t, result.AlertCreatedAndNotified)
	alerts.AssertExpectations(t)
}

func TestEvaluateColorThreshold_NoopAboveThreshold(t *testing.T) {
	alerts := new(MockAlertStore)
	users := new(MockUserStore)
	mail := new(MockMailSender)
	svc := newAlertService(alerts, users, mail)

	alerts.On("FindActive", mock.Anything, models.AlertKindColor, mock.Anything, mock.Anything).Return(nil, nil)

	result, err := svc.EvaluateColorThreshold(context.Background(), "Yeşil", 20, 5)

	assert.NoError(t, err)
	assert.False(t, result.AlertCreatedAndNotified)
	assert.False(t, result.AlertResolved)
	assert.False(t, result.WasAlreadyActive)
}

func TestEvaluateColorThreshold_ZeroThresholdNeverTrips(t *testing.T) {
	alerts := new(MockAlertStore)
	users := new(MockUserStore)
	mail := new(MockMailSender)
	svc := newAlertService(alerts, users, mail)

	alerts.On("FindActive", mock.Anything, models.AlertKindColor, mock.Anything, mock.Anything).Return(nil, nil)

	result, err := svc.EvaluateColorThreshold(context.Background(), "Sarı", 0, 0)

	assert.NoError(t, err)
	assert.False(t, result.AlertCreatedAndNotified)
	alerts.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestEvaluateColorThreshold_NoRecipients(t *testing.T) {
	alerts := new(MockAlertStore)
	users := new(MockUserStore)
	mail := new(MockMailSender)
	svc := newAlertService(alerts, users, mail)

	alerts.On("FindActive", mock.Anything, models.AlertKindColor, mock.Anything, mock.Anything).Return(nil, nil)
	alerts.On("Create", mock.Anything, mock.Anything).Return(nil)
	users.On("AdminEmails", mock.Anything).Return([]string{}, nil)

	result, err := svc.EvaluateColorThreshold(context.Background(), "Kırmızı", 1, 5)

	assert.NoError(t, err)
	assert.False(t, result.AlertCreatedAndNotified)
	assert.Zero(t, result.RecipientCount)
	mail.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestEvaluateColorThreshold_MailFailureDoesNotFail(t *testing.T) {
	alerts := new(MockAlertStore)
	users := new(MockUserStore)
	mail := new(MockMailSender)
	svc := newAlertService(alerts, users, mail)

	alerts.On("FindActive", mock.Anything, models.AlertKindColor, mock.Anything, mock.Anything).Return(nil, nil)
	alerts.On("Create", mock.Anything, mock.Anything).Return(nil)
	users.On("AdminEmails", mock.Anything).Return([]string{"a@x.com"}, nil)
	mail.On("Send", "a@x.com", []string{}, mock.Anything, mock.Anything, mock.Anything).
		Return(apperrors.NewSend("mail delivery failed", nil))

	result, err := svc.EvaluateColorThreshold(context.Background(), "Kırmızı", 1, 5)

	assert.NoError(t, err)
	assert.False(t, result.AlertCreatedAndNotified)
	assert.Zero(t, result.RecipientCount)
	alerts.AssertExpectations(t)
}

func TestEvaluateMultiThreshold_CreatesAlert(t *testing.T) {
	alerts := new(MockAlertStore)
	users := new(MockUserStore)
	mail := new(MockMailSender)
	svc := newAlertService(alerts, users, mail)

	alerts.On("FindActive", mock.Anything, models.AlertKindMulti, mock.Anything, mock.Anything).Return(nil, nil)
	alerts.On("Create", mock.Anything, mock.MatchedBy(func(a *models.Alert) bool {
		return a.AlertType == models.AlertKindMulti &&
			a.MultiCableID != nil && *a.MultiCableID == 3 &&
			a.Description == "MultiCableID=3, Qty=2, Min=8"
	})).Return(nil)
	users.On("AdminEmails", mock.Anything).Return([]string{"a@x.com"}, nil)
	mail.On("Send", "a@x.com", []string{}, mock.Anything, mock.Anything, mock.Anything).Return(nil)

	result, err := svc.EvaluateMultiThreshold(context.Background(), 3, 2, 8)

	assert.NoError(t, err)
	assert.True(t, result.AlertCreatedAndNotified)
	assert.Equal(t, models.TargetMulti, result.Kind)
	assert.Equal(t, "3", result.Key)
	alerts.AssertExpectations(t)
	mail.AssertExpectations(t)
}

func TestResolve_AppendsAuditSuffix(t *testing.T) {
	alerts := new(MockAlertStore)
	users := new(MockUserStore)
	mail := new(MockMailSender)
	svc := newAlertService(alerts, users, mail)

	existing := &models.Alert{AlertID: 5, Description: "Renk=Mavi, Qty=1, Min=5", IsActive: true}
	alerts.On("GetByID", mock.Anything, 5).Return(existing, nil)
	alerts.On("Update", mock.Anything, mock.MatchedBy(func(a *models.Alert) bool {
		return !a.IsActive &&
			strings.Contains(a.Description, "[KAPATILDI: ") &&
			strings.Contains(a.Description, "; Not: restock tamamlandı]")
	})).Return(nil)

	alert, err := svc.Resolve(context.Background(), 5, "restock tamamlandı")

	assert.NoError(t, err)
	assert.False(t, alert.IsActive)
	alerts.AssertExpectations(t)
}

func TestResolve_EmptyNoteLeavesDescription(t *testing.T) {
	alerts := new(MockAlertStore)
	users := new(MockUserStore)
	mail := new(MockMailSender)
	svc := newAlertService(alerts, users, mail)

	existing := &models.Alert{AlertID: 5, Description: "Renk=Mavi, Qty=1, Min=5", IsActive: true}
	alerts.On("GetByID", mock.Anything, 5).Return(existing, nil)
	alerts.On("Update", mock.Anything, mock.MatchedBy(func(a *models.Alert) bool {
		return a.Description == "Renk=Mavi, Qty=1, Min=5"
	})).Return(nil)

	_, err := svc.Resolve(context.Background(), 5, "   ")
	assert.NoError(t, err)
	alerts.AssertExpectations(t)
}

func TestResolve_AlreadyClosedStillRecordsNote(t *testing.T) {
	alerts := new(MockAlertStore)
	users := new(MockUserStore)
	mail := new(MockMailSender)
	svc := newAlertService(alerts, users, mail)

	existing := &models.Alert{AlertID: 5, Description: "Renk=Mavi, Qty=1, Min=5", IsActive: false}
	alerts.On("GetByID", mock.Anything, 5).Return(existing, nil)
	alerts.On("Update", mock.Anything, mock.MatchedBy(func(a *models.Alert) bool {
		return !a.IsActive && strings.Contains(a.Description, "; Not: geç kapanış notu]")
	})).Return(nil)

	alert, err := svc.Resolve(context.Background(), 5, "geç kapanış notu")

	assert.NoError(t, err)
	assert.False(t, alert.IsActive)
	alerts.AssertExpectations(t)
}

func TestResolve_AlreadyClosedWithoutNoteIsNoop(t *testing.T) {
	alerts := new(MockAlertStore)
	users := new(MockUserStore)
	mail := new(MockMailSender)
	svc := newAlertService(alerts, users, mail)

	existing := &models.Alert{AlertID: 5, IsActive: false}
	alerts.On("GetByID", mock.Anything, 5).Return(existing, nil)

	alert, err := svc.Resolve(context.Background(), 5, "  ")

	assert.NoError(t, err)
	assert.False(t, alert.IsActive)
	alerts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestResolve_NotFound(t *testing.T) {
	alerts := new(MockAlertStore)
	users := new(MockUserStore)
	mail := new(MockMailSender)
	svc := newAlertService(alerts, users, mail)

	alerts.On("GetByID", mock.Anything, 99).Return(nil, nil)

	_, err := svc.Resolve(context.Background(), 99, "")

	assert.Error(t, err)
	var notFound *apperrors.NotFoundError
	assert.ErrorAs(t, err, &notFound)
}

func TestResolve_TruncatesDescriptionTo255(t *testing.T) {
	alerts := new(MockAlertStore)
	users := new(MockUserStore)
	mail := new(MockMailSender)
	svc := newAlertService(alerts, users, mail)

	existing := &models.Alert{AlertID: 5, Description: strings.Repeat("a", 250), IsActive: true}
	alerts.On("GetByID", mock.Anything, 5).Return(existing, nil)
	alerts.On("Update", mock.Anything, mock.MatchedBy(func(a *models.Alert) bool {
		return len([]rune(a.Description)) == models.AlertDescriptionLimit
	})).Return(nil)

	_, err := svc.Resolve(context.Background(), 5, "uzun bir kapatma notu")
	assert.NoError(t, err)
	alerts.AssertExpectations(t)
}

func TestReactivate_AppendsAuditSuffix(t *testing.T) {
	alerts := new(MockAlertStore)
	users := new(MockUserStore)
	mail := new(MockMailSender)
	svc := newAlertService(alerts, users, mail)

	existing := &models.Alert{AlertID: 6, Description: "Renk=Mavi, Qty=1, Min=5", IsActive: false}
	alerts.On("GetByID", mock.Anything, 6).Return(existing, nil)
	alerts.On("Update", mock.Anything, mock.MatchedBy(func(a *models.Alert) bool {
		return a.IsActive &&
			strings.Contains(a.Description, "[TEKRAR AKTİF: ") &&
			strings.Contains(a.Description, "; Sebep: tekrar düştü]")
	})).Return(nil)

	alert, err := svc.Reactivate(context.Background(), 6, "tekrar düştü")

	assert.NoError(t, err)
	assert.True(t, alert.IsActive)
	alerts.AssertExpectations(t)
}

func TestReactivate_AlreadyActiveStillRecordsReason(t *testing.T) {
	alerts := new(MockAlertStore)
	users := new(MockUserStore)
	mail := new(MockMailSender)
	svc := newAlertService(alerts, users, mail)

	existing := &models.Alert{AlertID: 6, Description: "Renk=Mavi, Qty=1, Min=5", IsActive: true}
	alerts.On("GetByID", mock.Anything, 6).Return(existing, nil)
	alerts.On("Update", mock.Anything, mock.MatchedBy(func(a *models.Alert) bool {
		return a.IsActive && strings.Contains(a.Description, "; Sebep: sebep]")
	})).Return(nil)

	alert, err := svc.Reactivate(context.Background(), 6, "sebep")

	assert.NoError(t, err)
	assert.True(t, alert.IsActive)
	alerts.AssertExpectations(t)
}

func TestReactivate_AlreadyActiveWithoutReasonIsNoop(t *testing.T) {
	alerts := new(MockAlertStore)
	users := new(MockUserStore)
	mail := new(MockMailSender)
	svc := newAlertService(alerts, users, mail)

	existing := &models.Alert{AlertID: 6, IsActive: true}
	alerts.On("GetByID", mock.Anything, 6).Return(existing, nil)

	alert, err := svc.Reactivate(context.Background(), 6, "")

	assert.NoError(t, err)
	assert.True(t, alert.IsActive)
	alerts.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestNotifyAdminsForAlert_SendsToFirstWithBcc(t *testing.T) {
	alerts := new(MockAlertStore)
	users := new(MockUserStore)
	mail := new(MockMailSender)
	svc := newAlertService(alerts, users, mail)

	color := "Kırmızı"
	alert := &models.Alert{AlertID: 9, AlertType: models.AlertKindColor, Color: &color, Description: "Renk=Kırmızı, Qty=1, Min=5", IsActive: true}
	alerts.On("GetByID", mock.Anything, 9).Return(alert, nil)
	users.On("AdminEmails", mock.Anything).Return([]string{"a@x.com", "b@x.com"}, nil)
	mail.On("Send", "a@x.com", []string{"b@x.com"},
		"Stok Uyarısı • Kırmızı rengi", mock.Anything, mock.Anything).Return(nil)

	sent, err := svc.NotifyAdminsForAlert(context.Background(), 9)

	assert.NoError(t, err)
	assert.True(t, sent)
	mail.AssertExpectations(t)
}

func TestNotifyAdminsForAlert_NoRecipients(t *testing.T) {
	alerts := new(MockAlertStore)
	users := new(MockUserStore)
	mail := new(MockMailSender)
	svc := newAlertService(alerts, users, mail)

	alert := &models.Alert{AlertID: 9, AlertType: models.AlertKindColor}
	alerts.On("GetByID", mock.Anything, 9).Return(alert, nil)
	users.On("AdminEmails", mock.Anything).Return([]string{}, nil)

	sent, err := svc.NotifyAdminsForAlert(context.Background(), 9)

	assert.NoError(t, err)
	assert.False(t, sent)
	mail.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestNotifyAdminsForLowStock_OmitsMinimum(t *testing.T) {
	alerts := new(MockAlertStore)
	users := new(MockUserStore)
	mail := new(MockMailSender)
	svc := newAlertService(alerts, users, mail)

	users.On("AdminEmails", mock.Anything).Return([]string{"a@x.com", "b@x.com"}, nil)
	mail.On("Send", "a@x.com", []string{"b@x.com"},
		"Stok Uyarısı • Kırmızı kablosu kritik seviyede",
		mock.MatchedBy(func(html string) bool { return !strings.Contains(html, "Min:") }),
		mock.MatchedBy(func(text string) bool { return !strings.Contains(text, "Min:") }),
	).Return(nil)

	sent, err := svc.NotifyAdminsForLowStock(context.Background(), "Kırmızı", 2)

	assert.NoError(t, err)
	assert.True(t, sent)
	mail.AssertExpectations(t)
}

func TestNotifyAdminsForLowStock_NoRecipients(t *testing.T) {
	alerts := new(MockAlertStore)
	users := new(MockUserStore)
	mail := new(MockMailSender)
	svc := newAlertService(alerts, users, mail)

	users.On("AdminEmails", mock.Anything).Return([]string{}, nil)

	sent, err := svc.NotifyAdminsForLowStock(context.Background(), "Kırmızı", 2)

	assert.NoError(t, err)
	assert.False(t, sent)
	mail.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
