package service_test

import (
	"context"

	"github.com/stretchr/testify/mock"

	"cablestock-service/internal/models"
	"cablestock-service/internal/repository"
)

type MockMovementStore struct {
	mock.Mock
}

func (m *MockMovementStore) ApplyMovement(ctx context.Context, req *models.CreateMovementRequest, userID int64) (*models.StockMovement, error) {
	args := m.Called(ctx, req, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.StockMovement), args.Error(1)
}

func (m *MockMovementStore) CurrentColorStock(ctx context.Context, color string) (int, error) {
	args := m.Called(ctx, color)
	return args.Int(0), args.Error(1)
}

func (m *MockMovementStore) CurrentMultiStock(ctx context.Context, multiCableID int) (int, error) {
	args := m.Called(ctx, multiCableID)
	return args.Int(0), args.Error(1)
}

func (m *MockMovementStore) History(ctx context.Context, filter *models.MovementFilter) ([]models.StockMovement, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.StockMovement), args.Get(1).(int64), args.Error(2)
}

func (m *MockMovementStore) CreateMultiCable(ctx context.Context, name string) (*models.MultiCable, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.MultiCable), args.Error(1)
}

func (m *MockMovementStore) ListMultiCables(ctx context.Context) ([]models.MultiCable, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.MultiCable), args.Error(1)
}

func (m *MockMovementStore) ActiveColorCounts(ctx context.Context) (map[string]int, error) {
	args := m.Called(ctx)
	return args.Get(0).(map[string]int), args.Error(1)
}

type MockAlertStore struct {
	mock.Mock
}

func (m *MockAlertStore) List(ctx context.Context, filter *repository.AlertFilter) ([]models.Alert, int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]models.Alert), args.Get(1).(int64), args.Error(2)
}

func (m *MockAlertStore) GetByID(ctx context.Context, alertID int) (*models.Alert, error) {
	args := m.Called(ctx, alertID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Alert), args.Error(1)
}

func (m *MockAlertStore) FindActive(ctx context.Context, kind models.AlertKind, color *string, multiCableID *int) (*models.Alert, error) {
	args := m.Called(ctx, kind, color, multiCableID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Alert), args.Error(1)
}

func (m *MockAlertStore) HasActiveForColor(ctx context.Context, color string) (bool, error) {
	args := m.Called(ctx, color)
	return args.Bool(0), args.Error(1)
}

func (m *MockAlertStore) HasActiveForMulti(ctx context.Context, multiCableID int) (bool, error) {
	args := m.Called(ctx, multiCableID)
	return args.Bool(0), args.Error(1)
}

func (m *MockAlertStore) Create(ctx context.Context, alert *models.Alert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

func (m *MockAlertStore) Update(ctx context.Context, alert *models.Alert) error {
	args := m.Called(ctx, alert)
	return args.Error(0)
}

type MockThresholdStore struct {
	mock.Mock
}

func (m *MockThresholdStore) MinForColor(ctx context.Context, color string) (int, error) {
	args := m.Called(ctx, color)
	return args.Int(0), args.Error(1)
}

func (m *MockThresholdStore) MinForMulti(ctx context.Context, multiCableID int) (int, error) {
	args := m.Called(ctx, multiCableID)
	return args.Int(0), args.Error(1)
}

func (m *MockThresholdStore) SetForColor(ctx context.Context, color string, minQuantity int) error {
	args := m.Called(ctx, color, minQuantity)
	return args.Error(0)
}

func (m *MockThresholdStore) SetForMulti(ctx context.Context, multiCableID, minQuantity int) error {
	args := m.Called(ctx, multiCableID, minQuantity)
	return args.Error(0)
}

func (m *MockThresholdStore) ListColorThresholds(ctx context.Context) ([]models.ColorThreshold, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.ColorThreshold), args.Error(1)
}

func (m *MockThresholdStore) ListCableThresholds(ctx context.Context) ([]models.CableThreshold, error) {
	args := m.Called(ctx)
	return args.Get(0).([]models.CableThreshold), args.Error(1)
}

type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetActiveByID(ctx context.Context, userID int64) (*models.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserStore) AdminEmails(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	return args.Get(0).([]string), args.Error(1)
}

type MockMailSender struct {
	mock.Mock
}

func (m *MockMailSender) Send(to string, bcc []string, subject, htmlBody, textBody string) error {
	args := m.Called(to, bcc, subject, htmlBody, textBody)
	return args.Error(0)
}
