package models

import "time"

// CreateMovementRequest is the body for recording a stock movement.
type CreateMovementRequest struct {
	CableID      int          `json:"cableId"`
	TableName    TargetKind   `json:"tableName" binding:"required"`
	Quantity     int          `json:"quantity" binding:"required"`
	MovementType MovementType `json:"movementType" binding:"required"`
	Color        *string      `json:"color,omitempty"`
}

// MovementFilter narrows movement history queries.
type MovementFilter struct {
	TableName    *TargetKind
	MovementType *MovementType
	CableID      *int
	Color        *string
	From         *time.Time
	To           *time.Time
	Page         int
	PageSize     int
}

// MovementResponse is a ledger row as returned by the API.
type MovementResponse struct {
	MovementID   int          `json:"movementId"`
	CableID      int          `json:"cableId"`
	TableName    TargetKind   `json:"tableName"`
	Quantity     int          `json:"quantity"`
	MovementType MovementType `json:"movementType"`
	MovementDate time.Time    `json:"movementDate"`
	UserID       int64        `json:"userId"`
	Color        *string      `json:"color,omitempty"`
}

// SetColorThresholdRequest sets the minimum for a color.
type SetColorThresholdRequest struct {
	Color       string `json:"color" binding:"required"`
	MinQuantity int    `json:"minQuantity"`
}

// SetCableThresholdRequest sets the minimum for a multi cable.
type SetCableThresholdRequest struct {
	MultiCableID int `json:"multiCableId" binding:"required"`
	MinQuantity  int `json:"minQuantity"`
}

// CloseAlertRequest deactivates an alert with an optional audit note.
type CloseAlertRequest struct {
	Note string `json:"note"`
}

// ReactivateAlertRequest re-opens a closed alert with an optional reason.
type ReactivateAlertRequest struct {
	Reason string `json:"reason"`
}

// LoginRequest authenticates a user by id and password.
type LoginRequest struct {
	UserID   int64  `json:"userId" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the issued token.
type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	UserID    int64     `json:"userId"`
	Role      string    `json:"role"`
}

// LowStockNotifyRequest asks for an ad-hoc low stock mail for a color.
type LowStockNotifyRequest struct {
	Color string `json:"color" binding:"required"`
	Qty   int    `json:"qty" binding:"min=0"`
}

// CreateUserRequest registers a user. The password arrives plain and is
// hashed before storage.
type CreateUserRequest struct {
	UserID       int64   `json:"userId" binding:"required"`
	FirstName    *string `json:"firstName,omitempty"`
	LastName     *string `json:"lastName,omitempty"`
	Email        *string `json:"email,omitempty"`
	PhoneNumber  *string `json:"phoneNumber,omitempty"`
	DepartmentID *int    `json:"departmentId,omitempty"`
	Role         string  `json:"role" binding:"required"`
	Password     string  `json:"password" binding:"required"`
}

// CreateMultiCableRequest registers a new multi cable type.
type CreateMultiCableRequest struct {
	CableName string `json:"cableName" binding:"required"`
}

// ImportRowResult is the outcome of one spreadsheet row.
type ImportRowResult struct {
	Row    int    `json:"row"`
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

// Import row statuses
const (
	ImportRowProcessed = "processed"
	ImportRowSkipped   = "skipped"
)

// ImportResult summarizes a bulk import run.
type ImportResult struct {
	BatchID   string            `json:"batchId"`
	DryRun    bool              `json:"dryRun"`
	Total     int               `json:"total"`
	Processed int               `json:"processed"`
	Skipped   int               `json:"skipped"`
	Rows      []ImportRowResult `json:"rows"`
}

// ColorStock is an aggregate line in the stock summary report.
type ColorStock struct {
	Color       string `json:"color"`
	Quantity    int    `json:"quantity"`
	MinQuantity *int   `json:"minQuantity,omitempty"`
	BelowMin    bool   `json:"belowMin"`
}

// MultiStock is an aggregate line for one multi cable in the stock summary.
type MultiStock struct {
	MultiCableID int    `json:"multiCableId"`
	CableName    string `json:"cableName"`
	Quantity     int    `json:"quantity"`
	MinQuantity  *int   `json:"minQuantity,omitempty"`
	BelowMin     bool   `json:"belowMin"`
}

// StockSummary is the combined report over both inventory representations.
type StockSummary struct {
	Colors      []ColorStock `json:"colors"`
	MultiCables []MultiStock `json:"multiCables"`
	GeneratedAt time.Time    `json:"generatedAt"`
}

// APIResponse is the standard response envelope.
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *APIError   `json:"error,omitempty"`
	Meta    interface{} `json:"meta,omitempty"`
}

// APIError carries a machine-readable code and a human message.
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// PaginationMeta describes a paged collection.
type PaginationMeta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"pageSize"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

// SuccessResponse wraps data in the standard envelope.
func SuccessResponse(data interface{}) APIResponse {
	return APIResponse{Success: true, Data: data}
}

// SuccessResponseWithMeta wraps data and pagination in the standard envelope.
func SuccessResponseWithMeta(data interface{}, meta interface{}) APIResponse {
	return APIResponse{Success: true, Data: data, Meta: meta}
}

// ErrorResponse wraps an error code and message in the standard envelope.
func ErrorResponse(code, message string) APIResponse {
	return APIResponse{Success: false, Error: &APIError{Code: code, Message: message}}
}
