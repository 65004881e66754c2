package models

import (
	"time"
)

// MovementType is the direction of a stock movement
type MovementType string

const (
	MovementInflow  MovementType = "Giriş"
	MovementOutflow MovementType = "Çıkış"
)

// TargetKind selects which inventory representation a movement touches
type TargetKind string

const (
	TargetSingle TargetKind = "Single"
	TargetMulti  TargetKind = "Multi"
)

// AlertKind distinguishes color alerts from multi-cable alerts
type AlertKind string

const (
	AlertKindColor AlertKind = "Color"
	AlertKindMulti AlertKind = "Multi"
)

// User roles
const (
	RoleAdmin    = "Admin"
	RoleEmployee = "Employee"
)

// AlertDescriptionLimit bounds the free-text alert description. Audit
// suffixes are appended and the whole string truncated to this many runes.
const AlertDescriptionLimit = 255

// SingleCable is one physical cable tracked as a discrete unit.
// Units are created by inflows and deactivated (never deleted) by outflows.
type SingleCable struct {
	CableID      int    `json:"cableId" gorm:"primaryKey;autoIncrement"`
	Color        string `json:"color" gorm:"type:varchar(50);not null;index"`
	IsActive     bool   `json:"isActive" gorm:"not null;default:true;index"`
	MultiCableID *int   `json:"multiCableId,omitempty" gorm:"index"`
}

// MultiCable is a bundle type tracked only as an aggregate quantity counter.
type MultiCable struct {
	MultiCableID int    `json:"multiCableId" gorm:"primaryKey;autoIncrement"`
	CableName    string `json:"cableName" gorm:"type:varchar(100);not null"`
	Quantity     int    `json:"quantity" gorm:"not null;default:0"`
	IsActive     bool   `json:"isActive" gorm:"not null;default:true"`
}

// StockMovement is one immutable ledger row. Rows are append-only; the
// timestamp is assigned when the row is written.
type StockMovement struct {
	MovementID   int          `json:"movementId" gorm:"primaryKey;autoIncrement"`
	CableID      int          `json:"cableId" gorm:"not null"`
	TableName    TargetKind   `json:"tableName" gorm:"type:varchar(10);not null;index"`
	Quantity     int          `json:"quantity" gorm:"not null"`
	MovementType MovementType `json:"movementType" gorm:"type:varchar(10);not null"`
	MovementDate time.Time    `json:"movementDate" gorm:"not null;index"`
	UserID       int64        `json:"userId" gorm:"not null;index"`
	Color        *string      `json:"color,omitempty" gorm:"type:varchar(50)"`
}

// ColorThreshold is the minimum acceptable active-unit count for a color.
type ColorThreshold struct {
	Color       string `json:"color" gorm:"primaryKey;type:varchar(50)"`
	MinQuantity int    `json:"minQuantity" gorm:"not null"`
}

// CableThreshold is the minimum acceptable quantity for a multi cable.
type CableThreshold struct {
	MultiCableID int `json:"multiCableId" gorm:"primaryKey"`
	MinQuantity  int `json:"minQuantity" gorm:"not null"`
}

// Alert is a standing notification record tied to a (kind, key) pair.
// At most one alert per (kind, key) is active at any time.
type Alert struct {
	AlertID      int       `json:"alertId" gorm:"primaryKey;autoIncrement"`
	AlertType    AlertKind `json:"alertType" gorm:"type:varchar(20);not null;index"`
	AlertDate    time.Time `json:"alertDate" gorm:"not null;index"`
	Color        *string   `json:"color,omitempty" gorm:"type:varchar(50);index"`
	MultiCableID *int      `json:"multiCableId,omitempty" gorm:"index"`
	MinQuantity  int       `json:"minQuantity" gorm:"not null"`
	Description  string    `json:"description" gorm:"type:varchar(255);not null"`
	IsActive     bool      `json:"isActive" gorm:"not null;index"`
}

// User is an acting user. Administrators with a non-empty email form the
// notification recipient list.
type User struct {
	UserID       int64   `json:"userId" gorm:"primaryKey"`
	FirstName    *string `json:"firstName,omitempty" gorm:"type:varchar(50)"`
	LastName     *string `json:"lastName,omitempty" gorm:"type:varchar(50)"`
	Email        *string `json:"email,omitempty" gorm:"type:varchar(100)"`
	PhoneNumber  *string `json:"phoneNumber,omitempty" gorm:"type:varchar(20)"`
	Role         string  `json:"role" gorm:"type:varchar(10);not null"`
	IsActive     bool    `json:"isActive" gorm:"not null"`
	DepartmentID *int    `json:"departmentId,omitempty"`
	Password     string  `json:"-" gorm:"type:varchar(100);not null"`
}

// Department groups users; kept for referential completeness of the user model.
type Department struct {
	DepartmentID   int       `json:"departmentId" gorm:"primaryKey;autoIncrement"`
	DepartmentName *string   `json:"departmentName,omitempty" gorm:"type:varchar(50)"`
	AdminID        *int64    `json:"adminId,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
	IsActive       bool      `json:"isActive" gorm:"not null;default:true"`
}

// TableName implementations
func (SingleCable) TableName() string {
	return "single_cables"
}

func (MultiCable) TableName() string {
	return "multi_cables"
}

func (ColorThreshold) TableName() string {
	return "color_thresholds"
}

func (CableThreshold) TableName() string {
	return "cable_thresholds"
}

func (Alert) TableName() string {
	return "alerts"
}

func (User) TableName() string {
	return "users"
}

func (Department) TableName() string {
	return "departments"
}

// TruncateDescription bounds an alert description to AlertDescriptionLimit
// runes. Older content is kept; the excess tail is dropped.
func TruncateDescription(s string) string {
	r := []rune(s)
	if len(r) <= AlertDescriptionLimit {
		return s
	}
	return string(r[:AlertDescriptionLimit])
}
