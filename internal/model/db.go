package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type Role string

const (
	RoleUser    Role = "User"
	RoleManager Role = "Manager"
	RoleAdmin   Role = "Admin"
)

type UserStatus string

const (
	UserStatusPending  UserStatus = "Pending"
	UserStatusApproved UserStatus = "Approved"
	UserStatusRejected UserStatus = "Rejected"
)

type User struct {
	ID              string     `gorm:"primaryKey;size:36;not null" json:"id"`
	Email           string     `gorm:"size:191;uniqueIndex;not null" json:"email"`
	Name            string     `gorm:"size:128" json:"name"`
	PhotoURL        string     `gorm:"size:512" json:"photoURL"`
	Role            Role       `gorm:"size:16;index;not null" json:"role"`
	Status          UserStatus `gorm:"size:16;index;not null" json:"status"`
	RejectionReason string     `gorm:"size:512" json:"rejectionReason,omitempty"`
	Feedback        string     `gorm:"size:1024" json:"feedback,omitempty"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

type Product struct {
	ID           string            `gorm:"primaryKey;size:36;not null" json:"_id"`
	Title        string            `gorm:"size:191;index;not null" json:"title"`
	Description  string            `gorm:"type:text" json:"description"`
	Category     string            `gorm:"size:64;index" json:"category"`
	Price        decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"price"`
	Quantity     int               `gorm:"not null;default:0" json:"quantity"` // available stock, 0 means untracked
	MinimumOrder int               `gorm:"not null;default:1" json:"minimumOrder"`
	OwnerEmail   string            `gorm:"size:191;index;not null" json:"createdBy"`
	ShowOnHome   bool              `gorm:"index" json:"showOnHome"`
	Attributes   datatypes.JSONMap `json:"attributes,omitempty"`
	CreatedAt    time.Time         `json:"createdAt"`
	UpdatedAt    time.Time         `json:"updatedAt"`
}

type Payment struct {
	ID            string          `gorm:"primaryKey;size:36;not null" json:"_id"`
	Amount        decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"amount"`
	Currency      string          `gorm:"size:8;not null" json:"currency"`
	CustomerEmail string          `gorm:"size:191;index;not null" json:"customerEmail"`
	ProductID     string          `gorm:"size:64;index" json:"productId"`
	ProductName   string          `gorm:"size:191" json:"productName"`
	OrderID       string          `gorm:"size:64;index" json:"orderId"`
	TransactionID string          `gorm:"size:128;uniqueIndex;not null" json:"transactionId"` // gateway capture id
	PaymentStatus string          `gorm:"size:32;not null" json:"paymentStatus"`
	TrackingID    string          `gorm:"size:64;index;not null" json:"trackingId"`
	PaidAt        time.Time       `json:"paidAt"`
}
