package model

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

type OrderStatus string

const (
	OrderStatusPending  OrderStatus = "Pending"
	OrderStatusApproved OrderStatus = "Approved"
	OrderStatusRejected OrderStatus = "Rejected"
)

// Final reports whether no further manager decision is allowed.
func (s OrderStatus) Final() bool {
	return s == OrderStatusApproved || s == OrderStatusRejected
}

// PaymentStatusPaid is the only value an order's payment axis moves to;
// the empty string means no payment has been reconciled yet.
const PaymentStatusPaid = "paid"

type Order struct {
	ID              string            `gorm:"primaryKey;size:36;not null" json:"_id"`
	ProductID       string            `gorm:"size:36;index;not null" json:"productId"`
	ProductTitle    string            `gorm:"size:191" json:"productTitle"`
	Quantity        int               `gorm:"not null" json:"quantity"`
	UnitPrice       decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"unitPrice"`
	TotalPrice      decimal.Decimal   `gorm:"type:decimal(12,2);not null" json:"totalPrice"`
	BuyerEmail      string            `gorm:"size:191;index;not null" json:"email"`
	CreatedBy       string            `gorm:"size:191;index;not null" json:"createdBy"` // product owner
	DeliveryAddress string            `gorm:"size:512" json:"deliveryAddress"`
	Notes           string            `gorm:"size:1024" json:"notes,omitempty"`
	Attributes      datatypes.JSONMap `json:"attributes,omitempty"`
	OrderStatus     OrderStatus       `gorm:"size:16;index;not null" json:"orderStatus"`
	PaymentStatus   string            `gorm:"size:16;index" json:"paymentStatus,omitempty"`
	TrackingID      string            `gorm:"size:64;index" json:"trackingId,omitempty"`
	CreatedAt       time.Time         `json:"createdAt"`
	ApprovedAt      *time.Time        `json:"approvedAt,omitempty"`
	RejectedAt      *time.Time        `json:"rejectedAt,omitempty"`
}
