package dto

import (
	"garments-store/internal/model"

	"github.com/shopspring/decimal"
)

// -------- users --------

type RegisterUserRequest struct {
	Name     string     `json:"name" validate:"max=128"`
	PhotoURL string     `json:"photoURL" validate:"omitempty,url,max=512"`
	Role     model.Role `json:"role" validate:"omitempty,oneof=User Manager"`
}

type RegisterUserResponse struct {
	Message  string      `json:"message"`
	Inserted bool        `json:"inserted"`
	User     *model.User `json:"user,omitempty"`
}

type UserRoleResponse struct {
	Role   model.Role       `json:"role"`
	Status model.UserStatus `json:"status"`
}

type ListUsersQuery struct {
	Role   model.Role       `query:"role" validate:"omitempty,oneof=User Manager Admin"`
	Status model.UserStatus `query:"status" validate:"omitempty,oneof=Pending Approved Rejected"`
	Limit  int              `query:"limit" validate:"gte=0"`
	Skip   int              `query:"skip" validate:"gte=0"`
}

type UserPage struct {
	Users []*model.User `json:"users"`
	Total int64         `json:"total"`
}

type UpdateUserStatusRequest struct {
	Status          model.UserStatus `json:"status" validate:"required,oneof=Pending Approved Rejected"`
	RejectionReason string           `json:"rejectionReason" validate:"max=512"`
	Feedback        string           `json:"feedback" validate:"max=1024"`
}

// -------- products --------

type ListProductsQuery struct {
	Search   string `query:"search" validate:"max=100"`
	Category string `query:"category"`
	Email    string `query:"email"`
	Home     bool   `query:"home"`
	Sort     string `query:"sort" validate:"omitempty,oneof=createdAt price title"`
	Order    string `query:"order" validate:"omitempty,oneof=asc desc"`
	Limit    int    `query:"limit" validate:"gte=0"`
	Skip     int    `query:"skip" validate:"gte=0"`
}

type ProductPage struct {
	Products []*model.Product `json:"products"`
	Total    int64            `json:"total"`
}

type CreateProductRequest struct {
	Title        string                 `json:"title" validate:"required,max=191"`
	Description  string                 `json:"description" validate:"max=5000"`
	Category     string                 `json:"category" validate:"required,max=64"`
	Price        decimal.Decimal        `json:"price"`
	Quantity     int                    `json:"quantity" validate:"gte=0"`
	MinimumOrder int                    `json:"minimumOrder" validate:"gte=0"`
	ShowOnHome   bool                   `json:"showOnHome"`
	Attributes   map[string]interface{} `json:"attributes"`
}

// UpdateProductRequest is a partial update; nil fields are left untouched.
type UpdateProductRequest struct {
	Title        *string                `json:"title" validate:"omitempty,min=1,max=191"`
	Description  *string                `json:"description" validate:"omitempty,max=5000"`
	Category     *string                `json:"category" validate:"omitempty,min=1,max=64"`
	Price        *decimal.Decimal       `json:"price"`
	Quantity     *int                   `json:"quantity" validate:"omitempty,gte=0"`
	MinimumOrder *int                   `json:"minimumOrder" validate:"omitempty,gte=0"`
	ShowOnHome   *bool                  `json:"showOnHome"`
	Attributes   map[string]interface{} `json:"attributes"`
}

// -------- orders --------

type CreateOrderRequest struct {
	ProductID       string                 `json:"productId" validate:"required"`
	Quantity        int                    `json:"quantity" validate:"required,gt=0"`
	DeliveryAddress string                 `json:"deliveryAddress" validate:"required,max=512"`
	Notes           string                 `json:"notes" validate:"max=1024"`
	Attributes      map[string]interface{} `json:"attributes"`
}

type ListOrdersQuery struct {
	Email string `query:"email"`
}

// -------- payments --------

type CheckoutSessionRequest struct {
	Cost        decimal.Decimal `json:"cost"`
	ProductID   string          `json:"productId" validate:"required,max=64"`
	ProductName string          `json:"productName" validate:"required,max=127"`
	Email       string          `json:"email" validate:"omitempty,email"`
	OrderID     string          `json:"orderId" validate:"max=64"`
}

type CheckoutSessionResponse struct {
	URL       string `json:"url"`
	SessionID string `json:"sessionId"`
}

type PaymentSuccessQuery struct {
	SessionID string `query:"session_id"`
	Token     string `query:"token"` // PayPal appends the order id as token
}

type PaymentConfirmation struct {
	Success       bool   `json:"success"`
	TrackingID    string `json:"trackingId,omitempty"`
	TransactionID string `json:"transactionID,omitempty"`
	PaymentStatus string `json:"paymentStatus,omitempty"`
}

type ListPaymentsQuery struct {
	Email string `query:"email"`
}
