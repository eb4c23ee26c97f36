package models

import (
	"errors"
	"strings"
	"time"
)

type OrderStatus string
type PaymentStatus string
type PaymentMethod string

const (
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered" // terminal
	OrderStatusCancelled  OrderStatus = "Cancelled" // terminal

	PaymentStatusPending PaymentStatus = "Pending"
	PaymentStatusPaid    PaymentStatus = "Paid"
	PaymentStatusFailed  PaymentStatus = "Failed"

	PaymentMethodCOD     PaymentMethod = "COD"
	PaymentMethodGateway PaymentMethod = "Gateway"
)

type Order struct {
	ID              uint          `gorm:"primaryKey" json:"id"`
	UserID          string        `gorm:"index;not null" json:"user_id"`
	User            User          `gorm:"foreignKey:UserID" json:"user"`
	Products        []OrderLine   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"products"`
	TotalAmount     float64       `json:"total_amount"`
	PaymentMethod   PaymentMethod `gorm:"type:VARCHAR(20)" json:"payment_method"`
	PaymentStatus   PaymentStatus `gorm:"type:VARCHAR(20);default:'Pending'" json:"payment_status"`
	OrderStatus     OrderStatus   `gorm:"type:VARCHAR(20);default:'Processing'" json:"order_status"`
	PaymentInfo     PaymentInfo   `gorm:"embedded;embeddedPrefix:payment_" json:"payment_info"`
	ShippingAddress Address       `gorm:"embedded;embeddedPrefix:ship_" json:"shipping_address"`
	CreatedAt       time.Time     `json:"created_at"`
}

// OrderLine carries the product name and price as they were at order time.
// The snapshot is never re-derived from the live catalog.
type OrderLine struct {
	ID             uint    `gorm:"primaryKey" json:"-"`
	OrderID        uint    `gorm:"index" json:"-"`
	ProductID      uint    `json:"product_id"`
	Name           string  `json:"name"`
	Price          float64 `json:"price"`
	Quantity       int     `json:"quantity"`
	CustomText     string  `json:"custom_text,omitempty"`
	CustomImageRef string  `json:"custom_image_ref,omitempty"`
}

// PaymentInfo is retained for audit and dispute resolution on gateway orders.
type PaymentInfo struct {
	TransactionID string `json:"transaction_id,omitempty"`
	PaymentID     string `json:"payment_id,omitempty"`
	Signature     string `json:"signature,omitempty"`
}

type Address struct {
	FullName   string `json:"full_name"`
	Line1      string `json:"line1"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city"`
	State      string `json:"state"`
	PostalCode string `json:"postal_code"`
	Country    string `json:"country"`
	Phone      string `json:"phone"`
}

// CanTransition encodes the one-directional order status machine:
// Processing -> Shipped -> Delivered, with Cancelled reachable from
// Processing or Shipped. Terminal states admit nothing.
func (s OrderStatus) CanTransition(next OrderStatus) bool {
	switch s {
	case OrderStatusProcessing:
		return next == OrderStatusShipped || next == OrderStatusCancelled
	case OrderStatusShipped:
		return next == OrderStatusDelivered || next == OrderStatusCancelled
	default:
		return false
	}
}

func ParseOrderStatus(s string) (OrderStatus, error) {
	switch strings.ToLower(s) {
	case "processing":
		return OrderStatusProcessing, nil
	case "shipped":
		return OrderStatusShipped, nil
	case "delivered":
		return OrderStatusDelivered, nil
	case "cancelled":
		return OrderStatusCancelled, nil
	default:
		return "", errors.New("invalid order status")
	}
}

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	switch strings.ToLower(s) {
	case "", "cod":
		return PaymentMethodCOD, nil
	case "gateway":
		return PaymentMethodGateway, nil
	default:
		return "", errors.New("invalid payment method")
	}
}
