package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Order statuses. The lifecycle is an explicit state machine:
//
//	pending → confirmed → processing → shipping → delivered
//
// with cancelled reachable from every non-terminal state. delivered and
// cancelled are terminal, so stock can only ever be restored once.
const (
	StatusPending    = "pending"
	StatusConfirmed  = "confirmed"
	StatusProcessing = "processing"
	StatusShipping   = "shipping"
	StatusDelivered  = "delivered"
	StatusCancelled  = "cancelled"
)

// Payment methods.
const (
	PaymentCOD     = "cod"
	PaymentBanking = "banking"
)

var nextStatus = map[string]string{
	StatusPending:    StatusConfirmed,
	StatusConfirmed:  StatusProcessing,
	StatusProcessing: StatusShipping,
	StatusShipping:   StatusDelivered,
}

// ValidStatus reports whether s is a known order status.
func ValidStatus(s string) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusProcessing, StatusShipping,
		StatusDelivered, StatusCancelled:
		return true
	}
	return false
}

// CanTransition reports whether an order may move from → to.
func CanTransition(from, to string) bool {
	if from == StatusDelivered || from == StatusCancelled {
		return false // terminal
	}
	if to == StatusCancelled {
		return true
	}
	return nextStatus[from] == to
}

// OrderItem is an immutable snapshot of a cart line at purchase time.
type OrderItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Name     string             `bson:"name" json:"name"`
	Image    string             `bson:"image" json:"image"`
	Price    float64            `bson:"price" json:"price"`
	Quantity int                `bson:"quantity" json:"quantity"`
}

// Order is an immutable purchase record with a mutable fulfillment status.
type Order struct {
	ID              primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User            primitive.ObjectID `bson:"user" json:"user"`
	Items           []OrderItem        `bson:"items" json:"items"`
	TotalAmount     float64            `bson:"totalAmount" json:"totalAmount"`
	PromotionCode   string             `bson:"promotionCode,omitempty" json:"promotionCode,omitempty"`
	DiscountAmount  float64            `bson:"discountAmount" json:"discountAmount"`
	ShippingAddress string             `bson:"shippingAddress" json:"shippingAddress"`
	Phone           string             `bson:"phone" json:"phone"`
	Notes           string             `bson:"notes" json:"notes"`
	Status          string             `bson:"status" json:"status"`
	PaymentMethod   string             `bson:"paymentMethod" json:"paymentMethod"`
	IsPaid          bool               `bson:"isPaid" json:"isPaid"`
	PaidAt          *time.Time         `bson:"paidAt,omitempty" json:"paidAt,omitempty"`
	DeliveredAt     *time.Time         `bson:"deliveredAt,omitempty" json:"deliveredAt,omitempty"`
	CreatedAt       time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt       time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// OrderView is an Order with the buyer reference resolved, the shape the
// back-office order tables render.
type OrderView struct {
	Order
	User UserRef `json:"user"`
}
