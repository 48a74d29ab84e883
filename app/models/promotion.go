package models

import (
	"math"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Promotion types.
const (
	PromoPercentage = "percentage"
	PromoFixed      = "fixed"
)

// Promotion is a discount code with eligibility rules. UsageLimit and
// MaxDiscount use zero as "unlimited" / "uncapped".
type Promotion struct {
	ID             primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Code           string             `bson:"code" json:"code"`
	Name           string             `bson:"name" json:"name"`
	Description    string             `bson:"description" json:"description"`
	Type           string             `bson:"type" json:"type"`
	Value          float64            `bson:"value" json:"value"`
	MinOrderAmount float64            `bson:"minOrderAmount" json:"minOrderAmount"`
	MaxDiscount    float64            `bson:"maxDiscount" json:"maxDiscount"`
	StartDate      time.Time          `bson:"startDate" json:"startDate"`
	EndDate        time.Time          `bson:"endDate" json:"endDate"`
	UsageLimit     int                `bson:"usageLimit" json:"usageLimit"`
	UsedCount      int                `bson:"usedCount" json:"usedCount"`
	IsActive       bool               `bson:"isActive" json:"isActive"`
	CreatedAt      time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt      time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ValidAt reports whether the promotion is active and inside its window.
func (p Promotion) ValidAt(now time.Time) bool {
	return p.IsActive && !now.Before(p.StartDate) && !now.After(p.EndDate)
}

// Exhausted reports whether the usage limit has been reached.
func (p Promotion) Exhausted() bool {
	return p.UsageLimit > 0 && p.UsedCount >= p.UsageLimit
}

// Discount computes the discount for orderAmount: percentage promotions
// yield orderAmount*value/100 capped by MaxDiscount when set, fixed
// promotions yield exactly Value. Eligibility is checked by the caller.
func (p Promotion) Discount(orderAmount float64) float64 {
	if p.Type == PromoPercentage {
		d := orderAmount * p.Value / 100
		if p.MaxDiscount > 0 {
			d = math.Min(d, p.MaxDiscount)
		}
		return d
	}
	return p.Value
}
