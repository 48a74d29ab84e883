package models

import (
	"math"
	"time"

	"github.com/lekhanhduy0411/tiemlen/pkg/collection"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// CartItem references a product and snapshots its price at add-time.
type CartItem struct {
	Product  primitive.ObjectID `bson:"product" json:"product"`
	Quantity int                `bson:"quantity" json:"quantity"`
	Price    float64            `bson:"price" json:"price"`
}

// Cart is the one-per-user pending selection. TotalAmount is denormalized
// and recomputed on every mutation via RecalcTotal.
type Cart struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User        primitive.ObjectID `bson:"user" json:"user"`
	Items       []CartItem         `bson:"items" json:"items"`
	TotalAmount float64            `bson:"totalAmount" json:"totalAmount"`
	CreatedAt   time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// RecalcTotal recomputes the denormalized running total from the line items.
func (c *Cart) RecalcTotal() {
	total := collection.Reduce(c.Items, 0.0, func(sum float64, it CartItem) float64 {
		return sum + it.Price*float64(it.Quantity)
	})
	// Guard against float drift in the denormalized field.
	c.TotalAmount = math.Round(total*100) / 100
}

// FindItem returns a pointer to the line for productID, or nil.
func (c *Cart) FindItem(productID primitive.ObjectID) *CartItem {
	for i := range c.Items {
		if c.Items[i].Product == productID {
			return &c.Items[i]
		}
	}
	return nil
}

// RemoveItem drops the line for productID, reporting whether it existed.
func (c *Cart) RemoveItem(productID primitive.ObjectID) bool {
	before := len(c.Items)
	c.Items = collection.Filter(c.Items, func(it CartItem) bool {
		return it.Product != productID
	})
	return len(c.Items) != before
}
