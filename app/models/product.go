package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Product is a catalog entry. Stock and Sold are mutated only by order
// placement and cancellation; Rating/NumReviews only by review writes.
type Product struct {
	ID            primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	Name          string             `bson:"name" json:"name"`
	Slug          string             `bson:"slug" json:"slug"`
	Description   string             `bson:"description" json:"description"`
	Price         float64            `bson:"price" json:"price"`
	OriginalPrice float64            `bson:"originalPrice" json:"originalPrice"`
	Category      primitive.ObjectID `bson:"category" json:"category"`
	Images        []string           `bson:"images" json:"images"`
	Stock         int                `bson:"stock" json:"stock"`
	Sold          int                `bson:"sold" json:"sold"`
	Rating        float64            `bson:"rating" json:"rating"`
	NumReviews    int                `bson:"numReviews" json:"numReviews"`
	IsActive      bool               `bson:"isActive" json:"isActive"`
	Featured      bool               `bson:"featured" json:"featured"`
	Tags          []string           `bson:"tags" json:"tags"`
	CreatedAt     time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// FirstImage returns the lead image or "" when none is set.
func (p Product) FirstImage() string {
	if len(p.Images) == 0 {
		return ""
	}
	return p.Images[0]
}

// ProductView is a Product with its category reference resolved, the shape
// the storefront renders in listings and detail pages. The outer Category
// field shadows the raw ObjectID during JSON marshalling.
type ProductView struct {
	Product
	Category CategoryRef `json:"category"`
}

// WithCategory resolves p's category reference into a view.
func (p Product) WithCategory(c CategoryRef) ProductView {
	return ProductView{Product: p, Category: c}
}
