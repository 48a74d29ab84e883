package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Review is one rating+comment per (user, product, order) tuple; the
// storage layer enforces the uniqueness with a compound index.
type Review struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"_id"`
	User       primitive.ObjectID `bson:"user" json:"user"`
	Product    primitive.ObjectID `bson:"product" json:"product"`
	Order      primitive.ObjectID `bson:"order" json:"order"`
	Rating     int                `bson:"rating" json:"rating"`
	Comment    string             `bson:"comment" json:"comment"`
	IsApproved bool               `bson:"isApproved" json:"isApproved"`
	CreatedAt  time.Time          `bson:"createdAt" json:"createdAt"`
	UpdatedAt  time.Time          `bson:"updatedAt" json:"updatedAt"`
}

// ReviewView is a Review with the author resolved for display.
type ReviewView struct {
	Review
	User UserRef `json:"user"`
}

// AverageRating computes the 1-decimal rounded average of approved reviews.
// Returns (0, 0) for an empty slice so a product with no remaining reviews
// resets cleanly.
func AverageRating(reviews []Review) (avg float64, count int) {
	if len(reviews) == 0 {
		return 0, 0
	}
	sum := 0
	for _, r := range reviews {
		sum += r.Rating
	}
	avg = float64(sum) / float64(len(reviews))
	// Round to one decimal, as the storefront displays.
	avg = float64(int(avg*10+0.5)) / 10
	return avg, len(reviews)
}
