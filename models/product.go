package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RatingBreakdown counts approved reviews per star value. Keys are the star
// values "1" through "5"; the counts always sum to the product's TotalReviews.
type RatingBreakdown map[string]int

// NewRatingBreakdown returns an all-zero histogram covering every star value.
func NewRatingBreakdown() RatingBreakdown {
	return RatingBreakdown{"1": 0, "2": 0, "3": 0, "4": 0, "5": 0}
}

// Total returns the number of reviews counted in the histogram.
func (b RatingBreakdown) Total() int {
	total := 0
	for _, n := range b {
		total += n
	}
	return total
}

type Product struct {
	ID            primitive.ObjectID  `bson:"_id,omitempty" json:"id"`
	Name          string              `bson:"name" json:"name"`
	Description   string              `bson:"description" json:"description"`
	Price         string              `bson:"price" json:"price"` // e.g. "24.900 DT"
	OriginalPrice string              `bson:"originalPrice,omitempty" json:"originalPrice,omitempty"`
	CategoryID    primitive.ObjectID  `bson:"categoryId" json:"categoryId"`
	SubcategoryID *primitive.ObjectID `bson:"subcategoryId,omitempty" json:"subcategoryId,omitempty"`
	Image         string              `bson:"image" json:"image"`
	Gallery       []string            `bson:"gallery" json:"gallery"`
	StockQuantity int                 `bson:"stockQuantity" json:"stockQuantity"`
	InStock       bool                `bson:"inStock" json:"inStock"`
	Badge         string              `bson:"badge,omitempty" json:"badge,omitempty"` // freeform label: "promo", "nouveau", ...

	// Derived from approved reviews, recomputed on every review mutation.
	AverageRating   float64         `bson:"averageRating" json:"averageRating"`
	TotalReviews    int             `bson:"totalReviews" json:"totalReviews"`
	RatingBreakdown RatingBreakdown `bson:"ratingBreakdown" json:"ratingBreakdown"`

	// Denormalized for catalog display and filtering.
	CategoryName    string `bson:"categoryName" json:"categoryName"`
	SubcategoryName string `bson:"subcategoryName,omitempty" json:"subcategoryName,omitempty"`

	CreatedAt time.Time `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time `bson:"updatedAt" json:"updatedAt"`
}
