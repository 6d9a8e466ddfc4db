package services

import (
	"context"
	"math"
	"strconv"
	"time"

	"github.com/sahbikhalfaoui/parapharmacie-verte1-sub000/database"
	"github.com/sahbikhalfaoui/parapharmacie-verte1-sub000/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// RatingSummary is the derived state written back onto a product.
type RatingSummary struct {
	Average   float64
	Total     int
	Breakdown models.RatingBreakdown
}

// SummarizeRatings computes the derived rating fields from a review set.
// Only approved reviews count. The average is the mean rounded half-up to
// one decimal; an empty set yields zero everywhere.
func SummarizeRatings(reviews []models.Review) RatingSummary {
	summary := RatingSummary{Breakdown: models.NewRatingBreakdown()}

	sum := 0
	for _, r := range reviews {
		if r.Status != models.ReviewStatusApproved {
			continue
		}
		if r.Rating < 1 || r.Rating > 5 {
			continue
		}
		summary.Breakdown[strconv.Itoa(r.Rating)]++
		summary.Total++
		sum += r.Rating
	}

	if summary.Total > 0 {
		mean := float64(sum) / float64(summary.Total)
		summary.Average = math.Floor(mean*10+0.5) / 10
	}
	return summary
}

// RecomputeProductRating rebuilds averageRating, totalReviews and
// ratingBreakdown for a product from the full set of its approved reviews.
// It always recomputes from scratch rather than patching counters, so a
// concurrent writer can at worst overwrite with another internally
// consistent snapshot. A missing product is a no-op: the review mutation
// that triggered the recompute has nothing left to keep consistent.
func RecomputeProductRating(ctx context.Context, productID primitive.ObjectID) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := database.DB.Collection("reviews").Find(ctx, bson.M{
		"productId": productID,
		"status":    models.ReviewStatusApproved,
	})
	if err != nil {
		return err
	}
	defer cursor.Close(ctx)

	var reviews []models.Review
	if err := cursor.All(ctx, &reviews); err != nil {
		return err
	}

	summary := SummarizeRatings(reviews)

	_, err = database.DB.Collection("products").UpdateOne(
		ctx,
		bson.M{"_id": productID},
		bson.M{"$set": bson.M{
			"averageRating":   summary.Average,
			"totalReviews":    summary.Total,
			"ratingBreakdown": summary.Breakdown,
			"updatedAt":       time.Now(),
		}},
	)
	// MatchedCount of zero (product deleted underneath us) is fine; UpdateOne
	// only errors on driver/server failures.
	return err
}
