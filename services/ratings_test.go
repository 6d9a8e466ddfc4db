package services

import (
	"testing"

	"github.com/sahbikhalfaoui/parapharmacie-verte1-sub000/models"
	"github.com/stretchr/testify/assert"
)

func approved(ratings ...int) []models.Review {
	reviews := make([]models.Review, len(ratings))
	for i, r := range ratings {
		reviews[i] = models.Review{Rating: r, Status: models.ReviewStatusApproved}
	}
	return reviews
}

func TestSummarizeRatingsEmptySet(t *testing.T) {
	summary := SummarizeRatings(nil)

	assert.Zero(t, summary.Average)
	assert.Zero(t, summary.Total)
	for star, count := range summary.Breakdown {
		assert.Zero(t, count, "star %s", star)
	}
	assert.Len(t, summary.Breakdown, 5)
}

func TestSummarizeRatingsExample(t *testing.T) {
	summary := SummarizeRatings(approved(5, 5, 4))

	assert.Equal(t, 4.7, summary.Average)
	assert.Equal(t, 3, summary.Total)
	assert.Equal(t, models.RatingBreakdown{"1": 0, "2": 0, "3": 0, "4": 1, "5": 2}, summary.Breakdown)
}

func TestSummarizeRatingsRounding(t *testing.T) {
	// 4.333... rounds down
	assert.Equal(t, 4.3, SummarizeRatings(approved(4, 4, 5)).Average)
	// exact .5 at the second decimal rounds half-up and stays 4.5
	assert.Equal(t, 4.5, SummarizeRatings(approved(4, 5)).Average)
	// 4.666... rounds up
	assert.Equal(t, 4.7, SummarizeRatings(approved(4, 5, 5)).Average)
	// 3.25 rounds half-up to 3.3
	assert.Equal(t, 3.3, SummarizeRatings(approved(3, 3, 3, 4)).Average)
}

func TestSummarizeRatingsSkipsUnapproved(t *testing.T) {
	reviews := []models.Review{
		{Rating: 5, Status: models.ReviewStatusApproved},
		{Rating: 1, Status: models.ReviewStatusPending},
		{Rating: 1, Status: models.ReviewStatusRejected},
	}

	summary := SummarizeRatings(reviews)
	assert.Equal(t, 5.0, summary.Average)
	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 1, summary.Breakdown.Total())
}

func TestSummarizeRatingsHistogramMatchesTotal(t *testing.T) {
	sets := [][]int{
		{1}, {5, 5, 4}, {1, 2, 3, 4, 5}, {3, 3, 3, 3}, {2, 5, 2, 5, 1},
	}
	for _, ratings := range sets {
		summary := SummarizeRatings(approved(ratings...))
		assert.Equal(t, len(ratings), summary.Total)
		assert.Equal(t, summary.Total, summary.Breakdown.Total())
	}
}

// Removing one review shifts the aggregate by exactly that review's
// contribution.
func TestSummarizeRatingsRemovalDropsContribution(t *testing.T) {
	before := SummarizeRatings(approved(5, 5, 4))
	after := SummarizeRatings(approved(5, 4))

	assert.Equal(t, before.Total-1, after.Total)
	assert.Equal(t, before.Breakdown["5"]-1, after.Breakdown["5"])
	assert.Equal(t, before.Breakdown["4"], after.Breakdown["4"])
	assert.Equal(t, 4.5, after.Average)
}

func TestSummarizeRatingsIgnoresOutOfRangeRating(t *testing.T) {
	reviews := []models.Review{
		{Rating: 7, Status: models.ReviewStatusApproved},
		{Rating: 0, Status: models.ReviewStatusApproved},
		{Rating: 4, Status: models.ReviewStatusApproved},
	}

	summary := SummarizeRatings(reviews)
	assert.Equal(t, 1, summary.Total)
	assert.Equal(t, 4.0, summary.Average)
}
