package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sahbikhalfaoui/parapharmacie-verte1-sub000/database"
	"github.com/sahbikhalfaoui/parapharmacie-verte1-sub000/models"
	"github.com/sahbikhalfaoui/parapharmacie-verte1-sub000/services"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetProductReviews lists the approved reviews shown on a product page.
func GetProductReviews(c echo.Context) error {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.DB.Collection("reviews").Find(ctx, bson.M{
		"productId": productID,
		"status":    models.ReviewStatusApproved,
	})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch reviews"})
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to decode reviews"})
	}

	return c.JSON(http.StatusOK, reviews)
}

// ListPendingReviews feeds the back-office moderation queue.
func ListPendingReviews(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.DB.Collection("reviews").Find(ctx, bson.M{"status": models.ReviewStatusPending})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch reviews"})
	}
	defer cursor.Close(ctx)

	reviews := []models.Review{}
	if err := cursor.All(ctx, &reviews); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to decode reviews"})
	}

	return c.JSON(http.StatusOK, reviews)
}

func CreateReview(c echo.Context) error {
	userID := c.Get("userID").(primitive.ObjectID)

	var req struct {
		ProductID string `json:"productId"`
		Rating    int    `json:"rating"`
		Title     string `json:"title"`
		Comment   string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	productID, err := primitive.ObjectIDFromHex(req.ProductID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Rating must be between 1 and 5"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Reject reviews of products that no longer exist
	if err := database.DB.Collection("products").FindOne(ctx, bson.M{"_id": productID}).Err(); err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Product not found"})
	}

	// One review per (product, user); the unique index backs this up against
	// concurrent submissions.
	existing := database.DB.Collection("reviews").FindOne(ctx, bson.M{"productId": productID, "userId": userID})
	if existing.Err() == nil {
		return c.JSON(http.StatusConflict, map[string]string{"error": "You have already reviewed this product"})
	}

	review := models.Review{
		ID:               primitive.NewObjectID(),
		ProductID:        productID,
		UserID:           userID,
		Rating:           req.Rating,
		Title:            req.Title,
		Comment:          req.Comment,
		Status:           models.ReviewStatusPending,
		VerifiedPurchase: hasDeliveredOrder(ctx, userID, productID),
		CreatedAt:        time.Now(),
		UpdatedAt:        time.Now(),
	}

	if _, err := database.DB.Collection("reviews").InsertOne(ctx, review); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusConflict, map[string]string{"error": "You have already reviewed this product"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create review"})
	}

	if err := services.RecomputeProductRating(c.Request().Context(), productID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Review saved but rating update failed"})
	}

	return c.JSON(http.StatusCreated, review)
}

// UpdateReview lets a customer edit their own review. The edit goes back
// through moderation, so an approved review drops out of the product
// aggregate until re-approved.
func UpdateReview(c echo.Context) error {
	userID := c.Get("userID").(primitive.ObjectID)
	reviewID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid review ID"})
	}

	var req struct {
		Rating  int    `json:"rating"`
		Title   string `json:"title"`
		Comment string `json:"comment"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if req.Rating < 1 || req.Rating > 5 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Rating must be between 1 and 5"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var review models.Review
	err = database.DB.Collection("reviews").FindOne(ctx, bson.M{"_id": reviewID, "userId": userID}).Decode(&review)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Review not found"})
	}

	_, err = database.DB.Collection("reviews").UpdateOne(
		ctx,
		bson.M{"_id": reviewID},
		bson.M{"$set": bson.M{
			"rating":    req.Rating,
			"title":     req.Title,
			"comment":   req.Comment,
			"status":    models.ReviewStatusPending,
			"updatedAt": time.Now(),
		}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update review"})
	}

	if err := services.RecomputeProductRating(c.Request().Context(), review.ProductID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Review updated but rating update failed"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Review updated successfully"})
}

// DeleteReview removes a customer's own review; admins may remove any review
// through the back-office route wired to the same handler with role checks
// done by the router group.
func DeleteReview(c echo.Context) error {
	reviewID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid review ID"})
	}

	filter := bson.M{"_id": reviewID}
	if role, _ := c.Get("userRole").(models.UserRole); role != models.RoleAdmin {
		filter["userId"] = c.Get("userID").(primitive.ObjectID)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var review models.Review
	err = database.DB.Collection("reviews").FindOneAndDelete(ctx, filter).Decode(&review)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Review not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete review"})
	}

	if err := services.RecomputeProductRating(c.Request().Context(), review.ProductID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Review deleted but rating update failed"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Review deleted successfully"})
}

// ModerateReview sets the moderation status from the back-office queue.
func ModerateReview(c echo.Context) error {
	reviewID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid review ID"})
	}

	var req struct {
		Status models.ReviewStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if !models.ValidReviewStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unknown review status"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var review models.Review
	err = database.DB.Collection("reviews").FindOneAndUpdate(
		ctx,
		bson.M{"_id": reviewID},
		bson.M{"$set": bson.M{"status": req.Status, "updatedAt": time.Now()}},
	).Decode(&review)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Review not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update review status"})
	}

	if err := services.RecomputeProductRating(c.Request().Context(), review.ProductID); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Status updated but rating update failed"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Review status updated successfully"})
}

// VoteReview counts a helpful/unhelpful click. Votes never touch the derived
// rating fields, so no recompute runs here.
func VoteReview(c echo.Context) error {
	reviewID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid review ID"})
	}

	var req struct {
		Helpful bool `json:"helpful"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	field := "unhelpfulCount"
	if req.Helpful {
		field = "helpfulCount"
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.DB.Collection("reviews").UpdateOne(
		ctx,
		bson.M{"_id": reviewID, "status": models.ReviewStatusApproved},
		bson.M{"$inc": bson.M{field: 1}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to record vote"})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Review not found"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Vote recorded"})
}

// hasDeliveredOrder marks a review as a verified purchase when the author has
// an order containing the product that made it past confirmation.
func hasDeliveredOrder(ctx context.Context, userID, productID primitive.ObjectID) bool {
	count, err := database.DB.Collection("orders").CountDocuments(ctx, bson.M{
		"userId":          userID,
		"items.productId": productID,
		"status":          bson.M{"$in": []models.OrderStatus{models.OrderStatusShipped, models.OrderStatusDelivered}},
	})
	return err == nil && count > 0
}
