package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sahbikhalfaoui/parapharmacie-verte1-sub000/database"
	"github.com/sahbikhalfaoui/parapharmacie-verte1-sub000/models"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// GetCategories lists categories. The storefront gets active ones only;
// the back-office passes ?includeInactive=true to see everything.
func GetCategories(c echo.Context) error {
	filter := bson.M{"active": true}
	if c.QueryParam("includeInactive") == "true" {
		filter = bson.M{}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.DB.Collection("categories").Find(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch categories"})
	}
	defer cursor.Close(ctx)

	categories := []models.Category{}
	if err := cursor.All(ctx, &categories); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to decode categories"})
	}

	return c.JSON(http.StatusOK, categories)
}

func CreateCategory(c echo.Context) error {
	var category models.Category
	if err := c.Bind(&category); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if category.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Category name is required"})
	}

	category.ID = primitive.NewObjectID()
	category.Active = true
	category.CreatedAt = time.Now()
	category.UpdatedAt = time.Now()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := database.DB.Collection("categories").InsertOne(ctx, category)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusConflict, map[string]string{"error": "Category name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create category"})
	}

	return c.JSON(http.StatusCreated, category)
}

func UpdateCategory(c echo.Context) error {
	categoryID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid category ID"})
	}

	var category models.Category
	if err := c.Bind(&category); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if category.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Category name is required"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.DB.Collection("categories").UpdateOne(
		ctx,
		bson.M{"_id": categoryID},
		bson.M{"$set": bson.M{
			"name":        category.Name,
			"description": category.Description,
			"image":       category.Image,
			"active":      category.Active,
			"updatedAt":   time.Now(),
		}},
	)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return c.JSON(http.StatusConflict, map[string]string{"error": "Category name already exists"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update category"})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Category not found"})
	}

	// Keep the denormalized name on products in step with the rename.
	_, err = database.DB.Collection("products").UpdateMany(
		ctx,
		bson.M{"categoryId": categoryID},
		bson.M{"$set": bson.M{"categoryName": category.Name}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Category updated but product sync failed"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Category updated successfully"})
}

// DeleteCategory hard-deletes an unused category. A category still referenced
// by products is deactivated instead so no product is left dangling.
func DeleteCategory(c echo.Context) error {
	categoryID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid category ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := database.DB.Collection("products").CountDocuments(ctx, bson.M{"categoryId": categoryID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to check category usage"})
	}

	if count > 0 {
		result, err := database.DB.Collection("categories").UpdateOne(
			ctx,
			bson.M{"_id": categoryID},
			bson.M{"$set": bson.M{"active": false, "updatedAt": time.Now()}},
		)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to deactivate category"})
		}
		if result.MatchedCount == 0 {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Category not found"})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "Category still has products; deactivated instead"})
	}

	result, err := database.DB.Collection("categories").DeleteOne(ctx, bson.M{"_id": categoryID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete category"})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Category not found"})
	}

	_, err = database.DB.Collection("subcategories").DeleteMany(ctx, bson.M{"categoryId": categoryID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Category deleted but subcategory cleanup failed"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Category deleted successfully"})
}

// GetSubcategories lists subcategories, optionally scoped to one category
// with ?categoryId=.
func GetSubcategories(c echo.Context) error {
	filter := bson.M{"active": true}
	if c.QueryParam("includeInactive") == "true" {
		filter = bson.M{}
	}
	if hex := c.QueryParam("categoryId"); hex != "" {
		categoryID, err := primitive.ObjectIDFromHex(hex)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid category ID"})
		}
		filter["categoryId"] = categoryID
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.DB.Collection("subcategories").Find(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch subcategories"})
	}
	defer cursor.Close(ctx)

	subcategories := []models.Subcategory{}
	if err := cursor.All(ctx, &subcategories); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to decode subcategories"})
	}

	return c.JSON(http.StatusOK, subcategories)
}

func CreateSubcategory(c echo.Context) error {
	var subcategory models.Subcategory
	if err := c.Bind(&subcategory); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if subcategory.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Subcategory name is required"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Parent must exist
	err := database.DB.Collection("categories").FindOne(ctx, bson.M{"_id": subcategory.CategoryID}).Err()
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Category not found"})
	}

	subcategory.ID = primitive.NewObjectID()
	subcategory.Active = true
	subcategory.CreatedAt = time.Now()
	subcategory.UpdatedAt = time.Now()

	if _, err := database.DB.Collection("subcategories").InsertOne(ctx, subcategory); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create subcategory"})
	}

	return c.JSON(http.StatusCreated, subcategory)
}

func UpdateSubcategory(c echo.Context) error {
	subcategoryID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid subcategory ID"})
	}

	var subcategory models.Subcategory
	if err := c.Bind(&subcategory); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if subcategory.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Subcategory name is required"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := database.DB.Collection("categories").FindOne(ctx, bson.M{"_id": subcategory.CategoryID}).Err(); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Category not found"})
	}

	result, err := database.DB.Collection("subcategories").UpdateOne(
		ctx,
		bson.M{"_id": subcategoryID},
		bson.M{"$set": bson.M{
			"categoryId":  subcategory.CategoryID,
			"name":        subcategory.Name,
			"description": subcategory.Description,
			"image":       subcategory.Image,
			"active":      subcategory.Active,
			"updatedAt":   time.Now(),
		}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update subcategory"})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Subcategory not found"})
	}

	_, err = database.DB.Collection("products").UpdateMany(
		ctx,
		bson.M{"subcategoryId": subcategoryID},
		bson.M{"$set": bson.M{"subcategoryName": subcategory.Name}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Subcategory updated but product sync failed"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Subcategory updated successfully"})
}

func DeleteSubcategory(c echo.Context) error {
	subcategoryID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid subcategory ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	count, err := database.DB.Collection("products").CountDocuments(ctx, bson.M{"subcategoryId": subcategoryID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to check subcategory usage"})
	}
	if count > 0 {
		result, err := database.DB.Collection("subcategories").UpdateOne(
			ctx,
			bson.M{"_id": subcategoryID},
			bson.M{"$set": bson.M{"active": false, "updatedAt": time.Now()}},
		)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to deactivate subcategory"})
		}
		if result.MatchedCount == 0 {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Subcategory not found"})
		}
		return c.JSON(http.StatusOK, map[string]string{"message": "Subcategory still has products; deactivated instead"})
	}

	result, err := database.DB.Collection("subcategories").DeleteOne(ctx, bson.M{"_id": subcategoryID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete subcategory"})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Subcategory not found"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Subcategory deleted successfully"})
}
