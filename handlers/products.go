package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sahbikhalfaoui/parapharmacie-verte1-sub000/database"
	"github.com/sahbikhalfaoui/parapharmacie-verte1-sub000/models"
	"github.com/sahbikhalfaoui/parapharmacie-verte1-sub000/services"
	"github.com/sahbikhalfaoui/parapharmacie-verte1-sub000/utils"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

func GetProduct(c echo.Context) error {
	productID := c.Param("id")
	objID, err := primitive.ObjectIDFromHex(productID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
	}

	var product models.Product
	err = database.DB.Collection("products").FindOne(c.Request().Context(), bson.M{"_id": objID}).Decode(&product)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return c.JSON(http.StatusNotFound, map[string]string{"error": "Product not found"})
		}
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch product"})
	}

	return c.JSON(http.StatusOK, product)
}

// GetProducts serves the storefront catalog: filter, sort and paginate per
// the query string, always answering with the CatalogPage envelope.
func GetProducts(c echo.Context) error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.DB.Collection("products").Find(ctx, bson.M{})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch products"})
	}
	defer cursor.Close(ctx)

	var products []models.Product
	if err := cursor.All(ctx, &products); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to decode products"})
	}

	query := services.ParseCatalogQuery(c.QueryParams())
	return c.JSON(http.StatusOK, services.RunCatalogQuery(products, query))
}

func CreateProduct(c echo.Context) error {
	var product models.Product
	if err := c.Bind(&product); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	if product.Name == "" {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Product name is required"})
	}
	if _, err := utils.ParsePrice(product.Price); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid price"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	category, subcategory, err := resolveProductRefs(ctx, product.CategoryID, product.SubcategoryID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	product.ID = primitive.NewObjectID()
	product.CategoryName = category.Name
	if subcategory != nil {
		product.SubcategoryName = subcategory.Name
	}
	if product.Gallery == nil {
		product.Gallery = []string{}
	}
	product.InStock = product.StockQuantity > 0
	product.AverageRating = 0
	product.TotalReviews = 0
	product.RatingBreakdown = models.NewRatingBreakdown()
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	if _, err := database.DB.Collection("products").InsertOne(ctx, product); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create product"})
	}

	return c.JSON(http.StatusCreated, product)
}

func UpdateProduct(c echo.Context) error {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
	}

	var product models.Product
	if err := c.Bind(&product); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if _, err := utils.ParsePrice(product.Price); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid price"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	category, subcategory, err := resolveProductRefs(ctx, product.CategoryID, product.SubcategoryID)
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": err.Error()})
	}

	set := bson.M{
		"name":          product.Name,
		"description":   product.Description,
		"price":         product.Price,
		"originalPrice": product.OriginalPrice,
		"categoryId":    product.CategoryID,
		"categoryName":  category.Name,
		"image":         product.Image,
		"gallery":       product.Gallery,
		"stockQuantity": product.StockQuantity,
		"inStock":       product.StockQuantity > 0,
		"badge":         product.Badge,
		"updatedAt":     time.Now(),
	}
	if subcategory != nil {
		set["subcategoryId"] = product.SubcategoryID
		set["subcategoryName"] = subcategory.Name
	} else {
		set["subcategoryId"] = nil
		set["subcategoryName"] = ""
	}

	// Derived rating fields are deliberately not part of the update; only the
	// review recompute path writes them.
	result, err := database.DB.Collection("products").UpdateOne(
		ctx,
		bson.M{"_id": productID},
		bson.M{"$set": set},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update product"})
	}
	if result.MatchedCount == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Product not found"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Product updated successfully"})
}

func DeleteProduct(c echo.Context) error {
	productID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	result, err := database.DB.Collection("products").DeleteOne(ctx, bson.M{"_id": productID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to delete product"})
	}
	if result.DeletedCount == 0 {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Product not found"})
	}

	// Reviews of a deleted product are unreachable from the storefront; they
	// are removed so the moderation queue does not fill with orphans.
	_, err = database.DB.Collection("reviews").DeleteMany(ctx, bson.M{"productId": productID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Product deleted but review cleanup failed"})
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Product deleted successfully"})
}

// resolveProductRefs rejects writes that would leave a product pointing at a
// missing category or subcategory, or at a subcategory of another category.
func resolveProductRefs(ctx context.Context, categoryID primitive.ObjectID, subcategoryID *primitive.ObjectID) (*models.Category, *models.Subcategory, error) {
	var category models.Category
	err := database.DB.Collection("categories").FindOne(ctx, bson.M{"_id": categoryID}).Decode(&category)
	if err != nil {
		return nil, nil, errors.New("Category not found")
	}

	if subcategoryID == nil {
		return &category, nil, nil
	}

	var subcategory models.Subcategory
	err = database.DB.Collection("subcategories").FindOne(ctx, bson.M{"_id": *subcategoryID}).Decode(&subcategory)
	if err != nil {
		return nil, nil, errors.New("Subcategory not found")
	}
	if subcategory.CategoryID != categoryID {
		return nil, nil, errors.New("Subcategory does not belong to the category")
	}
	return &category, &subcategory, nil
}
