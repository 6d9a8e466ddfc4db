package handlers

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/sahbikhalfaoui/parapharmacie-verte1-sub000/config"
	"github.com/sahbikhalfaoui/parapharmacie-verte1-sub000/database"
	"github.com/sahbikhalfaoui/parapharmacie-verte1-sub000/models"
	"github.com/sahbikhalfaoui/parapharmacie-verte1-sub000/utils"
	"github.com/shopspring/decimal"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

type CreateOrderRequest struct {
	Customer models.CustomerInfo `json:"customer"`
	Items    []struct {
		ProductID string `json:"productId"`
		Quantity  int    `json:"quantity"`
	} `json:"items"`
}

// CreateOrder places an order. Checkout works for guests (the customer
// snapshot comes from the request body) and for signed-in users, whose id is
// attached when the authenticated route is used.
func CreateOrder(c echo.Context) error {
	var req CreateOrderRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}

	if len(req.Items) == 0 {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Order has no items"})
	}
	if req.Customer.Name == "" || !isValidEmail(req.Customer.Email) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Customer name and a valid email are required"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	// Snapshot prices and validate stock item by item
	subtotal := decimal.Zero
	var orderItems []models.OrderItem
	productsCollection := database.DB.Collection("products")

	for _, item := range req.Items {
		productID, err := primitive.ObjectIDFromHex(item.ProductID)
		if err != nil {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid product ID"})
		}
		if item.Quantity < 1 {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Quantity must be at least 1"})
		}

		var product models.Product
		if err := productsCollection.FindOne(ctx, bson.M{"_id": productID}).Decode(&product); err != nil {
			if err == mongo.ErrNoDocuments {
				return c.JSON(http.StatusBadRequest, map[string]string{"error": "Product not found"})
			}
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch product"})
		}

		if product.StockQuantity < item.Quantity {
			return c.JSON(http.StatusBadRequest, map[string]string{
				"error": fmt.Sprintf("Insufficient stock for %s", product.Name),
			})
		}

		price, err := utils.ParsePrice(product.Price)
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Invalid product price format"})
		}
		subtotal = subtotal.Add(price.Mul(decimal.NewFromInt(int64(item.Quantity))))

		orderItems = append(orderItems, models.OrderItem{
			ProductID: productID,
			Name:      product.Name,
			Quantity:  item.Quantity,
			Price:     product.Price,
		})
	}

	deliveryFee, err := utils.ParsePrice(config.GetEnv("DELIVERY_FEE", "7.000 DT"))
	if err != nil {
		deliveryFee = decimal.Zero
	}

	now := time.Now()
	order := models.Order{
		ID:          primitive.NewObjectID(),
		OrderNumber: utils.NewOrderNumber(now),
		Customer:    req.Customer,
		Items:       orderItems,
		Subtotal:    utils.FormatPrice(subtotal),
		DeliveryFee: utils.FormatPrice(deliveryFee),
		Total:       utils.FormatPrice(subtotal.Add(deliveryFee)),
		Status:      models.OrderStatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if userID, ok := c.Get("userID").(primitive.ObjectID); ok {
		order.UserID = &userID
	}

	if _, err := database.DB.Collection("orders").InsertOne(ctx, order); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to create order"})
	}

	// Reserve stock
	for _, item := range order.Items {
		_, err := productsCollection.UpdateOne(
			ctx,
			bson.M{"_id": item.ProductID},
			bson.M{"$inc": bson.M{"stockQuantity": -item.Quantity}},
		)
		if err == nil {
			_, err = productsCollection.UpdateOne(
				ctx,
				bson.M{"_id": item.ProductID, "stockQuantity": bson.M{"$lte": 0}},
				bson.M{"$set": bson.M{"inStock": false}},
			)
		}
		if err != nil {
			return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Order created but stock update failed"})
		}
	}

	// Clear the signed-in user's server-side cart
	if order.UserID != nil {
		_, err := database.DB.Collection("carts").UpdateOne(
			ctx,
			bson.M{"userId": *order.UserID},
			bson.M{"$set": bson.M{"items": []models.CartItem{}, "updatedAt": time.Now()}},
		)
		if err != nil {
			c.Logger().Warnf("failed to clear cart after order %s: %v", order.OrderNumber, err)
		}
	}

	return c.JSON(http.StatusCreated, order)
}

// GetOrderByNumber lets customers track an order with the reference from
// their confirmation email.
func GetOrderByNumber(c echo.Context) error {
	var order models.Order
	err := database.DB.Collection("orders").FindOne(
		c.Request().Context(),
		bson.M{"orderNumber": c.Param("number")},
	).Decode(&order)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Order not found"})
	}

	return c.JSON(http.StatusOK, order)
}

// GetMyOrders lists the signed-in user's orders, newest first.
func GetMyOrders(c echo.Context) error {
	userID := c.Get("userID").(primitive.ObjectID)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.DB.Collection("orders").Find(ctx, bson.M{"userId": userID})
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch orders"})
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to decode orders"})
	}

	return c.JSON(http.StatusOK, orders)
}

// ListOrders feeds the back-office order table, optionally filtered by
// lifecycle status.
func ListOrders(c echo.Context) error {
	filter := bson.M{}
	if status := c.QueryParam("status"); status != "" {
		if !models.ValidOrderStatus(models.OrderStatus(status)) {
			return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unknown order status"})
		}
		filter["status"] = models.OrderStatus(status)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	cursor, err := database.DB.Collection("orders").Find(ctx, filter)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to fetch orders"})
	}
	defer cursor.Close(ctx)

	orders := []models.Order{}
	if err := cursor.All(ctx, &orders); err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to decode orders"})
	}

	return c.JSON(http.StatusOK, orders)
}

// UpdateOrderStatus advances an order through its lifecycle. Invalid
// transitions are rejected with both states named. Cancelling returns the
// reserved stock.
func UpdateOrderStatus(c echo.Context) error {
	orderID, err := primitive.ObjectIDFromHex(c.Param("id"))
	if err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid order ID"})
	}

	var req struct {
		Status models.OrderStatus `json:"status"`
	}
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Invalid request format"})
	}
	if !models.ValidOrderStatus(req.Status) {
		return c.JSON(http.StatusBadRequest, map[string]string{"error": "Unknown order status"})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var order models.Order
	err = database.DB.Collection("orders").FindOne(ctx, bson.M{"_id": orderID}).Decode(&order)
	if err != nil {
		return c.JSON(http.StatusNotFound, map[string]string{"error": "Order not found"})
	}

	if !order.Status.CanTransitionTo(req.Status) {
		return c.JSON(http.StatusBadRequest, map[string]string{
			"error": fmt.Sprintf("Cannot move order from %s to %s", order.Status, req.Status),
		})
	}

	_, err = database.DB.Collection("orders").UpdateOne(
		ctx,
		bson.M{"_id": orderID},
		bson.M{"$set": bson.M{"status": req.Status, "updatedAt": time.Now()}},
	)
	if err != nil {
		return c.JSON(http.StatusInternalServerError, map[string]string{"error": "Failed to update order"})
	}

	if req.Status == models.OrderStatusCancelled {
		for _, item := range order.Items {
			_, err := database.DB.Collection("products").UpdateOne(
				ctx,
				bson.M{"_id": item.ProductID},
				bson.M{"$inc": bson.M{"stockQuantity": item.Quantity}, "$set": bson.M{"inStock": true}},
			)
			if err != nil {
				c.Logger().Warnf("failed to restock product %s after cancelling %s: %v", item.ProductID.Hex(), order.OrderNumber, err)
			}
		}
	}

	return c.JSON(http.StatusOK, map[string]string{"message": "Order status updated successfully"})
}
