package mongostore

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/mmynk/shopboard/internal/apperr"
	"github.com/mmynk/shopboard/internal/models"
	"github.com/mmynk/shopboard/internal/storage"
)

// CreateProduct inserts a product document.
func (s *MongoStore) CreateProduct(ctx context.Context, product *models.Product) error {
	if err := product.Validate(); err != nil {
		return err
	}
	if product.ID == "" {
		product.ID = uuid.New().String()
	}
	if product.CreatedAt.IsZero() {
		product.CreatedAt = now()
	}

	if _, err := s.products.InsertOne(ctx, product); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("product %q: %w", product.ID, apperr.ErrConflict)
		}
		return fmt.Errorf("failed to insert product: %w", err)
	}
	return nil
}

// GetProduct retrieves a product by ID.
func (s *MongoStore) GetProduct(ctx context.Context, productID string) (*models.Product, error) {
	product := &models.Product{}
	err := s.products.FindOne(ctx, bson.M{"_id": productID}).Decode(product)
	if isNoDocuments(err) {
		return nil, apperr.NotFound("product", productID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// ListProducts retrieves products in creation order.
func (s *MongoStore) ListProducts(ctx context.Context, page storage.Page) ([]*models.Product, error) {
	cursor, err := s.products.Find(ctx, bson.M{}, findOptions(page))
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := []*models.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}
	if products == nil {
		products = []*models.Product{}
	}
	return products, nil
}

// DeleteProduct removes a product by ID.
func (s *MongoStore) DeleteProduct(ctx context.Context, productID string) error {
	res, err := s.products.DeleteOne(ctx, bson.M{"_id": productID})
	if err != nil {
		return fmt.Errorf("failed to delete product: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("product", productID)
	}
	return nil
}

// CreateUser inserts a user document. The unique email index turns a
// duplicate into apperr.ErrConflict.
func (s *MongoStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.ID == "" {
		user.ID = uuid.New().String()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now()
	}
	user.Email = models.NormalizeEmail(user.Email)

	if _, err := s.users.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("user %q: %w", user.Email, apperr.ErrConflict)
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// GetUserByEmail retrieves a user by their email address.
func (s *MongoStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"email": models.NormalizeEmail(email)}, email)
}

// GetUserByID retrieves a user by their ID.
func (s *MongoStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	return s.findUser(ctx, bson.M{"_id": id}, id)
}

func (s *MongoStore) findUser(ctx context.Context, filter bson.M, key string) (*models.User, error) {
	user := &models.User{}
	err := s.users.FindOne(ctx, filter).Decode(user)
	if isNoDocuments(err) {
		return nil, apperr.NotFound("user", key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// CreateOrder inserts an order document with its line items embedded.
func (s *MongoStore) CreateOrder(ctx context.Context, order *models.Order) error {
	if order.ID == "" {
		order.ID = uuid.New().String()
	}
	if order.CreatedAt.IsZero() {
		order.CreatedAt = now()
	}
	if order.Items == nil {
		order.Items = []models.LineItem{}
	}

	if _, err := s.orders.InsertOne(ctx, order); err != nil {
		return fmt.Errorf("failed to insert order: %w", err)
	}
	return nil
}

// GetOrder retrieves an order by ID.
func (s *MongoStore) GetOrder(ctx context.Context, orderID string) (*models.Order, error) {
	order := &models.Order{}
	err := s.orders.FindOne(ctx, bson.M{"_id": orderID}).Decode(order)
	if isNoDocuments(err) {
		return nil, apperr.NotFound("order", orderID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	return order, nil
}
