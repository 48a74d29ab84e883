// Package mongodb owns the MongoDB connection and collection handles.
//
// Connect is called once at boot; the package-level DB handle is then used
// by the repositories, mirroring how the rest of the codebase exposes its
// infrastructure singletons.
package mongodb

import (
	"context"
	"fmt"
	"time"

	"github.com/lekhanhduy0411/tiemlen/config"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var (
	Client *mongo.Client
	DB     *mongo.Database
)

// Collection names, one constant per schema.
const (
	ColUsers        = "users"
	ColCategories   = "categories"
	ColProducts     = "products"
	ColCarts        = "carts"
	ColOrders       = "orders"
	ColPromotions   = "promotions"
	ColReviews      = "reviews"
	ColChatMessages = "chatmessages"
	ColAppLogs      = "app_logs"
)

// Connect opens the MongoDB connection, verifies it with a ping and
// ensures all collection indexes exist.
func Connect(ctx context.Context) error {
	uri := config.MongoURI()

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	clientOpts := options.Client().ApplyURI(uri).
		SetConnectTimeout(5 * time.Second).
		SetServerSelectionTimeout(5 * time.Second).
		SetMaxPoolSize(25)

	client, err := mongo.Connect(ctx, clientOpts)
	if err != nil {
		return fmt.Errorf("mongodb: connect: %w", err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return fmt.Errorf("mongodb: ping: %w", err)
	}

	Client = client
	DB = client.Database(config.MongoDB())

	if err := ensureIndexes(ctx); err != nil {
		return fmt.Errorf("mongodb: indexes: %w", err)
	}

	return nil
}

// Disconnect closes the connection. Safe to call when never connected.
func Disconnect(ctx context.Context) error {
	if Client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return Client.Disconnect(ctx)
}

// Collection returns a handle for the named collection.
func Collection(name string) *mongo.Collection {
	return DB.Collection(name)
}
