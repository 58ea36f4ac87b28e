package mongodb

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mamadbah2/coopcontrol/internal/domain/models"
)

const snapshotCollection = "dashboard_snapshots"

// Repository defines the interface for snapshot storage.
type Repository interface {
	SaveDashboardSnapshot(ctx context.Context, snapshot models.DashboardSnapshot) error
}

// MongoDBRepository implements the Repository interface for MongoDB.
type MongoDBRepository struct {
	client   *mongo.Client
	dbName   string
	collName string
}

// NewMongoDBRepository creates a new MongoDB repository.
func NewMongoDBRepository(ctx context.Context, uri string, dbName string) (*MongoDBRepository, error) {
	clientOptions := options.Client().ApplyURI(uri)
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("%w: connect to mongodb: %v", models.ErrStoreUnavailable, err)
	}

	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("%w: ping mongodb: %v", models.ErrStoreUnavailable, err)
	}

	return &MongoDBRepository{
		client:   client,
		dbName:   dbName,
		collName: snapshotCollection,
	}, nil
}

// SaveDashboardSnapshot archives one dashboard pass.
func (r *MongoDBRepository) SaveDashboardSnapshot(ctx context.Context, snapshot models.DashboardSnapshot) error {
	collection := r.client.Database(r.dbName).Collection(r.collName)
	if _, err := collection.InsertOne(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to insert dashboard snapshot: %w", err)
	}
	return nil
}

// Close closes the MongoDB connection.
func (r *MongoDBRepository) Close(ctx context.Context) error {
	return r.client.Disconnect(ctx)
}
