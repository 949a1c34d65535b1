// Package mongo stores accounts, jobs and notifications in MongoDB, the
// document layout the portal used before the SQLite backend existed.
package mongo

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/PhamNghia11/career-web/pkg/repository"
)

const (
	accountsCollection      = "accounts"
	jobsCollection          = "jobs"
	notificationsCollection = "notifications"
)

// MongoRepo implements the repository interfaces over a single database.
type MongoRepo struct {
	client        *mongo.Client
	accounts      *mongo.Collection
	jobs          *mongo.Collection
	notifications *mongo.Collection
	logger        *slog.Logger
}

var _ repository.Store = (*MongoRepo)(nil)

// Connect dials uri, pings the server and returns a repository bound to
// dbName. The caller owns the returned repo and must Close it.
func Connect(ctx context.Context, uri, dbName string, logger *slog.Logger) (*MongoRepo, error) {
	if logger == nil {
		logger = slog.Default()
	}

	ctx, cancel := context.WithTimeout(ctx, 15*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	logger.Info("mongo connected", slog.String("database", dbName))
	return New(client, client.Database(dbName), logger), nil
}

// New wraps an already connected database.
func New(client *mongo.Client, db *mongo.Database, logger *slog.Logger) *MongoRepo {
	if logger == nil {
		logger = slog.Default()
	}
	return &MongoRepo{
		client:        client,
		accounts:      db.Collection(accountsCollection),
		jobs:          db.Collection(jobsCollection),
		notifications: db.Collection(notificationsCollection),
		logger:        logger,
	}
}

// EnsureIndexes creates the unique and lookup indexes. It is idempotent.
func (r *MongoRepo) EnsureIndexes(ctx context.Context) error {
	_, err := r.accounts.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "phone", Value: 1}}, Options: options.Index().SetUnique(true).SetSparse(true)},
	})
	if err != nil {
		return fmt.Errorf("account indexes: %w", err)
	}

	_, err = r.jobs.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "creator_id", Value: 1}}})
	if err != nil {
		return fmt.Errorf("job indexes: %w", err)
	}

	_, err = r.notifications.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "target_user_id", Value: 1}, {Key: "created", Value: -1}}},
		{Keys: bson.D{{Key: "target_role", Value: 1}, {Key: "created", Value: -1}}},
	})
	if err != nil {
		return fmt.Errorf("notification indexes: %w", err)
	}
	return nil
}

// Close disconnects the underlying client.
func (r *MongoRepo) Close(ctx context.Context) error {
	if r.client == nil {
		return nil
	}
	return r.client.Disconnect(ctx)
}

// DropDatabase removes the bound database.
func (r *MongoRepo) DropDatabase(ctx context.Context) error {
	return r.accounts.Database().Drop(ctx)
}
