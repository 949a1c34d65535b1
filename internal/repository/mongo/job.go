package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/PhamNghia11/career-web/internal/models"
)

func (r *MongoRepo) CreateJob(ctx context.Context, j *models.Job) (string, error) {
	if j == nil {
		return "", fmt.Errorf("job is nil")
	}
	if j.ID == "" {
		j.ID = uuid.NewString()
	}
	if j.Created.IsZero() {
		j.Created = time.Now().UTC()
	}
	if j.Updated.IsZero() {
		j.Updated = j.Created
	}

	if _, err := r.jobs.InsertOne(ctx, j); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("%w: %v", models.ErrConflict, err)
		}
		return "", err
	}
	return j.ID, nil
}

func (r *MongoRepo) GetJob(ctx context.Context, id string) (*models.Job, error) {
	var j models.Job
	if err := r.jobs.FindOne(ctx, bson.M{"_id": id}).Decode(&j); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &j, nil
}

func (r *MongoRepo) UpdateJobStatus(ctx context.Context, id string, status models.JobStatus, feedback string, updated time.Time) (bool, error) {
	res, err := r.jobs.UpdateByID(ctx, id, bson.M{"$set": bson.M{
		"status":         status,
		"admin_feedback": feedback,
		"updated":        updated.UTC(),
	}})
	if err != nil {
		return false, err
	}
	return res.MatchedCount > 0, nil
}
