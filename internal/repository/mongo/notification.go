package mongo

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/PhamNghia11/career-web/internal/models"
)

func (r *MongoRepo) CreateNotification(ctx context.Context, n *models.Notification) error {
	if n == nil {
		return fmt.Errorf("notification is nil")
	}
	if (n.TargetUserID == "") == (n.TargetRole == "") {
		return fmt.Errorf("%w: exactly one notification target required", models.ErrInvalidInput)
	}
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	if n.Created.IsZero() {
		n.Created = time.Now().UTC()
	}
	_, err := r.notifications.InsertOne(ctx, n)
	return err
}

// audienceFilter matches nothing for an empty audience.
func audienceFilter(aud models.Audience) bson.M {
	var or bson.A
	if aud.UserID != "" {
		or = append(or, bson.M{"target_user_id": aud.UserID})
	}
	if len(aud.Roles) > 0 {
		roles := make(bson.A, len(aud.Roles))
		for i, role := range aud.Roles {
			roles[i] = role
		}
		or = append(or, bson.M{"target_role": bson.M{"$in": roles}})
	}
	if len(or) == 0 {
		return bson.M{"_id": bson.M{"$in": bson.A{}}}
	}
	return bson.M{"$or": or}
}

func (r *MongoRepo) ListNotifications(ctx context.Context, aud models.Audience, limit int) ([]models.Notification, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created", Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}

	cursor, err := r.notifications.Find(ctx, audienceFilter(aud), opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	out := []models.Notification{}
	if err := cursor.All(ctx, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *MongoRepo) CountUnread(ctx context.Context, aud models.Audience) (int64, error) {
	filter := audienceFilter(aud)
	filter["read"] = false
	return r.notifications.CountDocuments(ctx, filter)
}

func (r *MongoRepo) MarkRead(ctx context.Context, id string) error {
	_, err := r.notifications.UpdateByID(ctx, id, bson.M{"$set": bson.M{"read": true}})
	return err
}

func (r *MongoRepo) MarkAllReadForUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.notifications.UpdateMany(ctx,
		bson.M{"target_user_id": userID, "read": false},
		bson.M{"$set": bson.M{"read": true}})
	if err != nil {
		return 0, err
	}
	return res.ModifiedCount, nil
}

func (r *MongoRepo) DeleteNotification(ctx context.Context, id string) error {
	_, err := r.notifications.DeleteOne(ctx, bson.M{"_id": id})
	return err
}
