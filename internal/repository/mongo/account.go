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

func (r *MongoRepo) CreateAccount(ctx context.Context, a *models.Account) (string, error) {
	if a == nil {
		return "", fmt.Errorf("account is nil")
	}
	doc := *a
	if doc.ID == "" {
		doc.ID = uuid.NewString()
	}
	doc.Email = models.NormalizeEmail(doc.Email)
	doc.Phone = models.NormalizePhone(doc.Phone)
	doc.EmailOTPHash, doc.EmailOTPExpires = "", time.Time{}
	doc.PhoneOTPHash, doc.PhoneOTPExpires = "", time.Time{}
	doc.Created = time.Now().UTC()
	doc.Updated = doc.Created

	if _, err := r.accounts.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", fmt.Errorf("%w: %v", models.ErrConflict, err)
		}
		return "", err
	}

	a.ID = doc.ID
	return doc.ID, nil
}

func (r *MongoRepo) findAccount(ctx context.Context, filter bson.M) (*models.Account, error) {
	var a models.Account
	if err := r.accounts.FindOne(ctx, filter).Decode(&a); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	return &a, nil
}

func (r *MongoRepo) GetAccountByID(ctx context.Context, id string) (*models.Account, error) {
	return r.findAccount(ctx, bson.M{"_id": id})
}

func (r *MongoRepo) GetAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	return r.findAccount(ctx, bson.M{"email": models.NormalizeEmail(email)})
}

func (r *MongoRepo) GetAccountByPhone(ctx context.Context, phone string) (*models.Account, error) {
	phone = models.NormalizePhone(phone)
	if phone == "" {
		return nil, nil
	}
	return r.findAccount(ctx, bson.M{"phone": phone})
}

func challengeFields(ch models.Channel) (hashField, expiresField, verifiedField string) {
	if ch == models.ChannelPhone {
		return "phone_otp_hash", "phone_otp_expires", "phone_verified"
	}
	return "email_otp_hash", "email_otp_expires", "email_verified"
}

func (r *MongoRepo) SetChallenge(ctx context.Context, id string, ch models.Channel, hash string, expires time.Time) error {
	hashField, expiresField, _ := challengeFields(ch)
	now := time.Now().UTC()

	update := bson.M{"$set": bson.M{hashField: hash, expiresField: expires.UTC(), "updated": now}}
	if hash == "" {
		update = bson.M{
			"$set":   bson.M{"updated": now},
			"$unset": bson.M{hashField: "", expiresField: ""},
		}
	}
	_, err := r.accounts.UpdateByID(ctx, id, update)
	return err
}

func (r *MongoRepo) MarkVerified(ctx context.Context, id string, ch models.Channel) error {
	hashField, expiresField, verifiedField := challengeFields(ch)
	_, err := r.accounts.UpdateByID(ctx, id, bson.M{
		"$set":   bson.M{verifiedField: true, "updated": time.Now().UTC()},
		"$unset": bson.M{hashField: "", expiresField: ""},
	})
	return err
}
