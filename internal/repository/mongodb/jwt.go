package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/jwt"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type refreshTokenDocument struct {
	ID        string     `bson:"_id"`
	UserID    string     `bson:"user_id"`
	TokenHash string     `bson:"token_hash"`
	ExpiresAt time.Time  `bson:"expires_at"`
	RevokedAt *time.Time `bson:"revoked_at"`
	UserAgent string     `bson:"user_agent"`
	IPAddress string     `bson:"ip_address"`
	CreatedAt time.Time  `bson:"created_at"`
}

type jwtRepository struct {
	collection *mongo.Collection
}

func NewJWTRepository(db *database.MongoDB) auth.RefreshTokenRepository {
	return &jwtRepository{collection: db.Database.Collection(RefreshTokenCollection)}
}

func (r *jwtRepository) CreateRefreshToken(ctx context.Context, userID string, token string, expiresAt int64, sessionReq auth.SessionTrackingRequest) error {
	id, err := uuid.NewV7()
	if err != nil {
		return fmt.Errorf("generate refresh token id: %w", err)
	}
	_, err = r.collection.InsertOne(ctx, refreshTokenDocument{
		ID:        id.String(),
		UserID:    userID,
		TokenHash: jwt.HashToken(token),
		ExpiresAt: time.Unix(expiresAt, 0).UTC(),
		UserAgent: sessionReq.UserAgent,
		IPAddress: sessionReq.IPAddress,
		CreatedAt: time.Now().UTC(),
	})
	return err
}

// IsRefreshTokenRevoked reports unknown tokens as revoked.
func (r *jwtRepository) IsRefreshTokenRevoked(ctx context.Context, token string) (bool, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "expires_at", Value: -1}})

	var doc refreshTokenDocument
	err := r.collection.FindOne(ctx, bson.M{"token_hash": jwt.HashToken(token)}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return true, nil
	}
	if err != nil {
		return false, err
	}
	return doc.RevokedAt != nil || !doc.ExpiresAt.After(time.Now()), nil
}

func (r *jwtRepository) RevokeRefreshToken(ctx context.Context, token string) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"token_hash": jwt.HashToken(token), "revoked_at": nil},
		bson.M{"$set": bson.M{"revoked_at": time.Now().UTC()}},
	)
	return err
}

func (r *jwtRepository) RevokeAllForUser(ctx context.Context, userID string) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"user_id": userID, "revoked_at": nil},
		bson.M{"$set": bson.M{"revoked_at": time.Now().UTC()}},
	)
	return err
}
