package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userDocument struct {
	ID                string    `bson:"_id"`
	Name              string    `bson:"name"`
	Email             string    `bson:"email"`
	PasswordHash      string    `bson:"password_hash"`
	Role              string    `bson:"role"`
	ManagerID         *string   `bson:"manager_id"`
	MustResetPassword bool      `bson:"must_reset_password"`
	CreatedAt         time.Time `bson:"created_at"`
	UpdatedAt         time.Time `bson:"updated_at"`
}

func (d userDocument) toEntity() user.User {
	return user.User{
		ID:                d.ID,
		Name:              d.Name,
		Email:             d.Email,
		PasswordHash:      d.PasswordHash,
		Role:              user.Role(d.Role),
		ManagerID:         d.ManagerID,
		MustResetPassword: d.MustResetPassword,
		CreatedAt:         d.CreatedAt.UTC(),
		UpdatedAt:         d.UpdatedAt.UTC(),
	}
}

type userRepository struct {
	collection *mongo.Collection
}

func NewUserRepository(db *database.MongoDB) user.UserRepository {
	return &userRepository{collection: db.Database.Collection(UserCollection)}
}

func (r *userRepository) findOne(ctx context.Context, filter bson.M) (user.User, error) {
	var doc userDocument
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return user.User{}, user.ErrUserNotFound
	}
	if err != nil {
		return user.User{}, err
	}
	return doc.toEntity(), nil
}

func (r *userRepository) updateOne(ctx context.Context, id string, set bson.M) (user.User, error) {
	set["updated_at"] = time.Now().UTC()
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc userDocument
	err := r.collection.FindOneAndUpdate(ctx, bson.M{"_id": id}, bson.M{"$set": set}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return user.User{}, user.ErrUserNotFound
	}
	if err != nil {
		return user.User{}, err
	}
	return doc.toEntity(), nil
}

func (r *userRepository) Create(ctx context.Context, newUser user.User) (user.User, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return user.User{}, fmt.Errorf("generate user id: %w", err)
	}
	now := time.Now().UTC()

	doc := userDocument{
		ID:                id.String(),
		Name:              newUser.Name,
		Email:             newUser.Email,
		PasswordHash:      newUser.PasswordHash,
		Role:              string(newUser.Role),
		ManagerID:         newUser.ManagerID,
		MustResetPassword: newUser.MustResetPassword,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return user.User{}, user.ErrUserEmailExists
		}
		return user.User{}, err
	}
	return doc.toEntity(), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (user.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *userRepository) GetByID(ctx context.Context, id string) (user.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *userRepository) List(ctx context.Context, filter user.Filter) ([]user.User, error) {
	query := bson.M{}
	if filter.Role != nil {
		query["role"] = string(*filter.Role)
	}
	if filter.ManagerID != nil {
		query["manager_id"] = *filter.ManagerID
	}

	opts := options.Find().SetSort(bson.D{{Key: "name", Value: 1}, {Key: "email", Value: 1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []userDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	users := make([]user.User, 0, len(docs))
	for _, d := range docs {
		users = append(users, d.toEntity())
	}
	return users, nil
}

func (r *userRepository) CountByRole(ctx context.Context, role user.Role) (int64, error) {
	return r.collection.CountDocuments(ctx, bson.M{"role": string(role)})
}

func (r *userRepository) UpdateManager(ctx context.Context, userID string, managerID *string) (user.User, error) {
	return r.updateOne(ctx, userID, bson.M{"manager_id": managerID})
}

// UpdateRole refuses to demote a manager who still has direct reports.
func (r *userRepository) UpdateRole(ctx context.Context, userID string, role user.Role) (user.User, error) {
	if role != user.RoleManager {
		reports, err := r.collection.CountDocuments(ctx, bson.M{"manager_id": userID})
		if err != nil {
			return user.User{}, err
		}
		if reports > 0 {
			return user.User{}, user.ErrManagerHasReports
		}
	}
	return r.updateOne(ctx, userID, bson.M{"role": string(role)})
}

func (r *userRepository) UpdatePassword(ctx context.Context, userID, passwordHash string, mustReset bool) error {
	_, err := r.updateOne(ctx, userID, bson.M{
		"password_hash":       passwordHash,
		"must_reset_password": mustReset,
	})
	return err
}
