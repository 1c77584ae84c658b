package mongodb

import (
	"context"
	"fmt"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/database"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	UserCollection         = "users"
	RefreshTokenCollection = "refresh_tokens"
	TimesheetCollection    = "timesheets"
	LeaveRequestCollection = "leave_requests"
)

// EnsureIndexes creates the indexes the repositories rely on. The unique
// (user_id, week_start) index is what makes concurrent first saves safe.
func EnsureIndexes(ctx context.Context, db *database.MongoDB) error {
	indexes := map[string][]mongo.IndexModel{
		UserCollection: {
			{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "manager_id", Value: 1}}},
		},
		RefreshTokenCollection: {
			{Keys: bson.D{{Key: "token_hash", Value: 1}}},
			{Keys: bson.D{{Key: "user_id", Value: 1}}},
		},
		TimesheetCollection: {
			{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "week_start", Value: 1}}, Options: options.Index().SetUnique(true)},
			{Keys: bson.D{{Key: "week_start", Value: 1}, {Key: "status", Value: 1}}},
		},
		LeaveRequestCollection: {
			{Keys: bson.D{{Key: "employee_id", Value: 1}}},
			{Keys: bson.D{{Key: "manager_id", Value: 1}}},
		},
	}

	for name, models := range indexes {
		if _, err := db.Database.Collection(name).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("create indexes on %s: %w", name, err)
		}
	}
	return nil
}
