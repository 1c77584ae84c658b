package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type timesheetDocument struct {
	ID          string          `bson:"_id"`
	UserID      string          `bson:"user_id"`
	WeekStart   time.Time       `bson:"week_start"`
	Entries     []timesheet.Row `bson:"entries"`
	Status      string          `bson:"status"`
	SubmittedAt *time.Time      `bson:"submitted_at"`
	ReviewedAt  *time.Time      `bson:"reviewed_at"`
	ReviewedBy  *string         `bson:"reviewed_by"`
	Comments    *string         `bson:"comments"`
	CreatedAt   time.Time       `bson:"created_at"`
	UpdatedAt   time.Time       `bson:"updated_at"`
}

func utcPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	u := t.UTC()
	return &u
}

func (d timesheetDocument) toEntity() timesheet.Timesheet {
	rows := d.Entries
	if rows == nil {
		rows = []timesheet.Row{}
	}
	return timesheet.Timesheet{
		ID:          d.ID,
		UserID:      d.UserID,
		WeekStart:   d.WeekStart.UTC(),
		Rows:        rows,
		Status:      timesheet.Status(d.Status),
		SubmittedAt: utcPtr(d.SubmittedAt),
		ReviewedAt:  utcPtr(d.ReviewedAt),
		ReviewedBy:  d.ReviewedBy,
		Comments:    d.Comments,
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

var lockedStatuses = bson.A{string(timesheet.StatusApproved), string(timesheet.StatusRejected)}

type timesheetRepository struct {
	collection *mongo.Collection
}

func NewTimesheetRepository(db *database.MongoDB) timesheet.TimesheetRepository {
	return &timesheetRepository{collection: db.Database.Collection(TimesheetCollection)}
}

func (r *timesheetRepository) findOne(ctx context.Context, filter bson.M) (timesheet.Timesheet, error) {
	var doc timesheetDocument
	err := r.collection.FindOne(ctx, filter).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return timesheet.Timesheet{}, timesheet.ErrTimesheetNotFound
	}
	if err != nil {
		return timesheet.Timesheet{}, err
	}
	return doc.toEntity(), nil
}

// UpsertWeek matches only unlocked records. When a locked record exists the
// upsert attempts an insert and trips the unique index, which is then told
// apart from a lost race by reading the stored status.
func (r *timesheetRepository) UpsertWeek(ctx context.Context, w timesheet.WeekWrite) (timesheet.Timesheet, timesheet.UpsertOutcome, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return timesheet.Timesheet{}, "", fmt.Errorf("generate timesheet id: %w", err)
	}
	at := w.At.UTC()
	rows := w.Rows
	if rows == nil {
		rows = []timesheet.Row{}
	}

	set := bson.M{"entries": rows, "updated_at": at}
	setOnInsert := bson.M{
		"_id":         id.String(),
		"created_at":  at,
		"reviewed_at": nil,
		"reviewed_by": nil,
		"comments":    nil,
	}
	if w.Submit {
		set["status"] = string(timesheet.StatusSubmitted)
		set["submitted_at"] = at
	} else {
		setOnInsert["status"] = string(timesheet.StatusDraft)
		setOnInsert["submitted_at"] = nil
	}

	filter := bson.M{
		"user_id":    w.UserID,
		"week_start": w.WeekStart,
		"status":     bson.M{"$nin": lockedStatuses},
	}
	update := bson.M{"$set": set, "$setOnInsert": setOnInsert}
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	var doc timesheetDocument
	err = r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if mongo.IsDuplicateKeyError(err) {
		existing, getErr := r.GetByUserWeek(ctx, w.UserID, w.WeekStart)
		if getErr == nil && existing.Status.Locked() {
			return timesheet.Timesheet{}, "", timesheet.ErrTimesheetLocked
		}
		return timesheet.Timesheet{}, "", timesheet.ErrConcurrentUpdate
	}
	if err != nil {
		return timesheet.Timesheet{}, "", err
	}

	if doc.ID == id.String() {
		return doc.toEntity(), timesheet.OutcomeCreated, nil
	}
	return doc.toEntity(), timesheet.OutcomeUpdated, nil
}

func (r *timesheetRepository) GetByUserWeek(ctx context.Context, userID string, weekStart time.Time) (timesheet.Timesheet, error) {
	return r.findOne(ctx, bson.M{"user_id": userID, "week_start": weekStart})
}

func (r *timesheetRepository) GetByID(ctx context.Context, id string) (timesheet.Timesheet, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *timesheetRepository) List(ctx context.Context, filter timesheet.Filter) ([]timesheet.Timesheet, error) {
	if filter.UserIDs != nil && len(filter.UserIDs) == 0 {
		return []timesheet.Timesheet{}, nil
	}

	query := bson.M{}
	if filter.UserIDs != nil {
		query["user_id"] = bson.M{"$in": filter.UserIDs}
	}
	if filter.WeekStart != nil {
		query["week_start"] = *filter.WeekStart
	}
	if filter.Status != nil {
		query["status"] = string(*filter.Status)
	}

	opts := options.Find().SetSort(bson.D{{Key: "week_start", Value: -1}, {Key: "user_id", Value: 1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []timesheetDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	result := make([]timesheet.Timesheet, 0, len(docs))
	for _, d := range docs {
		result = append(result, d.toEntity())
	}
	return result, nil
}

func (r *timesheetRepository) ApplyReview(ctx context.Context, review timesheet.Review, allowedFrom []timesheet.Status) (timesheet.Timesheet, bool, error) {
	from := make(bson.A, 0, len(allowedFrom))
	for _, s := range allowedFrom {
		from = append(from, string(s))
	}
	at := review.At.UTC()

	filter := bson.M{"_id": review.TimesheetID, "status": bson.M{"$in": from}}
	update := bson.M{"$set": bson.M{
		"status":      string(review.Decision.Target()),
		"reviewed_at": at,
		"reviewed_by": review.ReviewerID,
		"comments":    review.Comments,
		"updated_at":  at,
	}}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc timesheetDocument
	err := r.collection.FindOneAndUpdate(ctx, filter, update, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		current, getErr := r.GetByID(ctx, review.TimesheetID)
		if getErr != nil {
			return timesheet.Timesheet{}, false, getErr
		}
		return current, false, nil
	}
	if err != nil {
		return timesheet.Timesheet{}, false, err
	}
	return doc.toEntity(), true, nil
}
