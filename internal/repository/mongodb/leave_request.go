package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/database"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type leaveRequestDocument struct {
	ID          string     `bson:"_id"`
	EmployeeID  string     `bson:"employee_id"`
	ManagerID   *string    `bson:"manager_id"`
	Type        string     `bson:"leave_type"`
	StartDate   time.Time  `bson:"start_date"`
	EndDate     time.Time  `bson:"end_date"`
	Days        int        `bson:"days"`
	Reason      string     `bson:"reason"`
	Status      string     `bson:"status"`
	ManagerNote *string    `bson:"manager_note"`
	DecidedAt   *time.Time `bson:"decided_at"`
	CreatedAt   time.Time  `bson:"created_at"`
	UpdatedAt   time.Time  `bson:"updated_at"`
}

func (d leaveRequestDocument) toEntity() leave.LeaveRequest {
	return leave.LeaveRequest{
		ID:          d.ID,
		EmployeeID:  d.EmployeeID,
		ManagerID:   d.ManagerID,
		Type:        leave.LeaveType(d.Type),
		StartDate:   d.StartDate.UTC(),
		EndDate:     d.EndDate.UTC(),
		Days:        d.Days,
		Reason:      d.Reason,
		Status:      leave.Status(d.Status),
		ManagerNote: d.ManagerNote,
		DecidedAt:   utcPtr(d.DecidedAt),
		CreatedAt:   d.CreatedAt.UTC(),
		UpdatedAt:   d.UpdatedAt.UTC(),
	}
}

var newestFirst = bson.D{{Key: "created_at", Value: -1}, {Key: "_id", Value: -1}}

type leaveRequestRepository struct {
	collection *mongo.Collection
}

func NewLeaveRequestRepository(db *database.MongoDB) leave.LeaveRequestRepository {
	return &leaveRequestRepository{collection: db.Database.Collection(LeaveRequestCollection)}
}

func (r *leaveRequestRepository) find(ctx context.Context, filter bson.M) ([]leave.LeaveRequest, error) {
	cursor, err := r.collection.Find(ctx, filter, options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var docs []leaveRequestDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	requests := make([]leave.LeaveRequest, 0, len(docs))
	for _, d := range docs {
		requests = append(requests, d.toEntity())
	}
	return requests, nil
}

func (r *leaveRequestRepository) Create(ctx context.Context, req leave.LeaveRequest) (leave.LeaveRequest, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return leave.LeaveRequest{}, fmt.Errorf("generate leave request id: %w", err)
	}
	created := req.CreatedAt.UTC()

	doc := leaveRequestDocument{
		ID:         id.String(),
		EmployeeID: req.EmployeeID,
		ManagerID:  req.ManagerID,
		Type:       string(req.Type),
		StartDate:  req.StartDate,
		EndDate:    req.EndDate,
		Days:       req.Days,
		Reason:     req.Reason,
		Status:     string(req.Status),
		CreatedAt:  created,
		UpdatedAt:  created,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return leave.LeaveRequest{}, err
	}
	return doc.toEntity(), nil
}

func (r *leaveRequestRepository) GetByID(ctx context.Context, id string) (leave.LeaveRequest, error) {
	var doc leaveRequestDocument
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return leave.LeaveRequest{}, leave.ErrLeaveRequestNotFound
	}
	if err != nil {
		return leave.LeaveRequest{}, err
	}
	return doc.toEntity(), nil
}

func (r *leaveRequestRepository) List(ctx context.Context, filter leave.Filter) ([]leave.LeaveRequest, error) {
	if filter.EmployeeIDs != nil && len(filter.EmployeeIDs) == 0 {
		return []leave.LeaveRequest{}, nil
	}
	query := bson.M{}
	if filter.EmployeeIDs != nil {
		query["employee_id"] = bson.M{"$in": filter.EmployeeIDs}
	}
	if filter.Status != nil {
		query["status"] = string(*filter.Status)
	}
	return r.find(ctx, query)
}

func (r *leaveRequestRepository) ListForManager(ctx context.Context, managerID string, reportIDs []string) ([]leave.LeaveRequest, error) {
	if reportIDs == nil {
		reportIDs = []string{}
	}
	return r.find(ctx, bson.M{"$or": bson.A{
		bson.M{"manager_id": managerID},
		bson.M{"employee_id": bson.M{"$in": reportIDs}},
	}})
}

func (r *leaveRequestRepository) ApplyTransition(ctx context.Context, t leave.Transition) (leave.LeaveRequest, bool, error) {
	at := t.At.UTC()
	set := bson.M{
		"status":       string(t.To),
		"manager_note": t.ManagerNote,
		"decided_at":   at,
		"updated_at":   at,
	}
	if t.ManagerID != nil {
		set["manager_id"] = *t.ManagerID
	}

	filter := bson.M{"_id": t.RequestID, "status": string(t.From)}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc leaveRequestDocument
	err := r.collection.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		current, getErr := r.GetByID(ctx, t.RequestID)
		if getErr != nil {
			return leave.LeaveRequest{}, false, getErr
		}
		return current, false, nil
	}
	if err != nil {
		return leave.LeaveRequest{}, false, err
	}
	return doc.toEntity(), true, nil
}
