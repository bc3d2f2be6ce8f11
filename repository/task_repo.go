package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/zuai/sample-paper-api/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
)

type TaskRepo interface {
	CreateTask(ctx context.Context, task *types.ExtractionTask) (string, error)
	GetTask(ctx context.Context, id string) (*types.ExtractionTask, error)
	UpdateTaskStatus(ctx context.Context, id, status, description string) error
	SetTaskResult(ctx context.Context, id, paperID string) error
	ListTasksByStatus(ctx context.Context, statuses []string) ([]*types.ExtractionTask, error)
}

type taskRepo struct {
	collection *mongo.Collection
}

func NewTaskRepo(db *mongo.Database) TaskRepo {
	collection := db.Collection("task_status")
	indexes := []mongo.IndexModel{
		{
			Keys: bson.D{
				{Key: "status", Value: 1},
			},
		},
		{
			Keys: bson.D{
				{Key: "created_at", Value: -1},
			},
		},
	}
	if _, err := collection.Indexes().CreateMany(context.Background(), indexes); err != nil {
		log.Printf("Error creating task indexes: %v", err)
	}

	return &taskRepo{
		collection: collection,
	}
}

func (r *taskRepo) CreateTask(ctx context.Context, task *types.ExtractionTask) (string, error) {
	task.ID = ""
	task.CreateAt = time.Now().Unix()
	task.UpdateAt = task.CreateAt
	res, err := r.collection.InsertOne(ctx, task)
	if err != nil {
		return "", err
	}
	oid, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return "", errors.New("unexpected inserted id type")
	}
	task.ID = oid.Hex()
	return task.ID, nil
}

func (r *taskRepo) GetTask(ctx context.Context, id string) (*types.ExtractionTask, error) {
	filter, err := idFilter(id)
	if err != nil {
		return nil, err
	}
	var task types.ExtractionTask
	err = r.collection.FindOne(ctx, filter).Decode(&task)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &task, nil
}

func (r *taskRepo) UpdateTaskStatus(ctx context.Context, id, status, description string) error {
	filter, err := idFilter(id)
	if err != nil {
		return err
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "status", Value: status},
		{Key: "description", Value: description},
		{Key: "updated_at", Value: time.Now().Unix()},
	}}}
	res, err := r.collection.UpdateOne(ctx, filter, update)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *taskRepo) SetTaskResult(ctx context.Context, id, paperID string) error {
	filter, err := idFilter(id)
	if err != nil {
		return err
	}
	update := bson.D{{Key: "$set", Value: bson.D{
		{Key: "paper_id", Value: paperID},
		{Key: "updated_at", Value: time.Now().Unix()},
	}}}
	_, err = r.collection.UpdateOne(ctx, filter, update)
	return err
}

func (r *taskRepo) ListTasksByStatus(ctx context.Context, statuses []string) ([]*types.ExtractionTask, error) {
	filter := bson.D{{Key: "status", Value: bson.D{{Key: "$in", Value: statuses}}}}
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var tasks []*types.ExtractionTask
	for cursor.Next(ctx) {
		var task types.ExtractionTask
		if err := cursor.Decode(&task); err != nil {
			return nil, err
		}
		tasks = append(tasks, &task)
	}
	return tasks, cursor.Err()
}
