package repository

import (
	"context"
	"errors"
	"time"

	"github.com/zuai/sample-paper-api/types"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

var (
	// ErrNotFound is returned when no document matches the given id.
	ErrNotFound = errors.New("document not found")
	// ErrInvalidID is returned when an id is not a valid ObjectID hex string.
	ErrInvalidID = errors.New("invalid id format")
)

type PaperRepo interface {
	CreatePaper(ctx context.Context, paper *types.SamplePaper) (string, error)
	GetPaper(ctx context.Context, id string) (*types.SamplePaper, error)
	PaginatePapers(ctx context.Context, page, limit int64) ([]*types.SamplePaper, int64, error)
	ReplacePaper(ctx context.Context, id string, paper *types.SamplePaper) error
	PatchPaper(ctx context.Context, id string, fields map[string]interface{}) error
	DeletePaper(ctx context.Context, id string) error
}

type paperRepo struct {
	collection *mongo.Collection
}

func NewPaperRepo(collection *mongo.Collection) PaperRepo {
	return &paperRepo{
		collection: collection,
	}
}

func idFilter(id string) (bson.D, error) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrInvalidID
	}
	return bson.D{{Key: "_id", Value: oid}}, nil
}

func (r *paperRepo) CreatePaper(ctx context.Context, paper *types.SamplePaper) (string, error) {
	paper.ID = ""
	paper.CreateAt = time.Now().Unix()
	paper.UpdateAt = paper.CreateAt
	res, err := r.collection.InsertOne(ctx, paper)
	if err != nil {
		return "", err
	}
	oid, ok := res.InsertedID.(bson.ObjectID)
	if !ok {
		return "", errors.New("unexpected inserted id type")
	}
	return oid.Hex(), nil
}

func (r *paperRepo) GetPaper(ctx context.Context, id string) (*types.SamplePaper, error) {
	filter, err := idFilter(id)
	if err != nil {
		return nil, err
	}
	var paper types.SamplePaper
	err = r.collection.FindOne(ctx, filter).Decode(&paper)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &paper, nil
}

func (r *paperRepo) PaginatePapers(ctx context.Context, page, limit int64) ([]*types.SamplePaper, int64, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	total, err := r.collection.CountDocuments(ctx, bson.D{})
	if err != nil {
		return nil, 0, err
	}

	opts := options.Find().
		SetSkip((page - 1) * limit).
		SetLimit(limit).
		SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.D{}, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var papers []*types.SamplePaper
	for cursor.Next(ctx) {
		var paper types.SamplePaper
		if err := cursor.Decode(&paper); err != nil {
			return nil, 0, err
		}
		papers = append(papers, &paper)
	}
	return papers, total, cursor.Err()
}

func (r *paperRepo) ReplacePaper(ctx context.Context, id string, paper *types.SamplePaper) error {
	filter, err := idFilter(id)
	if err != nil {
		return err
	}
	paper.ID = ""
	paper.UpdateAt = time.Now().Unix()
	res, err := r.collection.ReplaceOne(ctx, filter, paper)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *paperRepo) PatchPaper(ctx context.Context, id string, fields map[string]interface{}) error {
	filter, err := idFilter(id)
	if err != nil {
		return err
	}
	fields["updated_at"] = time.Now().Unix()
	res, err := r.collection.UpdateOne(ctx, filter, bson.D{{Key: "$set", Value: fields}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *paperRepo) DeletePaper(ctx context.Context, id string) error {
	filter, err := idFilter(id)
	if err != nil {
		return err
	}
	res, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return ErrNotFound
	}
	return nil
}
