package repositories

import (
	"context"
	"errors"
	"time"

	"taskmanager-project/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TaskFilter narrows task listings. IsTrashed always applies; Stage and
// TeamMember apply only when set.
type TaskFilter struct {
	IsTrashed  bool
	Stage      string
	TeamMember *primitive.ObjectID
}

// TaskStore is the document-store surface the lifecycle engine depends on.
// Results from Find are ordered most-recently-created first.
type TaskStore interface {
	Create(ctx context.Context, task *models.Task) error
	FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error)
	Find(ctx context.Context, filter TaskFilter) ([]models.Task, error)
	Save(ctx context.Context, task *models.Task) error
	Delete(ctx context.Context, id primitive.ObjectID) error
	DeleteTrashed(ctx context.Context) (int64, error)
	RestoreTrashed(ctx context.Context) (int64, error)
}

type TaskRepo struct {
	collection *mongo.Collection
}

func NewTaskRepo(collection *mongo.Collection) *TaskRepo {
	return &TaskRepo{collection: collection}
}

func (r *TaskRepo) Create(ctx context.Context, task *models.Task) error {
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	if _, err := r.collection.InsertOne(ctx, task); err != nil {
		return models.NewStoreError("failed to create task", err)
	}
	return nil
}

func (r *TaskRepo) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	var task models.Task
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&task)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, models.NewNotFoundError("task")
	}
	if err != nil {
		return nil, models.NewStoreError("failed to retrieve task", err)
	}
	return &task, nil
}

func (r *TaskRepo) Find(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	query := bson.M{"isTrashed": filter.IsTrashed}
	if filter.Stage != "" {
		query["stage"] = filter.Stage
	}
	if filter.TeamMember != nil {
		query["team"] = bson.M{"$all": bson.A{*filter.TeamMember}}
	}

	opts := options.Find().SetSort(bson.M{"_id": -1})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, models.NewStoreError("failed to retrieve tasks", err)
	}
	defer cursor.Close(ctx)

	var tasks []models.Task
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, models.NewStoreError("failed to decode tasks", err)
	}
	return tasks, nil
}

func (r *TaskRepo) Save(ctx context.Context, task *models.Task) error {
	result, err := r.collection.ReplaceOne(ctx, bson.M{"_id": task.ID}, task)
	if err != nil {
		return models.NewStoreError("failed to save task", err)
	}
	if result.MatchedCount == 0 {
		return models.NewNotFoundError("task")
	}
	return nil
}

// Delete removes a task by id; a missing id is a no-op.
func (r *TaskRepo) Delete(ctx context.Context, id primitive.ObjectID) error {
	if _, err := r.collection.DeleteOne(ctx, bson.M{"_id": id}); err != nil {
		return models.NewStoreError("failed to delete task", err)
	}
	return nil
}

func (r *TaskRepo) DeleteTrashed(ctx context.Context) (int64, error) {
	result, err := r.collection.DeleteMany(ctx, bson.M{"isTrashed": true})
	if err != nil {
		return 0, models.NewStoreError("failed to delete trashed tasks", err)
	}
	return result.DeletedCount, nil
}

func (r *TaskRepo) RestoreTrashed(ctx context.Context) (int64, error) {
	result, err := r.collection.UpdateMany(ctx,
		bson.M{"isTrashed": true},
		bson.M{"$set": bson.M{"isTrashed": false}},
	)
	if err != nil {
		return 0, models.NewStoreError("failed to restore trashed tasks", err)
	}
	return result.ModifiedCount, nil
}
