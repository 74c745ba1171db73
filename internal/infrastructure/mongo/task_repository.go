package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/survey-services/api/internal/store"
	"github.com/sngm3741/survey-services/api/internal/task/application"
	"github.com/sngm3741/survey-services/api/internal/task/domain"
)

// TaskRepository は tasks コレクションの Mongo 実装。
type TaskRepository struct {
	collection *mongo.Collection
}

// NewTaskRepository は MongoDB コレクションを束縛した TaskRepository を生成する。
func NewTaskRepository(db *mongo.Database, collection string) *TaskRepository {
	return &TaskRepository{collection: db.Collection(collection)}
}

// Find は timestamp 降順でタスクを返す。
func (r *TaskRepository) Find(ctx context.Context, filter application.TaskFilter) ([]domain.Task, error) {
	query := bson.M{}
	if filter.UserEmail != "" {
		query["userEmail"] = filter.UserEmail
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	opts := options.Find().SetSort(bson.D{{Key: "timestamp", Value: -1}})
	cursor, err := r.collection.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	return decodeAll(ctx, cursor, mapTaskDocument)
}

func (r *TaskRepository) FindByID(ctx context.Context, id string) (*domain.Task, error) {
	objectID, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	var doc TaskDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		return nil, translateFindErr(err)
	}
	task := mapTaskDocument(doc)
	return &task, nil
}

func (r *TaskRepository) Insert(ctx context.Context, task *domain.Task) (store.InsertResult, error) {
	res, err := r.collection.InsertOne(ctx, TaskDocument{
		Title:       task.Title,
		Description: task.Description,
		Priority:    task.Priority,
		Status:      task.Status,
		DueDate:     task.DueDate,
		UserEmail:   task.UserEmail,
		Timestamp:   task.Timestamp,
	})
	if err != nil {
		return store.InsertResult{}, err
	}
	return insertResult(res), nil
}

// UpdateByID は patch を $set し、upsert 時は defaults を $setOnInsert して要求 ID で作成する。
func (r *TaskRepository) UpdateByID(ctx context.Context, id string, patch application.TaskPatch, defaults *domain.Task, upsert bool) (store.UpdateResult, error) {
	objectID, err := parseObjectID(id)
	if err != nil {
		return store.UpdateResult{}, err
	}

	set := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Priority != nil {
		set["priority"] = *patch.Priority
	}
	if patch.Status != nil {
		set["status"] = *patch.Status
	}
	if patch.DueDate != nil {
		set["dueDate"] = *patch.DueDate
	}

	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if defaults != nil {
		onInsert := bson.M{"timestamp": defaults.Timestamp}
		if defaults.UserEmail != "" {
			onInsert["userEmail"] = defaults.UserEmail
		}
		if _, ok := set["status"]; !ok && defaults.Status != "" {
			onInsert["status"] = defaults.Status
		}
		update["$setOnInsert"] = onInsert
	}
	if len(update) == 0 {
		count, err := r.collection.CountDocuments(ctx, bson.M{"_id": objectID})
		if err != nil {
			return store.UpdateResult{}, err
		}
		return store.UpdateResult{MatchedCount: count}, nil
	}

	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update, options.Update().SetUpsert(upsert))
	if err != nil {
		return store.UpdateResult{}, err
	}
	return updateResult(res), nil
}

func (r *TaskRepository) DeleteByID(ctx context.Context, id string) (store.DeleteResult, error) {
	objectID, err := parseObjectID(id)
	if err != nil {
		return store.DeleteResult{}, err
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return store.DeleteResult{}, err
	}
	return deleteResult(res), nil
}

func mapTaskDocument(doc TaskDocument) domain.Task {
	return domain.Task{
		ID:          doc.ID.Hex(),
		Title:       doc.Title,
		Description: doc.Description,
		Priority:    doc.Priority,
		Status:      doc.Status,
		DueDate:     doc.DueDate,
		UserEmail:   doc.UserEmail,
		Timestamp:   doc.Timestamp,
	}
}

// ActivityRepository は activities コレクションの Mongo 実装。
type ActivityRepository struct {
	collection *mongo.Collection
}

// NewActivityRepository は MongoDB コレクションを束縛した ActivityRepository を生成する。
func NewActivityRepository(db *mongo.Database, collection string) *ActivityRepository {
	return &ActivityRepository{collection: db.Collection(collection)}
}

func (r *ActivityRepository) Insert(ctx context.Context, activity *domain.Activity) (store.InsertResult, error) {
	res, err := r.collection.InsertOne(ctx, ActivityDocument{
		TaskID:    activity.TaskID,
		Name:      activity.Name,
		CreatedAt: activity.CreatedAt,
	})
	if err != nil {
		return store.InsertResult{}, err
	}
	return insertResult(res), nil
}

// FindByTask は task_id が一致するアクティビティのみ返す。
func (r *ActivityRepository) FindByTask(ctx context.Context, taskID string) ([]domain.Activity, error) {
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.collection.Find(ctx, bson.M{"task_id": taskID}, opts)
	if err != nil {
		return nil, err
	}
	return decodeAll(ctx, cursor, func(doc ActivityDocument) domain.Activity {
		return domain.Activity{
			ID:        doc.ID.Hex(),
			TaskID:    doc.TaskID,
			Name:      doc.Name,
			CreatedAt: doc.CreatedAt,
		}
	})
}

func (r *ActivityRepository) Rename(ctx context.Context, id, name string) (store.UpdateResult, error) {
	objectID, err := parseObjectID(id)
	if err != nil {
		return store.UpdateResult{}, err
	}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, bson.M{"$set": bson.M{"name": name}})
	if err != nil {
		return store.UpdateResult{}, err
	}
	return updateResult(res), nil
}

func (r *ActivityRepository) DeleteByID(ctx context.Context, id string) (store.DeleteResult, error) {
	objectID, err := parseObjectID(id)
	if err != nil {
		return store.DeleteResult{}, err
	}
	res, err := r.collection.DeleteOne(ctx, bson.M{"_id": objectID})
	if err != nil {
		return store.DeleteResult{}, err
	}
	return deleteResult(res), nil
}
