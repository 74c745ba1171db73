package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sngm3741/survey-services/api/internal/apperr"
	"github.com/sngm3741/survey-services/api/internal/store"
)

// parseObjectID は 16 進文字列を ObjectID に変換し、失敗時は apperr.ErrInvalidID を返す。
func parseObjectID(id string) (primitive.ObjectID, error) {
	objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id))
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", apperr.ErrInvalidID, id)
	}
	return objectID, nil
}

// parseObjectIDs は不正な ID を読み飛ばす。
func parseObjectIDs(ids []string) []primitive.ObjectID {
	out := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		if objectID, err := primitive.ObjectIDFromHex(strings.TrimSpace(id)); err == nil {
			out = append(out, objectID)
		}
	}
	return out
}

func hexID(v any) string {
	switch id := v.(type) {
	case primitive.ObjectID:
		return id.Hex()
	case string:
		return id
	case nil:
		return ""
	default:
		return fmt.Sprint(id)
	}
}

func insertResult(res *mongo.InsertOneResult) store.InsertResult {
	if res == nil {
		return store.InsertResult{}
	}
	return store.InsertResult{InsertedID: hexID(res.InsertedID)}
}

func updateResult(res *mongo.UpdateResult) store.UpdateResult {
	if res == nil {
		return store.UpdateResult{}
	}
	return store.UpdateResult{
		MatchedCount:  res.MatchedCount,
		ModifiedCount: res.ModifiedCount,
		UpsertedCount: res.UpsertedCount,
		UpsertedID:    hexID(res.UpsertedID),
	}
}

func deleteResult(res *mongo.DeleteResult) store.DeleteResult {
	if res == nil {
		return store.DeleteResult{}
	}
	return store.DeleteResult{DeletedCount: res.DeletedCount}
}

// translateFindErr は ErrNoDocuments を apperr.ErrNotFound に揃える。
func translateFindErr(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return apperr.ErrNotFound
	}
	return err
}

// translateWriteErr は一意制約違反を apperr.ErrAlreadyExists に揃える。
func translateWriteErr(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return fmt.Errorf("%w: %v", apperr.ErrAlreadyExists, err)
	}
	return err
}

// decodeAll はカーソルを最後まで読み、map で変換したスライスを返す。結果が無くても nil ではなく空スライス。
func decodeAll[D any, T any](ctx context.Context, cursor *mongo.Cursor, mapFn func(D) T) ([]T, error) {
	defer cursor.Close(ctx)
	out := make([]T, 0)
	for cursor.Next(ctx) {
		var doc D
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, mapFn(doc))
	}
	if err := cursor.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
