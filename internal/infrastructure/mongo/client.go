package mongo

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Connect は ServerAPI v1 で MongoDB に接続し、Ping で疎通を確認する。
func Connect(ctx context.Context, uri string, timeout time.Duration) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	clientOptions := options.Client().ApplyURI(uri).SetServerAPIOptions(options.ServerAPI(options.ServerAPIVersion1))
	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("ping mongo: %w", err)
	}
	return client, nil
}

// UniqueIndex は 1 コレクション上の複合ユニークインデックス定義。
type UniqueIndex struct {
	Collection string
	Keys       []string
}

// Name は Mongo 既定と同じ命名規則 (key_1_key_1) を返す。
func (u UniqueIndex) Name() string {
	parts := make([]string, 0, len(u.Keys))
	for _, key := range u.Keys {
		parts = append(parts, key+"_1")
	}
	return strings.Join(parts, "_")
}

// EnsureUniqueIndexes は定義済みインデックスを作成する。既存データが重複している場合などは
// 失敗したものをまとめて返し、残りの作成は続行する。
func EnsureUniqueIndexes(ctx context.Context, db *mongo.Database, indexes []UniqueIndex) error {
	var errs []error
	for _, index := range indexes {
		keys := bson.D{}
		for _, key := range index.Keys {
			keys = append(keys, bson.E{Key: key, Value: 1})
		}
		model := mongo.IndexModel{
			Keys:    keys,
			Options: options.Index().SetUnique(true).SetName(index.Name()),
		}
		if _, err := db.Collection(index.Collection).Indexes().CreateOne(ctx, model); err != nil {
			errs = append(errs, fmt.Errorf("%s.%s: %w", index.Collection, index.Name(), err))
		}
	}
	return errors.Join(errs...)
}
