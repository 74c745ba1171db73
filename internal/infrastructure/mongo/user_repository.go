package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sngm3741/survey-services/api/internal/identity/domain"
	"github.com/sngm3741/survey-services/api/internal/store"
)

// UserRepository は users コレクションの Mongo 実装。
type UserRepository struct {
	collection *mongo.Collection
}

// NewUserRepository は MongoDB コレクションを束縛した UserRepository を生成する。
func NewUserRepository(db *mongo.Database, collection string) *UserRepository {
	return &UserRepository{collection: db.Collection(collection)}
}

func (r *UserRepository) FindAll(ctx context.Context) ([]domain.User, error) {
	cursor, err := r.collection.Find(ctx, bson.M{})
	if err != nil {
		return nil, err
	}
	return decodeAll(ctx, cursor, mapUserDocument)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	var doc UserDocument
	if err := r.collection.FindOne(ctx, bson.M{"email": email}).Decode(&doc); err != nil {
		return nil, translateFindErr(err)
	}
	user := mapUserDocument(doc)
	return &user, nil
}

// Insert は一意インデックスに違反した場合 apperr.ErrAlreadyExists を返す。
func (r *UserRepository) Insert(ctx context.Context, user *domain.User) (store.InsertResult, error) {
	doc := UserDocument{
		Email:    user.Email,
		Name:     user.Name,
		PhotoURL: user.PhotoURL,
		Role:     string(user.Role),
	}
	if !user.CreatedAt.IsZero() {
		createdAt := user.CreatedAt
		doc.CreatedAt = &createdAt
	}
	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return store.InsertResult{}, translateWriteErr(err)
	}
	return insertResult(res), nil
}

func (r *UserRepository) UpdateRoleByID(ctx context.Context, id string, role domain.Role) (store.UpdateResult, error) {
	objectID, err := parseObjectID(id)
	if err != nil {
		return store.UpdateResult{}, err
	}
	return r.updateRole(ctx, bson.M{"_id": objectID}, role)
}

func (r *UserRepository) UpdateRoleByEmail(ctx context.Context, email string, role domain.Role) (store.UpdateResult, error) {
	return r.updateRole(ctx, bson.M{"email": email}, role)
}

func (r *UserRepository) updateRole(ctx context.Context, filter bson.M, role domain.Role) (store.UpdateResult, error) {
	res, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"role": string(role)}})
	if err != nil {
		return store.UpdateResult{}, err
	}
	return updateResult(res), nil
}

// DeleteByID は存在しない ID でもエラーにせず deletedCount 0 を返す。
func (r *UserRepository) DeleteByID(ctx context.Context, id string) (store.DeleteResult, error) {
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

func mapUserDocument(doc UserDocument) domain.User {
	user := domain.User{
		ID:       doc.ID.Hex(),
		Email:    doc.Email,
		Name:     doc.Name,
		PhotoURL: doc.PhotoURL,
		Role:     domain.Role(doc.Role),
	}
	if doc.CreatedAt != nil {
		user.CreatedAt = doc.CreatedAt.In(time.UTC)
	}
	return user
}
