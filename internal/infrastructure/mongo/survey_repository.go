package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/sngm3741/survey-services/api/internal/store"
	"github.com/sngm3741/survey-services/api/internal/survey/application"
	"github.com/sngm3741/survey-services/api/internal/survey/domain"
)

// SurveyRepository は surveys コレクションの Mongo 実装。
type SurveyRepository struct {
	collection *mongo.Collection
}

// NewSurveyRepository は MongoDB コレクションを束縛した SurveyRepository を生成する。
func NewSurveyRepository(db *mongo.Database, collection string) *SurveyRepository {
	return &SurveyRepository{collection: db.Collection(collection)}
}

// Find はカテゴリ・所有者・ID 集合で絞り込み、必要なら voteCount 降順に並べる。
func (r *SurveyRepository) Find(ctx context.Context, filter application.SurveyFilter) ([]domain.Survey, error) {
	cursor, err := r.collection.Find(ctx, buildSurveyFilter(filter), surveyFindOptions(filter))
	if err != nil {
		return nil, err
	}
	return decodeAll(ctx, cursor, mapSurveyDocument)
}

func buildSurveyFilter(filter application.SurveyFilter) bson.M {
	query := bson.M{}
	if filter.Category != "" {
		query["category"] = filter.Category
	}
	if filter.UserEmail != "" {
		query["userEmail"] = filter.UserEmail
	}
	if filter.UserID != "" {
		query["userId"] = filter.UserID
	}
	if filter.IDs != nil {
		query["_id"] = bson.M{"$in": parseObjectIDs(filter.IDs)}
	}
	return query
}

func surveyFindOptions(filter application.SurveyFilter) *options.FindOptions {
	opts := options.Find()
	if filter.SortByVotes {
		opts.SetSort(bson.D{{Key: "voteCount", Value: -1}})
	}
	return opts
}

func (r *SurveyRepository) FindByID(ctx context.Context, id string) (*domain.Survey, error) {
	objectID, err := parseObjectID(id)
	if err != nil {
		return nil, err
	}
	var doc SurveyDocument
	if err := r.collection.FindOne(ctx, bson.M{"_id": objectID}).Decode(&doc); err != nil {
		return nil, translateFindErr(err)
	}
	survey := mapSurveyDocument(doc)
	return &survey, nil
}

// FindFeedback は feedback が空でないアンケートを title/feedback/status に射影して返す。
func (r *SurveyRepository) FindFeedback(ctx context.Context) ([]domain.FeedbackView, error) {
	filter := bson.M{"feedback": bson.M{"$exists": true, "$ne": ""}}
	opts := options.Find().SetProjection(bson.M{"title": 1, "feedback": 1, "status": 1})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}
	return decodeAll(ctx, cursor, func(doc SurveyDocument) domain.FeedbackView {
		return domain.FeedbackView{
			ID:       doc.ID.Hex(),
			Title:    doc.Title,
			Feedback: doc.Feedback,
			Status:   domain.Status(doc.Status),
		}
	})
}

func (r *SurveyRepository) Insert(ctx context.Context, survey *domain.Survey) (store.InsertResult, error) {
	doc := SurveyDocument{
		Title:       survey.Title,
		Description: survey.Description,
		Category:    survey.Category,
		Options:     survey.Options,
		Deadline:    survey.Deadline,
		Status:      string(survey.Status),
		VoteCount:   survey.VoteCount,
		YesCount:    survey.YesCount,
		NoCount:     survey.NoCount,
		Feedback:    survey.Feedback,
		UserEmail:   survey.UserEmail,
		UserID:      survey.UserID,
		Timestamp:   survey.Timestamp,
	}
	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return store.InsertResult{}, translateWriteErr(err)
	}
	return insertResult(res), nil
}

// UpdateByID は patch を $set し、upsert 時は defaults を $setOnInsert して要求 ID で作成する。
func (r *SurveyRepository) UpdateByID(ctx context.Context, id string, patch application.SurveyPatch, defaults *domain.Survey, upsert bool) (store.UpdateResult, error) {
	objectID, err := parseObjectID(id)
	if err != nil {
		return store.UpdateResult{}, err
	}

	update := buildSurveyUpdate(patch, defaults)
	if len(update) == 0 {
		// 空の更新は Mongo が拒否するため、一致件数だけ数えて返す
		count, err := r.collection.CountDocuments(ctx, bson.M{"_id": objectID})
		if err != nil {
			return store.UpdateResult{}, err
		}
		return store.UpdateResult{MatchedCount: count}, nil
	}

	opts := options.Update().SetUpsert(upsert)
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update, opts)
	if err != nil {
		return store.UpdateResult{}, err
	}
	return updateResult(res), nil
}

func buildSurveyUpdate(patch application.SurveyPatch, defaults *domain.Survey) bson.M {
	set := bson.M{}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Description != nil {
		set["description"] = *patch.Description
	}
	if patch.Category != nil {
		set["category"] = *patch.Category
	}
	if patch.Options != nil {
		set["options"] = patch.Options
	}
	if patch.Deadline != nil {
		set["deadline"] = *patch.Deadline
	}

	update := bson.M{}
	if len(set) > 0 {
		update["$set"] = set
	}
	if defaults != nil {
		onInsert := bson.M{
			"status":    string(defaults.Status),
			"voteCount": int64(0),
			"yesCount":  int64(0),
			"noCount":   int64(0),
			"timestamp": defaults.Timestamp,
		}
		if defaults.UserEmail != "" {
			onInsert["userEmail"] = defaults.UserEmail
		}
		if _, ok := set["title"]; !ok {
			onInsert["title"] = defaults.Title
		}
		update["$setOnInsert"] = onInsert
	}
	return update
}

// SetFeedback は status を unpublish にし feedback を保存する。
func (r *SurveyRepository) SetFeedback(ctx context.Context, id, feedback string) (store.UpdateResult, error) {
	objectID, err := parseObjectID(id)
	if err != nil {
		return store.UpdateResult{}, err
	}
	update := bson.M{"$set": bson.M{
		"status":   string(domain.StatusUnpublish),
		"feedback": feedback,
	}}
	res, err := r.collection.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	if err != nil {
		return store.UpdateResult{}, err
	}
	return updateResult(res), nil
}

// incrementCounters は voteCount と counterField を 1 ずつ加算する。
func incrementCounters(ctx context.Context, surveys *mongo.Collection, surveyID, counterField string) error {
	objectID, err := parseObjectID(surveyID)
	if err != nil {
		return err
	}
	update := bson.M{"$inc": bson.M{"voteCount": 1, counterField: 1}}
	_, err = surveys.UpdateOne(ctx, bson.M{"_id": objectID}, update)
	return err
}

func mapSurveyDocument(doc SurveyDocument) domain.Survey {
	return domain.Survey{
		ID:          doc.ID.Hex(),
		Title:       doc.Title,
		Description: doc.Description,
		Category:    doc.Category,
		Options:     plainValues(doc.Options),
		Deadline:    doc.Deadline,
		Status:      domain.Status(doc.Status),
		VoteCount:   doc.VoteCount,
		YesCount:    doc.YesCount,
		NoCount:     doc.NoCount,
		Feedback:    doc.Feedback,
		UserEmail:   doc.UserEmail,
		UserID:      doc.UserID,
		Timestamp:   doc.Timestamp,
	}
}
