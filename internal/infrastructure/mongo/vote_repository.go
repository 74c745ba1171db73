package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sngm3741/survey-services/api/internal/store"
	"github.com/sngm3741/survey-services/api/internal/survey/application"
	"github.com/sngm3741/survey-services/api/internal/survey/domain"
)

// VoteRepository は votes コレクションの Mongo 実装。投票時に surveys のカウンタも更新する。
type VoteRepository struct {
	client          *mongo.Client
	collection      *mongo.Collection
	surveys         *mongo.Collection
	useTransactions bool
}

// NewVoteRepository は votes/surveys コレクションを束縛した VoteRepository を生成する。
// useTransactions はレプリカセット構成でのみ有効にすること。
func NewVoteRepository(db *mongo.Database, voteCollection, surveyCollection string, useTransactions bool) *VoteRepository {
	return &VoteRepository{
		client:          db.Client(),
		collection:      db.Collection(voteCollection),
		surveys:         db.Collection(surveyCollection),
		useTransactions: useTransactions,
	}
}

func (r *VoteRepository) Find(ctx context.Context, filter application.VoteFilter) ([]domain.Vote, error) {
	query := bson.M{}
	if filter.SurveyID != "" {
		query["surveyId"] = filter.SurveyID
	}
	if filter.UserEmail != "" {
		query["userEmail"] = filter.UserEmail
	}
	cursor, err := r.collection.Find(ctx, query)
	if err != nil {
		return nil, err
	}
	return decodeAll(ctx, cursor, mapVoteDocument)
}

func (r *VoteRepository) Exists(ctx context.Context, surveyID, userEmail string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"surveyId": surveyID, "userEmail": userEmail})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

// Cast は投票の挿入とカウンタ加算を行う。トランザクション無効時は逐次実行となり、
// 2 つの書き込みの間で落ちるとカウンタが投票数より少なくなる。
func (r *VoteRepository) Cast(ctx context.Context, vote *domain.Vote, counterField string) (store.InsertResult, error) {
	doc := VoteDocument{
		SurveyID:  vote.SurveyID,
		UserEmail: vote.UserEmail,
		UserName:  vote.UserName,
		Responses: make([]ResponseDocument, 0, len(vote.Responses)),
		CreatedAt: vote.CreatedAt,
	}
	for _, response := range vote.Responses {
		doc.Responses = append(doc.Responses, ResponseDocument{Question: response.Question, Option: response.Option})
	}

	if !r.useTransactions {
		return r.cast(ctx, doc, counterField)
	}

	session, err := r.client.StartSession()
	if err != nil {
		return store.InsertResult{}, fmt.Errorf("start session: %w", err)
	}
	defer session.EndSession(ctx)

	out, err := session.WithTransaction(ctx, func(sc mongo.SessionContext) (interface{}, error) {
		return r.cast(sc, doc, counterField)
	})
	if err != nil {
		return store.InsertResult{}, err
	}
	return out.(store.InsertResult), nil
}

func (r *VoteRepository) cast(ctx context.Context, doc VoteDocument, counterField string) (store.InsertResult, error) {
	res, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return store.InsertResult{}, translateWriteErr(err)
	}
	if err := incrementCounters(ctx, r.surveys, doc.SurveyID, counterField); err != nil {
		return store.InsertResult{}, fmt.Errorf("increment survey counters: %w", err)
	}
	return insertResult(res), nil
}

// TallyByQuestion は設問ごとに選択肢の票数をまとめる。投票が無ければ空スライス。
func (r *VoteRepository) TallyByQuestion(ctx context.Context, surveyID string) ([]domain.QuestionTally, error) {
	cursor, err := r.collection.Aggregate(ctx, questionTallyPipeline(surveyID))
	if err != nil {
		return nil, err
	}
	return decodeAll(ctx, cursor, mapQuestionTally)
}

// TallyByOption は選択肢ごとの票数を返す。投票が無ければ空スライス。
func (r *VoteRepository) TallyByOption(ctx context.Context, surveyID string) ([]domain.OptionTally, error) {
	cursor, err := r.collection.Aggregate(ctx, optionTallyPipeline(surveyID))
	if err != nil {
		return nil, err
	}
	return decodeAll(ctx, cursor, func(doc optionTallyDocument) domain.OptionTally {
		return domain.OptionTally{Option: doc.Option, Count: doc.Count}
	})
}

func mapVoteDocument(doc VoteDocument) domain.Vote {
	vote := domain.Vote{
		ID:        doc.ID.Hex(),
		SurveyID:  doc.SurveyID,
		UserEmail: doc.UserEmail,
		UserName:  doc.UserName,
		Responses: make([]domain.Response, 0, len(doc.Responses)),
		CreatedAt: doc.CreatedAt,
	}
	for _, response := range doc.Responses {
		vote.Responses = append(vote.Responses, domain.Response{Question: response.Question, Option: response.Option})
	}
	return vote
}
