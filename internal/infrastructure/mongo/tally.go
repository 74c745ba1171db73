package mongo

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sngm3741/survey-services/api/internal/survey/domain"
)

type optionCountDocument struct {
	Option    int   `bson:"option"`
	VoteCount int64 `bson:"voteCount"`
}

type questionTallyDocument struct {
	Question string                `bson:"question"`
	Options  []optionCountDocument `bson:"options"`
}

type optionTallyDocument struct {
	Option int   `bson:"option"`
	Count  int64 `bson:"count"`
}

// questionTallyPipeline は (設問, 選択肢) 単位で数えたあと設問単位にまとめ直す 2 段 group。
// votes.surveyId は文字列で保存しているため $match も文字列で行う。
func questionTallyPipeline(surveyID string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "surveyId", Value: surveyID}}}},
		{{Key: "$unwind", Value: "$responses"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: bson.D{
				{Key: "question", Value: "$responses.question"},
				{Key: "option", Value: "$responses.option"},
			}},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "_id.question", Value: 1}, {Key: "_id.option", Value: 1}}}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$_id.question"},
			{Key: "options", Value: bson.D{{Key: "$push", Value: bson.D{
				{Key: "option", Value: "$_id.option"},
				{Key: "voteCount", Value: "$count"},
			}}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "question", Value: "$_id"},
			{Key: "options", Value: 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "question", Value: 1}}}},
	}
}

// optionTallyPipeline は設問を区別せず選択肢ごとの票数を数える。
func optionTallyPipeline(surveyID string) mongo.Pipeline {
	return mongo.Pipeline{
		{{Key: "$match", Value: bson.D{{Key: "surveyId", Value: surveyID}}}},
		{{Key: "$unwind", Value: "$responses"}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: "$responses.option"},
			{Key: "count", Value: bson.D{{Key: "$sum", Value: 1}}},
		}}},
		{{Key: "$project", Value: bson.D{
			{Key: "_id", Value: 0},
			{Key: "option", Value: "$_id"},
			{Key: "count", Value: 1},
		}}},
		{{Key: "$sort", Value: bson.D{{Key: "option", Value: 1}}}},
	}
}

func mapQuestionTally(doc questionTallyDocument) domain.QuestionTally {
	tally := domain.QuestionTally{
		Question: doc.Question,
		Options:  make([]domain.OptionCount, 0, len(doc.Options)),
	}
	for _, option := range doc.Options {
		tally.Options = append(tally.Options, domain.OptionCount{Option: option.Option, VoteCount: option.VoteCount})
	}
	return tally
}
