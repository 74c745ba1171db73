package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// plainValues は BSON デコード結果 (primitive.D / primitive.A など) を JSON 化できる素の値に戻す。
func plainValues(values []interface{}) []any {
	if values == nil {
		return nil
	}
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, plainValue(v))
	}
	return out
}

func plainValue(v interface{}) any {
	switch val := v.(type) {
	case primitive.D:
		m := make(map[string]any, len(val))
		for _, e := range val {
			m[e.Key] = plainValue(e.Value)
		}
		return m
	case primitive.M:
		m := make(map[string]any, len(val))
		for k, e := range val {
			m[k] = plainValue(e)
		}
		return m
	case primitive.A:
		return plainValues(val)
	case primitive.ObjectID:
		return val.Hex()
	default:
		return val
	}
}

// UserDocument は users コレクションのスキーマ。email はユニークキー。
type UserDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	Email     string             `bson:"email"`
	Name      string             `bson:"name,omitempty"`
	PhotoURL  string             `bson:"photoURL,omitempty"`
	Role      string             `bson:"role,omitempty"`
	CreatedAt *time.Time         `bson:"createdAt,omitempty"`
}

// SurveyDocument は surveys コレクションのスキーマ。
type SurveyDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Category    string             `bson:"category,omitempty"`
	Options     []interface{}      `bson:"options,omitempty"`
	Deadline    string             `bson:"deadline,omitempty"`
	Status      string             `bson:"status"`
	VoteCount   int64              `bson:"voteCount"`
	YesCount    int64              `bson:"yesCount"`
	NoCount     int64              `bson:"noCount"`
	Feedback    string             `bson:"feedback,omitempty"`
	UserEmail   string             `bson:"userEmail,omitempty"`
	UserID      string             `bson:"userId,omitempty"`
	Timestamp   time.Time          `bson:"timestamp"`
}

// ResponseDocument は投票内の 1 回答。
type ResponseDocument struct {
	Question string `bson:"question"`
	Option   int    `bson:"option"`
}

// VoteDocument は votes コレクションのスキーマ。surveyId は 16 進文字列のまま保存する。
type VoteDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	SurveyID  string             `bson:"surveyId"`
	UserEmail string             `bson:"userEmail"`
	UserName  string             `bson:"userName,omitempty"`
	Responses []ResponseDocument `bson:"responses"`
	CreatedAt time.Time          `bson:"createdAt"`
}

// ReportDocument は reports コレクションのスキーマ。
type ReportDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	SurveyID    string             `bson:"surveyId"`
	UserEmail   string             `bson:"userEmail"`
	Title       string             `bson:"title,omitempty"`
	Category    string             `bson:"category,omitempty"`
	Description string             `bson:"description,omitempty"`
	Reason      string             `bson:"reason,omitempty"`
	CreatedAt   time.Time          `bson:"createdAt"`
}

// CommentDocument は comments コレクションのスキーマ。surveyId は ObjectID の外部キー。
type CommentDocument struct {
	ID                 primitive.ObjectID `bson:"_id,omitempty"`
	SurveyID           primitive.ObjectID `bson:"surveyId"`
	UserEmail          string             `bson:"userEmail"`
	UserName           string             `bson:"userName,omitempty"`
	UserProfilePicture string             `bson:"userProfilePicture,omitempty"`
	Text               string             `bson:"text,omitempty"`
	Title              string             `bson:"title,omitempty"`
	Category           string             `bson:"category,omitempty"`
	Description        string             `bson:"description,omitempty"`
	CreatedAt          time.Time          `bson:"createdAt"`
}

// PaymentDocument は payments コレクションのスキーマ。
type PaymentDocument struct {
	ID            primitive.ObjectID `bson:"_id,omitempty"`
	Email         string             `bson:"email"`
	Name          string             `bson:"name,omitempty"`
	Price         float64            `bson:"price"`
	TransactionID string             `bson:"transactionId,omitempty"`
	Date          string             `bson:"date,omitempty"`
	CreatedAt     time.Time          `bson:"createdAt"`
}

// TaskDocument は tasks コレクションのスキーマ。
type TaskDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	Title       string             `bson:"title"`
	Description string             `bson:"description,omitempty"`
	Priority    string             `bson:"priority,omitempty"`
	Status      string             `bson:"status,omitempty"`
	DueDate     string             `bson:"dueDate,omitempty"`
	UserEmail   string             `bson:"userEmail,omitempty"`
	Timestamp   time.Time          `bson:"timestamp"`
}

// ActivityDocument は activities コレクションのスキーマ。task_id は生の文字列。
type ActivityDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	TaskID    string             `bson:"task_id"`
	Name      string             `bson:"name"`
	CreatedAt time.Time          `bson:"createdAt"`
}
