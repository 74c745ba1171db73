package mongo

import (
	"context"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/sngm3741/survey-services/api/internal/store"
	"github.com/sngm3741/survey-services/api/internal/survey/domain"
)

// ReportRepository は reports コレクションの Mongo 実装。
type ReportRepository struct {
	collection *mongo.Collection
}

// NewReportRepository は MongoDB コレクションを束縛した ReportRepository を生成する。
func NewReportRepository(db *mongo.Database, collection string) *ReportRepository {
	return &ReportRepository{collection: db.Collection(collection)}
}

func (r *ReportRepository) Exists(ctx context.Context, surveyID, userEmail string) (bool, error) {
	count, err := r.collection.CountDocuments(ctx, bson.M{"surveyId": surveyID, "userEmail": userEmail})
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *ReportRepository) Insert(ctx context.Context, report *domain.Report) (store.InsertResult, error) {
	res, err := r.collection.InsertOne(ctx, ReportDocument{
		SurveyID:    report.SurveyID,
		UserEmail:   report.UserEmail,
		Title:       report.Title,
		Category:    report.Category,
		Description: report.Description,
		Reason:      report.Reason,
		CreatedAt:   report.CreatedAt,
	})
	if err != nil {
		return store.InsertResult{}, translateWriteErr(err)
	}
	return insertResult(res), nil
}

func (r *ReportRepository) FindByUser(ctx context.Context, userEmail string) ([]domain.Report, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"userEmail": userEmail})
	if err != nil {
		return nil, err
	}
	return decodeAll(ctx, cursor, func(doc ReportDocument) domain.Report {
		return domain.Report{
			ID:          doc.ID.Hex(),
			SurveyID:    doc.SurveyID,
			UserEmail:   doc.UserEmail,
			Title:       doc.Title,
			Category:    doc.Category,
			Description: doc.Description,
			Reason:      doc.Reason,
			CreatedAt:   doc.CreatedAt,
		}
	})
}

// CommentRepository は comments コレクションの Mongo 実装。surveyId は ObjectID で保存する。
type CommentRepository struct {
	collection *mongo.Collection
}

// NewCommentRepository は MongoDB コレクションを束縛した CommentRepository を生成する。
func NewCommentRepository(db *mongo.Database, collection string) *CommentRepository {
	return &CommentRepository{collection: db.Collection(collection)}
}

func (r *CommentRepository) Insert(ctx context.Context, comment *domain.Comment) (store.InsertResult, error) {
	surveyID, err := parseObjectID(comment.SurveyID)
	if err != nil {
		return store.InsertResult{}, err
	}
	res, err := r.collection.InsertOne(ctx, CommentDocument{
		SurveyID:           surveyID,
		UserEmail:          comment.UserEmail,
		UserName:           comment.UserName,
		UserProfilePicture: comment.UserProfilePicture,
		Text:               comment.Text,
		Title:              comment.Title,
		Category:           comment.Category,
		Description:        comment.Description,
		CreatedAt:          comment.CreatedAt,
	})
	if err != nil {
		return store.InsertResult{}, err
	}
	return insertResult(res), nil
}

func (r *CommentRepository) FindBySurvey(ctx context.Context, surveyID string) ([]domain.Comment, error) {
	objectID, err := parseObjectID(surveyID)
	if err != nil {
		return nil, err
	}
	return r.find(ctx, bson.M{"surveyId": objectID})
}

func (r *CommentRepository) FindByUser(ctx context.Context, userEmail string) ([]domain.Comment, error) {
	return r.find(ctx, bson.M{"userEmail": userEmail})
}

func (r *CommentRepository) find(ctx context.Context, filter bson.M) ([]domain.Comment, error) {
	cursor, err := r.collection.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	return decodeAll(ctx, cursor, func(doc CommentDocument) domain.Comment {
		return domain.Comment{
			ID:                 doc.ID.Hex(),
			SurveyID:           doc.SurveyID.Hex(),
			UserEmail:          doc.UserEmail,
			UserName:           doc.UserName,
			UserProfilePicture: doc.UserProfilePicture,
			Text:               doc.Text,
			Title:              doc.Title,
			Category:           doc.Category,
			Description:        doc.Description,
			CreatedAt:          doc.CreatedAt,
		}
	})
}

// PaymentRepository は payments コレクションの Mongo 実装。追記のみ。
type PaymentRepository struct {
	collection *mongo.Collection
}

// NewPaymentRepository は MongoDB コレクションを束縛した PaymentRepository を生成する。
func NewPaymentRepository(db *mongo.Database, collection string) *PaymentRepository {
	return &PaymentRepository{collection: db.Collection(collection)}
}

func (r *PaymentRepository) Insert(ctx context.Context, payment *domain.Payment) (store.InsertResult, error) {
	res, err := r.collection.InsertOne(ctx, PaymentDocument{
		Email:         payment.Email,
		Name:          payment.Name,
		Price:         payment.Price,
		TransactionID: payment.TransactionID,
		Date:          payment.Date,
		CreatedAt:     payment.CreatedAt,
	})
	if err != nil {
		return store.InsertResult{}, err
	}
	return insertResult(res), nil
}

func (r *PaymentRepository) FindByEmail(ctx context.Context, email string) ([]domain.Payment, error) {
	cursor, err := r.collection.Find(ctx, bson.M{"email": email})
	if err != nil {
		return nil, err
	}
	return decodeAll(ctx, cursor, func(doc PaymentDocument) domain.Payment {
		return domain.Payment{
			ID:            doc.ID.Hex(),
			Email:         doc.Email,
			Name:          doc.Name,
			Price:         doc.Price,
			TransactionID: doc.TransactionID,
			Date:          doc.Date,
			CreatedAt:     doc.CreatedAt,
		}
	})
}
