// Package memstore is an in-memory implementation of every repository port.
// Handler and service tests run against it instead of a live MongoDB.
package memstore

import (
	"sort"
	"strings"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/sngm3741/survey-services/api/internal/apperr"
	identitydomain "github.com/sngm3741/survey-services/api/internal/identity/domain"
	surveydomain "github.com/sngm3741/survey-services/api/internal/survey/domain"
	taskdomain "github.com/sngm3741/survey-services/api/internal/task/domain"
)

// Store holds every collection behind one lock.
type Store struct {
	mu         sync.RWMutex
	users      []identitydomain.User
	surveys    []surveydomain.Survey
	votes      []surveydomain.Vote
	reports    []surveydomain.Report
	comments   []surveydomain.Comment
	payments   []surveydomain.Payment
	tasks      []taskdomain.Task
	activities []taskdomain.Activity

	Users      *UserRepository
	Surveys    *SurveyRepository
	Votes      *VoteRepository
	Reports    *ReportRepository
	Comments   *CommentRepository
	Payments   *PaymentRepository
	Tasks      *TaskRepository
	Activities *ActivityRepository
}

// New returns an empty store.
func New() *Store {
	s := &Store{}
	s.Users = &UserRepository{s: s}
	s.Surveys = &SurveyRepository{s: s}
	s.Votes = &VoteRepository{s: s}
	s.Reports = &ReportRepository{s: s}
	s.Comments = &CommentRepository{s: s}
	s.Payments = &PaymentRepository{s: s}
	s.Tasks = &TaskRepository{s: s}
	s.Activities = &ActivityRepository{s: s}
	return s
}

func newID() string {
	return primitive.NewObjectID().Hex()
}

func checkID(id string) error {
	if _, err := primitive.ObjectIDFromHex(strings.TrimSpace(id)); err != nil {
		return apperr.ErrInvalidID
	}
	return nil
}

func sortNewestFirst[T any](items []T, ts func(T) int64) {
	sort.SliceStable(items, func(i, j int) bool {
		return ts(items[i]) > ts(items[j])
	})
}
