// Package store defines the mutation results every repository reports back.
// Handlers echo these to clients instead of the mutated entity.
package store

// InsertResult reports the store-assigned id of a new document.
type InsertResult struct {
	InsertedID string
}

// UpdateResult mirrors the counters of a single-document update or upsert.
type UpdateResult struct {
	MatchedCount  int64
	ModifiedCount int64
	UpsertedCount int64
	UpsertedID    string
}

// DeleteResult reports how many documents were removed. Zero is a valid outcome.
type DeleteResult struct {
	DeletedCount int64
}
