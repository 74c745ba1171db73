package common

import "github.com/sngm3741/survey-services/api/internal/store"

// InsertResponse mirrors a driver insertOne acknowledgement.
type InsertResponse struct {
	Acknowledged bool    `json:"acknowledged"`
	InsertedID   *string `json:"insertedId"`
}

// UpdateResponse mirrors a driver updateOne acknowledgement.
type UpdateResponse struct {
	Acknowledged  bool    `json:"acknowledged"`
	MatchedCount  int64   `json:"matchedCount"`
	ModifiedCount int64   `json:"modifiedCount"`
	UpsertedCount int64   `json:"upsertedCount"`
	UpsertedID    *string `json:"upsertedId"`
}

// DeleteResponse mirrors a driver deleteOne acknowledgement.
type DeleteResponse struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

func optionalID(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}

func NewInsertResponse(result store.InsertResult) InsertResponse {
	return InsertResponse{Acknowledged: true, InsertedID: optionalID(result.InsertedID)}
}

func NewUpdateResponse(result store.UpdateResult) UpdateResponse {
	return UpdateResponse{
		Acknowledged:  true,
		MatchedCount:  result.MatchedCount,
		ModifiedCount: result.ModifiedCount,
		UpsertedCount: result.UpsertedCount,
		UpsertedID:    optionalID(result.UpsertedID),
	}
}

func NewDeleteResponse(result store.DeleteResult) DeleteResponse {
	return DeleteResponse{Acknowledged: true, DeletedCount: result.DeletedCount}
}
