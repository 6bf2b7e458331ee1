package repositories

import (
	"context"
	"time"

	"taskmanager-project/backend/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
)

// NoticeStore is the document-store surface for notifications. Marking a
// notice read is add-if-absent on its acknowledgement set; both mark
// operations are idempotent.
type NoticeStore interface {
	Create(ctx context.Context, notice *models.Notice) error
	FindUnread(ctx context.Context, userID primitive.ObjectID) ([]models.Notice, error)
	MarkRead(ctx context.Context, userID, noticeID primitive.ObjectID) error
	MarkAllRead(ctx context.Context, userID primitive.ObjectID) error
}

type NoticeRepo struct {
	collection *mongo.Collection
}

func NewNoticeRepo(collection *mongo.Collection) *NoticeRepo {
	return &NoticeRepo{collection: collection}
}

func (r *NoticeRepo) Create(ctx context.Context, notice *models.Notice) error {
	if notice.ID.IsZero() {
		notice.ID = primitive.NewObjectID()
	}
	if notice.CreatedAt.IsZero() {
		notice.CreatedAt = time.Now()
	}
	if notice.IsRead == nil {
		notice.IsRead = []primitive.ObjectID{}
	}
	if _, err := r.collection.InsertOne(ctx, notice); err != nil {
		return models.NewStoreError("failed to create notice", err)
	}
	return nil
}

func (r *NoticeRepo) FindUnread(ctx context.Context, userID primitive.ObjectID) ([]models.Notice, error) {
	query := bson.M{
		"team":   userID,
		"isRead": bson.M{"$nin": bson.A{userID}},
	}
	cursor, err := r.collection.Find(ctx, query)
	if err != nil {
		return nil, models.NewStoreError("failed to retrieve notices", err)
	}
	defer cursor.Close(ctx)

	var notices []models.Notice
	if err := cursor.All(ctx, &notices); err != nil {
		return nil, models.NewStoreError("failed to decode notices", err)
	}
	return notices, nil
}

// MarkRead adds the user to one notice's acknowledgement set. Matching on
// $nin makes a repeated call a no-op rather than an error.
func (r *NoticeRepo) MarkRead(ctx context.Context, userID, noticeID primitive.ObjectID) error {
	_, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": noticeID, "isRead": bson.M{"$nin": bson.A{userID}}},
		bson.M{"$addToSet": bson.M{"isRead": userID}},
	)
	if err != nil {
		return models.NewStoreError("failed to mark notice as read", err)
	}
	return nil
}

// MarkAllRead acknowledges every notice addressed to the user that the
// user has not read yet.
func (r *NoticeRepo) MarkAllRead(ctx context.Context, userID primitive.ObjectID) error {
	_, err := r.collection.UpdateMany(ctx,
		bson.M{"team": userID, "isRead": bson.M{"$nin": bson.A{userID}}},
		bson.M{"$addToSet": bson.M{"isRead": userID}},
	)
	if err != nil {
		return models.NewStoreError("failed to mark notices as read", err)
	}
	return nil
}
