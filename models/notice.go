package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Notice is a broadcast notification addressed to a task's team.
// IsRead is the per-recipient acknowledgement set; a user id appears
// at most once and is only ever added, never removed.
type Notice struct {
	ID        primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Team      []primitive.ObjectID `bson:"team" json:"team"`
	Text      string               `bson:"text" json:"text"`
	Task      primitive.ObjectID   `bson:"task" json:"task"`
	IsRead    []primitive.ObjectID `bson:"isRead" json:"isRead"`
	CreatedAt time.Time            `bson:"createdAt" json:"createdAt"`
}

// TaskRef is the weak reference to the originating task, resolved by
// title when listing notices. The task may have been deleted since.
type TaskRef struct {
	ID    primitive.ObjectID `json:"_id"`
	Title string             `json:"title"`
}

// NoticeView is a notice enriched with the referenced task's title.
type NoticeView struct {
	Notice
	Task TaskRef `json:"task"`
}
