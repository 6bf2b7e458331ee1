package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Activity is one append-only entry in a task's activity log.
type Activity struct {
	Type     string             `bson:"type" json:"type"`
	Activity string             `bson:"activity" json:"activity"`
	By       primitive.ObjectID `bson:"by" json:"by"`
	Date     time.Time          `bson:"date" json:"date"`
}

// SubTask is an append-only child item scoped to one task.
type SubTask struct {
	Title string    `bson:"title" json:"title"`
	Tag   string    `bson:"tag" json:"tag"`
	Date  time.Time `bson:"date" json:"date"`
}

// Task owns its activities and sub-tasks; they share its lifetime.
// Stage and priority are always stored lower-cased.
type Task struct {
	ID         primitive.ObjectID   `bson:"_id,omitempty" json:"id"`
	Title      string               `bson:"title" json:"title"`
	Team       []primitive.ObjectID `bson:"team" json:"team"`
	Stage      string               `bson:"stage" json:"stage"`
	Priority   string               `bson:"priority" json:"priority"`
	Date       time.Time            `bson:"date" json:"date"`
	Assets     []string             `bson:"assets" json:"assets"`
	IsTrashed  bool                 `bson:"isTrashed" json:"isTrashed"`
	Activities []Activity           `bson:"activities" json:"activities"`
	SubTasks   []SubTask            `bson:"subTasks" json:"subTasks"`
	CreatedAt  time.Time            `bson:"createdAt" json:"createdAt"`
}

// TeamMember is the projection of a user embedded in task responses.
// Role is filled only where the endpoint asks for it.
type TeamMember struct {
	ID    primitive.ObjectID `json:"_id"`
	Name  string             `json:"name"`
	Title string             `json:"title"`
	Role  string             `json:"role,omitempty"`
	Email string             `json:"email"`
}

// TaskView is a task with its team ids resolved to member projections.
type TaskView struct {
	Task
	Team []TeamMember `json:"team"`
}

// ActivityAuthor is the minimal author projection on a single-task read.
type ActivityAuthor struct {
	ID   primitive.ObjectID `json:"_id"`
	Name string             `json:"name"`
}

// ActivityView is an activity with its author resolved by name.
type ActivityView struct {
	Type     string         `json:"type"`
	Activity string         `json:"activity"`
	By       ActivityAuthor `json:"by"`
	Date     time.Time      `json:"date"`
}

// TaskDetail is the fully enriched single-task response.
type TaskDetail struct {
	Task
	Team       []TeamMember   `json:"team"`
	Activities []ActivityView `json:"activities"`
}
