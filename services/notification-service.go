package services

import (
	"context"
	"errors"
	"time"

	"taskmanager-project/backend/logging"
	"taskmanager-project/backend/models"
	"taskmanager-project/backend/repositories"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// NotificationService creates task notices and tracks per-recipient
// read acknowledgements.
type NotificationService struct {
	notices repositories.NoticeStore
	tasks   repositories.TaskStore
	breaker *gobreaker.CircuitBreaker
}

func NewNotificationService(notices repositories.NoticeStore, tasks repositories.TaskStore, breaker *gobreaker.CircuitBreaker) *NotificationService {
	return &NotificationService{
		notices: notices,
		tasks:   tasks,
		breaker: breaker,
	}
}

// Broadcast creates one notice addressed to the whole team. Writes go
// through the circuit breaker; delivery is at-most-once and the caller
// decides whether a failure is fatal.
func (ns *NotificationService) Broadcast(ctx context.Context, team []primitive.ObjectID, text string, taskID primitive.ObjectID) error {
	if len(team) == 0 || text == "" {
		return models.NewValidationError("team and text are required")
	}

	notice := &models.Notice{
		Team:      team,
		Text:      text,
		Task:      taskID,
		IsRead:    []primitive.ObjectID{},
		CreatedAt: time.Now(),
	}

	_, err := ns.breaker.Execute(func() (interface{}, error) {
		return nil, ns.notices.Create(ctx, notice)
	})
	if err != nil {
		return err
	}
	return nil
}

// ListUnread returns the notices addressed to the user that the user has
// not acknowledged, each enriched with the referenced task's title. A
// notice whose task has since been deleted keeps an empty title.
func (ns *NotificationService) ListUnread(ctx context.Context, userID primitive.ObjectID) ([]models.NoticeView, error) {
	notices, err := ns.notices.FindUnread(ctx, userID)
	if err != nil {
		return nil, err
	}

	views := make([]models.NoticeView, 0, len(notices))
	for _, notice := range notices {
		view := models.NoticeView{
			Notice: notice,
			Task:   models.TaskRef{ID: notice.Task},
		}

		task, err := ns.tasks.FindByID(ctx, notice.Task)
		if err != nil {
			var notFound *models.NotFoundError
			if !errors.As(err, &notFound) {
				return nil, err
			}
			logging.Logger.Warnf("Event ID: NOTICE_TASK_MISSING, Description: Notice %s references deleted task %s", notice.ID.Hex(), notice.Task.Hex())
		} else {
			view.Task.Title = task.Title
		}

		views = append(views, view)
	}
	return views, nil
}

// MarkRead acknowledges notices for the user. isReadType "all" touches
// every unread notice addressed to the user; otherwise noticeID selects
// exactly one. Re-marking is a no-op.
func (ns *NotificationService) MarkRead(ctx context.Context, userID primitive.ObjectID, isReadType, noticeID string) error {
	if isReadType == "all" {
		return ns.notices.MarkAllRead(ctx, userID)
	}

	id, err := primitive.ObjectIDFromHex(noticeID)
	if err != nil {
		return models.NewValidationError("Invalid notification ID format")
	}
	return ns.notices.MarkRead(ctx, userID, id)
}
