package handlers

import (
	"context"

	"taskmanager-project/backend/models"
	"taskmanager-project/backend/repositories"
	"taskmanager-project/backend/services"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Slim in-memory stores for boundary tests. They cover only the paths
// the handlers reach; everything else returns the zero value.

type memTaskStore struct {
	tasks []*models.Task
}

func (m *memTaskStore) Create(ctx context.Context, task *models.Task) error {
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	clone := *task
	m.tasks = append(m.tasks, &clone)
	return nil
}

func (m *memTaskStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	for _, task := range m.tasks {
		if task.ID == id {
			clone := *task
			return &clone, nil
		}
	}
	return nil, models.NewNotFoundError("task")
}

func (m *memTaskStore) Find(ctx context.Context, filter repositories.TaskFilter) ([]models.Task, error) {
	var result []models.Task
	for i := len(m.tasks) - 1; i >= 0; i-- {
		task := m.tasks[i]
		if task.IsTrashed != filter.IsTrashed {
			continue
		}
		if filter.Stage != "" && task.Stage != filter.Stage {
			continue
		}
		result = append(result, *task)
	}
	return result, nil
}

func (m *memTaskStore) Save(ctx context.Context, task *models.Task) error {
	for i, stored := range m.tasks {
		if stored.ID == task.ID {
			clone := *task
			m.tasks[i] = &clone
			return nil
		}
	}
	return models.NewNotFoundError("task")
}

func (m *memTaskStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	for i, stored := range m.tasks {
		if stored.ID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *memTaskStore) DeleteTrashed(ctx context.Context) (int64, error) { return 0, nil }

func (m *memTaskStore) RestoreTrashed(ctx context.Context) (int64, error) { return 0, nil }

type memUserStore struct {
	users []*models.User
}

func (m *memUserStore) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	clone := *user
	m.users = append(m.users, &clone)
	return nil
}

func (m *memUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			clone := *user
			return &clone, nil
		}
	}
	return nil, models.NewNotFoundError("user")
}

func (m *memUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, models.NewNotFoundError("user")
}

func (m *memUserStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	var result []models.User
	for _, user := range m.users {
		for _, id := range ids {
			if user.ID == id {
				result = append(result, *user)
				break
			}
		}
	}
	return result, nil
}

func (m *memUserStore) FindAll(ctx context.Context) ([]models.User, error) {
	var result []models.User
	for _, user := range m.users {
		result = append(result, *user)
	}
	return result, nil
}

func (m *memUserStore) FindRecentActive(ctx context.Context, limit int64) ([]models.User, error) {
	return nil, nil
}

func (m *memUserStore) Save(ctx context.Context, user *models.User) error {
	for i, stored := range m.users {
		if stored.ID == user.ID {
			clone := *user
			m.users[i] = &clone
			return nil
		}
	}
	return models.NewNotFoundError("user")
}

func (m *memUserStore) Delete(ctx context.Context, id primitive.ObjectID) error { return nil }

type memNoticeStore struct {
	notices []*models.Notice
}

func (m *memNoticeStore) Create(ctx context.Context, notice *models.Notice) error {
	if notice.ID.IsZero() {
		notice.ID = primitive.NewObjectID()
	}
	clone := *notice
	m.notices = append(m.notices, &clone)
	return nil
}

func (m *memNoticeStore) FindUnread(ctx context.Context, userID primitive.ObjectID) ([]models.Notice, error) {
	var result []models.Notice
	for _, notice := range m.notices {
		read := false
		for _, id := range notice.IsRead {
			if id == userID {
				read = true
				break
			}
		}
		if !read {
			for _, id := range notice.Team {
				if id == userID {
					result = append(result, *notice)
					break
				}
			}
		}
	}
	return result, nil
}

func (m *memNoticeStore) MarkRead(ctx context.Context, userID, noticeID primitive.ObjectID) error {
	return nil
}

func (m *memNoticeStore) MarkAllRead(ctx context.Context, userID primitive.ObjectID) error {
	return nil
}

func newTestTaskHandler() (*TaskHandler, *memTaskStore, *memUserStore) {
	tasks := &memTaskStore{}
	users := &memUserStore{}
	notices := &memNoticeStore{}
	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{Name: "test-cb"})
	notifier := services.NewNotificationService(notices, tasks, breaker)
	service := services.NewTaskService(tasks, users, notifier)
	dashboard := services.NewDashboardService(tasks, users)
	return NewTaskHandler(service, dashboard), tasks, users
}
