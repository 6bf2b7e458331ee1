package services

import (
	"context"
	"time"

	"taskmanager-project/backend/models"
	"taskmanager-project/backend/repositories"

	"github.com/sony/gobreaker"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// mockTaskStore keeps tasks in insertion order and serves Find newest
// first, mirroring the descending-id sort of the real store.
type mockTaskStore struct {
	tasks     []*models.Task
	createErr error
}

func (m *mockTaskStore) Create(ctx context.Context, task *models.Task) error {
	if m.createErr != nil {
		return m.createErr
	}
	if task.ID.IsZero() {
		task.ID = primitive.NewObjectID()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now()
	}
	clone := *task
	m.tasks = append(m.tasks, &clone)
	return nil
}

func (m *mockTaskStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	for _, task := range m.tasks {
		if task.ID == id {
			clone := *task
			return &clone, nil
		}
	}
	return nil, models.NewNotFoundError("task")
}

func (m *mockTaskStore) Find(ctx context.Context, filter repositories.TaskFilter) ([]models.Task, error) {
	var result []models.Task
	for i := len(m.tasks) - 1; i >= 0; i-- {
		task := m.tasks[i]
		if task.IsTrashed != filter.IsTrashed {
			continue
		}
		if filter.Stage != "" && task.Stage != filter.Stage {
			continue
		}
		if filter.TeamMember != nil && !containsID(task.Team, *filter.TeamMember) {
			continue
		}
		result = append(result, *task)
	}
	return result, nil
}

func (m *mockTaskStore) Save(ctx context.Context, task *models.Task) error {
	for i, stored := range m.tasks {
		if stored.ID == task.ID {
			clone := *task
			m.tasks[i] = &clone
			return nil
		}
	}
	return models.NewNotFoundError("task")
}

func (m *mockTaskStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	for i, stored := range m.tasks {
		if stored.ID == id {
			m.tasks = append(m.tasks[:i], m.tasks[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *mockTaskStore) DeleteTrashed(ctx context.Context) (int64, error) {
	var kept []*models.Task
	var deleted int64
	for _, task := range m.tasks {
		if task.IsTrashed {
			deleted++
			continue
		}
		kept = append(kept, task)
	}
	m.tasks = kept
	return deleted, nil
}

func (m *mockTaskStore) RestoreTrashed(ctx context.Context) (int64, error) {
	var restored int64
	for _, task := range m.tasks {
		if task.IsTrashed {
			task.IsTrashed = false
			restored++
		}
	}
	return restored, nil
}

type mockUserStore struct {
	users []*models.User
}

func (m *mockUserStore) Create(ctx context.Context, user *models.User) error {
	if user.ID.IsZero() {
		user.ID = primitive.NewObjectID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	clone := *user
	m.users = append(m.users, &clone)
	return nil
}

func (m *mockUserStore) FindByID(ctx context.Context, id primitive.ObjectID) (*models.User, error) {
	for _, user := range m.users {
		if user.ID == id {
			clone := *user
			return &clone, nil
		}
	}
	return nil, models.NewNotFoundError("user")
}

func (m *mockUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range m.users {
		if user.Email == email {
			clone := *user
			return &clone, nil
		}
	}
	return nil, models.NewNotFoundError("user")
}

func (m *mockUserStore) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]models.User, error) {
	var result []models.User
	for _, user := range m.users {
		if containsID(ids, user.ID) {
			result = append(result, *user)
		}
	}
	return result, nil
}

func (m *mockUserStore) FindAll(ctx context.Context) ([]models.User, error) {
	var result []models.User
	for _, user := range m.users {
		result = append(result, *user)
	}
	return result, nil
}

func (m *mockUserStore) FindRecentActive(ctx context.Context, limit int64) ([]models.User, error) {
	var result []models.User
	for i := len(m.users) - 1; i >= 0 && int64(len(result)) < limit; i-- {
		if m.users[i].IsActive {
			result = append(result, *m.users[i])
		}
	}
	return result, nil
}

func (m *mockUserStore) Save(ctx context.Context, user *models.User) error {
	for i, stored := range m.users {
		if stored.ID == user.ID {
			clone := *user
			m.users[i] = &clone
			return nil
		}
	}
	return models.NewNotFoundError("user")
}

func (m *mockUserStore) Delete(ctx context.Context, id primitive.ObjectID) error {
	for i, stored := range m.users {
		if stored.ID == id {
			m.users = append(m.users[:i], m.users[i+1:]...)
			return nil
		}
	}
	return nil
}

type mockNoticeStore struct {
	notices   []*models.Notice
	createErr error
}

func (m *mockNoticeStore) Create(ctx context.Context, notice *models.Notice) error {
	if m.createErr != nil {
		return m.createErr
	}
	if notice.ID.IsZero() {
		notice.ID = primitive.NewObjectID()
	}
	if notice.IsRead == nil {
		notice.IsRead = []primitive.ObjectID{}
	}
	clone := *notice
	m.notices = append(m.notices, &clone)
	return nil
}

func (m *mockNoticeStore) FindUnread(ctx context.Context, userID primitive.ObjectID) ([]models.Notice, error) {
	var result []models.Notice
	for _, notice := range m.notices {
		if containsID(notice.Team, userID) && !containsID(notice.IsRead, userID) {
			result = append(result, *notice)
		}
	}
	return result, nil
}

func (m *mockNoticeStore) MarkRead(ctx context.Context, userID, noticeID primitive.ObjectID) error {
	for _, notice := range m.notices {
		if notice.ID == noticeID && !containsID(notice.IsRead, userID) {
			notice.IsRead = append(notice.IsRead, userID)
		}
	}
	return nil
}

func (m *mockNoticeStore) MarkAllRead(ctx context.Context, userID primitive.ObjectID) error {
	for _, notice := range m.notices {
		if containsID(notice.Team, userID) && !containsID(notice.IsRead, userID) {
			notice.IsRead = append(notice.IsRead, userID)
		}
	}
	return nil
}

func containsID(ids []primitive.ObjectID, id primitive.ObjectID) bool {
	for _, candidate := range ids {
		if candidate == id {
			return true
		}
	}
	return false
}

func newTestBreaker() *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{Name: "test-cb"})
}

// newTestEngine wires a lifecycle engine over in-memory stores.
func newTestEngine() (*TaskService, *mockTaskStore, *mockUserStore, *mockNoticeStore) {
	tasks := &mockTaskStore{}
	users := &mockUserStore{}
	notices := &mockNoticeStore{}
	notifier := NewNotificationService(notices, tasks, newTestBreaker())
	return NewTaskService(tasks, users, notifier), tasks, users, notices
}
