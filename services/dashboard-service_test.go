package services

import (
	"context"
	"testing"
	"time"

	"taskmanager-project/backend/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func seedTask(t *testing.T, tasks *mockTaskStore, title, stage, priority string, team []primitive.ObjectID) *models.Task {
	t.Helper()
	task := &models.Task{
		Title:    title,
		Team:     team,
		Stage:    stage,
		Priority: priority,
		Date:     time.Now(),
	}
	if err := tasks.Create(context.Background(), task); err != nil {
		t.Fatalf("seed task: %v", err)
	}
	return task
}

func TestSummarize_MemberScope(t *testing.T) {
	tasks := &mockTaskStore{}
	users := &mockUserStore{}
	dashboard := NewDashboardService(tasks, users)
	ctx := context.Background()

	member := seedUser(t, users, "Mina", "Dev", "developer", "mina@example.com")
	other := seedUser(t, users, "Ognjen", "Dev", "developer", "ognjen@example.com")

	seedTask(t, tasks, "mine-1", "todo", "high", []primitive.ObjectID{member, other})
	seedTask(t, tasks, "mine-2", "completed", "low", []primitive.ObjectID{member})
	seedTask(t, tasks, "theirs-1", "todo", "high", []primitive.ObjectID{other})
	seedTask(t, tasks, "theirs-2", "todo", "medium", []primitive.ObjectID{other})
	seedTask(t, tasks, "theirs-3", "in-progress", "low", []primitive.ObjectID{other})

	summary, err := dashboard.Summarize(ctx, member, false)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	if summary.TotalTasks != 2 {
		t.Errorf("totalTasks = %d, want 2", summary.TotalTasks)
	}
	if len(summary.Users) != 0 {
		t.Errorf("users = %d, want empty for non-admin", len(summary.Users))
	}
	if summary.Tasks["todo"] != 1 || summary.Tasks["completed"] != 1 {
		t.Errorf("stage grouping = %v", summary.Tasks)
	}
	if len(summary.Last10Task) != 2 {
		t.Errorf("last10Task = %d, want 2", len(summary.Last10Task))
	}
}

func TestSummarize_AdminSeesEverything(t *testing.T) {
	tasks := &mockTaskStore{}
	users := &mockUserStore{}
	dashboard := NewDashboardService(tasks, users)
	ctx := context.Background()

	admin := seedUser(t, users, "Ana", "Lead", "admin", "ana@example.com")
	member := seedUser(t, users, "Mina", "Dev", "developer", "mina@example.com")

	for i := 0; i < 12; i++ {
		stage := "todo"
		priority := "high"
		if i%2 == 0 {
			stage = "in-progress"
			priority = "low"
		}
		seedTask(t, tasks, "task", stage, priority, []primitive.ObjectID{member})
	}
	trashed := seedTask(t, tasks, "gone", "todo", "high", []primitive.ObjectID{member})
	trashed.IsTrashed = true
	if err := tasks.Save(ctx, trashed); err != nil {
		t.Fatalf("trash seed: %v", err)
	}

	summary, err := dashboard.Summarize(ctx, admin, true)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}

	if summary.TotalTasks != 12 {
		t.Errorf("totalTasks = %d, want 12 (trashed excluded)", summary.TotalTasks)
	}
	if len(summary.Last10Task) != 10 {
		t.Errorf("last10Task = %d, want capped at 10", len(summary.Last10Task))
	}
	if summary.Tasks["todo"] != 6 || summary.Tasks["in-progress"] != 6 {
		t.Errorf("stage grouping = %v", summary.Tasks)
	}

	var highTotal, lowTotal int
	for _, entry := range summary.GraphData {
		switch entry.Name {
		case "high":
			highTotal = entry.Total
		case "low":
			lowTotal = entry.Total
		}
	}
	if highTotal != 6 || lowTotal != 6 {
		t.Errorf("graphData = %v, want 6 high and 6 low", summary.GraphData)
	}

	if len(summary.Users) != 2 {
		t.Errorf("users = %d, want the 2 active users", len(summary.Users))
	}
	for _, user := range summary.Users {
		if user.Name == "" || user.CreatedAt.IsZero() {
			t.Errorf("dashboard user projection incomplete: %+v", user)
		}
	}
}

func TestSummarize_InactiveUsersHidden(t *testing.T) {
	tasks := &mockTaskStore{}
	users := &mockUserStore{}
	dashboard := NewDashboardService(tasks, users)

	admin := seedUser(t, users, "Ana", "Lead", "admin", "ana@example.com")
	inactive := &models.User{Name: "Gone", Email: "gone@example.com", IsActive: false}
	_ = users.Create(context.Background(), inactive)

	summary, err := dashboard.Summarize(context.Background(), admin, true)
	if err != nil {
		t.Fatalf("Summarize: %v", err)
	}
	for _, user := range summary.Users {
		if user.ID == inactive.ID {
			t.Error("inactive user listed on dashboard")
		}
	}
}
