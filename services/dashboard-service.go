package services

import (
	"context"
	"sort"

	"taskmanager-project/backend/models"
	"taskmanager-project/backend/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const dashboardLimit = 10

// DashboardService derives summary statistics from the task and user
// stores. It never mutates either.
type DashboardService struct {
	tasks repositories.TaskStore
	users repositories.UserStore
}

func NewDashboardService(tasks repositories.TaskStore, users repositories.UserStore) *DashboardService {
	return &DashboardService{
		tasks: tasks,
		users: users,
	}
}

// PriorityCount is one bar of the priority distribution graph.
type PriorityCount struct {
	Name  string `json:"name"`
	Total int    `json:"total"`
}

// Summary is the dashboard payload. Users is populated for admins only.
type Summary struct {
	TotalTasks int                    `json:"totalTasks"`
	Last10Task []models.TaskView      `json:"last10Task"`
	Users      []models.DashboardUser `json:"users"`
	Tasks      map[string]int         `json:"tasks"`
	GraphData  []PriorityCount        `json:"graphData"`
}

// Summarize computes the dashboard for one caller. Admins see every
// non-trashed task; everyone else only tasks whose team includes them.
func (s *DashboardService) Summarize(ctx context.Context, userID primitive.ObjectID, isAdmin bool) (*Summary, error) {
	filter := repositories.TaskFilter{IsTrashed: false}
	if !isAdmin {
		filter.TeamMember = &userID
	}

	tasks, err := s.tasks.Find(ctx, filter)
	if err != nil {
		return nil, err
	}

	byStage := make(map[string]int)
	byPriority := make(map[string]int)
	for _, task := range tasks {
		byStage[task.Stage]++
		byPriority[task.Priority]++
	}

	graphData := make([]PriorityCount, 0, len(byPriority))
	for name, total := range byPriority {
		graphData = append(graphData, PriorityCount{Name: name, Total: total})
	}
	sort.Slice(graphData, func(i, j int) bool { return graphData[i].Name < graphData[j].Name })

	recent := tasks
	if len(recent) > dashboardLimit {
		recent = recent[:dashboardLimit]
	}
	last10, err := s.enrichTasks(ctx, recent)
	if err != nil {
		return nil, err
	}

	users := []models.DashboardUser{}
	if isAdmin {
		active, err := s.users.FindRecentActive(ctx, dashboardLimit)
		if err != nil {
			return nil, err
		}
		for _, user := range active {
			users = append(users, models.DashboardUser{
				ID:        user.ID,
				Name:      user.Name,
				Title:     user.Title,
				Role:      user.Role,
				IsAdmin:   user.IsAdmin,
				CreatedAt: user.CreatedAt,
			})
		}
	}

	return &Summary{
		TotalTasks: len(tasks),
		Last10Task: last10,
		Users:      users,
		Tasks:      byStage,
		GraphData:  graphData,
	}, nil
}

// enrichTasks resolves team projections for the recent-tasks strip,
// including member roles as the dashboard shows them.
func (s *DashboardService) enrichTasks(ctx context.Context, tasks []models.Task) ([]models.TaskView, error) {
	var ids []primitive.ObjectID
	for _, task := range tasks {
		ids = append(ids, task.Team...)
	}

	users, err := s.users.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	index := make(map[primitive.ObjectID]models.User, len(users))
	for _, user := range users {
		index[user.ID] = user
	}

	views := make([]models.TaskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, models.TaskView{
			Task: task,
			Team: projectTeam(task.Team, index, true),
		})
	}
	return views, nil
}
