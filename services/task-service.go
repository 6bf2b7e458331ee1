package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"taskmanager-project/backend/logging"
	"taskmanager-project/backend/models"
	"taskmanager-project/backend/repositories"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// dateStampLayout renders due dates inside notification text,
// e.g. "Wed Jan 10 2024".
const dateStampLayout = "Mon Jan 02 2006"

// TaskService is the task lifecycle engine: it validates and applies
// state transitions to tasks and fans out notices for the ones with
// people-facing consequences.
type TaskService struct {
	tasks    repositories.TaskStore
	users    repositories.UserStore
	notifier *NotificationService
}

func NewTaskService(tasks repositories.TaskStore, users repositories.UserStore, notifier *NotificationService) *TaskService {
	return &TaskService{
		tasks:    tasks,
		users:    users,
		notifier: notifier,
	}
}

// CreateTaskInput carries the already-decoded fields for a new task.
type CreateTaskInput struct {
	Title    string
	Team     []primitive.ObjectID
	Stage    string
	Date     time.Time
	Priority string
	Assets   []string
}

// UpdateTaskInput carries the replacement fields for an existing task.
type UpdateTaskInput struct {
	Title    string
	Date     time.Time
	Team     []primitive.ObjectID
	Stage    string
	Priority string
	Assets   []string
}

// buildAssignmentText constructs the notification message for a task
// assignment. Priority is expected lower-cased already.
func buildAssignmentText(teamSize int, priority string, date time.Time) string {
	text := "New task has been assigned to you"
	if teamSize > 1 {
		text += fmt.Sprintf(" and %d others.", teamSize-1)
	}
	text += fmt.Sprintf(
		" The task priority is set at %s priority, so check and act accordingly. The task date is %s. Thank you!!!",
		priority, date.Format(dateStampLayout),
	)
	return text
}

// CreateTask validates the input, stores the task with a seeded
// "assigned" activity, and broadcasts a notice to the team.
func (s *TaskService) CreateTask(ctx context.Context, in CreateTaskInput, authorID primitive.ObjectID) (*models.Task, error) {
	if in.Title == "" || len(in.Team) == 0 || in.Date.IsZero() || in.Stage == "" || in.Priority == "" {
		return nil, models.NewValidationError("Missing required fields")
	}

	stage := strings.ToLower(in.Stage)
	priority := strings.ToLower(in.Priority)
	text := buildAssignmentText(len(in.Team), priority, in.Date)

	task := &models.Task{
		Title:    in.Title,
		Team:     in.Team,
		Stage:    stage,
		Date:     in.Date,
		Priority: priority,
		Assets:   in.Assets,
		Activities: []models.Activity{{
			Type:     "assigned",
			Activity: text,
			By:       authorID,
			Date:     time.Now(),
		}},
		SubTasks: []models.SubTask{},
	}

	if err := s.tasks.Create(ctx, task); err != nil {
		return nil, err
	}

	if err := s.notifier.Broadcast(ctx, in.Team, text, task.ID); err != nil {
		// Best-effort fan-out: the task is already committed.
		logging.Logger.Warnf("Event ID: NOTICE_BROADCAST_FAILED, Description: Notice for task %s not delivered: %v", task.ID.Hex(), err)
	}

	return task, nil
}

// DuplicateTask copies an existing task field by field, suffixes the
// title, and notifies the source team about the new task.
func (s *TaskService) DuplicateTask(ctx context.Context, id primitive.ObjectID) (*models.Task, error) {
	source, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	copyTask := &models.Task{
		Title:      source.Title + " - Duplicate",
		Team:       source.Team,
		Stage:      source.Stage,
		Priority:   source.Priority,
		Date:       source.Date,
		Assets:     source.Assets,
		IsTrashed:  source.IsTrashed,
		Activities: source.Activities,
		SubTasks:   source.SubTasks,
	}

	if err := s.tasks.Create(ctx, copyTask); err != nil {
		return nil, err
	}

	text := buildAssignmentText(len(source.Team), source.Priority, source.Date)
	if err := s.notifier.Broadcast(ctx, source.Team, text, copyTask.ID); err != nil {
		logging.Logger.Warnf("Event ID: NOTICE_BROADCAST_FAILED, Description: Notice for task %s not delivered: %v", copyTask.ID.Hex(), err)
	}

	return copyTask, nil
}

// PostTaskActivity appends one activity entry to the task's log.
func (s *TaskService) PostTaskActivity(ctx context.Context, taskID primitive.ObjectID, actType, activity string, authorID primitive.ObjectID) error {
	if actType == "" {
		return models.NewValidationError("Activity type is required")
	}

	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return err
	}

	task.Activities = append(task.Activities, models.Activity{
		Type:     actType,
		Activity: activity,
		By:       authorID,
		Date:     time.Now(),
	})

	return s.tasks.Save(ctx, task)
}

// CreateSubTask appends one sub-task to the task.
func (s *TaskService) CreateSubTask(ctx context.Context, taskID primitive.ObjectID, title, tag string, date time.Time) error {
	task, err := s.tasks.FindByID(ctx, taskID)
	if err != nil {
		return err
	}

	task.SubTasks = append(task.SubTasks, models.SubTask{
		Title: title,
		Tag:   tag,
		Date:  date,
	})

	return s.tasks.Save(ctx, task)
}

// UpdateTask overwrites the task's mutable fields. Stage and priority
// are normalized to lower case; the type check on both happens at the
// decode boundary before this is called.
func (s *TaskService) UpdateTask(ctx context.Context, id primitive.ObjectID, in UpdateTaskInput) error {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return err
	}

	task.Title = in.Title
	task.Date = in.Date
	task.Priority = strings.ToLower(in.Priority)
	task.Assets = in.Assets
	task.Stage = strings.ToLower(in.Stage)
	task.Team = in.Team

	return s.tasks.Save(ctx, task)
}

// TrashTask is the state machine over trash/restore/delete/deleteAll/
// restoreAll. The id is required only for the single-task actions;
// delete on a missing id is a no-op.
func (s *TaskService) TrashTask(ctx context.Context, id primitive.ObjectID, actionType string) error {
	switch actionType {
	case "trash":
		task, err := s.tasks.FindByID(ctx, id)
		if err != nil {
			return err
		}
		task.IsTrashed = true
		return s.tasks.Save(ctx, task)

	case "restore":
		task, err := s.tasks.FindByID(ctx, id)
		if err != nil {
			return err
		}
		task.IsTrashed = false
		return s.tasks.Save(ctx, task)

	case "delete":
		return s.tasks.Delete(ctx, id)

	case "deleteAll":
		count, err := s.tasks.DeleteTrashed(ctx)
		if err != nil {
			return err
		}
		logging.Logger.Infof("Event ID: TRASH_EMPTIED, Description: Permanently deleted %d trashed tasks", count)
		return nil

	case "restoreAll":
		_, err := s.tasks.RestoreTrashed(ctx)
		return err

	default:
		return models.NewValidationError("invalid actionType")
	}
}

// GetTasks lists tasks by trash flag and optional stage, newest first,
// with each team id resolved to a minimal member projection.
func (s *TaskService) GetTasks(ctx context.Context, stage string, isTrashed bool) ([]models.TaskView, error) {
	tasks, err := s.tasks.Find(ctx, repositories.TaskFilter{
		IsTrashed: isTrashed,
		Stage:     strings.ToLower(stage),
	})
	if err != nil {
		return nil, err
	}

	members, err := s.teamIndex(ctx, tasks)
	if err != nil {
		return nil, err
	}

	views := make([]models.TaskView, 0, len(tasks))
	for _, task := range tasks {
		views = append(views, models.TaskView{
			Task: task,
			Team: projectTeam(task.Team, members, false),
		})
	}
	return views, nil
}

// GetTask returns one task with the team projected including role and
// every activity author resolved by name.
func (s *TaskService) GetTask(ctx context.Context, id primitive.ObjectID) (*models.TaskDetail, error) {
	task, err := s.tasks.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	ids := append([]primitive.ObjectID{}, task.Team...)
	for _, activity := range task.Activities {
		ids = append(ids, activity.By)
	}
	members, err := s.memberIndex(ctx, ids)
	if err != nil {
		return nil, err
	}

	activities := make([]models.ActivityView, 0, len(task.Activities))
	for _, activity := range task.Activities {
		author := models.ActivityAuthor{ID: activity.By}
		if member, ok := members[activity.By]; ok {
			author.Name = member.Name
		}
		activities = append(activities, models.ActivityView{
			Type:     activity.Type,
			Activity: activity.Activity,
			By:       author,
			Date:     activity.Date,
		})
	}

	return &models.TaskDetail{
		Task:       *task,
		Team:       projectTeam(task.Team, members, true),
		Activities: activities,
	}, nil
}

// teamIndex loads every user referenced by the given tasks' teams.
func (s *TaskService) teamIndex(ctx context.Context, tasks []models.Task) (map[primitive.ObjectID]models.User, error) {
	var ids []primitive.ObjectID
	for _, task := range tasks {
		ids = append(ids, task.Team...)
	}
	return s.memberIndex(ctx, ids)
}

func (s *TaskService) memberIndex(ctx context.Context, ids []primitive.ObjectID) (map[primitive.ObjectID]models.User, error) {
	seen := make(map[primitive.ObjectID]bool, len(ids))
	unique := ids[:0:0]
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			unique = append(unique, id)
		}
	}

	users, err := s.users.FindByIDs(ctx, unique)
	if err != nil {
		return nil, err
	}

	index := make(map[primitive.ObjectID]models.User, len(users))
	for _, user := range users {
		index[user.ID] = user
	}
	return index, nil
}

// projectTeam maps team ids to member projections, keeping task order.
// Users deleted since assignment are skipped.
func projectTeam(team []primitive.ObjectID, members map[primitive.ObjectID]models.User, withRole bool) []models.TeamMember {
	projected := make([]models.TeamMember, 0, len(team))
	for _, id := range team {
		user, ok := members[id]
		if !ok {
			continue
		}
		member := models.TeamMember{
			ID:    user.ID,
			Name:  user.Name,
			Title: user.Title,
			Email: user.Email,
		}
		if withRole {
			member.Role = user.Role
		}
		projected = append(projected, member)
	}
	return projected
}
