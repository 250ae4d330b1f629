package service

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/mmynk/shopboard/internal/apperr"
	"github.com/mmynk/shopboard/internal/models"
	"github.com/mmynk/shopboard/internal/storage"
)

// DeadlineLayout is the date-only form accepted for task deadlines.
const DeadlineLayout = "2006-01-02"

// ProjectInput is the client-supplied data for a new project.
type ProjectInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// TaskInput is the client-supplied data for a new task. Deadline is either
// a date (YYYY-MM-DD) or an RFC 3339 timestamp.
type TaskInput struct {
	Name     string `json:"name"`
	Deadline string `json:"deadline"`
}

// TaskUpdate is the client-supplied change to an existing task.
type TaskUpdate struct {
	Done *bool `json:"done"`
}

// ProjectService manages projects and the tasks embedded in them.
type ProjectService struct {
	store storage.ProjectStore
}

// NewProjectService creates a new ProjectService with the given storage backend.
func NewProjectService(store storage.ProjectStore) *ProjectService {
	return &ProjectService{store: store}
}

// CreateProject validates the input and persists a project with no tasks.
func (s *ProjectService) CreateProject(ctx context.Context, in ProjectInput) (*models.Project, error) {
	slog.Info("CreateProject request received", "name", in.Name)

	project := &models.Project{
		Name:        in.Name,
		Description: in.Description,
		Tasks:       []models.Task{},
	}
	if err := project.Validate(); err != nil {
		return nil, err
	}

	if err := s.store.CreateProject(ctx, project); err != nil {
		slog.Error("CreateProject failed", "error", err)
		return nil, err
	}

	slog.Info("Project created", "project_id", project.ID)
	return project, nil
}

// GetProject retrieves a project by ID.
func (s *ProjectService) GetProject(ctx context.Context, projectID string) (*models.Project, error) {
	project, err := s.store.GetProject(ctx, projectID)
	if err != nil {
		slog.Warn("GetProject failed", "project_id", projectID, "error", err)
		return nil, err
	}
	return project, nil
}

// ListProjects retrieves projects in creation order.
func (s *ProjectService) ListProjects(ctx context.Context, page storage.Page) ([]*models.Project, error) {
	if err := page.Validate(); err != nil {
		return nil, err
	}

	projects, err := s.store.ListProjects(ctx, page)
	if err != nil {
		slog.Error("ListProjects failed", "error", err)
		return nil, err
	}

	slog.Debug("ListProjects successful", "count", len(projects))
	return projects, nil
}

// DeleteProject removes a project and its tasks.
func (s *ProjectService) DeleteProject(ctx context.Context, projectID string) error {
	if err := s.store.DeleteProject(ctx, projectID); err != nil {
		slog.Warn("DeleteProject failed", "project_id", projectID, "error", err)
		return err
	}

	slog.Info("Project deleted", "project_id", projectID)
	return nil
}

// AddTask appends a task to the end of the project's sequence and returns
// the updated project.
func (s *ProjectService) AddTask(ctx context.Context, projectID string, in TaskInput) (*models.Project, error) {
	slog.Info("AddTask request received", "project_id", projectID, "name", in.Name)

	if strings.TrimSpace(in.Name) == "" {
		return nil, apperr.Required("name")
	}
	deadline, err := ParseDeadline(in.Deadline)
	if err != nil {
		return nil, err
	}

	task := &models.Task{Name: in.Name, Deadline: deadline}
	project, err := s.store.AppendTask(ctx, projectID, task)
	if err != nil {
		slog.Warn("AddTask failed", "project_id", projectID, "error", err)
		return nil, err
	}

	slog.Info("Task added", "project_id", projectID, "task_id", task.ID, "tasks_count", len(project.Tasks))
	return project, nil
}

// UpdateTask applies a TaskUpdate and returns the updated project.
func (s *ProjectService) UpdateTask(ctx context.Context, projectID, taskID string, in TaskUpdate) (*models.Project, error) {
	if in.Done == nil {
		return nil, apperr.Required("done")
	}

	project, err := s.store.SetTaskDone(ctx, projectID, taskID, *in.Done)
	if err != nil {
		slog.Warn("UpdateTask failed", "project_id", projectID, "task_id", taskID, "error", err)
		return nil, err
	}

	slog.Info("Task updated", "project_id", projectID, "task_id", taskID, "done", *in.Done)
	return project, nil
}

// RemoveTask deletes a task and returns the updated project.
func (s *ProjectService) RemoveTask(ctx context.Context, projectID, taskID string) (*models.Project, error) {
	project, err := s.store.RemoveTask(ctx, projectID, taskID)
	if err != nil {
		slog.Warn("RemoveTask failed", "project_id", projectID, "task_id", taskID, "error", err)
		return nil, err
	}

	slog.Info("Task removed", "project_id", projectID, "task_id", taskID)
	return project, nil
}

// ParseDeadline accepts YYYY-MM-DD or RFC 3339 and returns the time in UTC.
func ParseDeadline(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, apperr.Required("deadline")
	}
	if t, err := time.Parse(DeadlineLayout, s); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	return time.Time{}, apperr.Invalid("deadline", "must be a date (YYYY-MM-DD) or RFC 3339 timestamp")
}
