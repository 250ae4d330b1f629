package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/shopboard/internal/apperr"
	"github.com/mmynk/shopboard/internal/models"
	"github.com/mmynk/shopboard/internal/storage"
)

// querier is satisfied by both *sql.DB and *sql.Tx.
type querier interface {
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

// CreateProject persists a new project together with any initial tasks.
func (s *SQLiteStore) CreateProject(ctx context.Context, project *models.Project) error {
	if err := project.Validate(); err != nil {
		return err
	}
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	if project.CreatedAt.IsZero() {
		project.CreatedAt = time.Now().UTC()
	}
	if project.Tasks == nil {
		project.Tasks = []models.Task{}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO projects (id, name, description, created_at) VALUES (?, ?, ?, ?)",
		project.ID, project.Name, project.Description, toNanos(project.CreatedAt),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("project %q: %w", project.ID, apperr.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}

	for i := range project.Tasks {
		if err := insertTask(ctx, tx, project.ID, &project.Tasks[i]); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetProject retrieves a project by ID, including its tasks in sequence order.
func (s *SQLiteStore) GetProject(ctx context.Context, projectID string) (*models.Project, error) {
	project := &models.Project{}
	var createdAt int64

	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, created_at FROM projects WHERE id = ?",
		projectID,
	).Scan(&project.ID, &project.Name, &project.Description, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("project", projectID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	project.CreatedAt = fromNanos(createdAt)

	tasks, err := s.loadTasks(ctx, []string{project.ID})
	if err != nil {
		return nil, err
	}
	project.Tasks = tasks[project.ID]
	if project.Tasks == nil {
		project.Tasks = []models.Task{}
	}

	return project, nil
}

// ListProjects retrieves projects in creation order, each with its tasks.
func (s *SQLiteStore) ListProjects(ctx context.Context, page storage.Page) ([]*models.Project, error) {
	limit, offset := limitOffset(page)
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, description, created_at
		 FROM projects ORDER BY created_at, rowid LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	projects := []*models.Project{}
	for rows.Next() {
		project := &models.Project{}
		var createdAt int64
		if err := rows.Scan(&project.ID, &project.Name, &project.Description, &createdAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan project: %w", err)
		}
		project.CreatedAt = fromNanos(createdAt)
		projects = append(projects, project)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate projects: %w", err)
	}

	if len(projects) == 0 {
		return projects, nil
	}

	ids := make([]string, len(projects))
	for i, p := range projects {
		ids[i] = p.ID
	}
	tasks, err := s.loadTasks(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, p := range projects {
		p.Tasks = tasks[p.ID]
		if p.Tasks == nil {
			p.Tasks = []models.Task{}
		}
	}

	return projects, nil
}

// DeleteProject removes a project; its tasks go with it via ON DELETE CASCADE.
func (s *SQLiteStore) DeleteProject(ctx context.Context, projectID string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM projects WHERE id = ?", projectID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if n == 0 {
		return apperr.NotFound("project", projectID)
	}
	return nil
}

// AppendTask adds a task at the end of the project's sequence. The existence
// check and the insert run in one transaction.
func (s *SQLiteStore) AppendTask(ctx context.Context, projectID string, task *models.Task) (*models.Project, error) {
	if err := task.Validate(); err != nil {
		return nil, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := projectExists(ctx, tx, projectID); err != nil {
		return nil, err
	}
	if err := insertTask(ctx, tx, projectID, task); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return s.GetProject(ctx, projectID)
}

// SetTaskDone updates a task's done flag.
func (s *SQLiteStore) SetTaskDone(ctx context.Context, projectID, taskID string, done bool) (*models.Project, error) {
	res, err := s.db.ExecContext(ctx,
		"UPDATE tasks SET done = ? WHERE project_id = ? AND id = ?",
		done, projectID, taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}
	if err := s.checkTaskAffected(ctx, res, projectID, taskID); err != nil {
		return nil, err
	}
	return s.GetProject(ctx, projectID)
}

// RemoveTask deletes a task. Remaining tasks keep their relative order.
func (s *SQLiteStore) RemoveTask(ctx context.Context, projectID, taskID string) (*models.Project, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM tasks WHERE project_id = ? AND id = ?",
		projectID, taskID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to delete task: %w", err)
	}
	if err := s.checkTaskAffected(ctx, res, projectID, taskID); err != nil {
		return nil, err
	}
	return s.GetProject(ctx, projectID)
}

// checkTaskAffected turns a zero-row task mutation into the right not-found error.
func (s *SQLiteStore) checkTaskAffected(ctx context.Context, res sql.Result, projectID, taskID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n > 0 {
		return nil
	}
	if err := projectExists(ctx, s.db, projectID); err != nil {
		return err
	}
	return apperr.NotFound("task", taskID)
}

func projectExists(ctx context.Context, q querier, projectID string) error {
	var exists int
	err := q.QueryRowContext(ctx, "SELECT 1 FROM projects WHERE id = ?", projectID).Scan(&exists)
	if errors.Is(err, sql.ErrNoRows) {
		return apperr.NotFound("project", projectID)
	}
	if err != nil {
		return fmt.Errorf("failed to check project existence: %w", err)
	}
	return nil
}

// insertTask writes a task at the next free position of its project.
func insertTask(ctx context.Context, q querier, projectID string, task *models.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}
	task.Deadline = task.Deadline.UTC()

	_, err := q.ExecContext(ctx,
		`INSERT INTO tasks (id, project_id, position, name, deadline, done, created_at)
		 VALUES (?, ?, (SELECT COALESCE(MAX(position), -1) + 1 FROM tasks WHERE project_id = ?), ?, ?, ?, ?)`,
		task.ID, projectID, projectID, task.Name, toText(task.Deadline), task.Done, toNanos(task.CreatedAt),
	)
	if isUniqueViolation(err) {
		return fmt.Errorf("task %q: %w", task.ID, apperr.ErrConflict)
	}
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

// taskBatchSize bounds the IN clause of a single task query.
const taskBatchSize = 500

// loadTasks fetches the tasks of the given projects keyed by project ID.
func (s *SQLiteStore) loadTasks(ctx context.Context, projectIDs []string) (map[string][]models.Task, error) {
	tasks := make(map[string][]models.Task, len(projectIDs))
	for start := 0; start < len(projectIDs); start += taskBatchSize {
		end := min(start+taskBatchSize, len(projectIDs))
		if err := s.loadTaskBatch(ctx, projectIDs[start:end], tasks); err != nil {
			return nil, err
		}
	}
	return tasks, nil
}

func (s *SQLiteStore) loadTaskBatch(ctx context.Context, projectIDs []string, tasks map[string][]models.Task) error {
	query := `SELECT project_id, id, name, deadline, done, created_at
		FROM tasks WHERE project_id IN (?` + repeatPlaceholder(len(projectIDs)-1) + `)
		ORDER BY project_id, position`

	args := make([]interface{}, len(projectIDs))
	for i, id := range projectIDs {
		args[i] = id
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to get tasks: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var projectID string
		var task models.Task
		var deadline string
		var createdAt int64
		if err := rows.Scan(&projectID, &task.ID, &task.Name, &deadline, &task.Done, &createdAt); err != nil {
			return fmt.Errorf("failed to scan task: %w", err)
		}
		if task.Deadline, err = fromText(deadline); err != nil {
			return err
		}
		task.CreatedAt = fromNanos(createdAt)
		tasks[projectID] = append(tasks[projectID], task)
	}

	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to iterate tasks: %w", err)
	}

	return nil
}
