package mongostore

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/mmynk/shopboard/internal/apperr"
	"github.com/mmynk/shopboard/internal/models"
	"github.com/mmynk/shopboard/internal/storage"
)

// CreateProject inserts a project document. Tasks is always stored as an
// array so later $push updates have a field to append to.
func (s *MongoStore) CreateProject(ctx context.Context, project *models.Project) error {
	if err := project.Validate(); err != nil {
		return err
	}
	if project.ID == "" {
		project.ID = uuid.New().String()
	}
	if project.CreatedAt.IsZero() {
		project.CreatedAt = now()
	}
	if project.Tasks == nil {
		project.Tasks = []models.Task{}
	}
	for i := range project.Tasks {
		if err := prepareTask(&project.Tasks[i]); err != nil {
			return err
		}
	}

	if _, err := s.projects.InsertOne(ctx, project); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return fmt.Errorf("project %q: %w", project.ID, apperr.ErrConflict)
		}
		return fmt.Errorf("failed to insert project: %w", err)
	}
	return nil
}

// GetProject retrieves a project by ID.
func (s *MongoStore) GetProject(ctx context.Context, projectID string) (*models.Project, error) {
	project := &models.Project{}
	err := s.projects.FindOne(ctx, bson.M{"_id": projectID}).Decode(project)
	if isNoDocuments(err) {
		return nil, apperr.NotFound("project", projectID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	if project.Tasks == nil {
		project.Tasks = []models.Task{}
	}
	return project, nil
}

// ListProjects retrieves projects in creation order.
func (s *MongoStore) ListProjects(ctx context.Context, page storage.Page) ([]*models.Project, error) {
	cursor, err := s.projects.Find(ctx, bson.M{}, findOptions(page))
	if err != nil {
		return nil, fmt.Errorf("failed to list projects: %w", err)
	}

	projects := []*models.Project{}
	if err := cursor.All(ctx, &projects); err != nil {
		return nil, fmt.Errorf("failed to decode projects: %w", err)
	}
	if projects == nil {
		projects = []*models.Project{}
	}
	for _, p := range projects {
		if p.Tasks == nil {
			p.Tasks = []models.Task{}
		}
	}
	return projects, nil
}

// DeleteProject removes a project document and with it every task.
func (s *MongoStore) DeleteProject(ctx context.Context, projectID string) error {
	res, err := s.projects.DeleteOne(ctx, bson.M{"_id": projectID})
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if res.DeletedCount == 0 {
		return apperr.NotFound("project", projectID)
	}
	return nil
}

// AppendTask pushes the task onto the project's tasks array in a single
// server-side update.
func (s *MongoStore) AppendTask(ctx context.Context, projectID string, task *models.Task) (*models.Project, error) {
	if err := prepareTask(task); err != nil {
		return nil, err
	}

	return s.updateProject(ctx,
		bson.M{"_id": projectID},
		bson.M{"$push": bson.M{"tasks": task}},
		projectID, "",
	)
}

// SetTaskDone sets the done flag of the matched array element.
func (s *MongoStore) SetTaskDone(ctx context.Context, projectID, taskID string, done bool) (*models.Project, error) {
	return s.updateProject(ctx,
		bson.M{"_id": projectID, "tasks.id": taskID},
		bson.M{"$set": bson.M{"tasks.$.done": done}},
		projectID, taskID,
	)
}

// RemoveTask pulls the task out of the project's tasks array.
func (s *MongoStore) RemoveTask(ctx context.Context, projectID, taskID string) (*models.Project, error) {
	return s.updateProject(ctx,
		bson.M{"_id": projectID, "tasks.id": taskID},
		bson.M{"$pull": bson.M{"tasks": bson.M{"id": taskID}}},
		projectID, taskID,
	)
}

// updateProject applies update to the project matched by filter and returns
// the document after the update. When nothing matches it reports whether the
// project or the task was missing.
func (s *MongoStore) updateProject(ctx context.Context, filter, update bson.M, projectID, taskID string) (*models.Project, error) {
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	project := &models.Project{}
	err := s.projects.FindOneAndUpdate(ctx, filter, update, opts).Decode(project)
	if isNoDocuments(err) {
		if taskID == "" {
			return nil, apperr.NotFound("project", projectID)
		}
		if _, getErr := s.GetProject(ctx, projectID); getErr != nil {
			return nil, getErr
		}
		return nil, apperr.NotFound("task", taskID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	if project.Tasks == nil {
		project.Tasks = []models.Task{}
	}
	return project, nil
}

func prepareTask(task *models.Task) error {
	if err := task.Validate(); err != nil {
		return err
	}
	if task.ID == "" {
		task.ID = uuid.New().String()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = now()
	}
	task.Deadline = task.Deadline.UTC().Truncate(time.Millisecond)
	return nil
}
