package models

import (
	"strings"
	"time"

	"github.com/mmynk/shopboard/internal/apperr"
)

// Project is a board that owns an ordered sequence of tasks.
// Tasks are stored inside the project document and share its lifecycle.
type Project struct {
	ID          string    `json:"id" bson:"_id"`
	Name        string    `json:"name" bson:"name"`
	Description string    `json:"description" bson:"description"`
	Tasks       []Task    `json:"tasks" bson:"tasks"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
}

// Validate checks the fields a store requires before insert.
func (p *Project) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return apperr.Required("name")
	}
	if strings.TrimSpace(p.Description) == "" {
		return apperr.Required("description")
	}
	return nil
}

// Task is an entry on a project. Its ID is unique within the project.
type Task struct {
	ID        string    `json:"id" bson:"id"`
	Name      string    `json:"name" bson:"name"`
	Deadline  time.Time `json:"deadline" bson:"deadline"`
	Done      bool      `json:"done" bson:"done"`
	CreatedAt time.Time `json:"createdAt" bson:"created_at"`
}

// Validate checks the fields a store requires before append.
func (t *Task) Validate() error {
	if strings.TrimSpace(t.Name) == "" {
		return apperr.Required("name")
	}
	if t.Deadline.IsZero() {
		return apperr.Required("deadline")
	}
	return nil
}

// FindTask returns the index of the task with the given ID, or -1.
func (p *Project) FindTask(taskID string) int {
	for i := range p.Tasks {
		if p.Tasks[i].ID == taskID {
			return i
		}
	}
	return -1
}
