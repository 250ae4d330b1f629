package mongostore

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/mmynk/shopboard/internal/apperr"
	"github.com/mmynk/shopboard/internal/models"
	"github.com/mmynk/shopboard/internal/storage"
)

// newTestStore connects to the deployment in MONGO_URI using a throwaway
// database. Tests are skipped when MONGO_URI is unset.
func newTestStore(t *testing.T) *MongoStore {
	t.Helper()

	uri := os.Getenv("MONGO_URI")
	if uri == "" {
		t.Skip("MONGO_URI not set; skipping MongoDB integration tests")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	dbName := fmt.Sprintf("shopboard_test_%d", time.Now().UnixNano())
	store, err := New(ctx, uri, dbName)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() {
		store.client.Database(dbName).Drop(context.Background())
		store.Close()
	})
	return store
}

func TestProductsAndUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	for _, name := range []string{"A", "B", "C"} {
		if err := store.CreateProduct(ctx, &models.Product{Name: name, Price: 2}); err != nil {
			t.Fatalf("CreateProduct(%s) failed: %v", name, err)
		}
	}

	products, err := store.ListProducts(ctx, storage.Page{})
	if err != nil {
		t.Fatalf("ListProducts failed: %v", err)
	}
	if len(products) != 3 {
		t.Fatalf("Expected 3 products, got %d", len(products))
	}

	got, err := store.GetProduct(ctx, products[1].ID)
	if err != nil {
		t.Fatalf("GetProduct failed: %v", err)
	}
	if got.Name != products[1].Name {
		t.Errorf("Name mismatch: got %s, want %s", got.Name, products[1].Name)
	}

	if _, err := store.GetProduct(ctx, "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}

	if err := store.CreateUser(ctx, models.NewUser("bob@example.com", "hash")); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}
	if err := store.CreateUser(ctx, models.NewUser("Bob@Example.com", "hash")); !errors.Is(err, apperr.ErrConflict) {
		t.Errorf("Expected ErrConflict, got %v", err)
	}
}

func TestProjectTasks(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	deadline := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	project := &models.Project{Name: "Website", Description: "Relaunch"}
	if err := store.CreateProject(ctx, project); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	updated, err := store.AppendTask(ctx, project.ID, &models.Task{Name: "Design", Deadline: deadline})
	if err != nil {
		t.Fatalf("AppendTask failed: %v", err)
	}
	if len(updated.Tasks) != 1 || updated.Tasks[0].Name != "Design" || !updated.Tasks[0].Deadline.Equal(deadline) {
		t.Fatalf("Unexpected tasks: %+v", updated.Tasks)
	}
	taskID := updated.Tasks[0].ID

	updated, err = store.SetTaskDone(ctx, project.ID, taskID, true)
	if err != nil {
		t.Fatalf("SetTaskDone failed: %v", err)
	}
	if !updated.Tasks[0].Done {
		t.Error("Expected task to be done")
	}

	updated, err = store.RemoveTask(ctx, project.ID, taskID)
	if err != nil {
		t.Fatalf("RemoveTask failed: %v", err)
	}
	if len(updated.Tasks) != 0 {
		t.Errorf("Expected no tasks, got %d", len(updated.Tasks))
	}

	if _, err := store.AppendTask(ctx, "missing", &models.Task{Name: "x", Deadline: deadline}); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing project, got %v", err)
	}
	if _, err := store.RemoveTask(ctx, project.ID, taskID); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for missing task, got %v", err)
	}
}
