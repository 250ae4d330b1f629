package sqlite

import (
	"context"
	"errors"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mmynk/shopboard/internal/apperr"
	"github.com/mmynk/shopboard/internal/models"
	"github.com/mmynk/shopboard/internal/storage"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "test.db")
	store, err := New(dbPath)
	if err != nil {
		t.Fatalf("Failed to create store: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestProducts(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	t.Run("CreateProduct generates ID and timestamp", func(t *testing.T) {
		product := &models.Product{Name: "Mug", Price: 12.5, Description: "Ceramic"}

		if err := store.CreateProduct(ctx, product); err != nil {
			t.Fatalf("CreateProduct failed: %v", err)
		}
		if product.ID == "" {
			t.Error("Expected product ID to be generated")
		}
		if product.CreatedAt.IsZero() {
			t.Error("Expected CreatedAt to be set")
		}

		got, err := store.GetProduct(ctx, product.ID)
		if err != nil {
			t.Fatalf("GetProduct failed: %v", err)
		}
		if got.Name != "Mug" || got.Price != 12.5 || got.Description != "Ceramic" {
			t.Errorf("Product mismatch: got %+v", got)
		}
		if !got.CreatedAt.Equal(product.CreatedAt) {
			t.Errorf("CreatedAt mismatch: got %v, want %v", got.CreatedAt, product.CreatedAt)
		}
	})

	t.Run("CreateProduct rejects negative price", func(t *testing.T) {
		err := store.CreateProduct(ctx, &models.Product{Name: "Broken", Price: -1})
		if !errors.Is(err, apperr.ErrValidation) {
			t.Errorf("Expected validation error, got %v", err)
		}
	})

	t.Run("GetProduct returns ErrNotFound", func(t *testing.T) {
		_, err := store.GetProduct(ctx, "nonexistent-id")
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("DeleteProduct", func(t *testing.T) {
		product := &models.Product{Name: "Temporary", Price: 1}
		if err := store.CreateProduct(ctx, product); err != nil {
			t.Fatalf("CreateProduct failed: %v", err)
		}
		if err := store.DeleteProduct(ctx, product.ID); err != nil {
			t.Fatalf("DeleteProduct failed: %v", err)
		}
		if _, err := store.GetProduct(ctx, product.ID); !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("Expected deleted product to be gone, got %v", err)
		}
		if err := store.DeleteProduct(ctx, product.ID); !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("Expected ErrNotFound on second delete, got %v", err)
		}
	})
}

func TestListProductsCreationOrderAndPaging(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	names := []string{"A", "B", "C", "D"}
	for _, name := range names {
		if err := store.CreateProduct(ctx, &models.Product{Name: name, Price: 1}); err != nil {
			t.Fatalf("CreateProduct(%s) failed: %v", name, err)
		}
	}

	all, err := store.ListProducts(ctx, storage.Page{})
	if err != nil {
		t.Fatalf("ListProducts failed: %v", err)
	}
	if len(all) != len(names) {
		t.Fatalf("Expected %d products, got %d", len(names), len(all))
	}
	for i, p := range all {
		if p.Name != names[i] {
			t.Errorf("position %d: got %s, want %s", i, p.Name, names[i])
		}
	}

	page, err := store.ListProducts(ctx, storage.Page{Limit: 2, Offset: 1})
	if err != nil {
		t.Fatalf("ListProducts page failed: %v", err)
	}
	if len(page) != 2 || page[0].Name != "B" || page[1].Name != "C" {
		t.Errorf("Unexpected page: %v", productNames(page))
	}
}

func TestUsers(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	user := models.NewUser("alice@example.com", "hash")
	if err := store.CreateUser(ctx, user); err != nil {
		t.Fatalf("CreateUser failed: %v", err)
	}

	t.Run("lookup by email is case-insensitive", func(t *testing.T) {
		got, err := store.GetUserByEmail(ctx, "Alice@Example.com")
		if err != nil {
			t.Fatalf("GetUserByEmail failed: %v", err)
		}
		if got.ID != user.ID {
			t.Errorf("ID mismatch: got %s, want %s", got.ID, user.ID)
		}
		if got.PasswordHash != "hash" {
			t.Errorf("PasswordHash mismatch: got %s", got.PasswordHash)
		}
	})

	t.Run("lookup by ID", func(t *testing.T) {
		got, err := store.GetUserByID(ctx, user.ID)
		if err != nil {
			t.Fatalf("GetUserByID failed: %v", err)
		}
		if got.Email != "alice@example.com" {
			t.Errorf("Email mismatch: got %s", got.Email)
		}
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		err := store.CreateUser(ctx, models.NewUser("ALICE@example.com", "other"))
		if !errors.Is(err, apperr.ErrConflict) {
			t.Fatalf("Expected ErrConflict, got %v", err)
		}
	})

	t.Run("unknown user", func(t *testing.T) {
		if _, err := store.GetUserByEmail(ctx, "nobody@example.com"); !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
		if _, err := store.GetUserByID(ctx, "missing"); !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})
}

func TestOrders(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	order := &models.Order{
		UserID:   "user-1",
		Currency: "usd",
		Status:   models.OrderStatusPending,
		Total:    25,
		Items: []models.LineItem{
			{ProductID: "p-1", Name: "Mug", Price: 10, Quantity: 2},
			{Name: "Sticker", Price: 5, Quantity: 1},
		},
		PaymentSessionID: "cs_test",
	}
	if err := store.CreateOrder(ctx, order); err != nil {
		t.Fatalf("CreateOrder failed: %v", err)
	}

	got, err := store.GetOrder(ctx, order.ID)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if got.UserID != "user-1" || got.Total != 25 || got.Status != models.OrderStatusPending {
		t.Errorf("Order mismatch: %+v", got)
	}
	if len(got.Items) != 2 {
		t.Fatalf("Items count mismatch: got %d, want 2", len(got.Items))
	}
	if got.Items[0].ProductID != "p-1" || got.Items[1].ProductID != "" {
		t.Errorf("ProductID mismatch: %+v", got.Items)
	}
	if got.Items[1].Name != "Sticker" {
		t.Errorf("Items out of order: %+v", got.Items)
	}

	if _, err := store.GetOrder(ctx, "missing"); !errors.Is(err, apperr.ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}

func TestProjects(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	deadline := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	project := &models.Project{Name: "Website", Description: "Relaunch"}
	if err := store.CreateProject(ctx, project); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	t.Run("new project has empty task list", func(t *testing.T) {
		got, err := store.GetProject(ctx, project.ID)
		if err != nil {
			t.Fatalf("GetProject failed: %v", err)
		}
		if got.Tasks == nil || len(got.Tasks) != 0 {
			t.Errorf("Expected empty non-nil tasks, got %v", got.Tasks)
		}
	})

	t.Run("AppendTask adds to the end", func(t *testing.T) {
		first := &models.Task{Name: "Research", Deadline: deadline}
		if _, err := store.AppendTask(ctx, project.ID, first); err != nil {
			t.Fatalf("AppendTask failed: %v", err)
		}

		updated, err := store.AppendTask(ctx, project.ID, &models.Task{Name: "Design", Deadline: deadline})
		if err != nil {
			t.Fatalf("AppendTask failed: %v", err)
		}
		if len(updated.Tasks) != 2 {
			t.Fatalf("Expected 2 tasks, got %d", len(updated.Tasks))
		}
		last := updated.Tasks[1]
		if last.Name != "Design" || !last.Deadline.Equal(deadline) || last.Done {
			t.Errorf("Unexpected last task: %+v", last)
		}
		if updated.Tasks[0].ID != first.ID {
			t.Errorf("First task moved: %+v", updated.Tasks[0])
		}
	})

	t.Run("AppendTask on missing project", func(t *testing.T) {
		_, err := store.AppendTask(ctx, "missing", &models.Task{Name: "Design", Deadline: deadline})
		if !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
	})

	t.Run("SetTaskDone and RemoveTask", func(t *testing.T) {
		current, err := store.GetProject(ctx, project.ID)
		if err != nil {
			t.Fatalf("GetProject failed: %v", err)
		}
		taskID := current.Tasks[0].ID

		updated, err := store.SetTaskDone(ctx, project.ID, taskID, true)
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
		if len(updated.Tasks) != len(current.Tasks)-1 {
			t.Errorf("Expected %d tasks, got %d", len(current.Tasks)-1, len(updated.Tasks))
		}

		if _, err := store.RemoveTask(ctx, project.ID, taskID); !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("Expected ErrNotFound for removed task, got %v", err)
		}
		if _, err := store.SetTaskDone(ctx, "missing", taskID, true); !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("Expected ErrNotFound for missing project, got %v", err)
		}
	})

	t.Run("ListProjects includes tasks", func(t *testing.T) {
		other := &models.Project{Name: "Mobile", Description: "App"}
		if err := store.CreateProject(ctx, other); err != nil {
			t.Fatalf("CreateProject failed: %v", err)
		}

		projects, err := store.ListProjects(ctx, storage.Page{})
		if err != nil {
			t.Fatalf("ListProjects failed: %v", err)
		}
		if len(projects) != 2 {
			t.Fatalf("Expected 2 projects, got %d", len(projects))
		}
		if projects[0].ID != project.ID || len(projects[0].Tasks) != 1 {
			t.Errorf("Unexpected first project: %+v", projects[0])
		}
		if projects[1].Tasks == nil {
			t.Error("Expected non-nil tasks for project without tasks")
		}
	})

	t.Run("DeleteProject cascades", func(t *testing.T) {
		if err := store.DeleteProject(ctx, project.ID); err != nil {
			t.Fatalf("DeleteProject failed: %v", err)
		}
		if _, err := store.GetProject(ctx, project.ID); !errors.Is(err, apperr.ErrNotFound) {
			t.Errorf("Expected ErrNotFound, got %v", err)
		}
		var count int
		if err := store.db.QueryRow("SELECT COUNT(*) FROM tasks WHERE project_id = ?", project.ID).Scan(&count); err != nil {
			t.Fatalf("count tasks: %v", err)
		}
		if count != 0 {
			t.Errorf("Expected tasks to be deleted, found %d", count)
		}
	})
}

func TestTaskDeadlineRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	project := &models.Project{Name: "Archive", Description: "Long-range"}
	if err := store.CreateProject(ctx, project); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	deadlines := []time.Time{
		time.Date(3000, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(1600, 6, 15, 12, 30, 0, 0, time.UTC),
		time.Date(2024, 5, 1, 8, 0, 0, 123456789, time.UTC),
	}
	for _, d := range deadlines {
		if _, err := store.AppendTask(ctx, project.ID, &models.Task{Name: "Milestone", Deadline: d}); err != nil {
			t.Fatalf("AppendTask(%v) failed: %v", d, err)
		}
	}

	got, err := store.GetProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if len(got.Tasks) != len(deadlines) {
		t.Fatalf("Expected %d tasks, got %d", len(deadlines), len(got.Tasks))
	}
	for i, d := range deadlines {
		if !got.Tasks[i].Deadline.Equal(d) {
			t.Errorf("task %d: deadline = %v, want %v", i, got.Tasks[i].Deadline, d)
		}
	}
}

func TestListProjectsAcrossTaskBatches(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()
	deadline := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	total := 2*taskBatchSize + 1
	var last *models.Project
	for i := 0; i < total; i++ {
		last = &models.Project{Name: "Project", Description: "Batch"}
		if err := store.CreateProject(ctx, last); err != nil {
			t.Fatalf("CreateProject %d failed: %v", i, err)
		}
	}
	if _, err := store.AppendTask(ctx, last.ID, &models.Task{Name: "Ship", Deadline: deadline}); err != nil {
		t.Fatalf("AppendTask failed: %v", err)
	}

	projects, err := store.ListProjects(ctx, storage.Page{})
	if err != nil {
		t.Fatalf("ListProjects failed: %v", err)
	}
	if len(projects) != total {
		t.Fatalf("Expected %d projects, got %d", total, len(projects))
	}
	got := projects[total-1]
	if got.ID != last.ID || len(got.Tasks) != 1 || got.Tasks[0].Name != "Ship" {
		t.Errorf("Unexpected last project: %+v", got)
	}
}

func TestAppendTaskConcurrent(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	project := &models.Project{Name: "Busy", Description: "Many writers"}
	if err := store.CreateProject(ctx, project); err != nil {
		t.Fatalf("CreateProject failed: %v", err)
	}

	const writers = 20
	var wg sync.WaitGroup
	errs := make(chan error, writers)
	for i := 0; i < writers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.AppendTask(ctx, project.ID, &models.Task{Name: "task", Deadline: time.Now()})
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		if err != nil {
			t.Fatalf("AppendTask failed: %v", err)
		}
	}

	got, err := store.GetProject(ctx, project.ID)
	if err != nil {
		t.Fatalf("GetProject failed: %v", err)
	}
	if len(got.Tasks) != writers {
		t.Errorf("Expected %d tasks, got %d", writers, len(got.Tasks))
	}
}

func TestRepeatPlaceholder(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{0, ""},
		{-1, ""},
		{1, ", ?"},
		{3, ", ?, ?, ?"},
	}

	for _, tt := range tests {
		if got := repeatPlaceholder(tt.n); got != tt.want {
			t.Errorf("repeatPlaceholder(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}

func productNames(products []*models.Product) []string {
	names := make([]string, len(products))
	for i, p := range products {
		names[i] = p.Name
	}
	return names
}
