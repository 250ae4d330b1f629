package models

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/mmynk/shopboard/internal/apperr"
)

func TestProductValidate(t *testing.T) {
	tests := []struct {
		name      string
		product   Product
		wantField string
	}{
		{"valid", Product{Name: "Mug", Price: 12.5}, ""},
		{"free product is allowed", Product{Name: "Sticker", Price: 0}, ""},
		{"missing name", Product{Price: 3}, "name"},
		{"blank name", Product{Name: "   ", Price: 3}, "name"},
		{"negative price", Product{Name: "Mug", Price: -1}, "price"},
		{"NaN price", Product{Name: "Mug", Price: math.NaN()}, "price"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.product.Validate()
			checkField(t, err, tt.wantField)
		})
	}
}

func TestProjectValidate(t *testing.T) {
	tests := []struct {
		name      string
		project   Project
		wantField string
	}{
		{"valid", Project{Name: "Website", Description: "Relaunch"}, ""},
		{"missing name", Project{Description: "Relaunch"}, "name"},
		{"missing description", Project{Name: "Website"}, "description"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			checkField(t, tt.project.Validate(), tt.wantField)
		})
	}
}

func TestTaskValidate(t *testing.T) {
	deadline := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	checkField(t, (&Task{Name: "Design", Deadline: deadline}).Validate(), "")
	checkField(t, (&Task{Deadline: deadline}).Validate(), "name")
	checkField(t, (&Task{Name: "Design"}).Validate(), "deadline")
}

func TestLineItemValidate(t *testing.T) {
	checkField(t, LineItem{Name: "Mug", Price: 10, Quantity: 2}.Validate(0), "")
	checkField(t, LineItem{Price: 10, Quantity: 2}.Validate(1), "items[1].name")
	checkField(t, LineItem{Name: "Mug", Price: -10, Quantity: 2}.Validate(0), "items[0].price")
	checkField(t, LineItem{Name: "Mug", Price: 10}.Validate(2), "items[2].quantity")
}

func TestFindTask(t *testing.T) {
	p := Project{Tasks: []Task{{ID: "a"}, {ID: "b"}}}
	if got := p.FindTask("b"); got != 1 {
		t.Errorf("FindTask(b) = %d, want 1", got)
	}
	if got := p.FindTask("missing"); got != -1 {
		t.Errorf("FindTask(missing) = %d, want -1", got)
	}
}

func TestNewUserNormalizesEmail(t *testing.T) {
	u := NewUser("  Alice@Example.COM ", "hash")
	if u.Email != "alice@example.com" {
		t.Errorf("email: got %q", u.Email)
	}
	if u.ID == "" {
		t.Error("expected generated ID")
	}
	if u.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func checkField(t *testing.T, err error, wantField string) {
	t.Helper()
	if wantField == "" {
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		return
	}
	if !errors.Is(err, apperr.ErrValidation) {
		t.Fatalf("expected validation error for %s, got %v", wantField, err)
	}
	var verr *apperr.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if verr.Field != wantField {
		t.Errorf("field: expected %q, got %q", wantField, verr.Field)
	}
}
