package auth

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/shopboard/internal/apperr"
	"github.com/mmynk/shopboard/internal/models"
)

// memoryUsers is a UserStorage that enforces email uniqueness like the real stores.
type memoryUsers struct {
	mu    sync.Mutex
	users map[string]*models.User
}

func newMemoryUsers() *memoryUsers {
	return &memoryUsers{users: make(map[string]*models.User)}
}

func (m *memoryUsers) CreateUser(ctx context.Context, user *models.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.users[user.Email]; ok {
		return apperr.ErrConflict
	}
	m.users[user.Email] = user
	return nil
}

func (m *memoryUsers) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	user, ok := m.users[models.NormalizeEmail(email)]
	if !ok {
		return nil, apperr.NotFound("user", email)
	}
	return user, nil
}

func newTestAuthenticator() (*PasswordAuthenticator, *memoryUsers) {
	users := newMemoryUsers()
	a := NewPasswordAuthenticator(users)
	a.cost = bcrypt.MinCost
	return a, users
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("hashes password", func(t *testing.T) {
		a, _ := newTestAuthenticator()
		user, err := a.Register(ctx, "alice@example.com", "correct horse")
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if user.PasswordHash == "correct horse" || user.PasswordHash == "" {
			t.Errorf("expected bcrypt hash, got %q", user.PasswordHash)
		}
	})

	t.Run("duplicate email conflicts", func(t *testing.T) {
		a, users := newTestAuthenticator()
		if _, err := a.Register(ctx, "alice@example.com", "password1"); err != nil {
			t.Fatalf("first Register failed: %v", err)
		}
		_, err := a.Register(ctx, "Alice@example.com", "password2")
		if !errors.Is(err, apperr.ErrConflict) {
			t.Fatalf("expected ErrConflict, got %v", err)
		}
		if len(users.users) != 1 {
			t.Errorf("expected exactly one user, got %d", len(users.users))
		}
	})

	invalid := []struct {
		name      string
		email     string
		password  string
		wantField string
	}{
		{"missing email", "", "password1", "email"},
		{"malformed email", "not-an-email", "password1", "email"},
		{"missing password", "bob@example.com", "", "password"},
		{"short password", "bob@example.com", "short", "password"},
		{"password over bcrypt limit", "bob@example.com", strings.Repeat("x", MaxPasswordBytes+1), "password"},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newTestAuthenticator()
			_, err := a.Register(ctx, tt.email, tt.password)
			var verr *apperr.ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("field: expected %q, got %q", tt.wantField, verr.Field)
			}
		})
	}
}

func TestAuthenticate(t *testing.T) {
	ctx := context.Background()
	a, _ := newTestAuthenticator()
	registered, err := a.Register(ctx, "alice@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	user, err := a.Authenticate(ctx, "ALICE@example.com", "correct horse")
	if err != nil {
		t.Fatalf("Authenticate failed: %v", err)
	}
	if user.ID != registered.ID {
		t.Errorf("ID mismatch: got %s, want %s", user.ID, registered.ID)
	}

	if _, err := a.Authenticate(ctx, "alice@example.com", "wrong password"); !errors.Is(err, apperr.ErrInvalidCredentials) {
		t.Errorf("wrong password: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := a.Authenticate(ctx, "nobody@example.com", "correct horse"); !errors.Is(err, apperr.ErrInvalidCredentials) {
		t.Errorf("unknown email: expected ErrInvalidCredentials, got %v", err)
	}
	if _, err := a.Authenticate(ctx, "alice@example.com", ""); !errors.Is(err, apperr.ErrValidation) {
		t.Errorf("empty password: expected ErrValidation, got %v", err)
	}
}

func TestJWTManager(t *testing.T) {
	user := &models.User{ID: "user-1", Email: "alice@example.com"}
	m := NewJWTManager("test-secret", time.Hour)

	token, expiresAt, err := m.Generate(user)
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	if time.Until(expiresAt) <= 0 {
		t.Errorf("expected expiry in the future, got %v", expiresAt)
	}

	claims, err := m.Validate(token)
	if err != nil {
		t.Fatalf("Validate failed: %v", err)
	}
	if claims.UserID != "user-1" || claims.Email != "alice@example.com" {
		t.Errorf("unexpected claims: %+v", claims)
	}

	t.Run("wrong secret", func(t *testing.T) {
		other := NewJWTManager("other-secret", time.Hour)
		if _, err := other.Validate(token); !errors.Is(err, apperr.ErrUnauthenticated) {
			t.Errorf("expected ErrUnauthenticated, got %v", err)
		}
	})

	t.Run("expired", func(t *testing.T) {
		expired := NewJWTManager("test-secret", time.Hour)
		expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
		if _, err := expired.Validate(token); !errors.Is(err, ErrInvalidToken) {
			t.Errorf("expected ErrInvalidToken, got %v", err)
		}
	})

	t.Run("garbage", func(t *testing.T) {
		if _, err := m.Validate("not.a.token"); err == nil {
			t.Error("expected error for garbage token")
		}
	})
}
