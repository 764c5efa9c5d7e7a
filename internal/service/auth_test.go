package service

import (
	"context"
	"testing"
	"time"

	"github.com/maskaddr/maskaddr/internal/domain"
)

type memoryPersonStore struct {
	persons map[string]domain.Person
	hashes  map[string]string
	nextID  int64
}

func newMemoryPersonStore() *memoryPersonStore {
	return &memoryPersonStore{
		persons: map[string]domain.Person{},
		hashes:  map[string]string{},
	}
}

func (s *memoryPersonStore) Create(ctx context.Context, name, email, passwordHash string, role domain.Role, idNumber string) (domain.Person, error) {
	if _, exists := s.persons[email]; exists {
		return domain.Person{}, domain.ConflictError{Reason: domain.ConflictDuplicate}
	}
	s.nextID++
	person := domain.Person{ID: s.nextID, Name: name, Email: email, Role: role, IDNumber: idNumber}
	s.persons[email] = person
	s.hashes[email] = passwordHash
	return person, nil
}

func (s *memoryPersonStore) GetByEmail(ctx context.Context, email string) (domain.Person, string, error) {
	person, ok := s.persons[email]
	if !ok {
		return domain.Person{}, "", domain.NotFoundError{Resource: "person"}
	}
	return person, s.hashes[email], nil
}

func testConfig() domain.Config {
	return domain.Config{
		JWTSecret: "test-secret",
		TokenTTL:  time.Hour,
	}
}

func TestRegisterLoginAuthenticate(t *testing.T) {
	auth := NewAuthService(testConfig(), newMemoryPersonStore())
	ctx := context.Background()

	person, err := auth.Register(ctx, "John Visitor", "visitor@example.com", "password", "VISITOR", "V12345")
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if person.Role != domain.RoleVisitor {
		t.Fatalf("expected VISITOR role, got %s", person.Role)
	}

	token, logged, err := auth.Login(ctx, "visitor@example.com", "password")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if logged.ID != person.ID {
		t.Fatalf("expected person %d, got %d", person.ID, logged.ID)
	}

	identity, err := auth.Authenticate(ctx, token)
	if err != nil {
		t.Fatalf("authenticate failed: %v", err)
	}
	if identity.ID != person.ID || identity.Role != domain.RoleVisitor {
		t.Fatalf("unexpected identity %+v", identity)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	auth := NewAuthService(testConfig(), newMemoryPersonStore())
	ctx := context.Background()

	if _, err := auth.Register(ctx, "John", "visitor@example.com", "password", "VISITOR", "V12345"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	if _, _, err := auth.Login(ctx, "visitor@example.com", "wrong"); err == nil {
		t.Fatal("expected login to fail on wrong password")
	}
	if _, _, err := auth.Login(ctx, "nobody@example.com", "password"); err == nil {
		t.Fatal("expected login to fail on unknown email")
	}
}

func TestRegisterRejectsUnknownRole(t *testing.T) {
	auth := NewAuthService(testConfig(), newMemoryPersonStore())

	if _, err := auth.Register(context.Background(), "X", "x@example.com", "pw", "ADMIN", "X1"); err == nil {
		t.Fatal("expected an error for unknown role")
	}
}

func TestAuthenticateRejectsTamperedToken(t *testing.T) {
	store := newMemoryPersonStore()
	auth := NewAuthService(testConfig(), store)
	ctx := context.Background()

	if _, err := auth.Register(ctx, "John", "visitor@example.com", "password", "VISITOR", "V12345"); err != nil {
		t.Fatalf("register failed: %v", err)
	}
	token, _, err := auth.Login(ctx, "visitor@example.com", "password")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}

	otherIssuer := NewAuthService(domain.Config{JWTSecret: "other-secret", TokenTTL: time.Hour}, store)
	if _, err := otherIssuer.Authenticate(ctx, token); err == nil {
		t.Fatal("expected authentication to fail under a different secret")
	}
	if _, err := auth.Authenticate(ctx, token+"x"); err == nil {
		t.Fatal("expected authentication to fail on a tampered token")
	}
}
