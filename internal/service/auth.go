package service

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/pkg/errors"
	"go.opentelemetry.io/otel"
	"golang.org/x/crypto/bcrypt"

	"github.com/maskaddr/maskaddr/internal/domain"
)

var tracer = otel.Tracer("auth")

// PersonStore is the slice of persistence the auth service needs.
type PersonStore interface {
	Create(ctx context.Context, name, email, passwordHash string, role domain.Role, idNumber string) (domain.Person, error)
	GetByEmail(ctx context.Context, email string) (domain.Person, string, error)
}

// AuthService registers persons and turns credentials into the signed
// identity context the core consumes. It performs no authorization; route
// level role checks live in the middleware.
type AuthService struct {
	config domain.Config
	store  PersonStore
}

func NewAuthService(config domain.Config, store PersonStore) *AuthService {
	return &AuthService{
		config: config,
		store:  store,
	}
}

func (s *AuthService) Register(ctx context.Context, name, email, password, role, idNumber string) (domain.Person, error) {
	ctx, span := tracer.Start(ctx, "Auth.Service.Register")
	defer span.End()

	if name == "" || email == "" || password == "" || idNumber == "" {
		return domain.Person{}, fmt.Errorf("all fields including ID number are required")
	}
	if !domain.ValidRole(role) {
		return domain.Person{}, fmt.Errorf("unknown role %q", role)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		span.RecordError(err)
		return domain.Person{}, errors.Wrap(err, "hashing password failed")
	}

	person, err := s.store.Create(ctx, name, email, string(hash), domain.Role(role), idNumber)
	if err != nil {
		span.RecordError(err)
		return domain.Person{}, err
	}
	return person, nil
}

// Login verifies credentials and issues a signed token carrying id and role.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, domain.Person, error) {
	ctx, span := tracer.Start(ctx, "Auth.Service.Login")
	defer span.End()

	person, hash, err := s.store.GetByEmail(ctx, email)
	if err != nil {
		span.RecordError(err)
		return "", domain.Person{}, fmt.Errorf("invalid credentials")
	}
	if bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) != nil {
		return "", domain.Person{}, fmt.Errorf("invalid credentials")
	}

	now := time.Now()
	claims := jwt.MapClaims{
		"sub":  fmt.Sprintf("%d", person.ID),
		"role": string(person.Role),
		"iat":  now.Unix(),
		"exp":  now.Add(s.config.TokenTTL).Unix(),
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.config.JWTSecret))
	if err != nil {
		span.RecordError(err)
		return "", domain.Person{}, errors.Wrap(err, "signing token failed")
	}
	return token, person, nil
}

// Authenticate validates a bearer token and returns the caller identity.
func (s *AuthService) Authenticate(ctx context.Context, token string) (domain.Identity, error) {
	_, span := tracer.Start(ctx, "Auth.Service.Authenticate")
	defer span.End()

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return []byte(s.config.JWTSecret), nil
	})
	if err != nil {
		span.RecordError(errors.Wrap(err, "token validation failed"))
		return domain.Identity{}, err
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok || !parsed.Valid {
		return domain.Identity{}, fmt.Errorf("invalid token")
	}

	sub, _ := claims["sub"].(string)
	var id int64
	if _, err := fmt.Sscanf(sub, "%d", &id); err != nil || id <= 0 {
		return domain.Identity{}, fmt.Errorf("invalid subject")
	}
	role, _ := claims["role"].(string)
	if !domain.ValidRole(role) {
		return domain.Identity{}, fmt.Errorf("invalid role")
	}

	return domain.Identity{ID: id, Role: domain.Role(role)}, nil
}
