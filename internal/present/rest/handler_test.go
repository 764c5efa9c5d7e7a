package rest

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/maskaddr/maskaddr/internal/domain"
	"github.com/maskaddr/maskaddr/internal/present/rest/middleware"
	"github.com/maskaddr/maskaddr/internal/service"
	"github.com/maskaddr/maskaddr/internal/usecase"
)

// --- stubs ---

type stubPersonStore struct {
	persons map[string]domain.Person
	hashes  map[string]string
	nextID  int64
}

func (s *stubPersonStore) Create(ctx context.Context, name, email, passwordHash string, role domain.Role, idNumber string) (domain.Person, error) {
	if _, exists := s.persons[email]; exists {
		return domain.Person{}, domain.ConflictError{Reason: domain.ConflictDuplicate}
	}
	s.nextID++
	person := domain.Person{ID: s.nextID, Name: name, Email: email, Role: role, IDNumber: idNumber}
	s.persons[email] = person
	s.hashes[email] = passwordHash
	return person, nil
}

func (s *stubPersonStore) GetByEmail(ctx context.Context, email string) (domain.Person, string, error) {
	person, ok := s.persons[email]
	if !ok {
		return domain.Person{}, "", domain.NotFoundError{Resource: "person"}
	}
	return person, s.hashes[email], nil
}

type stubTnaRepo struct {
	issueErr error
}

func (s *stubTnaRepo) Issue(ctx context.Context, visitorID int64) (domain.Tna, error) {
	if s.issueErr != nil {
		return domain.Tna{}, s.issueErr
	}
	return domain.Tna{ID: 1, Code: "TNA-ABCD1234", VisitorID: visitorID, Status: domain.TnaStatusActive}, nil
}

func (s *stubTnaRepo) ListActive(ctx context.Context, visitorID int64) ([]domain.Tna, error) {
	return []domain.Tna{}, nil
}

func (s *stubTnaRepo) Summarize(ctx context.Context, visitorID int64) ([]domain.TnaSummary, error) {
	return []domain.TnaSummary{}, nil
}

func (s *stubTnaRepo) Revoke(ctx context.Context, visitorID int64, code string) error {
	return nil
}

func (s *stubTnaRepo) VisitorStats(ctx context.Context, visitorID int64) (domain.VisitorStats, error) {
	return domain.VisitorStats{}, nil
}

type stubInventoryRepo struct{}

func (s *stubInventoryRepo) RegisterProperty(ctx context.Context, ownerID int64, baseAddress, city, region string, unitCount int) (domain.Property, error) {
	return domain.Property{ID: 1, OwnerID: ownerID, BaseAddress: baseAddress, City: city, Region: region}, nil
}

func (s *stubInventoryRepo) Search(ctx context.Context, city, region string) ([]domain.UnitListing, error) {
	return []domain.UnitListing{}, nil
}

func (s *stubInventoryRepo) ListProperties(ctx context.Context, ownerID int64) ([]domain.Property, error) {
	return []domain.Property{}, nil
}

type stubBindingRepo struct {
	unlinkErr  error
	resolveErr error
	resolution domain.Resolution
}

func (s *stubBindingRepo) Link(ctx context.Context, visitorID int64, tnaCode string, unitID int64) (domain.Binding, error) {
	return domain.Binding{ID: 1, TnaID: 1, UnitID: unitID, IsActive: true}, nil
}

func (s *stubBindingRepo) Unlink(ctx context.Context, visitorID int64, tnaCode string) (domain.Binding, error) {
	if s.unlinkErr != nil {
		return domain.Binding{}, s.unlinkErr
	}
	return domain.Binding{ID: 1, TnaID: 1, UnitID: 7, IsActive: false}, nil
}

func (s *stubBindingRepo) ResolveAddress(ctx context.Context, tnaCode string) (domain.Resolution, error) {
	if s.resolveErr != nil {
		return domain.Resolution{}, s.resolveErr
	}
	return s.resolution, nil
}

type stubShipmentRepo struct{}

func (s *stubShipmentRepo) Upsert(ctx context.Context, carrierID int64, trackingNumber, tnaCode string, status domain.ShipmentStatus) (domain.Shipment, error) {
	return domain.Shipment{ID: 1, TrackingNumber: trackingNumber, CarrierID: carrierID, Status: status}, nil
}

func (s *stubShipmentRepo) ListForTna(ctx context.Context, visitorID int64, tnaCode string) ([]domain.Shipment, error) {
	return []domain.Shipment{}, nil
}

type stubAuditRepo struct{}

func (s *stubAuditRepo) Append(ctx context.Context, userID int64, action string, metadata map[string]any) error {
	return nil
}

func (s *stubAuditRepo) ListForUser(ctx context.Context, userID int64) ([]domain.AuditEntry, error) {
	return []domain.AuditEntry{}, nil
}

type stubCache struct {
	entries map[string]domain.Resolution
}

func (s *stubCache) Get(ctx context.Context, tnaCode string) (*domain.Resolution, error) {
	if res, ok := s.entries[tnaCode]; ok {
		return &res, nil
	}
	return nil, nil
}

func (s *stubCache) Set(ctx context.Context, resolution domain.Resolution) error {
	s.entries[resolution.TnaCode] = resolution
	return nil
}

func (s *stubCache) Invalidate(ctx context.Context, tnaCode string) error {
	delete(s.entries, tnaCode)
	return nil
}

// --- fixture ---

type fixture struct {
	e       *echo.Echo
	tnas    *stubTnaRepo
	binding *stubBindingRepo
	tokens  map[domain.Role]string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	config := domain.Config{JWTSecret: "test-secret", TokenTTL: time.Hour}
	auth := service.NewAuthService(config, &stubPersonStore{
		persons: map[string]domain.Person{},
		hashes:  map[string]string{},
	})

	ctx := context.Background()
	tokens := map[domain.Role]string{}
	for email, role := range map[string]domain.Role{
		"visitor@example.com": domain.RoleVisitor,
		"owner@example.com":   domain.RoleOwner,
		"carrier@example.com": domain.RoleCarrier,
	} {
		if _, err := auth.Register(ctx, "Test "+string(role), email, "password", string(role), "ID-1"); err != nil {
			t.Fatalf("register %s failed: %v", role, err)
		}
		token, _, err := auth.Login(ctx, email, "password")
		if err != nil {
			t.Fatalf("login %s failed: %v", role, err)
		}
		tokens[role] = token
	}

	tnas := &stubTnaRepo{}
	binding := &stubBindingRepo{}
	cache := &stubCache{entries: map[string]domain.Resolution{}}

	h := NewHandler(
		config,
		usecase.NewRegistryUsecase(tnas, cache),
		usecase.NewInventoryUsecase(&stubInventoryRepo{}),
		usecase.NewBindingUsecase(binding, cache),
		usecase.NewShipmentUsecase(&stubShipmentRepo{}),
		usecase.NewResolverUsecase(binding, cache),
		&stubAuditRepo{},
		auth,
		service.NewOtpService(time.Minute),
	)

	e := echo.New()
	h.RegisterRoutes(e, middleware.NewAuthMiddleware(auth))

	return &fixture{e: e, tnas: tnas, binding: binding, tokens: tokens}
}

func (f *fixture) do(method, path, token, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	f.e.ServeHTTP(rec, req)
	return rec
}

// --- tests ---

func TestTnaRequestRequiresAuthentication(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/tna/request", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestTnaRequestRejectsWrongRole(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/tna/request", f.tokens[domain.RoleOwner], "")
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for owner, got %d", rec.Code)
	}

	rec = f.do(http.MethodPost, "/api/v1/resolve", f.tokens[domain.RoleVisitor], `{"tnaCode":"TNA-ABCD1234"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for visitor resolve, got %d", rec.Code)
	}
}

func TestTnaRequestIssuesCode(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/tna/request", f.tokens[domain.RoleVisitor], "")
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "TNA-ABCD1234") {
		t.Fatalf("expected the issued code in the body, got %s", rec.Body.String())
	}
}

func TestTnaRequestLimitIsClientError(t *testing.T) {
	f := newFixture(t)
	f.tnas.issueErr = domain.LimitExceededError{Limit: domain.ActiveTnaLimit}

	rec := f.do(http.MethodPost, "/api/v1/tna/request", f.tokens[domain.RoleVisitor], "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 at the cap, got %d", rec.Code)
	}
}

func TestResolveRejectsMalformedCode(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/resolve", f.tokens[domain.RoleCarrier], `{"tnaCode":"bogus"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestResolveDeliverable(t *testing.T) {
	f := newFixture(t)
	f.binding.resolution = domain.Resolution{
		TnaCode:     "TNA-ABCD1234",
		Deliverable: true,
		Address:     "12 King Rd, UNIT-1, Riyadh",
		Region:      "Central",
	}

	rec := f.do(http.MethodPost, "/api/v1/resolve", f.tokens[domain.RoleCarrier], `{"tnaCode":"TNA-ABCD1234"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	if !strings.Contains(rec.Body.String(), "12 King Rd, UNIT-1, Riyadh") {
		t.Fatalf("expected the composed address, got %s", rec.Body.String())
	}
}

func TestResolveUnboundReturnsToSender(t *testing.T) {
	f := newFixture(t)
	f.binding.resolveErr = domain.NotFoundError{Resource: "binding"}

	rec := f.do(http.MethodPost, "/api/v1/resolve", f.tokens[domain.RoleCarrier], `{"tnaCode":"TNA-ABCD1234"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}

	var resolution domain.Resolution
	if err := json.Unmarshal(rec.Body.Bytes(), &resolution); err != nil {
		t.Fatalf("expected a structured body, got %s", rec.Body.String())
	}
	if resolution.Deliverable || resolution.Instruction != domain.ReturnToSender {
		t.Fatalf("expected a return-to-sender resolution, got %+v", resolution)
	}
}

func TestUnlinkBlockedByTransitLock(t *testing.T) {
	f := newFixture(t)
	f.binding.unlinkErr = domain.TransitLockedError{TrackingNumbers: []string{"TRK-1"}}

	rec := f.do(http.MethodPost, "/api/v1/bindings/unlink", f.tokens[domain.RoleVisitor], `{"tnaCode":"TNA-ABCD1234"}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 while in transit, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "TRK-1") {
		t.Fatalf("expected the blocking tracking number in the body, got %s", rec.Body.String())
	}
}

func TestShipmentUpdateReportsLockState(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/shipments/update", f.tokens[domain.RoleCarrier],
		`{"trackingNumber":"TRK-1","tnaCode":"TNA-ABCD1234","status":"DELIVERED"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		LockActive bool `json:"lockActive"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
	if body.LockActive {
		t.Fatal("DELIVERED must not report an active lock")
	}
}

func TestUnitSearchOpenToAnyRole(t *testing.T) {
	f := newFixture(t)

	for _, role := range []domain.Role{domain.RoleVisitor, domain.RoleOwner, domain.RoleCarrier} {
		rec := f.do(http.MethodGet, "/api/v1/units/search?city=Riyadh", f.tokens[role], "")
		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200 for %s, got %d", role, rec.Code)
		}
	}
}

func TestRegisterPropertyOwnerOnly(t *testing.T) {
	f := newFixture(t)

	rec := f.do(http.MethodPost, "/api/v1/properties", f.tokens[domain.RoleOwner],
		`{"baseAddress":"12 King Rd","city":"Riyadh","region":"Central","unitCount":3}`)
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", rec.Code, rec.Body.String())
	}

	rec = f.do(http.MethodPost, "/api/v1/properties", f.tokens[domain.RoleVisitor],
		`{"baseAddress":"12 King Rd","city":"Riyadh","region":"Central","unitCount":3}`)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for visitor, got %d", rec.Code)
	}
}
