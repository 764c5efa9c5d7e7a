package rest

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/maskaddr/maskaddr/internal/domain"
	"github.com/maskaddr/maskaddr/internal/present/rest/middleware"
	"github.com/maskaddr/maskaddr/internal/present/rest/presenter"
	"github.com/maskaddr/maskaddr/internal/service"
	"github.com/maskaddr/maskaddr/internal/usecase"
)

type Handler struct {
	config    domain.Config
	registry  *usecase.RegistryUsecase
	inventory *usecase.InventoryUsecase
	binding   *usecase.BindingUsecase
	shipment  *usecase.ShipmentUsecase
	resolver  *usecase.ResolverUsecase
	audit     usecase.AuditRepository
	auth      *service.AuthService
	otp       *service.OtpService
}

func NewHandler(
	config domain.Config,
	registry *usecase.RegistryUsecase,
	inventory *usecase.InventoryUsecase,
	binding *usecase.BindingUsecase,
	shipment *usecase.ShipmentUsecase,
	resolver *usecase.ResolverUsecase,
	audit usecase.AuditRepository,
	auth *service.AuthService,
	otp *service.OtpService,
) *Handler {
	return &Handler{
		config:    config,
		registry:  registry,
		inventory: inventory,
		binding:   binding,
		shipment:  shipment,
		resolver:  resolver,
		audit:     audit,
		auth:      auth,
		otp:       otp,
	}
}

func (h *Handler) RegisterRoutes(e *echo.Echo, authmw *middleware.AuthMiddleware) {
	e.Use(authmw.IdentifyIdentity)

	api := e.Group("/api/v1")

	api.POST("/auth/register", h.handleRegister)
	api.POST("/auth/login", h.handleLogin)
	api.POST("/auth/otp/request", h.handleOtpRequest)
	api.POST("/auth/otp/verify", h.handleOtpVerify)

	visitor := middleware.RequireRole(domain.RoleVisitor)
	owner := middleware.RequireRole(domain.RoleOwner)
	carrier := middleware.RequireRole(domain.RoleCarrier)
	anyRole := middleware.RequireRole(domain.RoleVisitor, domain.RoleOwner,
		domain.RoleCarrier, domain.RoleBusiness, domain.RoleGov)

	api.POST("/tna/request", h.handleTnaRequest, visitor)
	api.GET("/tna/active", h.handleTnaActive, visitor)
	api.GET("/tna/summary", h.handleTnaSummary, visitor)
	api.POST("/tna/revoke", h.handleTnaRevoke, visitor)
	api.POST("/bindings/link", h.handleLink, visitor)
	api.POST("/bindings/unlink", h.handleUnlink, visitor)
	api.GET("/shipments", h.handleShipmentList, visitor)
	api.GET("/dashboard/visitor", h.handleVisitorDashboard, visitor)

	api.POST("/properties", h.handleRegisterProperty, owner)
	api.GET("/properties/mine", h.handleMyProperties, owner)

	api.GET("/units/search", h.handleUnitSearch, anyRole)
	api.GET("/logs", h.handleLogs, anyRole)

	api.POST("/resolve", h.handleResolve, carrier)
	api.POST("/shipments/update", h.handleShipmentUpdate, carrier)
}

// --- auth ---

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
	IDNumber string `json:"idNumber"`
}

func (h *Handler) handleRegister(c echo.Context) error {
	ctx := c.Request().Context()

	if h.config.Registration == "close" {
		return presenter.Forbidden(c, "registration is closed")
	}

	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	person, err := h.auth.Register(ctx, req.Name, req.Email, req.Password, req.Role, req.IDNumber)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.Created(c, person)
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *Handler) handleLogin(c echo.Context) error {
	ctx := c.Request().Context()

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	token, person, err := h.auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return presenter.Unauthorized(c, "invalid credentials")
	}
	return presenter.OK(c, echo.Map{"token": token, "user": person})
}

type otpRequest struct {
	Email string `json:"email"`
	Code  string `json:"code"`
}

func (h *Handler) handleOtpRequest(c echo.Context) error {
	var req otpRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}
	if req.Email == "" {
		return presenter.BadRequestMessage(c, "email is required")
	}

	code, err := h.otp.Request(req.Email)
	if err != nil {
		return presenter.InternalError(c, err)
	}
	// delivery is an external collaborator; the code never leaves the server
	slog.Debug("otp issued", "email", req.Email, "code", code)
	return presenter.OK(c, echo.Map{"message": "security code sent"})
}

func (h *Handler) handleOtpVerify(c echo.Context) error {
	var req otpRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	if !h.otp.Verify(req.Email, req.Code) {
		return presenter.BadRequestMessage(c, "invalid or expired code")
	}
	return presenter.OK(c, echo.Map{"verified": true})
}

// --- visitor ---

func (h *Handler) handleTnaRequest(c echo.Context) error {
	ctx := c.Request().Context()
	identity, _ := middleware.RequesterIdentity(c)

	tna, err := h.registry.Issue(ctx, identity.ID)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.Created(c, tna)
}

func (h *Handler) handleTnaActive(c echo.Context) error {
	ctx := c.Request().Context()
	identity, _ := middleware.RequesterIdentity(c)

	tnas, err := h.registry.ListActive(ctx, identity.ID)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, tnas)
}

func (h *Handler) handleTnaSummary(c echo.Context) error {
	ctx := c.Request().Context()
	identity, _ := middleware.RequesterIdentity(c)

	summaries, err := h.registry.Summarize(ctx, identity.ID)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, summaries)
}

type tnaCodeRequest struct {
	TnaCode string `json:"tnaCode"`
}

func (h *Handler) handleTnaRevoke(c echo.Context) error {
	ctx := c.Request().Context()
	identity, _ := middleware.RequesterIdentity(c)

	var req tnaCodeRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	if err := h.registry.Revoke(ctx, identity.ID, req.TnaCode); err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, echo.Map{"message": "TNA revoked"})
}

type linkRequest struct {
	TnaCode string `json:"tnaCode"`
	UnitID  int64  `json:"unitId"`
}

func (h *Handler) handleLink(c echo.Context) error {
	ctx := c.Request().Context()
	identity, _ := middleware.RequesterIdentity(c)

	var req linkRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	binding, err := h.binding.Link(ctx, identity.ID, req.TnaCode, req.UnitID)
	if err != nil {
		return presenter.Error(c, err)
	}
	slog.Info("tna linked", "code", req.TnaCode, "unitId", req.UnitID)
	return presenter.Created(c, binding)
}

func (h *Handler) handleUnlink(c echo.Context) error {
	ctx := c.Request().Context()
	identity, _ := middleware.RequesterIdentity(c)

	var req tnaCodeRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	binding, err := h.binding.Unlink(ctx, identity.ID, req.TnaCode)
	if err != nil {
		return presenter.Error(c, err)
	}
	slog.Info("tna unlinked", "code", req.TnaCode, "unitId", binding.UnitID)
	return presenter.OK(c, echo.Map{"message": "address unlinked"})
}

func (h *Handler) handleShipmentList(c echo.Context) error {
	ctx := c.Request().Context()
	identity, _ := middleware.RequesterIdentity(c)

	shipments, err := h.shipment.ListForTna(ctx, identity.ID, c.QueryParam("code"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, shipments)
}

func (h *Handler) handleVisitorDashboard(c echo.Context) error {
	ctx := c.Request().Context()
	identity, _ := middleware.RequesterIdentity(c)

	stats, err := h.registry.VisitorStats(ctx, identity.ID)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, stats)
}

// --- owner ---

type registerPropertyRequest struct {
	BaseAddress string `json:"baseAddress"`
	City        string `json:"city"`
	Region      string `json:"region"`
	UnitCount   int    `json:"unitCount"`
}

func (h *Handler) handleRegisterProperty(c echo.Context) error {
	ctx := c.Request().Context()
	identity, _ := middleware.RequesterIdentity(c)

	var req registerPropertyRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	property, err := h.inventory.RegisterProperty(ctx, identity.ID, req.BaseAddress, req.City, req.Region, req.UnitCount)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.Created(c, property)
}

func (h *Handler) handleMyProperties(c echo.Context) error {
	ctx := c.Request().Context()
	identity, _ := middleware.RequesterIdentity(c)

	properties, err := h.inventory.ListProperties(ctx, identity.ID)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, properties)
}

func (h *Handler) handleUnitSearch(c echo.Context) error {
	ctx := c.Request().Context()

	listings, err := h.inventory.Search(ctx, c.QueryParam("city"), c.QueryParam("region"))
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, listings)
}

// --- carrier ---

func (h *Handler) handleResolve(c echo.Context) error {
	ctx := c.Request().Context()

	var req tnaCodeRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	resolution, err := h.resolver.Resolve(ctx, req.TnaCode)
	if err != nil {
		return presenter.Error(c, err)
	}
	if !resolution.Deliverable {
		// expected outcome for an expired or unbound TNA, not a fault
		return c.JSON(http.StatusNotFound, resolution)
	}
	return presenter.OK(c, resolution)
}

type shipmentUpdateRequest struct {
	TrackingNumber string `json:"trackingNumber"`
	TnaCode        string `json:"tnaCode"`
	Status         string `json:"status"`
}

func (h *Handler) handleShipmentUpdate(c echo.Context) error {
	ctx := c.Request().Context()
	identity, _ := middleware.RequesterIdentity(c)

	var req shipmentUpdateRequest
	if err := c.Bind(&req); err != nil {
		return presenter.BadRequest(c, err)
	}

	shipment, err := h.shipment.UpsertStatus(ctx, identity.ID, req.TrackingNumber, req.TnaCode, req.Status)
	if err != nil {
		return presenter.Error(c, err)
	}
	slog.Info("shipment status set",
		"trackingNumber", shipment.TrackingNumber,
		"status", shipment.Status,
		"code", req.TnaCode)
	return presenter.OK(c, echo.Map{
		"shipment":   shipment,
		"lockActive": shipment.Status.InTransit(),
	})
}

// --- shared ---

func (h *Handler) handleLogs(c echo.Context) error {
	ctx := c.Request().Context()
	identity, _ := middleware.RequesterIdentity(c)

	entries, err := h.audit.ListForUser(ctx, identity.ID)
	if err != nil {
		return presenter.Error(c, err)
	}
	return presenter.OK(c, entries)
}
