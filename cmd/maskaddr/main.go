package main

import (
	"context"
	"flag"
	"log/slog"
	"os"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	"go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"

	"github.com/maskaddr/maskaddr/internal/config"
	"github.com/maskaddr/maskaddr/internal/infra/database"
	"github.com/maskaddr/maskaddr/internal/infra/repository"
	"github.com/maskaddr/maskaddr/internal/present/rest"
	"github.com/maskaddr/maskaddr/internal/present/rest/middleware"
	"github.com/maskaddr/maskaddr/internal/service"
	"github.com/maskaddr/maskaddr/internal/usecase"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the config file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load config", "path", *configPath, "error", err)
		os.Exit(1)
	}
	runtimeConf := conf.Domain()

	db, err := database.NewPostgres(conf.Server.PostgresDsn)
	if err != nil {
		slog.Error("failed to connect database", "error", err)
		os.Exit(1)
	}
	if err := database.MigratePostgres(db); err != nil {
		slog.Error("failed to migrate database", "error", err)
		os.Exit(1)
	}
	if conf.Server.SeedDemo {
		if err := database.SeedDemoPersons(db); err != nil {
			slog.Error("failed to seed demo persons", "error", err)
			os.Exit(1)
		}
	}

	rdb := database.NewRedis(conf.Server.RedisAddr, conf.Server.RedisPassword, conf.Server.RedisDB)

	if conf.Server.EnableTrace {
		shutdown, err := setupTracer(context.Background(), conf.Server.TraceEndpoint)
		if err != nil {
			slog.Error("failed to set up tracing", "error", err)
			os.Exit(1)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				slog.Warn("trace provider shutdown failed", "error", err)
			}
		}()
	}

	personRepo := repository.NewPersonRepository(db)
	tnaRepo := repository.NewTnaRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	bindingRepo := repository.NewBindingRepository(db)
	shipmentRepo := repository.NewShipmentRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	resolutionCache := service.NewResolutionCache(rdb, runtimeConf.ResolveTTL)
	authService := service.NewAuthService(runtimeConf, personRepo)
	otpService := service.NewOtpService(runtimeConf.OtpTTL)

	registryUC := usecase.NewRegistryUsecase(tnaRepo, resolutionCache)
	inventoryUC := usecase.NewInventoryUsecase(inventoryRepo)
	bindingUC := usecase.NewBindingUsecase(bindingRepo, resolutionCache)
	shipmentUC := usecase.NewShipmentUsecase(shipmentRepo)
	resolverUC := usecase.NewResolverUsecase(bindingRepo, resolutionCache)

	handler := rest.NewHandler(runtimeConf, registryUC, inventoryUC, bindingUC,
		shipmentUC, resolverUC, auditRepo, authService, otpService)
	authmw := middleware.NewAuthMiddleware(authService)

	e := echo.New()
	e.Use(echomw.Logger())
	e.Use(echomw.Recover())
	e.Use(echomw.CORS())
	if conf.Server.EnableTrace {
		e.Use(otelecho.Middleware("maskaddr"))
	}

	handler.RegisterRoutes(e, authmw)

	e.Logger.Fatal(e.Start(conf.Server.ListenAddr))
}

func setupTracer(ctx context.Context, endpoint string) (func(context.Context) error, error) {
	exporter, err := otlptracehttp.New(ctx,
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	provider := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(resource.NewSchemaless(
			attribute.String("service.name", "maskaddr"),
		)),
	)
	otel.SetTracerProvider(provider)
	return provider.Shutdown, nil
}
