package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/cforclown/school-admin/internal/api/http"
	"github.com/cforclown/school-admin/internal/api/http/handlers"
	"github.com/cforclown/school-admin/internal/auth"
	"github.com/cforclown/school-admin/internal/config"
	"github.com/cforclown/school-admin/internal/events"
	"github.com/cforclown/school-admin/internal/observability"
	"github.com/cforclown/school-admin/internal/persistence"
	"github.com/cforclown/school-admin/internal/repository"
	"github.com/cforclown/school-admin/internal/repository/memory"
	"github.com/cforclown/school-admin/internal/service"
	"github.com/cforclown/school-admin/internal/worker"
)

type stores struct {
	roles    repository.RoleRepository
	users    repository.UserRepository
	students repository.StudentRepository
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := observability.NewLogger(cfg.Logger, cfg.App.Name)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logger.Sync() //nolint:errcheck

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	pg, err := persistence.NewPostgres(ctx, cfg.Postgres, logger)
	if err != nil {
		logger.Fatal("failed to connect postgres", zap.Error(err))
	}
	defer pg.Close()

	if cfg.Postgres.RunMigrations {
		if err := persistence.RunMigrations(ctx, pg.PoolHandle(), cfg.Postgres.MigrationsDir, logger); err != nil {
			logger.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	redis := persistence.NewRedis(ctx, cfg.Redis, logger)
	defer redis.Close()

	repos := openStores(pg)
	if err := service.Seed(ctx, repos.roles, repos.users, cfg.Seed, cfg.Auth.BcryptCost, logger); err != nil {
		logger.Fatal("failed to seed store", zap.Error(err))
	}

	tokens := auth.NewTokenService(auth.TokenConfig{
		AccessSecret:  cfg.Auth.AccessTokenSecret,
		RefreshSecret: cfg.Auth.RefreshTokenSecret,
		AccessTTL:     cfg.Auth.AccessTokenTTL(),
		RefreshTTL:    cfg.Auth.RefreshTokenTTL(),
	})
	roleResolver := repository.NewCachedRoleResolver(repos.roles, redis.Client, cfg.Auth.PermissionCacheTTL(), logger)

	dispatcher := events.NewInMemoryDispatcher(logger)
	worker.StartAuditWorker(service.NewAuditService(dispatcher, roleResolver, logger))

	authService := service.NewAuthService(repos.users, tokens, cfg.Auth.BcryptCost, logger)
	roleService := service.NewRoleService(repos.roles, dispatcher, logger)
	studentService := service.NewStudentService(repos.students, dispatcher, logger)
	userService := service.NewUserService(service.UserDependencies{
		Users:      repos.users,
		Roles:      repos.roles,
		Dispatcher: dispatcher,
		BcryptCost: cfg.Auth.BcryptCost,
		Logger:     logger,
	})

	deps := map[string]handlers.Pinger{}
	if pg.Enabled() {
		deps["postgres"] = pg
	}
	if redis.Enabled() {
		deps["redis"] = redis
	}

	metrics := observability.NewMetrics()
	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ErrorHandler: httptransport.ErrorHandler,
	})
	httptransport.RegisterMiddlewares(app, logger, metrics, cfg.App.RequestTimeout())

	httptransport.RegisterRoutes(app, httptransport.RouteConfig{
		Health:         handlers.NewHealthHandler(cfg.App.Name, cfg.App.Version, deps),
		Auth:           handlers.NewAuthHandler(authService),
		Roles:          handlers.NewRolesHandler(roleService),
		Users:          handlers.NewUsersHandler(userService),
		Students:       handlers.NewStudentsHandler(studentService),
		AuthMiddleware: auth.NewAuthMiddleware(tokens),
		Gate:           auth.NewPermissionGate(roleResolver, logger),
		LoginLimiter:   httptransport.LoginLimiter(cfg.App.LoginRateLimit),
	})

	go func() {
		if err := app.Listen(cfg.App.Addr()); err != nil {
			logger.Fatal("fiber listen", zap.Error(err))
		}
	}()

	waitForShutdown(logger)

	_ = app.Shutdown()
}

func openStores(pg *persistence.Postgres) stores {
	if !pg.Enabled() {
		mem := memory.NewStore()
		return stores{roles: mem.Roles(), users: mem.Users(), students: mem.Students()}
	}
	pool := pg.PoolHandle()
	return stores{
		roles:    repository.NewRoleRepository(pool),
		users:    repository.NewUserRepository(pool),
		students: repository.NewStudentRepository(pool),
	}
}

func waitForShutdown(logger *zap.Logger) {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	sig := <-sigCh
	logger.Info("shutting down", zap.String("signal", sig.String()))
}
