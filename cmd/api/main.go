package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cmlabs-hris/timesheet-backend-go/internal/config"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/auth"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/leave"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/timesheet"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/domain/user"
	appHTTP "github.com/cmlabs-hris/timesheet-backend-go/internal/handler/http"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/database"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/email"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/repository/memory"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/repository/mongodb"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/repository/postgresql"
	serviceAuth "github.com/cmlabs-hris/timesheet-backend-go/internal/service/auth"
	dashboardService "github.com/cmlabs-hris/timesheet-backend-go/internal/service/dashboard"
	leaveService "github.com/cmlabs-hris/timesheet-backend-go/internal/service/leave"
	"github.com/cmlabs-hris/timesheet-backend-go/internal/service/notification"
	reportService "github.com/cmlabs-hris/timesheet-backend-go/internal/service/report"
	timesheetService "github.com/cmlabs-hris/timesheet-backend-go/internal/service/timesheet"
	userService "github.com/cmlabs-hris/timesheet-backend-go/internal/service/user"
	"github.com/go-chi/httplog/v3"
)

type repositories struct {
	users      user.UserRepository
	tokens     auth.RefreshTokenRepository
	timesheets timesheet.TimesheetRepository
	requests   leave.LeaveRequestRepository
	close      func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Println("Error loading config:", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level:       cfg.SlogLevel(),
		ReplaceAttr: httplog.SchemaECS.Concise(cfg.App.Env != "production").ReplaceAttr,
	}))
	slog.SetDefault(logger)

	if err := run(cfg, logger); err != nil {
		logger.Error("Server stopped with error", "error", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	defer repos.close()

	emailService, err := email.NewEmailService(cfg.SMTP)
	if err != nil {
		return fmt.Errorf("initialize email service: %w", err)
	}
	notifier := notification.NewEmailNotifier(emailService, notification.Config{})
	defer notifier.Stop()

	JWTService := jwt.NewJWTService(cfg.JWT.Secret, cfg.JWT.AccessExpiration, cfg.JWT.RefreshExpiration)

	authSvc := serviceAuth.NewAuthService(repos.users, repos.tokens, JWTService)
	userSvc := userService.NewUserService(repos.users, repos.tokens, notifier)
	timesheetSvc := timesheetService.NewTimesheetService(repos.timesheets, repos.users, notifier)
	leaveSvc := leaveService.NewLeaveService(repos.requests, repos.users, notifier)
	dashboardSvc := dashboardService.NewDashboardService(repos.users, repos.timesheets, repos.requests)
	reportSvc := reportService.NewReportService(repos.users, repos.timesheets)

	created, err := userSvc.EnsureAdmin(ctx, cfg.Bootstrap.AdminName, cfg.Bootstrap.AdminEmail, cfg.Bootstrap.AdminPassword)
	if err != nil {
		return fmt.Errorf("bootstrap admin: %w", err)
	}
	if created {
		logger.Info("Bootstrap admin created", "email", cfg.Bootstrap.AdminEmail)
	}

	router := appHTTP.NewRouter(logger, cfg.App.CORSOrigins, JWTService, appHTTP.Handlers{
		Auth:      appHTTP.NewAuthHandler(JWTService, authSvc),
		User:      appHTTP.NewUserHandler(userSvc),
		Timesheet: appHTTP.NewTimesheetHandler(timesheetSvc),
		Leave:     appHTTP.NewLeaveHandler(leaveSvc),
		Dashboard: appHTTP.NewDashboardHandler(dashboardSvc),
		Report:    appHTTP.NewReportHandler(reportSvc),
	})

	server := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.App.Port),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server running", "addr", server.Addr, "driver", cfg.Database.Driver)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func openRepositories(ctx context.Context, cfg *config.Config) (repositories, error) {
	switch cfg.Database.Driver {
	case config.DriverPostgres:
		db, err := database.NewPostgreSQLDB(ctx, cfg.DatabaseURL())
		if err != nil {
			return repositories{}, fmt.Errorf("connect to postgres: %w", err)
		}
		if err := database.RunMigrations(db); err != nil {
			db.Close()
			return repositories{}, fmt.Errorf("run migrations: %w", err)
		}
		return repositories{
			users:      postgresql.NewUserRepository(db),
			tokens:     postgresql.NewJWTRepository(db),
			timesheets: postgresql.NewTimesheetRepository(db),
			requests:   postgresql.NewLeaveRequestRepository(db),
			close:      db.Close,
		}, nil

	case config.DriverMongo:
		db, err := database.NewMongoDB(ctx, cfg.Database.MongoURI, cfg.Database.MongoDatabase)
		if err != nil {
			return repositories{}, fmt.Errorf("connect to mongo: %w", err)
		}
		closeDB := func() {
			closeCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := db.Close(closeCtx); err != nil {
				slog.Error("Failed to close mongo client", "error", err)
			}
		}
		if err := mongodb.EnsureIndexes(ctx, db); err != nil {
			closeDB()
			return repositories{}, fmt.Errorf("ensure indexes: %w", err)
		}
		return repositories{
			users:      mongodb.NewUserRepository(db),
			tokens:     mongodb.NewJWTRepository(db),
			timesheets: mongodb.NewTimesheetRepository(db),
			requests:   mongodb.NewLeaveRequestRepository(db),
			close:      closeDB,
		}, nil

	case config.DriverMemory:
		slog.Warn("Using in-memory storage; data is lost on restart")
		store := memory.NewStore()
		return repositories{
			users:      memory.NewUserRepository(store),
			tokens:     memory.NewJWTRepository(store),
			timesheets: memory.NewTimesheetRepository(store),
			requests:   memory.NewLeaveRequestRepository(store),
			close:      func() {},
		}, nil
	}
	return repositories{}, fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
}
