package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/sessions"
	"github.com/gin-contrib/sessions/cookie"
	redisStore "github.com/gin-contrib/sessions/redis"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/yukikurage/team-task-tracker/internal/billing"
	"github.com/yukikurage/team-task-tracker/internal/constants"
	"github.com/yukikurage/team-task-tracker/internal/database"
	"github.com/yukikurage/team-task-tracker/internal/handlers"
	"github.com/yukikurage/team-task-tracker/internal/identity"
	"github.com/yukikurage/team-task-tracker/internal/middleware"
	"github.com/yukikurage/team-task-tracker/internal/repository"
	"github.com/yukikurage/team-task-tracker/internal/services"
	"go.uber.org/zap"
)

func serveCmd() *cobra.Command {
	var skipMigrate bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := bootstrap()
			if err != nil {
				return err
			}
			defer app.close()

			if !skipMigrate {
				if err := database.Migrate(app.db, app.log); err != nil {
					return err
				}
			}

			return app.serve(cmd.Context())
		},
	}

	cmd.Flags().BoolVar(&skipMigrate, "skip-migrate", false, "do not run migrations on startup")
	return cmd
}

func (a *app) serve(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gin.SetMode(a.cfg.GinMode)

	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.RequestLogger(a.log))
	r.Use(middleware.Recovery(a.log))
	r.Use(cors.New(cors.Config{
		AllowOrigins:     a.cfg.AllowedOrigins(),
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", constants.HeaderRequestID},
		ExposeHeaders:    []string{constants.HeaderRequestID, "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	store, err := a.sessionStore()
	if err != nil {
		return err
	}
	r.Use(sessions.Sessions(constants.SessionCookieName, store))

	handlers.RegisterRoutes(r, a.dependencies())

	srv := &http.Server{
		Addr:              ":" + a.cfg.ServerPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	a.log.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// dependencies builds repositories, provider clients and services once for
// the whole process.
func (a *app) dependencies() handlers.Dependencies {
	userRepo := repository.NewUserRepository(a.db)
	orgRepo := repository.NewOrganizationRepository(a.db)
	taskRepo := repository.NewTaskRepository(a.db)
	subRepo := repository.NewSubscriptionRepository(a.db)
	logRepo := repository.NewLogRepository(a.db)

	directory := identity.NewLocalDirectory(orgRepo, userRepo)

	var aiService *services.AIService
	if a.cfg.OpenAIAPIKey != "" {
		aiService = services.NewAIService(a.cfg.OpenAIAPIKey)
	} else {
		a.log.Warn("OPENAI_API_KEY is not set, AI summaries are disabled")
	}
	if a.cfg.ReportServiceURL == "" {
		a.log.Warn("REPORT_SERVICE_URL is not set, PDF reports are disabled")
	}
	if a.cfg.StripeSecretKey == "" {
		a.log.Warn("STRIPE_SECRET_KEY is not set, billing is disabled")
	}

	provider := billing.NewStripeProvider(billing.StripeConfig{
		SecretKey:     a.cfg.StripeSecretKey,
		WebhookSecret: a.cfg.StripeWebhookSecret,
		PriceID:       a.cfg.StripePriceID,
		BaseURL:       a.cfg.AppBaseURL,
	})

	teamService := services.NewTeamService(taskRepo, directory, a.log)

	return handlers.Dependencies{
		TaskRepo:  taskRepo,
		OrgRepo:   orgRepo,
		Directory: directory,

		AuthService:         services.NewAuthService(userRepo),
		OrganizationService: services.NewOrganizationService(orgRepo, directory),
		TaskService:         services.NewTaskService(taskRepo, directory, a.log),
		TeamService:         teamService,
		ReportService:       services.NewReportService(a.cfg.ReportServiceURL, teamService, orgRepo, aiService, a.log),
		BillingService:      services.NewBillingService(provider, subRepo, directory, a.cfg.AppBaseURL, a.log),
		AccessService:       services.NewAccessService(subRepo, a.log),
		LogService:          services.NewLogService(logRepo),
	}
}

func (a *app) sessionStore() (sessions.Store, error) {
	options := sessions.Options{
		Path:     "/",
		MaxAge:   86400 * 7, // 7 days
		HttpOnly: true,
		Secure:   a.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	}

	if a.cfg.SessionStore == "cookie" {
		store := cookie.NewStore([]byte(a.cfg.SessionSecret))
		store.Options(options)
		return store, nil
	}

	// Pool size 10, default user.
	store, err := redisStore.NewStore(10, "tcp", a.cfg.RedisAddr(), "", a.cfg.RedisPassword, []byte(a.cfg.SessionSecret))
	if err != nil {
		return nil, fmt.Errorf("failed to create Redis session store: %w", err)
	}
	store.Options(options)
	return store, nil
}
