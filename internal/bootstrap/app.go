package bootstrap

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	googleauth "resume-maker/internal/auth"
	"resume-maker/internal/documents"
	"resume-maker/internal/payload"
	"resume-maker/internal/pdf"
	"resume-maker/internal/preview"
	"resume-maker/internal/render"
	"resume-maker/internal/services/health"
	"resume-maker/internal/shared/auth"
	"resume-maker/internal/shared/config"
	"resume-maker/internal/shared/server"
	"resume-maker/internal/shared/server/session"
	"resume-maker/internal/shared/storage/db"
	"resume-maker/internal/shared/telemetry"
	"resume-maker/internal/styles"
	"resume-maker/internal/users"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config       config.Config
	Router       *gin.Engine
	DB           *sql.DB
	Redis        redis.UniversalClient
	PreviewStore preview.Store
	// Janitor is the in-process preview store, nil when previews live in Redis.
	Janitor   *preview.MemoryStore
	Converter pdf.Converter

	UsersRepo          users.Repo
	UsersService       *users.Service
	UsersHandler       *users.Handler
	ResumeService      *documents.Service[payload.Resume]
	CoverLetterService *documents.Service[payload.CoverLetter]
	ResumeHandler      *documents.ResumeHandler
	CoverLetterHandler *documents.CoverLetterHandler
	GoogleAuth         *googleauth.GoogleService
}

type options struct {
	converter    pdf.Converter
	now          func() time.Time
	passwordCost int
}

// Option overrides a default dependency.
type Option func(*options)

// WithConverter replaces headless Chrome with conv.
func WithConverter(conv pdf.Converter) Option {
	return func(o *options) { o.converter = conv }
}

// WithClock sets the clock used for cover letter dates and account timestamps.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithPasswordCost sets the bcrypt cost for new passwords.
func WithPasswordCost(cost int) Option {
	return func(o *options) { o.passwordCost = cost }
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config, opts ...Option) (*App, error) {
	o := options{now: time.Now}
	for _, opt := range opts {
		opt(&o)
	}
	ctx := context.Background()

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	app := &App{Config: cfg, DB: sqlDB}
	if err := buildPreviewStore(ctx, app); err != nil {
		app.Close()
		return nil, err
	}

	app.Converter = o.converter
	if app.Converter == nil {
		app.Converter = pdf.NewChromeConverter(pdf.ChromeOptions{
			ExecPath: cfg.PDF.ChromePath,
			Timeout:  cfg.PDF.Timeout,
		})
	}

	if err := buildServices(app, o); err != nil {
		app.Close()
		return nil, err
	}
	return app, nil
}

func buildDB(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.memory_accounts", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, errors.New("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.ServerPool(cfg.DB))
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB); err != nil {
		_ = sqlDB.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}
	return sqlDB, nil
}

func buildPreviewStore(ctx context.Context, app *App) error {
	cfg := app.Config
	switch cfg.Preview.Store {
	case "redis":
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return fmt.Errorf("connect redis: %w", err)
		}
		app.Redis = client
		app.PreviewStore = preview.NewRedisStore(client, cfg.Redis.KeyPrefix)
	default:
		store := preview.NewMemoryStore(nil)
		app.Janitor = store
		app.PreviewStore = store
	}
	return nil
}

func buildServices(app *App, o options) error {
	cfg := app.Config
	views, err := render.New(styles.Resume, styles.CoverLetter)
	if err != nil {
		return fmt.Errorf("load templates: %w", err)
	}
	signer, err := auth.NewSigner(cfg.SecretKey, cfg.SessionTTL)
	if err != nil {
		return err
	}
	sessions := session.NewManager(signer, cfg.IsProduction())

	if app.DB != nil {
		app.UsersRepo = &users.PGRepo{DB: app.DB}
	} else {
		app.UsersRepo = users.NewMemoryRepo()
	}
	app.UsersService = users.NewService(app.UsersRepo)
	app.UsersService.Now = o.now
	app.UsersService.Cost = o.passwordCost
	app.UsersHandler = users.NewHandler(app.UsersService, sessions, views)
	app.UsersHandler.GoogleEnabled = cfg.Google.Enabled()

	app.ResumeService = &documents.Service[payload.Resume]{
		Styles:       styles.Resume,
		Cache:        preview.NewCache[payload.Resume](app.PreviewStore, "resume:", cfg.Preview.TTL),
		Views:        views,
		Converter:    app.Converter,
		DownloadPath: "/resume/download/",
	}
	app.CoverLetterService = &documents.Service[payload.CoverLetter]{
		Styles:       styles.CoverLetter,
		Cache:        preview.NewCache[payload.CoverLetter](app.PreviewStore, "cover_letter:", cfg.Preview.TTL),
		Views:        views,
		Converter:    app.Converter,
		DownloadPath: "/cover_letter/download/",
	}
	app.ResumeHandler = documents.NewResumeHandler(app.ResumeService, views)
	app.CoverLetterHandler = documents.NewCoverLetterHandler(app.CoverLetterService, views)
	app.CoverLetterHandler.Now = o.now

	if cfg.Google.Enabled() {
		app.GoogleAuth = googleauth.NewGoogleService(cfg.Google, app.UsersService, app.UsersHandler)
	}

	checks := health.NewService()
	if app.DB != nil {
		checks.Register("postgres", app.DB.PingContext)
	}
	if app.Redis != nil {
		checks.Register("redis", func(ctx context.Context) error { return app.Redis.Ping(ctx).Err() })
	}

	app.Router = server.NewRouter(server.RouterDeps{
		Config:             cfg,
		Views:              views,
		Sessions:           sessions,
		UserHandler:        app.UsersHandler,
		ResumeHandler:      app.ResumeHandler,
		CoverLetterHandler: app.CoverLetterHandler,
		GoogleAuth:         app.GoogleAuth,
		Health:             checks,
	})
	return nil
}

// RunJanitor sweeps expired in-process previews until ctx is done. It
// returns immediately when previews live in Redis.
func (a *App) RunJanitor(ctx context.Context) error {
	if a.Janitor == nil {
		return nil
	}
	return a.Janitor.Run(ctx, a.Config.Preview.SweepInterval)
}

// Close releases the database, Redis and browser.
func (a *App) Close() {
	if closer, ok := a.Converter.(interface{ Close() }); ok {
		closer.Close()
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
}
