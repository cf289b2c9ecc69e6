package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-redis/redis"
	"github.com/xpanvictor/portfolio/internal/config"
	"github.com/xpanvictor/portfolio/internal/constants/prompts"
	"github.com/xpanvictor/portfolio/internal/domains/analytics"
	"github.com/xpanvictor/portfolio/internal/domains/blog"
	"github.com/xpanvictor/portfolio/internal/domains/chat"
	"github.com/xpanvictor/portfolio/internal/domains/github"
	"github.com/xpanvictor/portfolio/internal/domains/leads"
	"github.com/xpanvictor/portfolio/internal/domains/user"
	"github.com/xpanvictor/portfolio/internal/handlers"
	analyticsRepo "github.com/xpanvictor/portfolio/internal/repository/analytics"
	blogRepo "github.com/xpanvictor/portfolio/internal/repository/blog"
	chatRepo "github.com/xpanvictor/portfolio/internal/repository/chat"
	leadsRepo "github.com/xpanvictor/portfolio/internal/repository/leads"
	userRepo "github.com/xpanvictor/portfolio/internal/repository/user"
	"github.com/xpanvictor/portfolio/internal/server"
	"github.com/xpanvictor/portfolio/pkg/Logger"
	"github.com/xpanvictor/portfolio/pkg/geoip"
	"github.com/xpanvictor/portfolio/pkg/mailer"
	"gorm.io/gorm"
)

// App represents the application with all its dependencies
type App struct {
	Config *config.Settings
	Logger *Logger.Logger
	DB     *gorm.DB
	RC     *redis.Client

	Locator  geoip.Locator
	Gate     *chat.Gate
	Recorder *chat.Recorder
	Handlers server.Handlers

	UserService user.UserService

	closers []func() error
}

// NewApp creates a new application instance with all dependencies properly wired.
// rc may be nil, in which case caches stay in process.
func NewApp(ctx context.Context, cfg *config.Settings, logger *Logger.Logger, db *gorm.DB, rc *redis.Client) (*App, error) {
	app := &App{
		Config: cfg,
		Logger: logger,
		DB:     db,
		RC:     rc,
	}

	if err := app.setupDependencies(ctx); err != nil {
		_ = app.Close()
		return nil, err
	}
	return app, nil
}

func (a *App) setupLocator() {
	a.Locator = geoip.Noop{}
	if a.Config.GeoIP.DatabasePath == "" {
		return
	}
	db, err := geoip.Open(a.Config.GeoIP.DatabasePath)
	if err != nil {
		a.Logger.Warnf("geo lookup disabled: %v", err)
		return
	}
	a.Locator = db
	a.closers = append(a.closers, db.Close)
}

func (a *App) setupDependencies(ctx context.Context) error {
	a.setupLocator()

	// 1. repositories
	chats := chatRepo.NewGormChatRepo(a.DB)
	users := userRepo.NewGormUserRepo(a.DB)
	posts := blogRepo.NewGormBlogRepo(a.DB)
	views := analyticsRepo.NewGormAnalyticsRepo(a.DB)
	leadStore := leadsRepo.NewGormLeadsRepo(a.DB)

	// 2. auth
	jwtSecret := a.Config.Auth.JWTSecret
	if jwtSecret == "" {
		jwtSecret = "default-secret-key-change-in-production"
		a.Logger.Warn("JWT secret not configured, using default (not secure for production)")
	}
	tokenTTLHours := a.Config.Auth.TokenTTLHours
	if tokenTTLHours == 0 {
		tokenTTLHours = 24
	}
	a.UserService = user.NewUserService(users, a.Logger.Named("auth"), jwtSecret, time.Duration(tokenTTLHours)*time.Hour)

	// 3. chat core
	systemPrompt, err := prompts.BuildPortfolioPrompt(a.Config.Profile)
	if err != nil {
		return fmt.Errorf("failed to build system prompt: %w", err)
	}
	provider, release, err := NewProviderFactory(a.Config.LLM, a.Logger).CreateProvider(ctx)
	if err != nil {
		return err
	}
	a.closers = append(a.closers, release)

	chatLogger := a.Logger.Named("chat")
	a.Gate = chat.NewGate(chat.GateConfig{
		Limit:         a.Config.Chat.RateLimit,
		Window:        a.Config.Chat.RateWindow,
		MaxIdentities: a.Config.Chat.MaxIdentities,
		Quota:         a.Config.Chat.SessionQuota,
	}, chats, chatLogger)
	a.Recorder = chat.NewRecorder(chats, a.Config.Chat.RecorderQueue, a.Config.Chat.RecorderTimeout, chatLogger)
	relay := chat.NewRelay(chat.RelayConfig{
		SystemPrompt: systemPrompt,
		HistorySize:  a.Config.LLM.HistorySize,
		MaxTokens:    a.Config.LLM.MaxTokens,
		Temperature:  a.Config.LLM.Temperature,
		QuotaMessage: a.Config.Chat.QuotaMessage,
	}, chats, a.Gate, provider, a.Recorder, chatLogger)

	// 4. supporting services
	blogService := blog.NewBlogService(posts, a.Logger.Named("blog"))
	analyticsService := analytics.NewAnalyticsService(views, a.Locator, a.Logger.Named("analytics"))
	leadsService := leads.NewLeadsService(leadStore, mailer.NewEmailJS(mailer.Config{
		Endpoint:   a.Config.Mail.Endpoint,
		ServiceID:  a.Config.Mail.ServiceID,
		TemplateID: a.Config.Mail.TemplateID,
		PublicKey:  a.Config.Mail.PublicKey,
		PrivateKey: a.Config.Mail.PrivateKey,
		RatePerSec: a.Config.Mail.RatePerSec,
		Burst:      a.Config.Mail.Burst,
	}), a.Logger.Named("leads"))
	githubService := github.NewGitHubService(
		github.NewClient(a.Config.GitHub.BaseURL, a.Config.GitHub.Username, a.Config.GitHub.Token, nil),
		a.githubCache(),
		a.Config.GitHub.CacheTTL,
		a.Logger.Named("github"),
	)

	// 5. transport
	trust := a.Config.Server.TrustForwardedHeaders
	a.Handlers = server.Handlers{
		Auth:      handlers.NewAuthHandler(a.UserService, a.Logger),
		Chat:      handlers.NewChatHandler(a.Gate, relay, chat.NewChatService(chats, chatLogger), a.UserService, a.Locator, trust, a.Logger),
		Blog:      handlers.NewBlogHandler(blogService, a.UserService, a.Logger),
		Analytics: handlers.NewAnalyticsHandler(analyticsService, a.UserService, trust, a.Logger),
		Leads:     handlers.NewLeadsHandler(leadsService, a.UserService, trust, a.Logger),
		Content:   handlers.NewContentHandler(a.Config.Profile, githubService, a.Logger),
	}
	return nil
}

func (a *App) githubCache() github.Cache {
	if a.RC == nil {
		return github.NewMemoryCache()
	}
	// keep a week of stale fallback in redis
	return github.NewTieredCache(github.NewRedisCache(a.RC, a.Config.GitHub.Username, 7*24*time.Hour))
}

// SeedAdmin creates the configured admin account when it does not exist yet.
func (a *App) SeedAdmin(ctx context.Context) error {
	err := a.UserService.EnsureAdmin(ctx, user.AdminSeed{
		Name:     a.Config.Auth.AdminName,
		Email:    a.Config.Auth.AdminEmail,
		Password: a.Config.Auth.AdminPassword,
	})
	if errors.Is(err, user.ErrAdminNotConfigured) {
		a.Logger.Warn("admin credentials not configured; dashboard login disabled")
		return nil
	}
	return err
}

// Start launches the background workers tied to ctx.
func (a *App) Start(ctx context.Context) {
	go a.Gate.Run(ctx, a.Config.Chat.SweepInterval)
}

func (a *App) HTTPHandler() http.Handler {
	return server.NewRouter(a.Config, a.Logger, a.Handlers)
}

// Shutdown drains pending transcripts, then releases clients.
func (a *App) Shutdown(ctx context.Context) error {
	var drainErr error
	if a.Recorder != nil {
		drainErr = a.Recorder.Close(ctx)
	}
	return errors.Join(drainErr, a.Close())
}

func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
