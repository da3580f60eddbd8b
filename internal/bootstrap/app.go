package bootstrap

import (
	"context"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"docstore/internal/chat"
	"docstore/internal/documents"
	"docstore/internal/extract"
	"docstore/internal/mcp"
	"docstore/internal/services/health"
	"docstore/internal/shared/config"
	"docstore/internal/shared/server"
	"docstore/internal/shared/server/middleware"
	"docstore/internal/shared/storage/db"
	"docstore/internal/shared/storage/object"
	localstore "docstore/internal/shared/storage/object/local"
	s3store "docstore/internal/shared/storage/object/s3"
	"docstore/internal/shared/telemetry"
)

// App holds shared dependencies.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sqlx.DB
	Store            object.ObjectStore
	DocumentsRepo    documents.DocumentsRepo
	DocumentsService *documents.Service
	MCPService       *mcp.Service
	ChatService      *chat.Service
	DocumentsHandler *documents.Handler
	MCPHandler       *mcp.Handler
	ChatHandler      *chat.Handler
	Health           *health.Service
}

// Build wires storage, services and the router from configuration.
func Build(cfg config.Config) (*App, error) {
	return BuildContext(context.Background(), cfg)
}

// BuildContext is Build with a caller-supplied context for connection setup.
func BuildContext(ctx context.Context, cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	if strings.TrimSpace(cfg.ObjectStoreType) == "" {
		cfg.ObjectStoreType = "local"
	}

	sqlDB, err := buildDB(ctx, cfg)
	if err != nil {
		return nil, err
	}

	store, err := buildStore(ctx, cfg)
	if err != nil {
		if sqlDB != nil {
			_ = sqlDB.Close()
		}
		return nil, err
	}

	app := &App{
		Config: cfg,
		DB:     sqlDB,
		Store:  store,
	}
	buildServices(app)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:          app.Config,
		Health:          app.Health,
		DocumentHandler: app.DocumentsHandler,
		MCPHandler:      app.MCPHandler,
		ChatHandler:     app.ChatHandler,
		ChatLimiter:     middleware.NewRateLimiter(nil),
	})

	return app, nil
}

// Close releases the database handle, if any.
func (a *App) Close() error {
	if a == nil || a.DB == nil {
		return nil
	}
	return a.DB.Close()
}

func buildDB(ctx context.Context, cfg config.Config) (*sqlx.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repo", map[string]any{"reason": "DATABASE_URL empty"})
			return nil, nil
		}
		return nil, fmt.Errorf("DATABASE_URL is required")
	}

	sqlDB, err := db.Connect(ctx, cfg.DatabaseURL, db.RuntimeOptions())
	if err == nil {
		err = db.RunMigrations(ctx, sqlDB)
		if err != nil {
			_ = sqlDB.Close()
		}
	}
	if err != nil {
		if isDevLike(cfg.Env) {
			telemetry.Warn("bootstrap.memory_repo", map[string]any{"reason": "database unavailable", "error": err})
			return nil, nil
		}
		return nil, err
	}
	return sqlDB, nil
}

func buildStore(ctx context.Context, cfg config.Config) (object.ObjectStore, error) {
	switch cfg.ObjectStoreType {
	case "s3":
		return s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
	default:
		return localstore.New(cfg.LocalStoreDir), nil
	}
}

func buildServices(app *App) {
	var docRepo documents.DocumentsRepo
	if app.DB != nil {
		docRepo = &documents.SQLRepo{DB: app.DB}
	} else {
		docRepo = documents.NewMemoryRepo()
	}

	docSvc := &documents.Service{
		Store:     app.Store,
		Repo:      docRepo,
		Extractor: extract.New(app.Store, app.Config.ExtractPDF),
	}
	mcpSvc := mcp.NewService(docRepo)
	chatSvc := chat.NewService(
		chat.NewAssembler(docRepo, app.Config.ContextMaxDocs),
		chat.NewForwarder(app.Config.Agent),
	)

	app.DocumentsRepo = docRepo
	app.DocumentsService = docSvc
	app.MCPService = mcpSvc
	app.ChatService = chatSvc
	app.DocumentsHandler = documents.NewHandler(docSvc, app.Config.MaxUploadBytes)
	app.MCPHandler = mcp.NewHandler(mcpSvc, app.Config.PublicBaseURL)
	app.ChatHandler = chat.NewHandler(chatSvc, app.Config.PublicBaseURL)
	if app.DB != nil {
		app.Health = health.NewService(app.DB)
	} else {
		app.Health = health.NewService(nil)
	}
}

func isDevLike(env string) bool {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "dev", "local", "test":
		return true
	default:
		return false
	}
}
