package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/programpal/pathfinder/internal/config"
	"github.com/programpal/pathfinder/internal/db"
	"github.com/programpal/pathfinder/internal/markdown"
	"github.com/programpal/pathfinder/internal/repository"
	"github.com/programpal/pathfinder/internal/service"
	"github.com/programpal/pathfinder/internal/service/search"
	"github.com/programpal/pathfinder/internal/storage"
)

type App struct {
	Cfg             *config.Config
	DB              *sqlx.DB
	AuthService     *service.AuthService
	ProgramService  *service.ProgramService
	DocumentService *service.DocumentService
	EmailService    *service.EmailService
	AnalysisService *service.AnalysisService
	Search          *search.Aggregator
}

func New(ctx context.Context, cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(ctx, cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(ctx, database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	programRepository := repository.NewProgramRepository(database)
	documentRepository := repository.NewDocumentRepository(database)
	emailRepository := repository.NewEmailRepository(database)

	// Storage
	blobStorage, err := storage.New(ctx, cfg)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Services
	authService := service.NewAuthService(userRepository, cfg.JWTSecret, cfg.JWTExpiry)
	programService := service.NewProgramService(programRepository)
	documentService := service.NewDocumentService(documentRepository, storage.NewDocumentStore(blobStorage), cfg.MaxUploadBytes)
	mailer := service.NewResendMailer(cfg.ResendAPIKey, cfg.EmailFrom, cfg.IsDevelopment())
	emailService := service.NewEmailService(emailRepository, mailer, markdown.NewParser(), cfg.EmailDomain)
	analysisService := service.NewAnalysisService(documentService, service.StubAnalyzer{}, cfg.MaxUploadBytes)

	return &App{
		Cfg:             cfg,
		DB:              database,
		AuthService:     authService,
		ProgramService:  programService,
		DocumentService: documentService,
		EmailService:    emailService,
		AnalysisService: analysisService,
		Search:          search.New(ctx, cfg),
	}, nil
}

func (a *App) Close() error {
	var errs []error
	if a.Search != nil {
		errs = append(errs, a.Search.Close())
	}
	if a.DB != nil {
		errs = append(errs, a.DB.Close())
	}
	return errors.Join(errs...)
}
