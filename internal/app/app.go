package app

import (
	"fmt"

	"github.com/dakflow/dakflow/internal/config"
	"github.com/dakflow/dakflow/internal/db"
	"github.com/dakflow/dakflow/internal/repository"
	"github.com/dakflow/dakflow/internal/service"
	"github.com/dakflow/dakflow/internal/service/mailer"
	"github.com/dakflow/dakflow/internal/storage"
	"github.com/jmoiron/sqlx"
)

type App struct {
	Cfg               *config.Config
	DB                *sqlx.DB
	AuthService       *service.AuthService
	FileService       *service.FileService
	EmailService      *service.EmailService
	DepartmentService *service.DepartmentService
}

func New(cfg *config.Config) (*App, error) {
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	tokenRepository := repository.NewTokenRepository(database)
	fileRepository := repository.NewFileRepository(database)
	historyRepository := repository.NewStatusHistoryRepository(database)
	threadRepository := repository.NewEmailThreadRepository(database)
	departmentRepository := repository.NewDepartmentRepository(database)

	// Storage
	fileStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Mail transport: Resend when an API key is configured,
	// otherwise the local SMTP relay
	mailProvider, err := mailer.NewProvider(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize mail transport: %v", err)
	}

	// Services
	authService := service.NewAuthService(
		userRepository,
		tokenRepository,
		cfg.JWTSecret,
		cfg.JWTExpiry,
		cfg.RefreshTokenExpiry,
	)
	fileService := service.NewFileService(fileRepository, historyRepository, fileStorage)
	emailService := service.NewEmailService(threadRepository, mailProvider, cfg.EmailSender, cfg.EmailFrom, cfg.SendTimeout)
	departmentService := service.NewDepartmentService(departmentRepository)

	return &App{
		Cfg:               cfg,
		DB:                database,
		AuthService:       authService,
		FileService:       fileService,
		EmailService:      emailService,
		DepartmentService: departmentService,
	}, nil
}

func (a *App) Close() error {
	return db.Close(a.DB)
}
