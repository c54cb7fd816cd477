package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/MiguelProz/kairos/internal/config"
	"github.com/MiguelProz/kairos/internal/db"
	"github.com/MiguelProz/kairos/internal/repository"
	"github.com/MiguelProz/kairos/internal/service"
	"github.com/MiguelProz/kairos/internal/storage"
)

type App struct {
	Cfg          *config.Config
	DB           *sqlx.DB
	Storage      storage.Storage
	AuthService  *service.AuthService
	UserService  *service.UserService
	EmailService *service.EmailService
	GoalService  *service.GoalService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	goalRepository := repository.NewGoalRepository(database)

	// Storage (nil when unconfigured, avatar uploads disabled)
	avatarStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Services
	emailService := service.NewEmailService(
		cfg.ResendAPIKey,
		cfg.EmailFrom,
		cfg.AppURL,
		cfg.AppName,
		cfg.IsDevelopment(),
	)
	authService := service.NewAuthService(userRepository, emailService, cfg.JWTSecret, cfg.JWTExpiry)
	userService := service.NewUserService(userRepository)
	goalService := service.NewGoalService(goalRepository)

	return &App{
		Cfg:          cfg,
		DB:           database,
		Storage:      avatarStorage,
		AuthService:  authService,
		UserService:  userService,
		EmailService: emailService,
		GoalService:  goalService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
