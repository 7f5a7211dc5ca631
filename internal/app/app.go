package app

import (
	"fmt"

	"github.com/commutelog/api/internal/config"
	"github.com/commutelog/api/internal/db"
	"github.com/commutelog/api/internal/repository"
	"github.com/commutelog/api/internal/service"
	"github.com/commutelog/api/internal/storage"
	"github.com/jmoiron/sqlx"
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	FileService    *service.FileService
	UserService    *service.UserService
	CommuteService *service.CommuteService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DSN(), db.PoolConfig{
		MaxOpen:     cfg.DBMaxOpenConns,
		MaxIdle:     cfg.DBMaxIdleConns,
		MaxLifetime: cfg.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	// Repositories
	userRepository := repository.NewUserRepository(database)
	commuteRepository := repository.NewCommuteRepository(database)

	// Storage
	fileStorage, err := storage.New(cfg)
	if err != nil {
		_ = database.Close()
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	// Services
	fileService := service.NewFileService(fileStorage)
	userService := service.NewUserService(userRepository, fileService)
	commuteService := service.NewCommuteService(commuteRepository, fileService)

	return &App{
		Cfg:            cfg,
		DB:             database,
		FileService:    fileService,
		UserService:    userService,
		CommuteService: commuteService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
