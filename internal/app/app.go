package app

import (
	"fmt"

	"github.com/asistio/asistio/internal/config"
	"github.com/asistio/asistio/internal/db"
	"github.com/asistio/asistio/internal/directory"
	"github.com/asistio/asistio/internal/repository"
	"github.com/asistio/asistio/internal/service"
	"github.com/asistio/asistio/internal/storage"
	"github.com/jmoiron/sqlx"
)

type App struct {
	Cfg               *config.Config
	DB                *sqlx.DB
	Directory         directory.Directory
	AuthService       *service.AuthService
	ProvisionService  *service.ProvisionService
	ProfileService    *service.ProfileService
	AttendanceService *service.AttendanceService
	ReferenceService  *service.ReferenceService
	EmailService      *service.EmailService
	AvatarService     *service.AvatarService
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
	profileRepository := repository.NewProfileRepository(database)
	attendanceRepository := repository.NewAttendanceRepository(database)
	referenceRepository := repository.NewReferenceRepository(database)
	tokenRepository := repository.NewTokenRepository(database)

	// Account directory
	dir := directory.New(database)

	// Storage
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
	authService := service.NewAuthService(
		dir,
		tokenRepository,
		emailService,
		cfg.JWTSecret,
		cfg.IsProduction(),
		cfg.JWTExpiry,
		cfg.TokenResetExpiry,
	)
	provisionService := service.NewProvisionService(dir, profileRepository)
	profileService := service.NewProfileService(profileRepository)
	attendanceService := service.NewAttendanceService(attendanceRepository, profileRepository)
	referenceService := service.NewReferenceService(referenceRepository)
	avatarService := service.NewAvatarService(profileRepository, avatarStorage)

	return &App{
		Cfg:               cfg,
		DB:                database,
		Directory:         dir,
		AuthService:       authService,
		ProvisionService:  provisionService,
		ProfileService:    profileService,
		AttendanceService: attendanceService,
		ReferenceService:  referenceService,
		EmailService:      emailService,
		AvatarService:     avatarService,
	}, nil
}

func (a *App) Close() error {
	if a.DB != nil {
		return a.DB.Close()
	}
	return nil
}
