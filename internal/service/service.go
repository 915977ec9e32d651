package service

import (
	"context"
	"time"

	"scnr_bridge/internal/logger"
	"scnr_bridge/internal/models"
	"scnr_bridge/internal/repository"
	"scnr_bridge/internal/switchbot"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Cleaner runs one clean cycle: authenticate, resolve the device, wait for
// the five parameters to become resolvable, dispatch the command.
type Cleaner interface {
	Clean(ctx context.Context) error
	Device(ctx context.Context) (switchbot.DeviceRef, error)
}

// Settings exposes the five clean parameters for reading and independent updates.
type Settings interface {
	Set(ctx context.Context, name, value string) error
	Status(ctx context.Context) (models.BridgeStatus, error)
	Rooms() []string
}

// EventLog exposes append-only cycle logs with filtering access.
type EventLog interface {
	List(ctx context.Context, f LogFilter) ([]models.CleanEvent, error)
}

// LogFilter supports history filtering by time range and type.
type LogFilter struct {
	From time.Time // inclusive; zero means no lower bound
	To   time.Time // inclusive; zero means no upper bound
	Type string    // "", "TRIGGER", "READY", "TIMEOUT", "DISPATCH", "ERROR", "SETTING_CHANGE"
}

// Config carries the service-level policy knobs read from configuration.
type Config struct {
	Rooms      []string // valid room codes; external configuration data
	Exclusive  bool     // per-device exclusive-execution guard for clean cycles
	Debug      bool     // log raw vendor response bodies
	SigningKey string   // JWT signing key for the bridge API
}

//
// Root Service aggregates all sub-services.
//

type Service struct {
	Cleaner
	Settings
	EventLog
	Authorization
}

// NewService wires the repository layer and the vendor client into concrete services.
func NewService(repos *repository.Repository, client *switchbot.Client, log *logger.Logger, cfg Config) *Service {
	params := NewParamsService(repos.Params, repos.Events, cfg.Rooms)
	return &Service{
		Cleaner:       NewCleanerService(client, repos.Params, repos.Events, log, cfg.Exclusive, cfg.Debug),
		Settings:      params,
		EventLog:      NewEventLogService(repos.Events),
		Authorization: NewAuthService(repos.Auth, cfg.SigningKey),
	}
}
